// internal/catalog/catalog.go
//
// The creature catalog: an insertion-ordered, read-only collection with
// name lookup and suggestion queries.
//
// Responsibilities:
//   - Validate records against the schema once, at construction.
//   - Exact lookup by name key (case- and accent-insensitive) in O(1).
//   - Prefix/substring suggestions for autocomplete.
//   - Nearest-name lookup for "did you mean" messages.
//
// A Catalog never changes after New returns, so it is safe to share between
// sessions and goroutines.

package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrEmpty is returned when a catalog would contain no creatures.
var ErrEmpty = errors.New("catalog: no creatures")

// Catalog is the shared, immutable creature collection.
type Catalog struct {
	schema    Schema
	creatures []Creature
	keys      []string       // name key per creature, same index
	byKey     map[string]int // name key → index
	byID      map[int]int    // id → index
	sorted    []int          // creature indexes ordered by key, for prefix search
}

// New validates creatures against schema and builds the lookup indexes.
func New(schema Schema, creatures []Creature) (*Catalog, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if len(creatures) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		schema:    append(Schema(nil), schema...),
		creatures: make([]Creature, 0, len(creatures)),
		keys:      make([]string, 0, len(creatures)),
		byKey:     make(map[string]int, len(creatures)),
		byID:      make(map[int]int, len(creatures)),
	}
	for _, cr := range creatures {
		if err := conform(schema, cr); err != nil {
			return nil, err
		}
		k := Key(cr.Name)
		if k == "" {
			return nil, fmt.Errorf("catalog: creature %d has no name", cr.ID)
		}
		if prev, dup := c.byKey[k]; dup {
			return nil, fmt.Errorf("catalog: name %q used by creatures %d and %d", cr.Name, c.creatures[prev].ID, cr.ID)
		}
		if _, dup := c.byID[cr.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate creature id %d", cr.ID)
		}
		idx := len(c.creatures)
		c.creatures = append(c.creatures, NewCreature(cr.ID, cr.Name, cr.attrs))
		c.keys = append(c.keys, k)
		c.byKey[k] = idx
		c.byID[cr.ID] = idx
	}
	c.sorted = make([]int, len(c.creatures))
	for i := range c.sorted {
		c.sorted[i] = i
	}
	sort.Slice(c.sorted, func(i, j int) bool { return c.keys[c.sorted[i]] < c.keys[c.sorted[j]] })
	return c, nil
}

// conform checks that cr carries exactly the schema's attributes with matching kinds.
func conform(schema Schema, cr Creature) error {
	for _, a := range schema {
		v, ok := cr.attrs[a.Name]
		if !ok {
			return fmt.Errorf("catalog: creature %q is missing attribute %q", cr.Name, a.Name)
		}
		if v.Kind != a.Kind {
			return fmt.Errorf("catalog: creature %q attribute %q is %s, schema says %s", cr.Name, a.Name, v.Kind, a.Kind)
		}
		if a.Kind == KindSet && len(v.Set) == 0 {
			return fmt.Errorf("catalog: creature %q attribute %q is an empty set", cr.Name, a.Name)
		}
	}
	if len(cr.attrs) != len(schema) {
		for name := range cr.attrs {
			if _, ok := schema.Lookup(name); !ok {
				return fmt.Errorf("catalog: creature %q has unknown attribute %q", cr.Name, name)
			}
		}
	}
	return nil
}

// Schema returns a copy of the attribute schema.
func (c *Catalog) Schema() Schema { return append(Schema(nil), c.schema...) }

// Len is the number of creatures.
func (c *Catalog) Len() int { return len(c.creatures) }

// All returns every creature in insertion order.
func (c *Catalog) All() []Creature { return append([]Creature(nil), c.creatures...) }

// At returns the creature at insertion index i.
func (c *Catalog) At(i int) Creature { return c.creatures[i] }

// ByID returns the creature with the given id.
func (c *Catalog) ByID(id int) (Creature, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Creature{}, false
	}
	return c.creatures[i], true
}

// Lookup finds a creature by exact name, ignoring case, accents and surrounding space.
func (c *Catalog) Lookup(name string) (Creature, bool) {
	i, ok := c.byKey[Key(name)]
	if !ok {
		return Creature{}, false
	}
	return c.creatures[i], true
}

// Suggest returns up to limit creatures whose name contains query. Prefix
// matches come first, then other substring matches; each group keeps catalog
// order. An empty query yields nothing.
func (c *Catalog) Suggest(query string, limit int) []Creature {
	q := Key(query)
	if q == "" || limit <= 0 {
		return nil
	}

	lo := sort.Search(len(c.sorted), func(i int) bool { return c.keys[c.sorted[i]] >= q })
	var prefix []int
	for i := lo; i < len(c.sorted) && strings.HasPrefix(c.keys[c.sorted[i]], q); i++ {
		prefix = append(prefix, c.sorted[i])
	}
	sort.Ints(prefix)

	out := make([]Creature, 0, min(limit, 8))
	for _, idx := range prefix {
		if len(out) == limit {
			return out
		}
		out = append(out, c.creatures[idx])
	}
	for idx, k := range c.keys {
		if len(out) == limit {
			break
		}
		if !strings.HasPrefix(k, q) && strings.Contains(k, q) {
			out = append(out, c.creatures[idx])
		}
	}
	return out
}

// Closest returns the creature whose name is nearest to name by edit distance,
// if it is close enough to be a plausible typo. Ties go to catalog order.
func (c *Catalog) Closest(name string) (Creature, bool) {
	q := Key(name)
	if len(q) < 3 {
		return Creature{}, false
	}
	best, bestDist := -1, 0
	for idx, k := range c.keys {
		d := levenshtein.ComputeDistance(q, k)
		if d > typoLimit(len(k)) {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = idx, d
		}
	}
	if best < 0 {
		return Creature{}, false
	}
	return c.creatures[best], true
}

func typoLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
