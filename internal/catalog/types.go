// internal/catalog/types.go
//
// Record and schema types for the creature catalog.
// Defines:
//   - Kind:      how an attribute is compared (single value, set, ordinal number).
//   - Attribute: one named column of the schema.
//   - Value:     a kind-tagged attribute value.
//   - Creature:  an immutable catalog entry.

package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the declared type of an attribute.
type Kind int

const (
	KindSingle  Kind = iota // one categorical value, e.g. color
	KindSet                 // a set of categorical values, e.g. dual types
	KindOrdinal             // an integer in quantized units, e.g. height in decimeters
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindSet:
		return "set"
	case KindOrdinal:
		return "ordinal"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind maps the catalog file spelling of a kind to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "categorical":
		return KindSingle, nil
	case "set", "multi":
		return KindSet, nil
	case "ordinal", "number", "numeric":
		return KindOrdinal, nil
	}
	return 0, fmt.Errorf("catalog: unknown attribute kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Attribute is one named field of the schema.
type Attribute struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
}

// Schema is the ordered attribute list shared by every creature in a catalog.
type Schema []Attribute

// Lookup returns the attribute called name.
func (s Schema) Lookup(name string) (Attribute, bool) {
	for _, a := range s {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Names returns attribute names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Name
	}
	return out
}

// Validate checks that the schema is non-empty and names are unique.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("catalog: schema has no attributes")
	}
	seen := make(map[string]struct{}, len(s))
	for i, a := range s {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("catalog: schema attribute %d has no name", i)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("catalog: duplicate schema attribute %q", a.Name)
		}
		if a.Kind < KindSingle || a.Kind > KindOrdinal {
			return fmt.Errorf("catalog: attribute %q has invalid kind %d", a.Name, a.Kind)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

// Value is a kind-tagged attribute value. Only the field matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Text   string
	Set    []string
	Number int
}

// Single builds a categorical value.
func Single(text string) Value {
	return Value{Kind: KindSingle, Text: strings.TrimSpace(text)}
}

// SetOf builds a set value. Members keep their declared order; blanks and
// case-insensitive duplicates are dropped.
func SetOf(items ...string) Value {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		k := strings.ToLower(it)
		if it == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return Value{Kind: KindSet, Set: out}
}

// Ordinal builds a numeric value.
func Ordinal(n int) Value {
	return Value{Kind: KindOrdinal, Number: n}
}

// String renders the value for display: sets are slash-joined.
func (v Value) String() string {
	switch v.Kind {
	case KindSet:
		return strings.Join(v.Set, "/")
	case KindOrdinal:
		return strconv.Itoa(v.Number)
	}
	return v.Text
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindSet:
		if v.Set == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Set)
	case KindOrdinal:
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

func (v Value) clone() Value {
	if v.Set != nil {
		v.Set = append([]string(nil), v.Set...)
	}
	return v
}

// Creature is one catalog entry. Values are copied in and out, so a Creature
// cannot be changed after construction.
type Creature struct {
	ID    int
	Name  string
	attrs map[string]Value
}

// NewCreature copies attrs into a new record. Schema conformance is checked by New.
func NewCreature(id int, name string, attrs map[string]Value) Creature {
	cp := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		cp[k] = v.clone()
	}
	return Creature{ID: id, Name: strings.TrimSpace(name), attrs: cp}
}

// Attr returns the value of attribute name.
func (c Creature) Attr(name string) (Value, bool) {
	v, ok := c.attrs[name]
	if !ok {
		return Value{}, false
	}
	return v.clone(), true
}

// IsZero reports whether c is the zero Creature.
func (c Creature) IsZero() bool { return c.ID == 0 && c.Name == "" && c.attrs == nil }

func (c Creature) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int              `json:"id"`
		Name       string           `json:"name"`
		Attributes map[string]Value `json:"attributes"`
	}{c.ID, c.Name, c.attrs})
}
