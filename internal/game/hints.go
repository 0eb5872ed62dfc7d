package game

import (
	"fmt"

	"github.com/robalobadob/pokedetective/internal/catalog"
)

// DefaultHintPriority is the reveal order used when none is configured.
// Names missing from a catalog's schema are skipped.
var DefaultHintPriority = []string{"generation", "type", "habitat", "color", "shape", "height", "weight"}

// HintPolicy is a fixed reveal order over the schema. It never depends on the
// target's values and never includes the creature's name.
type HintPolicy struct {
	order []catalog.Attribute
}

// NewHintPolicy orders the listed attributes first, then the rest of the
// schema in schema order. Unknown or repeated names are an error.
func NewHintPolicy(schema catalog.Schema, priority ...string) (HintPolicy, error) {
	order := make([]catalog.Attribute, 0, len(schema))
	used := make(map[string]struct{}, len(schema))
	for _, name := range priority {
		a, ok := schema.Lookup(name)
		if !ok {
			return HintPolicy{}, fmt.Errorf("hint policy: attribute %q not in schema", name)
		}
		if _, dup := used[name]; dup {
			return HintPolicy{}, fmt.Errorf("hint policy: attribute %q listed twice", name)
		}
		used[name] = struct{}{}
		order = append(order, a)
	}
	for _, a := range schema {
		if _, ok := used[a.Name]; !ok {
			order = append(order, a)
		}
	}
	return HintPolicy{order: order}, nil
}

// DefaultHintPolicy applies DefaultHintPriority to schema.
func DefaultHintPolicy(schema catalog.Schema) HintPolicy {
	var names []string
	for _, n := range DefaultHintPriority {
		if _, ok := schema.Lookup(n); ok {
			names = append(names, n)
		}
	}
	p, _ := NewHintPolicy(schema, names...)
	return p
}

// Order returns the full reveal order.
func (p HintPolicy) Order() []catalog.Attribute {
	return append([]catalog.Attribute(nil), p.order...)
}

// Next returns the first attribute in the order that is not yet revealed.
func (p HintPolicy) Next(revealed map[string]struct{}) (catalog.Attribute, bool) {
	for _, a := range p.order {
		if _, done := revealed[a.Name]; !done {
			return a, true
		}
	}
	return catalog.Attribute{}, false
}
