// internal/catalog/load.go
//
// Catalog loading from YAML.
//
// Sources:
//   1. LoadFile(path): a catalog document on disk (CATALOG_FILE).
//   2. Default():      the catalog embedded in the assets package.
//
// Document shape:
//
//	schema:
//	  - {name: type, label: Type, kind: set}
//	  - {name: height, label: Height, kind: ordinal}
//	creatures:
//	  - id: 25
//	    name: Pikachu
//	    attributes: {type: [Electric], height: 4}
//
// A set attribute may also be written as a bare scalar ("type: Fire").

package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/pokedetective/assets"
)

type yamlAttribute struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
}

type yamlCreature struct {
	ID         int                  `yaml:"id"`
	Name       string               `yaml:"name"`
	Attributes map[string]yaml.Node `yaml:"attributes"`
}

type yamlDocument struct {
	Schema    []yamlAttribute `yaml:"schema"`
	Creatures []yamlCreature  `yaml:"creatures"`
}

// LoadYAML decodes a catalog document and validates it with New.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}

	schema := make(Schema, 0, len(doc.Schema))
	for _, a := range doc.Schema {
		k, err := ParseKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		label := a.Label
		if label == "" {
			label = a.Name
		}
		schema = append(schema, Attribute{Name: a.Name, Label: label, Kind: k})
	}

	creatures := make([]Creature, 0, len(doc.Creatures))
	for _, yc := range doc.Creatures {
		attrs := make(map[string]Value, len(yc.Attributes))
		for name, node := range yc.Attributes {
			a, ok := schema.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("catalog: creature %q has unknown attribute %q", yc.Name, name)
			}
			v, err := decodeValue(a.Kind, &node)
			if err != nil {
				return nil, fmt.Errorf("catalog: creature %q attribute %q: %w", yc.Name, name, err)
			}
			attrs[name] = v
		}
		creatures = append(creatures, NewCreature(yc.ID, yc.Name, attrs))
	}
	return New(schema, creatures)
}

func decodeValue(k Kind, node *yaml.Node) (Value, error) {
	switch k {
	case KindSet:
		if node.Kind == yaml.ScalarNode {
			var s string
			if err := node.Decode(&s); err != nil {
				return Value{}, err
			}
			return SetOf(s), nil
		}
		var items []string
		if err := node.Decode(&items); err != nil {
			return Value{}, err
		}
		return SetOf(items...), nil
	case KindOrdinal:
		var n int
		if err := node.Decode(&n); err != nil {
			return Value{}, err
		}
		return Ordinal(n), nil
	default:
		var s string
		if err := node.Decode(&s); err != nil {
			return Value{}, err
		}
		return Single(s), nil
	}
}

// LoadFile reads a catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	f, err := assets.FS.Open(assets.CatalogFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}
