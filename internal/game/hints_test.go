package game

import (
	"strings"
	"testing"

	"github.com/robalobadob/pokedetective/internal/catalog"
)

func orderNames(p HintPolicy) string {
	var out []string
	for _, a := range p.Order() {
		out = append(out, a.Name)
	}
	return strings.Join(out, ",")
}

func TestDefaultHintPolicy(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	p := DefaultHintPolicy(cat.Schema())
	if got := orderNames(p); got != "generation,type,habitat,color,shape,height,weight" {
		t.Errorf("default order = %s", got)
	}

	// Attributes missing from the schema are skipped.
	if got := orderNames(DefaultHintPolicy(testSchema())); got != "generation,type,color,height" {
		t.Errorf("reduced order = %s", got)
	}
}

func TestNewHintPolicy(t *testing.T) {
	p, err := NewHintPolicy(testSchema(), "color")
	if err != nil {
		t.Fatal(err)
	}
	if got := orderNames(p); got != "color,type,generation,height" {
		t.Errorf("order = %s", got)
	}

	if _, err := NewHintPolicy(testSchema(), "name"); err == nil {
		t.Error("unknown attribute accepted")
	}
	if _, err := NewHintPolicy(testSchema(), "color", "color"); err == nil {
		t.Error("repeated attribute accepted")
	}
}

func TestHintPolicyNext(t *testing.T) {
	p := DefaultHintPolicy(testSchema())
	revealed := map[string]struct{}{}
	var got []string
	for {
		a, ok := p.Next(revealed)
		if !ok {
			break
		}
		got = append(got, a.Name)
		revealed[a.Name] = struct{}{}
	}
	if strings.Join(got, ",") != "generation,type,color,height" {
		t.Errorf("Next sequence = %v", got)
	}
}
