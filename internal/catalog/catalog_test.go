package catalog

import (
	"errors"
	"strings"
	"testing"
)

func testSchema() Schema {
	return Schema{
		{Name: "type", Label: "Type", Kind: KindSet},
		{Name: "generation", Label: "Generation", Kind: KindOrdinal},
		{Name: "color", Label: "Color", Kind: KindSingle},
		{Name: "height", Label: "Height", Kind: KindOrdinal},
	}
}

func mon(id int, name string, types []string, gen int, color string, height int) Creature {
	return NewCreature(id, name, map[string]Value{
		"type":       SetOf(types...),
		"generation": Ordinal(gen),
		"color":      Single(color),
		"height":     Ordinal(height),
	})
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := New(testSchema(), []Creature{
		mon(25, "Pikachu", []string{"Electric"}, 1, "yellow", 4),
		mon(172, "Pichu", []string{"Electric"}, 2, "yellow", 3),
		mon(26, "Raichu", []string{"Electric"}, 1, "yellow", 8),
		mon(4, "Charmander", []string{"Fire"}, 1, "red", 6),
		mon(669, "Flabébé", []string{"Fairy"}, 6, "white", 1),
		mon(122, "Mr. Mime", []string{"Psychic", "Fairy"}, 1, "pink", 13),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cat
}

func names(cs []Creature) string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return strings.Join(out, ",")
}

func TestKey(t *testing.T) {
	cases := map[string]string{
		"Pikachu":       "pikachu",
		"  PIKACHU  ":   "pikachu",
		"Flabébé":       "flabebe",
		"FLABEBE":       "flabebe",
		"Mr.   Mime":    "mr. mime",
		"\tmr. mime\n":  "mr. mime",
		"":              "",
		"   ":           "",
		"Nidoran♀":      "nidoran♀",
		"Farfetch'd":    "farfetch'd",
	}
	for in, want := range cases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookup(t *testing.T) {
	cat := testCatalog(t)
	for _, q := range []string{"Pikachu", "pikachu", " PIKACHU "} {
		c, ok := cat.Lookup(q)
		if !ok || c.ID != 25 {
			t.Errorf("Lookup(%q) = %v, %v; want Pikachu", q, c.Name, ok)
		}
	}
	if c, ok := cat.Lookup("flabebe"); !ok || c.Name != "Flabébé" {
		t.Errorf("Lookup(flabebe) = %q, %v; want Flabébé", c.Name, ok)
	}
	if c, ok := cat.Lookup("mr.  mime"); !ok || c.ID != 122 {
		t.Errorf("Lookup(mr.  mime) = %q, %v", c.Name, ok)
	}
	if _, ok := cat.Lookup("Pikachuu"); ok {
		t.Error("Lookup(Pikachuu) should miss")
	}
	if _, ok := cat.Lookup(""); ok {
		t.Error("Lookup(\"\") should miss")
	}
}

func TestAccessors(t *testing.T) {
	cat := testCatalog(t)
	if cat.Len() != 6 {
		t.Fatalf("Len = %d, want 6", cat.Len())
	}
	if got := cat.At(0).Name; got != "Pikachu" {
		t.Errorf("At(0) = %s, want insertion order", got)
	}
	if c, ok := cat.ByID(4); !ok || c.Name != "Charmander" {
		t.Errorf("ByID(4) = %q, %v", c.Name, ok)
	}
	if _, ok := cat.ByID(999); ok {
		t.Error("ByID(999) should miss")
	}

	// Callers get copies.
	s := cat.Schema()
	s[0].Name = "changed"
	if cat.Schema()[0].Name != "type" {
		t.Error("Schema() exposed internal slice")
	}
	c, _ := cat.ByID(122)
	v, _ := c.Attr("type")
	v.Set[0] = "Dark"
	again, _ := c.Attr("type")
	if again.Set[0] != "Psychic" {
		t.Error("Attr() exposed internal set")
	}
}

func TestSuggest(t *testing.T) {
	cat := testCatalog(t)
	cases := []struct {
		query string
		limit int
		want  string
	}{
		{"ch", 10, "Charmander,Pikachu,Pichu,Raichu"}, // prefix first, then substring in catalog order
		{"ch", 2, "Charmander,Pikachu"},
		{"pi", 10, "Pikachu,Pichu"},
		{"PI", 10, "Pikachu,Pichu"},
		{"flabe", 10, "Flabébé"},
		{"mr. m", 10, "Mr. Mime"},
		{"chu", 10, "Pikachu,Pichu,Raichu"},
		{"zz", 10, ""},
		{"", 10, ""},
		{"   ", 10, ""},
		{"pi", 0, ""},
		{"pi", -1, ""},
	}
	for _, tc := range cases {
		if got := names(cat.Suggest(tc.query, tc.limit)); got != tc.want {
			t.Errorf("Suggest(%q, %d) = [%s], want [%s]", tc.query, tc.limit, got, tc.want)
		}
	}
}

func TestSuggestMatchesLookup(t *testing.T) {
	cat := testCatalog(t)
	for _, c := range cat.All() {
		found := false
		for _, s := range cat.Suggest(c.Name, cat.Len()) {
			if s.ID == c.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("Suggest(%q) does not include the creature itself", c.Name)
		}
	}
}

func TestClosest(t *testing.T) {
	cat := testCatalog(t)
	cases := []struct {
		query string
		want  string
	}{
		{"Pikachuu", "Pikachu"},
		{"pikchu", "Pikachu"},
		{"Charmandr", "Charmander"},
		{"Pichuu", "Pichu"},
		{"Flabebbe", "Flabébé"},
		{"Bulbasaur", ""},
		{"pi", ""},
		{"", ""},
	}
	for _, tc := range cases {
		c, ok := cat.Closest(tc.query)
		if tc.want == "" {
			if ok {
				t.Errorf("Closest(%q) = %s, want none", tc.query, c.Name)
			}
			continue
		}
		if !ok || c.Name != tc.want {
			t.Errorf("Closest(%q) = %q, %v; want %s", tc.query, c.Name, ok, tc.want)
		}
	}
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	good := mon(1, "Bulbasaur", []string{"Grass"}, 1, "green", 7)
	cases := []struct {
		name      string
		schema    Schema
		creatures []Creature
	}{
		{"empty schema", Schema{}, []Creature{good}},
		{"duplicate attribute", Schema{{Name: "a", Kind: KindSingle}, {Name: "a", Kind: KindSingle}}, []Creature{good}},
		{"unnamed attribute", Schema{{Name: " ", Kind: KindSingle}}, []Creature{good}},
		{"invalid kind", Schema{{Name: "a", Kind: Kind(7)}}, []Creature{good}},
		{"duplicate name", testSchema(), []Creature{good, mon(2, "BULBASAUR", []string{"Grass"}, 1, "green", 7)}},
		{"duplicate id", testSchema(), []Creature{good, mon(1, "Ivysaur", []string{"Grass"}, 1, "green", 10)}},
		{"blank name", testSchema(), []Creature{mon(3, "  ", []string{"Grass"}, 1, "green", 7)}},
		{"missing attribute", testSchema(), []Creature{NewCreature(4, "Charmander", map[string]Value{
			"type": SetOf("Fire"), "generation": Ordinal(1), "color": Single("red"),
		})}},
		{"wrong kind", testSchema(), []Creature{NewCreature(4, "Charmander", map[string]Value{
			"type": Single("Fire"), "generation": Ordinal(1), "color": Single("red"), "height": Ordinal(6),
		})}},
		{"empty set", testSchema(), []Creature{NewCreature(4, "Charmander", map[string]Value{
			"type": SetOf(), "generation": Ordinal(1), "color": Single("red"), "height": Ordinal(6),
		})}},
		{"extra attribute", testSchema(), []Creature{NewCreature(4, "Charmander", map[string]Value{
			"type": SetOf("Fire"), "generation": Ordinal(1), "color": Single("red"), "height": Ordinal(6), "weight": Ordinal(85),
		})}},
	}
	for _, tc := range cases {
		if _, err := New(tc.schema, tc.creatures); err == nil {
			t.Errorf("%s: New succeeded, want error", tc.name)
		}
	}

	if _, err := New(testSchema(), nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("no creatures: err = %v, want ErrEmpty", err)
	}
}

func TestSetOf(t *testing.T) {
	v := SetOf(" Grass ", "Poison", "grass", "")
	if got := v.String(); got != "Grass/Poison" {
		t.Errorf("SetOf = %q, want Grass/Poison", got)
	}
	if Ordinal(12).String() != "12" || Single(" red ").String() != "red" {
		t.Error("Value.String mismatch")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"single": KindSingle, "SET": KindSet, "multi": KindSet, "ordinal": KindOrdinal, "number": KindOrdinal} {
		if k, err := ParseKind(in); err != nil || k != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, k, err)
		}
	}
	if _, err := ParseKind("float"); err == nil {
		t.Error("ParseKind(float) should fail")
	}
}
