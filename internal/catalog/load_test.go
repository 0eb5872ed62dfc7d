package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const smallDoc = `
schema:
  - {name: type, label: Type, kind: set}
  - {name: color, kind: single}
  - {name: height, label: Height, kind: number}
creatures:
  - id: 4
    name: Charmander
    attributes: {type: Fire, color: red, height: 6}
  - id: 6
    name: Charizard
    attributes: {type: [Fire, Flying], color: red, height: 17}
`

func TestLoadYAML(t *testing.T) {
	cat, err := LoadYAML(strings.NewReader(smallDoc))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}
	schema := cat.Schema()
	if schema[1].Label != "color" {
		t.Errorf("missing label should default to name, got %q", schema[1].Label)
	}
	if schema[2].Kind != KindOrdinal {
		t.Errorf("height kind = %s, want ordinal", schema[2].Kind)
	}

	charmander, _ := cat.Lookup("charmander")
	if v, _ := charmander.Attr("type"); v.Kind != KindSet || v.String() != "Fire" {
		t.Errorf("scalar set = %#v, want {Fire}", v)
	}
	charizard, _ := cat.Lookup("Charizard")
	if v, _ := charizard.Attr("type"); v.String() != "Fire/Flying" {
		t.Errorf("Charizard type = %s", v)
	}
	if v, _ := charizard.Attr("height"); v.Number != 17 {
		t.Errorf("Charizard height = %d", v.Number)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	cases := map[string]string{
		"bad kind": `
schema: [{name: type, kind: float}]
creatures: [{id: 1, name: A, attributes: {type: x}}]`,
		"unknown attribute": `
schema: [{name: type, kind: single}]
creatures: [{id: 1, name: A, attributes: {type: x, legs: 4}}]`,
		"ordinal not a number": `
schema: [{name: height, kind: ordinal}]
creatures: [{id: 1, name: A, attributes: {height: tall}}]`,
		"missing attribute": `
schema: [{name: type, kind: single}, {name: color, kind: single}]
creatures: [{id: 1, name: A, attributes: {type: x}}]`,
		"not yaml": `{{{`,
	}
	for name, doc := range cases {
		if _, err := LoadYAML(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: LoadYAML succeeded, want error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(smallDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Len = %d, want 2", cat.Len())
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile on a missing file should fail")
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	want := []string{"type", "generation", "color", "habitat", "shape", "height", "weight"}
	if got := strings.Join(cat.Schema().Names(), ","); got != strings.Join(want, ",") {
		t.Errorf("schema = %s, want %s", got, strings.Join(want, ","))
	}
	for _, name := range []string{"Pikachu", "Charmander", "Flabébé", "Mr. Mime", "Nidoran♀", "Nidoran♂", "Farfetch'd"} {
		if _, ok := cat.Lookup(name); !ok {
			t.Errorf("default catalog is missing %s", name)
		}
	}
	pika, _ := cat.ByID(25)
	if v, _ := pika.Attr("height"); v.Number != 4 {
		t.Errorf("Pikachu height = %d, want 4", v.Number)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if n, err := CountSQL(ctx, db); err != nil || n != 0 {
		t.Fatalf("CountSQL = %d, %v; want 0", n, err)
	}

	want := testCatalog(t)
	if err := ImportSQL(ctx, db, want); err != nil {
		t.Fatalf("ImportSQL: %v", err)
	}
	got, err := LoadSQL(ctx, db)
	if err != nil {
		t.Fatalf("LoadSQL: %v", err)
	}

	if names(got.All()) != names(want.All()) {
		t.Errorf("order = %s, want %s", names(got.All()), names(want.All()))
	}
	for i, a := range want.Schema() {
		if got.Schema()[i] != a {
			t.Errorf("schema[%d] = %+v, want %+v", i, got.Schema()[i], a)
		}
	}
	for _, w := range want.All() {
		g, ok := got.ByID(w.ID)
		if !ok {
			t.Fatalf("creature %d lost", w.ID)
		}
		for _, a := range want.Schema() {
			wv, _ := w.Attr(a.Name)
			gv, _ := g.Attr(a.Name)
			if wv.String() != gv.String() || wv.Kind != gv.Kind {
				t.Errorf("%s.%s = %s, want %s", w.Name, a.Name, gv, wv)
			}
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cat, err := Open(ctx, "", "")
	if err != nil || cat.Len() == 0 {
		t.Fatalf("Open embedded: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(smallDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	dsn := filepath.Join(t.TempDir(), "data", "catalog.db")

	// First open seeds the database from the file.
	cat, err = Open(ctx, path, dsn)
	if err != nil {
		t.Fatalf("Open seeding: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("seeded Len = %d, want 2", cat.Len())
	}

	// Later opens read the database and ignore the file.
	cat, err = Open(ctx, filepath.Join(t.TempDir(), "missing.yaml"), dsn)
	if err != nil {
		t.Fatalf("Open existing: %v", err)
	}
	if _, ok := cat.Lookup("Charizard"); !ok {
		t.Error("Charizard missing after reopen")
	}
}
