package game

import (
	"testing"

	"github.com/robalobadob/pokedetective/internal/catalog"
)

func suggestionNames(cs []catalog.Creature) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestFilterAsTypedCaps(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	if got := FilterAsTyped(cat, "a"); len(got) != MaxSuggestions {
		t.Errorf("FilterAsTyped(a) returned %d, want %d", len(got), MaxSuggestions)
	}
	if got := FilterAsTyped(cat, ""); len(got) != 0 {
		t.Errorf("empty text returned %v", suggestionNames(got))
	}
}

func TestInputTypeAndSelect(t *testing.T) {
	cat := testCatalog(t)
	in := NewInput(func(text string) []catalog.Creature { return FilterAsTyped(cat, text) })

	got := suggestionNames(in.Type("ch"))
	want := []string{"Charmander", "Charizard", "Pikachu", "Pichu"}
	if len(got) != len(want) {
		t.Fatalf("Type(ch) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Type(ch) = %v, want %v", got, want)
		}
	}

	if _, ok := in.Select(9); ok {
		t.Error("Select out of range succeeded")
	}
	if in.Text() != "ch" {
		t.Errorf("failed Select changed text to %q", in.Text())
	}

	name, ok := in.Select(1)
	if !ok || name != "Charizard" || in.Text() != "Charizard" {
		t.Errorf("Select(1) = %q, %v", name, ok)
	}
	if len(in.Suggestions()) != 0 {
		t.Error("Select did not clear suggestions")
	}

	in.Type("piK")
	in.Clear()
	if in.Text() != "" || len(in.Suggestions()) != 0 {
		t.Error("Clear left state behind")
	}
}

func TestSessionSuggestSkipsGuessed(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SubmitGuess("Pichu"); err != nil {
		t.Fatal(err)
	}
	got := suggestionNames(s.Suggest("pi"))
	if len(got) != 1 || got[0] != "Pikachu" {
		t.Errorf("Suggest(pi) = %v, want [Pikachu]", got)
	}

	in := NewInput(s.Suggest)
	if got := suggestionNames(in.Type("chu")); len(got) != 1 || got[0] != "Pikachu" {
		t.Errorf("Input over session = %v", got)
	}
}
