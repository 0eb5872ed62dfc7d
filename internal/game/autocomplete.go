package game

import "github.com/robalobadob/pokedetective/internal/catalog"

// MaxSuggestions caps autocomplete results for interactive rendering.
const MaxSuggestions = 8

// FilterAsTyped returns at most MaxSuggestions creatures matching text, prefix
// matches first. It keeps no state between calls.
func FilterAsTyped(cat *catalog.Catalog, text string) []catalog.Creature {
	return cat.Suggest(text, MaxSuggestions)
}

// Input is the pending guess text together with its current suggestions.
// The zero value is not usable; build one with NewInput.
type Input struct {
	filter      func(string) []catalog.Creature
	text        string
	suggestions []catalog.Creature
}

// NewInput builds an Input that recomputes suggestions with filter on every
// change. Pass Session.Suggest to hide creatures already guessed, or a
// closure over FilterAsTyped for plain catalog suggestions.
func NewInput(filter func(string) []catalog.Creature) *Input {
	return &Input{filter: filter}
}

// Type replaces the pending text and recomputes suggestions.
func (in *Input) Type(text string) []catalog.Creature {
	in.text = text
	in.suggestions = in.filter(text)
	return in.Suggestions()
}

// Select makes suggestion i the pending text, using the creature's canonical
// name so that submitting it is an exact lookup. Suggestions are cleared.
func (in *Input) Select(i int) (string, bool) {
	if i < 0 || i >= len(in.suggestions) {
		return in.text, false
	}
	in.text = in.suggestions[i].Name
	in.suggestions = nil
	return in.text, true
}

// Text returns the pending guess text.
func (in *Input) Text() string { return in.text }

// Suggestions returns the current suggestions.
func (in *Input) Suggestions() []catalog.Creature {
	return append([]catalog.Creature(nil), in.suggestions...)
}

// Clear empties the text and suggestions, e.g. after a guess is submitted.
func (in *Input) Clear() {
	in.text = ""
	in.suggestions = nil
}
