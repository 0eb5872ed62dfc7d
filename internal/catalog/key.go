package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key normalizes a creature name for matching: trimmed, inner whitespace
// collapsed, accents stripped and case folded. "  FLABEBE " and "Flabébé"
// share a key.
func Key(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	// Casers and transform chains carry state, so build them per call.
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if s, _, err := transform.String(strip, name); err == nil {
		name = s
	}
	return cases.Fold().String(name)
}
