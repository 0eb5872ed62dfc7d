package game

import (
	"strings"

	"github.com/robalobadob/pokedetective/internal/catalog"
)

// Compare scores guess against target on every schema attribute.
//
// Each attribute is judged on its own values only:
//   - single:  match when equal (case-insensitive), otherwise no_match.
//   - set:     match when equal as sets, partial when they overlap, otherwise no_match.
//   - ordinal: match when equal, higher when the target's number is larger,
//     lower when it is smaller. No tolerance: catalog numbers are quantized.
func Compare(schema catalog.Schema, guess, target catalog.Creature) map[string]Signal {
	out := make(map[string]Signal, len(schema))
	for _, a := range schema {
		g, _ := guess.Attr(a.Name)
		t, _ := target.Attr(a.Name)
		out[a.Name] = compareValue(a.Kind, g, t)
	}
	return out
}

func compareValue(k catalog.Kind, guess, target catalog.Value) Signal {
	switch k {
	case catalog.KindSet:
		return compareSets(guess.Set, target.Set)
	case catalog.KindOrdinal:
		switch {
		case target.Number > guess.Number:
			return SignalHigher
		case target.Number < guess.Number:
			return SignalLower
		}
		return SignalMatch
	default:
		if strings.EqualFold(guess.Text, target.Text) {
			return SignalMatch
		}
		return SignalNoMatch
	}
}

func compareSets(guess, target []string) Signal {
	want := make(map[string]struct{}, len(target))
	for _, t := range target {
		want[strings.ToLower(t)] = struct{}{}
	}
	have := make(map[string]struct{}, len(guess))
	shared := 0
	for _, g := range guess {
		k := strings.ToLower(g)
		if _, dup := have[k]; dup {
			continue
		}
		have[k] = struct{}{}
		if _, ok := want[k]; ok {
			shared++
		}
	}
	switch {
	case shared == len(want) && shared == len(have):
		return SignalMatch
	case shared > 0:
		return SignalPartial
	}
	return SignalNoMatch
}
