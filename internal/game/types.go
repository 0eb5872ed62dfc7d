// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Signal:      per-attribute result of comparing a guess with the target.
//   - Status:      session lifecycle tag.
//   - GuessResult: one scored guess.
//   - Hint / HintState: revealed target attributes and the remaining budget.
//   - Snapshot:    read-only projection of a session handed to hosts.

package game

import (
	"encoding/json"

	"github.com/robalobadob/pokedetective/internal/catalog"
)

// Signal is the evaluation result for one attribute of a guess.
//
// Ordinal signals are target-relative: SignalHigher means the hidden
// creature's value is higher than the guessed creature's value ("go up"),
// SignalLower means it is lower.
type Signal string

const (
	SignalMatch   Signal = "match"    // values equal (sets: equal as sets)
	SignalPartial Signal = "partial"  // sets overlap but differ
	SignalNoMatch Signal = "no_match" // values differ (sets: disjoint)
	SignalHigher  Signal = "higher"   // target value > guess value
	SignalLower   Signal = "lower"    // target value < guess value
)

// Status is the session lifecycle state. Won and GaveUp are terminal.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusGaveUp     Status = "gave_up"
)

// Terminal reports whether no further guesses or hints are accepted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusGaveUp }

// GuessResult is one row of the guess history.
type GuessResult struct {
	Creature catalog.Creature
	Signals  map[string]Signal
}

// Signal returns the signal for attr, or "" if attr is not in the schema.
func (g GuessResult) Signal(attr string) Signal { return g.Signals[attr] }

// Correct reports whether every attribute matched.
func (g GuessResult) Correct() bool {
	for _, s := range g.Signals {
		if s != SignalMatch {
			return false
		}
	}
	return len(g.Signals) > 0
}

func (g GuessResult) clone() GuessResult {
	sig := make(map[string]Signal, len(g.Signals))
	for k, v := range g.Signals {
		sig[k] = v
	}
	return GuessResult{Creature: g.Creature, Signals: sig}
}

func (g GuessResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CreatureID int               `json:"creatureId"`
		Creature   catalog.Creature  `json:"creature"`
		Signals    map[string]Signal `json:"signals"`
	}{g.Creature.ID, g.Creature, g.Signals})
}

// Hint is one revealed attribute of the target.
type Hint struct {
	Attribute string        `json:"attribute"`
	Label     string        `json:"label"`
	Value     catalog.Value `json:"value"`
}

// HintState lists revealed hints in reveal order and the remaining budget.
type HintState struct {
	Revealed  []Hint
	Remaining int
}

// Attributes returns the revealed attribute names in reveal order.
func (h HintState) Attributes() []string {
	out := make([]string, len(h.Revealed))
	for i, hint := range h.Revealed {
		out[i] = hint.Attribute
	}
	return out
}

func (h HintState) MarshalJSON() ([]byte, error) {
	values := make(map[string]catalog.Value, len(h.Revealed))
	for _, hint := range h.Revealed {
		values[hint.Attribute] = hint.Value
	}
	return json.Marshal(struct {
		Revealed  []string                 `json:"revealed"`
		Remaining int                      `json:"remaining"`
		Values    map[string]catalog.Value `json:"values"`
	}{h.Attributes(), h.Remaining, values})
}

// Snapshot is an immutable copy of a session's observable state.
// Target is nil while the session is in progress.
type Snapshot struct {
	ID         string            `json:"id"`
	Status     Status            `json:"status"`
	Guesses    []GuessResult     `json:"guesses"`
	Hint       HintState         `json:"hint"`
	GuessCount int               `json:"guessCount"`
	Target     *catalog.Creature `json:"target,omitempty"`
}
