package game

import (
	"errors"
	"fmt"
)

// Engine errors. All of them are local and recoverable: a failed call leaves
// the session exactly as it was.
var (
	ErrUnknownCreature       = errors.New("unknown creature")
	ErrDuplicateGuess        = errors.New("creature already guessed")
	ErrNoHintsRemaining      = errors.New("no hints remaining")
	ErrAllAttributesRevealed = errors.New("all attributes revealed")
	ErrSessionBusy           = errors.New("session busy")
	ErrSessionFinished       = errors.New("session finished")
)

// UnknownCreatureError carries the rejected guess text and, when one is close
// enough, the catalog name the player probably meant.
type UnknownCreatureError struct {
	Query      string
	Suggestion string
}

func (e *UnknownCreatureError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown creature %q (did you mean %q?)", e.Query, e.Suggestion)
	}
	return fmt.Sprintf("unknown creature %q", e.Query)
}

func (e *UnknownCreatureError) Is(target error) bool { return target == ErrUnknownCreature }
