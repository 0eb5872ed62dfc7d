// internal/game/engine.go
//
// Session state machine for one guessing game.
// Responsibilities:
//   - Choose the hidden target through an injected Picker.
//   - Validate and score guesses (unknown names, duplicates, terminal state).
//   - Spend the hint budget in HintPolicy order.
//   - Track transitions: in_progress → won | gave_up; Reset starts a fresh session.
//   - Publish a Snapshot to subscribers after every committed change.
//
// Notes:
//   - Every mutating call takes the session lock with TryLock. A call that
//     arrives while another is running fails with ErrSessionBusy instead of
//     queueing, so each call fully applies before the next is accepted.
//   - All checks run before any mutation; a failed call changes nothing.
package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/pokedetective/internal/catalog"
)

const defaultHintBudget = 3

// Option configures NewSession.
type Option func(*settings)

type settings struct {
	budget   int
	priority []string
	hasOrder bool
	picker    Picker
	targetID  int
	hasTarget bool
}

// WithHintBudget sets how many hints a session may reveal.
func WithHintBudget(n int) Option { return func(s *settings) { s.budget = n } }

// WithHintPriority overrides the hint reveal order (see NewHintPolicy).
func WithHintPriority(names ...string) Option {
	return func(s *settings) {
		s.priority = append([]string(nil), names...)
		s.hasOrder = true
	}
}

// WithPicker injects the randomness used to choose targets, here and on Reset.
func WithPicker(p Picker) Option { return func(s *settings) { s.picker = p } }

// WithTarget fixes the first session's target by creature id. Sessions made
// by Reset draw from the picker again.
func WithTarget(id int) Option {
	return func(s *settings) {
		s.targetID = id
		s.hasTarget = true
	}
}

// Session is one game from target selection to a terminal state.
type Session struct {
	mu sync.Mutex

	// shared with sessions created by Reset
	cat    *catalog.Catalog
	schema catalog.Schema
	policy HintPolicy
	budget int
	picker Picker
	subs   *broadcaster

	id        string
	startedAt time.Time
	target    catalog.Creature
	status    Status
	guesses   []GuessResult
	guessed   map[int]struct{}
	hints     []Hint
	revealed  map[string]struct{}
	remaining int
}

// NewSession starts a game over cat. The default budget is 3 hints and the
// default picker is crypto-random.
func NewSession(cat *catalog.Catalog, opts ...Option) (*Session, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrEmpty
	}
	cfg := settings{budget: defaultHintBudget, picker: CryptoPicker{}}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.budget < 0 {
		return nil, fmt.Errorf("hint budget must not be negative, got %d", cfg.budget)
	}
	if cfg.picker == nil {
		cfg.picker = CryptoPicker{}
	}

	schema := cat.Schema()
	policy := DefaultHintPolicy(schema)
	if cfg.hasOrder {
		var err error
		if policy, err = NewHintPolicy(schema, cfg.priority...); err != nil {
			return nil, err
		}
	}

	var target catalog.Creature
	if cfg.hasTarget {
		t, ok := cat.ByID(cfg.targetID)
		if !ok {
			return nil, fmt.Errorf("target creature %d not in catalog", cfg.targetID)
		}
		target = t
	} else {
		target = cat.At(pick(cfg.picker, cat.Len()))
	}

	s := &Session{
		cat:    cat,
		schema: schema,
		policy: policy,
		budget: cfg.budget,
		picker: cfg.picker,
		subs:   newBroadcaster(),
	}
	s.start(target)
	return s, nil
}

func (s *Session) start(target catalog.Creature) {
	s.id = uuid.NewString()
	s.startedAt = time.Now()
	s.target = target
	s.status = StatusInProgress
	s.guesses = nil
	s.guessed = make(map[int]struct{})
	s.hints = nil
	s.revealed = make(map[string]struct{})
	s.remaining = s.budget
}

// mutate runs fn under the session lock and publishes a snapshot if fn succeeds.
func (s *Session) mutate(fn func() error) error {
	if !s.mu.TryLock() {
		return ErrSessionBusy
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.subs.publish(snap)
	return nil
}

// SubmitGuess resolves name in the catalog, scores it against the target and
// appends the result. Guessing the target ends the session as won.
func (s *Session) SubmitGuess(name string) (GuessResult, error) {
	var res GuessResult
	err := s.mutate(func() error {
		if s.status.Terminal() {
			return ErrSessionFinished
		}
		cr, ok := s.cat.Lookup(name)
		if !ok {
			uerr := &UnknownCreatureError{Query: strings.TrimSpace(name)}
			if near, ok := s.cat.Closest(name); ok {
				uerr.Suggestion = near.Name
			}
			return uerr
		}
		if _, dup := s.guessed[cr.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateGuess, cr.Name)
		}

		res = GuessResult{Creature: cr, Signals: Compare(s.schema, cr, s.target)}
		s.guesses = append(s.guesses, res)
		s.guessed[cr.ID] = struct{}{}
		if cr.ID == s.target.ID {
			s.status = StatusWon
		}
		return nil
	})
	if err != nil {
		return GuessResult{}, err
	}
	return res.clone(), nil
}

// RequestHint reveals the next attribute of the target in policy order.
func (s *Session) RequestHint() (Hint, error) {
	var hint Hint
	err := s.mutate(func() error {
		if s.status.Terminal() {
			return ErrSessionFinished
		}
		if s.remaining <= 0 {
			return ErrNoHintsRemaining
		}
		a, ok := s.policy.Next(s.revealed)
		if !ok {
			return ErrAllAttributesRevealed
		}
		v, _ := s.target.Attr(a.Name)
		hint = Hint{Attribute: a.Name, Label: a.Label, Value: v}
		s.remaining--
		s.revealed[a.Name] = struct{}{}
		s.hints = append(s.hints, hint)
		return nil
	})
	return hint, err
}

// GiveUp ends an in-progress session and returns the target. On a finished
// session it changes nothing and returns the same target.
func (s *Session) GiveUp() (catalog.Creature, error) {
	if !s.mu.TryLock() {
		return catalog.Creature{}, ErrSessionBusy
	}
	if s.status.Terminal() {
		t := s.target
		s.mu.Unlock()
		return t, nil
	}
	s.status = StatusGaveUp
	t := s.target
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.subs.publish(snap)
	return t, nil
}

// Reset returns a brand-new session over the same catalog, budget, hint policy,
// picker and subscribers, with a freshly drawn target. The receiver is left as is;
// hosts drop it and keep the returned handle.
func (s *Session) Reset() *Session {
	next := &Session{
		cat:    s.cat,
		schema: s.schema,
		policy: s.policy,
		budget: s.budget,
		picker: s.picker,
		subs:   s.subs,
	}
	next.start(s.cat.At(pick(s.picker, s.cat.Len())))
	s.subs.publish(next.Snapshot())
	return next
}

// Suggest returns autocomplete candidates for text, leaving out creatures
// already guessed in this session.
func (s *Session) Suggest(text string) []catalog.Creature {
	s.mu.Lock()
	guessed := make(map[int]struct{}, len(s.guessed))
	for id := range s.guessed {
		guessed[id] = struct{}{}
	}
	s.mu.Unlock()

	all := s.cat.Suggest(text, MaxSuggestions+len(guessed))
	out := make([]catalog.Creature, 0, MaxSuggestions)
	for _, c := range all {
		if _, done := guessed[c.ID]; done {
			continue
		}
		out = append(out, c)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// Subscribe registers for a Snapshot after every committed change, including
// changes to sessions created from this one by Reset. Delivery never blocks:
// if buf is full the snapshot is dropped for that subscriber.
func (s *Session) Subscribe(buf int) (<-chan Snapshot, func()) {
	return s.subs.subscribe(buf)
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Target returns the hidden creature once the session is finished.
func (s *Session) Target() (catalog.Creature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Terminal() {
		return catalog.Creature{}, false
	}
	return s.target, true
}

// Guesses returns the guess history in chronological order.
func (s *Session) Guesses() []GuessResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guessesLocked()
}

// HintState returns the revealed hints and the remaining budget.
func (s *Session) HintState() HintState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HintState{Revealed: append([]Hint(nil), s.hints...), Remaining: s.remaining}
}

// Catalog returns the catalog the session plays over.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:         s.id,
		Status:     s.status,
		Guesses:    s.guessesLocked(),
		Hint:       HintState{Revealed: append([]Hint(nil), s.hints...), Remaining: s.remaining},
		GuessCount: len(s.guesses),
	}
	if s.status.Terminal() {
		t := s.target
		snap.Target = &t
	}
	return snap
}

func (s *Session) guessesLocked() []GuessResult {
	out := make([]GuessResult, len(s.guesses))
	for i, g := range s.guesses {
		out[i] = g.clone()
	}
	return out
}
