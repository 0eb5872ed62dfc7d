// internal/httpserver/routes_session.go
//
// HTTP routes for playing a game. Everything lives under /session:
//   - POST /session/new    → start a game (random, seeded or daily), sets cookie
//   - GET  /session        → current snapshot
//   - POST /session/guess  → submit a creature name
//   - POST /session/hint   → reveal the next attribute
//   - POST /session/giveup → end the game and reveal the target
//   - POST /session/reset  → replace the game with a fresh one, cookie re-issued
//
// A client holds at most one live session; starting or resetting drops the
// previous one from the store.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/pokedetective/internal/catalog"
	"github.com/robalobadob/pokedetective/internal/daily"
	"github.com/robalobadob/pokedetective/internal/game"
)

// mountSession registers all /session routes.
func (s *Server) mountSession(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/new", s.handleNew)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleSnapshot)
			r.Post("/guess", s.handleGuess)
			r.Post("/hint", s.handleHint)
			r.Post("/giveup", s.handleGiveUp)
			r.Post("/reset", s.handleReset)
		})
	})
}

// -----------------------------------------------------------------------------
// /session/new

// newReq is the payload for /session/new. An empty body starts a random game.
type newReq struct {
	Mode string `json:"mode"` // random | daily
	Seed *int64 `json:"seed,omitempty"`
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var p newReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var picker game.Picker
	switch strings.ToLower(strings.TrimSpace(p.Mode)) {
	case "", "random":
		picker = game.CryptoPicker{}
		if p.Seed != nil {
			picker = game.SeededPicker(*p.Seed)
		}
	case "daily":
		picker = daily.Today(s.opts.DailySalt)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", "mode must be random or daily")
		return
	}

	opts := []game.Option{game.WithHintBudget(s.opts.HintBudget), game.WithPicker(picker)}
	if len(s.opts.HintOrder) > 0 {
		opts = append(opts, game.WithHintPriority(s.opts.HintOrder...))
	}
	sess, err := game.NewSession(s.cat, opts...)
	if err != nil {
		logger(r).Error().Err(err).Msg("new session")
		writeError(w, http.StatusInternalServerError, "internal", "could not start a game")
		return
	}

	if old, err := s.lookupSession(r); err == nil {
		_ = s.store.Delete(r.Context(), old.ID())
	}
	if !s.install(w, r, sess) {
		return
	}
	logger(r).Info().Str("session", sess.ID()).Str("mode", p.Mode).Msg("session started")
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// install saves sess and hands its token to the client.
func (s *Server) install(w http.ResponseWriter, r *http.Request, sess *game.Session) bool {
	// No token issued for a session older than SessionTTL is still valid.
	if n := s.store.Prune(r.Context(), time.Now().Add(-s.opts.SessionTTL)); n > 0 {
		logger(r).Debug().Int("pruned", n).Msg("expired sessions dropped")
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		logger(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "internal", "could not store session")
		return false
	}
	if err := s.setSessionCookie(w, sess.ID()); err != nil {
		logger(r).Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "internal", "could not issue session token")
		return false
	}
	return true
}

// -----------------------------------------------------------------------------
// /session

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

// -----------------------------------------------------------------------------
// /session/guess

type guessReq struct {
	Name string `json:"name"`
}

type guessRes struct {
	Result   game.GuessResult `json:"result"`
	Snapshot game.Snapshot    `json:"snapshot"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var p guessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "body must be {\"name\": \"...\"}")
		return
	}
	sess := sessionFrom(r)
	res, err := sess.SubmitGuess(p.Name)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	snap := sess.Snapshot()
	if snap.Status == game.StatusWon {
		logger(r).Info().Str("session", snap.ID).Int("guesses", snap.GuessCount).Msg("session won")
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res, Snapshot: snap})
}

// -----------------------------------------------------------------------------
// /session/hint

type hintRes struct {
	Hint     game.Hint     `json:"hint"`
	Snapshot game.Snapshot `json:"snapshot"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h, err := sess.RequestHint()
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hintRes{Hint: h, Snapshot: sess.Snapshot()})
}

// -----------------------------------------------------------------------------
// /session/giveup

type giveUpRes struct {
	Target   catalog.Creature `json:"target"`
	Snapshot game.Snapshot    `json:"snapshot"`
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	t, err := sess.GiveUp()
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, giveUpRes{Target: t, Snapshot: sess.Snapshot()})
}

// -----------------------------------------------------------------------------
// /session/reset

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	old := sessionFrom(r)
	next := old.Reset()
	_ = s.store.Delete(r.Context(), old.ID())
	if !s.install(w, r, next) {
		return
	}
	logger(r).Info().Str("from", old.ID()).Str("session", next.ID()).Msg("session reset")
	writeJSON(w, http.StatusOK, next.Snapshot())
}

// -----------------------------------------------------------------------------
// /suggest

type suggestion struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// handleSuggest answers autocomplete queries. With a session, creatures
// already guessed are left out.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var found []catalog.Creature
	if sess := sessionFrom(r); sess != nil {
		found = sess.Suggest(q)
	} else {
		found = game.FilterAsTyped(s.cat, q)
	}
	out := make([]suggestion, 0, len(found))
	for _, c := range found {
		out = append(out, suggestion{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// errors

// writeGameError maps engine errors onto HTTP statuses and error kinds.
func writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *game.UnknownCreatureError
	switch {
	case errors.As(err, &unknown):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown_creature", Message: err.Error(), Suggestion: unknown.Suggestion})
	case errors.Is(err, game.ErrDuplicateGuess):
		writeError(w, http.StatusConflict, "duplicate_guess", err.Error())
	case errors.Is(err, game.ErrNoHintsRemaining):
		writeError(w, http.StatusConflict, "no_hints_remaining", err.Error())
	case errors.Is(err, game.ErrAllAttributesRevealed):
		writeError(w, http.StatusConflict, "all_attributes_revealed", err.Error())
	case errors.Is(err, game.ErrSessionFinished):
		writeError(w, http.StatusConflict, "session_finished", err.Error())
	case errors.Is(err, game.ErrSessionBusy):
		writeError(w, http.StatusTooManyRequests, "session_busy", err.Error())
	default:
		logger(r).Error().Err(err).Msg("unexpected game error")
		writeError(w, http.StatusInternalServerError, "internal", "server error")
	}
}
