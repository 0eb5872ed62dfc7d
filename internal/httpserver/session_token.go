package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/pokedetective/internal/game"
)

// ctxSessionKey is the context key type for the request's *game.Session.
type ctxSessionKey struct{}

var errNoSession = errors.New("no session")

// signSession creates an HS256 token whose jti is the session ID.
func (s *Server) signSession(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Subject:   "session",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parseSession verifies a token and returns the session ID it carries.
func (s *Server) parseSession(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || claims.ID == "" {
		return "", errNoSession
	}
	return claims.ID, nil
}

// setSessionCookie issues a cookie for the session and mirrors the token in a
// header for clients that prefer bearer auth.
func (s *Server) setSessionCookie(w http.ResponseWriter, id string) error {
	tok, exp, err := s.signSession(id)
	if err != nil {
		return err
	}
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
	w.Header().Set("X-Session-Token", tok)
	return nil
}

// bearerOrCookie extracts a token from the Authorization header or the session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// lookupSession resolves the request's token to a live session.
func (s *Server) lookupSession(r *http.Request) (*game.Session, error) {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil, errNoSession
	}
	id, err := s.parseSession(tok)
	if err != nil {
		return nil, err
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, errNoSession
	}
	return sess, nil
}

// requireSession rejects requests without a live session with 401.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.lookupSession(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no_session", "start a game with POST /session/new")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, sess)))
	})
}

// withOptionalSession attaches the session when present and never rejects.
func (s *Server) withOptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, err := s.lookupSession(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, sess))
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(r *http.Request) *game.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*game.Session)
	return sess
}
