// internal/httpserver/server.go
//
// HTTP server wiring for the PokeDetective backend.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, timeouts, JSON, CORS, access log).
//   - Public endpoints: "/", "/health", "/catalog/*", "/suggest".
//   - Session endpoints (mounted by routes_session.go) under /session.
//
// Notes:
//   - One live session per browser. The session ID travels in a signed cookie
//     (or an Authorization bearer token) so clients cannot pick other IDs.
//   - CORS is origin-aware and credentials-enabled so the cookie works from the SPA.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokedetective/internal/catalog"
	"github.com/robalobadob/pokedetective/internal/store"
)

// Options carries the settings the server needs from config.
type Options struct {
	HintBudget    int
	HintOrder     []string
	JWTSecret     string
	CookieName    string
	ClientOrigin  string
	DailySalt     string
	SecureCookies bool
	SessionTTL    time.Duration // cookie/token lifetime; default 7 days
}

// Server bundles router, session store and catalog.
type Server struct {
	r     *chi.Mux
	store store.Store
	cat   *catalog.Catalog
	opts  Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cat *catalog.Catalog, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "pokedetective_session"
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev_secret_change_me"
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), store: st, cat: cat, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "pokedetective",
			"endpoints": []string{"/health", "/catalog/schema", "/suggest?q=", "POST /session/new", "/session", "POST /session/{guess,hint,giveup,reset}"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// --- catalog ---
	s.r.Get("/catalog/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"creatures":  s.cat.Len(),
			"attributes": s.cat.Schema().Names(),
			"sessions":   s.store.Len(),
		})
	})
	s.r.Get("/catalog/schema", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.cat.Schema())
	})
	s.r.With(s.withOptionalSession).Get("/suggest", s.handleSuggest)

	// --- game ---
	s.mountSession(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// ------------------------------- responses ---------------------------------

type errorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: kind, Message: msg})
}

func logger(r *http.Request) *zerolog.Logger { return hlog.FromRequest(r) }
