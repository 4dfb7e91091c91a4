// internal/httpserver/server.go
//
// HTTP server wiring for the FindPair backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/*.
//   - Daily board endpoint (optional auth): /daily/new.
//   - Account endpoints: /auth/* (only when an auth.Service is configured).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Games belong to the signed-in user or to an anonymous cookie; other
//     callers get 404 for them.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/findpair/internal/auth"
	"github.com/robalobadob/findpair/internal/store"
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Auth         *auth.Service // nil disables accounts; games are then guest-only
	GridSizes    []int         // sizes offered to clients; defaults to 2 and 4
	DailySalt    string        // HMAC key for daily layouts
	ClientOrigin string        // CORS origin; defaults to http://localhost:5173
	Secure       bool          // Secure + SameSite=None cookies
	Alphabet     []string      // symbol override; nil uses the symbols package
	Now          func() time.Time
}

// Server bundles router, game store and account service.
type Server struct {
	r     *chi.Mux
	store store.Store
	auth  *auth.Service
	opts  Options
	locks *keyedMutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	if len(opts.GridSizes) == 0 {
		opts.GridSizes = []int{2, 4}
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.DailySalt == "" {
		opts.DailySalt = "local_dev_salt"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), store: st, auth: opts.Auth, opts: opts, locks: newKeyedMutex()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"findpair-go","endpoints":["/health","GET /game/sizes","POST /game/new","GET /game/{id}","POST /game/tap","POST /game/restart","POST /daily/new","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	withUser := s.r.With(s.optionalAuth())
	s.mountGame(withUser)
	s.mountDaily(withUser)
	if s.auth != nil {
		s.mountAuth(s.r)
	}

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
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

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
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
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// optionalAuth is auth.Service.Optional, or a pass-through without accounts.
func (s *Server) optionalAuth() func(http.Handler) http.Handler {
	if s.auth == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return s.auth.Optional()
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error":code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
