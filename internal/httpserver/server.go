// internal/httpserver/server.go
//
// HTTP server wiring for the Bossdle backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/api/modes", "/api/welcome", "/api/bugreport".
//   - Per-mode game endpoints (optional auth), mounted under /api/{mode}.
//   - Account endpoints (auth.go).
//
// Notes:
//   - Every player has an id: the account id when a valid token is present,
//     otherwise an anonymous cookie id. Stored state is keyed by that id.
//   - Per-player transient screens (view state, image rounds) live in memory
//     and are dropped after a period of inactivity (players.go).

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bossdle/internal/config"
	"github.com/robalobadob/bossdle/internal/daily"
	"github.com/robalobadob/bossdle/internal/database"
	"github.com/robalobadob/bossdle/internal/game"
	"github.com/robalobadob/bossdle/internal/store"
)

// Server bundles router, modes, player store and DB handle.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	engines map[string]*game.Engine
	order   []string // mode keys in registration order
	kv      store.Store
	db      *database.DB
	results *daily.Store
	now     func() time.Time

	locks      [lockStripes]sync.Mutex // per-player session read-modify-write, see lockPlayers
	screensMu  sync.Mutex              // guards screens and lastPrune
	screens    map[string]*screenEntry // keyed by player id
	lastPrune  time.Time
	screenTTL  time.Duration
	maxScreens int
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, modes []*game.Engine, kv store.Store, db *database.DB) *Server {
	s := &Server{
		r:          chi.NewRouter(),
		cfg:        cfg,
		engines:    make(map[string]*game.Engine, len(modes)),
		kv:         kv,
		db:         db,
		results:    daily.NewStore(db),
		now:        time.Now,
		screens:    make(map[string]*screenEntry),
		screenTTL:  screenTTL,
		maxScreens: maxScreens,
	}
	for _, m := range modes {
		s.engines[m.Mode.Key] = m
		s.order = append(s.order, m.Mode.Key)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one structured line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"service": "bossdle", "modes": s.order})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Get("/api/modes", s.handleModes)
		r.Get("/api/welcome", s.handleWelcome)
		r.Post("/api/bugreport", s.handleBugReport)
		r.Route("/api/{mode}", s.mountGame)
	})

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

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
	origin := s.cfg.ClientOrigin
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

// accessLog writes a zerolog line with status, size and latency.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
