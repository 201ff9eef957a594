// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts,
//     JSON content type, CORS).
//   - Public endpoints: "/", "/liveness".
//   - Game endpoints under /hangman: new, guess/{letter}, attempts, solution,
//     history.
//   - Mapping of game errors to JSON error bodies.
//
// Notes:
//   - CORS allows any origin with credentials disabled; clients depend on it.
//   - Handlers only parse and validate input; game rules live in the
//     hangman service.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/hangman"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	DefaultMaxAttempts int           // used when max_attempts is absent (6)
	RequestTimeout     time.Duration // per-request handler bound (10s)
}

// Server bundles router and the game service.
type Server struct {
	r          *chi.Mux
	svc        *hangman.Service
	maxDefault int
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *hangman.Service, opts Options) *Server {
	if opts.DefaultMaxAttempts <= 0 {
		opts.DefaultMaxAttempts = game.DefaultMaxAttempts
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), svc: svc, maxDefault: opts.DefaultMaxAttempts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/liveness","POST /hangman/new","POST /hangman/guess/{letter}","/hangman/attempts","/hangman/solution","/hangman/history"]}`))
	})
	s.r.Get("/liveness", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.r.Route("/hangman", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess/{letter}", s.handleGuess)
		r.Post("/guess/", s.handleGuess) // empty letter: still validated
		r.Get("/attempts", s.handleAttempts)
		r.Get("/solution", s.handleSolution)
		r.Get("/history", s.handleHistory)
	})

	// JSON 404/405 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not found: "+r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	return s
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
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

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ GAME ---------------------------------------

// stateRes is the game view returned by /hangman/new and /hangman/guess.
// The secret word is never part of it.
type stateRes struct {
	Guessed  string `json:"guessed"`
	Attempts int    `json:"attempts"`
	Output   string `json:"output"`
}

func toStateRes(s game.Snapshot) stateRes {
	return stateRes{Guessed: s.Guessed, Attempts: s.Attempts, Output: s.Output}
}

// handleNewGame starts a game with ?max_attempts=N (default from Options).
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	maxAttempts := s.maxDefault
	if v := r.URL.Query().Get("max_attempts"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_max_attempts", "max_attempts must be a non-negative integer")
			return
		}
		maxAttempts = n
	}

	snap, err := s.svc.Start(r.Context(), maxAttempts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateRes(snap))
}

// handleGuess applies the {letter} path parameter to the active game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Guess(r.Context(), chi.URLParam(r, "letter"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateRes(snap))
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Attempts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"attempts": n})
}

func (s *Server) handleSolution(w http.ResponseWriter, r *http.Request) {
	word, err := s.svc.Solution(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"solution": word})
}

// handleHistory lists finished games, ?limit=N (default 20, max 100).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}
	rows, err := s.svc.History(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ------------------------------ errors -------------------------------------

type errorRes struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// fail maps service errors to status codes. Client mistakes are 400s; a
// failing word source is a 502.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNoActiveGame):
		writeError(w, http.StatusBadRequest, "no_active_game", "No active game")
	case errors.Is(err, game.ErrInvalidLetter):
		writeError(w, http.StatusBadRequest, "invalid_letter", "Invalid letter")
	case errors.Is(err, game.ErrAlreadyGuessed):
		writeError(w, http.StatusBadRequest, "already_guessed", "Letter already guessed")
	case errors.Is(err, words.ErrUnavailable):
		hlog.FromRequest(r).Error().Err(err).Msg("word source")
		writeError(w, http.StatusBadGateway, "word_source_unavailable", "Word service unavailable")
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal", "Internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorRes{Error: code, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
