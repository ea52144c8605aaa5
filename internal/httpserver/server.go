// internal/httpserver/server.go
//
// HTTP server wiring for the CodeWordle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Auth endpoints: /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - Game endpoints (require auth, rate limited): POST /games/start,
//     POST /games/{gameID}/guess, GET /games/active.
//   - Translation of the game manager's typed failures into status codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The authenticated user identity is passed explicitly into every
//     game manager call; handlers never reach into ambient state.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/codewordle/go-server/internal/game"
	"github.com/codewordle/go-server/internal/store"
)

// Server bundles the router, user store, and game manager.
type Server struct {
	r     *chi.Mux
	users store.UserStore
	games *game.Manager
}

// New constructs a Server, installs middleware, and registers routes.
func New(users store.UserStore, games *game.Manager) *Server {
	s := &Server{r: chi.NewRouter(), users: users, games: games}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"codewordle-go","endpoints":["/health","/auth/*","POST /games/start","POST /games/{gameID}/guess","GET /games/active"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Auth endpoints
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", s.handleMe)

	// Game endpoints — auth required, rate limited per client
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Use(rateLimitFromEnv())
		r.Post("/games/start", s.handleStartGame)
		r.Post("/games/{gameID}/guess", s.handleGuess)
		r.Get("/games/active", s.handleActiveGame)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not_found")
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

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
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

// ------------------------------ GAME ---------------------------------------

// startGameReq/Res payloads for POST /games/start.
type startGameReq struct {
	Topic string `json:"topic"`
}
type startGameRes struct {
	GameID      string `json:"gameId"`
	WordLength  int    `json:"wordLength"`
	MaxAttempts int    `json:"maxAttempts"`
}

// handleStartGame starts a new session for the authenticated user.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req startGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
		jsonError(w, http.StatusBadRequest, "topic is required")
		return
	}

	started, err := s.games.StartGame(r.Context(), me.ID, req.Topic)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(startGameRes{
		GameID:      started.SessionID,
		WordLength:  started.WordLength,
		MaxAttempts: started.MaxAttempts,
	})
}

// guessReq/Res payloads for POST /games/{gameID}/guess.
type guessReq struct {
	Word string `json:"word"`
}
type guessRes struct {
	GameStatus        game.SessionStatus    `json:"gameStatus"`
	Feedback          []game.LetterFeedback `json:"feedback"`
	RemainingAttempts int                   `json:"remainingAttempts"`
	CorrectWord       string                `json:"correctWord,omitempty"` // set only once the game is over
}

// handleGuess submits one guess against a session.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Word == "" {
		jsonError(w, http.StatusBadRequest, "word is required")
		return
	}

	outcome, err := s.games.SubmitGuess(r.Context(), chi.URLParam(r, "gameID"), req.Word, me.ID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(guessRes{
		GameStatus:        outcome.Status,
		Feedback:          outcome.Feedback,
		RemainingAttempts: outcome.RemainingAttempts,
		CorrectWord:       outcome.Word,
	})
}

// activeGameRes payload for GET /games/active.
type activeGameRes struct {
	GameID          string                  `json:"gameId"`
	WordLength      int                     `json:"wordLength"`
	MaxAttempts     int                     `json:"maxAttempts"`
	PreviousGuesses [][]game.LetterFeedback `json:"previousGuesses"`
}

// handleActiveGame returns the user's resumable session, or 204 when
// there is none (a normal outcome, not an error).
func (s *Server) handleActiveGame(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	active, err := s.games.ActiveGame(r.Context(), me.ID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	if active == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	history := active.History
	if history == nil {
		history = [][]game.LetterFeedback{}
	}
	_ = json.NewEncoder(w).Encode(activeGameRes{
		GameID:          active.SessionID,
		WordLength:      active.WordLength,
		MaxAttempts:     active.MaxAttempts,
		PreviousGuesses: history,
	})
}

// writeGameError maps the game manager's typed failures to HTTP codes:
// conflict 409, invalid input 400, not found 404, forbidden 403.
// Anything else (including evaluator precondition violations, which
// must not surface past the manager) is a 500.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	var (
		finished    *game.FinishedError
		wrongLength *game.WrongLengthError
	)
	switch {
	case errors.Is(err, game.ErrActiveSessionExists):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrNoWordsForTopic):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrSessionNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotSessionOwner):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &finished):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.As(err, &wrongLength):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("game operation failed")
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// ------------------------------- util --------------------------------------

// jsonError writes a JSON error body with the given status code.
func jsonError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
