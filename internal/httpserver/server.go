// internal/httpserver/server.go
//
// HTTP server wiring for the number quiz.
// Responsibilities:
//   - Router + middleware (CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/health", "/numbers/{n}".
//   - The single page: GET "/", form posts under /play/*.
//   - JSON API under /game/* for script clients.
//   - Session cookie / bearer token handling.
//
// Notes:
//   - The session token only names a game; all state lives in the store.
//   - Elapsed time is recomputed on every request, the page script merely
//     counts up between requests.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numeros/internal/common/clock"
	"github.com/robalobadob/numeros/internal/game"
	"github.com/robalobadob/numeros/internal/numbers"
	"github.com/robalobadob/numeros/internal/quiz"
	"github.com/robalobadob/numeros/internal/session"
	"github.com/robalobadob/numeros/internal/store"
)

// Quiz is the game service the handlers drive.
type Quiz interface {
	Start(ctx context.Context, mode game.Mode) (*game.Game, error)
	Get(ctx context.Context, id string) (*game.Game, error)
	Answer(ctx context.Context, id string, round, choice int) (*game.Game, game.Result, error)
	Skip(ctx context.Context, id string, round int) (*game.Game, error)
	Restart(ctx context.Context, id string) (*game.Game, error)
	Discard(ctx context.Context, id string) error
}

// Config holds the server dependencies.
type Config struct {
	Quiz         Quiz
	Tokens       *session.Tokens
	Page         *template.Template
	CookieName   string
	Secure       bool   // production cookies
	ClientOrigin string // CORS origin for the JSON API
	Clock        clock.Clock
}

// Server bundles router and dependencies.
type Server struct {
	r      *chi.Mux
	quiz   Quiz
	tokens *session.Tokens
	page   *template.Template
	cookie string
	secure bool
	origin string
	clock  clock.Clock
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *Config) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		quiz:   cfg.Quiz,
		tokens: cfg.Tokens,
		page:   cfg.Page,
		cookie: cfg.CookieName,
		secure: cfg.Secure,
		origin: cfg.ClientOrigin,
		clock:  cfg.Clock,
	}
	if s.cookie == "" {
		s.cookie = "numeros_session"
	}
	if s.clock == nil {
		s.clock = &clock.DefaultClock{}
	}
	if s.origin == "" {
		s.origin = "http://localhost:5173"
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))   // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- page ---
	s.r.Get("/", s.handlePage)
	s.r.Route("/play", func(r chi.Router) {
		r.Post("/new", s.handlePlayNew)
		r.Post("/answer", s.handlePlayAnswer)
		r.Post("/next", s.handlePlayNext)
		r.Post("/restart", s.handlePlayRestart)
	})

	// --- JSON ---
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/numbers/{n}", s.handleNumber)

		r.Route("/game", func(r chi.Router) {
			r.Post("/new", s.handleNewGame)
			r.Get("/state", s.handleState)
			r.Post("/answer", s.handleAnswer)
			r.Post("/next", s.handleNext)
			r.Post("/restart", s.handleRestart)
		})

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSONError(w, http.StatusNotFound, "not_found")
		})
	})

	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
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

// ------------------------------ JSON API -----------------------------------

type newGameReq struct {
	Mode string `json:"mode"` // "random" | "daily"
}

type answerReq struct {
	Round  int `json:"round"` // optional; 0 skips the stale-round check
	Choice int `json:"choice"`
}

type roundReq struct {
	Round int `json:"round"`
}

// stateRes is the JSON view of a session.
type stateRes struct {
	GameID         string       `json:"gameId"`
	Mode           game.Mode    `json:"mode"`
	State          string       `json:"state"`
	Round          int          `json:"round"`
	Rounds         int          `json:"rounds"`
	Number         *int         `json:"number,omitempty"`
	Options        []string     `json:"options,omitempty"`
	Score          int          `json:"score"`
	Elapsed        string       `json:"elapsed"`
	ElapsedSeconds int          `json:"elapsedSeconds"`
	Last           *game.Result `json:"last,omitempty"`
	Token          string       `json:"token,omitempty"`
}

func newStateRes(g *game.Game) stateRes {
	res := stateRes{
		GameID:         g.ID,
		Mode:           g.Mode,
		State:          g.State(),
		Round:          g.Round,
		Rounds:         g.Rounds,
		Score:          g.Score,
		Elapsed:        game.FormatElapsed(g.Elapsed),
		ElapsedSeconds: int(g.Elapsed / time.Second),
	}
	if !g.Finished {
		n := g.Target
		res.Number = &n
		res.Options = g.Options.Labels[:]
	}
	return res
}

// handleNewGame starts a session, sets the cookie and returns the token for
// bearer clients.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	g, err := s.quiz.Start(r.Context(), game.ParseMode(req.Mode))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.discardPrevious(r, g.ID)
	tok, err := s.issueSession(w, g.ID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	res := newStateRes(g)
	res.Token = tok
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	g, err := s.quiz.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateRes(g))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, result, err := s.quiz.Answer(r.Context(), id, req.Round, req.Choice)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	res := newStateRes(g)
	res.Last = &result
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req roundReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	g, err := s.quiz.Skip(r.Context(), id, req.Round)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateRes(g))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	g, err := s.quiz.Restart(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	tok, err := s.issueSession(w, g.ID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	res := newStateRes(g)
	res.Token = tok
	writeJSON(w, http.StatusOK, res)
}

// handleNumber spells a single number; handy for checking the word table.
func (s *Server) handleNumber(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || !numbers.InRange(n) {
		writeJSONError(w, http.StatusBadRequest, "out_of_range")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"number": n, "words": numbers.Name(n)})
}

// ------------------------------- errors ------------------------------------

// writeErr maps service errors onto HTTP statuses.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrInvalidChoice):
		writeJSONError(w, http.StatusBadRequest, "invalid_choice")
	case errors.Is(err, game.ErrFinished):
		writeJSONError(w, http.StatusConflict, "game_finished")
	case errors.Is(err, quiz.ErrStaleRound):
		writeJSONError(w, http.StatusConflict, "stale_round")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeJSONError(w, http.StatusInternalServerError, "internal")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code string) {
	http.Error(w, `{"error":"`+code+`"}`, status)
}

// ------------------------------ sessions -----------------------------------

// issueSession signs a token for gameID and sets it as the session cookie.
// Every call restarts the token's lifetime.
func (s *Server) issueSession(w http.ResponseWriter, gameID string) (string, error) {
	tok, exp, err := s.tokens.Sign(gameID, s.clock.Now())
	if err != nil {
		return "", err
	}
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
		Expires:  exp,
	})
	return tok, nil
}

// discardPrevious drops the game the request's session pointed at, now
// that newID replaces it.
func (s *Server) discardPrevious(r *http.Request, newID string) {
	old, ok := s.sessionGameID(r)
	if !ok || old == newID {
		return
	}
	if err := s.quiz.Discard(r.Context(), old); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", old).Msg("discard replaced game")
	}
}

// sessionGameID resolves the request's game ID from bearer token or cookie.
func (s *Server) sessionGameID(r *http.Request) (string, bool) {
	tok := bearerOrCookie(r, s.cookie)
	if tok == "" {
		return "", false
	}
	id, err := s.tokens.GameID(tok)
	if err != nil {
		return "", false
	}
	return id, true
}

// requireSession writes a 401 when the request carries no valid session.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := s.sessionGameID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "no_session")
	}
	return id, ok
}

// bearerOrCookie extracts a bearer token from Authorization header or the session cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}
