package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robalobadob/numeros/internal/game"
	"github.com/robalobadob/numeros/internal/numbers"
	"github.com/robalobadob/numeros/internal/store"
)

var es = message.NewPrinter(language.Spanish)

type optionView struct {
	Index int
	Label string
}

// pageView feeds assets/web/index.html.
type pageView struct {
	Finished       bool
	Number         int
	Round          int
	Options        []optionView
	ScoreLine      string
	RoundLine      string
	Elapsed        string
	ElapsedSeconds int
	Feedback       string
	SummaryScore   string
	SummaryTime    string
}

func newPageView(g *game.Game, q url.Values) pageView {
	v := pageView{
		Finished:       g.Finished,
		Number:         g.Target,
		Round:          g.Round,
		ScoreLine:      es.Sprintf("Puntos: %d", g.Score),
		RoundLine:      es.Sprintf("Jugada: %d de %d", g.Round, g.Rounds),
		Elapsed:        game.FormatElapsed(g.Elapsed),
		ElapsedSeconds: int(g.Elapsed / time.Second),
		Feedback:       feedback(q),
		SummaryScore:   es.Sprintf("Tu puntaje final es: %d de %d", g.Score, g.Rounds),
		SummaryTime:    es.Sprintf("Tiempo total: %s", game.FormatElapsed(g.Elapsed)),
	}
	for i, label := range g.Options.Labels {
		v.Options = append(v.Options, optionView{Index: i, Label: label})
	}
	return v
}

// feedback renders the outcome of the previous answer carried in the
// redirect query: fb=ok, or fb=no&n=<number>.
func feedback(q url.Values) string {
	switch q.Get("fb") {
	case "ok":
		return "¡Correcto!"
	case "no":
		n, err := strconv.Atoi(q.Get("n"))
		if err != nil || !numbers.InRange(n) {
			return "Incorrecto"
		}
		return es.Sprintf("Incorrecto: %d se escribe %s", n, numbers.Name(n))
	}
	return ""
}

// handlePage renders the current session, starting one when the request
// has none (or its game expired).
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var g *game.Game
	if id, ok := s.sessionGameID(r); ok {
		var err error
		g, err = s.quiz.Get(r.Context(), id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			hlog.FromRequest(r).Error().Err(err).Msg("load game")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	if g == nil {
		var err error
		if g, err = s.startPageGame(w, r, game.ModeRandom); err != nil {
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, newPageView(g, r.URL.Query())); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render page")
	}
}

func (s *Server) handlePlayNew(w http.ResponseWriter, r *http.Request) {
	if _, err := s.startPageGame(w, r, game.ParseMode(r.URL.Query().Get("mode"))); err != nil {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePlayAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionGameID(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	choice, err := strconv.Atoi(r.PostFormValue("choice"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	round, _ := strconv.Atoi(r.PostFormValue("round"))

	_, res, err := s.quiz.Answer(r.Context(), id, round, choice)
	if err != nil {
		// stale or finished: just show the current state again
		hlog.FromRequest(r).Debug().Err(err).Str("gameId", id).Msg("answer ignored")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	q := url.Values{}
	if res.Correct {
		q.Set("fb", "ok")
	} else {
		q.Set("fb", "no")
		q.Set("n", strconv.Itoa(res.Number))
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handlePlayNext(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.sessionGameID(r); ok {
		round, _ := strconv.Atoi(r.PostFormValue("round"))
		if _, err := s.quiz.Skip(r.Context(), id, round); err != nil {
			hlog.FromRequest(r).Debug().Err(err).Str("gameId", id).Msg("skip ignored")
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePlayRestart(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionGameID(r)
	if ok {
		if g, err := s.quiz.Restart(r.Context(), id); err == nil {
			if _, err := s.issueSession(w, g.ID); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("refresh session")
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	if _, err := s.startPageGame(w, r, game.ModeRandom); err != nil {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startPageGame starts a session and sets its cookie. On failure it has
// already written a 500.
func (s *Server) startPageGame(w http.ResponseWriter, r *http.Request, mode game.Mode) (*game.Game, error) {
	g, err := s.quiz.Start(r.Context(), mode)
	if err == nil {
		s.discardPrevious(r, g.ID)
		_, err = s.issueSession(w, g.ID)
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start game")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, err
	}
	return g, nil
}
