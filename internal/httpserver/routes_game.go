// internal/httpserver/routes_game.go
//
// HTTP routes for the daily guessing game of one mode.
// Mounted under /api/{mode}:
//   - GET  /state       → restored session, view state and grid rows
//   - POST /guess       → submit a boss name
//   - GET  /suggest     → autocomplete for the guess input
//   - POST /view/result → Won → ViewingResult
//   - POST /view/back   → ViewingResult | ImageMinigame → Won
//   - GET  /leaderboard → fewest-guess winners of a day
//   - /image/*          → image mini-game (routes_image.go)
//
// Sessions are persisted after every change under the mode's storage key.
// Each win is recorded once per player, mode and day.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bossdle/internal/bosses"
	"github.com/robalobadob/bossdle/internal/daily"
	"github.com/robalobadob/bossdle/internal/game"
)

type ctxEngineKey struct{}

// mountGame registers the per-mode routes. Unknown modes 404.
func (s *Server) mountGame(r chi.Router) {
	r.Use(s.withMode)
	r.Get("/state", s.handleState)
	r.Post("/guess", s.handleGuess)
	r.Get("/suggest", s.handleSuggest)
	r.Post("/view/result", s.handleViewResult)
	r.Post("/view/back", s.handleViewBack)
	r.Get("/leaderboard", s.handleLeaderboard)
	s.mountImage(r)
}

// withMode resolves the {mode} URL segment to its engine.
func (s *Server) withMode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eng, ok := s.engines[chi.URLParam(r, "mode")]
		if !ok {
			writeError(w, http.StatusNotFound, "unknown_mode")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxEngineKey{}, eng)))
	})
}

func engineFrom(r *http.Request) *game.Engine {
	eng, _ := r.Context().Value(ctxEngineKey{}).(*game.Engine)
	return eng
}

// -----------------------------------------------------------------------------
// /state

type answerView struct {
	Name          string `json:"name"`
	Image         string `json:"image"`
	FallbackImage string `json:"fallbackImage"`
}

type stateRes struct {
	Mode         string          `json:"mode"`
	Date         string          `json:"date"`
	View         game.ViewState  `json:"view"`
	Guesses      int             `json:"guesses"`
	GameOver     bool            `json:"gameOver"`
	Won          bool            `json:"won"`
	Rows         []game.Row      `json:"rows"`
	PreviousBoss string          `json:"previousBoss,omitempty"`
	Answer       *answerView     `json:"answer,omitempty"` // only once won
	Image        *imageRoundView `json:"image,omitempty"`
}

// buildState renders the player's current game; rows always end with a
// placeholder until the game is won.
func (s *Server) buildState(eng *game.Engine, sess *game.Session, sc *game.Screen, lang bosses.Language) stateRes {
	res := stateRes{
		Mode:         eng.Mode.Key,
		Date:         sess.LastPlayedDate,
		View:         sc.State,
		Guesses:      len(sess.Guesses),
		GameOver:     sess.GameOver,
		Won:          sess.Won,
		Rows:         eng.Rows(sess, lang),
		PreviousBoss: sess.PreviousBoss,
	}
	if !sess.Won {
		res.Rows = append(res.Rows, game.BuildRow(nil, eng.Answer(sess.LastPlayedDate), lang))
	} else {
		a := eng.Answer(sess.LastPlayedDate)
		res.Answer = &answerView{
			Name:          a.LocalizedName(lang),
			Image:         a.Image,
			FallbackImage: bosses.FallbackImage(a.Game),
		}
	}
	if sc.State == game.ViewImageMinigame && sc.Image != nil {
		res.Image = newImageRoundView(sc.Image, lang)
	}
	return res
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	eng := engineFrom(r)
	player := s.playerID(w, r)
	lang := bosses.ParseLanguage(r.URL.Query().Get("lang"))

	defer s.lockPlayers(player)()
	sess := s.loadSession(r.Context(), player, eng)
	sc := s.screen(player, eng, sess)
	writeJSON(w, http.StatusOK, s.buildState(eng, sess, sc, lang))
}

// -----------------------------------------------------------------------------
// /guess

type guessReq struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

type guessRes struct {
	Row   game.Row `json:"row"`
	State stateRes `json:"state"`
}

// handleGuess applies a guess to today's session.
//   - 400 unknown_boss / already_guessed, 409 game_over; state untouched.
//   - A win moves the view to Won and records the daily result.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	eng := engineFrom(r)
	player := s.playerID(w, r)

	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	lang := bosses.ParseLanguage(req.Lang)

	defer s.lockPlayers(player)()
	sess := s.loadSession(r.Context(), player, eng)
	sc := s.screen(player, eng, sess)

	rec, err := eng.Submit(sess, req.Name)
	switch {
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
		return
	case errors.Is(err, bosses.ErrUnknownBoss):
		writeError(w, http.StatusBadRequest, "unknown_boss")
		return
	case errors.Is(err, game.ErrAlreadyGuessed):
		writeError(w, http.StatusBadRequest, "already_guessed")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	s.saveSession(r.Context(), player, eng, sess)

	if sess.Won {
		_ = sc.GuessWon()
		s.recordWin(r, player, eng, sess)
	}
	writeJSON(w, http.StatusOK, guessRes{
		Row:   game.BuildRow(&rec, eng.Answer(sess.LastPlayedDate), lang),
		State: s.buildState(eng, sess, sc, lang),
	})
}

// recordWin stores the daily result and bumps account stats (best effort).
func (s *Server) recordWin(r *http.Request, player string, eng *game.Engine, sess *game.Session) {
	ctx := r.Context()
	played, err := s.results.AlreadyPlayed(ctx, player, eng.Mode.Key, sess.LastPlayedDate)
	if err != nil {
		log.Warn().Err(err).Str("player", player).Msg("check daily result")
		return
	}
	if played {
		return
	}
	if err := s.results.InsertResult(ctx, daily.Result{
		PlayerID:  player,
		Mode:      eng.Mode.Key,
		Date:      sess.LastPlayedDate,
		BossIndex: eng.AnswerIndex(sess.LastPlayedDate),
		Guesses:   len(sess.Guesses),
	}); err != nil {
		log.Warn().Err(err).Str("player", player).Msg("insert daily result")
		return
	}
	if me := userFrom(r); me != nil {
		if err := s.bumpStats(ctx, me.ID, sess.LastPlayedDate); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
}

// -----------------------------------------------------------------------------
// /suggest

// handleSuggest lists up to five bosses matching q, hiding ones already
// guessed in the active game (daily session or image round).
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	eng := engineFrom(r)
	player := s.playerID(w, r)
	q := r.URL.Query()
	lang := bosses.ParseLanguage(q.Get("lang"))

	unlock := s.lockPlayers(player)
	sess := s.loadSession(r.Context(), player, eng)
	sc := s.screen(player, eng, sess)
	exclude := sess.GuessedNames()
	if sc.State == game.ViewImageMinigame && sc.Image != nil {
		exclude = append([]string(nil), sc.Image.Guesses...)
	}
	unlock()

	out := eng.Mode.Dataset.Suggest(q.Get("q"), exclude, lang)
	if out == nil {
		out = []bosses.Suggestion{}
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /view/*

func (s *Server) handleViewResult(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, (*game.Screen).ViewResult)
}

func (s *Server) handleViewBack(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, (*game.Screen).Back)
}

// transition applies a view event; an illegal one answers 409 and leaves
// the view as it was.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, event func(*game.Screen) error) {
	eng := engineFrom(r)
	player := s.playerID(w, r)
	lang := bosses.ParseLanguage(r.URL.Query().Get("lang"))

	defer s.lockPlayers(player)()
	sess := s.loadSession(r.Context(), player, eng)
	sc := s.screen(player, eng, sess)
	if err := event(sc); err != nil {
		writeError(w, http.StatusConflict, "invalid_transition")
		return
	}
	writeJSON(w, http.StatusOK, s.buildState(eng, sess, sc, lang))
}

// -----------------------------------------------------------------------------
// /leaderboard

type lbRes struct {
	Mode string        `json:"mode"`
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	eng := engineFrom(r)
	date := r.URL.Query().Get("date")
	if date == "" {
		date = eng.Today(s.now())
	}
	rows, err := s.results.Leaderboard(r.Context(), eng.Mode.Key, date, s.cfg.LeaderboardSize)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Mode: eng.Mode.Key, Date: date, Top: rows})
}
