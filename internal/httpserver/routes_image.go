// internal/httpserver/routes_image.go
//
// "Guess the boss by image" mini-game, unlocked once today's game is won.
//   - POST /api/{mode}/image/new   → start (or restart) a round
//   - POST /api/{mode}/image/guess → guess the round's boss
//
// Rounds live only on the player's in-memory screen.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/bossdle/internal/bosses"
	"github.com/robalobadob/bossdle/internal/game"
)

func (s *Server) mountImage(r chi.Router) {
	r.Route("/image", func(r chi.Router) {
		r.Post("/new", s.handleImageNew)
		r.Post("/guess", s.handleImageGuess)
	})
}

// imageRoundView hides the boss until the round is over.
type imageRoundView struct {
	Image         string   `json:"image"`
	FallbackImage string   `json:"fallbackImage"`
	Zoom          float64  `json:"zoom"`
	Guesses       []string `json:"guesses"`
	Over          bool     `json:"over"`
	Won           bool     `json:"won"`
	Boss          string   `json:"boss,omitempty"`
}

func newImageRoundView(rd *game.ImageRound, lang bosses.Language) *imageRoundView {
	v := &imageRoundView{
		Image:         rd.Boss.Image,
		FallbackImage: bosses.FallbackImage(rd.Boss.Game),
		Zoom:          rd.Zoom,
		Guesses:       rd.Guesses,
		Over:          rd.Over,
		Won:           rd.Won,
	}
	if rd.Over {
		v.Boss = rd.Boss.LocalizedName(lang)
	}
	return v
}

func (s *Server) handleImageNew(w http.ResponseWriter, r *http.Request) {
	eng := engineFrom(r)
	player := s.playerID(w, r)
	lang := bosses.ParseLanguage(r.URL.Query().Get("lang"))

	defer s.lockPlayers(player)()
	sess := s.loadSession(r.Context(), player, eng)
	sc := s.screen(player, eng, sess)
	if err := sc.StartImage(game.NewImageRound(eng.Mode.Dataset)); err != nil {
		writeError(w, http.StatusConflict, "invalid_transition")
		return
	}
	writeJSON(w, http.StatusOK, newImageRoundView(sc.Image, lang))
}

type imageGuessReq struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

type imageGuessRes struct {
	Correct bool            `json:"correct"`
	Round   *imageRoundView `json:"round"`
}

func (s *Server) handleImageGuess(w http.ResponseWriter, r *http.Request) {
	eng := engineFrom(r)
	player := s.playerID(w, r)

	var req imageGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	lang := bosses.ParseLanguage(req.Lang)

	defer s.lockPlayers(player)()
	sess := s.loadSession(r.Context(), player, eng)
	sc := s.screen(player, eng, sess)
	if sc.State != game.ViewImageMinigame || sc.Image == nil {
		writeError(w, http.StatusConflict, "no_round")
		return
	}

	correct, err := sc.Image.Guess(eng.Mode.Dataset, req.Name)
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
	writeJSON(w, http.StatusOK, imageGuessRes{Correct: correct, Round: newImageRoundView(sc.Image, lang)})
}
