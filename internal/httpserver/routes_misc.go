package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bossdle/internal/bugreport"
	"github.com/robalobadob/bossdle/internal/store"
)

// visitedKey marks that a player has seen the welcome dialog.
const visitedKey = "bossdle_visited"

type modeView struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Bosses    int    `json:"bosses"`
	Localized bool   `json:"localized"`
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	out := make([]modeView, 0, len(s.order))
	for _, k := range s.order {
		m := s.engines[k].Mode
		out = append(out, modeView{Key: m.Key, Title: m.Title, Bosses: m.Dataset.Len(), Localized: m.Localized})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleWelcome reports whether to show the welcome dialog, which happens on
// a player's first visit only.
func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	_, err := s.kv.Get(r.Context(), player, visitedKey)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"show": false})
		return
	case !errors.Is(err, store.ErrNotFound):
		log.Warn().Err(err).Str("player", player).Msg("read visited flag")
	}
	if err := s.kv.Set(r.Context(), player, visitedKey, []byte("true")); err != nil {
		log.Warn().Err(err).Str("player", player).Msg("set visited flag")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"show": true})
}

// handleBugReport turns a report into a deep link the client opens.
func (s *Server) handleBugReport(w http.ResponseWriter, r *http.Request) {
	var rep bugreport.Report
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	u, err := bugreport.URL(s.cfg.BugReportPhone, rep)
	if errors.Is(err, bugreport.ErrEmptyDescription) {
		writeError(w, http.StatusBadRequest, "description_required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}
