package game

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bossdle/internal/bosses"
)

// Session is one player's progress in one mode for one game-day.
// Its JSON form is the persisted snapshot.
type Session struct {
	LastPlayedDate string          `json:"lastPlayedDate"`
	Guesses        []bosses.Record `json:"guesses"`
	GameOver       bool            `json:"gameOver"`
	Won            bool            `json:"won"`
	LastBoss       string          `json:"lastBoss"`               // answer of LastPlayedDate
	PreviousBoss   string          `json:"previousBoss,omitempty"` // answer of the last day played before this one
}

// IsTerminal reports whether further guesses are refused.
func (s *Session) IsTerminal() bool { return s.GameOver }

// HasGuessed reports whether the canonical name is already in the guess list.
func (s *Session) HasGuessed(name string) bool {
	for _, g := range s.Guesses {
		if g.Name == name {
			return true
		}
	}
	return false
}

// GuessedNames returns the canonical names guessed so far, in order.
func (s *Session) GuessedNames() []string {
	out := make([]string, len(s.Guesses))
	for i, g := range s.Guesses {
		out[i] = g.Name
	}
	return out
}

// Marshal encodes the snapshot for storage.
func (s *Session) Marshal() ([]byte, error) { return json.Marshal(s) }

// Restore rebuilds the session for the game-day containing now from a stored
// snapshot. Missing, unreadable or stale snapshots yield a fresh session; a
// stale one hands its answer name on as PreviousBoss. Stored guesses are
// re-resolved against the current dataset (unknown ones dropped) and the
// won/terminal flags are recomputed from them.
//
// changed reports whether the result differs from what was stored, i.e.
// whether it should be persisted.
func (e *Engine) Restore(raw []byte, now time.Time) (s *Session, changed bool) {
	today := e.Today(now)
	fresh := e.NewSession(today)
	if len(raw) == 0 {
		return fresh, true
	}

	var stored Session
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn().Err(err).Str("mode", e.Mode.Key).Msg("discarding unreadable session")
		return fresh, true
	}
	if stored.LastPlayedDate != today {
		fresh.PreviousBoss = stored.LastBoss
		return fresh, true
	}

	s = fresh
	s.PreviousBoss = stored.PreviousBoss
	answer := e.Answer(today)
	for _, g := range stored.Guesses {
		i := e.Mode.Dataset.IndexOf(g.Name)
		if i < 0 || s.HasGuessed(g.Name) {
			changed = true
			continue
		}
		rec := e.Mode.Dataset.At(i)
		s.Guesses = append(s.Guesses, rec)
		if rec.Name == answer.Name {
			s.Won, s.GameOver = true, true
		}
	}
	if s.Won != stored.Won || s.GameOver != stored.GameOver || s.LastBoss != stored.LastBoss {
		changed = true
	}
	return s, changed
}
