// internal/game/engine.go
//
// One generic engine, parametrized per mode.
// Responsibilities:
//   - Bind a Mode (dataset, storage key, localization) to a daily Clock.
//   - Derive the game-day and its answer.
//   - Restore persisted sessions defensively and apply guesses.
//
// Nothing here branches on which mode is active.

package game

import (
	"time"

	"github.com/robalobadob/bossdle/internal/bosses"
	"github.com/robalobadob/bossdle/internal/daily"
)

// Mode describes one playable game over one dataset.
type Mode struct {
	Key        string // URL segment, e.g. "bossdle"
	Title      string
	StorageKey string // per-player persisted state key
	Dataset    *bosses.Dataset
	Localized  bool // dataset carries EN/PT variants
}

// Engine runs a Mode against a Clock.
type Engine struct {
	Mode  Mode
	Clock daily.Clock
}

func NewEngine(m Mode, c daily.Clock) *Engine {
	return &Engine{Mode: m, Clock: c}
}

// Today returns the game-day containing now.
func (e *Engine) Today(now time.Time) string { return e.Clock.GameDay(now) }

// AnswerIndex returns the dataset index of day's answer.
func (e *Engine) AnswerIndex(day string) int {
	return daily.DayIndex(day, e.Mode.Dataset.Len())
}

// Answer returns day's boss. The dataset must not be empty.
func (e *Engine) Answer(day string) bosses.Record {
	return e.Mode.Dataset.At(e.AnswerIndex(day))
}

// NewSession starts an empty session for day.
func (e *Engine) NewSession(day string) *Session {
	return &Session{
		LastPlayedDate: day,
		Guesses:        []bosses.Record{},
		LastBoss:       e.Answer(day).Name,
	}
}

// Submit resolves name against the dataset and appends it to s.
//
// Rejected without state change when:
//   - s is terminal (ErrGameOver),
//   - name matches no record under any name variant (bosses.ErrUnknownBoss),
//   - the resolved boss was already guessed (ErrAlreadyGuessed).
//
// Guessing the answer (by canonical name) marks s won and terminal.
func (e *Engine) Submit(s *Session, name string) (bosses.Record, error) {
	if s.GameOver {
		return bosses.Record{}, ErrGameOver
	}
	rec, err := e.Mode.Dataset.Resolve(name)
	if err != nil {
		return bosses.Record{}, err
	}
	if s.HasGuessed(rec.Name) {
		return bosses.Record{}, ErrAlreadyGuessed
	}
	s.Guesses = append(s.Guesses, rec)
	answer := e.Answer(s.LastPlayedDate)
	s.LastBoss = answer.Name
	if rec.Name == answer.Name {
		s.Won, s.GameOver = true, true
	}
	return rec, nil
}

// Rows renders every guess of s, most recent first.
func (e *Engine) Rows(s *Session, lang bosses.Language) []Row {
	answer := e.Answer(s.LastPlayedDate)
	rows := make([]Row, 0, len(s.Guesses))
	for i := len(s.Guesses) - 1; i >= 0; i-- {
		g := s.Guesses[i]
		rows = append(rows, BuildRow(&g, answer, lang))
	}
	return rows
}
