package daily

import (
	"context"
	"time"

	"github.com/robalobadob/bossdle/internal/database"
)

// Result is one player's win for one mode on one game-day.
type Result struct {
	PlayerID  string `json:"playerId"`
	Mode      string `json:"mode"`
	Date      string `json:"date"`
	BossIndex int    `json:"bossIndex"`
	Guesses   int    `json:"guesses"`
}

// Store persists daily results. One row per (player, mode, date).
type Store struct{ db *database.DB }

func NewStore(db *database.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, playerID, mode, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE player_id=? AND mode=? AND date=?",
		playerID, mode, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a win; a second insert for the same day is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_results(player_id, mode, date, boss_index, guesses, created_at)
		 VALUES(?,?,?,?,?,?)
		 ON CONFLICT (player_id, mode, date) DO NOTHING`,
		r.PlayerID, r.Mode, r.Date, r.BossIndex, r.Guesses, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

type LBRow struct {
	PlayerID string `json:"playerId"`
	Guesses  int    `json:"guesses"`
}

// Leaderboard returns the fewest-guess winners of a mode's day, earliest first on ties.
func (s *Store) Leaderboard(ctx context.Context, mode, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, guesses
		 FROM daily_results
		 WHERE mode=? AND date=?
		 ORDER BY guesses ASC, created_at ASC
		 LIMIT ?`, mode, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Guesses); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimPlayer moves an anonymous player's results to an account, keeping
// the account's own row when both played the same day.
func (s *Store) ClaimPlayer(ctx context.Context, fromID, toID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE daily_results SET player_id=?
		 WHERE player_id=? AND NOT EXISTS (
		     SELECT 1 FROM daily_results d
		     WHERE d.player_id=? AND d.mode=daily_results.mode AND d.date=daily_results.date)`,
		toID, fromID, toID,
	)
	return err
}
