package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/bossdle/internal/database"
)

// sqlStore keeps entries in the player_state table.
type sqlStore struct{ db *database.DB }

// NewSQLStore returns a Store backed by db. Migrations must have run.
func NewSQLStore(db *database.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Get(ctx context.Context, playerID, key string) ([]byte, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM player_state WHERE player_id=? AND state_key=?`, playerID, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s *sqlStore) Set(ctx context.Context, playerID, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_state (player_id, state_key, value, updated_at) VALUES (?,?,?,?)
		 ON CONFLICT (player_id, state_key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		playerID, key, string(value), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqlStore) Delete(ctx context.Context, playerID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM player_state WHERE player_id=? AND state_key=?`, playerID, key)
	return err
}

func (s *sqlStore) Claim(ctx context.Context, fromID, toID string) error {
	if fromID == "" || toID == "" || fromID == toID {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE player_state SET player_id=?
		 WHERE player_id=? AND state_key NOT IN (SELECT state_key FROM player_state WHERE player_id=?)`,
		toID, fromID, toID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM player_state WHERE player_id=?`, fromID); err != nil {
		return err
	}
	return tx.Commit()
}
