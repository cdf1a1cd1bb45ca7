// internal/database/db.go
//
// Database helpers for the Bossdle server.
// Responsibilities:
//   - Opening SQLite (default) or PostgreSQL with safe defaults.
//   - Rewriting `?` placeholders for drivers that number them.
//   - Applying embedded migrations from sql/<dialect>/*.sql (idempotent,
//     recorded in _migrations).
//
// Queries throughout the repo are written once with `?` placeholders and
// run through DB/Tx, which rebind them for the active dialect.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect captures the differences between supported drivers.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// ParseDialect accepts the DB_DRIVER spellings used in deployments.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported database driver: %s", s)
}

var placeholder = regexp.MustCompile(`\?`)

// Rebind converts `?` placeholders to `$1, $2, ...` for PostgreSQL.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	n := 0
	return placeholder.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

// DB wraps *sql.DB with dialect-aware query methods.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects using the given dialect. For SQLite, dsn is a file path:
// the parent directory is created and busy timeout, WAL and foreign keys
// are enabled. For PostgreSQL, dsn is a connection URL.
func Open(d Dialect, dsn string) (*DB, error) {
	switch d {
	case SQLite:
		return openSQLite(dsn)
	case Postgres:
		db, err := sql.Open(string(Postgres), dsn)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		return &DB{DB: db, Dialect: Postgres}, nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", d)
}

func openSQLite(path string) (*DB, error) {
	// Ensure directory exists for ./data/bossdle.db, etc.
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open(string(SQLite), path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return &DB{DB: db, Dialect: SQLite}, nil
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Dialect.Rebind(query), args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Dialect.Rebind(query), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Dialect.Rebind(query), args...)
}

// Tx wraps *sql.Tx with the same placeholder rewriting as DB.
type Tx struct {
	*sql.Tx
	Dialect Dialect
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, Dialect: db.Dialect}, nil
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tx.Tx.ExecContext(ctx, tx.Dialect.Rebind(query), args...)
}

func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return tx.Tx.QueryRowContext(ctx, tx.Dialect.Rebind(query), args...)
}
