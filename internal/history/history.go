// internal/history/history.go
//
// Results log for finished games.
// Responsibilities:
//   - Opening a SQLite database with safe defaults (WAL, busy timeout).
//   - Applying the embedded migrations in sql/*.sql (recorded in _migrations).
//   - Appending one row per finished game and listing the most recent ones.
//
// The active game is never stored here; it lives only in memory.

package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

// DefaultLimit and MaxLimit bound Recent.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one finished game.
type Entry struct {
	GameID     string    `json:"id"`
	Word       string    `json:"word"`
	Status     string    `json:"status"`
	Attempts   int       `json:"attempts"`
	Guessed    string    `json:"guessed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Recorder stores finished games.
type Recorder interface {
	// Record appends e. Recording the same game ID twice is a no-op;
	// constraint violations are still reported.
	Record(ctx context.Context, e Entry) error
	// Recent lists up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Nop returns a Recorder that keeps nothing.
func Nop() Recorder { return nop{} }

type nop struct{}

func (nop) Record(context.Context, Entry) error          { return nil }
func (nop) Recent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }
func (nop) Close() error                                 { return nil }

// SQLite is a Recorder backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if missing) the database at dsn and migrates it.
// ":memory:" gives a private in-memory database.
func Open(dsn string) (*SQLite, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// openDB opens dsn with busy timeout and WAL journaling.
// The pool is pinned to one connection: ":memory:" is per connection.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dsn != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded sql/*.sql files in lexical order, each in
// its own transaction, skipping files already listed in _migrations.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

func (s *SQLite) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO finished_games
            (id, word, status, attempts, guessed, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO NOTHING`,
		e.GameID, e.Word, e.Status, e.Attempts, e.Guessed,
		e.StartedAt.UTC().UnixMilli(), e.FinishedAt.UTC().UnixMilli(),
	)
	return err
}

// Recent clamps limit to [1, MaxLimit]; 0 or less means DefaultLimit.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, word, status, attempts, guessed, started_at, finished_at
        FROM finished_games
        ORDER BY finished_at DESC, rowid DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var started, finished int64
		if err := rows.Scan(&e.GameID, &e.Word, &e.Status, &e.Attempts, &e.Guessed, &started, &finished); err != nil {
			return nil, err
		}
		e.StartedAt = time.UnixMilli(started).UTC()
		e.FinishedAt = time.UnixMilli(finished).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
