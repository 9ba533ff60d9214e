// Package storage persists finished session results in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrStorage marks every failure of this package; callers branch with
// errors.Is. A lost result is reported but never kills the game.
var ErrStorage = errors.New("storage: unavailable")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SessionEntry is the stored outcome of one control session.
type SessionEntry struct {
	ID         int64
	StartedAt  time.Time
	Duration   time.Duration
	Score      int
	Frames     int
	EndReason  string
	ReplayPath string
}

// Open creates or opens a SQLite database at the given path. A leading
// ~ expands to the home directory; parent directories are created and
// the schema migrated.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot expand home directory: %v", ErrStorage, err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: cannot create directory %s: %v", ErrStorage, filepath.Dir(dbPath), err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open database: %v", ErrStorage, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: cannot connect to database: %v", ErrStorage, err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migration failed: %v", ErrStorage, err)
	}
	return store, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			score INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			end_reason TEXT NOT NULL,
			replay_path TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_top ON sessions(score DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_recent ON sessions(started_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records one finished session and returns its row ID.
func (s *Store) SaveSession(e SessionEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (started_at, duration_ms, score, frames, end_reason, replay_path)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		e.Duration.Milliseconds(),
		e.Score,
		e.Frames,
		e.EndReason,
		e.ReplayPath,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot save session: %v", ErrStorage, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: cannot get inserted ID: %v", ErrStorage, err)
	}
	return id, nil
}

// TopSessions retrieves the N best sessions, highest score first.
func (s *Store) TopSessions(limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.query(
		`SELECT id, started_at, duration_ms, score, frames, end_reason, replay_path
		 FROM sessions ORDER BY score DESC, started_at DESC LIMIT ?`, limit)
}

// RecentSessions retrieves the N most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(
		`SELECT id, started_at, duration_ms, score, frames, end_reason, replay_path
		 FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
}

// ByReplayPath retrieves the session a replay file belongs to, or nil
// when no session references it.
func (s *Store) ByReplayPath(path string) (*SessionEntry, error) {
	entries, err := s.query(
		`SELECT id, started_at, duration_ms, score, frames, end_reason, replay_path
		 FROM sessions WHERE replay_path = ? LIMIT ?`, path, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// BestScore returns the highest stored score, 0 when nothing is stored.
func (s *Store) BestScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM sessions").Scan(&score); err != nil {
		return 0, fmt.Errorf("%w: cannot query best score: %v", ErrStorage, err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

func (s *Store) query(q string, args ...any) ([]SessionEntry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot query sessions: %v", ErrStorage, err)
	}
	defer rows.Close()

	var entries []SessionEntry
	for rows.Next() {
		var e SessionEntry
		var startedAt any
		var durationMS int64
		if err := rows.Scan(&e.ID, &startedAt, &durationMS, &e.Score, &e.Frames, &e.EndReason, &e.ReplayPath); err != nil {
			return nil, fmt.Errorf("%w: cannot scan row: %v", ErrStorage, err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.StartedAt = parseTime(startedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", ErrStorage, err)
	}
	return entries, nil
}

// parseTime handles the driver returning DATETIME as either time.Time
// or its stored string form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
