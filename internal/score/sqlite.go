package score

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore keeps the high score and a history of finished sessions.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("score: sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time; sessions from several SSH clients share it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS high_score (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			score INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(score DESC);`,
	}
	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (int, error) {
	var high int
	err := s.db.QueryRowContext(ctx, `SELECT score FROM high_score WHERE id = 1`).Scan(&high)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load high score: %w", err)
	}
	return high, nil
}

// Save stores score if it beats the stored high score.
func (s *SQLiteStore) Save(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO high_score (id, score, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = max(high_score.score, excluded.score),
			updated_at = CASE WHEN excluded.score > high_score.score
				THEN excluded.updated_at ELSE high_score.updated_at END`,
		score, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	return nil
}

// RecordSession appends a finished session. Recording the same session
// twice keeps the first record.
func (s *SQLiteStore) RecordSession(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (session_id, score, duration_ms, ended_at) VALUES (?, ?, ?, ?)`,
		rec.SessionID.String(), rec.Score, rec.Duration.Milliseconds(), rec.EndedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// TopSessions returns up to limit sessions, highest score first.
func (s *SQLiteStore) TopSessions(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, score, duration_ms, ended_at FROM sessions
		 ORDER BY score DESC, ended_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			id             string
			rec            Record
			durMs, endedMs int64
		)
		if err := rows.Scan(&id, &rec.Score, &durMs, &endedMs); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if rec.SessionID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad session id %q: %w", id, err)
		}
		rec.Duration = time.Duration(durMs) * time.Millisecond
		rec.EndedAt = time.UnixMilli(endedMs).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
