// Package journal keeps an opt-in SQLite audit trail of tool invocations.
// Tools never read it; only the CLI harness records and lists entries.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id      TEXT NOT NULL UNIQUE,
	capability_type TEXT NOT NULL,
	tool_id         TEXT NOT NULL,
	payload         TEXT NOT NULL,
	result          TEXT NOT NULL,
	success         INTEGER NOT NULL,
	error_code      TEXT NOT NULL DEFAULT '',
	started_at      TEXT NOT NULL,
	duration_ms     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations (tool_id, id);
`

// Entry is one journaled invocation.
type Entry struct {
	ID             int64
	RequestID      string
	CapabilityType string
	ToolID         string
	Payload        string
	Result         string
	Success        bool
	ErrorCode      string
	StartedAt      time.Time
	Duration       time.Duration
}

// StoreConfig configures the SQLite journal.
type StoreConfig struct {
	// DSN is the database connection string, usually a file path.
	DSN string

	// RetentionCount keeps at most this many entries (0 = keep everything).
	RetentionCount int
}

// SQLiteStore persists entries to SQLite.
type SQLiteStore struct {
	db  *sql.DB
	cfg StoreConfig
}

// Open opens (or creates) a journal database.
func Open(cfg StoreConfig) (*SQLiteStore, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("journal: dsn is required")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &SQLiteStore{db: db, cfg: cfg}, nil
}

// Record stores one entry and applies retention.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (request_id, capability_type, tool_id, payload, result, success, error_code, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID,
		e.CapabilityType,
		e.ToolID,
		e.Payload,
		e.Result,
		e.Success,
		e.ErrorCode,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	if s.cfg.RetentionCount > 0 {
		return s.Prune(ctx)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-empty toolID
// filters by tool; limit <= 0 returns everything.
func (s *SQLiteStore) Recent(ctx context.Context, toolID string, limit int) ([]Entry, error) {
	query := `SELECT id, request_id, capability_type, tool_id, payload, result, success, error_code, started_at, duration_ms
	          FROM invocations`
	var args []any
	if toolID != "" {
		query += " WHERE tool_id = ?"
		args = append(args, toolID)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Prune deletes all but the newest RetentionCount entries.
func (s *SQLiteStore) Prune(ctx context.Context) error {
	if s.cfg.RetentionCount <= 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM invocations WHERE id NOT IN (
			SELECT id FROM invocations ORDER BY id DESC LIMIT ?
		)`, s.cfg.RetentionCount,
	); err != nil {
		return fmt.Errorf("journal: prune: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			startedAt  string
			durationMS int64
		)
		err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.CapabilityType,
			&e.ToolID,
			&e.Payload,
			&e.Result,
			&e.Success,
			&e.ErrorCode,
			&startedAt,
			&durationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("journal: scan entry: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("journal: parse time %q: %w", startedAt, err)
		}
		e.StartedAt = t
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
