// Package trace records service traffic and plays it back.
//
// A recording run wraps the live connection and writes every exchange to a
// SQLite database; a replay run serves those exchanges back by request
// content hash, so the pipeline produces identical output with no service
// present. UID lookups are recorded alongside and replayed from their own
// table, which makes replay immune to resolver cache state.
package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (sessions, exchanges, uid_names)
const currentSchemaVersion = 1

// timeFormat is RFC 3339 with fixed-width nanoseconds. Trailing zeros are
// kept so the TEXT column's lexical order matches chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the SQLite-backed trace database.
// Uses WAL mode so replay readers tolerate a concurrent recorder.
type Store struct {
	db *sql.DB
}

// Open creates or opens a trace database at the given path.
// Applies required pragmas and migrations automatically; safe to call on an
// existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under the recorder's write pattern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateSession inserts a new session row and returns its id. Session ids
// are UUIDv7, so lexical order tracks creation time.
func (s *Store) CreateSession(ctx context.Context, label string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label, created_at)
		VALUES (?, ?, ?)
	`, id.String(), label, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id.String(), nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	// No incremental migrations yet; version 0 databases get the full
	// schema above.

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
