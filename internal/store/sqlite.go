package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cardroom/handengine/internal/engine"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS hand_events (
	hand_id    TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	event_id   TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	PRIMARY KEY (hand_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_hand_events_hand ON hand_events (hand_id);
`

// SQLite is a Store backed by a single SQLite database file. Events are
// stored in their JSON envelope form.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at path and
// ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Append implements Store.
func (s *SQLite) Append(ctx context.Context, handID string, seq int, ev engine.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO hand_events (hand_id, seq, event_id, event_type, payload) VALUES (?, ?, ?, ?, ?)`,
		handID, seq, ev.ID, string(ev.Type), string(payload),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: hand %q seq %d", ErrSequenceConflict, handID, seq)
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context, handID string) ([]engine.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM hand_events WHERE hand_id = ? ORDER BY seq`, handID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var out []engine.Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		var ev engine.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("decode stored event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrHandNotFound, handID)
	}
	return out, nil
}

// Hands implements Store.
func (s *SQLite) Hands(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT hand_id FROM hand_events ORDER BY hand_id`)
	if err != nil {
		return nil, fmt.Errorf("list hands: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan hand id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
