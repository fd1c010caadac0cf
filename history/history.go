// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/retropoll/models"
)

// DefaultDSN keeps the archive in process memory. Poll state must not
// survive a restart, so the server never points this at a file by default.
const DefaultDSN = "file:retropoll-history?mode=memory&cache=shared"

// Store archives finalized polls for the lifetime of the process so the
// admin can revisit earlier results from the same session.
type Store struct {
	db *sql.DB
}

// Open connects to the archive database and creates the schema.
// Safe to call multiple times - the schema uses IF NOT EXISTS.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	// A shared in-memory database vanishes when its last connection
	// closes; pin a single connection so the archive outlives idle spells.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Archive stores one finalized poll.
func (s *Store) Archive(subject string, items []string, histogram [models.HistogramBuckets]int, responses int) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	histogramJSON, err := json.Marshal(histogram)
	if err != nil {
		return fmt.Errorf("failed to encode histogram: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO archived_poll (id, subject, items, histogram, responses, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), subject, string(itemsJSON), string(histogramJSON), responses, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to archive poll: %w", err)
	}
	return nil
}

// List returns archived polls, most recent first.
func (s *Store) List() ([]models.ArchivedPoll, error) {
	rows, err := s.db.Query(`
		SELECT id, subject, items, histogram, responses, computed_at
		FROM archived_poll
		ORDER BY computed_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	archived := []models.ArchivedPoll{}
	for rows.Next() {
		var entry models.ArchivedPoll
		var itemsJSON, histogramJSON, computedAt string
		if err := rows.Scan(&entry.ID, &entry.Subject, &itemsJSON, &histogramJSON, &entry.Responses, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived poll: %w", err)
		}
		if entry.ComputedAt, err = time.Parse(time.RFC3339Nano, computedAt); err != nil {
			return nil, fmt.Errorf("failed to parse computed_at: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &entry.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
		if err := json.Unmarshal([]byte(histogramJSON), &entry.Histogram); err != nil {
			return nil, fmt.Errorf("failed to decode histogram: %w", err)
		}
		archived = append(archived, entry)
	}
	return archived, rows.Err()
}

// Count returns the number of archived polls.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM archived_poll").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count archive: %w", err)
	}
	return n, nil
}

const schema = `
-- Finalized polls for this process lifetime
CREATE TABLE IF NOT EXISTS archived_poll (
    id TEXT PRIMARY KEY,
    subject TEXT NOT NULL,
    items TEXT NOT NULL,
    histogram TEXT NOT NULL,
    responses INTEGER NOT NULL,
    computed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archived_poll_computed_at ON archived_poll(computed_at);
`
