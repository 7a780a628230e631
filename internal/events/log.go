// Package events persists an audit log of catalog mutations.
package events

import (
	"database/sql"
	"fmt"
	"time"
)

// Canonical event types.
const (
	EntryCreated  = "entry.created"
	EntryUpdated  = "entry.updated"
	EntryDeleted  = "entry.deleted"
	EntryIngested = "entry.ingested"
)

// Event is a persisted audit record for a catalog entry.
type Event struct {
	ID        int64
	Type      string
	EntityID  int64
	Detail    string
	CreatedAt time.Time
}

// Log persists events to SQLite.
type Log struct {
	db *sql.DB
}

// NewLog creates a new event log.
func NewLog(db *sql.DB) *Log {
	return &Log{db: db}
}

// Append persists an event and returns its ID.
func (l *Log) Append(eventType string, entityID int64, detail string) (int64, error) {
	result, err := l.db.Exec(`
		INSERT INTO events (type, entity_id, detail, created_at)
		VALUES (?, ?, ?, ?)`,
		eventType, entityID, detail, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return result.LastInsertId()
}

// List returns events newest-first with pagination.
// Returns (events, totalCount, error).
func (l *Log) List(limit, offset int) ([]Event, int, error) {
	var total int
	if err := l.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := "SELECT id, type, entity_id, detail, created_at FROM events ORDER BY id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := l.db.Query(query)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Type, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}
	return events, total, nil
}

// ForEntity returns all events for a specific entry, oldest first.
func (l *Log) ForEntity(entityID int64) ([]Event, error) {
	rows, err := l.db.Query(`
		SELECT id, type, entity_id, detail, created_at
		FROM events WHERE entity_id = ? ORDER BY id ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Type, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Prune removes events older than the given duration.
func (l *Log) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := l.db.Exec("DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}
