package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// HistoryStore persists audit entries into the append-only history table.
// It backs the river history worker; the engine itself records through the
// domain.HistoryRecorder port.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore wraps an existing database connection.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Append inserts one audit entry. Entries are never updated or deleted.
func (s *HistoryStore) Append(ctx context.Context, e domain.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (entity_type, entity_id, action, old_value, new_value, actor, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EntityType, e.EntityID, e.Action, e.OldValue, e.NewValue, e.Actor, formatTime(e.At),
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// ListByEntity returns the audit trail for one entity in recording order.
func (s *HistoryStore) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_type, entity_id, action, old_value, new_value, actor, recorded_at
		 FROM history WHERE entity_type = ? AND entity_id = ? ORDER BY id`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var recordedAt string
		if err := rows.Scan(&e.EntityType, &e.EntityID, &e.Action, &e.OldValue, &e.NewValue, &e.Actor, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.At = parseTime(recordedAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
