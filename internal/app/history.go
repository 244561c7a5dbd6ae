package app

import (
	"context"
	"time"

	"github.com/rcdesk/rentcase/internal/domain"
)

// recordHistory appends an audit entry. A sink failure is converted into a
// *domain.HistoryWarning so the caller sees the transition as applied; it is
// never allowed to roll back the state change it describes.
func recordHistory(ctx context.Context, rec domain.HistoryRecorder, entry domain.HistoryEntry) error {
	if err := rec.Record(ctx, entry); err != nil {
		return &domain.HistoryWarning{Err: err}
	}
	return nil
}

// statusChange builds the audit entry emitted for every state transition.
func statusChange(entityType, entityID string, old, next domain.Status, actor string, at time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     "StatusChange",
		OldValue:   string(old),
		NewValue:   string(next),
		Actor:      actor,
		At:         at,
	}
}
