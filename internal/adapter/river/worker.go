package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/rcdesk/rentcase/internal/domain"
)

// HistoryAppender is the slice of the history store the worker needs.
type HistoryAppender interface {
	Append(ctx context.Context, e domain.HistoryEntry) error
}

// HistoryWorker drains queued audit entries into the history table.
type HistoryWorker struct {
	river.WorkerDefaults[HistoryJobArgs]

	store HistoryAppender
}

// NewHistoryWorker creates a worker writing to the given store.
func NewHistoryWorker(store HistoryAppender) *HistoryWorker {
	return &HistoryWorker{store: store}
}

// Work persists a single audit entry.
func (w *HistoryWorker) Work(ctx context.Context, job *river.Job[HistoryJobArgs]) error {
	entry := domain.HistoryEntry{
		EntityType: job.Args.EntityType,
		EntityID:   job.Args.EntityID,
		Action:     job.Args.Action,
		OldValue:   job.Args.OldValue,
		NewValue:   job.Args.NewValue,
		Actor:      job.Args.Actor,
		At:         job.Args.At,
	}
	if err := w.store.Append(ctx, entry); err != nil {
		return err
	}

	slog.InfoContext(ctx, "history recorded",
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"action", entry.Action,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
