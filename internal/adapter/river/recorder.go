package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/rcdesk/rentcase/internal/domain"
)

// Compile-time check: Recorder implements domain.HistoryRecorder.
var _ domain.HistoryRecorder = (*Recorder)(nil)

// HistoryJobArgs carries one audit entry through the queue. River serializes
// this as JSON into its job table, so the worker never needs to re-read the
// entity the entry describes.
type HistoryJobArgs struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (HistoryJobArgs) Kind() string { return "history.record" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Recorder implements the audit sink by enqueuing River jobs. Enqueuing is
// the fire-and-forget boundary: once the job is queued the transition's
// audit trail is durable, and the worker writes it to the history table out
// of band.
type Recorder struct {
	client *Client
}

// NewRecorder creates a recorder backed by the given River client.
func NewRecorder(client *Client) *Recorder {
	return &Recorder{client: client}
}

// Record enqueues an audit entry as an async job in River.
func (r *Recorder) Record(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := r.client.Insert(ctx, HistoryJobArgs{
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		OldValue:   entry.OldValue,
		NewValue:   entry.NewValue,
		Actor:      entry.Actor,
		At:         entry.At,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing history job: %w", err)
	}
	return nil
}
