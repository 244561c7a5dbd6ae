package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rcdesk/rentcase/internal/domain"
)

// TracingRecorder wraps a domain.HistoryRecorder with OpenTelemetry tracing.
type TracingRecorder struct {
	next   domain.HistoryRecorder
	tracer trace.Tracer
}

// Compile-time check: TracingRecorder implements domain.HistoryRecorder.
var _ domain.HistoryRecorder = (*TracingRecorder)(nil)

// NewTracingRecorder creates a tracing decorator around the given recorder.
func NewTracingRecorder(next domain.HistoryRecorder) *TracingRecorder {
	return &TracingRecorder{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRecorder) Record(ctx context.Context, entry domain.HistoryEntry) error {
	ctx, span := r.tracer.Start(ctx, "HistoryRecorder.Record",
		trace.WithAttributes(
			attribute.String("history.entity_type", entry.EntityType),
			attribute.String("history.entity_id", entry.EntityID),
			attribute.String("history.action", entry.Action),
		),
	)
	defer span.End()

	err := r.next.Record(ctx, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
