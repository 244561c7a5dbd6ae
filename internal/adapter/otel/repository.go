package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rcdesk/rentcase/internal/domain"
)

const tracerName = "github.com/rcdesk/rentcase/internal/adapter/otel"

// TracingCaseRepository wraps a domain.CaseRepository with OpenTelemetry
// tracing. Each method creates a span with semantic attributes and records
// errors.
type TracingCaseRepository struct {
	next   domain.CaseRepository
	tracer trace.Tracer
}

// Compile-time check: TracingCaseRepository implements domain.CaseRepository.
var _ domain.CaseRepository = (*TracingCaseRepository)(nil)

// NewTracingCaseRepository creates a tracing decorator around the given
// repository.
func NewTracingCaseRepository(next domain.CaseRepository) *TracingCaseRepository {
	return &TracingCaseRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingCaseRepository) Create(ctx context.Context, c domain.Case) error {
	ctx, span := r.tracer.Start(ctx, "CaseRepository.Create",
		trace.WithAttributes(
			attribute.String("case.id", c.ID),
			attribute.String("case.reference", c.Number),
			attribute.String("case.type", string(c.Type)),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingCaseRepository) GetByID(ctx context.Context, id string) (domain.Case, error) {
	ctx, span := r.tracer.Start(ctx, "CaseRepository.GetByID",
		trace.WithAttributes(attribute.String("case.id", id)),
	)
	defer span.End()

	c, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return c, err
}

func (r *TracingCaseRepository) List(ctx context.Context, filter domain.CaseFilter) ([]domain.Case, error) {
	ctx, span := r.tracer.Start(ctx, "CaseRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}
	if filter.OfficerID != "" {
		span.SetAttributes(attribute.String("filter.officer_id", filter.OfficerID))
	}

	cases, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(cases)))
	}
	return cases, err
}

func (r *TracingCaseRepository) Update(ctx context.Context, c domain.Case) error {
	ctx, span := r.tracer.Start(ctx, "CaseRepository.Update",
		trace.WithAttributes(
			attribute.String("case.id", c.ID),
			attribute.String("case.status", string(c.Status)),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingCaseRepository) AddParticipant(ctx context.Context, p domain.CaseParticipant) error {
	ctx, span := r.tracer.Start(ctx, "CaseRepository.AddParticipant",
		trace.WithAttributes(
			attribute.String("case.id", p.CaseID),
			attribute.String("participant.role", string(p.Role)),
		),
	)
	defer span.End()

	err := r.next.AddParticipant(ctx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingCaseRepository) ListParticipants(ctx context.Context, caseID string) ([]domain.CaseParticipant, error) {
	ctx, span := r.tracer.Start(ctx, "CaseRepository.ListParticipants",
		trace.WithAttributes(attribute.String("case.id", caseID)),
	)
	defer span.End()

	parts, err := r.next.ListParticipants(ctx, caseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(parts)))
	}
	return parts, err
}
