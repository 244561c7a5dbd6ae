package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcdesk/rentcase/internal/domain"
)

// MediationService runs mediation sessions: requesting, scheduling, session
// transitions, and outcome recording. A recorded agreement proposes the
// linked case's move to resolved, it never forces it.
type MediationService struct {
	sessions  domain.MediationRepository
	staff     domain.StaffDirectory
	cases     *CaseService
	validator domain.TransitionValidator
	history   domain.HistoryRecorder
	clock     domain.Clock
}

// MediationDeps bundles the collaborators a MediationService needs.
type MediationDeps struct {
	Sessions  domain.MediationRepository
	Staff     domain.StaffDirectory
	Cases     *CaseService
	Validator domain.TransitionValidator
	History   domain.HistoryRecorder
	Clock     domain.Clock
}

// NewMediationService creates a service with the given adapters.
func NewMediationService(deps MediationDeps) *MediationService {
	return &MediationService{
		sessions:  deps.Sessions,
		staff:     deps.Staff,
		cases:     deps.Cases,
		validator: deps.Validator,
		history:   deps.History,
		clock:     deps.Clock,
	}
}

// Request opens a mediation session request for a live case with an active,
// under-capacity mediator.
func (s *MediationService) Request(ctx context.Context, caseID, mediatorID, actor string) (domain.MediationSession, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return domain.MediationSession{}, err
	}
	if domain.CaseTerminal(c.Status) {
		return domain.MediationSession{}, &domain.StateError{
			Entity: "case", ID: caseID, Current: c.Status, Op: "request mediation",
		}
	}

	mediator, err := s.staff.Mediator(ctx, mediatorID)
	if err != nil {
		return domain.MediationSession{}, err
	}
	if !mediator.IsActive {
		return domain.MediationSession{}, &domain.StateError{
			Entity: "mediator", ID: mediatorID, Current: "inactive", Op: "take a session",
		}
	}
	if mediator.AtCapacity() {
		return domain.MediationSession{}, &domain.CapacityError{
			MediatorID: mediatorID,
			Active:     mediator.CurrentActiveCases,
			Max:        mediator.MaxActiveCases,
		}
	}

	now := s.clock.Now()
	m := domain.MediationSession{
		ID:         newID(),
		CaseID:     caseID,
		Status:     domain.MediationRequested,
		MediatorID: mediatorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.sessions.Create(ctx, m); err != nil {
		return domain.MediationSession{}, fmt.Errorf("creating mediation session: %w", err)
	}

	return m, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "mediation_session",
		EntityID:   m.ID,
		Action:     "Created",
		NewValue:   string(domain.MediationRequested),
		Actor:      actor,
		At:         now,
	})
}

// GetByID returns a session by id.
func (s *MediationService) GetByID(ctx context.Context, id string) (domain.MediationSession, error) {
	return s.sessions.GetByID(ctx, id)
}

// ListByCase returns all mediation sessions for a case.
func (s *MediationService) ListByCase(ctx context.Context, caseID string) ([]domain.MediationSession, error) {
	return s.sessions.ListByCase(ctx, caseID)
}

// Schedule puts a requested session on the calendar.
func (s *MediationService) Schedule(ctx context.Context, id string, date time.Time, actor string) (domain.MediationSession, error) {
	return s.apply(ctx, id, domain.EventMediationSchedule, actor, func(m *domain.MediationSession) {
		m.ScheduledDate = &date
	})
}

// Advance applies a session event (begin, adjourn, resume, complete, cancel,
// fail, succeed) with optional notes.
func (s *MediationService) Advance(ctx context.Context, id string, event domain.Event, notes, actor string) (domain.MediationSession, error) {
	return s.apply(ctx, id, event, actor, func(m *domain.MediationSession) {
		if notes != "" {
			m.Notes = notes
		}
	})
}

// RecordOutcome records that the parties reached an agreement in a completed
// or successful session, then proposes resolving the linked case as a
// mediation agreement. The case controller keeps its own preconditions; a
// declined proposal is reported through caseResolved, not as an error.
func (s *MediationService) RecordOutcome(ctx context.Context, id, summary, actor string) (session domain.MediationSession, caseResolved bool, err error) {
	m, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.MediationSession{}, false, err
	}
	if !m.OutcomeRecordable() {
		return domain.MediationSession{}, false, &domain.StateError{
			Entity: "mediation session", ID: id, Current: m.Status, Op: "record outcome",
		}
	}
	if summary == "" {
		return domain.MediationSession{}, false, &domain.RequiredFieldError{Field: "agreement summary"}
	}

	m.AgreementReached = true
	m.AgreementSummary = summary
	m.UpdatedAt = s.clock.Now()
	if err := s.sessions.Update(ctx, m); err != nil {
		return domain.MediationSession{}, false, fmt.Errorf("recording outcome: %w", err)
	}

	warn := recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "mediation_session",
		EntityID:   m.ID,
		Action:     "OutcomeRecorded",
		NewValue:   "agreement_reached",
		Actor:      actor,
		At:         m.UpdatedAt,
	})

	if _, err := s.cases.Resolve(ctx, m.CaseID, domain.ResolutionMediationAgreement, nil, actor); err != nil {
		var trErr *domain.TransitionError
		var stErr *domain.StateError
		var hw *domain.HistoryWarning
		switch {
		case errors.As(err, &hw):
			return m, true, warn
		case errors.As(err, &trErr), errors.As(err, &stErr):
			// Proposal declined: the case is not ready to resolve.
			return m, false, warn
		default:
			return m, false, err
		}
	}
	return m, true, warn
}

// apply validates a session transition, persists it, and emits history.
func (s *MediationService) apply(ctx context.Context, id string, event domain.Event, actor string, mutate func(*domain.MediationSession)) (domain.MediationSession, error) {
	m, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.MediationSession{}, err
	}

	next, err := s.validator.Apply(ctx, m.Status, event)
	if err != nil {
		return domain.MediationSession{}, err
	}

	old := m.Status
	m.Status = next
	m.UpdatedAt = s.clock.Now()
	if mutate != nil {
		mutate(&m)
	}
	if err := s.sessions.Update(ctx, m); err != nil {
		return domain.MediationSession{}, fmt.Errorf("applying %s: %w", event, err)
	}

	return m, recordHistory(ctx, s.history, statusChange("mediation_session", m.ID, old, m.Status, actor, m.UpdatedAt))
}
