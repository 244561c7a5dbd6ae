package app

import (
	"context"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// CaseService orchestrates the case workflow: filing, submission, review,
// investigation, resolution, closure, and reopening, plus officer and
// mediator assignment. Every transition emits exactly one StatusChange
// history record.
type CaseService struct {
	cases     domain.CaseRepository
	hearings  domain.HearingRepository
	staff     domain.StaffRepository
	validator domain.TransitionValidator
	history   domain.HistoryRecorder
	clock     domain.Clock
	policy    domain.Policy
}

// CaseDeps bundles the collaborators a CaseService needs.
type CaseDeps struct {
	Cases     domain.CaseRepository
	Hearings  domain.HearingRepository
	Staff     domain.StaffRepository
	Validator domain.TransitionValidator
	History   domain.HistoryRecorder
	Clock     domain.Clock
	Policy    domain.Policy
}

// NewCaseService creates a service with the given adapters.
func NewCaseService(deps CaseDeps) *CaseService {
	return &CaseService{
		cases:     deps.Cases,
		hearings:  deps.Hearings,
		staff:     deps.Staff,
		validator: deps.Validator,
		history:   deps.History,
		clock:     deps.Clock,
		policy:    deps.Policy,
	}
}

// OpenCaseInput carries the fields needed to file a draft case.
type OpenCaseInput struct {
	Complainant domain.Party
	Respondent  domain.Party
	Type        domain.CaseType
	Priority    domain.CasePriority
	Description string
	PropertyID  string
	AgreementID string
	Actor       string
}

// Open files a new case in the draft state.
func (s *CaseService) Open(ctx context.Context, input OpenCaseInput) (domain.Case, error) {
	id := newID()
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	c := domain.NewCase(id, refNumber("CASE", id), input.Complainant, input.Respondent, input.Type, priority, s.clock.Now())
	c.Description = input.Description
	c.PropertyID = input.PropertyID
	c.AgreementID = input.AgreementID

	if err := s.cases.Create(ctx, c); err != nil {
		return domain.Case{}, fmt.Errorf("creating case: %w", err)
	}

	return c, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "case",
		EntityID:   c.ID,
		Action:     "Created",
		NewValue:   string(domain.CaseDraft),
		Actor:      input.Actor,
		At:         c.CreatedAt,
	})
}

// GetByID returns a case by id.
func (s *CaseService) GetByID(ctx context.Context, id string) (domain.Case, error) {
	return s.cases.GetByID(ctx, id)
}

// List returns cases matching the given filter.
func (s *CaseService) List(ctx context.Context, filter domain.CaseFilter) ([]domain.Case, error) {
	return s.cases.List(ctx, filter)
}

// Submit files a draft case with the authority. The complainant and
// respondent identities must be complete.
func (s *CaseService) Submit(ctx context.Context, id, actor string) (domain.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return domain.Case{}, err
	}

	for field, value := range map[string]string{
		"complainant name":    c.Complainant.Name,
		"complainant contact": c.Complainant.Contact,
		"respondent name":     c.Respondent.Name,
		"respondent contact":  c.Respondent.Contact,
	} {
		if value == "" {
			return domain.Case{}, &domain.RequiredFieldError{Field: field}
		}
	}

	return s.apply(ctx, c, domain.EventCaseSubmit, actor)
}

// BeginReview moves a submitted case under review.
func (s *CaseService) BeginReview(ctx context.Context, id, actor string) (domain.Case, error) {
	return s.Advance(ctx, id, domain.EventCaseBeginReview, actor)
}

// AssignOfficer assigns an active officer to the case. Assignment is a
// precondition for leaving review.
func (s *CaseService) AssignOfficer(ctx context.Context, caseID, officerID, actor string) (domain.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return domain.Case{}, err
	}

	officer, err := s.staff.Officer(ctx, officerID)
	if err != nil {
		return domain.Case{}, err
	}
	if !officer.IsActive {
		return domain.Case{}, &domain.StateError{
			Entity: "officer", ID: officerID, Current: "inactive", Op: "assign to case",
		}
	}

	old := c.AssignedOfficerID
	c.AssignedOfficerID = officerID
	c.UpdatedAt = s.clock.Now()
	if err := s.cases.Update(ctx, c); err != nil {
		return domain.Case{}, fmt.Errorf("assigning officer: %w", err)
	}

	return c, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "case",
		EntityID:   c.ID,
		Action:     "OfficerAssigned",
		OldValue:   old,
		NewValue:   officerID,
		Actor:      actor,
		At:         c.UpdatedAt,
	})
}

// AssignMediator assigns an active mediator with free capacity to the case.
// The caseload counter is derived from assignments, so the capacity check
// reads a fresh count in the same unit of work as the assignment it guards.
func (s *CaseService) AssignMediator(ctx context.Context, caseID, mediatorID, actor string) (domain.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return domain.Case{}, err
	}

	mediator, err := s.staff.Mediator(ctx, mediatorID)
	if err != nil {
		return domain.Case{}, err
	}
	if !mediator.IsActive {
		return domain.Case{}, &domain.StateError{
			Entity: "mediator", ID: mediatorID, Current: "inactive", Op: "assign to case",
		}
	}
	if mediator.AtCapacity() {
		return domain.Case{}, &domain.CapacityError{
			MediatorID: mediatorID,
			Active:     mediator.CurrentActiveCases,
			Max:        mediator.MaxActiveCases,
		}
	}

	old := c.AssignedMediatorID
	c.AssignedMediatorID = mediatorID
	c.UpdatedAt = s.clock.Now()
	if err := s.cases.Update(ctx, c); err != nil {
		return domain.Case{}, fmt.Errorf("assigning mediator: %w", err)
	}

	return c, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "case",
		EntityID:   c.ID,
		Action:     "MediatorAssigned",
		OldValue:   old,
		NewValue:   mediatorID,
		Actor:      actor,
		At:         c.UpdatedAt,
	})
}

// OpenInvestigation moves a case from review into investigation. An active
// officer must already be assigned.
func (s *CaseService) OpenInvestigation(ctx context.Context, id, actor string) (domain.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return domain.Case{}, err
	}

	if c.AssignedOfficerID == "" {
		return domain.Case{}, &domain.StateError{
			Entity: "case", ID: id, Current: c.Status, Op: "open investigation without an assigned officer",
		}
	}
	officer, err := s.staff.Officer(ctx, c.AssignedOfficerID)
	if err != nil {
		return domain.Case{}, err
	}
	if !officer.IsActive {
		return domain.Case{}, &domain.StateError{
			Entity: "officer", ID: officer.ID, Current: "inactive", Op: "lead investigation",
		}
	}

	return s.apply(ctx, c, domain.EventCaseOpenInvestigation, actor)
}

// Resolve records the case outcome. Award-bearing resolutions require an
// awarded amount.
func (s *CaseService) Resolve(ctx context.Context, id string, resolution domain.Resolution, awarded *int64, actor string) (domain.Case, error) {
	if resolution == "" {
		return domain.Case{}, &domain.RequiredFieldError{Field: "resolution"}
	}
	if resolution.RequiresAward() && awarded == nil {
		return domain.Case{}, &domain.RequiredFieldError{Field: "awarded amount"}
	}

	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return domain.Case{}, err
	}

	c.Resolution = &resolution
	c.AwardedAmount = awarded
	return s.apply(ctx, c, domain.EventCaseResolve, actor)
}

// Close closes a resolved case. The closing officer must hold the
// case-closing capability.
func (s *CaseService) Close(ctx context.Context, id, officerID, actor string) (domain.Case, error) {
	officer, err := s.staff.Officer(ctx, officerID)
	if err != nil {
		return domain.Case{}, err
	}
	if !officer.IsActive {
		return domain.Case{}, &domain.StateError{
			Entity: "officer", ID: officerID, Current: "inactive", Op: "close case",
		}
	}
	if !officer.CanCloseCases {
		return domain.Case{}, &domain.PermissionError{OfficerID: officerID, Capability: "close cases"}
	}

	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return domain.Case{}, err
	}
	return s.apply(ctx, c, domain.EventCaseClose, actor)
}

// Withdraw withdraws the case on the complainant's initiative. Permitted
// from any non-terminal state.
func (s *CaseService) Withdraw(ctx context.Context, id, actor string) (domain.Case, error) {
	return s.Advance(ctx, id, domain.EventCaseWithdraw, actor)
}

// Dismiss dismisses the case by officer override. Permitted from any
// non-terminal state.
func (s *CaseService) Dismiss(ctx context.Context, id, actor string) (domain.Case, error) {
	return s.Advance(ctx, id, domain.EventCaseDismiss, actor)
}

// Reopen reopens a closed, withdrawn, or dismissed case. Only permitted
// within the policy's grace window after closure.
func (s *CaseService) Reopen(ctx context.Context, id, actor string) (domain.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return domain.Case{}, err
	}

	if c.ClosedAt == nil || !s.policy.CanReopen(*c.ClosedAt, s.clock.Now()) {
		return domain.Case{}, &domain.StateError{
			Entity: "case", ID: id, Current: c.Status, Op: "reopen outside the grace window",
		}
	}

	return s.apply(ctx, c, domain.EventCaseReopen, actor)
}

// Advance validates and applies a workflow event by name. Events with
// dedicated preconditions have their own methods; Advance is also the hook
// the hearing and mediation controllers use to move a case along.
func (s *CaseService) Advance(ctx context.Context, id string, event domain.Event, actor string) (domain.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return domain.Case{}, err
	}

	switch event {
	case domain.EventCaseSubmit:
		return s.Submit(ctx, id, actor)
	case domain.EventCaseOpenInvestigation:
		return s.OpenInvestigation(ctx, id, actor)
	case domain.EventCaseReopen:
		return s.Reopen(ctx, id, actor)
	case domain.EventCaseClose:
		// Closure checks the closing officer's capability; Close is the
		// only path that identifies one.
		return domain.Case{}, &domain.RequiredFieldError{Field: "closing officer"}
	case domain.EventCaseScheduleHearing:
		if err := s.requireScheduledHearing(ctx, id); err != nil {
			return domain.Case{}, err
		}
	}

	return s.apply(ctx, c, event, actor)
}

// requireScheduledHearing enforces that a case only enters the hearing stage
// with at least one hearing actually scheduled.
func (s *CaseService) requireScheduledHearing(ctx context.Context, caseID string) error {
	hearings, err := s.hearings.ListByCase(ctx, caseID)
	if err != nil {
		return err
	}
	for _, h := range hearings {
		if h.Status == domain.HearingScheduled {
			return nil
		}
	}
	return &domain.StateError{
		Entity: "case", ID: caseID, Current: domain.CaseInvestigation, Op: "enter hearing stage without a scheduled hearing",
	}
}

// apply validates the transition against the workflow table, applies the
// per-event effects, persists the case, and emits the StatusChange record.
func (s *CaseService) apply(ctx context.Context, c domain.Case, event domain.Event, actor string) (domain.Case, error) {
	next, err := s.validator.Apply(ctx, c.Status, event)
	if err != nil {
		return domain.Case{}, err
	}

	now := s.clock.Now()
	old := c.Status
	c.Status = next
	c.UpdatedAt = now

	switch event {
	case domain.EventCaseSubmit:
		c.SubmittedAt = &now
	case domain.EventCaseClose, domain.EventCaseWithdraw, domain.EventCaseDismiss:
		c.ClosedAt = &now
		c.IsActive = false
	case domain.EventCaseReopen:
		c.ClosedAt = nil
		c.IsActive = true
	}

	if err := s.cases.Update(ctx, c); err != nil {
		return domain.Case{}, fmt.Errorf("applying %s: %w", event, err)
	}

	return c, recordHistory(ctx, s.history, statusChange("case", c.ID, old, c.Status, actor, now))
}

// AddParticipant adds a witness or representative to the case roster.
func (s *CaseService) AddParticipant(ctx context.Context, caseID, partyID, name string, role domain.ParticipantRole) (domain.CaseParticipant, error) {
	if _, err := s.cases.GetByID(ctx, caseID); err != nil {
		return domain.CaseParticipant{}, err
	}
	if name == "" {
		return domain.CaseParticipant{}, &domain.RequiredFieldError{Field: "participant name"}
	}

	p := domain.CaseParticipant{
		ID:      newID(),
		CaseID:  caseID,
		PartyID: partyID,
		Name:    name,
		Role:    role,
		AddedAt: s.clock.Now(),
	}
	if err := s.cases.AddParticipant(ctx, p); err != nil {
		return domain.CaseParticipant{}, fmt.Errorf("adding participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns the case roster.
func (s *CaseService) ListParticipants(ctx context.Context, caseID string) ([]domain.CaseParticipant, error) {
	return s.cases.ListParticipants(ctx, caseID)
}

// RegisterOfficer records an officer in the staff register.
func (s *CaseService) RegisterOfficer(ctx context.Context, o domain.Officer) (domain.Officer, error) {
	if o.Name == "" {
		return domain.Officer{}, &domain.RequiredFieldError{Field: "officer name"}
	}
	now := s.clock.Now()
	o.ID = newID()
	o.CreatedAt = now
	o.UpdatedAt = now
	if err := s.staff.CreateOfficer(ctx, o); err != nil {
		return domain.Officer{}, fmt.Errorf("creating officer: %w", err)
	}
	return o, nil
}

// RegisterMediator records a mediator in the staff register.
func (s *CaseService) RegisterMediator(ctx context.Context, m domain.Mediator) (domain.Mediator, error) {
	if m.Name == "" {
		return domain.Mediator{}, &domain.RequiredFieldError{Field: "mediator name"}
	}
	if m.MaxActiveCases <= 0 {
		return domain.Mediator{}, &domain.RequiredFieldError{Field: "positive active-case limit"}
	}
	now := s.clock.Now()
	m.ID = newID()
	m.CurrentActiveCases = 0
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.staff.CreateMediator(ctx, m); err != nil {
		return domain.Mediator{}, fmt.Errorf("creating mediator: %w", err)
	}
	return m, nil
}
