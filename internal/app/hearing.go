package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcdesk/rentcase/internal/domain"
)

// caseStagesOpenForHearings are the case states in which a hearing may be
// scheduled.
var caseStagesOpenForHearings = []domain.Status{
	domain.CaseInvestigation,
	domain.CaseScheduledForHearing,
	domain.CaseReopened,
}

// HearingService schedules and runs hearings: time-window validation,
// per-officer availability, hearing status transitions, participant
// check-in, and the case advancement those transitions imply.
type HearingService struct {
	hearings  domain.HearingRepository
	staff     domain.StaffDirectory
	cases     *CaseService
	validator domain.TransitionValidator
	history   domain.HistoryRecorder
	clock     domain.Clock
}

// HearingDeps bundles the collaborators a HearingService needs.
type HearingDeps struct {
	Hearings  domain.HearingRepository
	Staff     domain.StaffDirectory
	Cases     *CaseService
	Validator domain.TransitionValidator
	History   domain.HistoryRecorder
	Clock     domain.Clock
}

// NewHearingService creates a service with the given adapters.
func NewHearingService(deps HearingDeps) *HearingService {
	return &HearingService{
		hearings:  deps.Hearings,
		staff:     deps.Staff,
		cases:     deps.Cases,
		validator: deps.Validator,
		history:   deps.History,
		clock:     deps.Clock,
	}
}

// ScheduleHearingInput carries the fields needed to schedule a hearing.
type ScheduleHearingInput struct {
	CaseID             string
	Date               time.Time
	StartTime          time.Time
	EndTime            time.Time
	Location           string
	PresidingOfficerID string
	Actor              string
}

// Schedule creates a hearing for a case and, when the case is still in
// investigation or freshly reopened, advances it to the hearing stage.
func (s *HearingService) Schedule(ctx context.Context, input ScheduleHearingInput) (domain.Hearing, error) {
	if !input.EndTime.After(input.StartTime) {
		return domain.Hearing{}, &domain.TimeRangeError{Start: input.StartTime, End: input.EndTime}
	}

	c, err := s.cases.GetByID(ctx, input.CaseID)
	if err != nil {
		return domain.Hearing{}, err
	}
	if !statusIn(c.Status, caseStagesOpenForHearings) {
		return domain.Hearing{}, &domain.StateError{
			Entity: "case", ID: c.ID, Current: c.Status, Op: "schedule a hearing",
		}
	}

	officer, err := s.staff.Officer(ctx, input.PresidingOfficerID)
	if err != nil {
		return domain.Hearing{}, err
	}
	if !officer.IsActive {
		return domain.Hearing{}, &domain.StateError{
			Entity: "officer", ID: officer.ID, Current: "inactive", Op: "preside a hearing",
		}
	}
	if !officer.CanPresideHearings {
		return domain.Hearing{}, &domain.PermissionError{OfficerID: officer.ID, Capability: "preside hearings"}
	}

	now := s.clock.Now()
	id := newID()
	h := domain.Hearing{
		ID:                 id,
		CaseID:             input.CaseID,
		Number:             refNumber("HRG", id),
		Date:               input.Date,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		Location:           input.Location,
		Status:             domain.HearingScheduled,
		PresidingOfficerID: input.PresidingOfficerID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.checkOfficerFree(ctx, h, ""); err != nil {
		return domain.Hearing{}, err
	}

	if err := s.hearings.Create(ctx, h); err != nil {
		return domain.Hearing{}, fmt.Errorf("creating hearing: %w", err)
	}

	// Advance the case unless it is already at or past the hearing stage.
	if c.Status == domain.CaseInvestigation || c.Status == domain.CaseReopened {
		if _, err := s.cases.Advance(ctx, c.ID, domain.EventCaseScheduleHearing, input.Actor); err != nil {
			var warn *domain.HistoryWarning
			if !errors.As(err, &warn) {
				return domain.Hearing{}, fmt.Errorf("advancing case to hearing stage: %w", err)
			}
		}
	}

	return h, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "hearing",
		EntityID:   h.ID,
		Action:     "Created",
		NewValue:   string(domain.HearingScheduled),
		Actor:      input.Actor,
		At:         now,
	})
}

// GetByID returns a hearing by id.
func (s *HearingService) GetByID(ctx context.Context, id string) (domain.Hearing, error) {
	return s.hearings.GetByID(ctx, id)
}

// ListByCase returns all hearings for a case.
func (s *HearingService) ListByCase(ctx context.Context, caseID string) ([]domain.Hearing, error) {
	return s.hearings.ListByCase(ctx, caseID)
}

// Begin opens a scheduled hearing and mirrors the start on the case.
func (s *HearingService) Begin(ctx context.Context, id, actor string) (domain.Hearing, error) {
	h, err := s.apply(ctx, id, domain.EventHearingBegin, actor, nil)
	if err != nil {
		return domain.Hearing{}, err
	}

	c, err := s.cases.GetByID(ctx, h.CaseID)
	if err != nil {
		return domain.Hearing{}, err
	}
	if c.Status == domain.CaseScheduledForHearing {
		if _, err := s.cases.Advance(ctx, c.ID, domain.EventCaseBeginHearing, actor); err != nil {
			var warn *domain.HistoryWarning
			if !errors.As(err, &warn) {
				return domain.Hearing{}, fmt.Errorf("mirroring hearing start on case: %w", err)
			}
		}
	}
	return h, nil
}

// Adjourn pauses a hearing in progress.
func (s *HearingService) Adjourn(ctx context.Context, id, notes, actor string) (domain.Hearing, error) {
	return s.apply(ctx, id, domain.EventHearingAdjourn, actor, func(h *domain.Hearing) {
		if notes != "" {
			h.Notes = notes
		}
	})
}

// Complete finishes a hearing in progress. Completing the last open hearing
// for a case moves the case to the decision stage.
func (s *HearingService) Complete(ctx context.Context, id, notes, actor string) (domain.Hearing, error) {
	h, err := s.apply(ctx, id, domain.EventHearingComplete, actor, func(h *domain.Hearing) {
		if notes != "" {
			h.Notes = notes
		}
	})
	if err != nil {
		return domain.Hearing{}, err
	}

	remaining, err := s.hearings.ListByCase(ctx, h.CaseID)
	if err != nil {
		return domain.Hearing{}, err
	}
	for _, other := range remaining {
		if other.ID != h.ID && domain.HearingOpen(other.Status) {
			return h, nil
		}
	}

	c, err := s.cases.GetByID(ctx, h.CaseID)
	if err != nil {
		return domain.Hearing{}, err
	}
	if c.Status == domain.CaseHearingInProgress {
		if _, err := s.cases.Advance(ctx, c.ID, domain.EventCaseAwaitDecision, actor); err != nil {
			var warn *domain.HistoryWarning
			if !errors.As(err, &warn) {
				return domain.Hearing{}, fmt.Errorf("moving case to decision stage: %w", err)
			}
		}
	}
	return h, nil
}

// Cancel cancels a scheduled or adjourned hearing.
func (s *HearingService) Cancel(ctx context.Context, id, actor string) (domain.Hearing, error) {
	return s.apply(ctx, id, domain.EventHearingCancel, actor, nil)
}

// Reschedule retires a scheduled hearing and creates its replacement at the
// new time. The replacement is checked against the officer's calendar.
func (s *HearingService) Reschedule(ctx context.Context, id string, date, start, end time.Time, actor string) (domain.Hearing, error) {
	if !end.After(start) {
		return domain.Hearing{}, &domain.TimeRangeError{Start: start, End: end}
	}

	old, err := s.hearings.GetByID(ctx, id)
	if err != nil {
		return domain.Hearing{}, err
	}

	next, err := s.validator.Apply(ctx, old.Status, domain.EventHearingReschedule)
	if err != nil {
		return domain.Hearing{}, err
	}

	now := s.clock.Now()
	nid := newID()
	replacement := old
	replacement.ID = nid
	replacement.Number = refNumber("HRG", nid)
	replacement.Date = date
	replacement.StartTime = start
	replacement.EndTime = end
	replacement.Status = domain.HearingScheduled
	replacement.RescheduledToID = ""
	replacement.Version = 0
	replacement.CreatedAt = now
	replacement.UpdatedAt = now

	if err := s.checkOfficerFree(ctx, replacement, old.ID); err != nil {
		return domain.Hearing{}, err
	}

	if err := s.hearings.Create(ctx, replacement); err != nil {
		return domain.Hearing{}, fmt.Errorf("creating replacement hearing: %w", err)
	}

	oldStatus := old.Status
	old.Status = next
	old.RescheduledToID = replacement.ID
	old.UpdatedAt = now
	if err := s.hearings.Update(ctx, old); err != nil {
		return domain.Hearing{}, fmt.Errorf("retiring rescheduled hearing: %w", err)
	}

	return replacement, recordHistory(ctx, s.history, statusChange("hearing", old.ID, oldStatus, old.Status, actor, now))
}

// Resume puts an adjourned hearing back on the calendar at a new time.
func (s *HearingService) Resume(ctx context.Context, id string, date, start, end time.Time, actor string) (domain.Hearing, error) {
	if !end.After(start) {
		return domain.Hearing{}, &domain.TimeRangeError{Start: start, End: end}
	}

	h, err := s.hearings.GetByID(ctx, id)
	if err != nil {
		return domain.Hearing{}, err
	}

	probe := h
	probe.Date = date
	probe.StartTime = start
	probe.EndTime = end
	if err := s.checkOfficerFree(ctx, probe, h.ID); err != nil {
		return domain.Hearing{}, err
	}

	return s.apply(ctx, id, domain.EventHearingResume, actor, func(h *domain.Hearing) {
		h.Date = date
		h.StartTime = start
		h.EndTime = end
	})
}

// AddParticipant summons a person to a hearing.
func (s *HearingService) AddParticipant(ctx context.Context, hearingID, partyID, name string, role domain.ParticipantRole) (domain.HearingParticipant, error) {
	if _, err := s.hearings.GetByID(ctx, hearingID); err != nil {
		return domain.HearingParticipant{}, err
	}
	if name == "" {
		return domain.HearingParticipant{}, &domain.RequiredFieldError{Field: "participant name"}
	}

	p := domain.HearingParticipant{
		ID:        newID(),
		HearingID: hearingID,
		PartyID:   partyID,
		Name:      name,
		Role:      role,
	}
	if err := s.hearings.AddParticipant(ctx, p); err != nil {
		return domain.HearingParticipant{}, fmt.Errorf("adding participant: %w", err)
	}
	return p, nil
}

// CheckIn records a participant's arrival.
func (s *HearingService) CheckIn(ctx context.Context, participantID string) (domain.HearingParticipant, error) {
	p, err := s.hearings.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.HearingParticipant{}, err
	}
	if p.CheckedInAt != nil {
		return domain.HearingParticipant{}, &domain.StateError{
			Entity: "hearing participant", ID: participantID, Current: "checked_in", Op: "check in again",
		}
	}

	now := s.clock.Now()
	p.CheckedInAt = &now
	if err := s.hearings.UpdateParticipant(ctx, p); err != nil {
		return domain.HearingParticipant{}, fmt.Errorf("checking in participant: %w", err)
	}
	return p, nil
}

// CheckOut records a participant's departure. It requires a prior check-in
// and never precedes it.
func (s *HearingService) CheckOut(ctx context.Context, participantID string) (domain.HearingParticipant, error) {
	p, err := s.hearings.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.HearingParticipant{}, err
	}
	if p.CheckedInAt == nil {
		return domain.HearingParticipant{}, &domain.StateError{
			Entity: "hearing participant", ID: participantID, Current: "not_checked_in", Op: "check out",
		}
	}

	now := s.clock.Now()
	if now.Before(*p.CheckedInAt) {
		now = *p.CheckedInAt
	}
	p.CheckedOutAt = &now
	if err := s.hearings.UpdateParticipant(ctx, p); err != nil {
		return domain.HearingParticipant{}, fmt.Errorf("checking out participant: %w", err)
	}
	return p, nil
}

// MarkAttended confirms attendance. Only checked-in participants count as
// having attended.
func (s *HearingService) MarkAttended(ctx context.Context, participantID string) (domain.HearingParticipant, error) {
	p, err := s.hearings.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.HearingParticipant{}, err
	}
	if p.CheckedInAt == nil {
		return domain.HearingParticipant{}, &domain.StateError{
			Entity: "hearing participant", ID: participantID, Current: "not_checked_in", Op: "mark attended",
		}
	}

	p.Attended = true
	if err := s.hearings.UpdateParticipant(ctx, p); err != nil {
		return domain.HearingParticipant{}, fmt.Errorf("marking attendance: %w", err)
	}
	return p, nil
}

// apply validates a hearing transition, persists it, and emits history.
func (s *HearingService) apply(ctx context.Context, id string, event domain.Event, actor string, mutate func(*domain.Hearing)) (domain.Hearing, error) {
	h, err := s.hearings.GetByID(ctx, id)
	if err != nil {
		return domain.Hearing{}, err
	}

	next, err := s.validator.Apply(ctx, h.Status, event)
	if err != nil {
		return domain.Hearing{}, err
	}

	old := h.Status
	h.Status = next
	h.UpdatedAt = s.clock.Now()
	if mutate != nil {
		mutate(&h)
	}
	if err := s.hearings.Update(ctx, h); err != nil {
		return domain.Hearing{}, fmt.Errorf("applying %s: %w", event, err)
	}

	return h, recordHistory(ctx, s.history, statusChange("hearing", h.ID, old, h.Status, actor, h.UpdatedAt))
}

// checkOfficerFree rejects a hearing whose window overlaps another open
// hearing presided by the same officer on the same date.
func (s *HearingService) checkOfficerFree(ctx context.Context, h domain.Hearing, excludeID string) error {
	existing, err := s.hearings.ListByOfficerOn(ctx, h.PresidingOfficerID, h.Date)
	if err != nil {
		return fmt.Errorf("listing officer hearings: %w", err)
	}
	for _, other := range existing {
		if other.ID == excludeID || !domain.HearingOpen(other.Status) {
			continue
		}
		if h.Overlaps(other) {
			return &domain.UnavailableError{OfficerID: h.PresidingOfficerID, Date: h.Date}
		}
	}
	return nil
}

func statusIn(s domain.Status, set []domain.Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
