package domain

import (
	"context"
	"time"
)

// Clock abstracts the current time so temporal calculations stay
// deterministic and testable.
type Clock interface {
	Now() time.Time
}

// TransitionValidator checks whether an event is valid from the current
// status and returns the destination status. Each controller holds one
// validator per state machine.
type TransitionValidator interface {
	Apply(ctx context.Context, current Status, event Event) (Status, error)
}

// HistoryEntry is an immutable audit record of one lifecycle change.
type HistoryEntry struct {
	EntityType string
	EntityID   string
	Action     string
	OldValue   string
	NewValue   string
	Actor      string
	At         time.Time
}

// HistoryRecorder is the append-only audit sink. Recording is fire-and-forget
// from the engine's perspective: a failure does not roll back the transition
// but is surfaced to the caller as a HistoryWarning.
type HistoryRecorder interface {
	Record(ctx context.Context, entry HistoryEntry) error
}

// CaseFilter holds optional criteria for listing cases.
type CaseFilter struct {
	Status    *Status
	OfficerID string
	Limit     int
	Offset    int
}

// CaseRepository defines the persistence contract for cases and their
// participant roster. Update must reject stale versions with ErrConflict.
type CaseRepository interface {
	Create(ctx context.Context, c Case) error
	GetByID(ctx context.Context, id string) (Case, error)
	List(ctx context.Context, filter CaseFilter) ([]Case, error)
	Update(ctx context.Context, c Case) error
	AddParticipant(ctx context.Context, p CaseParticipant) error
	ListParticipants(ctx context.Context, caseID string) ([]CaseParticipant, error)
}

// TenancyFilter holds optional criteria for listing agreements.
type TenancyFilter struct {
	Status      *Status
	PropertyID  string
	EndedBefore *time.Time
	Limit       int
	Offset      int
}

// TenancyRepository defines the persistence contract for tenancy agreements.
type TenancyRepository interface {
	Create(ctx context.Context, a TenancyAgreement) error
	GetByID(ctx context.Context, id string) (TenancyAgreement, error)
	// GetActiveByProperty returns the single active agreement for a property,
	// or a NotFoundError if the property has none.
	GetActiveByProperty(ctx context.Context, propertyID string) (TenancyAgreement, error)
	List(ctx context.Context, filter TenancyFilter) ([]TenancyAgreement, error)
	Update(ctx context.Context, a TenancyAgreement) error
}

// RentPaymentRepository defines the persistence contract for rent payments.
type RentPaymentRepository interface {
	Create(ctx context.Context, p RentPayment) error
	GetByID(ctx context.Context, id string) (RentPayment, error)
	ListByAgreement(ctx context.Context, agreementID string) ([]RentPayment, error)
	Update(ctx context.Context, p RentPayment) error
}

// OccupancyRepository defines the persistence contract for occupancies.
type OccupancyRepository interface {
	Create(ctx context.Context, o Occupancy) error
	// CurrentByProperty returns the occupancy with IsCurrent set for a
	// property, or a NotFoundError if the property is vacant.
	CurrentByProperty(ctx context.Context, propertyID string) (Occupancy, error)
	Update(ctx context.Context, o Occupancy) error
}

// PropertyRepository defines the persistence contract for properties.
type PropertyRepository interface {
	Create(ctx context.Context, p Property) error
	GetByID(ctx context.Context, id string) (Property, error)
	Update(ctx context.Context, p Property) error
}

// HearingRepository defines the persistence contract for hearings and their
// participants.
type HearingRepository interface {
	Create(ctx context.Context, h Hearing) error
	GetByID(ctx context.Context, id string) (Hearing, error)
	ListByCase(ctx context.Context, caseID string) ([]Hearing, error)
	// ListByOfficerOn returns hearings presided by the officer on the given
	// calendar date, used for overlap detection.
	ListByOfficerOn(ctx context.Context, officerID string, date time.Time) ([]Hearing, error)
	Update(ctx context.Context, h Hearing) error
	AddParticipant(ctx context.Context, p HearingParticipant) error
	GetParticipant(ctx context.Context, id string) (HearingParticipant, error)
	UpdateParticipant(ctx context.Context, p HearingParticipant) error
}

// MediationRepository defines the persistence contract for mediation
// sessions.
type MediationRepository interface {
	Create(ctx context.Context, m MediationSession) error
	GetByID(ctx context.Context, id string) (MediationSession, error)
	ListByCase(ctx context.Context, caseID string) ([]MediationSession, error)
	Update(ctx context.Context, m MediationSession) error
}

// StaffDirectory resolves officer and mediator identity, active status and
// capability flags. The lifecycle engine treats it as read-only.
type StaffDirectory interface {
	Officer(ctx context.Context, id string) (Officer, error)
	Mediator(ctx context.Context, id string) (Mediator, error)
}

// StaffRepository extends the directory with the writes the engine needs
// for registering staff. The mediator caseload counter is derived from case
// assignments at read time, so there is no mediator update.
type StaffRepository interface {
	StaffDirectory
	CreateOfficer(ctx context.Context, o Officer) error
	CreateMediator(ctx context.Context, m Mediator) error
}
