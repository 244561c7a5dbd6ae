package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcdesk/rentcase/internal/domain"
)

// TenancyService orchestrates the tenancy agreement lifecycle: activation,
// suspension, termination, expiry, renewal, and rent-payment recording. It
// also owns the occupancy and property side effects of those transitions.
type TenancyService struct {
	agreements   domain.TenancyRepository
	payments     domain.RentPaymentRepository
	occupancies  domain.OccupancyRepository
	properties   domain.PropertyRepository
	validator    domain.TransitionValidator
	payValidator domain.TransitionValidator
	history      domain.HistoryRecorder
	clock        domain.Clock
}

// TenancyDeps bundles the collaborators a TenancyService needs.
type TenancyDeps struct {
	Agreements       domain.TenancyRepository
	Payments         domain.RentPaymentRepository
	Occupancies      domain.OccupancyRepository
	Properties       domain.PropertyRepository
	Validator        domain.TransitionValidator
	PaymentValidator domain.TransitionValidator
	History          domain.HistoryRecorder
	Clock            domain.Clock
}

// NewTenancyService creates a service with the given adapters.
func NewTenancyService(deps TenancyDeps) *TenancyService {
	return &TenancyService{
		agreements:   deps.Agreements,
		payments:     deps.Payments,
		occupancies:  deps.Occupancies,
		properties:   deps.Properties,
		validator:    deps.Validator,
		payValidator: deps.PaymentValidator,
		history:      deps.History,
		clock:        deps.Clock,
	}
}

// RegisterProperty records a new rental unit in the available state.
func (s *TenancyService) RegisterProperty(ctx context.Context, code, landlordID string, monthlyRent int64, location string) (domain.Property, error) {
	if code == "" {
		return domain.Property{}, &domain.RequiredFieldError{Field: "property code"}
	}

	now := s.clock.Now()
	p := domain.Property{
		ID:          newID(),
		Code:        code,
		LandlordID:  landlordID,
		Status:      domain.PropertyAvailable,
		MonthlyRent: monthlyRent,
		Location:    location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return domain.Property{}, fmt.Errorf("creating property: %w", err)
	}
	return p, nil
}

// GetProperty returns a property by id.
func (s *TenancyService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	return s.properties.GetByID(ctx, id)
}

// RetireProperty withdraws a property from the register. A property with an
// active agreement cannot be retired; the restriction lives here rather than
// in a storage-level cascade.
func (s *TenancyService) RetireProperty(ctx context.Context, id string) (domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	if _, err := s.agreements.GetActiveByProperty(ctx, id); err == nil {
		return domain.Property{}, &domain.StateError{
			Entity: "property", ID: id, Current: p.Status, Op: "retire with an active agreement",
		}
	} else if !isNotFound(err) {
		return domain.Property{}, err
	}

	p.Status = domain.PropertyUnavailable
	p.UpdatedAt = s.clock.Now()
	if err := s.properties.Update(ctx, p); err != nil {
		return domain.Property{}, fmt.Errorf("retiring property: %w", err)
	}
	return p, nil
}

// CreateAgreementInput carries the fields needed to draft an agreement.
type CreateAgreementInput struct {
	PropertyID  string
	LandlordID  string
	TenantID    string
	MonthlyRent int64
	StartDate   time.Time
	EndDate     time.Time
	Frequency   domain.PaymentFrequency
	Actor       string
}

// CreateDraft drafts a new tenancy agreement. The agreement takes effect
// only once activated.
func (s *TenancyService) CreateDraft(ctx context.Context, input CreateAgreementInput) (domain.TenancyAgreement, error) {
	if !input.EndDate.After(input.StartDate) {
		return domain.TenancyAgreement{}, &domain.PeriodError{Start: input.StartDate, End: input.EndDate}
	}
	if _, err := s.properties.GetByID(ctx, input.PropertyID); err != nil {
		return domain.TenancyAgreement{}, err
	}

	freq := input.Frequency
	if freq == "" {
		freq = domain.PayMonthly
	}

	id := newID()
	a := domain.NewTenancyAgreement(
		id, refNumber("TA", id),
		input.PropertyID, input.LandlordID, input.TenantID,
		input.MonthlyRent, input.StartDate, input.EndDate, freq, s.clock.Now(),
	)
	if err := s.agreements.Create(ctx, a); err != nil {
		return domain.TenancyAgreement{}, fmt.Errorf("creating agreement: %w", err)
	}

	return a, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "tenancy_agreement",
		EntityID:   a.ID,
		Action:     "Created",
		NewValue:   string(domain.TenancyDraft),
		Actor:      input.Actor,
		At:         a.CreatedAt,
	})
}

// GetAgreement returns an agreement by id.
func (s *TenancyService) GetAgreement(ctx context.Context, id string) (domain.TenancyAgreement, error) {
	return s.agreements.GetByID(ctx, id)
}

// ListAgreements returns agreements matching the given filter.
func (s *TenancyService) ListAgreements(ctx context.Context, filter domain.TenancyFilter) ([]domain.TenancyAgreement, error) {
	return s.agreements.List(ctx, filter)
}

// NextPaymentDate returns the derived next rent due date for an agreement,
// or nil when the agreement is not active. The value is recomputed on every
// call against the injected clock.
func (s *TenancyService) NextPaymentDate(ctx context.Context, id string) (*time.Time, error) {
	a, err := s.agreements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NextPaymentDate(a, s.clock.Now()), nil
}

// Activate moves a draft agreement into force: it opens an occupancy, marks
// the property occupied, and emits a history entry. Activation fails if the
// property is already held by a different active agreement.
func (s *TenancyService) Activate(ctx context.Context, id, actor string) (domain.TenancyAgreement, error) {
	a, err := s.agreements.GetByID(ctx, id)
	if err != nil {
		return domain.TenancyAgreement{}, err
	}

	next, err := s.validator.Apply(ctx, a.Status, domain.EventTenancyActivate)
	if err != nil {
		return domain.TenancyAgreement{}, err
	}

	if current, err := s.agreements.GetActiveByProperty(ctx, a.PropertyID); err == nil && current.ID != a.ID {
		return domain.TenancyAgreement{}, &domain.StateError{
			Entity: "property", ID: a.PropertyID, Current: domain.PropertyOccupied, Op: "activate a second agreement",
		}
	} else if err != nil && !isNotFound(err) {
		return domain.TenancyAgreement{}, err
	}

	now := s.clock.Now()
	old := a.Status
	a.Status = next
	a.UpdatedAt = now
	if err := s.agreements.Update(ctx, a); err != nil {
		return domain.TenancyAgreement{}, fmt.Errorf("activating agreement: %w", err)
	}

	occ := domain.Occupancy{
		ID:          newID(),
		PropertyID:  a.PropertyID,
		TenantID:    a.TenantID,
		AgreementID: a.ID,
		StartDate:   a.StartDate,
		IsCurrent:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.occupancies.Create(ctx, occ); err != nil {
		return domain.TenancyAgreement{}, fmt.Errorf("opening occupancy: %w", err)
	}

	if err := s.setPropertyStatus(ctx, a.PropertyID, domain.PropertyOccupied); err != nil {
		return domain.TenancyAgreement{}, err
	}

	return a, recordHistory(ctx, s.history, statusChange("tenancy_agreement", a.ID, old, a.Status, actor, now))
}

// Suspend takes an active agreement out of force without ending it.
func (s *TenancyService) Suspend(ctx context.Context, id, reason, actor string) (domain.TenancyAgreement, error) {
	if reason == "" {
		return domain.TenancyAgreement{}, &domain.RequiredFieldError{Field: "suspension reason"}
	}
	return s.applySimple(ctx, id, domain.EventTenancySuspend, actor, func(a *domain.TenancyAgreement) {
		a.SuspensionReason = reason
	})
}

// Reinstate returns a suspended agreement to force.
func (s *TenancyService) Reinstate(ctx context.Context, id, reason, actor string) (domain.TenancyAgreement, error) {
	if reason == "" {
		return domain.TenancyAgreement{}, &domain.RequiredFieldError{Field: "reinstatement reason"}
	}
	return s.applySimple(ctx, id, domain.EventTenancyReinstate, actor, func(a *domain.TenancyAgreement) {
		a.SuspensionReason = ""
	})
}

// Terminate ends an active agreement early: the occupancy is closed, the
// property status recomputed, and the vacate date recorded.
func (s *TenancyService) Terminate(ctx context.Context, id, reason, actor string) (domain.TenancyAgreement, error) {
	if reason == "" {
		return domain.TenancyAgreement{}, &domain.RequiredFieldError{Field: "termination reason"}
	}
	return s.end(ctx, id, domain.EventTenancyTerminate, actor, func(a *domain.TenancyAgreement, now time.Time) {
		a.TerminationReason = reason
		a.ActualVacateDate = &now
	})
}

// Expire marks an active agreement expired. It is system-triggered and only
// valid once the agreement's end date has passed.
func (s *TenancyService) Expire(ctx context.Context, id, actor string) (domain.TenancyAgreement, error) {
	a, err := s.agreements.GetByID(ctx, id)
	if err != nil {
		return domain.TenancyAgreement{}, err
	}
	if !domain.IsExpired(a, s.clock.Now()) {
		return domain.TenancyAgreement{}, &domain.StateError{
			Entity: "tenancy agreement", ID: id, Current: a.Status, Op: "expire before end date",
		}
	}
	return s.end(ctx, id, domain.EventTenancyExpire, actor, nil)
}

// ExpireDue sweeps all active agreements whose end date has passed and
// expires each one. It returns the number expired; individual failures are
// collected rather than aborting the sweep.
func (s *TenancyService) ExpireDue(ctx context.Context) (int, error) {
	now := s.clock.Now()
	active := domain.TenancyActive
	due, err := s.agreements.List(ctx, domain.TenancyFilter{Status: &active, EndedBefore: &now})
	if err != nil {
		return 0, fmt.Errorf("listing due agreements: %w", err)
	}

	var expired int
	var errs []error
	for _, a := range due {
		if _, err := s.Expire(ctx, a.ID, "system"); err != nil {
			var warn *domain.HistoryWarning
			if errors.As(err, &warn) {
				expired++
				continue
			}
			errs = append(errs, fmt.Errorf("agreement %s: %w", a.ID, err))
			continue
		}
		expired++
	}
	return expired, errors.Join(errs...)
}

// Renew closes out an active agreement with the renewed status and drafts a
// successor for the same property and tenant. The successor still has to be
// activated to take effect.
func (s *TenancyService) Renew(ctx context.Context, id string, newStart, newEnd time.Time, newRent int64, actor string) (domain.TenancyAgreement, error) {
	if !newEnd.After(newStart) {
		return domain.TenancyAgreement{}, &domain.PeriodError{Start: newStart, End: newEnd}
	}

	old, err := s.end(ctx, id, domain.EventTenancyRenew, actor, nil)
	var warn *domain.HistoryWarning
	if err != nil && !errors.As(err, &warn) {
		return domain.TenancyAgreement{}, err
	}

	rent := newRent
	if rent == 0 {
		rent = old.MonthlyRent
	}

	nid := newID()
	successor := domain.NewTenancyAgreement(
		nid, refNumber("TA", nid),
		old.PropertyID, old.LandlordID, old.TenantID,
		rent, newStart, newEnd, old.PaymentFrequency, s.clock.Now(),
	)
	successor.RenewedFromID = old.ID
	if err := s.agreements.Create(ctx, successor); err != nil {
		return domain.TenancyAgreement{}, fmt.Errorf("creating renewal draft: %w", err)
	}

	return successor, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "tenancy_agreement",
		EntityID:   successor.ID,
		Action:     "Created",
		OldValue:   old.ID,
		NewValue:   string(domain.TenancyDraft),
		Actor:      actor,
		At:         successor.CreatedAt,
	})
}

// RecordPayment registers a rent payment against an active agreement. The
// payment starts pending and is settled by an external confirmation event.
func (s *TenancyService) RecordPayment(ctx context.Context, agreementID string, amount int64, periodStart, periodEnd time.Time, method, actor string) (domain.RentPayment, error) {
	a, err := s.agreements.GetByID(ctx, agreementID)
	if err != nil {
		return domain.RentPayment{}, err
	}
	if a.Status != domain.TenancyActive {
		return domain.RentPayment{}, &domain.StateError{
			Entity: "tenancy agreement", ID: agreementID, Current: a.Status, Op: "record payment",
		}
	}
	if !periodEnd.After(periodStart) {
		return domain.RentPayment{}, &domain.PeriodError{Start: periodStart, End: periodEnd}
	}
	if amount <= 0 {
		return domain.RentPayment{}, &domain.RequiredFieldError{Field: "positive payment amount"}
	}

	now := s.clock.Now()
	p := domain.RentPayment{
		ID:          newID(),
		AgreementID: agreementID,
		Amount:      amount,
		PaymentDate: now,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Method:      method,
		Status:      domain.PaymentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return domain.RentPayment{}, fmt.Errorf("creating payment: %w", err)
	}

	return p, recordHistory(ctx, s.history, domain.HistoryEntry{
		EntityType: "rent_payment",
		EntityID:   p.ID,
		Action:     "Created",
		NewValue:   string(domain.PaymentPending),
		Actor:      actor,
		At:         now,
	})
}

// SettlePayment applies an external settlement event (confirm, fail,
// confirm_partial, refund) to a recorded payment.
func (s *TenancyService) SettlePayment(ctx context.Context, paymentID string, event domain.Event, actor string) (domain.RentPayment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return domain.RentPayment{}, err
	}

	next, err := s.payValidator.Apply(ctx, p.Status, event)
	if err != nil {
		return domain.RentPayment{}, err
	}

	old := p.Status
	p.Status = next
	p.UpdatedAt = s.clock.Now()
	if err := s.payments.Update(ctx, p); err != nil {
		return domain.RentPayment{}, fmt.Errorf("settling payment: %w", err)
	}

	return p, recordHistory(ctx, s.history, statusChange("rent_payment", p.ID, old, p.Status, actor, p.UpdatedAt))
}

// ListPayments returns the payments recorded against an agreement.
func (s *TenancyService) ListPayments(ctx context.Context, agreementID string) ([]domain.RentPayment, error) {
	return s.payments.ListByAgreement(ctx, agreementID)
}

// applySimple validates and applies a transition that has no occupancy or
// property side effects.
func (s *TenancyService) applySimple(ctx context.Context, id string, event domain.Event, actor string, mutate func(*domain.TenancyAgreement)) (domain.TenancyAgreement, error) {
	a, err := s.agreements.GetByID(ctx, id)
	if err != nil {
		return domain.TenancyAgreement{}, err
	}

	next, err := s.validator.Apply(ctx, a.Status, event)
	if err != nil {
		return domain.TenancyAgreement{}, err
	}

	old := a.Status
	a.Status = next
	a.UpdatedAt = s.clock.Now()
	if mutate != nil {
		mutate(&a)
	}
	if err := s.agreements.Update(ctx, a); err != nil {
		return domain.TenancyAgreement{}, fmt.Errorf("applying %s: %w", event, err)
	}

	return a, recordHistory(ctx, s.history, statusChange("tenancy_agreement", a.ID, old, a.Status, actor, a.UpdatedAt))
}

// end validates and applies a lifecycle-ending transition (terminate, expire,
// renew): it closes the current occupancy and recomputes the property status
// from the occupancies that remain.
func (s *TenancyService) end(ctx context.Context, id string, event domain.Event, actor string, mutate func(*domain.TenancyAgreement, time.Time)) (domain.TenancyAgreement, error) {
	a, err := s.agreements.GetByID(ctx, id)
	if err != nil {
		return domain.TenancyAgreement{}, err
	}

	next, err := s.validator.Apply(ctx, a.Status, event)
	if err != nil {
		return domain.TenancyAgreement{}, err
	}

	now := s.clock.Now()
	old := a.Status
	a.Status = next
	a.UpdatedAt = now
	if mutate != nil {
		mutate(&a, now)
	}
	if err := s.agreements.Update(ctx, a); err != nil {
		return domain.TenancyAgreement{}, fmt.Errorf("applying %s: %w", event, err)
	}

	if err := s.closeOccupancy(ctx, a, now); err != nil {
		return domain.TenancyAgreement{}, err
	}

	return a, recordHistory(ctx, s.history, statusChange("tenancy_agreement", a.ID, old, a.Status, actor, now))
}

// closeOccupancy ends the current occupancy opened by the agreement, if any,
// and recomputes the property status from what remains.
func (s *TenancyService) closeOccupancy(ctx context.Context, a domain.TenancyAgreement, now time.Time) error {
	occ, err := s.occupancies.CurrentByProperty(ctx, a.PropertyID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	occ.IsCurrent = false
	occ.EndDate = &now
	occ.UpdatedAt = now
	if err := s.occupancies.Update(ctx, occ); err != nil {
		return fmt.Errorf("closing occupancy: %w", err)
	}

	// Occupied is derived from occupancies; administrative states
	// (maintenance, unavailable) are left alone.
	p, err := s.properties.GetByID(ctx, a.PropertyID)
	if err != nil {
		return err
	}
	if p.Status == domain.PropertyOccupied {
		return s.setPropertyStatus(ctx, a.PropertyID, domain.PropertyAvailable)
	}
	return nil
}

func (s *TenancyService) setPropertyStatus(ctx context.Context, propertyID string, status domain.Status) error {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if p.Status == status {
		return nil
	}
	p.Status = status
	p.UpdatedAt = s.clock.Now()
	if err := s.properties.Update(ctx, p); err != nil {
		return fmt.Errorf("updating property status: %w", err)
	}
	return nil
}

// isNotFound reports whether err is a missing-entity error.
func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}
