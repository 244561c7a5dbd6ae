package app_test

import (
	"context"
	"errors"
	"time"

	"github.com/rcdesk/rentcase/internal/domain"
)

// Hand-written in-memory fakes for the domain ports. They return the same
// typed errors the real adapters do so the services' error handling is
// exercised for real.

type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time { return c.now }

type mockHistory struct {
	entries []domain.HistoryEntry
	fail    bool
}

func (m *mockHistory) Record(_ context.Context, entry domain.HistoryEntry) error {
	if m.fail {
		return errors.New("sink unavailable")
	}
	m.entries = append(m.entries, entry)
	return nil
}

// lastAction returns the Action of the most recent entry, or "".
func (m *mockHistory) lastAction() string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[len(m.entries)-1].Action
}

type mockCaseRepo struct {
	cases        map[string]domain.Case
	participants []domain.CaseParticipant
}

func newMockCaseRepo() *mockCaseRepo {
	return &mockCaseRepo{cases: make(map[string]domain.Case)}
}

func (m *mockCaseRepo) Create(_ context.Context, c domain.Case) error {
	m.cases[c.ID] = c
	return nil
}

func (m *mockCaseRepo) GetByID(_ context.Context, id string) (domain.Case, error) {
	c, ok := m.cases[id]
	if !ok {
		return domain.Case{}, &domain.NotFoundError{Entity: "case", ID: id}
	}
	return c, nil
}

func (m *mockCaseRepo) List(_ context.Context, filter domain.CaseFilter) ([]domain.Case, error) {
	var out []domain.Case
	for _, c := range m.cases {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.OfficerID != "" && c.AssignedOfficerID != filter.OfficerID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCaseRepo) Update(_ context.Context, c domain.Case) error {
	if _, ok := m.cases[c.ID]; !ok {
		return &domain.NotFoundError{Entity: "case", ID: c.ID}
	}
	m.cases[c.ID] = c
	return nil
}

func (m *mockCaseRepo) AddParticipant(_ context.Context, p domain.CaseParticipant) error {
	m.participants = append(m.participants, p)
	return nil
}

func (m *mockCaseRepo) ListParticipants(_ context.Context, caseID string) ([]domain.CaseParticipant, error) {
	var out []domain.CaseParticipant
	for _, p := range m.participants {
		if p.CaseID == caseID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockStaff struct {
	officers  map[string]domain.Officer
	mediators map[string]domain.Mediator
}

func newMockStaff() *mockStaff {
	return &mockStaff{
		officers:  make(map[string]domain.Officer),
		mediators: make(map[string]domain.Mediator),
	}
}

func (m *mockStaff) Officer(_ context.Context, id string) (domain.Officer, error) {
	o, ok := m.officers[id]
	if !ok {
		return domain.Officer{}, &domain.NotFoundError{Entity: "officer", ID: id}
	}
	return o, nil
}

func (m *mockStaff) Mediator(_ context.Context, id string) (domain.Mediator, error) {
	med, ok := m.mediators[id]
	if !ok {
		return domain.Mediator{}, &domain.NotFoundError{Entity: "mediator", ID: id}
	}
	return med, nil
}

func (m *mockStaff) CreateOfficer(_ context.Context, o domain.Officer) error {
	m.officers[o.ID] = o
	return nil
}

func (m *mockStaff) CreateMediator(_ context.Context, med domain.Mediator) error {
	m.mediators[med.ID] = med
	return nil
}

type mockHearingRepo struct {
	hearings     map[string]domain.Hearing
	participants map[string]domain.HearingParticipant
}

func newMockHearingRepo() *mockHearingRepo {
	return &mockHearingRepo{
		hearings:     make(map[string]domain.Hearing),
		participants: make(map[string]domain.HearingParticipant),
	}
}

func (m *mockHearingRepo) Create(_ context.Context, h domain.Hearing) error {
	m.hearings[h.ID] = h
	return nil
}

func (m *mockHearingRepo) GetByID(_ context.Context, id string) (domain.Hearing, error) {
	h, ok := m.hearings[id]
	if !ok {
		return domain.Hearing{}, &domain.NotFoundError{Entity: "hearing", ID: id}
	}
	return h, nil
}

func (m *mockHearingRepo) ListByCase(_ context.Context, caseID string) ([]domain.Hearing, error) {
	var out []domain.Hearing
	for _, h := range m.hearings {
		if h.CaseID == caseID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHearingRepo) ListByOfficerOn(_ context.Context, officerID string, date time.Time) ([]domain.Hearing, error) {
	var out []domain.Hearing
	for _, h := range m.hearings {
		if h.PresidingOfficerID != officerID {
			continue
		}
		hy, hm, hd := h.Date.Date()
		dy, dm, dd := date.Date()
		if hy == dy && hm == dm && hd == dd {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHearingRepo) Update(_ context.Context, h domain.Hearing) error {
	if _, ok := m.hearings[h.ID]; !ok {
		return &domain.NotFoundError{Entity: "hearing", ID: h.ID}
	}
	m.hearings[h.ID] = h
	return nil
}

func (m *mockHearingRepo) AddParticipant(_ context.Context, p domain.HearingParticipant) error {
	m.participants[p.ID] = p
	return nil
}

func (m *mockHearingRepo) GetParticipant(_ context.Context, id string) (domain.HearingParticipant, error) {
	p, ok := m.participants[id]
	if !ok {
		return domain.HearingParticipant{}, &domain.NotFoundError{Entity: "hearing participant", ID: id}
	}
	return p, nil
}

func (m *mockHearingRepo) UpdateParticipant(_ context.Context, p domain.HearingParticipant) error {
	m.participants[p.ID] = p
	return nil
}

type mockTenancyRepo struct {
	agreements map[string]domain.TenancyAgreement
}

func newMockTenancyRepo() *mockTenancyRepo {
	return &mockTenancyRepo{agreements: make(map[string]domain.TenancyAgreement)}
}

func (m *mockTenancyRepo) Create(_ context.Context, a domain.TenancyAgreement) error {
	m.agreements[a.ID] = a
	return nil
}

func (m *mockTenancyRepo) GetByID(_ context.Context, id string) (domain.TenancyAgreement, error) {
	a, ok := m.agreements[id]
	if !ok {
		return domain.TenancyAgreement{}, &domain.NotFoundError{Entity: "tenancy agreement", ID: id}
	}
	return a, nil
}

func (m *mockTenancyRepo) GetActiveByProperty(_ context.Context, propertyID string) (domain.TenancyAgreement, error) {
	for _, a := range m.agreements {
		if a.PropertyID == propertyID && a.Status == domain.TenancyActive {
			return a, nil
		}
	}
	return domain.TenancyAgreement{}, &domain.NotFoundError{Entity: "tenancy agreement", ID: propertyID}
}

func (m *mockTenancyRepo) List(_ context.Context, filter domain.TenancyFilter) ([]domain.TenancyAgreement, error) {
	var out []domain.TenancyAgreement
	for _, a := range m.agreements {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.PropertyID != "" && a.PropertyID != filter.PropertyID {
			continue
		}
		if filter.EndedBefore != nil && !a.EndDate.Before(*filter.EndedBefore) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockTenancyRepo) Update(_ context.Context, a domain.TenancyAgreement) error {
	if _, ok := m.agreements[a.ID]; !ok {
		return &domain.NotFoundError{Entity: "tenancy agreement", ID: a.ID}
	}
	m.agreements[a.ID] = a
	return nil
}

type mockPaymentRepo struct {
	payments map[string]domain.RentPayment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]domain.RentPayment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, p domain.RentPayment) error {
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id string) (domain.RentPayment, error) {
	p, ok := m.payments[id]
	if !ok {
		return domain.RentPayment{}, &domain.NotFoundError{Entity: "rent payment", ID: id}
	}
	return p, nil
}

func (m *mockPaymentRepo) ListByAgreement(_ context.Context, agreementID string) ([]domain.RentPayment, error) {
	var out []domain.RentPayment
	for _, p := range m.payments {
		if p.AgreementID == agreementID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) Update(_ context.Context, p domain.RentPayment) error {
	m.payments[p.ID] = p
	return nil
}

type mockOccupancyRepo struct {
	occupancies map[string]domain.Occupancy
}

func newMockOccupancyRepo() *mockOccupancyRepo {
	return &mockOccupancyRepo{occupancies: make(map[string]domain.Occupancy)}
}

func (m *mockOccupancyRepo) Create(_ context.Context, o domain.Occupancy) error {
	m.occupancies[o.ID] = o
	return nil
}

func (m *mockOccupancyRepo) CurrentByProperty(_ context.Context, propertyID string) (domain.Occupancy, error) {
	for _, o := range m.occupancies {
		if o.PropertyID == propertyID && o.IsCurrent {
			return o, nil
		}
	}
	return domain.Occupancy{}, &domain.NotFoundError{Entity: "occupancy", ID: propertyID}
}

func (m *mockOccupancyRepo) Update(_ context.Context, o domain.Occupancy) error {
	m.occupancies[o.ID] = o
	return nil
}

type mockPropertyRepo struct {
	properties map[string]domain.Property
}

func newMockPropertyRepo() *mockPropertyRepo {
	return &mockPropertyRepo{properties: make(map[string]domain.Property)}
}

func (m *mockPropertyRepo) Create(_ context.Context, p domain.Property) error {
	m.properties[p.ID] = p
	return nil
}

func (m *mockPropertyRepo) GetByID(_ context.Context, id string) (domain.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return domain.Property{}, &domain.NotFoundError{Entity: "property", ID: id}
	}
	return p, nil
}

func (m *mockPropertyRepo) Update(_ context.Context, p domain.Property) error {
	m.properties[p.ID] = p
	return nil
}

type mockMediationRepo struct {
	sessions map[string]domain.MediationSession
}

func newMockMediationRepo() *mockMediationRepo {
	return &mockMediationRepo{sessions: make(map[string]domain.MediationSession)}
}

func (m *mockMediationRepo) Create(_ context.Context, s domain.MediationSession) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockMediationRepo) GetByID(_ context.Context, id string) (domain.MediationSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return domain.MediationSession{}, &domain.NotFoundError{Entity: "mediation session", ID: id}
	}
	return s, nil
}

func (m *mockMediationRepo) ListByCase(_ context.Context, caseID string) ([]domain.MediationSession, error) {
	var out []domain.MediationSession
	for _, s := range m.sessions {
		if s.CaseID == caseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockMediationRepo) Update(_ context.Context, s domain.MediationSession) error {
	m.sessions[s.ID] = s
	return nil
}
