package domain

import "time"

// Tenancy agreement lifecycle states.
const (
	TenancyDraft      Status = "draft"
	TenancyActive     Status = "active"
	TenancyExpired    Status = "expired"
	TenancyTerminated Status = "terminated"
	TenancyRenewed    Status = "renewed"
	TenancySuspended  Status = "suspended"
)

// Tenancy agreement lifecycle events.
const (
	EventTenancyActivate  Event = "activate"
	EventTenancyExpire    Event = "expire"
	EventTenancyTerminate Event = "terminate"
	EventTenancySuspend   Event = "suspend"
	EventTenancyReinstate Event = "reinstate"
	EventTenancyRenew     Event = "renew"
)

// TenancyTransitions defines all valid state changes in the agreement
// lifecycle. This is domain knowledge consumed by the FSM adapter.
var TenancyTransitions = []Transition{
	{Event: EventTenancyActivate, Src: TenancyDraft, Dst: TenancyActive},
	{Event: EventTenancyExpire, Src: TenancyActive, Dst: TenancyExpired},
	{Event: EventTenancyTerminate, Src: TenancyActive, Dst: TenancyTerminated},
	{Event: EventTenancySuspend, Src: TenancyActive, Dst: TenancySuspended},
	{Event: EventTenancyReinstate, Src: TenancySuspended, Dst: TenancyActive},
	{Event: EventTenancyRenew, Src: TenancyActive, Dst: TenancyRenewed},
}

// PaymentFrequency is how often rent falls due under an agreement.
type PaymentFrequency string

const (
	PayMonthly   PaymentFrequency = "monthly"
	PayQuarterly PaymentFrequency = "quarterly"
	PayAnnually  PaymentFrequency = "annually"
)

// TenancyAgreement is a contractual lease record between a landlord and a
// tenant for a property. Amounts are in the minor currency unit.
type TenancyAgreement struct {
	ID                string
	Number            string
	PropertyID        string
	LandlordID        string
	TenantID          string
	MonthlyRent       int64
	StartDate         time.Time
	EndDate           time.Time
	Status            Status
	PaymentFrequency  PaymentFrequency
	TerminationReason string
	SuspensionReason  string
	ActualVacateDate  *time.Time
	RenewedFromID     string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewTenancyAgreement creates an agreement in the initial draft state.
func NewTenancyAgreement(id, number, propertyID, landlordID, tenantID string, monthlyRent int64, start, end time.Time, freq PaymentFrequency, now time.Time) TenancyAgreement {
	return TenancyAgreement{
		ID:               id,
		Number:           number,
		PropertyID:       propertyID,
		LandlordID:       landlordID,
		TenantID:         tenantID,
		MonthlyRent:      monthlyRent,
		StartDate:        start,
		EndDate:          end,
		Status:           TenancyDraft,
		PaymentFrequency: freq,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Rent payment states.
const (
	PaymentPending       Status = "pending"
	PaymentCompleted     Status = "completed"
	PaymentFailed        Status = "failed"
	PaymentRefunded      Status = "refunded"
	PaymentPartiallyPaid Status = "partially_paid"
)

// Rent payment events, driven by external payment-confirmation signals.
const (
	EventPaymentConfirm Event = "confirm"
	EventPaymentFail    Event = "fail"
	EventPaymentPartial Event = "confirm_partial"
	EventPaymentRefund  Event = "refund"
)

// PaymentTransitions defines the rent-payment settlement machine.
var PaymentTransitions = []Transition{
	{Event: EventPaymentConfirm, Src: PaymentPending, Dst: PaymentCompleted},
	{Event: EventPaymentFail, Src: PaymentPending, Dst: PaymentFailed},
	{Event: EventPaymentPartial, Src: PaymentPending, Dst: PaymentPartiallyPaid},
	{Event: EventPaymentConfirm, Src: PaymentPartiallyPaid, Dst: PaymentCompleted},
	{Event: EventPaymentRefund, Src: PaymentCompleted, Dst: PaymentRefunded},
}

// RentPayment is a single rent payment recorded against an agreement.
type RentPayment struct {
	ID          string
	AgreementID string
	Amount      int64
	PaymentDate time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	Method      string
	Status      Status
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Occupancy is a time-bounded record of a tenant occupying a property under
// an agreement. At most one occupancy per property has IsCurrent set.
type Occupancy struct {
	ID          string
	PropertyID  string
	TenantID    string
	AgreementID string
	StartDate   time.Time
	EndDate     *time.Time
	IsCurrent   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
