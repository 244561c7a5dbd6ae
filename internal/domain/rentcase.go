package domain

import "time"

// Case workflow states.
const (
	CaseDraft               Status = "draft"
	CaseSubmitted           Status = "submitted"
	CaseUnderReview         Status = "under_review"
	CaseInvestigation       Status = "investigation"
	CaseScheduledForHearing Status = "scheduled_for_hearing"
	CaseHearingInProgress   Status = "hearing_in_progress"
	CaseDecisionPending     Status = "decision_pending"
	CaseResolved            Status = "resolved"
	CaseClosed              Status = "closed"
	CaseReopened            Status = "reopened"
	CaseWithdrawn           Status = "withdrawn"
	CaseDismissed           Status = "dismissed"
)

// Case workflow events.
const (
	EventCaseSubmit            Event = "submit"
	EventCaseBeginReview       Event = "begin_review"
	EventCaseOpenInvestigation Event = "open_investigation"
	EventCaseScheduleHearing   Event = "schedule_hearing"
	EventCaseBeginHearing      Event = "begin_hearing"
	EventCaseAwaitDecision     Event = "await_decision"
	EventCaseResolve           Event = "resolve"
	EventCaseClose             Event = "close"
	EventCaseWithdraw          Event = "withdraw"
	EventCaseDismiss           Event = "dismiss"
	EventCaseReopen            Event = "reopen"
)

// caseNonTerminal is every state from which a complainant or officer may
// still withdraw or dismiss the case.
var caseNonTerminal = []Status{
	CaseDraft, CaseSubmitted, CaseUnderReview, CaseInvestigation,
	CaseScheduledForHearing, CaseHearingInProgress, CaseDecisionPending,
	CaseResolved, CaseReopened,
}

// CaseTransitions defines the full case workflow as an explicit table so the
// transition matrix is reviewable in one place.
var CaseTransitions = buildCaseTransitions()

func buildCaseTransitions() []Transition {
	out := []Transition{
		{Event: EventCaseSubmit, Src: CaseDraft, Dst: CaseSubmitted},
		{Event: EventCaseBeginReview, Src: CaseSubmitted, Dst: CaseUnderReview},
		{Event: EventCaseOpenInvestigation, Src: CaseUnderReview, Dst: CaseInvestigation},
		{Event: EventCaseScheduleHearing, Src: CaseInvestigation, Dst: CaseScheduledForHearing},
		{Event: EventCaseBeginHearing, Src: CaseScheduledForHearing, Dst: CaseHearingInProgress},
		{Event: EventCaseAwaitDecision, Src: CaseHearingInProgress, Dst: CaseDecisionPending},
		{Event: EventCaseResolve, Src: CaseDecisionPending, Dst: CaseResolved},
		{Event: EventCaseClose, Src: CaseResolved, Dst: CaseClosed},

		// A reopened case re-enters the workflow either through a fresh
		// investigation or directly at hearing scheduling.
		{Event: EventCaseOpenInvestigation, Src: CaseReopened, Dst: CaseInvestigation},
		{Event: EventCaseScheduleHearing, Src: CaseReopened, Dst: CaseScheduledForHearing},

		{Event: EventCaseReopen, Src: CaseClosed, Dst: CaseReopened},
		{Event: EventCaseReopen, Src: CaseWithdrawn, Dst: CaseReopened},
		{Event: EventCaseReopen, Src: CaseDismissed, Dst: CaseReopened},
	}

	// Withdraw and dismiss are overrides permitted from any non-terminal state.
	for _, src := range caseNonTerminal {
		out = append(out,
			Transition{Event: EventCaseWithdraw, Src: src, Dst: CaseWithdrawn},
			Transition{Event: EventCaseDismiss, Src: src, Dst: CaseDismissed},
		)
	}
	return out
}

// CaseTerminal reports whether a case status is terminal (only reopening can
// leave it).
func CaseTerminal(s Status) bool {
	return contains([]Status{CaseClosed, CaseWithdrawn, CaseDismissed}, s)
}

// CaseType classifies the dispute.
type CaseType string

const (
	CaseRentIncrease     CaseType = "rent_increase"
	CaseEviction         CaseType = "eviction"
	CaseMaintenance      CaseType = "maintenance"
	CaseDepositDispute   CaseType = "deposit_dispute"
	CaseLeaseViolation   CaseType = "lease_violation"
	CaseHarassment       CaseType = "harassment"
	CaseIllegalCharges   CaseType = "illegal_charges"
	CaseGeneralComplaint CaseType = "general_complaint"
)

// CasePriority orders the officer work queue.
type CasePriority string

const (
	PriorityLow    CasePriority = "low"
	PriorityMedium CasePriority = "medium"
	PriorityHigh   CasePriority = "high"
	PriorityUrgent CasePriority = "urgent"
)

// Resolution is the outcome recorded when a case is resolved.
type Resolution string

const (
	ResolutionMediationAgreement Resolution = "mediation_agreement"
	ResolutionRentAdjustment     Resolution = "rent_adjustment"
	ResolutionCompensationAward  Resolution = "compensation_award"
	ResolutionComplaintUpheld    Resolution = "complaint_upheld"
	ResolutionComplaintRejected  Resolution = "complaint_rejected"
	ResolutionSettlement         Resolution = "settlement"
)

// RequiresAward reports whether the resolution carries a monetary award and
// therefore needs a non-null awarded amount.
func (r Resolution) RequiresAward() bool {
	return r == ResolutionRentAdjustment || r == ResolutionCompensationAward
}

// Party holds the identity and contact details of one side of a case.
type Party struct {
	ID      string
	Name    string
	Contact string
}

// Case is a regulatory dispute record tracked from filing to closure.
type Case struct {
	ID                 string
	Number             string
	Complainant        Party
	Respondent         Party
	Type               CaseType
	Status             Status
	Priority           CasePriority
	Description        string
	PropertyID         string
	AgreementID        string
	AssignedOfficerID  string
	AssignedMediatorID string
	Resolution         *Resolution
	AwardedAmount      *int64
	SubmittedAt        *time.Time
	ClosedAt           *time.Time
	IsActive           bool
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewCase creates a case in the initial draft state.
func NewCase(id, number string, complainant, respondent Party, kind CaseType, priority CasePriority, now time.Time) Case {
	return Case{
		ID:          id,
		Number:      number,
		Complainant: complainant,
		Respondent:  respondent,
		Type:        kind,
		Status:      CaseDraft,
		Priority:    priority,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CaseParticipant is a person on the case roster beyond the two named
// parties (witnesses, representatives).
type CaseParticipant struct {
	ID      string
	CaseID  string
	PartyID string
	Name    string
	Role    ParticipantRole
	AddedAt time.Time
}

// ParticipantRole classifies a case or hearing participant.
type ParticipantRole string

const (
	RoleComplainant    ParticipantRole = "complainant"
	RoleRespondent     ParticipantRole = "respondent"
	RoleWitness        ParticipantRole = "witness"
	RoleRepresentative ParticipantRole = "representative"
)
