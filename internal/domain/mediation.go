package domain

import "time"

// Mediation session states.
const (
	MediationRequested  Status = "requested"
	MediationScheduled  Status = "scheduled"
	MediationInProgress Status = "in_progress"
	MediationAdjourned  Status = "adjourned"
	MediationCompleted  Status = "completed"
	MediationCancelled  Status = "cancelled"
	MediationFailed     Status = "failed"
	MediationSuccessful Status = "successful"
)

// Mediation session events.
const (
	EventMediationSchedule Event = "schedule"
	EventMediationBegin    Event = "begin"
	EventMediationAdjourn  Event = "adjourn"
	EventMediationResume   Event = "resume"
	EventMediationComplete Event = "complete"
	EventMediationCancel   Event = "cancel"
	EventMediationFail     Event = "fail"
	EventMediationSucceed  Event = "succeed"
)

// MediationTransitions defines the mediation session machine. Cancelled,
// Failed and Successful are alternate terminals alongside Completed.
var MediationTransitions = []Transition{
	{Event: EventMediationSchedule, Src: MediationRequested, Dst: MediationScheduled},
	{Event: EventMediationBegin, Src: MediationScheduled, Dst: MediationInProgress},
	{Event: EventMediationAdjourn, Src: MediationInProgress, Dst: MediationAdjourned},
	{Event: EventMediationResume, Src: MediationAdjourned, Dst: MediationScheduled},
	{Event: EventMediationComplete, Src: MediationInProgress, Dst: MediationCompleted},
	{Event: EventMediationCancel, Src: MediationRequested, Dst: MediationCancelled},
	{Event: EventMediationCancel, Src: MediationScheduled, Dst: MediationCancelled},
	{Event: EventMediationCancel, Src: MediationInProgress, Dst: MediationCancelled},
	{Event: EventMediationFail, Src: MediationScheduled, Dst: MediationFailed},
	{Event: EventMediationFail, Src: MediationInProgress, Dst: MediationFailed},
	{Event: EventMediationSucceed, Src: MediationInProgress, Dst: MediationSuccessful},
}

// MediationSession is a structured dispute-resolution meeting distinct from a
// formal hearing.
type MediationSession struct {
	ID               string
	CaseID           string
	Status           Status
	MediatorID       string
	ScheduledDate    *time.Time
	AgreementReached bool
	AgreementSummary string
	Notes            string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OutcomeRecordable reports whether a session is in a state where an
// agreement outcome may be recorded.
func (m MediationSession) OutcomeRecordable() bool {
	return m.Status == MediationCompleted || m.Status == MediationSuccessful
}
