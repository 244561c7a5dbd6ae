package domain

import "time"

// Hearing states.
const (
	HearingScheduled   Status = "scheduled"
	HearingInProgress  Status = "in_progress"
	HearingAdjourned   Status = "adjourned"
	HearingCompleted   Status = "completed"
	HearingCancelled   Status = "cancelled"
	HearingRescheduled Status = "rescheduled"
)

// Hearing events.
const (
	EventHearingBegin      Event = "begin"
	EventHearingReschedule Event = "reschedule"
	EventHearingCancel     Event = "cancel"
	EventHearingAdjourn    Event = "adjourn"
	EventHearingComplete   Event = "complete"
	EventHearingResume     Event = "resume"
)

// HearingTransitions defines the hearing state machine. Completed, Cancelled
// and Rescheduled are terminal; a rescheduled hearing is replaced by a new
// one rather than mutated in place.
var HearingTransitions = []Transition{
	{Event: EventHearingBegin, Src: HearingScheduled, Dst: HearingInProgress},
	{Event: EventHearingReschedule, Src: HearingScheduled, Dst: HearingRescheduled},
	{Event: EventHearingCancel, Src: HearingScheduled, Dst: HearingCancelled},
	{Event: EventHearingAdjourn, Src: HearingInProgress, Dst: HearingAdjourned},
	{Event: EventHearingComplete, Src: HearingInProgress, Dst: HearingCompleted},
	{Event: EventHearingResume, Src: HearingAdjourned, Dst: HearingScheduled},
	{Event: EventHearingCancel, Src: HearingAdjourned, Dst: HearingCancelled},
}

// HearingOpen reports whether a hearing still counts toward the case's
// pending hearings (i.e. it has not reached a terminal state).
func HearingOpen(s Status) bool {
	return contains([]Status{HearingScheduled, HearingInProgress, HearingAdjourned}, s)
}

// Hearing is a formal proceeding presided over by an officer, tied to a case.
type Hearing struct {
	ID                 string
	CaseID             string
	Number             string
	Date               time.Time
	StartTime          time.Time
	EndTime            time.Time
	Location           string
	Status             Status
	PresidingOfficerID string
	Notes              string
	RescheduledToID    string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Overlaps reports whether two hearings on the same date have intersecting
// time windows. Touching boundaries do not overlap.
func (h Hearing) Overlaps(other Hearing) bool {
	if !sameDay(h.Date, other.Date) {
		return false
	}
	return h.StartTime.Before(other.EndTime) && other.StartTime.Before(h.EndTime)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// HearingParticipant is a person summoned to or attending a hearing.
// Attendance may only be confirmed after check-in.
type HearingParticipant struct {
	ID           string
	HearingID    string
	PartyID      string
	Name         string
	Role         ParticipantRole
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	Attended     bool
}
