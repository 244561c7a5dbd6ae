package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for simple conditions without extra context.
var (
	// ErrConflict reports a concurrent-modification collision detected by the
	// persistence layer. The caller is expected to re-read and retry.
	ErrConflict = errors.New("concurrent modification conflict")
)

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Entity  string
	Event   Event
	Current Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: event %q is not valid from state %q", e.Entity, e.Event, e.Current)
}

// StateError is returned when an operation's precondition on the current
// state is not met (e.g. recording a payment on a non-active agreement).
type StateError struct {
	Entity  string
	ID      string
	Current Status
	Op      string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %q: cannot %s in state %q", e.Entity, e.ID, e.Op, e.Current)
}

// PeriodError is returned for a malformed payment period.
type PeriodError struct {
	Start time.Time
	End   time.Time
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("period end %s must be after period start %s",
		e.End.Format("2006-01-02"), e.Start.Format("2006-01-02"))
}

// TimeRangeError is returned for a malformed hearing time window.
type TimeRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("end time %s must be after start time %s",
		e.End.Format("15:04"), e.Start.Format("15:04"))
}

// CapacityError is returned when a mediator is assigned beyond their
// active-case limit.
type CapacityError struct {
	MediatorID string
	Active     int
	Max        int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("mediator %q is at capacity (%d/%d active cases)", e.MediatorID, e.Active, e.Max)
}

// UnavailableError is returned when an officer already presides over an
// overlapping hearing.
type UnavailableError struct {
	OfficerID string
	Date      time.Time
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("officer %q already presides an overlapping hearing on %s",
		e.OfficerID, e.Date.Format("2006-01-02"))
}

// PermissionError is returned when an officer lacks the capability flag an
// operation requires.
type PermissionError struct {
	OfficerID  string
	Capability string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("officer %q lacks the %s capability", e.OfficerID, e.Capability)
}

// RequiredFieldError is returned when a command is missing a mandatory field.
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// HistoryWarning reports that a transition was applied but its audit record
// could not be written. It is surfaced alongside a valid result; callers
// must not treat it as a failed transition.
type HistoryWarning struct {
	Err error
}

func (e *HistoryWarning) Error() string {
	return fmt.Sprintf("transition applied but history not recorded: %v", e.Err)
}

func (e *HistoryWarning) Unwrap() error { return e.Err }
