package domain

import "time"

// Policy holds externally supplied parameters the lifecycle engine must not
// hardcode.
type Policy struct {
	// ReopenWindow is how long after closure/withdrawal/dismissal a case may
	// still be reopened. A zero or negative window disables reopening.
	ReopenWindow time.Duration
}

// CanReopen reports whether a case closed at the given instant may be
// reopened now.
func (p Policy) CanReopen(closedAt, now time.Time) bool {
	if p.ReopenWindow <= 0 {
		return false
	}
	return !now.After(closedAt.Add(p.ReopenWindow))
}
