package domain

import "time"

// NextPaymentDate computes the next rent due date for an agreement as a pure
// function of (startDate, status, now). It returns nil unless the agreement
// is active. Whole calendar months elapsed are counted with year*12+month
// arithmetic, ignoring the day of month; an agreement that has not yet
// started is due on its start date. The result is derived on every read and
// never persisted, so it cannot go stale against the clock.
func NextPaymentDate(a TenancyAgreement, now time.Time) *time.Time {
	if a.Status != TenancyActive {
		return nil
	}

	elapsed := (now.Year()-a.StartDate.Year())*12 + int(now.Month()) - int(a.StartDate.Month())
	if elapsed < 0 {
		d := a.StartDate
		return &d
	}

	d := a.StartDate.AddDate(0, elapsed+1, 0)
	return &d
}

// IsExpired reports whether the agreement's end date has passed as of the
// given instant.
func IsExpired(a TenancyAgreement, asOf time.Time) bool {
	return asOf.After(a.EndDate)
}
