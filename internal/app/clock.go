package app

import (
	"time"

	"github.com/rcdesk/rentcase/internal/domain"
)

// SystemClock is the production domain.Clock backed by the wall clock.
type SystemClock struct{}

// Compile-time check: SystemClock implements domain.Clock.
var _ domain.Clock = SystemClock{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
