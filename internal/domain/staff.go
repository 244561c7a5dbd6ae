package domain

import "time"

// Officer is a rent-control department officer. Capability flags gate which
// case operations the officer may perform; their exact semantics are policy
// supplied by the identity system, not decided here.
type Officer struct {
	ID                 string
	Name               string
	IsActive           bool
	CanAssignCases     bool
	CanCloseCases      bool
	CanPresideHearings bool
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Mediator is an accredited mediator with a bounded active caseload.
// CurrentActiveCases is derived from active case assignments at read time.
type Mediator struct {
	ID                 string
	Name               string
	IsActive           bool
	MaxActiveCases     int
	CurrentActiveCases int
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AtCapacity reports whether the mediator cannot take another case.
func (m Mediator) AtCapacity() bool {
	return m.CurrentActiveCases >= m.MaxActiveCases
}
