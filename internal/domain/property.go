package domain

import "time"

// Property availability states. Unlike the lifecycle machines, property
// status is derived: Occupied iff a current occupancy exists, with
// maintenance/unavailable set administratively.
const (
	PropertyAvailable        Status = "available"
	PropertyOccupied         Status = "occupied"
	PropertyUnderMaintenance Status = "under_maintenance"
	PropertyUnavailable      Status = "unavailable"
)

// Property is a rental unit registered with the authority.
type Property struct {
	ID          string
	Code        string
	LandlordID  string
	Status      Status
	MonthlyRent int64
	Location    string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
