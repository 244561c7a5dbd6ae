package domain

// Status represents the lifecycle state of an entity. Each state machine in
// this package defines its own set of Status constants.
type Status string

// Event represents an action that triggers a state transition.
type Event string

// Transition defines a valid state change: an event moves an entity from Src
// to Dst.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// contains reports whether status is one of the given set. Shared by the
// per-machine helper predicates below.
func contains(set []Status, status Status) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
