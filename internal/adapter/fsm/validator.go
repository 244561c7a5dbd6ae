package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/rcdesk/rentcase/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// Validator implements domain.TransitionValidator using looplab/fsm for one
// of the domain's transition tables. It creates a short-lived FSM instance
// per Apply call, initialized with the entity's current state. This is
// necessary because looplab/fsm is stateful (it tracks the current state
// internally).
type Validator struct {
	entity string
	events []loopfsm.EventDesc
}

// New creates an FSM-backed validator for a transition table. The entity
// name is carried into TransitionError for error reporting.
func New(entity string, transitions []domain.Transition) *Validator {
	return &Validator{
		entity: entity,
		events: buildEvents(transitions),
	}
}

// buildEvents converts a domain transition table into looplab/fsm EventDesc
// format. It consolidates transitions with the same event+destination into a
// single EventDesc with multiple source states (e.g. a case withdrawal from
// every non-terminal state).
func buildEvents(transitions []domain.Transition) []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Apply checks if the given event is valid from the current status and
// returns the destination status. Returns a domain.TransitionError if the
// transition is not allowed.
func (v *Validator) Apply(ctx context.Context, current domain.Status, event domain.Event) (domain.Status, error) {
	machine := loopfsm.NewFSM(string(current), v.events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Entity:  v.entity,
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return domain.Status(machine.Current()), nil
}

// Case creates the validator for the case workflow.
func Case() *Validator { return New("case", domain.CaseTransitions) }

// Tenancy creates the validator for the tenancy agreement lifecycle.
func Tenancy() *Validator { return New("tenancy agreement", domain.TenancyTransitions) }

// Payment creates the validator for the rent payment settlement machine.
func Payment() *Validator { return New("rent payment", domain.PaymentTransitions) }

// Hearing creates the validator for the hearing lifecycle.
func Hearing() *Validator { return New("hearing", domain.HearingTransitions) }

// Mediation creates the validator for the mediation session lifecycle.
func Mediation() *Validator { return New("mediation session", domain.MediationTransitions) }
