package workflow

import "context"

// StateMachine tracks a current status and validates transitions to a target status
type StateMachine[S Status] interface {
	// State returns the current status
	State() S

	// CanTransition returns true if the target is configured from the current status.
	// Guards are not evaluated.
	CanTransition(to S) bool

	// Transition moves to the target status if it is permitted and its guard passes
	Transition(ctx context.Context, to S) error

	// PermittedTargets returns every status reachable from the current status
	PermittedTargets() []S
}
