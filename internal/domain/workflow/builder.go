package workflow

import (
	"context"
	"fmt"
)

// GuardFunc decides whether a transition may proceed. A non-nil error blocks it
// and is wrapped into the transition error.
type GuardFunc func(ctx context.Context) error

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder[S Status] interface {
	// Configure returns a state configuration for the given status
	Configure(state S) StateConfiguration[S]

	// Build creates a new state machine instance with the given initial status
	Build(initial S) (StateMachine[S], error)
}

// StateConfiguration configures transitions out of a specific status
type StateConfiguration[S Status] interface {
	// Permit allows a transition to the target status
	Permit(to S) StateConfiguration[S]

	// PermitIf allows a transition to the target status if the guard passes
	PermitIf(to S, guard GuardFunc) StateConfiguration[S]
}

type stateConfig[S Status] struct {
	from        S
	order       []S
	transitions map[S]GuardFunc
}

type stateMachineBuilder[S Status] struct {
	configurations map[S]*stateConfig[S]
}

type stateMachine[S Status] struct {
	current        S
	configurations map[S]*stateConfig[S]
}

// NewBuilder creates a new state machine builder
func NewBuilder[S Status]() StateMachineBuilder[S] {
	return &stateMachineBuilder[S]{
		configurations: make(map[S]*stateConfig[S]),
	}
}

// Configure panics on an unknown status; builders are set up from constants.
func (b *stateMachineBuilder[S]) Configure(state S) StateConfiguration[S] {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", string(state)))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig[S]{
			from:        state,
			transitions: make(map[S]GuardFunc),
		}
		b.configurations[state] = config
	}

	return config
}

// Build returns ErrInvalidState for an unknown initial status, which usually means
// a corrupted record was loaded from the store.
func (b *stateMachineBuilder[S]) Build(initial S) (StateMachine[S], error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, string(initial))
	}

	configsCopy := make(map[S]*stateConfig[S], len(b.configurations))
	for state, config := range b.configurations {
		transitions := make(map[S]GuardFunc, len(config.transitions))
		for to, guard := range config.transitions {
			transitions[to] = guard
		}
		configsCopy[state] = &stateConfig[S]{
			from:        state,
			order:       append([]S{}, config.order...),
			transitions: transitions,
		}
	}

	return &stateMachine[S]{
		current:        initial,
		configurations: configsCopy,
	}, nil
}

// Permit allows a transition to the target status
func (c *stateConfig[S]) Permit(to S) StateConfiguration[S] {
	return c.PermitIf(to, nil)
}

// PermitIf replaces any earlier guard configured for the same target
func (c *stateConfig[S]) PermitIf(to S, guard GuardFunc) StateConfiguration[S] {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", string(to)))
	}

	if _, exists := c.transitions[to]; !exists {
		c.order = append(c.order, to)
	}
	c.transitions[to] = guard

	return c
}

func (m *stateMachine[S]) State() S {
	return m.current
}

func (m *stateMachine[S]) CanTransition(to S) bool {
	config, exists := m.configurations[m.current]
	if !exists {
		return false
	}
	_, ok := config.transitions[to]
	return ok
}

func (m *stateMachine[S]) Transition(ctx context.Context, to S) error {
	config, exists := m.configurations[m.current]
	if !exists {
		return fmt.Errorf("%w: %s -> %s (no configuration)", ErrInvalidTransition, string(m.current), string(to))
	}

	guard, ok := config.transitions[to]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, string(m.current), string(to))
	}

	if guard != nil {
		if err := guard(ctx); err != nil {
			return fmt.Errorf("%w: %s -> %s: %w", ErrGuardFailed, string(m.current), string(to), err)
		}
	}

	m.current = to
	return nil
}

func (m *stateMachine[S]) PermittedTargets() []S {
	config, exists := m.configurations[m.current]
	if !exists {
		return []S{}
	}
	return append([]S{}, config.order...)
}
