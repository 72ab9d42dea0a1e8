package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

type ticketStatus string

const (
	ticketQueued  ticketStatus = "QUEUED"
	ticketCooking ticketStatus = "COOKING"
	ticketServed  ticketStatus = "SERVED"
)

func (s ticketStatus) IsValid() bool {
	return s == ticketQueued || s == ticketCooking || s == ticketServed
}

func (s ticketStatus) IsTerminal() bool {
	return s == ticketServed
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder[ticketStatus]()

	config := builder.Configure(ticketQueued)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	config2 := builder.Configure(ticketQueued)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder[ticketStatus]()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(ticketStatus("INVALID"))
}

func TestBuilder_BuildRejectsInvalidInitialState(t *testing.T) {
	builder := NewBuilder[ticketStatus]()

	machine, err := builder.Build(ticketStatus("INVALID"))
	if machine != nil {
		t.Error("Build() should not return a machine for an invalid state")
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Build() error = %v, want %v", err, ErrInvalidState)
	}
}

func TestStateConfiguration_PermitPanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder[ticketStatus]()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target state")
		}
	}()

	builder.Configure(ticketQueued).Permit(ticketStatus("INVALID"))
}

func TestStateConfiguration_Permit(t *testing.T) {
	builder := NewBuilder[ticketStatus]()
	builder.Configure(ticketQueued).Permit(ticketCooking)

	machine, err := builder.Build(ticketQueued)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if !machine.CanTransition(ticketCooking) {
		t.Error("CanTransition() should return true for permitted target")
	}

	if err := machine.Transition(context.Background(), ticketCooking); err != nil {
		t.Errorf("Transition() failed: %v", err)
	}

	if machine.State() != ticketCooking {
		t.Errorf("State after Transition() = %v, want %v", machine.State(), ticketCooking)
	}
}

func TestStateConfiguration_PermitIf_GuardPasses(t *testing.T) {
	builder := NewBuilder[ticketStatus]()
	builder.Configure(ticketQueued).
		PermitIf(ticketCooking, func(ctx context.Context) error {
			return nil
		})

	machine, _ := builder.Build(ticketQueued)

	if err := machine.Transition(context.Background(), ticketCooking); err != nil {
		t.Errorf("Transition() failed: %v", err)
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	errNoCook := errors.New("no cook on shift")
	builder := NewBuilder[ticketStatus]()
	builder.Configure(ticketQueued).
		PermitIf(ticketCooking, func(ctx context.Context) error {
			return errNoCook
		})

	machine, _ := builder.Build(ticketQueued)

	err := machine.Transition(context.Background(), ticketCooking)
	if err == nil {
		t.Fatal("Transition() should fail when guard fails")
	}

	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Transition() error = %v, want %v", err, ErrGuardFailed)
	}
	if !errors.Is(err, errNoCook) {
		t.Errorf("Transition() error = %v, want it to wrap the guard error", err)
	}

	if machine.State() != ticketQueued {
		t.Errorf("State should remain %v after failed Transition(), got %v", ticketQueued, machine.State())
	}
}

func TestStateMachine_Transition_NotConfigured(t *testing.T) {
	builder := NewBuilder[ticketStatus]()
	builder.Configure(ticketQueued).Permit(ticketCooking)

	machine, _ := builder.Build(ticketQueued)

	err := machine.Transition(context.Background(), ticketServed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Transition() error = %v, want %v", err, ErrInvalidTransition)
	}

	if machine.State() != ticketQueued {
		t.Errorf("State should remain %v, got %v", ticketQueued, machine.State())
	}
}

func TestStateMachine_Transition_NoConfiguration(t *testing.T) {
	builder := NewBuilder[ticketStatus]()
	machine, _ := builder.Build(ticketServed)

	err := machine.Transition(context.Background(), ticketQueued)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Transition() error = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestStateMachine_PermittedTargets(t *testing.T) {
	builder := NewBuilder[ticketStatus]()
	builder.Configure(ticketQueued).
		Permit(ticketCooking).
		Permit(ticketServed).
		Permit(ticketCooking)

	machine, _ := builder.Build(ticketQueued)

	targets := machine.PermittedTargets()
	if len(targets) != 2 {
		t.Fatalf("PermittedTargets() returned %d targets, want 2", len(targets))
	}
	if targets[0] != ticketCooking || targets[1] != ticketServed {
		t.Errorf("PermittedTargets() = %v, want configuration order", targets)
	}

	empty, _ := NewBuilder[ticketStatus]().Build(ticketQueued)
	if len(empty.PermittedTargets()) != 0 {
		t.Error("PermittedTargets() should be empty without configuration")
	}
}

func TestStateMachine_Immutability(t *testing.T) {
	builder := NewBuilder[ticketStatus]()
	builder.Configure(ticketQueued).Permit(ticketCooking)

	machine1, _ := builder.Build(ticketQueued)
	machine2, _ := builder.Build(ticketQueued)

	if err := machine1.Transition(context.Background(), ticketCooking); err != nil {
		t.Errorf("Transition() failed: %v", err)
	}

	if machine2.State() != ticketQueued {
		t.Errorf("machine2 state = %v, want %v (machines should be independent)", machine2.State(), ticketQueued)
	}

	builder.Configure(ticketQueued).Permit(ticketServed)
	if machine2.CanTransition(ticketServed) {
		t.Error("configuring the builder after Build() must not affect built machines")
	}
}

func TestStateMachine_DishStatusFamily(t *testing.T) {
	builder := NewBuilder[entity.DishStatus]()
	builder.Configure(entity.DishStatusInRow).Permit(entity.DishStatusWorkingOn)
	builder.Configure(entity.DishStatusWorkingOn).Permit(entity.DishStatusToPickup)
	builder.Configure(entity.DishStatusToPickup).Permit(entity.DishStatusDelivered)

	machine, err := builder.Build(entity.DishStatusInRow)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	steps := []entity.DishStatus{
		entity.DishStatusWorkingOn,
		entity.DishStatusToPickup,
		entity.DishStatusDelivered,
	}
	for i, step := range steps {
		if err := machine.Transition(context.Background(), step); err != nil {
			t.Errorf("Step %d: Transition(%v) failed: %v", i, step, err)
		}
	}

	if !machine.State().IsTerminal() {
		t.Error("Final state should be terminal")
	}
	if len(machine.PermittedTargets()) != 0 {
		t.Error("Terminal state should have no permitted targets")
	}
}
