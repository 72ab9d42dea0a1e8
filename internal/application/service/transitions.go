package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/workflow"
)

// newDishMachine builds the dish transition table. Every non-terminal status may
// move to any status; CONFLICT additionally needs a reason. DELIVERED has no exits.
func newDishMachine(dish *entity.Dish, conflictReason string) (workflow.StateMachine[entity.DishStatus], error) {
	requireReason := func(ctx context.Context) error {
		if strings.TrimSpace(conflictReason) == "" {
			return missingField("dish", dish.ID, "conflict reason is required when setting status to CONFLICT")
		}
		return nil
	}

	b := workflow.NewBuilder[entity.DishStatus]()
	for _, from := range entity.DishStatuses {
		if from.IsTerminal() {
			continue
		}
		cfg := b.Configure(from)
		for _, to := range entity.DishStatuses {
			if to == entity.DishStatusConflict {
				cfg.PermitIf(to, requireReason)
				continue
			}
			cfg.Permit(to)
		}
	}

	return b.Build(dish.Status)
}

// newOrderMachine builds the order transition table.
//
//	OPEN, PAYING -> OPEN, PAYING, CLOSED (guarded), CANCELLED
//	CLOSED       -> CLOSED (guarded)
//	CANCELLED    -> nothing
//
// The close guard reads the order when it runs, so callers must refresh the
// account before transitioning.
func newOrderMachine(order *entity.Order) (workflow.StateMachine[entity.OrderStatus], error) {
	canClose := func(ctx context.Context) error {
		if order.PaymentType == "" {
			return missingField("order", order.ID, "cannot close an order without payment")
		}
		if !order.Account.IsPositive() {
			return &Error{Kind: KindEmptyAccount, Entity: "order", ID: order.ID, Msg: "cannot close an order with no account"}
		}
		return nil
	}

	b := workflow.NewBuilder[entity.OrderStatus]()
	for _, from := range entity.ActiveOrderStatuses {
		b.Configure(from).
			Permit(entity.OrderStatusOpen).
			Permit(entity.OrderStatusPaying).
			PermitIf(entity.OrderStatusClosed, canClose).
			Permit(entity.OrderStatusCancelled)
	}
	b.Configure(entity.OrderStatusClosed).
		PermitIf(entity.OrderStatusClosed, canClose)

	return b.Build(order.Status)
}

// transitionError turns workflow errors into business errors. Guard failures
// already carry a business error; anything else is an illegal transition.
func transitionError(entityName, id, state string, err error) error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	if errors.Is(err, workflow.ErrInvalidTransition) {
		return &Error{Kind: KindInvalidState, Entity: entityName, ID: id, State: state, Msg: "transition not allowed", Err: err}
	}
	return &Error{Kind: KindInvalidState, Entity: entityName, ID: id, State: state, Msg: "corrupted status", Err: err}
}
