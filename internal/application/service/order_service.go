package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
)

// CreateOrderInput opens a table
type CreateOrderInput struct {
	Table         int
	People        int
	WaiterID      string
	CustomCharges []CustomChargeInput
}

// OrderService manages the order lifecycle
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context) ([]*entity.Order, error)
	ListByWaiter(ctx context.Context, waiterID string) ([]*entity.Order, error)
	ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error)

	// UpdateStatus moves the order through its lifecycle. A payment type is
	// recorded when the target is PAYING.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, paymentType entity.PaymentType, actorID string) (*entity.Order, error)

	// Cancel marks the order cancelled and deletes all of its dishes
	Cancel(ctx context.Context, id, reason, actorID string) (*entity.Order, error)

	AddCustomCharge(ctx context.Context, id string, charge CustomChargeInput) (*entity.Order, error)
	RemoveCustomCharge(ctx context.Context, id, chargeID string) (*entity.Order, error)

	// PublicToken returns the customer-facing token of an order
	PublicToken(ctx context.Context, id string) (string, error)

	// ResolvePublicToken maps a customer token to an order id
	ResolvePublicToken(ctx context.Context, token string) (string, error)
	GetByPublicToken(ctx context.Context, token string) (*entity.Order, error)

	// UpdateStatusByPublicToken lets a customer ask for the bill
	UpdateStatusByPublicToken(ctx context.Context, token string, status entity.OrderStatus) (*entity.Order, error)
}

type orderServiceImpl struct {
	orderRepo port.OrderRepository
	dishRepo  port.DishRepository
	billing   BillingService
	links     port.PublicLinkCodec
	txManager port.TransactionManager
	events    EventPublisher
	logger    Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo port.OrderRepository,
	dishRepo port.DishRepository,
	billing BillingService,
	links port.PublicLinkCodec,
	txManager port.TransactionManager,
	events EventPublisher,
	logger Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
		dishRepo:  dishRepo,
		billing:   billing,
		links:     links,
		txManager: txManager,
		events:    events,
		logger:    logger,
	}
}

func (s *orderServiceImpl) Create(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if input.Table < 1 {
		return nil, invalidInput("table must be at least 1")
	}
	if input.People < 1 {
		return nil, invalidInput("people must be at least 1")
	}
	if err := validateCharges(input.CustomCharges); err != nil {
		return nil, err
	}

	s.logger.Info("Creating order", "table", input.Table, "waiter_id", input.WaiterID)

	active, err := s.orderRepo.List(ctx, port.OrderFilter{
		Table:    input.Table,
		Statuses: entity.ActiveOrderStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check table: %w", err)
	}
	if len(active) > 0 {
		return nil, tableInUse(input.Table, nil)
	}

	now := time.Now()
	order := &entity.Order{
		ID:            uuid.NewString(),
		Table:         input.Table,
		People:        input.People,
		WaiterID:      input.WaiterID,
		Status:        entity.OrderStatusOpen,
		Tip:           decimal.Zero,
		CustomCharges: newCharges(input.CustomCharges),
		CashReceived:  decimal.Zero,
		CashReturned:  decimal.Zero,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.Account = order.ChargesTotal()

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, tableInUse(input.Table, err)
		}
		s.logger.Error("Failed to create order", "error", err, "table", input.Table)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order created", "order_id", order.ID, "table", order.Table)

	publish(ctx, s.events, event.NewOrderEvent(event.TypeOrderCreated, order.ID, input.WaiterID, map[string]interface{}{
		"table":  order.Table,
		"people": order.People,
	}))

	return order, nil
}

func tableInUse(table int, cause error) error {
	return &Error{Kind: KindConflict, Entity: "table", ID: fmt.Sprint(table), Msg: "table is already in use", Err: cause}
}

func (s *orderServiceImpl) Get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, notFound("order", id)
	}
	return order, nil
}

func (s *orderServiceImpl) List(ctx context.Context) ([]*entity.Order, error) {
	return s.orderRepo.List(ctx, port.OrderFilter{})
}

func (s *orderServiceImpl) ListByWaiter(ctx context.Context, waiterID string) ([]*entity.Order, error) {
	return s.orderRepo.List(ctx, port.OrderFilter{WaiterID: waiterID})
}

func (s *orderServiceImpl) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	if !status.IsValid() {
		return nil, invalidInput(fmt.Sprintf("unknown order status %q", status))
	}
	return s.orderRepo.List(ctx, port.OrderFilter{Statuses: []entity.OrderStatus{status}})
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, paymentType entity.PaymentType, actorID string) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, invalidInput(fmt.Sprintf("unknown order status %q", status))
	}
	if paymentType != "" && !paymentType.IsValid() {
		return nil, invalidInput(fmt.Sprintf("unknown payment type %q", paymentType))
	}

	if status == entity.OrderStatusCancelled {
		return s.Cancel(ctx, id, "", actorID)
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status

	if status == entity.OrderStatusClosed && !from.IsTerminal() {
		if order, err = s.billing.RecomputeAccount(ctx, id); err != nil {
			return nil, err
		}
	}

	if status == entity.OrderStatusPaying && paymentType != "" {
		order.PaymentType = paymentType
	}

	machine, err := newOrderMachine(order)
	if err != nil {
		return nil, transitionError("order", id, from.String(), err)
	}
	if err := machine.Transition(ctx, status); err != nil {
		return nil, transitionError("order", id, from.String(), err)
	}

	order.Status = machine.State()
	order.UpdatedAt = time.Now()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update order status", "error", err, "order_id", id)
		return nil, staleOrConflict("order", id, err)
	}

	s.logger.Info("Order status changed", "order_id", id, "from", from, "to", order.Status)

	publish(ctx, s.events, event.NewOrderEvent(event.TypeOrderStatusChanged, id, actorID, map[string]interface{}{
		"from": string(from),
		"to":   string(order.Status),
	}))

	return order, nil
}

func (s *orderServiceImpl) Cancel(ctx context.Context, id, reason, actorID string) (*entity.Order, error) {
	var order *entity.Order
	var removed int64

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.Get(txCtx, id)
		if err != nil {
			return err
		}

		machine, err := newOrderMachine(order)
		if err != nil {
			return transitionError("order", id, order.Status.String(), err)
		}
		if err := machine.Transition(txCtx, entity.OrderStatusCancelled); err != nil {
			return transitionError("order", id, order.Status.String(), err)
		}

		// the versioned write gates the delete on stores without transactions
		order.Status = machine.State()
		order.CancelReason = reason
		order.Account = order.ChargesTotal()
		order.UpdatedAt = time.Now()
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return staleOrConflict("order", id, err)
		}

		removed, err = s.dishRepo.DeleteByOrder(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to delete dishes: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to cancel order", "error", err, "order_id", id)
		return nil, err
	}

	s.logger.Info("Order cancelled", "order_id", id, "dishes_removed", removed)

	publish(ctx, s.events, event.NewOrderEvent(event.TypeOrderCancelled, id, actorID, map[string]interface{}{
		"reason":         reason,
		"dishes_removed": removed,
	}))

	return order, nil
}

func (s *orderServiceImpl) AddCustomCharge(ctx context.Context, id string, charge CustomChargeInput) (*entity.Order, error) {
	if charge.Name == "" {
		return nil, missingField("order", id, "custom charge name is required")
	}
	if err := validateCharges([]CustomChargeInput{charge}); err != nil {
		return nil, err
	}

	order, err := s.mutableOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.CustomCharges = append(order.CustomCharges, newCharges([]CustomChargeInput{charge})...)
	order.UpdatedAt = time.Now()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, staleOrConflict("order", id, err)
	}

	return order, nil
}

func (s *orderServiceImpl) RemoveCustomCharge(ctx context.Context, id, chargeID string) (*entity.Order, error) {
	order, err := s.mutableOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := order.ChargeIndex(chargeID)
	if idx < 0 {
		return nil, notFound("custom charge", chargeID)
	}

	order.CustomCharges = append(order.CustomCharges[:idx], order.CustomCharges[idx+1:]...)
	order.UpdatedAt = time.Now()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, staleOrConflict("order", id, err)
	}

	return order, nil
}

// mutableOrder loads an order whose charges may still change
func (s *orderServiceImpl) mutableOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, invalidState("order", id, order.Status.String(), "charges cannot change once the order is finished")
	}
	return order, nil
}

func (s *orderServiceImpl) PublicToken(ctx context.Context, id string) (string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}
	token, err := s.links.Encode(id)
	if err != nil {
		return "", fmt.Errorf("failed to encode public link: %w", err)
	}
	return token, nil
}

func (s *orderServiceImpl) ResolvePublicToken(ctx context.Context, token string) (string, error) {
	id, err := s.links.Decode(token)
	if err != nil || id == "" {
		return "", &Error{Kind: KindNotFound, Entity: "order", Msg: "not found", Err: err}
	}
	return id, nil
}

func (s *orderServiceImpl) GetByPublicToken(ctx context.Context, token string) (*entity.Order, error) {
	id, err := s.ResolvePublicToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *orderServiceImpl) UpdateStatusByPublicToken(ctx context.Context, token string, status entity.OrderStatus) (*entity.Order, error) {
	id, err := s.ResolvePublicToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if status != entity.OrderStatusPaying {
		return nil, invalidState("order", id, "", "customers may only request the bill")
	}
	return s.UpdateStatus(ctx, id, status, "", "")
}
