package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
)

// CustomChargeInput is a charge line submitted by a waiter
type CustomChargeInput struct {
	Name        string
	Amount      decimal.Decimal
	Description string
}

// PaymentInput carries the settlement of an order. A nil CustomCharges keeps
// the order's charges; a non-nil one, even empty, replaces them.
type PaymentInput struct {
	PaymentType   entity.PaymentType
	CardTxNumber  string
	CashReceived  *decimal.Decimal
	Tip           *decimal.Decimal
	CustomCharges []CustomChargeInput
	ActorID       string
}

// BillingService keeps an order's account in line with its dishes and charges
type BillingService interface {
	// RecomputeAccount sets account to the sum of dish costs and charge amounts
	RecomputeAccount(ctx context.Context, orderID string) (*entity.Order, error)

	// ProcessPayment settles a PAYING order and closes it
	ProcessPayment(ctx context.Context, orderID string, input PaymentInput) (*entity.Order, error)
}

type billingServiceImpl struct {
	orderRepo port.OrderRepository
	dishRepo  port.DishRepository
	events    EventPublisher
	logger    Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(
	orderRepo port.OrderRepository,
	dishRepo port.DishRepository,
	events EventPublisher,
	logger Logger,
) BillingService {
	return &billingServiceImpl{
		orderRepo: orderRepo,
		dishRepo:  dishRepo,
		events:    events,
		logger:    logger,
	}
}

func (s *billingServiceImpl) RecomputeAccount(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, notFound("order", orderID)
	}

	account, err := s.accountFor(ctx, order)
	if err != nil {
		return nil, err
	}

	version, err := s.orderRepo.SetAccount(ctx, orderID, account)
	if err != nil {
		s.logger.Error("Failed to store account", "error", err, "order_id", orderID)
		return nil, fmt.Errorf("failed to store account: %w", err)
	}

	order.Account = account
	order.Version = version
	return order, nil
}

// accountFor sums every dish currently attached to the order plus its charges
func (s *billingServiceImpl) accountFor(ctx context.Context, order *entity.Order) (decimal.Decimal, error) {
	dishes, err := s.dishRepo.List(ctx, port.DishFilter{OrderID: order.ID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list dishes: %w", err)
	}

	account := order.ChargesTotal()
	for _, d := range dishes {
		account = account.Add(d.Cost)
	}
	return account, nil
}

func (s *billingServiceImpl) ProcessPayment(ctx context.Context, orderID string, input PaymentInput) (*entity.Order, error) {
	s.logger.Info("Processing payment", "order_id", orderID, "payment_type", input.PaymentType)

	if err := validateCharges(input.CustomCharges); err != nil {
		return nil, err
	}
	if input.Tip != nil && input.Tip.IsNegative() {
		return nil, invalidInput("tip must not be negative")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, notFound("order", orderID)
	}

	if input.CustomCharges != nil && order.Status == entity.OrderStatusPaying {
		order.CustomCharges = newCharges(input.CustomCharges)
		order.UpdatedAt = time.Now()
		if err := s.orderRepo.Update(ctx, order); err != nil {
			s.logger.Error("Failed to replace charges", "error", err, "order_id", orderID)
			return nil, staleOrConflict("order", orderID, err)
		}
	}

	// the stored account is refreshed even when the payment is rejected below
	if order, err = s.RecomputeAccount(ctx, orderID); err != nil {
		return nil, err
	}
	account := order.Account

	if order.Status == entity.OrderStatusClosed {
		return nil, invalidState("order", orderID, order.Status.String(), "cannot process payment for a closed order")
	}
	if order.Status != entity.OrderStatusPaying {
		return nil, invalidState("order", orderID, order.Status.String(), "cannot process payment for an order that is not paying")
	}

	if !account.IsPositive() {
		return nil, &Error{Kind: KindEmptyAccount, Entity: "order", ID: orderID, Msg: "cannot process payment for an empty order"}
	}

	order.CardTxNumber = ""
	order.CashReceived = decimal.Zero
	order.CashReturned = decimal.Zero

	switch input.PaymentType {
	case entity.PaymentTypeCard:
		if input.CardTxNumber == "" {
			return nil, missingField("order", orderID, "card transaction number is required for card payments")
		}
		order.CardTxNumber = input.CardTxNumber
	case entity.PaymentTypeCash:
		if input.CashReceived == nil {
			return nil, missingField("order", orderID, "cash received amount is required for cash payments")
		}
		if input.CashReceived.LessThan(account) {
			return nil, &Error{
				Kind:   KindInsufficientPayment,
				Entity: "order",
				ID:     orderID,
				Msg:    fmt.Sprintf("insufficient cash received: %s < %s", input.CashReceived.StringFixed(2), account.StringFixed(2)),
			}
		}
		order.CashReceived = *input.CashReceived
		order.CashReturned = input.CashReceived.Sub(account)
	case entity.PaymentTypeTransfer:
	default:
		return nil, invalidInput(fmt.Sprintf("unknown payment type %q", input.PaymentType))
	}

	order.PaymentType = input.PaymentType
	order.Tip = decimal.Zero
	if input.Tip != nil {
		order.Tip = *input.Tip
	}

	machine, err := newOrderMachine(order)
	if err != nil {
		return nil, transitionError("order", orderID, order.Status.String(), err)
	}
	if err := machine.Transition(ctx, entity.OrderStatusClosed); err != nil {
		return nil, transitionError("order", orderID, order.Status.String(), err)
	}
	order.Status = machine.State()
	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("Failed to store payment", "error", err, "order_id", orderID)
		return nil, staleOrConflict("order", orderID, err)
	}

	s.logger.Info("Order paid",
		"order_id", orderID,
		"account", account.String(),
		"payment_type", order.PaymentType,
	)

	publish(ctx, s.events, event.NewOrderEvent(event.TypeOrderPaid, orderID, input.ActorID, map[string]interface{}{
		"account":      account.String(),
		"tip":          order.Tip.String(),
		"payment_type": string(order.PaymentType),
	}))

	return order, nil
}

// validateCharges rejects charge lines that would lower the account
func validateCharges(inputs []CustomChargeInput) error {
	for _, in := range inputs {
		if in.Amount.IsNegative() {
			return invalidInput(fmt.Sprintf("custom charge %q amount must not be negative", in.Name))
		}
	}
	return nil
}

func newCharges(inputs []CustomChargeInput) []entity.CustomCharge {
	charges := make([]entity.CustomCharge, 0, len(inputs))
	for _, in := range inputs {
		charges = append(charges, entity.CustomCharge{
			ID:          uuid.NewString(),
			Name:        in.Name,
			Amount:      in.Amount,
			Description: in.Description,
		})
	}
	return charges
}
