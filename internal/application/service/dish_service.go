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

// DishInput describes a dish to insert. Status and KitchenIndex are honored by
// Create; the batch path assigns them itself except for a supplied status.
type DishInput struct {
	OrderID            string
	Selections         []entity.MenuSelection
	ComplementOfDishID string
	ChefID             string
	Type               entity.DishType
	IsAutoDelivered    bool
	Cost               decimal.Decimal
	KitchenIndex       int
	Status             entity.DishStatus
	ConflictReason     string
	IsComplementCoffee *bool
}

// DishService manages dishes and their kitchen lifecycle
type DishService interface {
	// Create inserts a single dish as given
	Create(ctx context.Context, input DishInput, actorID string) (*entity.Dish, error)

	// AddDishesToOrder sequences a batch for the kitchen, inserts it, generates
	// package complements and refreshes the order account. Returns the primary
	// dishes only.
	AddDishesToOrder(ctx context.Context, orderID string, inputs []DishInput, actorID string) ([]*entity.Dish, error)

	UpdateStatus(ctx context.Context, id string, status entity.DishStatus, conflictReason, actorID string) (*entity.Dish, error)

	// AssignChef sets the chef and forces WORKING_ON without checking the current status
	AssignChef(ctx context.Context, id, chefID string) (*entity.Dish, error)

	// Remove deletes an IN_ROW or auto-delivered dish together with its complements
	Remove(ctx context.Context, id, actorID string) error

	Get(ctx context.Context, id string) (*entity.Dish, error)
	List(ctx context.Context) ([]*entity.Dish, error)

	// ListToday returns today's kitchen board ordered by kitchen index
	ListToday(ctx context.Context) ([]*entity.Dish, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Dish, error)
	ListByChef(ctx context.Context, chefID string) ([]*entity.Dish, error)
	ListByStatus(ctx context.Context, status entity.DishStatus) ([]*entity.Dish, error)
	Logs(ctx context.Context, id string) ([]*entity.DishLog, error)
}

type dishServiceImpl struct {
	dishRepo    port.DishRepository
	dishLogRepo port.DishLogRepository
	orderRepo   port.OrderRepository
	catalog     port.MenuCatalog
	billing     BillingService
	sequencer   *KitchenSequencer
	complements *ComplementGenerator
	txManager   port.TransactionManager
	events      EventPublisher
	logger      Logger
}

// NewDishService creates a new DishService
func NewDishService(
	dishRepo port.DishRepository,
	dishLogRepo port.DishLogRepository,
	orderRepo port.OrderRepository,
	catalog port.MenuCatalog,
	billing BillingService,
	sequencer *KitchenSequencer,
	complements *ComplementGenerator,
	txManager port.TransactionManager,
	events EventPublisher,
	logger Logger,
) DishService {
	return &dishServiceImpl{
		dishRepo:    dishRepo,
		dishLogRepo: dishLogRepo,
		orderRepo:   orderRepo,
		catalog:     catalog,
		billing:     billing,
		sequencer:   sequencer,
		complements: complements,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

func (s *dishServiceImpl) Create(ctx context.Context, input DishInput, actorID string) (*entity.Dish, error) {
	if err := validateDishInput(input); err != nil {
		return nil, err
	}

	dish := newDish(input)
	if dish.Status == "" {
		dish.Status = entity.DishStatusInRow
	}
	if !dish.Status.IsValid() {
		return nil, invalidInput(fmt.Sprintf("unknown dish status %q", dish.Status))
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.openOrder(txCtx, input.OrderID); err != nil {
			return err
		}
		if err := s.dishRepo.Create(txCtx, dish); err != nil {
			return fmt.Errorf("failed to create dish: %w", err)
		}
		_, err := s.billing.RecomputeAccount(txCtx, dish.OrderID)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to create dish", "error", err, "order_id", input.OrderID)
		return nil, err
	}

	publish(ctx, s.events, event.NewDishEvent(event.TypeDishCreated, dish.OrderID, dish.ID, actorID, map[string]interface{}{
		"kitchen_index": dish.KitchenIndex,
		"type":          string(dish.Type),
	}))

	return dish, nil
}

func (s *dishServiceImpl) AddDishesToOrder(ctx context.Context, orderID string, inputs []DishInput, actorID string) ([]*entity.Dish, error) {
	if len(inputs) == 0 {
		return nil, missingField("order", orderID, "at least one dish is required")
	}

	dishes := make([]*entity.Dish, 0, len(inputs))
	for _, in := range inputs {
		in.OrderID = orderID
		if err := validateDishInput(in); err != nil {
			return nil, err
		}
		if in.Status != "" && !in.Status.IsValid() {
			return nil, invalidInput(fmt.Sprintf("unknown dish status %q", in.Status))
		}
		dishes = append(dishes, newDish(in))
	}

	// Catalog lookups stay outside the transaction; a failure only costs the complements.
	var items *complementItems
	if hasCompound(dishes) {
		var err error
		if items, err = s.complements.resolve(ctx); err != nil {
			s.logger.Error("Failed to resolve complement items, skipping complements", "error", err, "order_id", orderID)
			items = nil
		}
	}

	var complements []*entity.Dish
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.openOrder(txCtx, orderID); err != nil {
			return err
		}

		lastIndex, err := s.sequencer.LastIndex(txCtx)
		if err != nil {
			return err
		}
		sequenceBatch(dishes, lastIndex)

		if err := s.dishRepo.CreateMany(txCtx, dishes); err != nil {
			return fmt.Errorf("failed to insert dishes: %w", err)
		}

		complements = s.complements.build(dishes, items)
		for _, c := range complements {
			c.ID = uuid.NewString()
			c.CreatedAt = dishes[0].CreatedAt
			c.UpdatedAt = dishes[0].CreatedAt
		}
		if len(complements) > 0 {
			if err := s.dishRepo.CreateMany(txCtx, complements); err != nil {
				return fmt.Errorf("failed to insert complements: %w", err)
			}
		}

		_, err = s.billing.RecomputeAccount(txCtx, orderID)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to add dishes", "error", err, "order_id", orderID)
		return nil, err
	}

	s.logger.Info("Dishes added to order",
		"order_id", orderID,
		"dishes", len(dishes),
		"complements", len(complements),
		"first_kitchen_index", dishes[0].KitchenIndex,
	)

	for _, d := range dishes {
		publish(ctx, s.events, event.NewDishEvent(event.TypeDishCreated, orderID, d.ID, actorID, map[string]interface{}{
			"kitchen_index": d.KitchenIndex,
			"type":          string(d.Type),
		}))
	}

	return dishes, nil
}

// openOrder loads an order that can still receive dishes
func (s *dishServiceImpl) openOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, notFound("order", orderID)
	}
	if order.Status.IsTerminal() {
		return nil, invalidState("order", orderID, order.Status.String(), "dishes cannot be added to a finished order")
	}
	return order, nil
}

func (s *dishServiceImpl) UpdateStatus(ctx context.Context, id string, status entity.DishStatus, conflictReason, actorID string) (*entity.Dish, error) {
	if !status.IsValid() {
		return nil, invalidInput(fmt.Sprintf("unknown dish status %q", status))
	}

	dish, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := dish.Status

	machine, err := newDishMachine(dish, conflictReason)
	if err != nil {
		return nil, transitionError("dish", id, from.String(), err)
	}
	if err := machine.Transition(ctx, status); err != nil {
		return nil, transitionError("dish", id, from.String(), err)
	}

	dish.Status = machine.State()
	if conflictReason != "" {
		dish.ConflictReason = conflictReason
	}
	dish.UpdatedAt = time.Now()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.dishRepo.Update(txCtx, dish); err != nil {
			return fmt.Errorf("failed to update dish: %w", err)
		}
		return s.appendLog(txCtx, id, entity.DishLogActionChangeStatus,
			fmt.Sprintf("Status changed from %s to %s", from, status), actorID)
	})
	if err != nil {
		s.logger.Error("Failed to update dish status", "error", err, "dish_id", id)
		return nil, err
	}

	publish(ctx, s.events, event.NewDishEvent(event.TypeDishStatusChanged, dish.OrderID, id, actorID, map[string]interface{}{
		"from": string(from),
		"to":   string(status),
	}))

	return dish, nil
}

func (s *dishServiceImpl) AssignChef(ctx context.Context, id, chefID string) (*entity.Dish, error) {
	if chefID == "" {
		return nil, missingField("dish", id, "chef id is required")
	}

	dish, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dish.ChefID = chefID
	dish.Status = entity.DishStatusWorkingOn
	dish.UpdatedAt = time.Now()
	if err := s.dishRepo.Update(ctx, dish); err != nil {
		s.logger.Error("Failed to assign chef", "error", err, "dish_id", id)
		return nil, fmt.Errorf("failed to assign chef: %w", err)
	}

	publish(ctx, s.events, event.NewDishEvent(event.TypeDishChefAssigned, dish.OrderID, id, chefID, nil))

	return dish, nil
}

func (s *dishServiceImpl) Remove(ctx context.Context, id, actorID string) error {
	dish, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !dish.CanBeRemoved() {
		return invalidState("dish", id, dish.Status.String(), "can only delete dishes that are in row status")
	}

	var complements int64
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.appendLog(txCtx, id, entity.DishLogActionDeleteDish, "Dish deleted", actorID); err != nil {
			return err
		}
		if err := s.dishRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete dish: %w", err)
		}
		var err error
		if complements, err = s.dishRepo.DeleteByComplementOf(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete complements: %w", err)
		}
		_, err = s.billing.RecomputeAccount(txCtx, dish.OrderID)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to remove dish", "error", err, "dish_id", id)
		return err
	}

	s.logger.Info("Dish removed", "dish_id", id, "order_id", dish.OrderID, "complements_removed", complements)

	publish(ctx, s.events, event.NewDishEvent(event.TypeDishDeleted, dish.OrderID, id, actorID, map[string]interface{}{
		"complements_removed": complements,
	}))

	return nil
}

func (s *dishServiceImpl) appendLog(ctx context.Context, dishID string, action entity.DishLogAction, value, actorID string) error {
	log := &entity.DishLog{
		ID:        uuid.NewString(),
		DishID:    dishID,
		Action:    action,
		Value:     value,
		UserID:    actorID,
		CreatedAt: time.Now(),
	}
	if err := s.dishLogRepo.Create(ctx, log); err != nil {
		return fmt.Errorf("failed to append dish log: %w", err)
	}
	return nil
}

func (s *dishServiceImpl) Get(ctx context.Context, id string) (*entity.Dish, error) {
	dish, err := s.dishRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	if dish == nil {
		return nil, notFound("dish", id)
	}
	return dish, nil
}

func (s *dishServiceImpl) List(ctx context.Context) ([]*entity.Dish, error) {
	return s.dishRepo.List(ctx, port.DishFilter{})
}

func (s *dishServiceImpl) ListToday(ctx context.Context) ([]*entity.Dish, error) {
	dishes, err := s.dishRepo.List(ctx, port.DishFilter{
		CreatedSince:       s.sequencer.StartOfDay(),
		SortByKitchenIndex: true,
	})
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, dishes)
}

func (s *dishServiceImpl) ListByOrder(ctx context.Context, orderID string) ([]*entity.Dish, error) {
	dishes, err := s.dishRepo.List(ctx, port.DishFilter{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, dishes)
}

func (s *dishServiceImpl) ListByChef(ctx context.Context, chefID string) ([]*entity.Dish, error) {
	return s.dishRepo.List(ctx, port.DishFilter{ChefID: chefID})
}

func (s *dishServiceImpl) ListByStatus(ctx context.Context, status entity.DishStatus) ([]*entity.Dish, error) {
	if !status.IsValid() {
		return nil, invalidInput(fmt.Sprintf("unknown dish status %q", status))
	}
	return s.dishRepo.List(ctx, port.DishFilter{Status: status})
}

func (s *dishServiceImpl) Logs(ctx context.Context, id string) ([]*entity.DishLog, error) {
	return s.dishLogRepo.ListByDish(ctx, id)
}

// annotate attaches catalog entries to every menu selection
func (s *dishServiceImpl) annotate(ctx context.Context, dishes []*entity.Dish) ([]*entity.Dish, error) {
	if len(dishes) == 0 {
		return dishes, nil
	}

	items, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	byID := make(map[string]*entity.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for _, d := range dishes {
		for i := range d.Selections {
			d.Selections[i].MenuItem = byID[d.Selections[i].MenuItemID]
		}
	}
	return dishes, nil
}

func validateDishInput(in DishInput) error {
	if in.OrderID == "" {
		return invalidInput("order id is required")
	}
	if len(in.Selections) == 0 {
		return invalidInput("a dish needs at least one menu selection")
	}
	if !in.Type.IsValid() {
		return invalidInput(fmt.Sprintf("unknown dish type %q", in.Type))
	}
	if in.Cost.IsNegative() {
		return invalidInput("cost cannot be negative")
	}
	return nil
}

func newDish(in DishInput) *entity.Dish {
	now := time.Now()
	selections := make([]entity.MenuSelection, len(in.Selections))
	copy(selections, in.Selections)
	for i := range selections {
		if selections[i].AttributesSelected == nil {
			selections[i].AttributesSelected = []entity.AttributeSelected{}
		}
	}

	return &entity.Dish{
		ID:                 uuid.NewString(),
		OrderID:            in.OrderID,
		Selections:         selections,
		ComplementOfDishID: in.ComplementOfDishID,
		ChefID:             in.ChefID,
		Type:               in.Type,
		IsAutoDelivered:    in.IsAutoDelivered,
		Cost:               in.Cost,
		KitchenIndex:       in.KitchenIndex,
		Status:             in.Status,
		ConflictReason:     in.ConflictReason,
		IsComplementCoffee: in.IsComplementCoffee,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
