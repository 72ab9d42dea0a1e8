package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

var (
	// ErrDuplicate is returned when a write violates a store uniqueness constraint,
	// such as a second active order on the same table
	ErrDuplicate = errors.New("duplicate record")

	// ErrStaleWrite is returned when an order update carries an outdated version
	ErrStaleWrite = errors.New("stale write")
)

// OrderFilter selects orders; zero values are ignored
type OrderFilter struct {
	WaiterID    string
	Statuses    []entity.OrderStatus
	Table       int
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// OrderRepository defines persistence operations for Order
type OrderRepository interface {
	// Create returns ErrDuplicate if an active order already holds the table
	Create(ctx context.Context, order *entity.Order) error

	// GetByID returns nil, nil when the order does not exist
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// List returns orders matching the filter, newest first
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)

	// Update writes every mutable field if order.Version matches the stored
	// version, then bumps order.Version. Returns ErrStaleWrite otherwise.
	Update(ctx context.Context, order *entity.Order) error

	// SetAccount writes only the account field and bumps the version
	SetAccount(ctx context.Context, id string, account decimal.Decimal) (int64, error)
}

// DishFilter selects dishes; zero values are ignored
type DishFilter struct {
	OrderID      string
	OrderIDs     []string
	ChefID       string
	Status       entity.DishStatus
	ComplementOf string
	CreatedSince time.Time
	CreatedUntil time.Time

	// SortByKitchenIndex orders by kitchen index instead of creation time
	SortByKitchenIndex bool
}

// DishRepository defines persistence operations for Dish
type DishRepository interface {
	Create(ctx context.Context, dish *entity.Dish) error
	CreateMany(ctx context.Context, dishes []*entity.Dish) error

	// GetByID returns nil, nil when the dish does not exist
	GetByID(ctx context.Context, id string) (*entity.Dish, error)

	List(ctx context.Context, filter DishFilter) ([]*entity.Dish, error)
	Update(ctx context.Context, dish *entity.Dish) error
	Delete(ctx context.Context, id string) error

	// DeleteByComplementOf removes the complements generated for a dish
	DeleteByComplementOf(ctx context.Context, parentID string) (int64, error)

	// DeleteByOrder removes every dish of an order
	DeleteByOrder(ctx context.Context, orderID string) (int64, error)

	// MaxKitchenIndexSince returns the highest kitchen index among dishes
	// created at or after since, or 0 when there are none
	MaxKitchenIndexSince(ctx context.Context, since time.Time) (int, error)
}

// DishLogRepository is append-only
type DishLogRepository interface {
	Create(ctx context.Context, log *entity.DishLog) error
	ListByDish(ctx context.Context, dishID string) ([]*entity.DishLog, error)
}

// MenuCatalog is the read-only menu lookup; missing items return nil, nil
type MenuCatalog interface {
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
	GetByName(ctx context.Context, name string) (*entity.MenuItem, error)
	List(ctx context.Context) ([]*entity.MenuItem, error)
}

// MenuWriter upserts catalog items; used by the seed command
type MenuWriter interface {
	Save(ctx context.Context, item *entity.MenuItem) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
