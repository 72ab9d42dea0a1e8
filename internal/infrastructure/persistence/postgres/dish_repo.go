package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

const dishColumns = `
	id, order_id, selections, complement_of_dish_id, chef_id, type,
	is_auto_delivered, cost, kitchen_index, status, conflict_reason,
	is_complement_coffee, created_at, updated_at`

// DishRepository implements port.DishRepository
type DishRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDishRepository creates a new dish repository
func NewDishRepository(db *DB, logger *zap.Logger) port.DishRepository {
	return &DishRepository{db: db, logger: logger}
}

func (r *DishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	selections, err := json.Marshal(entity.WithoutMenuItems(dish.Selections))
	if err != nil {
		return fmt.Errorf("failed to encode selections: %w", err)
	}

	query := `INSERT INTO dishes (` + dishColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.getExecutor(ctx).Exec(ctx, query,
		dish.ID,
		dish.OrderID,
		string(selections),
		dish.ComplementOfDishID,
		dish.ChefID,
		string(dish.Type),
		dish.IsAutoDelivered,
		dish.Cost.String(),
		dish.KitchenIndex,
		string(dish.Status),
		dish.ConflictReason,
		dish.IsComplementCoffee,
		dish.CreatedAt,
		dish.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to create dish", zap.String("order_id", dish.OrderID), zap.Error(err))
		return fmt.Errorf("failed to create dish: %w", err)
	}
	return nil
}

// CreateMany inserts all dishes or none
func (r *DishRepository) CreateMany(ctx context.Context, dishes []*entity.Dish) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, dish := range dishes {
			if err := r.Create(txCtx, dish); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DishRepository) GetByID(ctx context.Context, id string) (*entity.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`

	dish, err := scanDish(r.db.getExecutor(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get dish by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	return dish, nil
}

func (r *DishRepository) List(ctx context.Context, filter port.DishFilter) ([]*entity.Dish, error) {
	var w whereBuilder
	if filter.OrderID != "" {
		w.add("order_id = %s", filter.OrderID)
	}
	if len(filter.OrderIDs) > 0 {
		w.add("order_id = ANY(%s)", filter.OrderIDs)
	}
	if filter.ChefID != "" {
		w.add("chef_id = %s", filter.ChefID)
	}
	if filter.Status != "" {
		w.add("status = %s", string(filter.Status))
	}
	if filter.ComplementOf != "" {
		w.add("complement_of_dish_id = %s", filter.ComplementOf)
	}
	if !filter.CreatedSince.IsZero() {
		w.add("created_at >= %s", filter.CreatedSince)
	}
	if !filter.CreatedUntil.IsZero() {
		w.add("created_at <= %s", filter.CreatedUntil)
	}

	order := ` ORDER BY created_at ASC, kitchen_index ASC`
	if filter.SortByKitchenIndex {
		order = ` ORDER BY kitchen_index ASC, created_at ASC`
	}
	query := `SELECT ` + dishColumns + ` FROM dishes` + w.clause() + order

	rows, err := r.db.getExecutor(ctx).Query(ctx, query, w.args...)
	if err != nil {
		r.logger.Error("Failed to list dishes", zap.Error(err))
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []*entity.Dish
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *DishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	selections, err := json.Marshal(entity.WithoutMenuItems(dish.Selections))
	if err != nil {
		return fmt.Errorf("failed to encode selections: %w", err)
	}

	query := `
		UPDATE dishes SET
			selections = $1, chef_id = $2, cost = $3, kitchen_index = $4,
			status = $5, conflict_reason = $6, updated_at = $7
		WHERE id = $8
	`

	tag, err := r.db.getExecutor(ctx).Exec(ctx, query,
		string(selections),
		dish.ChefID,
		dish.Cost.String(),
		dish.KitchenIndex,
		string(dish.Status),
		dish.ConflictReason,
		dish.UpdatedAt,
		dish.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update dish", zap.String("id", dish.ID), zap.Error(err))
		return fmt.Errorf("failed to update dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dish %s not found", dish.ID)
	}
	return nil
}

func (r *DishRepository) Delete(ctx context.Context, id string) error {
	_, err := r.deleteWhere(ctx, "id", id)
	return err
}

func (r *DishRepository) DeleteByComplementOf(ctx context.Context, parentID string) (int64, error) {
	return r.deleteWhere(ctx, "complement_of_dish_id", parentID)
}

func (r *DishRepository) DeleteByOrder(ctx context.Context, orderID string) (int64, error) {
	return r.deleteWhere(ctx, "order_id", orderID)
}

func (r *DishRepository) deleteWhere(ctx context.Context, column, value string) (int64, error) {
	tag, err := r.db.getExecutor(ctx).Exec(ctx, `DELETE FROM dishes WHERE `+column+` = $1`, value)
	if err != nil {
		r.logger.Error("Failed to delete dishes", zap.String(column, value), zap.Error(err))
		return 0, fmt.Errorf("failed to delete dishes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *DishRepository) MaxKitchenIndexSince(ctx context.Context, since time.Time) (int, error) {
	var last int
	err := r.db.getExecutor(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(kitchen_index), 0) FROM dishes WHERE created_at >= $1`, since,
	).Scan(&last)
	if err != nil {
		r.logger.Error("Failed to read max kitchen index", zap.Error(err))
		return 0, fmt.Errorf("failed to read max kitchen index: %w", err)
	}
	return last, nil
}

func scanDish(row pgx.Row) (*entity.Dish, error) {
	var dish entity.Dish
	var dishType, status string
	var selections []byte

	err := row.Scan(
		&dish.ID,
		&dish.OrderID,
		&selections,
		&dish.ComplementOfDishID,
		&dish.ChefID,
		&dishType,
		&dish.IsAutoDelivered,
		&dish.Cost,
		&dish.KitchenIndex,
		&status,
		&dish.ConflictReason,
		&dish.IsComplementCoffee,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	dish.Type = entity.DishType(dishType)
	dish.Status = entity.DishStatus(status)
	if err := json.Unmarshal(selections, &dish.Selections); err != nil {
		return nil, fmt.Errorf("failed to decode selections: %w", err)
	}
	return &dish, nil
}

var _ port.DishRepository = (*DishRepository)(nil)
