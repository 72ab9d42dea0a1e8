package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

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
	return &DishRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a single dish
func (r *DishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	selections, err := toJSON(entity.WithoutMenuItems(dish.Selections))
	if err != nil {
		return fmt.Errorf("failed to encode selections: %w", err)
	}

	var coffee sql.NullBool
	if dish.IsComplementCoffee != nil {
		coffee = sql.NullBool{Bool: *dish.IsComplementCoffee, Valid: true}
	}

	query := `INSERT INTO dishes (` + dishColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.getExecutor(ctx).ExecContext(ctx, query,
		dish.ID,
		dish.OrderID,
		selections,
		dish.ComplementOfDishID,
		dish.ChefID,
		dish.Type,
		dish.IsAutoDelivered,
		dish.Cost,
		dish.KitchenIndex,
		dish.Status,
		dish.ConflictReason,
		coffee,
		formatTime(dish.CreatedAt),
		formatTime(dish.UpdatedAt),
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

// GetByID retrieves a dish by ID
func (r *DishRepository) GetByID(ctx context.Context, id string) (*entity.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = ?`

	dish, err := scanDish(r.db.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get dish by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}

	return dish, nil
}

// List retrieves dishes matching the filter in creation order
func (r *DishRepository) List(ctx context.Context, filter port.DishFilter) ([]*entity.Dish, error) {
	var conds []string
	var args []interface{}

	if filter.OrderID != "" {
		conds = append(conds, "order_id = ?")
		args = append(args, filter.OrderID)
	}
	if len(filter.OrderIDs) > 0 {
		conds = append(conds, "order_id IN ("+placeholders(len(filter.OrderIDs))+")")
		for _, id := range filter.OrderIDs {
			args = append(args, id)
		}
	}
	if filter.ChefID != "" {
		conds = append(conds, "chef_id = ?")
		args = append(args, filter.ChefID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ComplementOf != "" {
		conds = append(conds, "complement_of_dish_id = ?")
		args = append(args, filter.ComplementOf)
	}
	if !filter.CreatedSince.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, formatTime(filter.CreatedSince))
	}
	if !filter.CreatedUntil.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, formatTime(filter.CreatedUntil))
	}

	query := `SELECT ` + dishColumns + ` FROM dishes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.SortByKitchenIndex {
		query += " ORDER BY kitchen_index ASC, created_at ASC"
	} else {
		query += " ORDER BY created_at ASC, kitchen_index ASC"
	}

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list dishes", zap.Error(err))
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []*entity.Dish
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			r.logger.Error("Failed to scan dish", zap.Error(err))
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, dish)
	}

	return dishes, rows.Err()
}

// Update writes the mutable fields of a dish
func (r *DishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	selections, err := toJSON(entity.WithoutMenuItems(dish.Selections))
	if err != nil {
		return fmt.Errorf("failed to encode selections: %w", err)
	}

	query := `
		UPDATE dishes SET
			selections = ?, chef_id = ?, cost = ?, kitchen_index = ?,
			status = ?, conflict_reason = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		selections,
		dish.ChefID,
		dish.Cost,
		dish.KitchenIndex,
		dish.Status,
		dish.ConflictReason,
		formatTime(dish.UpdatedAt),
		dish.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update dish", zap.String("id", dish.ID), zap.Error(err))
		return fmt.Errorf("failed to update dish: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("dish %s not found", dish.ID)
	}

	return nil
}

// Delete removes a dish by ID
func (r *DishRepository) Delete(ctx context.Context, id string) error {
	_, err := r.deleteWhere(ctx, "id = ?", id)
	return err
}

// DeleteByComplementOf removes the complements generated for a dish
func (r *DishRepository) DeleteByComplementOf(ctx context.Context, parentID string) (int64, error) {
	return r.deleteWhere(ctx, "complement_of_dish_id = ?", parentID)
}

// DeleteByOrder removes every dish of an order
func (r *DishRepository) DeleteByOrder(ctx context.Context, orderID string) (int64, error) {
	return r.deleteWhere(ctx, "order_id = ?", orderID)
}

func (r *DishRepository) deleteWhere(ctx context.Context, cond string, arg interface{}) (int64, error) {
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, `DELETE FROM dishes WHERE `+cond, arg)
	if err != nil {
		r.logger.Error("Failed to delete dishes", zap.String("where", cond), zap.Any("arg", arg), zap.Error(err))
		return 0, fmt.Errorf("failed to delete dishes: %w", err)
	}
	return result.RowsAffected()
}

// MaxKitchenIndexSince returns the highest kitchen index created at or after since
func (r *DishRepository) MaxKitchenIndexSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COALESCE(MAX(kitchen_index), 0) FROM dishes WHERE created_at >= ?`

	var last int
	if err := r.db.getExecutor(ctx).QueryRowContext(ctx, query, formatTime(since)).Scan(&last); err != nil {
		r.logger.Error("Failed to read max kitchen index", zap.Error(err))
		return 0, fmt.Errorf("failed to read max kitchen index: %w", err)
	}

	return last, nil
}

func scanDish(row rowScanner) (*entity.Dish, error) {
	var dish entity.Dish
	var selections, createdAt, updatedAt string
	var coffee sql.NullBool

	err := row.Scan(
		&dish.ID,
		&dish.OrderID,
		&selections,
		&dish.ComplementOfDishID,
		&dish.ChefID,
		&dish.Type,
		&dish.IsAutoDelivered,
		&dish.Cost,
		&dish.KitchenIndex,
		&dish.Status,
		&dish.ConflictReason,
		&coffee,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(selections), &dish.Selections); err != nil {
		return nil, fmt.Errorf("failed to decode selections: %w", err)
	}
	if coffee.Valid {
		v := coffee.Bool
		dish.IsComplementCoffee = &v
	}
	if dish.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if dish.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &dish, nil
}

// Verify interface compliance
var _ port.DishRepository = (*DishRepository)(nil)
