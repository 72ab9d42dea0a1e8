package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// DishLogRepository implements port.DishLogRepository
type DishLogRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDishLogRepository creates a new dish log repository
func NewDishLogRepository(db *DB, logger *zap.Logger) port.DishLogRepository {
	return &DishLogRepository{db: db, logger: logger}
}

func (r *DishLogRepository) Create(ctx context.Context, log *entity.DishLog) error {
	_, err := r.db.getExecutor(ctx).Exec(ctx, `
		INSERT INTO dish_logs (id, dish_id, action, value, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, log.ID, log.DishID, string(log.Action), log.Value, log.UserID, log.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create dish log", zap.String("dish_id", log.DishID), zap.Error(err))
		return fmt.Errorf("failed to create dish log: %w", err)
	}
	return nil
}

func (r *DishLogRepository) ListByDish(ctx context.Context, dishID string) ([]*entity.DishLog, error) {
	rows, err := r.db.getExecutor(ctx).Query(ctx, `
		SELECT id, dish_id, action, value, user_id, created_at
		FROM dish_logs WHERE dish_id = $1 ORDER BY created_at ASC
	`, dishID)
	if err != nil {
		r.logger.Error("Failed to list dish logs", zap.String("dish_id", dishID), zap.Error(err))
		return nil, fmt.Errorf("failed to list dish logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.DishLog
	for rows.Next() {
		var log entity.DishLog
		var action string
		if err := rows.Scan(&log.ID, &log.DishID, &action, &log.Value, &log.UserID, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dish log: %w", err)
		}
		log.Action = entity.DishLogAction(action)
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

var _ port.DishLogRepository = (*DishLogRepository)(nil)
