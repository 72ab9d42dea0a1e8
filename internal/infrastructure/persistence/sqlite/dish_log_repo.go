package sqlite

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
	return &DishLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a log entry
func (r *DishLogRepository) Create(ctx context.Context, log *entity.DishLog) error {
	query := `
		INSERT INTO dish_logs (id, dish_id, action, value, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		log.ID,
		log.DishID,
		log.Action,
		log.Value,
		log.UserID,
		formatTime(log.CreatedAt),
	)
	if err != nil {
		r.logger.Error("Failed to create dish log", zap.String("dish_id", log.DishID), zap.Error(err))
		return fmt.Errorf("failed to create dish log: %w", err)
	}

	return nil
}

// ListByDish returns a dish's log entries, oldest first
func (r *DishLogRepository) ListByDish(ctx context.Context, dishID string) ([]*entity.DishLog, error) {
	query := `
		SELECT id, dish_id, action, value, user_id, created_at
		FROM dish_logs
		WHERE dish_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, dishID)
	if err != nil {
		r.logger.Error("Failed to list dish logs", zap.String("dish_id", dishID), zap.Error(err))
		return nil, fmt.Errorf("failed to list dish logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.DishLog
	for rows.Next() {
		var log entity.DishLog
		var createdAt string
		if err := rows.Scan(&log.ID, &log.DishID, &log.Action, &log.Value, &log.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan dish log: %w", err)
		}
		if log.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// Verify interface compliance
var _ port.DishLogRepository = (*DishLogRepository)(nil)
