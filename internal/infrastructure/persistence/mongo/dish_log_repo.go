package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// DishLogRepository implements port.DishLogRepository
type DishLogRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewDishLogRepository creates a new dish log repository
func NewDishLogRepository(store *Store, logger *zap.Logger) port.DishLogRepository {
	return &DishLogRepository{coll: store.db.Collection(dishLogsCollection), logger: logger}
}

func (r *DishLogRepository) Create(ctx context.Context, log *entity.DishLog) error {
	doc := dishLogDoc{
		ID:        log.ID,
		DishID:    log.DishID,
		Action:    string(log.Action),
		Value:     log.Value,
		UserID:    log.UserID,
		CreatedAt: log.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to create dish log", zap.String("dish_id", log.DishID), zap.Error(err))
		return fmt.Errorf("failed to create dish log: %w", err)
	}
	return nil
}

func (r *DishLogRepository) ListByDish(ctx context.Context, dishID string) ([]*entity.DishLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"dish_id": dishID}, opts)
	if err != nil {
		r.logger.Error("Failed to list dish logs", zap.String("dish_id", dishID), zap.Error(err))
		return nil, fmt.Errorf("failed to list dish logs: %w", err)
	}

	var docs []dishLogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode dish logs: %w", err)
	}

	logs := make([]*entity.DishLog, 0, len(docs))
	for _, d := range docs {
		logs = append(logs, &entity.DishLog{
			ID:        d.ID,
			DishID:    d.DishID,
			Action:    entity.DishLogAction(d.Action),
			Value:     d.Value,
			UserID:    d.UserID,
			CreatedAt: d.CreatedAt,
		})
	}
	return logs, nil
}

var _ port.DishLogRepository = (*DishLogRepository)(nil)
