package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// OrderRepository implements port.OrderRepository
type OrderRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(store *Store, logger *zap.Logger) port.OrderRepository {
	return &OrderRepository{coll: store.db.Collection(ordersCollection), logger: logger}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	doc, err := newOrderDoc(order)
	if err != nil {
		return err
	}

	_, err = r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to create order", zap.Int("table", order.Table), zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var doc orderDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.entity()
}

func (r *OrderRepository) List(ctx context.Context, filter port.OrderFilter) ([]*entity.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, orderFilterDoc(filter), opts)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]*entity.Order, 0, len(docs))
	for i := range docs {
		order, err := docs[i].entity()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Update replaces the document when the stored version still matches
func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	next := *order
	next.Version = order.Version + 1
	doc, err := newOrderDoc(&next)
	if err != nil {
		return err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": order.ID, "version": order.Version}, doc)
	if mongo.IsDuplicateKeyError(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to update order", zap.String("id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return port.ErrStaleWrite
	}

	order.Version = next.Version
	return nil
}

func (r *OrderRepository) SetAccount(ctx context.Context, id string, account decimal.Decimal) (int64, error) {
	amount, err := toDecimal128(account)
	if err != nil {
		return 0, err
	}

	update := bson.M{
		"$set": bson.M{"account": amount, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"version": 1})

	var out struct {
		Version int64 `bson:"version"`
	}
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("order %s not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to set order account", zap.String("id", id), zap.Error(err))
		return 0, fmt.Errorf("failed to set order account: %w", err)
	}
	return out.Version, nil
}

func orderFilterDoc(filter port.OrderFilter) bson.M {
	query := bson.M{}
	if filter.WaiterID != "" {
		query["waiter_id"] = filter.WaiterID
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query["status"] = bson.M{"$in": statuses}
	}
	if filter.Table > 0 {
		query["table"] = filter.Table
	}

	created := bson.M{}
	if !filter.CreatedFrom.IsZero() {
		created["$gte"] = filter.CreatedFrom
	}
	if !filter.CreatedTo.IsZero() {
		created["$lte"] = filter.CreatedTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}

var _ port.OrderRepository = (*OrderRepository)(nil)
