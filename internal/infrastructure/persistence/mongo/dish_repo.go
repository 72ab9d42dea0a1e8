package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// DishRepository implements port.DishRepository
type DishRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewDishRepository creates a new dish repository
func NewDishRepository(store *Store, logger *zap.Logger) port.DishRepository {
	return &DishRepository{coll: store.db.Collection(dishesCollection), logger: logger}
}

func (r *DishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	doc, err := newDishDoc(dish)
	if err != nil {
		return err
	}

	_, err = r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to create dish", zap.String("order_id", dish.OrderID), zap.Error(err))
		return fmt.Errorf("failed to create dish: %w", err)
	}
	return nil
}

// CreateMany inserts the batch in one ordered call; a failure removes what
// was already written
func (r *DishRepository) CreateMany(ctx context.Context, dishes []*entity.Dish) error {
	if len(dishes) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(dishes))
	ids := make([]string, 0, len(dishes))
	for _, dish := range dishes {
		doc, err := newDishDoc(dish)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		ids = append(ids, dish.ID)
	}

	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return nil
	}

	if _, cleanupErr := r.coll.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": ids}}); cleanupErr != nil {
		r.logger.Error("Failed to clean up partial dish batch", zap.Error(cleanupErr))
	}
	if mongo.IsDuplicateKeyError(err) {
		return port.ErrDuplicate
	}
	r.logger.Error("Failed to create dishes", zap.Int("count", len(dishes)), zap.Error(err))
	return fmt.Errorf("failed to create dishes: %w", err)
}

func (r *DishRepository) GetByID(ctx context.Context, id string) (*entity.Dish, error) {
	var doc dishDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get dish by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	return doc.entity()
}

func (r *DishRepository) List(ctx context.Context, filter port.DishFilter) ([]*entity.Dish, error) {
	sort := bson.D{{Key: "created_at", Value: 1}, {Key: "kitchen_index", Value: 1}}
	if filter.SortByKitchenIndex {
		sort = bson.D{{Key: "kitchen_index", Value: 1}, {Key: "created_at", Value: 1}}
	}

	cursor, err := r.coll.Find(ctx, dishFilterDoc(filter), options.Find().SetSort(sort))
	if err != nil {
		r.logger.Error("Failed to list dishes", zap.Error(err))
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}

	var docs []dishDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode dishes: %w", err)
	}

	dishes := make([]*entity.Dish, 0, len(docs))
	for i := range docs {
		dish, err := docs[i].entity()
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

func (r *DishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	doc, err := newDishDoc(dish)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"selections":      doc.Selections,
		"chef_id":         doc.ChefID,
		"cost":            doc.Cost,
		"kitchen_index":   doc.KitchenIndex,
		"status":          doc.Status,
		"conflict_reason": doc.ConflictReason,
		"updated_at":      doc.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": dish.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update dish", zap.String("id", dish.ID), zap.Error(err))
		return fmt.Errorf("failed to update dish: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("dish %s not found", dish.ID)
	}
	return nil
}

func (r *DishRepository) Delete(ctx context.Context, id string) error {
	_, err := r.deleteWhere(ctx, "_id", id)
	return err
}

func (r *DishRepository) DeleteByComplementOf(ctx context.Context, parentID string) (int64, error) {
	return r.deleteWhere(ctx, "complement_of_dish_id", parentID)
}

func (r *DishRepository) DeleteByOrder(ctx context.Context, orderID string) (int64, error) {
	return r.deleteWhere(ctx, "order_id", orderID)
}

func (r *DishRepository) deleteWhere(ctx context.Context, field, value string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{field: value})
	if err != nil {
		r.logger.Error("Failed to delete dishes", zap.String(field, value), zap.Error(err))
		return 0, fmt.Errorf("failed to delete dishes: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *DishRepository) MaxKitchenIndexSince(ctx context.Context, since time.Time) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "kitchen_index", Value: -1}}).
		SetProjection(bson.M{"kitchen_index": 1})

	var out struct {
		KitchenIndex int `bson:"kitchen_index"`
	}
	err := r.coll.FindOne(ctx, bson.M{"created_at": bson.M{"$gte": since}}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Failed to read max kitchen index", zap.Error(err))
		return 0, fmt.Errorf("failed to read max kitchen index: %w", err)
	}
	return out.KitchenIndex, nil
}

func dishFilterDoc(filter port.DishFilter) bson.M {
	query := bson.M{}
	switch {
	case filter.OrderID != "":
		query["order_id"] = filter.OrderID
	case len(filter.OrderIDs) > 0:
		query["order_id"] = bson.M{"$in": filter.OrderIDs}
	}
	if filter.ChefID != "" {
		query["chef_id"] = filter.ChefID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.ComplementOf != "" {
		query["complement_of_dish_id"] = filter.ComplementOf
	}

	created := bson.M{}
	if !filter.CreatedSince.IsZero() {
		created["$gte"] = filter.CreatedSince
	}
	if !filter.CreatedUntil.IsZero() {
		created["$lte"] = filter.CreatedUntil
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}

var _ port.DishRepository = (*DishRepository)(nil)
