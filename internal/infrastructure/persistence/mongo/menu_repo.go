package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// MenuRepository implements port.MenuCatalog and port.MenuWriter
type MenuRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(store *Store, logger *zap.Logger) *MenuRepository {
	return &MenuRepository{coll: store.db.Collection(menuCollection), logger: logger}
}

func (r *MenuRepository) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MenuRepository) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MenuRepository) findOne(ctx context.Context, filter bson.M) (*entity.MenuItem, error) {
	var doc menuItemDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get menu item", zap.Any("filter", filter), zap.Error(err))
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return doc.entity()
}

func (r *MenuRepository) List(ctx context.Context) ([]*entity.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list menu items", zap.Error(err))
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	var docs []menuItemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}

	items := make([]*entity.MenuItem, 0, len(docs))
	for i := range docs {
		item, err := docs[i].entity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Save upserts by id
func (r *MenuRepository) Save(ctx context.Context, item *entity.MenuItem) error {
	cost, err := toDecimal128(item.Cost)
	if err != nil {
		return err
	}

	attrs := make([]menuAttributeDoc, 0, len(item.Attributes))
	for _, a := range item.Attributes {
		attrs = append(attrs, menuAttributeDoc{Name: a.Name, Type: a.Type, Options: a.Options})
	}
	doc := menuItemDoc{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Category:        item.Category,
		Source:          item.Source,
		IsAutoDelivered: item.IsAutoDelivered,
		IsHidden:        item.IsHidden,
		Cost:            cost,
		Attributes:      attrs,
	}

	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to save menu item", zap.String("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to save menu item: %w", err)
	}
	return nil
}

func (d *menuItemDoc) entity() (*entity.MenuItem, error) {
	cost, err := fromDecimal128(d.Cost)
	if err != nil {
		return nil, err
	}

	attrs := make([]entity.MenuAttribute, 0, len(d.Attributes))
	for _, a := range d.Attributes {
		attrs = append(attrs, entity.MenuAttribute{Name: a.Name, Type: a.Type, Options: a.Options})
	}
	return &entity.MenuItem{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Category:        d.Category,
		Source:          d.Source,
		IsAutoDelivered: d.IsAutoDelivered,
		IsHidden:        d.IsHidden,
		Cost:            cost,
		Attributes:      attrs,
	}, nil
}

var (
	_ port.MenuCatalog = (*MenuRepository)(nil)
	_ port.MenuWriter  = (*MenuRepository)(nil)
)
