package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

const menuColumns = `id, name, description, category, source, is_auto_delivered, is_hidden, cost, attributes`

// MenuRepository implements port.MenuCatalog and port.MenuWriter
type MenuRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *DB, logger *zap.Logger) *MenuRepository {
	return &MenuRepository{db: db, logger: logger}
}

func (r *MenuRepository) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.getOne(ctx, "id", id)
}

func (r *MenuRepository) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	return r.getOne(ctx, "name", name)
}

func (r *MenuRepository) getOne(ctx context.Context, column, value string) (*entity.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE ` + column + ` = $1`

	item, err := scanMenuItem(r.db.getExecutor(ctx).QueryRow(ctx, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get menu item", zap.String(column, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (r *MenuRepository) List(ctx context.Context) ([]*entity.MenuItem, error) {
	rows, err := r.db.getExecutor(ctx).Query(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		r.logger.Error("Failed to list menu items", zap.Error(err))
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []*entity.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MenuRepository) Save(ctx context.Context, item *entity.MenuItem) error {
	attributes := item.Attributes
	if attributes == nil {
		attributes = []entity.MenuAttribute{}
	}
	attrs, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	_, err = r.db.getExecutor(ctx).Exec(ctx, `
		INSERT INTO menu_items (`+menuColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			source = EXCLUDED.source,
			is_auto_delivered = EXCLUDED.is_auto_delivered,
			is_hidden = EXCLUDED.is_hidden,
			cost = EXCLUDED.cost,
			attributes = EXCLUDED.attributes
	`,
		item.ID,
		item.Name,
		item.Description,
		item.Category,
		item.Source,
		item.IsAutoDelivered,
		item.IsHidden,
		item.Cost.String(),
		string(attrs),
	)
	if isUniqueViolation(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to save menu item", zap.String("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to save menu item: %w", err)
	}
	return nil
}

func scanMenuItem(row pgx.Row) (*entity.MenuItem, error) {
	var item entity.MenuItem
	var attrs []byte

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Source,
		&item.IsAutoDelivered,
		&item.IsHidden,
		&item.Cost,
		&attrs,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(attrs, &item.Attributes); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return &item, nil
}

var (
	_ port.MenuCatalog = (*MenuRepository)(nil)
	_ port.MenuWriter  = (*MenuRepository)(nil)
)
