package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

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
	return &MenuRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a menu item by ID
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.getOne(ctx, "id", id)
}

// GetByName retrieves a menu item by its unique name
func (r *MenuRepository) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	return r.getOne(ctx, "name", name)
}

func (r *MenuRepository) getOne(ctx context.Context, column, value string) (*entity.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE ` + column + ` = ?`

	item, err := scanMenuItem(r.db.getExecutor(ctx).QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get menu item", zap.String(column, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return item, nil
}

// List returns the whole catalog ordered by category and name
func (r *MenuRepository) List(ctx context.Context) ([]*entity.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items ORDER BY category, name`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query)
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

// Save inserts or replaces a menu item by ID
func (r *MenuRepository) Save(ctx context.Context, item *entity.MenuItem) error {
	attributes := item.Attributes
	if attributes == nil {
		attributes = []entity.MenuAttribute{}
	}
	attrs, err := toJSON(attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	query := `
		INSERT INTO menu_items (` + menuColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			source = excluded.source,
			is_auto_delivered = excluded.is_auto_delivered,
			is_hidden = excluded.is_hidden,
			cost = excluded.cost,
			attributes = excluded.attributes
	`

	_, err = r.db.getExecutor(ctx).ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		item.Category,
		item.Source,
		item.IsAutoDelivered,
		item.IsHidden,
		item.Cost,
		attrs,
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

func scanMenuItem(row rowScanner) (*entity.MenuItem, error) {
	var item entity.MenuItem
	var attrs string

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

	if err := json.Unmarshal([]byte(attrs), &item.Attributes); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}

	return &item, nil
}

// Verify interface compliance
var (
	_ port.MenuCatalog = (*MenuRepository)(nil)
	_ port.MenuWriter  = (*MenuRepository)(nil)
)
