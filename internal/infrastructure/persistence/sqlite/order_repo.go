package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

const orderColumns = `
	id, table_number, people, waiter_id, status, account, tip, custom_charges,
	payment_type, card_tx_number, cash_received, cash_returned, cancel_reason,
	version, created_at, updated_at`

// OrderRepository implements port.OrderRepository
type OrderRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB, logger *zap.Logger) port.OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new order
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	charges, err := toJSON(chargesOrEmpty(order.CustomCharges))
	if err != nil {
		return fmt.Errorf("failed to encode custom charges: %w", err)
	}

	query := `INSERT INTO orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.getExecutor(ctx).ExecContext(ctx, query,
		order.ID,
		order.Table,
		order.People,
		order.WaiterID,
		order.Status,
		order.Account,
		order.Tip,
		charges,
		order.PaymentType,
		order.CardTxNumber,
		order.CashReceived,
		order.CashReturned,
		order.CancelReason,
		order.Version,
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to create order", zap.String("id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// List retrieves orders matching the filter, newest first
func (r *OrderRepository) List(ctx context.Context, filter port.OrderFilter) ([]*entity.Order, error) {
	var conds []string
	var args []interface{}

	if filter.WaiterID != "" {
		conds = append(conds, "waiter_id = ?")
		args = append(args, filter.WaiterID)
	}
	if filter.Table != 0 {
		conds = append(conds, "table_number = ?")
		args = append(args, filter.Table)
	}
	if len(filter.Statuses) > 0 {
		conds = append(conds, "status IN ("+placeholders(len(filter.Statuses))+")")
		for _, s := range filter.Statuses {
			args = append(args, s)
		}
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, formatTime(filter.CreatedFrom))
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, formatTime(filter.CreatedTo))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error("Failed to scan order", zap.Error(err))
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// Update writes every mutable field when the version matches
func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	charges, err := toJSON(chargesOrEmpty(order.CustomCharges))
	if err != nil {
		return fmt.Errorf("failed to encode custom charges: %w", err)
	}

	query := `
		UPDATE orders SET
			table_number = ?, people = ?, waiter_id = ?, status = ?,
			account = ?, tip = ?, custom_charges = ?,
			payment_type = ?, card_tx_number = ?, cash_received = ?, cash_returned = ?,
			cancel_reason = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		order.Table,
		order.People,
		order.WaiterID,
		order.Status,
		order.Account,
		order.Tip,
		charges,
		order.PaymentType,
		order.CardTxNumber,
		order.CashReceived,
		order.CashReturned,
		order.CancelReason,
		formatTime(order.UpdatedAt),
		order.ID,
		order.Version,
	)
	if isUniqueViolation(err) {
		return port.ErrDuplicate
	}
	if err != nil {
		r.logger.Error("Failed to update order", zap.String("id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return port.ErrStaleWrite
	}

	order.Version++
	return nil
}

// SetAccount writes the account alone and returns the new version
func (r *OrderRepository) SetAccount(ctx context.Context, id string, account decimal.Decimal) (int64, error) {
	query := `UPDATE orders SET account = ?, version = version + 1, updated_at = ? WHERE id = ? RETURNING version`

	var version int64
	err := r.db.getExecutor(ctx).QueryRowContext(ctx, query, account, formatTime(time.Now()), id).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, port.ErrStaleWrite
	}
	if err != nil {
		r.logger.Error("Failed to set account", zap.String("id", id), zap.Error(err))
		return 0, fmt.Errorf("failed to set account: %w", err)
	}

	return version, nil
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var order entity.Order
	var charges, createdAt, updatedAt string

	err := row.Scan(
		&order.ID,
		&order.Table,
		&order.People,
		&order.WaiterID,
		&order.Status,
		&order.Account,
		&order.Tip,
		&charges,
		&order.PaymentType,
		&order.CardTxNumber,
		&order.CashReceived,
		&order.CashReturned,
		&order.CancelReason,
		&order.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(charges), &order.CustomCharges); err != nil {
		return nil, fmt.Errorf("failed to decode custom charges: %w", err)
	}
	if order.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if order.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &order, nil
}

func chargesOrEmpty(charges []entity.CustomCharge) []entity.CustomCharge {
	if charges == nil {
		return []entity.CustomCharge{}
	}
	return charges
}

// Verify interface compliance
var _ port.OrderRepository = (*OrderRepository)(nil)
