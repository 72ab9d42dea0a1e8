package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
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
	return &OrderRepository{db: db, logger: logger}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	charges, err := json.Marshal(chargesOrEmpty(order.CustomCharges))
	if err != nil {
		return fmt.Errorf("failed to encode custom charges: %w", err)
	}

	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = r.db.getExecutor(ctx).Exec(ctx, query,
		order.ID,
		order.Table,
		order.People,
		order.WaiterID,
		string(order.Status),
		order.Account.String(),
		order.Tip.String(),
		string(charges),
		string(order.PaymentType),
		order.CardTxNumber,
		order.CashReceived.String(),
		order.CashReturned.String(),
		order.CancelReason,
		order.Version,
		order.CreatedAt,
		order.UpdatedAt,
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

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.getExecutor(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) List(ctx context.Context, filter port.OrderFilter) ([]*entity.Order, error) {
	var w whereBuilder
	if filter.WaiterID != "" {
		w.add("waiter_id = %s", filter.WaiterID)
	}
	if filter.Table != 0 {
		w.add("table_number = %s", filter.Table)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		w.add("status = ANY(%s)", statuses)
	}
	if !filter.CreatedFrom.IsZero() {
		w.add("created_at >= %s", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		w.add("created_at <= %s", filter.CreatedTo)
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + w.clause() + ` ORDER BY created_at DESC`

	rows, err := r.db.getExecutor(ctx).Query(ctx, query, w.args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	charges, err := json.Marshal(chargesOrEmpty(order.CustomCharges))
	if err != nil {
		return fmt.Errorf("failed to encode custom charges: %w", err)
	}

	query := `
		UPDATE orders SET
			table_number = $1, people = $2, waiter_id = $3, status = $4,
			account = $5, tip = $6, custom_charges = $7,
			payment_type = $8, card_tx_number = $9, cash_received = $10, cash_returned = $11,
			cancel_reason = $12, version = version + 1, updated_at = $13
		WHERE id = $14 AND version = $15
	`

	tag, err := r.db.getExecutor(ctx).Exec(ctx, query,
		order.Table,
		order.People,
		order.WaiterID,
		string(order.Status),
		order.Account.String(),
		order.Tip.String(),
		string(charges),
		string(order.PaymentType),
		order.CardTxNumber,
		order.CashReceived.String(),
		order.CashReturned.String(),
		order.CancelReason,
		order.UpdatedAt,
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
	if tag.RowsAffected() == 0 {
		return port.ErrStaleWrite
	}

	order.Version++
	return nil
}

func (r *OrderRepository) SetAccount(ctx context.Context, id string, account decimal.Decimal) (int64, error) {
	query := `UPDATE orders SET account = $1, version = version + 1, updated_at = $2 WHERE id = $3 RETURNING version`

	var version int64
	err := r.db.getExecutor(ctx).QueryRow(ctx, query, account.String(), time.Now(), id).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, port.ErrStaleWrite
	}
	if err != nil {
		r.logger.Error("Failed to set account", zap.String("id", id), zap.Error(err))
		return 0, fmt.Errorf("failed to set account: %w", err)
	}
	return version, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var order entity.Order
	var status, paymentType string
	var charges []byte

	err := row.Scan(
		&order.ID,
		&order.Table,
		&order.People,
		&order.WaiterID,
		&status,
		&order.Account,
		&order.Tip,
		&charges,
		&paymentType,
		&order.CardTxNumber,
		&order.CashReceived,
		&order.CashReturned,
		&order.CancelReason,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = entity.OrderStatus(status)
	order.PaymentType = entity.PaymentType(paymentType)
	if err := json.Unmarshal(charges, &order.CustomCharges); err != nil {
		return nil, fmt.Errorf("failed to decode custom charges: %w", err)
	}
	return &order, nil
}

func chargesOrEmpty(charges []entity.CustomCharge) []entity.CustomCharge {
	if charges == nil {
		return []entity.CustomCharge{}
	}
	return charges
}

var _ port.OrderRepository = (*OrderRepository)(nil)
