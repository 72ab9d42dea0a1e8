package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a table's dining session from open to close or cancel.
// Account is a cached total; it is recomputed from dishes and custom charges
// before any decision that depends on it.
type Order struct {
	ID            string          `json:"id"`
	Table         int             `json:"table"`
	People        int             `json:"people"`
	WaiterID      string          `json:"waiter_id"`
	Status        OrderStatus     `json:"status"`
	Account       decimal.Decimal `json:"account"`
	Tip           decimal.Decimal `json:"tip"`
	CustomCharges []CustomCharge  `json:"custom_charges"`

	// Payment fields, set when the order is closed
	PaymentType  PaymentType     `json:"payment_type,omitempty"`
	CardTxNumber string          `json:"card_tx_number,omitempty"`
	CashReceived decimal.Decimal `json:"cash_received"`
	CashReturned decimal.Decimal `json:"cash_returned"`

	CancelReason string `json:"cancel_reason,omitempty"`

	// Version is bumped on every write and checked on updates
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomCharge is an ad-hoc fee line on an order's bill
type CustomCharge struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// ChargesTotal sums the amounts of all custom charges
func (o *Order) ChargesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range o.CustomCharges {
		total = total.Add(c.Amount)
	}
	return total
}

// ChargeIndex returns the position of the charge with the given id, or -1
func (o *Order) ChargeIndex(chargeID string) int {
	for i, c := range o.CustomCharges {
		if c.ID == chargeID {
			return i
		}
	}
	return -1
}
