package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metrics is a read-only rollup of orders and dishes over a date range
type Metrics struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	// Dish counts exclude dishes of cancelled orders
	SingleDishes   int `json:"single_dishes"`
	CompoundDishes int `json:"compound_dishes"`

	OrdersByStatus map[OrderStatus]int `json:"orders_by_status"`
	TotalAccount   decimal.Decimal     `json:"total_account"`
	TotalTip       decimal.Decimal     `json:"total_tip"`
	TotalPeople    int                 `json:"total_people"`
}
