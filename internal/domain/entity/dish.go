package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is one preparable kitchen item, or a compound package, tied to an order
type Dish struct {
	ID                 string          `json:"id"`
	OrderID            string          `json:"order_id"`
	Selections         []MenuSelection `json:"selections"`
	ComplementOfDishID string          `json:"complement_of_dish_id,omitempty"`
	ChefID             string          `json:"chef_id,omitempty"`
	Type               DishType        `json:"type"`
	IsAutoDelivered    bool            `json:"is_auto_delivered"`
	Cost               decimal.Decimal `json:"cost"`
	KitchenIndex       int             `json:"kitchen_index"`
	Status             DishStatus      `json:"status"`
	ConflictReason     string          `json:"conflict_reason,omitempty"`
	IsComplementCoffee *bool           `json:"is_complement_coffee,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// MenuSelection is one menu line inside a dish
type MenuSelection struct {
	MenuItemID         string              `json:"menu_item_id"`
	AttributesSelected []AttributeSelected `json:"attributes_selected"`
	Notes              string              `json:"notes,omitempty"`
	AlreadyDelivered   bool                `json:"already_delivered,omitempty"`

	// MenuItem is filled in by read paths that annotate dishes with the catalog
	MenuItem *MenuItem `json:"menu_item,omitempty"`
}

// AttributeSelected is a customer choice for a menu attribute
type AttributeSelected struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

// WantsCoffee reports whether a compound dish gets coffee rather than tea
func (d *Dish) WantsCoffee() bool {
	return d.IsComplementCoffee != nil && *d.IsComplementCoffee
}

// CanBeRemoved is true for dishes still waiting in row and auto-delivered extras
func (d *Dish) CanBeRemoved() bool {
	return d.Status == DishStatusInRow || d.IsAutoDelivered
}

// WithoutMenuItems copies selections with catalog annotations cleared, the
// shape stores persist
func WithoutMenuItems(selections []MenuSelection) []MenuSelection {
	plain := make([]MenuSelection, len(selections))
	for i, s := range selections {
		s.MenuItem = nil
		if s.AttributesSelected == nil {
			s.AttributesSelected = []AttributeSelected{}
		}
		plain[i] = s
	}
	return plain
}

// DishLog is an append-only audit entry for a dish
type DishLog struct {
	ID        string        `json:"id"`
	DishID    string        `json:"dish_id"`
	Action    DishLogAction `json:"action"`
	Value     string        `json:"value"`
	UserID    string        `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
}
