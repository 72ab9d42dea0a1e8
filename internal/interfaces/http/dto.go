package http

import (
	"github.com/shopspring/decimal"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
	"github.com/MiguelMtzP/crm-restaurant-backend/pkg/utils"
)

// ChargeRequest is a custom charge line in a request body
type ChargeRequest struct {
	Name        string          `json:"name" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"gte=0"`
	Description string          `json:"description"`
}

// CreateOrderRequest represents POST /orders
type CreateOrderRequest struct {
	Table         int             `json:"table" binding:"required,min=1"`
	People        int             `json:"people" binding:"required,min=1"`
	WaiterID      string          `json:"waiter_id"`
	CustomCharges []ChargeRequest `json:"custom_charges" binding:"omitempty,dive"`
}

// UpdateOrderStatusRequest represents PATCH /orders/:id/status
type UpdateOrderStatusRequest struct {
	Status      string `json:"status" binding:"required,order_status"`
	PaymentType string `json:"payment_type" binding:"payment_type"`
}

// CancelOrderRequest represents POST /orders/:id/cancel
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// PaymentRequest represents POST /orders/:id/payment. An absent
// custom_charges keeps the order's charges; an empty list clears them.
type PaymentRequest struct {
	PaymentType   string           `json:"payment_type" binding:"required,payment_type"`
	CardTxNumber  string           `json:"card_tx_number"`
	CashReceived  *decimal.Decimal `json:"cash_received" binding:"omitempty,gte=0"`
	Tip           *decimal.Decimal `json:"tip" binding:"omitempty,gte=0"`
	CustomCharges []ChargeRequest  `json:"custom_charges" binding:"omitempty,dive"`
}

// SelectionRequest is one menu line of a dish
type SelectionRequest struct {
	MenuItemID         string                     `json:"menu_item_id" binding:"required"`
	AttributesSelected []entity.AttributeSelected `json:"attributes_selected"`
	Notes              string                     `json:"notes"`
	AlreadyDelivered   bool                       `json:"already_delivered"`
}

// DishRequest is a dish in a request body
type DishRequest struct {
	Selections         []SelectionRequest `json:"selections" binding:"required,min=1,dive"`
	Type               string             `json:"type" binding:"required,dish_type"`
	Cost               decimal.Decimal    `json:"cost" binding:"gte=0"`
	IsAutoDelivered    bool               `json:"is_auto_delivered"`
	IsComplementCoffee *bool              `json:"is_complement_coffee"`
	ComplementOfDishID string             `json:"complement_of_dish_id"`
	ChefID             string             `json:"chef_id"`
	Status             string             `json:"status" binding:"dish_status"`
}

// CreateDishRequest represents POST /dishes
type CreateDishRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	DishRequest
}

// AddDishesRequest represents POST /orders/:id/dishes
type AddDishesRequest struct {
	Dishes []DishRequest `json:"dishes" binding:"required,min=1,dive"`
}

// UpdateDishStatusRequest represents PATCH /dishes/:id/status
type UpdateDishStatusRequest struct {
	Status         string `json:"status" binding:"required,dish_status"`
	ConflictReason string `json:"conflict_reason"`
}

// AssignChefRequest represents PATCH /dishes/:id/chef. An empty chef id
// assigns the caller.
type AssignChefRequest struct {
	ChefID string `json:"chef_id"`
}

// PublicStatusRequest represents a customer status change
type PublicStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

// PublicTokenResponse carries an order's customer link token
type PublicTokenResponse struct {
	OrderID string `json:"order_id"`
	Token   string `json:"token"`
}

func toChargeInputs(reqs []ChargeRequest) []service.CustomChargeInput {
	if reqs == nil {
		return nil
	}
	out := make([]service.CustomChargeInput, len(reqs))
	for i, r := range reqs {
		out[i] = r.toInput()
	}
	return out
}

func (r ChargeRequest) toInput() service.CustomChargeInput {
	return service.CustomChargeInput{
		Name:        utils.SanitizeString(r.Name),
		Amount:      r.Amount,
		Description: utils.SanitizeString(r.Description),
	}
}

func (r DishRequest) toInput(orderID string) service.DishInput {
	selections := make([]entity.MenuSelection, len(r.Selections))
	for i, s := range r.Selections {
		selections[i] = entity.MenuSelection{
			MenuItemID:         s.MenuItemID,
			AttributesSelected: s.AttributesSelected,
			Notes:              utils.SanitizeString(s.Notes),
			AlreadyDelivered:   s.AlreadyDelivered,
		}
	}
	return service.DishInput{
		OrderID:            orderID,
		Selections:         selections,
		ComplementOfDishID: r.ComplementOfDishID,
		ChefID:             r.ChefID,
		Type:               entity.DishType(r.Type),
		IsAutoDelivered:    r.IsAutoDelivered,
		Cost:               r.Cost,
		Status:             entity.DishStatus(r.Status),
		IsComplementCoffee: r.IsComplementCoffee,
	}
}
