package entity

// OrderStatus is the lifecycle state of an Order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusPaying    OrderStatus = "PAYING"
	OrderStatusClosed    OrderStatus = "CLOSED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var validOrderStatuses = map[OrderStatus]bool{
	OrderStatusOpen:      true,
	OrderStatusPaying:    true,
	OrderStatusClosed:    true,
	OrderStatusCancelled: true,
}

// OrderStatuses lists every order status in lifecycle order
var OrderStatuses = []OrderStatus{
	OrderStatusOpen,
	OrderStatusPaying,
	OrderStatusClosed,
	OrderStatusCancelled,
}

// ActiveOrderStatuses are the statuses that hold a table
var ActiveOrderStatuses = []OrderStatus{OrderStatusOpen, OrderStatusPaying}

// IsValid returns true if the status is a known order status
func (s OrderStatus) IsValid() bool {
	return validOrderStatuses[s]
}

// IsTerminal returns true for CLOSED and CANCELLED
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusClosed || s == OrderStatusCancelled
}

// IsActive returns true while the order holds its table
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusOpen || s == OrderStatusPaying
}

func (s OrderStatus) String() string {
	return string(s)
}

// DishStatus is the kitchen state of a Dish
type DishStatus string

const (
	DishStatusInRow     DishStatus = "IN_ROW"
	DishStatusWorkingOn DishStatus = "WORKING_ON"
	DishStatusToPickup  DishStatus = "TO_PICKUP"
	DishStatusDelivered DishStatus = "DELIVERED"
	DishStatusConflict  DishStatus = "CONFLICT"
)

var validDishStatuses = map[DishStatus]bool{
	DishStatusInRow:     true,
	DishStatusWorkingOn: true,
	DishStatusToPickup:  true,
	DishStatusDelivered: true,
	DishStatusConflict:  true,
}

// DishStatuses lists every dish status
var DishStatuses = []DishStatus{
	DishStatusInRow,
	DishStatusWorkingOn,
	DishStatusToPickup,
	DishStatusDelivered,
	DishStatusConflict,
}

// IsValid returns true if the status is a known dish status
func (s DishStatus) IsValid() bool {
	return validDishStatuses[s]
}

// IsTerminal returns true once the dish has been delivered
func (s DishStatus) IsTerminal() bool {
	return s == DishStatusDelivered
}

func (s DishStatus) String() string {
	return string(s)
}

// DishType distinguishes single plates from compound packages
type DishType string

const (
	DishTypeSingle   DishType = "SINGLE"
	DishTypeCompound DishType = "COMPOUND"
)

// IsValid returns true if the type is SINGLE or COMPOUND
func (t DishType) IsValid() bool {
	return t == DishTypeSingle || t == DishTypeCompound
}

// PaymentType is how an order was settled
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "CASH"
	PaymentTypeCard     PaymentType = "CARD"
	PaymentTypeTransfer PaymentType = "TRANSFER"
)

// IsValid returns true if the payment type is known
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeCard, PaymentTypeTransfer:
		return true
	default:
		return false
	}
}

// DishLogAction identifies what a DishLog entry records
type DishLogAction string

const (
	DishLogActionChangeStatus DishLogAction = "CHANGE_STATUS"
	DishLogActionDeleteDish   DishLogAction = "DELETE_DISH"
)

// Role is the staff role carried by an authenticated user
type Role string

const (
	RoleWaiter  Role = "WAITER"
	RoleChef    Role = "CHEF"
	RoleManager Role = "MANAGER"
)
