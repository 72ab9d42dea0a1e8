package event

// Type identifies the type of domain event
type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
	TypeOrderPaid          Type = "order.paid"
	TypeOrderCancelled     Type = "order.cancelled"
	TypeDishCreated        Type = "dish.created"
	TypeDishStatusChanged  Type = "dish.status_changed"
	TypeDishDeleted        Type = "dish.deleted"
	TypeDishChefAssigned   Type = "dish.chef_assigned"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeOrderCreated,
		TypeOrderStatusChanged,
		TypeOrderPaid,
		TypeOrderCancelled,
		TypeDishCreated,
		TypeDishStatusChanged,
		TypeDishDeleted,
		TypeDishChefAssigned:
		return true
	default:
		return false
	}
}
