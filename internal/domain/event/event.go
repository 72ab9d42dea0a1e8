package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event raised by the order and dish workflows
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	OrderID   string                 `json:"order_id"`
	DishID    string                 `json:"dish_id,omitempty"`
	ActorID   string                 `json:"actor_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewOrderEvent creates an event about an order
func NewOrderEvent(eventType Type, orderID, actorID string, payload map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		ActorID:   actorID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewDishEvent creates an event about a dish of an order
func NewDishEvent(eventType Type, orderID, dishID, actorID string, payload map[string]interface{}) *Event {
	evt := NewOrderEvent(eventType, orderID, actorID, payload)
	evt.DishID = dishID
	return evt
}

// WithPayload returns a copy of the event with an added payload entry
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	cp := *e
	cp.Payload = newPayload
	return &cp
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}
