package dispatcher

import (
	"context"
	"strings"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}

// Subscription keys beyond the concrete event types
const (
	AllEvents   event.Type = "*"
	OrderEvents event.Type = "order.*"
	DishEvents  event.Type = "dish.*"
)

// categoryOf maps "order.paid" to "order.*"
func categoryOf(t event.Type) event.Type {
	i := strings.IndexByte(string(t), '.')
	if i <= 0 {
		return ""
	}
	return t[:i+1] + "*"
}
