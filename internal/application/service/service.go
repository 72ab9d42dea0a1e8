package service

import (
	"context"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// EventPublisher receives domain events after a mutation is persisted
type EventPublisher interface {
	DispatchAsync(ctx context.Context, evt *event.Event)
}

func publish(ctx context.Context, events EventPublisher, evt *event.Event) {
	if events == nil {
		return
	}
	events.DispatchAsync(ctx, evt)
}
