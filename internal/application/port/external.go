package port

import (
	"context"
	"errors"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
)

// ErrInvalidLink is returned by PublicLinkCodec.Decode for any token that does
// not resolve to an order id
var ErrInvalidLink = errors.New("invalid public link")

// PublicLinkCodec maps order ids to tokens that can be shared with customers
type PublicLinkCodec interface {
	Encode(orderID string) (string, error)
	Decode(token string) (string, error)
}

// EventSink publishes domain events outside the process
type EventSink interface {
	Publish(ctx context.Context, evt *event.Event) error
	Close() error
}

// MetricsExporter renders a metrics rollup into a downloadable document
type MetricsExporter interface {
	ContentType() string
	Export(ctx context.Context, m *entity.Metrics) ([]byte, error)
}
