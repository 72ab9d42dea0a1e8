package dispatcher

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
)

const (
	defaultLanes     = 4
	defaultLaneDepth = 256
)

// Dispatcher routes order and dish events to registered handlers
type Dispatcher interface {
	// Subscribe registers a handler for an event type, a category such as
	// OrderEvents, or AllEvents
	Subscribe(eventType event.Type, name string, handler Handler)

	// Unsubscribe removes a handler by name
	Unsubscribe(eventType event.Type, name string)

	// Dispatch sends event to all registered handlers synchronously.
	// Returns first error encountered (handlers run in order)
	Dispatch(ctx context.Context, evt *event.Event) error

	// DispatchAsync queues the event without waiting for its handlers.
	// Events of the same order are handled in the order they were queued.
	// Handlers keep running after the caller's context is cancelled.
	DispatchAsync(ctx context.Context, evt *event.Event)

	// ListHandlers returns registered handlers for an event type
	ListHandlers(eventType event.Type) []HandlerInfo

	// Close stops accepting events and drains the queued ones
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type asyncJob struct {
	ctx      context.Context
	evt      *event.Event
	handlers []HandlerInfo
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   Logger

	laneCount int
	laneDepth int
	startOnce sync.Once
	lanesMu   sync.RWMutex
	lanes     []chan asyncJob
	wg        sync.WaitGroup
	closed    atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// WithLanes sets how many workers handle async events. Each order is pinned
// to one lane.
func WithLanes(n int) Option {
	return func(d *eventDispatcher) {
		if n > 0 {
			d.laneCount = n
		}
	}
}

// WithLaneDepth sets how many events a lane buffers before DispatchAsync blocks
func WithLaneDepth(n int) Option {
	return func(d *eventDispatcher) {
		if n >= 0 {
			d.laneDepth = n
		}
	}
}

// NewDispatcher creates a new event dispatcher. Async workers start on the
// first DispatchAsync.
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers:  make(map[event.Type][]HandlerInfo),
		laneCount: defaultLanes,
		laneDepth: defaultLaneDepth,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("handler-%d", len(d.handlers[eventType]))
	}

	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})

	if d.logger != nil {
		d.logger.Info("Handler registered",
			"event_type", eventType,
			"handler_name", name,
		)
	}
}

func (d *eventDispatcher) Unsubscribe(eventType event.Type, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	handlers := d.handlers[eventType]
	filtered := make([]HandlerInfo, 0, len(handlers))
	for _, h := range handlers {
		if h.Name != name {
			filtered = append(filtered, h)
		}
	}
	d.handlers[eventType] = filtered
}

// handlersFor returns type handlers, then category handlers, then AllEvents handlers
func (d *eventDispatcher) handlersFor(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	specific := d.handlers[eventType]
	var category []HandlerInfo
	if c := categoryOf(eventType); c != "" {
		category = d.handlers[c]
	}
	wildcard := d.handlers[AllEvents]

	result := make([]HandlerInfo, 0, len(specific)+len(category)+len(wildcard))
	result = append(result, specific...)
	result = append(result, category...)
	return append(result, wildcard...)
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return fmt.Errorf("dispatcher is closed")
	}

	for _, info := range d.handlersFor(evt.Type) {
		if err := d.safeExecute(ctx, evt, info); err != nil {
			d.logHandlerError("Handler error", evt, info, err)
			return fmt.Errorf("handler %s failed: %w", info.Name, err)
		}
	}

	return nil
}

func (d *eventDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	if d.closed.Load() {
		d.logDropped(evt)
		return
	}

	handlers := d.handlersFor(evt.Type)
	if len(handlers) == 0 {
		return
	}

	d.startOnce.Do(d.startLanes)

	d.lanesMu.RLock()
	defer d.lanesMu.RUnlock()
	if d.closed.Load() {
		d.logDropped(evt)
		return
	}

	d.lanes[d.laneFor(evt)] <- asyncJob{
		ctx:      context.WithoutCancel(ctx),
		evt:      evt,
		handlers: handlers,
	}
}

func (d *eventDispatcher) startLanes() {
	d.lanes = make([]chan asyncJob, d.laneCount)
	for i := range d.lanes {
		d.lanes[i] = make(chan asyncJob, d.laneDepth)
		d.wg.Add(1)
		go d.runLane(d.lanes[i])
	}
}

// laneFor pins an order's events to one lane
func (d *eventDispatcher) laneFor(evt *event.Event) int {
	key := evt.OrderID
	if key == "" {
		key = evt.ID
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.lanes)))
}

func (d *eventDispatcher) runLane(jobs <-chan asyncJob) {
	defer d.wg.Done()

	for job := range jobs {
		for _, info := range job.handlers {
			if err := d.safeExecute(job.ctx, job.evt, info); err != nil {
				d.logHandlerError("Async handler error", job.evt, info, err)
			}
		}
	}
}

func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handlers := d.handlers[eventType]
	result := make([]HandlerInfo, len(handlers))
	for i, h := range handlers {
		result[i] = HandlerInfo{Name: h.Name, EventType: h.EventType}
	}

	return result
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}

	// lanes either exist now or never will
	d.startOnce.Do(func() {})

	d.lanesMu.Lock()
	for _, lane := range d.lanes {
		close(lane)
	}
	d.lanesMu.Unlock()

	d.wg.Wait()

	if d.logger != nil {
		d.logger.Info("Dispatcher closed")
	}

	return nil
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
			if d.logger != nil {
				d.logger.Error("Handler panic recovered",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", info.Name,
					"panic", r,
				)
			}
		}
	}()

	return info.Handler(ctx, evt)
}

func (d *eventDispatcher) logHandlerError(msg string, evt *event.Event, info HandlerInfo, err error) {
	if d.logger == nil {
		return
	}
	d.logger.Error(msg,
		"event_type", evt.Type,
		"event_id", evt.ID,
		"order_id", evt.OrderID,
		"handler_name", info.Name,
		"error", err,
	)
}

func (d *eventDispatcher) logDropped(evt *event.Event) {
	if d.logger == nil {
		return
	}
	d.logger.Error("Cannot dispatch async event, dispatcher is closed",
		"event_type", evt.Type,
		"event_id", evt.ID,
		"order_id", evt.OrderID,
	)
}
