package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/dispatcher"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
)

// Container owns the store, the event pipeline and the restaurant services.
// Start builds them store first; Close releases them in the opposite order.
type Container struct {
	config *Config
	logger *zap.Logger

	store      *StoreBundle
	dispatcher dispatcher.Dispatcher
	sink       port.EventSink
	links      port.PublicLinkCodec
	services   *ServiceBundle

	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// ServiceBundle is what the transport layer needs from the container.
type ServiceBundle struct {
	Order   service.OrderService
	Dish    service.DishService
	Billing service.BillingService
	Table   service.TableService
	Metrics service.MetricsService
}

// HealthStatus is the per-component result of Health.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth describes one backing component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer validates cfg. Nothing is opened until Start.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Store and repositories
// 2. Event dispatcher and optional RabbitMQ sink
// 3. Application services
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization", zap.String("driver", c.config.Database.Driver))

	store, err := ProvideStore(ctx, c.config, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	c.store = store
	c.logger.Info("Store initialized")

	if err := c.initEvents(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize events: %w", err)
	}
	c.logger.Info("Event dispatcher initialized", zap.Bool("rabbitmq", c.sink != nil))

	if err := c.initServices(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

func (c *Container) initEvents() error {
	d, err := ProvideDispatcher(c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = d

	sink, err := ProvideEventSink(&c.config.Events, d, c.logger)
	if err != nil {
		return err
	}
	c.sink = sink
	return nil
}

func (c *Container) initServices() error {
	links, err := ProvidePublicLinks(&c.config.Auth)
	if err != nil {
		return err
	}
	c.links = links

	services, err := ProvideServices(&ServiceDeps{
		Store:      c.store,
		Dispatcher: c.dispatcher,
		Links:      links,
		Kitchen:    &c.config.Kitchen,
		Tables:     &c.config.Tables,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	return nil
}

// Close drains pending events and releases the store. A closed container
// cannot be restarted.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	errs := c.teardown()

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors: %w", len(errs), errs[0])
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// teardown drains the dispatcher before closing the sink it feeds, then the store
func (c *Container) teardown() []error {
	var errs []error

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
		c.dispatcher = nil
	}

	if c.sink != nil {
		if err := c.sink.Close(); err != nil {
			c.logger.Error("Failed to close event sink", zap.Error(err))
			errs = append(errs, fmt.Errorf("close event sink: %w", err))
		}
		c.sink = nil
	}

	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logger.Error("Failed to close store", zap.Error(err))
			errs = append(errs, fmt.Errorf("close store: %w", err))
		} else {
			c.logger.Info("Store closed")
		}
		c.store = nil
	}
	return errs
}

// Ready reports whether Start completed and Close has not run.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health pings the store and reports the event pipeline.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.store == nil {
		status.Components["database"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := c.store.Ping(pingCtx); err != nil {
			status.Components["database"] = ComponentHealth{Healthy: false, Message: fmt.Sprintf("ping failed: %v", err)}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true, Message: c.store.Driver}
		}
	}

	if c.dispatcher != nil {
		status.Components["dispatcher"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["dispatcher"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	if c.config.Events.Enabled {
		status.Components["rabbitmq"] = ComponentHealth{Healthy: c.sink != nil}
		if c.sink == nil {
			status.Overall = false
		}
	}

	return status
}

// Store returns the repositories of the configured backend.
func (c *Container) Store() *StoreBundle {
	return c.store
}

func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

func (c *Container) Services() *ServiceBundle {
	return c.services
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

func (c *Container) Config() *Config {
	return c.config
}
