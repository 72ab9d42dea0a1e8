package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/dispatcher"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/infrastructure/messaging/rabbitmq"
	mongostore "github.com/MiguelMtzP/crm-restaurant-backend/internal/infrastructure/persistence/mongo"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/infrastructure/persistence/postgres"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/infrastructure/persistence/sqlite"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/infrastructure/publiclink"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/infrastructure/report"
	"github.com/MiguelMtzP/crm-restaurant-backend/migrations"
	"github.com/MiguelMtzP/crm-restaurant-backend/pkg/database"
	"github.com/MiguelMtzP/crm-restaurant-backend/pkg/utils"
)

// MenuStore is the catalog plus its seeding writer
type MenuStore interface {
	port.MenuCatalog
	port.MenuWriter
}

// StoreBundle holds the repositories of one backend and its lifecycle hooks.
type StoreBundle struct {
	Driver    string
	Orders    port.OrderRepository
	Dishes    port.DishRepository
	DishLogs  port.DishLogRepository
	Menu      MenuStore
	TxManager port.TransactionManager

	Ping  func(ctx context.Context) error
	Close func() error
}

// ProvideStore opens the configured backend and applies its schema.
func ProvideStore(ctx context.Context, cfg *Config, logger *zap.Logger) (*StoreBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch cfg.Database.Driver {
	case DriverSQLite:
		return provideSQLite(&cfg.Database, logger)
	case DriverPostgres:
		return providePostgres(ctx, &cfg.Database, logger)
	case DriverMongo:
		return provideMongo(ctx, &cfg.Mongo, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func provideSQLite(cfg *DatabaseConfig, logger *zap.Logger) (*StoreBundle, error) {
	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(cfg.MigrationsDir)
	} else {
		err = migrator.RunMigrationsFS(migrations.FS, "sqlite")
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	txDB := sqlite.NewDB(db.DB, logger)
	return &StoreBundle{
		Driver:    DriverSQLite,
		Orders:    sqlite.NewOrderRepository(txDB, logger),
		Dishes:    sqlite.NewDishRepository(txDB, logger),
		DishLogs:  sqlite.NewDishLogRepository(txDB, logger),
		Menu:      sqlite.NewMenuRepository(txDB, logger),
		TxManager: txDB,
		Ping:      db.PingContext,
		Close:     db.Close,
	}, nil
}

func providePostgres(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*StoreBundle, error) {
	db, err := postgres.Open(ctx, postgres.Config{
		DSN:             cfg.DSN,
		MaxConns:        int32(cfg.MaxOpenConns),
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, migrations.FS, "postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &StoreBundle{
		Driver:    DriverPostgres,
		Orders:    postgres.NewOrderRepository(db, logger),
		Dishes:    postgres.NewDishRepository(db, logger),
		DishLogs:  postgres.NewDishLogRepository(db, logger),
		Menu:      postgres.NewMenuRepository(db, logger),
		TxManager: db,
		Ping:      db.Pool.Ping,
		Close:     db.Close,
	}, nil
}

func provideMongo(ctx context.Context, cfg *MongoConfig, logger *zap.Logger) (*StoreBundle, error) {
	store, err := mongostore.Connect(ctx, mongostore.Config{
		URI:            cfg.URI,
		Database:       cfg.Database,
		ConnectTimeout: cfg.ConnectTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	return &StoreBundle{
		Driver:    DriverMongo,
		Orders:    mongostore.NewOrderRepository(store, logger),
		Dishes:    mongostore.NewDishRepository(store, logger),
		DishLogs:  mongostore.NewDishLogRepository(store, logger),
		Menu:      mongostore.NewMenuRepository(store, logger),
		TxManager: mongostore.TxManager{},
		Ping:      store.Ping,
		Close:     func() error { return store.Close(context.Background()) },
	}, nil
}

// ProvideDispatcher creates the event dispatcher and subscribes the event log.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	d := dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewSugarAdapter(logger)))
	d.Subscribe(dispatcher.AllEvents, "event_log", eventLogHandler(logger))
	return d, nil
}

// ProvideEventSink connects the RabbitMQ publisher and subscribes it to every
// event. Returns nil when publishing is disabled.
func ProvideEventSink(cfg *EventsConfig, d dispatcher.Dispatcher, logger *zap.Logger) (port.EventSink, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if d == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	publisher, err := rabbitmq.Dial(rabbitmq.Config{
		URL:            cfg.RabbitMQURL,
		Exchange:       cfg.Exchange,
		PublishTimeout: cfg.PublishTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	d.Subscribe(dispatcher.AllEvents, "rabbitmq", publisher.Publish)
	return publisher, nil
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Store      *StoreBundle
	Dispatcher dispatcher.Dispatcher
	Links      port.PublicLinkCodec
	Kitchen    *KitchenConfig
	Tables     *TablesConfig
	Logger     *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Links == nil {
		return nil, fmt.Errorf("public link codec is required")
	}
	if deps.Kitchen == nil || deps.Tables == nil {
		return nil, fmt.Errorf("kitchen and tables config are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := utils.NewSugarAdapter(deps.Logger)
	store := deps.Store

	var events service.EventPublisher
	if deps.Dispatcher != nil {
		events = deps.Dispatcher
	}

	billing := service.NewBillingService(store.Orders, store.Dishes, events, serviceLogger)
	sequencer := service.NewKitchenSequencer(store.Dishes, deps.Kitchen.Location)
	complements := service.NewComplementGenerator(store.Menu, deps.Kitchen.Complements, serviceLogger)

	return &ServiceBundle{
		Billing: billing,
		Order: service.NewOrderService(
			store.Orders,
			store.Dishes,
			billing,
			deps.Links,
			store.TxManager,
			events,
			serviceLogger,
		),
		Dish: service.NewDishService(
			store.Dishes,
			store.DishLogs,
			store.Orders,
			store.Menu,
			billing,
			sequencer,
			complements,
			store.TxManager,
			events,
			serviceLogger,
		),
		Table: service.NewTableService(store.Orders, deps.Tables.Count),
		Metrics: service.NewMetricsService(
			store.Orders,
			store.Dishes,
			report.NewExcelExporter(deps.Logger),
			deps.Kitchen.Location,
		),
	}, nil
}

// ProvidePublicLinks creates the public link codec.
func ProvidePublicLinks(cfg *AuthConfig) (port.PublicLinkCodec, error) {
	secret := cfg.PublicLinkSecret
	if secret == "" {
		secret = cfg.JWTSecret
	}
	return publiclink.NewCodec(secret, cfg.PublicLinkTTL)
}

// eventLogHandler writes every domain event to the application log
func eventLogHandler(logger *zap.Logger) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		logger.Info("Domain event",
			zap.String("event_type", evt.Type.String()),
			zap.String("event_id", evt.ID),
			zap.String("order_id", evt.OrderID),
			zap.String("dish_id", evt.DishID),
			zap.String("actor_id", evt.ActorID))
		return nil
	}
}
