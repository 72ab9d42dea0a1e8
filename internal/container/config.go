// Package container wires stores, services, the event dispatcher and the
// HTTP server, and owns their startup and shutdown order.
package container

import (
	"fmt"
	"time"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
)

// Supported store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	Mongo    MongoConfig
	Server   ServerConfig
	Auth     AuthConfig
	Kitchen  KitchenConfig
	Tables   TablesConfig
	Events   EventsConfig
}

// DatabaseConfig selects and configures the store backend.
type DatabaseConfig struct {
	// Driver is one of sqlite, postgres or mongo
	Driver string

	// Path to the SQLite database file
	Path string

	// DSN is the Postgres connection string
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded SQL migrations when set
	MigrationsDir string
}

// MongoConfig holds MongoDB settings, used when Driver is mongo.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// AuthConfig holds token secrets.
type AuthConfig struct {
	// JWTSecret verifies staff bearer tokens
	JWTSecret string

	// PublicLinkSecret signs customer links; falls back to JWTSecret
	PublicLinkSecret string
	PublicLinkTTL    time.Duration
}

// KitchenConfig holds the kitchen day boundary and package complements.
type KitchenConfig struct {
	Location    *time.Location
	Complements service.ComplementNames
}

// TablesConfig holds the table universe size.
type TablesConfig struct {
	Count int
}

// EventsConfig controls publishing of domain events to RabbitMQ.
type EventsConfig struct {
	Enabled        bool
	RabbitMQURL    string
	Exchange       string
	PublishTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "data/restaurant.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Mongo: MongoConfig{
			Database:       "restaurant",
			ConnectTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			PublicLinkTTL: 24 * time.Hour,
		},
		Kitchen: KitchenConfig{
			Location:    time.Local,
			Complements: service.DefaultComplementNames,
		},
		Tables: TablesConfig{
			Count: service.DefaultTableCount,
		},
		Events: EventsConfig{
			Exchange:       "restaurant.events",
			PublishTimeout: 5 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required for mongo")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required for mongo")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Events.Enabled && c.Events.RabbitMQURL == "" {
		return fmt.Errorf("events.rabbitmq_url is required when events are enabled")
	}
	if c.Tables.Count < 0 {
		return fmt.Errorf("tables.count must not be negative")
	}
	return nil
}
