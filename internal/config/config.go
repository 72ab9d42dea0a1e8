package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Kitchen  KitchenConfig  `mapstructure:"kitchen"`
	Tables   TablesConfig   `mapstructure:"tables"`
	Events   EventsConfig   `mapstructure:"events"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres or mongo
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// AuthConfig holds token configuration
type AuthConfig struct {
	JWTSecret        string        `mapstructure:"jwt_secret"`
	PublicLinkSecret string        `mapstructure:"public_link_secret"`
	PublicLinkTTL    time.Duration `mapstructure:"public_link_ttl"`
}

// KitchenConfig holds kitchen day and package settings
type KitchenConfig struct {
	Timezone   string `mapstructure:"timezone"`
	CoffeeItem string `mapstructure:"coffee_item"`
	TeaItem    string `mapstructure:"tea_item"`
	FruitItem  string `mapstructure:"fruit_item"`
}

// TablesConfig holds dining room configuration
type TablesConfig struct {
	Count int `mapstructure:"count"`
}

// EventsConfig holds RabbitMQ publishing configuration
type EventsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RabbitMQURL    string        `mapstructure:"rabbitmq_url"`
	Exchange       string        `mapstructure:"exchange"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. Variables in
// a .env file next to the working directory are exported first; a missing
// config file falls back to defaults plus environment.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 15*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/restaurant.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("mongo.database", "restaurant")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)

	v.SetDefault("auth.public_link_ttl", 24*time.Hour)

	v.SetDefault("kitchen.timezone", "Local")
	v.SetDefault("kitchen.coffee_item", "Cafe de paquete")
	v.SetDefault("kitchen.tea_item", "Te de paquete")
	v.SetDefault("kitchen.fruit_item", "Fruta de paquete")

	v.SetDefault("tables.count", 21)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.exchange", "restaurant.events")
	v.SetDefault("events.publish_timeout", 5*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds secrets and connection strings to their conventional names
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("auth.public_link_secret", "PUBLIC_LINK_SECRET")
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN")
	_ = v.BindEnv("mongo.uri", "MONGODB_URI")
	_ = v.BindEnv("events.rabbitmq_url", "RABBITMQ_URL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "mongo":
	default:
		return fmt.Errorf("database.driver must be sqlite, postgres or mongo, got %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if _, err := c.Kitchen.Location(); err != nil {
		return err
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	return nil
}

// Location resolves the kitchen time zone
func (k KitchenConfig) Location() (*time.Location, error) {
	if k.Timezone == "" || k.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(k.Timezone)
	if err != nil {
		return nil, fmt.Errorf("kitchen.timezone %q: %w", k.Timezone, err)
	}
	return loc, nil
}
