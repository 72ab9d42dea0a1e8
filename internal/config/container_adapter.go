package config

import (
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/container"
)

// ToContainerConfig converts the file-based Config into the container's
// configuration. Validate must have passed.
func (c *Config) ToContainerConfig() (*container.Config, error) {
	loc, err := c.Kitchen.Location()
	if err != nil {
		return nil, err
	}

	return &container.Config{
		Database: container.DatabaseConfig{
			Driver:          c.Database.Driver,
			Path:            c.Database.Path,
			DSN:             c.Database.DSN,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Mongo: container.MongoConfig{
			URI:            c.Mongo.URI,
			Database:       c.Mongo.Database,
			ConnectTimeout: c.Mongo.ConnectTimeout,
		},
		Server: container.ServerConfig{
			Host:           c.Server.Host,
			Port:           c.Server.Port,
			ReadTimeout:    c.Server.ReadTimeout,
			WriteTimeout:   c.Server.WriteTimeout,
			RequestTimeout: c.Server.RequestTimeout,
		},
		Auth: container.AuthConfig{
			JWTSecret:        c.Auth.JWTSecret,
			PublicLinkSecret: c.Auth.PublicLinkSecret,
			PublicLinkTTL:    c.Auth.PublicLinkTTL,
		},
		Kitchen: container.KitchenConfig{
			Location: loc,
			Complements: service.ComplementNames{
				Coffee: c.Kitchen.CoffeeItem,
				Tea:    c.Kitchen.TeaItem,
				Fruit:  c.Kitchen.FruitItem,
			},
		},
		Tables: container.TablesConfig{
			Count: c.Tables.Count,
		},
		Events: container.EventsConfig{
			Enabled:        c.Events.Enabled,
			RabbitMQURL:    c.Events.RabbitMQURL,
			Exchange:       c.Events.Exchange,
			PublishTimeout: c.Events.PublishTimeout,
		},
	}, nil
}
