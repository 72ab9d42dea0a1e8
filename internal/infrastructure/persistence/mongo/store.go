// Package mongo stores orders, dishes and the menu as MongoDB documents.
// It has no multi-document transactions; TxManager runs work sequentially.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
)

const (
	ordersCollection   = "orders"
	dishesCollection   = "dishes"
	dishLogsCollection = "dish_logs"
	menuCollection     = "menu_items"
)

// Config holds connection settings
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store owns the client and hands out collections
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect dials MongoDB and verifies the connection with a ping
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("MongoDB connection established", zap.String("database", cfg.Database))
	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	s.logger.Info("Closing MongoDB connection")
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes and the one-active-order-per-table rule
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		ordersCollection: {
			{
				Keys: bson.D{{Key: "table", Value: 1}},
				Options: options.Index().
					SetName("uniq_active_table").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "waiter_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		dishesCollection: {
			{Keys: bson.D{{Key: "order_id", Value: 1}}},
			{Keys: bson.D{{Key: "complement_of_dish_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "kitchen_index", Value: 1}}},
		},
		dishLogsCollection: {
			{Keys: bson.D{{Key: "dish_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		menuCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// TxManager implements port.TransactionManager without isolation
type TxManager struct{}

// WithTransaction runs fn directly
func (TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s out of range: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	big, exp, err := v.BigInt()
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount: %w", err)
	}
	return decimal.NewFromBigInt(big, int32(exp)), nil
}

var _ port.TransactionManager = TxManager{}
