package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

type mockExporter struct {
	exportFunc func(ctx context.Context, m *entity.Metrics) ([]byte, error)
}

func (m *mockExporter) ContentType() string { return "text/plain" }

func (m *mockExporter) Export(ctx context.Context, metrics *entity.Metrics) ([]byte, error) {
	return m.exportFunc(ctx, metrics)
}

func seedMetrics(f *fixture, day time.Time) {
	add := func(id string, table int, status entity.OrderStatus, account, tip string, people int, created time.Time) {
		o := f.openOrder(id, table, status)
		o.Account = dec(account)
		o.Tip = dec(tip)
		o.People = people
		o.CreatedAt = created
		f.orders.put(o)
	}

	add("closed", 1, entity.OrderStatusClosed, "250", "25", 3, day.Add(13*time.Hour))
	add("open", 2, entity.OrderStatusOpen, "100", "0", 2, day.Add(20*time.Hour))
	add("cancelled", 3, entity.OrderStatusCancelled, "80", "0", 4, day.Add(14*time.Hour))
	add("other-day", 4, entity.OrderStatusClosed, "999", "99", 9, day.AddDate(0, 0, -1))

	f.addDish(&entity.Dish{ID: "c1", OrderID: "closed", Type: entity.DishTypeCompound})
	f.addDish(&entity.Dish{ID: "c1-fruit", OrderID: "closed", ComplementOfDishID: "c1"})
	f.addDish(&entity.Dish{ID: "c1-tea", OrderID: "closed", ComplementOfDishID: "c1"})
	f.addDish(&entity.Dish{ID: "s1", OrderID: "open"})
	f.addDish(&entity.Dish{ID: "x1", OrderID: "cancelled", Type: entity.DishTypeCompound})
	f.addDish(&entity.Dish{ID: "y1", OrderID: "other-day"})
}

func TestMetricsService_Compute(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	seedMetrics(f, day)

	svc := NewMetricsService(f.orders, f.dishes, nil, time.UTC)
	m, err := svc.Compute(context.Background(), day.Add(15*time.Hour), day.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, day, m.From)
	assert.Equal(t, day.AddDate(0, 0, 1).Add(-time.Millisecond), m.To)

	assert.Equal(t, 1, m.CompoundDishes)
	assert.Equal(t, 3, m.SingleDishes, "complements count as single dishes")

	assert.Equal(t, 1, m.OrdersByStatus[entity.OrderStatusClosed])
	assert.Equal(t, 1, m.OrdersByStatus[entity.OrderStatusOpen])
	assert.Equal(t, 1, m.OrdersByStatus[entity.OrderStatusCancelled])
	assert.Equal(t, 0, m.OrdersByStatus[entity.OrderStatusPaying])

	assert.True(t, dec("350").Equal(m.TotalAccount), "total %s", m.TotalAccount)
	assert.True(t, dec("25").Equal(m.TotalTip))
	assert.Equal(t, 5, m.TotalPeople)
}

func TestMetricsService_Compute_InvalidRange(t *testing.T) {
	f := newFixture(t)
	svc := NewMetricsService(f.orders, f.dishes, nil, time.UTC)

	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	_, err := svc.Compute(context.Background(), day, day.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMetricsService_Compute_Empty(t *testing.T) {
	f := newFixture(t)
	svc := NewMetricsService(f.orders, f.dishes, nil, time.UTC)

	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	m, err := svc.Compute(context.Background(), day, day)
	require.NoError(t, err)

	assert.Zero(t, m.SingleDishes)
	assert.Zero(t, m.CompoundDishes)
	assert.True(t, m.TotalAccount.IsZero())
	assert.Len(t, m.OrdersByStatus, len(entity.OrderStatuses))
}

func TestMetricsService_Export(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	seedMetrics(f, day)

	var seen *entity.Metrics
	exporter := &mockExporter{exportFunc: func(ctx context.Context, m *entity.Metrics) ([]byte, error) {
		seen = m
		return []byte("report"), nil
	}}

	svc := NewMetricsService(f.orders, f.dishes, exporter, time.UTC)
	data, contentType, err := svc.Export(context.Background(), day, day)
	require.NoError(t, err)

	assert.Equal(t, []byte("report"), data)
	assert.Equal(t, "text/plain", contentType)
	require.NotNil(t, seen)
	assert.Equal(t, 1, seen.CompoundDishes)
}

func TestMetricsService_Export_Errors(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	_, _, err := NewMetricsService(f.orders, f.dishes, nil, time.UTC).Export(context.Background(), day, day)
	assert.Error(t, err)

	failing := &mockExporter{exportFunc: func(ctx context.Context, m *entity.Metrics) ([]byte, error) {
		return nil, errors.New("disk full")
	}}
	_, _, err = NewMetricsService(f.orders, f.dishes, failing, time.UTC).Export(context.Background(), day, day)
	assert.ErrorContains(t, err, "disk full")
}
