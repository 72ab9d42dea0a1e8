package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// MetricsService computes read-only rollups over an inclusive date range
type MetricsService interface {
	// Compute covers from 00:00 through to 23:59:59.999 in the kitchen time zone
	Compute(ctx context.Context, from, to time.Time) (*entity.Metrics, error)

	// Export renders Compute's result with the configured exporter
	Export(ctx context.Context, from, to time.Time) ([]byte, string, error)
}

type metricsServiceImpl struct {
	orderRepo port.OrderRepository
	dishRepo  port.DishRepository
	exporter  port.MetricsExporter
	location  *time.Location
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(
	orderRepo port.OrderRepository,
	dishRepo port.DishRepository,
	exporter port.MetricsExporter,
	loc *time.Location,
) MetricsService {
	if loc == nil {
		loc = time.Local
	}
	return &metricsServiceImpl{
		orderRepo: orderRepo,
		dishRepo:  dishRepo,
		exporter:  exporter,
		location:  loc,
	}
}

func (s *metricsServiceImpl) Compute(ctx context.Context, from, to time.Time) (*entity.Metrics, error) {
	start := startOfDay(from, s.location)
	end := endOfDay(to, s.location)
	if end.Before(start) {
		return nil, invalidInput("metrics range ends before it starts")
	}

	orders, err := s.orderRepo.List(ctx, port.OrderFilter{CreatedFrom: start, CreatedTo: end})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	m := &entity.Metrics{
		From:           start,
		To:             end,
		OrdersByStatus: make(map[entity.OrderStatus]int, len(entity.OrderStatuses)),
		TotalAccount:   decimal.Zero,
		TotalTip:       decimal.Zero,
	}
	for _, status := range entity.OrderStatuses {
		m.OrdersByStatus[status] = 0
	}

	counted := make([]string, 0, len(orders))
	for _, o := range orders {
		m.OrdersByStatus[o.Status]++
		if o.Status == entity.OrderStatusCancelled {
			continue
		}
		counted = append(counted, o.ID)
		m.TotalAccount = m.TotalAccount.Add(o.Account)
		m.TotalTip = m.TotalTip.Add(o.Tip)
		m.TotalPeople += o.People
	}

	if len(counted) == 0 {
		return m, nil
	}

	dishes, err := s.dishRepo.List(ctx, port.DishFilter{OrderIDs: counted})
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	for _, d := range dishes {
		switch d.Type {
		case entity.DishTypeCompound:
			m.CompoundDishes++
		case entity.DishTypeSingle:
			m.SingleDishes++
		}
	}

	return m, nil
}

func (s *metricsServiceImpl) Export(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	if s.exporter == nil {
		return nil, "", fmt.Errorf("no metrics exporter configured")
	}

	m, err := s.Compute(ctx, from, to)
	if err != nil {
		return nil, "", err
	}

	data, err := s.exporter.Export(ctx, m)
	if err != nil {
		return nil, "", fmt.Errorf("failed to export metrics: %w", err)
	}
	return data, s.exporter.ContentType(), nil
}
