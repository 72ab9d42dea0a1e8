package service

import (
	"context"
	"fmt"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// DefaultTableCount is the size of the dining room
const DefaultTableCount = 21

// TableService derives table availability from active orders
type TableService interface {
	// AvailableTables returns, ascending, every table in 1..count not held by
	// an OPEN or PAYING order
	AvailableTables(ctx context.Context) ([]int, error)
}

type tableServiceImpl struct {
	orderRepo port.OrderRepository
	count     int
}

// NewTableService creates a new TableService
func NewTableService(orderRepo port.OrderRepository, count int) TableService {
	if count <= 0 {
		count = DefaultTableCount
	}
	return &tableServiceImpl{orderRepo: orderRepo, count: count}
}

func (s *tableServiceImpl) AvailableTables(ctx context.Context) ([]int, error) {
	active, err := s.orderRepo.List(ctx, port.OrderFilter{Statuses: entity.ActiveOrderStatuses})
	if err != nil {
		return nil, fmt.Errorf("failed to list active orders: %w", err)
	}

	used := make(map[int]bool, len(active))
	for _, o := range active {
		used[o.Table] = true
	}

	free := make([]int, 0, s.count)
	for table := 1; table <= s.count; table++ {
		if !used[table] {
			free = append(free, table)
		}
	}
	return free, nil
}
