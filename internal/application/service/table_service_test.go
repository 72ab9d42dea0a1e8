package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

func TestTableService_AvailableTables(t *testing.T) {
	f := newFixture(t)
	f.openOrder("o1", 1, entity.OrderStatusOpen)
	f.openOrder("o2", 3, entity.OrderStatusPaying)
	f.openOrder("o3", 4, entity.OrderStatusClosed)
	f.openOrder("o4", 5, entity.OrderStatusCancelled)

	svc := NewTableService(f.orders, 5)
	free, err := svc.AvailableTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5}, free)
}

func TestTableService_DefaultCount(t *testing.T) {
	svc := NewTableService(newMockOrderRepo(), 0)

	free, err := svc.AvailableTables(context.Background())
	require.NoError(t, err)
	require.Len(t, free, DefaultTableCount)
	assert.Equal(t, 1, free[0])
	assert.Equal(t, DefaultTableCount, free[len(free)-1])
}
