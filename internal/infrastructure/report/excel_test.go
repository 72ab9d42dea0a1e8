package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

func TestExcelExporter_Export(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())
	assert.Contains(t, exporter.ContentType(), "spreadsheetml")

	m := &entity.Metrics{
		From:           time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC),
		SingleDishes:   12,
		CompoundDishes: 3,
		OrdersByStatus: map[entity.OrderStatus]int{
			entity.OrderStatusClosed:    7,
			entity.OrderStatusCancelled: 1,
		},
		TotalAccount: decimal.RequireFromString("1520.50"),
		TotalTip:     decimal.RequireFromString("150"),
		TotalPeople:  19,
	}

	data, err := exporter.Export(context.Background(), m)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Orders"}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "2026-05-01", cell("Summary", "B2"))
	assert.Equal(t, "2026-05-31", cell("Summary", "B3"))
	assert.Equal(t, "12", cell("Summary", "B4"))
	assert.Equal(t, "3", cell("Summary", "B5"))
	assert.Equal(t, "19", cell("Summary", "B8"))

	assert.Equal(t, "OPEN", cell("Orders", "A2"))
	assert.Equal(t, "0", cell("Orders", "B2"))
	assert.Equal(t, "CLOSED", cell("Orders", "A4"))
	assert.Equal(t, "7", cell("Orders", "B4"))
}

func TestExcelExporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExcelExporter(zap.NewNop()).Export(ctx, &entity.Metrics{})
	assert.ErrorIs(t, err, context.Canceled)
}
