// Package report renders metrics rollups as spreadsheets
package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	summarySheet    = "Summary"
	statusSheet     = "Orders"
	dateLayout      = "2006-01-02"
)

// ExcelExporter implements port.MetricsExporter
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

func (e *ExcelExporter) ContentType() string {
	return xlsxContentType
}

// Export writes a summary sheet and an orders-by-status sheet
func (e *ExcelExporter) Export(ctx context.Context, m *entity.Metrics) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(statusSheet); err != nil {
		return nil, fmt.Errorf("failed to add orders sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	summary := [][]interface{}{
		{"Metric", "Value"},
		{"From", m.From.Format(dateLayout)},
		{"To", m.To.Format(dateLayout)},
		{"Single dishes", m.SingleDishes},
		{"Packages", m.CompoundDishes},
		{"Total account", m.TotalAccount.InexactFloat64()},
		{"Total tips", m.TotalTip.InexactFloat64()},
		{"Total people", m.TotalPeople},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}
	e.style(f, summarySheet, "A1", "B1", bold)
	e.style(f, summarySheet, "B6", "B7", money)

	statuses := [][]interface{}{{"Status", "Orders"}}
	for _, status := range entity.OrderStatuses {
		statuses = append(statuses, []interface{}{status.String(), m.OrdersByStatus[status]})
	}
	if err := writeRows(f, statusSheet, statuses); err != nil {
		return nil, err
	}
	e.style(f, statusSheet, "A1", "B1", bold)

	if err := f.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		e.logger.Warn("Failed to set column width", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Metrics exported",
		zap.String("from", m.From.Format(dateLayout)),
		zap.String("to", m.To.Format(dateLayout)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func (e *ExcelExporter) style(f *excelize.File, sheet, from, to string, style int) {
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		e.logger.Warn("Failed to set cell style",
			zap.String("sheet", sheet),
			zap.String("range", from+":"+to),
			zap.Error(err))
	}
}

var _ port.MetricsExporter = (*ExcelExporter)(nil)
