package audit

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"ID", "Restaurant", "Date", "Time", "Party", "Outcome", "Event ID", "Created At"}

// ExportExcel writes the audit entries for a restaurant (or all, for an
// empty slug) as an xlsx workbook.
func (l *Log) ExportExcel(ctx context.Context, restaurant string, w io.Writer) error {
	entries, err := l.Entries(ctx, restaurant, 0)
	if err != nil {
		return fmt.Errorf("load audit entries: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Bookings"
	file.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	// Bold header row.
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = file.SetCellStyle(sheet, startCell, endCell, style)
	}

	for rowIdx, e := range entries {
		values := []interface{}{
			e.ID, e.Restaurant, e.Date, e.Time, e.Party, e.Outcome, e.EventID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	return file.Write(w)
}
