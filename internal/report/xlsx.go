package report

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/ehealthkit/snoclose/internal/closure"
)

const sheetName = "Clusters"

// WriteXLSX writes all rows to a single-sheet workbook. The concept id
// column is forced to the text number format so spreadsheet applications
// do not mangle long codes into scientific notation, and the data range is
// wrapped in a striped table for filtering.
func WriteXLSX(path string, rows []closure.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []any{row.Cluster, string(row.Code), row.Term}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(rows) > 0 {
		// Number format 49 is "@" (text).
		textStyle, err := f.NewStyle(&excelize.Style{NumFmt: 49})
		if err != nil {
			return fmt.Errorf("create text style: %w", err)
		}
		last := len(rows) + 1
		if err := f.SetCellStyle(sheetName, "B2", fmt.Sprintf("B%d", last), textStyle); err != nil {
			return fmt.Errorf("style concept id column: %w", err)
		}

		stripes := true
		err = f.AddTable(sheetName, &excelize.Table{
			Range:          fmt.Sprintf("A1:C%d", last),
			Name:           "ClusterTable",
			StyleName:      "TableStyleMedium9",
			ShowRowStripes: &stripes,
		})
		if err != nil {
			return fmt.Errorf("add table: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}

	slog.Info("xlsx file created", "path", path, "rows", len(rows))
	return nil
}
