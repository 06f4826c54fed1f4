// Package report writes the per-cluster code rows to their output forms:
// a combined CSV, a styled XLSX workbook, and one plain-text code list per
// cluster. It knows nothing about how the rows were computed.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/ehealthkit/snoclose/internal/closure"
)

// Header is the column header shared by the CSV and XLSX outputs.
var Header = []string{"Cluster ID", "Concept ID", "Term"}

// utf8BOM makes spreadsheet tools detect the encoding when they open the
// CSV directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes all rows to a single CSV file with a UTF-8 BOM and the
// standard header.
func WriteCSV(path string, rows []closure.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Cluster, string(row.Code), row.Term}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}

	slog.Info("csv file created", "path", path, "rows", len(rows))
	return nil
}
