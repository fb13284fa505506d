package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ledgerlens/internal/analysis"
)

// WriteWorkbook re-exports the cleaned records of every non-empty sheet
// into a single workbook: one sheet per source sheet, header row first,
// noise rows already gone.
func (e *Exporter) WriteWorkbook(result *analysis.WorkbookAnalysis, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	wrote := 0
	for _, sheet := range result.Sheets {
		if sheet.Empty() {
			continue
		}
		name := sheet.SheetName
		// Sheet names are capped at 31 characters by the format.
		if len([]rune(name)) > 31 {
			name = string([]rune(name)[:31])
		}
		if wrote == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		wrote++

		order := columnOrder(len(sheet.Header), sheet.Roles)
		headerRow := make([]interface{}, len(order))
		for i, col := range order {
			headerRow[i] = sheet.Header[col]
		}
		if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}

		for r, rec := range sheet.Records {
			row := make([]interface{}, len(order))
			for i, col := range order {
				if col < len(rec) {
					row[i] = rec[col].String()
				}
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return fmt.Errorf("cell coordinates: %w", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("write record row %d: %w", r, err)
			}
		}
	}

	if wrote == 0 {
		return fmt.Errorf("workbook %s has no analyzable sheets to export", result.Workbook)
	}

	path := filepath.Join(e.outDir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	e.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("sheet_count", wrote))
	return nil
}
