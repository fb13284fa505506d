package workbook

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ledgerlens/pkg/contracts/domain"
)

// dateLayouts are the full-date renderings excelize produces for styled
// date cells. Short "MM-DD" forms are deliberately absent: those stay
// text cells and are interpreted later by the date normalizer.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"02-Jan-06",
}

// Loader materializes .xlsx workbooks into raw cell grids. It owns the
// only contact with the spreadsheet container format; everything
// downstream operates on domain.Grid.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "workbook_loader"))}
}

// Load opens the workbook at path and materializes every sheet.
func (l *Loader) Load(path string) (*domain.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return l.materialize(f, filepath.Base(path))
}

// LoadReader materializes a workbook from a stream, e.g. an HTTP upload.
func (l *Loader) LoadReader(r io.Reader, name string) (*domain.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()
	return l.materialize(f, name)
}

func (l *Loader) materialize(f *excelize.File, name string) (*domain.Workbook, error) {
	wb := &domain.Workbook{Name: name}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			// One unreadable sheet must not abort the workbook.
			l.logger.Warn("skipping unreadable sheet",
				slog.String("workbook", name),
				slog.String("sheet", sheetName),
				slog.String("error", err.Error()))
			continue
		}
		grid := make(domain.Grid, len(rows))
		for i, r := range rows {
			cells := make([]domain.Cell, len(r))
			for j, raw := range r {
				cells[j] = classifyCell(raw)
			}
			grid[i] = cells
		}
		wb.Sheets = append(wb.Sheets, domain.Sheet{Name: sheetName, Grid: grid})
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook %s contains no readable sheets", name)
	}
	l.logger.Info("workbook materialized",
		slog.String("workbook", name),
		slog.Int("sheet_count", len(wb.Sheets)))
	return wb, nil
}

// classifyCell types a formatted cell value: recognizable full dates
// become date cells, numeric values (with or without thousands
// separators) numeric cells, everything else text.
func classifyCell(raw string) domain.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.EmptyCell()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateCell(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
		}
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return domain.NumberCell(v)
	}
	return domain.TextCell(raw)
}
