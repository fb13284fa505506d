package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"ledgerlens/internal/analysis"
	"ledgerlens/internal/ledger"
	"ledgerlens/pkg/contracts/domain"
)

// Exporter writes analysis results as CSV and Excel files under a
// single output directory.
type Exporter struct {
	logger *slog.Logger
	outDir string
}

// NewExporter creates an exporter rooted at outDir.
func NewExporter(logger *slog.Logger, outDir string) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger: logger.With(slog.String("component", "exporter")),
		outDir: outDir,
	}
}

// WriteRecordsCSV writes one sheet's retained records. Columns follow
// the preferred presentation order (date, description, vendor, debit,
// credit, then everything else in original order) while keeping every
// original header label unchanged.
func (e *Exporter) WriteRecordsCSV(ex domain.SheetExtract, roles domain.RoleSet, filename string) error {
	order := columnOrder(len(ex.Header), roles)

	header := make([]string, len(order))
	for i, col := range order {
		header[i] = ex.Header[col]
	}

	rows := make([][]string, 0, len(ex.Records))
	for _, rec := range ex.Records {
		row := make([]string, len(order))
		for i, col := range order {
			if col < len(rec) {
				row[i] = rec[col].String()
			}
		}
		rows = append(rows, row)
	}

	return e.writeCSV(filename, header, rows)
}

// WriteMonthlyCSV writes month buckets in chronological key order.
func (e *Exporter) WriteMonthlyCSV(monthly map[string]ledger.Bucket, filename string) error {
	keys := sortedKeys(monthly)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		b := monthly[k]
		rows = append(rows, []string{
			k,
			strconv.FormatFloat(b.DebitSum, 'f', -1, 64),
			strconv.FormatFloat(b.CreditSum, 'f', -1, 64),
			strconv.Itoa(b.Count),
		})
	}
	return e.writeCSV(filename, []string{"Month", "DebitSum", "CreditSum", "Count"}, rows)
}

// WriteSummaryCSV writes one row per sheet-month across the whole
// workbook analysis, including the classification tag. Unclassified
// sheets are excluded from classified flow but still listed with their
// raw sums.
func (e *Exporter) WriteSummaryCSV(result *analysis.WorkbookAnalysis, filename string) error {
	rows := make([][]string, 0)
	for _, sheet := range result.Sheets {
		if sheet.Empty() {
			continue
		}
		for _, month := range sortedKeys(sheet.Monthly) {
			b := sheet.Monthly[month]
			rows = append(rows, []string{
				sheet.SheetName,
				string(sheet.Classification),
				month,
				strconv.FormatFloat(b.DebitSum, 'f', -1, 64),
				strconv.FormatFloat(b.CreditSum, 'f', -1, 64),
				strconv.Itoa(b.Count),
			})
		}
	}
	return e.writeCSV(filename, []string{"Sheet", "Classification", "Month", "DebitSum", "CreditSum", "Count"}, rows)
}

// writeCSV writes a UTF-8 BOM prefixed CSV so Excel opens Korean text
// correctly.
func (e *Exporter) writeCSV(filename string, header []string, rows [][]string) error {
	path := filepath.Join(e.outDir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	e.logger.Info("csv written",
		slog.String("path", path),
		slog.Int("row_count", len(rows)))
	return w.Error()
}

// columnOrder yields column indices with resolved roles first in
// presentation order, then the remaining columns in original order.
func columnOrder(width int, roles domain.RoleSet) []int {
	order := make([]int, 0, width)
	used := make(map[int]bool, width)
	for _, role := range []domain.Role{roles.Date, roles.Description, roles.Vendor, roles.Debit, roles.Credit} {
		if role.Resolved() && role.Index < width && !used[role.Index] {
			order = append(order, role.Index)
			used[role.Index] = true
		}
	}
	for i := 0; i < width; i++ {
		if !used[i] {
			order = append(order, i)
		}
	}
	return order
}

func sortedKeys(m map[string]ledger.Bucket) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
