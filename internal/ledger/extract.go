package ledger

import (
	"fmt"
	"strings"

	"ledgerlens/pkg/contracts/domain"
)

// Extractor turns the rows below a located header into ledger records,
// filtering out subtotal markers, repeated header artifacts and blank
// rows, then normalizing the date column in place.
type Extractor struct {
	vocab Vocabulary
	year  int
}

// NewExtractor returns an extractor using the given vocabulary. The
// year anchors short "MM-DD" dates.
func NewExtractor(vocab Vocabulary, year int) *Extractor {
	return &Extractor{vocab: vocab, year: year}
}

// Extract builds the SheetExtract for one sheet. headerIdx is the row
// chosen by the HeaderLocator; the same header is used for the whole
// sheet. Passing a negative headerIdx yields an empty extract.
func (e *Extractor) Extract(sheetName string, g domain.Grid, headerIdx int) domain.SheetExtract {
	out := domain.SheetExtract{SheetName: sheetName, HeaderRow: headerIdx}
	if headerIdx < 0 || headerIdx >= len(g) {
		out.HeaderRow = -1
		return out
	}

	out.Header = headerLabels(g[headerIdx])
	dateIdx := firstLabelMatch(out.Header, e.vocab.DateColumns)

	for i := headerIdx + 1; i < len(g); i++ {
		rec := paddedRecord(g[i], len(out.Header))
		if e.noiseRow(rec) {
			continue
		}
		if dateIdx >= 0 && e.repeatedHeaderRow(rec, out.Header, dateIdx) {
			continue
		}
		if blankRow(rec) {
			continue
		}
		out.Records = append(out.Records, rec)
	}

	// Replace parseable date cells with their normalized dates. Rows
	// whose date fails to parse are kept with the raw value untouched.
	if dateIdx >= 0 {
		for _, rec := range out.Records {
			if t, ok := NormalizeDate(rec[dateIdx], e.year); ok {
				rec[dateIdx] = domain.DateCell(t)
			}
		}
	}

	return out
}

// headerLabels trims the chosen row's cell texts; unlabeled columns get
// generated placeholder names so records stay dense for export.
func headerLabels(row []domain.Cell) []string {
	labels := make([]string, len(row))
	for i, c := range row {
		label := strings.TrimSpace(c.String())
		if label == "" {
			label = fmt.Sprintf("Column%d", i+1)
		}
		labels[i] = label
	}
	return labels
}

// paddedRecord aligns a grid row to the header width. Missing trailing
// cells become empty text cells, not nulls, to keep columns dense.
func paddedRecord(row []domain.Cell, width int) domain.Record {
	rec := make(domain.Record, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			rec[i] = row[i]
		} else {
			rec[i] = domain.TextCell("")
		}
	}
	return rec
}

// noiseRow reports whether the row is a subtotal or carry-forward
// marker. Brackets around the first non-empty cell flag it, and the
// explicit marker list catches variants that omit the brackets.
func (e *Extractor) noiseRow(rec domain.Record) bool {
	for _, c := range rec {
		if c.IsEmpty() {
			continue
		}
		t := c.String()
		if strings.Contains(t, "[") && strings.Contains(t, "]") {
			return true
		}
		return containsAny(foldText(t), e.vocab.NoiseMarkers)
	}
	return false
}

// repeatedHeaderRow reports whether the date column repeats the header
// label, an artifact of multi-page exports injecting the header between
// pages.
func (e *Extractor) repeatedHeaderRow(rec domain.Record, header []string, dateIdx int) bool {
	v := strings.TrimSpace(rec[dateIdx].String())
	if v == "" {
		return false
	}
	folded := foldText(v)
	return folded == foldText(header[dateIdx]) || matchesAnyExact(folded, e.vocab.DateColumns)
}

// blankRow reports whether every cell is empty, "0" or "-" after
// trimming.
func blankRow(rec domain.Record) bool {
	for _, c := range rec {
		if c.IsEmpty() {
			continue
		}
		switch strings.TrimSpace(c.String()) {
		case "", "0", "-":
		default:
			return false
		}
	}
	return true
}
