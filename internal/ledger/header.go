package ledger

import (
	"strings"

	"ledgerlens/pkg/contracts/domain"
)

const (
	// headerScanLimit bounds how deep into a sheet the locator looks.
	headerScanLimit = 20
	// dateLookahead is how many rows below a keyword candidate are
	// checked for a parseable date before the candidate is accepted.
	dateLookahead = 5
	// minLedgerKeywordHits is the number of distinct ledger-column
	// keywords a candidate row must mention.
	minLedgerKeywordHits = 2
)

// HeaderLocator finds the column-header row of a raw sheet grid.
// Ledger exports place the header anywhere within the first rows,
// below document titles, account names and print metadata, so three
// strategies are tried in order: keyword match confirmed by a dated
// data row below it, keyword match alone, and finally the densest row.
type HeaderLocator struct {
	vocab Vocabulary
	year  int
}

// NewHeaderLocator returns a locator using the given vocabulary. The
// year anchors short "MM-DD" dates during lookahead validation.
func NewHeaderLocator(vocab Vocabulary, year int) *HeaderLocator {
	return &HeaderLocator{vocab: vocab, year: year}
}

// Locate returns the header row index, or false when no row qualifies
// under any strategy. A sheet without a locatable header yields empty
// data downstream; it is not an error.
func (l *HeaderLocator) Locate(g domain.Grid) (int, bool) {
	limit := len(g)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	// Keyword candidate confirmed by a dated row below it.
	for i := 0; i < limit; i++ {
		if nonEmptyCells(g[i]) < 3 || !l.keywordCandidate(g[i]) {
			continue
		}
		for j := i + 1; j <= i+dateLookahead && j < len(g); j++ {
			if len(g[j]) == 0 {
				continue
			}
			if _, ok := NormalizeDate(g[j][0], l.year); ok {
				return i, true
			}
		}
	}

	// Relaxed: keyword candidate followed by any non-empty row.
	for i := 0; i < limit; i++ {
		if nonEmptyCells(g[i]) < 2 || !l.keywordCandidate(g[i]) {
			continue
		}
		if i+1 < len(g) && nonEmptyCells(g[i+1]) > 0 {
			return i, true
		}
	}

	// Structural fallback: densest row wins, document-title rows are
	// never chosen. Strict comparison keeps the first row on ties.
	best, bestCount := -1, 0
	for i := 0; i < limit; i++ {
		if l.documentTitleRow(g[i]) {
			continue
		}
		if n := nonEmptyCells(g[i]); n >= 3 && n > bestCount {
			best, bestCount = i, n
		}
	}
	if best >= 0 {
		return best, true
	}
	return -1, false
}

// keywordCandidate reports whether the row's concatenated folded text
// mentions at least one date keyword and two distinct ledger-column
// keywords.
func (l *HeaderLocator) keywordCandidate(row []domain.Cell) bool {
	var sb strings.Builder
	for _, c := range row {
		sb.WriteString(c.String())
	}
	folded := foldText(sb.String())
	if !containsAny(folded, l.vocab.DateColumns) {
		return false
	}
	hits := 0
	for _, kw := range l.vocab.LedgerColumns {
		if strings.Contains(folded, foldText(kw)) {
			hits++
			if hits >= minLedgerKeywordHits {
				return true
			}
		}
	}
	return false
}

// documentTitleRow reports whether the row's single non-empty cell is a
// known document title (e.g. the ledger report name printed above the
// table).
func (l *HeaderLocator) documentTitleRow(row []domain.Cell) bool {
	var only string
	count := 0
	for _, c := range row {
		if c.IsEmpty() {
			continue
		}
		count++
		if count > 1 {
			return false
		}
		only = c.String()
	}
	return count == 1 && containsAny(foldText(only), l.vocab.DocumentTitles)
}

func nonEmptyCells(row []domain.Cell) int {
	n := 0
	for _, c := range row {
		if !c.IsEmpty() {
			n++
		}
	}
	return n
}
