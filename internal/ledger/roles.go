package ledger

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"ledgerlens/pkg/contracts/domain"
)

// defaultSampleRows bounds how many records the magnitude fallback
// scans; amount columns dominate numeric mass well before this.
const defaultSampleRows = 1000

// codePrefixRe strips a leading numeric account-code prefix from a
// folded header label ("101.일자" and "일자" must match the same way).
var codePrefixRe = regexp.MustCompile(`^[0-9]+[.)_-]*`)

// amountCleaner removes thousands separators and currency decoration
// before numeric parsing.
var amountCleaner = strings.NewReplacer(",", "", " ", "", "₩", "", "원", "")

// RoleResolver maps header labels (and, when labels fail, the numeric
// data itself) to the semantic column roles of a ledger sheet.
type RoleResolver struct {
	vocab      Vocabulary
	sampleRows int
}

// NewRoleResolver returns a resolver using the given vocabulary.
func NewRoleResolver(vocab Vocabulary) *RoleResolver {
	return &RoleResolver{vocab: vocab, sampleRows: defaultSampleRows}
}

// Resolve derives the RoleSet for a sheet from its header labels and a
// sample of its records. Roles that cannot be resolved stay absent;
// dependent aggregations then contribute nothing for this sheet.
func (r *RoleResolver) Resolve(header []string, records []domain.Record) domain.RoleSet {
	folded := make([]string, len(header))
	for i, label := range header {
		folded[i] = codePrefixRe.ReplaceAllString(foldText(label), "")
	}

	dateIdx := firstFoldedMatch(folded, r.vocab.DateColumns)
	vendorIdx := firstFoldedMatch(folded, r.vocab.VendorColumns)
	descIdx := firstFoldedMatch(folded, r.vocab.DescriptionColumns)

	debitIdx := r.matchAmountColumn(folded, r.vocab.DebitColumns, -1)
	creditIdx := r.matchAmountColumn(folded, r.vocab.CreditColumns, debitIdx)

	// Magnitude fallback: when a keyword match failed (blank or
	// unrecognizable header text), the column with the largest
	// accumulated absolute numeric sum takes the unresolved role.
	if debitIdx < 0 || creditIdx < 0 {
		sums := r.columnMagnitudes(folded, records, dateIdx, vendorIdx, descIdx)
		if debitIdx < 0 {
			debitIdx = largestColumn(sums, creditIdx)
		}
		if creditIdx < 0 {
			creditIdx = largestColumn(sums, debitIdx)
		}
	}

	// A balance column must never hold an amount role; re-resolve with
	// the balance keywords excluded if one slipped through.
	if debitIdx >= 0 && containsAny(folded[debitIdx], r.vocab.BalanceColumns) {
		debitIdx = r.matchAmountColumn(folded, r.vocab.DebitColumns, creditIdx)
	}
	if creditIdx >= 0 && containsAny(folded[creditIdx], r.vocab.BalanceColumns) {
		creditIdx = r.matchAmountColumn(folded, r.vocab.CreditColumns, debitIdx)
	}

	return domain.RoleSet{
		Date:        roleAt(header, dateIdx),
		Debit:       roleAt(header, debitIdx),
		Credit:      roleAt(header, creditIdx),
		Vendor:      roleAt(header, vendorIdx),
		Description: roleAt(header, descIdx),
	}
}

// matchAmountColumn finds the debit or credit column by exact keyword
// match first, then substring match. Labels containing a balance
// keyword and the column already holding the other amount role are
// never eligible.
func (r *RoleResolver) matchAmountColumn(folded []string, keywords []string, takenIdx int) int {
	for _, kw := range keywords {
		fkw := foldText(kw)
		for i, label := range folded {
			if i == takenIdx || containsAny(label, r.vocab.BalanceColumns) {
				continue
			}
			if label == fkw {
				return i
			}
		}
	}
	for _, kw := range keywords {
		fkw := foldText(kw)
		for i, label := range folded {
			if i == takenIdx || containsAny(label, r.vocab.BalanceColumns) {
				continue
			}
			if strings.Contains(label, fkw) {
				return i
			}
		}
	}
	return -1
}

// columnMagnitudes sums the absolute numeric value of every column
// still eligible for an amount role, over a bounded record sample.
// Ineligible columns are marked NaN.
func (r *RoleResolver) columnMagnitudes(folded []string, records []domain.Record, reserved ...int) []float64 {
	sums := make([]float64, len(folded))
	taken := make(map[int]bool, len(reserved))
	for _, idx := range reserved {
		if idx >= 0 {
			taken[idx] = true
		}
	}
	for i, label := range folded {
		if taken[i] ||
			containsAny(label, r.vocab.BalanceColumns) ||
			containsAny(label, r.vocab.DescriptionColumns) ||
			containsAny(label, r.vocab.VendorColumns) ||
			containsAny(label, r.vocab.CodeColumns) {
			sums[i] = math.NaN()
		}
	}

	limit := len(records)
	if limit > r.sampleRows {
		limit = r.sampleRows
	}
	for _, rec := range records[:limit] {
		for i := range sums {
			if math.IsNaN(sums[i]) || i >= len(rec) {
				continue
			}
			sums[i] += math.Abs(AmountValue(rec[i]))
		}
	}
	return sums
}

// largestColumn picks the eligible column with the greatest accumulated
// sum. Strict comparison keeps the first column in header order on
// ties; a column with no numeric mass is never chosen.
func largestColumn(sums []float64, excludeIdx int) int {
	best, bestSum := -1, 0.0
	for i, s := range sums {
		if i == excludeIdx || math.IsNaN(s) {
			continue
		}
		if s > bestSum {
			best, bestSum = i, s
		}
	}
	return best
}

// AmountValue parses a cell as a monetary amount: thousands separators
// and currency marks are stripped, and unparseable values coerce to
// zero rather than failing the row.
func AmountValue(c domain.Cell) float64 {
	switch c.Kind {
	case domain.CellNumber:
		return c.Number
	case domain.CellText:
		s := amountCleaner.Replace(strings.TrimSpace(c.Text))
		if s == "" || s == "-" {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}

// firstLabelMatch finds the first raw header label containing any of
// the keywords, folding labels the same way the resolver does.
func firstLabelMatch(header []string, keywords []string) int {
	for i, label := range header {
		if containsAny(codePrefixRe.ReplaceAllString(foldText(label), ""), keywords) {
			return i
		}
	}
	return -1
}

func firstFoldedMatch(folded []string, keywords []string) int {
	for i, label := range folded {
		if containsAny(label, keywords) {
			return i
		}
	}
	return -1
}

func roleAt(header []string, idx int) domain.Role {
	if idx < 0 || idx >= len(header) {
		return domain.UnresolvedRole()
	}
	return domain.Role{Label: header[idx], Index: idx}
}
