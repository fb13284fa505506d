package ledger

import (
	"strings"
	"time"

	"ledgerlens/pkg/contracts/domain"
)

// Bucket accumulates both amount sides and a record count for one
// aggregation key.
type Bucket struct {
	DebitSum  float64 `json:"debit_sum"`
	CreditSum float64 `json:"credit_sum"`
	Count     int     `json:"count"`
}

// Side selects which amount column a classification-aware aggregation
// emits.
type Side int

const (
	SideDebit Side = iota
	SideCredit
)

// SideFor returns the amount side an account class naturally carries:
// sales accounts book revenue on the credit side, cost and expense
// accounts on the debit side. Summing both sides for such accounts
// would double-count one-sided ledger entries. Balance-sheet and
// unclassified accounts have no single reporting side.
func SideFor(class domain.AccountClass) (Side, bool) {
	switch class {
	case domain.ClassSales:
		return SideCredit, true
	case domain.ClassExpense, domain.ClassManufacturing, domain.ClassCostOfGoods:
		return SideDebit, true
	default:
		return 0, false
	}
}

// MonthKey formats a date as its "YYYY-MM" bucket key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// KeyFunc derives a bucket key for one record; returning false skips
// the record.
type KeyFunc func(rec domain.Record, date time.Time) (string, bool)

// Aggregator folds extracted records into keyed debit/credit sums.
type Aggregator struct {
	year int
}

// NewAggregator returns an aggregator. The year anchors short "MM-DD"
// dates that survived extraction unparsed.
func NewAggregator(year int) *Aggregator {
	return &Aggregator{year: year}
}

// Aggregate folds records into buckets. Records whose date role is
// unresolved or whose date value does not normalize to a real calendar
// date contribute nothing. Amounts coerce to zero on parse failure.
func (a *Aggregator) Aggregate(records []domain.Record, roles domain.RoleSet, keyFn KeyFunc) map[string]Bucket {
	out := make(map[string]Bucket)
	if !roles.Date.Resolved() {
		return out
	}
	for _, rec := range records {
		if roles.Date.Index >= len(rec) {
			continue
		}
		date, ok := NormalizeDate(rec[roles.Date.Index], a.year)
		if !ok {
			continue
		}
		key, ok := keyFn(rec, date)
		if !ok {
			continue
		}
		b := out[key]
		b.DebitSum += amountAt(rec, roles.Debit)
		b.CreditSum += amountAt(rec, roles.Credit)
		b.Count++
		out[key] = b
	}
	return out
}

// ByMonth buckets records per calendar month.
func (a *Aggregator) ByMonth(records []domain.Record, roles domain.RoleSet) map[string]Bucket {
	return a.Aggregate(records, roles, func(_ domain.Record, date time.Time) (string, bool) {
		return MonthKey(date), true
	})
}

// ByVendor buckets records per counterparty. Sheets without a resolved
// vendor column yield an empty map.
func (a *Aggregator) ByVendor(records []domain.Record, roles domain.RoleSet) map[string]Bucket {
	if !roles.Vendor.Resolved() {
		return map[string]Bucket{}
	}
	return a.Aggregate(records, roles, func(rec domain.Record, _ time.Time) (string, bool) {
		if roles.Vendor.Index >= len(rec) {
			return "", false
		}
		vendor := strings.TrimSpace(rec[roles.Vendor.Index].String())
		if vendor == "" {
			return "", false
		}
		return vendor, true
	})
}

// FlowByMonth emits the monthly amount series for one side only, the
// classification-aware variant used for revenue and expense totals.
func (a *Aggregator) FlowByMonth(records []domain.Record, roles domain.RoleSet, side Side) map[string]float64 {
	buckets := a.ByMonth(records, roles)
	out := make(map[string]float64, len(buckets))
	for key, b := range buckets {
		if side == SideCredit {
			out[key] = b.CreditSum
		} else {
			out[key] = b.DebitSum
		}
	}
	return out
}

func amountAt(rec domain.Record, role domain.Role) float64 {
	if !role.Resolved() || role.Index >= len(rec) {
		return 0
	}
	return AmountValue(rec[role.Index])
}
