package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/pkg/contracts/domain"
)

func extractLedgerSheet(t *testing.T) (domain.SheetExtract, domain.RoleSet) {
	t.Helper()
	g := ledgerGrid()
	loc := NewHeaderLocator(DefaultVocabulary(), testYear)
	idx, ok := loc.Locate(g)
	require.True(t, ok)
	ex := NewExtractor(DefaultVocabulary(), testYear).Extract("상품매출 (41110)", g, idx)
	roles := NewRoleResolver(DefaultVocabulary()).Resolve(ex.Header, ex.Records)
	return ex, roles
}

func TestAggregator_ByMonth(t *testing.T) {
	ex, roles := extractLedgerSheet(t)
	a := NewAggregator(testYear)

	buckets := a.ByMonth(ex.Records, roles)
	require.Len(t, buckets, 2)

	march := buckets["2025-03"]
	assert.Equal(t, 2, march.Count)
	assert.InDelta(t, 3500000, march.CreditSum, 0.001)
	assert.InDelta(t, 0, march.DebitSum, 0.001)

	april := buckets["2025-04"]
	assert.Equal(t, 1, april.Count)
	assert.InDelta(t, 700000, april.CreditSum, 0.001)
}

// Conservation: bucket sums reconcile exactly with the individual
// record amounts that had a parseable date.
func TestAggregator_Conservation(t *testing.T) {
	ex, roles := extractLedgerSheet(t)
	a := NewAggregator(testYear)

	var wantDebit, wantCredit float64
	for _, rec := range ex.Records {
		if _, ok := NormalizeDate(rec[roles.Date.Index], testYear); !ok {
			continue
		}
		wantDebit += AmountValue(rec[roles.Debit.Index])
		wantCredit += AmountValue(rec[roles.Credit.Index])
	}

	var gotDebit, gotCredit float64
	for _, b := range a.ByMonth(ex.Records, roles) {
		gotDebit += b.DebitSum
		gotCredit += b.CreditSum
	}
	assert.InDelta(t, wantDebit, gotDebit, 0.001)
	assert.InDelta(t, wantCredit, gotCredit, 0.001)
}

func TestAggregator_SkipsUnparseableDates(t *testing.T) {
	roles := domain.RoleSet{
		Date:   domain.Role{Label: "일자", Index: 0},
		Debit:  domain.Role{Label: "차변", Index: 1},
		Credit: domain.UnresolvedRole(),
		Vendor: domain.UnresolvedRole(),
	}
	records := []domain.Record{
		row("03-05", 1000),
		row("date pending", 9999),
	}
	a := NewAggregator(testYear)

	buckets := a.ByMonth(records, roles)
	require.Len(t, buckets, 1)
	assert.InDelta(t, 1000, buckets["2025-03"].DebitSum, 0.001)
}

func TestAggregator_UnresolvedDateRoleYieldsNothing(t *testing.T) {
	records := []domain.Record{row("03-05", 1000)}
	a := NewAggregator(testYear)

	buckets := a.ByMonth(records, domain.RoleSet{
		Date:  domain.UnresolvedRole(),
		Debit: domain.Role{Label: "차변", Index: 1},
	})
	assert.Empty(t, buckets)
}

func TestAggregator_ByVendor(t *testing.T) {
	ex, roles := extractLedgerSheet(t)
	a := NewAggregator(testYear)

	buckets := a.ByVendor(ex.Records, roles)
	require.Len(t, buckets, 2)
	assert.Equal(t, 2, buckets["Acme Co"].Count)
	assert.InDelta(t, 1700000, buckets["Acme Co"].CreditSum, 0.001)
	assert.Equal(t, 1, buckets["Beta Ltd"].Count)

	// No vendor column resolved: empty, not an error.
	noVendor := roles
	noVendor.Vendor = domain.UnresolvedRole()
	assert.Empty(t, a.ByVendor(ex.Records, noVendor))
}

func TestAggregator_FlowByMonth(t *testing.T) {
	ex, roles := extractLedgerSheet(t)
	a := NewAggregator(testYear)

	side, ok := SideFor(domain.ClassSales)
	require.True(t, ok)
	flow := a.FlowByMonth(ex.Records, roles, side)
	assert.InDelta(t, 3500000, flow["2025-03"], 0.001)
	assert.InDelta(t, 700000, flow["2025-04"], 0.001)
}

func TestSideFor(t *testing.T) {
	tests := []struct {
		class domain.AccountClass
		side  Side
		ok    bool
	}{
		{domain.ClassSales, SideCredit, true},
		{domain.ClassExpense, SideDebit, true},
		{domain.ClassManufacturing, SideDebit, true},
		{domain.ClassCostOfGoods, SideDebit, true},
		{domain.ClassReceivable, 0, false},
		{domain.ClassPayable, 0, false},
		{domain.ClassUnclassified, 0, false},
	}
	for _, tt := range tests {
		side, ok := SideFor(tt.class)
		assert.Equal(t, tt.ok, ok, "class %s", tt.class)
		if tt.ok {
			assert.Equal(t, tt.side, side, "class %s", tt.class)
		}
	}
}
