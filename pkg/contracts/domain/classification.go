package domain

// AccountClass is the semantic category inferred from a ledger sheet's
// display name. Classification is a pure function of the name string.
type AccountClass string

const (
	ClassSales         AccountClass = "sales"
	ClassCostOfGoods   AccountClass = "cost_of_goods"
	ClassExpense       AccountClass = "expense"
	ClassManufacturing AccountClass = "manufacturing"
	ClassReceivable    AccountClass = "receivable"
	ClassPayable       AccountClass = "payable"
	ClassUnclassified  AccountClass = "unclassified"
)

// Classified reports whether the class participates in aggregate
// reporting. Unclassified sheets are extracted but excluded from
// classification-aware totals.
func (c AccountClass) Classified() bool {
	return c != ClassUnclassified && c != ""
}
