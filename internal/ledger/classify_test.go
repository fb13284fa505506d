package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerlens/pkg/contracts/domain"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		want  domain.AccountClass
	}{
		{"english sales", "Product Sales (41110)", domain.ClassSales},
		{"korean sales suffix", "상품매출(41110)", domain.ClassSales},
		{"sales with whitespace", " 제품 매출 (40400)", domain.ClassSales},
		{"special revenue name", "공사수입금(42000)", domain.ClassSales},
		{"sga tag", "Travel Expense (판) (82100)", domain.ClassExpense},
		{"sga code prefix", "여비교통비(82500)", domain.ClassExpense},
		{"manufacturing tag", "노무비(제)(51100)", domain.ClassManufacturing},
		{"manufacturing code prefix", "소모품비(52900)", domain.ClassManufacturing},
		{"cost of goods", "상품매출원가(45100)", domain.ClassCostOfGoods},
		{"receivable", "외상매출금(10800)", domain.ClassReceivable},
		{"notes receivable", "받을어음(11000)", domain.ClassReceivable},
		{"receivable exclusion", "외상매출금 대손충당금(10900)", domain.ClassUnclassified},
		{"payable", "외상매입금(25100)", domain.ClassPayable},
		{"accrued payable", "미지급비용(26200)", domain.ClassPayable},
		{"payable exclusion", "선급금 외상매입금정산(13100)", domain.ClassUnclassified},
		{"unknown account", "보통예금(10300)", domain.ClassUnclassified},
		{"bare name", "기타", domain.ClassUnclassified},
		{"full-width parens", "복리후생비（판）（81100）", domain.ClassExpense},
	}
	c := NewClassifier(DefaultVocabulary())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.sheet))
		})
	}
}

// Sales-suffix names take the sales class even when a bracketed code
// elsewhere in the name begins with 8.
func TestClassifier_SalesWinsOverExpenseCode(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	assert.Equal(t, domain.ClassSales, c.Classify("Special Sales (85000)"))
	assert.Equal(t, domain.ClassSales, c.Classify("수출매출(81000)"))
}

func TestClassifier_ExpenseWinsOverManufacturing(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	// Both the SG&A tag and a 5-prefixed code present: expense is
	// checked first.
	assert.Equal(t, domain.ClassExpense, c.Classify("감가상각비(판)(51800)"))
}

func TestClassifier_MemoizationIsConcurrencySafe(t *testing.T) {
	c := NewClassifier(DefaultVocabulary())
	names := []string{"상품매출(41110)", "여비교통비(82500)", "외상매입금(25100)", "기타"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range names {
				c.Classify(n)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, domain.ClassSales, c.Classify(names[0]))
	assert.Equal(t, domain.ClassExpense, c.Classify(names[1]))
	assert.Equal(t, domain.ClassPayable, c.Classify(names[2]))
	assert.Equal(t, domain.ClassUnclassified, c.Classify(names[3]))
}
