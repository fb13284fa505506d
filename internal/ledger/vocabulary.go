package ledger

import (
	"strings"
	"unicode"
)

// Vocabulary is the consolidated keyword configuration consumed by the
// header locator, role resolver and account classifier. All entries are
// matched case-insensitively with whitespace removed; candidate text is
// folded the same way before comparison. Ledger exports vary wildly in
// wording between tools and languages, so every list is data, not
// behavior: callers may override any of them (see config.Analysis).
type Vocabulary struct {
	// Header detection.
	DateColumns    []string `yaml:"date_columns"`
	LedgerColumns  []string `yaml:"ledger_columns"`
	DocumentTitles []string `yaml:"document_titles"`

	// Column role resolution.
	DebitColumns       []string `yaml:"debit_columns"`
	CreditColumns      []string `yaml:"credit_columns"`
	BalanceColumns     []string `yaml:"balance_columns"`
	VendorColumns      []string `yaml:"vendor_columns"`
	DescriptionColumns []string `yaml:"description_columns"`
	CodeColumns        []string `yaml:"code_columns"`

	// Noise-row filtering. Subtotal and carry-forward markers are kept
	// as an explicit list in addition to the bracket heuristic: some
	// export tools emit the phrases without brackets.
	NoiseMarkers []string `yaml:"noise_markers"`

	// Account classification.
	SalesSuffixes        []string  `yaml:"sales_suffixes"`
	SpecialRevenueNames  []string  `yaml:"special_revenue_names"`
	SGAMarkers           []string  `yaml:"sga_markers"`
	ManufacturingMarkers []string  `yaml:"manufacturing_markers"`
	CostOfGoods          MatchList `yaml:"cost_of_goods"`
	Receivable           MatchList `yaml:"receivable"`
	Payable              MatchList `yaml:"payable"`
}

// MatchList is a substring vocabulary with explicit exclusions, used by
// the simpler balance-account classifier variant.
type MatchList struct {
	Any    []string `yaml:"any"`
	Except []string `yaml:"except"`
}

// Match reports whether folded text contains any include term and none
// of the exclusion terms.
func (m MatchList) Match(folded string) bool {
	if !containsAny(folded, m.Any) {
		return false
	}
	return !containsAny(folded, m.Except)
}

// DefaultVocabulary returns the built-in mixed Korean/English keyword
// sets observed in real general-ledger exports.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		DateColumns:    []string{"일자", "날짜", "월일", "거래일", "date"},
		LedgerColumns:  []string{"적요", "거래처", "차변", "대변", "금액", "계정", "코드", "내용", "비고", "description", "counterparty", "vendor", "debit", "credit", "amount", "code", "memo", "account"},
		DocumentTitles: []string{"계정별원장", "거래처원장", "총계정원장", "generalledger", "accountledger"},

		DebitColumns:       []string{"차변", "출금", "debit"},
		CreditColumns:      []string{"대변", "입금", "credit"},
		BalanceColumns:     []string{"잔액", "잔고", "balance"},
		VendorColumns:      []string{"거래처", "업체", "상호", "counterparty", "vendor", "customer", "company"},
		DescriptionColumns: []string{"적요", "내용", "비고", "품명", "description", "memo", "remark", "note"},
		CodeColumns:        []string{"코드", "번호", "code"},

		NoiseMarkers: []string{"월계", "누계", "전기이월", "전월이월", "차기이월", "소계", "합계", "carryforward", "monthlytotal", "subtotal", "grandtotal"},

		SalesSuffixes:        []string{"매출", "매출액", "sales", "salesrevenue", "revenue"},
		SpecialRevenueNames:  []string{"공사수입", "분양수입", "임대수입", "수수료수입"},
		SGAMarkers:           []string{"판"},
		ManufacturingMarkers: []string{"제"},
		CostOfGoods: MatchList{
			Any: []string{"매출원가", "costofgoods"},
		},
		Receivable: MatchList{
			Any:    []string{"외상매출금", "받을어음", "미수금", "accountsreceivable", "notesreceivable"},
			Except: []string{"대손충당금"},
		},
		Payable: MatchList{
			Any:    []string{"외상매입금", "지급어음", "미지급금", "미지급비용", "accountspayable", "notespayable", "accruedliabilit"},
			Except: []string{"선급금", "선지급"},
		},
	}
}

// Override returns a copy of v with every non-empty list in o replacing
// the corresponding list. Empty lists in o keep the defaults.
func (v Vocabulary) Override(o Vocabulary) Vocabulary {
	replace := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	replace(&v.DateColumns, o.DateColumns)
	replace(&v.LedgerColumns, o.LedgerColumns)
	replace(&v.DocumentTitles, o.DocumentTitles)
	replace(&v.DebitColumns, o.DebitColumns)
	replace(&v.CreditColumns, o.CreditColumns)
	replace(&v.BalanceColumns, o.BalanceColumns)
	replace(&v.VendorColumns, o.VendorColumns)
	replace(&v.DescriptionColumns, o.DescriptionColumns)
	replace(&v.CodeColumns, o.CodeColumns)
	replace(&v.NoiseMarkers, o.NoiseMarkers)
	replace(&v.SalesSuffixes, o.SalesSuffixes)
	replace(&v.SpecialRevenueNames, o.SpecialRevenueNames)
	replace(&v.SGAMarkers, o.SGAMarkers)
	replace(&v.ManufacturingMarkers, o.ManufacturingMarkers)
	if len(o.CostOfGoods.Any) > 0 {
		v.CostOfGoods = o.CostOfGoods
	}
	if len(o.Receivable.Any) > 0 {
		v.Receivable = o.Receivable
	}
	if len(o.Payable.Any) > 0 {
		v.Payable = o.Payable
	}
	return v
}

// foldText lower-cases text and removes all whitespace, the shared
// normalization applied before any keyword comparison.
func foldText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsAny reports whether folded contains any of the keywords.
// Keywords are compared after folding as well, so vocabulary entries
// may be written with natural casing.
func containsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(folded, foldText(kw)) {
			return true
		}
	}
	return false
}

// matchesAnyExact reports whether folded equals any folded keyword.
func matchesAnyExact(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if folded == foldText(kw) {
			return true
		}
	}
	return false
}
