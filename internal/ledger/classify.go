package ledger

import (
	"regexp"
	"strings"
	"sync"

	"ledgerlens/pkg/contracts/domain"
)

// parenTokenRe extracts bracketed tag/code tokens from a sheet display
// name, e.g. "여비교통비(판)(82100)" yields "판" and "82100". Full-width
// parentheses from Korean exports are accepted alongside ASCII.
var parenTokenRe = regexp.MustCompile(`[（(\[]([^）)\]]*)[）)\]]`)

// Classifier infers the semantic account category from a sheet's
// display name alone. Classification is referentially transparent, so
// results are memoized by name; the cache is safe for concurrent use.
type Classifier struct {
	vocab Vocabulary

	mu    sync.RWMutex
	cache map[string]domain.AccountClass
}

// NewClassifier returns a classifier using the given vocabulary.
func NewClassifier(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab, cache: make(map[string]domain.AccountClass)}
}

// Classify returns exactly one class per sheet name. Checks are order
// sensitive: sales first, then SG&A expense, then manufacturing cost,
// then the balance-account vocabularies. A name satisfying several
// criteria takes the earliest-checked category.
func (c *Classifier) Classify(sheetName string) domain.AccountClass {
	c.mu.RLock()
	cached, ok := c.cache[sheetName]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	class := c.classify(sheetName)

	c.mu.Lock()
	c.cache[sheetName] = class
	c.mu.Unlock()
	return class
}

func (c *Classifier) classify(name string) domain.AccountClass {
	tokens := bracketTokens(name)
	base := foldText(parenTokenRe.ReplaceAllString(name, ""))
	full := foldText(name)

	// Sales: the pre-bracket text ends with a revenue suffix, or the
	// name is a recognized special revenue line.
	for _, suffix := range c.vocab.SalesSuffixes {
		if suffix != "" && strings.HasSuffix(base, foldText(suffix)) {
			return domain.ClassSales
		}
	}
	if containsAny(full, c.vocab.SpecialRevenueNames) {
		return domain.ClassSales
	}

	// SG&A expense: tagged with the SG&A marker or coded in the 8xxxx
	// range.
	for _, tok := range tokens {
		if matchesAnyExact(tok, c.vocab.SGAMarkers) {
			return domain.ClassExpense
		}
		if numericToken(tok) && strings.HasPrefix(tok, "8") {
			return domain.ClassExpense
		}
	}

	// Manufacturing cost: tagged with the manufacturing marker or coded
	// in the 5xxxx range.
	for _, tok := range tokens {
		if matchesAnyExact(tok, c.vocab.ManufacturingMarkers) {
			return domain.ClassManufacturing
		}
		if numericToken(tok) && strings.HasPrefix(tok, "5") {
			return domain.ClassManufacturing
		}
	}

	switch {
	case c.vocab.CostOfGoods.Match(full):
		return domain.ClassCostOfGoods
	case c.vocab.Receivable.Match(full):
		return domain.ClassReceivable
	case c.vocab.Payable.Match(full):
		return domain.ClassPayable
	}
	return domain.ClassUnclassified
}

// bracketTokens returns the folded contents of every bracketed group in
// the name.
func bracketTokens(name string) []string {
	matches := parenTokenRe.FindAllStringSubmatch(name, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if tok := foldText(m[1]); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// numericToken reports whether the folded token is all digits (an
// account code).
func numericToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
