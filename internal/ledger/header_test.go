package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/pkg/contracts/domain"
)

func TestHeaderLocator_KeywordWithDateLookahead(t *testing.T) {
	l := NewHeaderLocator(DefaultVocabulary(), testYear)

	idx, ok := l.Locate(ledgerGrid())
	require.True(t, ok)
	assert.Equal(t, 3, idx)
}

func TestHeaderLocator_Deterministic(t *testing.T) {
	l := NewHeaderLocator(DefaultVocabulary(), testYear)
	g := ledgerGrid()

	first, ok := l.Locate(g)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		idx, ok := l.Locate(g)
		require.True(t, ok)
		assert.Equal(t, first, idx)
	}
}

func TestHeaderLocator_RelaxedKeywordMatch(t *testing.T) {
	// Header keywords present but no parseable date anywhere below:
	// tier one fails, the relaxed tier accepts header + any next row.
	g := domain.Grid{
		row("월별 집계"),
		row("일자", "적요", "차변", "대변"),
		row("합계만 있음", "x", 100, 200),
	}
	l := NewHeaderLocator(DefaultVocabulary(), testYear)

	idx, ok := l.Locate(g)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestHeaderLocator_StructuralFallback(t *testing.T) {
	// No recognizable keywords at all: the densest row wins, and a
	// document-title row is never chosen even when dense rows tie.
	g := domain.Grid{
		row("계정별원장"),
		row("A", "B"),
		row("col1", "col2", "col3", "col4"),
		row("x", "y", "z"),
	}
	l := NewHeaderLocator(DefaultVocabulary(), testYear)

	idx, ok := l.Locate(g)
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestHeaderLocator_NotFound(t *testing.T) {
	tests := []struct {
		name string
		grid domain.Grid
	}{
		{"empty grid", domain.Grid{}},
		{"sparse rows only", domain.Grid{row("a"), row(nil, "b"), row()}},
		{"title row alone", domain.Grid{row("거래처원장")}},
	}
	l := NewHeaderLocator(DefaultVocabulary(), testYear)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := l.Locate(tt.grid)
			assert.False(t, ok)
		})
	}
}

func TestHeaderLocator_ScanLimit(t *testing.T) {
	// A header past the first 20 rows is out of reach.
	g := make(domain.Grid, 0, 30)
	for i := 0; i < 25; i++ {
		g = append(g, row())
	}
	g = append(g, row("일자", "적요", "차변", "대변"))
	g = append(g, row("03-05", "x", 100, 0))

	l := NewHeaderLocator(DefaultVocabulary(), testYear)
	_, ok := l.Locate(g)
	assert.False(t, ok)
}
