package ledger

import (
	"fmt"
	"time"

	"ledgerlens/pkg/contracts/domain"
)

// testYear anchors short "MM-DD" dates in tests.
const testYear = 2025

// row builds a grid row from literal values: strings become text cells,
// numbers numeric cells, time.Time date cells, nil empty cells.
func row(values ...interface{}) []domain.Cell {
	cells := make([]domain.Cell, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case nil:
			cells[i] = domain.EmptyCell()
		case string:
			cells[i] = domain.TextCell(v)
		case int:
			cells[i] = domain.NumberCell(float64(v))
		case float64:
			cells[i] = domain.NumberCell(v)
		case time.Time:
			cells[i] = domain.DateCell(v)
		default:
			panic(fmt.Sprintf("unsupported cell literal %T", v))
		}
	}
	return cells
}

// ledgerGrid is a typical account-ledger sheet: title, account line,
// blank row, header, transactions interleaved with subtotal markers.
func ledgerGrid() domain.Grid {
	return domain.Grid{
		row("계정별원장"),
		row("상품매출 (41110)"),
		row(),
		row("일자", "적요", "거래처", "차변", "대변", "잔액"),
		row("03-05", "세금계산서발행", "Acme Co", 0, 1000000, 1000000),
		row("03-15", "세금계산서발행", "Beta Ltd", 0, 2500000, 3500000),
		row("[ 월계 ]", "", "", 0, 3500000, nil),
		row("04-02", "세금계산서발행", "Acme Co", 0, 700000, 4200000),
		row("[ 누계 ]", "", "", 0, 4200000, nil),
	}
}
