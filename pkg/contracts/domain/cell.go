package domain

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the raw value a spreadsheet cell carries.
type CellKind int

const (
	// CellEmpty is a missing or blank cell.
	CellEmpty CellKind = iota
	// CellText is a string cell.
	CellText
	// CellNumber is a numeric cell.
	CellNumber
	// CellDate is a cell the loader recognized as a calendar date.
	CellDate
)

// Cell is one raw spreadsheet cell. Exactly one of Text, Number or Date
// is meaningful, selected by Kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// TextCell builds a text cell. Blank strings stay CellText so the
// original content is preserved; use IsEmpty to test for blankness.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell builds a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// DateCell builds a date cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Date: t}
}

// EmptyCell builds an empty cell.
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// IsEmpty reports whether the cell carries no visible content.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String returns the display text of the cell.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// Grid is the rectangular raw-cell view of one worksheet. Rows are
// 0-indexed; rows may be ragged (shorter than the widest row).
type Grid [][]Cell

// Workbook is the loader's view of one spreadsheet file: named sheets in
// file order, each materialized as a Grid.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// Sheet is one named worksheet grid.
type Sheet struct {
	Name string
	Grid Grid
}
