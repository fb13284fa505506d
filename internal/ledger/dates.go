package ledger

import (
	"regexp"
	"strconv"
	"time"

	"ledgerlens/pkg/contracts/domain"
)

// serialEpoch is the conventional spreadsheet date origin: serial day 1
// is 1899-12-31, matching the 1900 date system with its leap-year bug
// baked in.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// shortDateRe matches "MM-DD" / "MM/DD" with 1-2 digit fields and no year.
var shortDateRe = regexp.MustCompile(`^\s*(\d{1,2})[-/](\d{1,2})\s*$`)

const maxDateSerial = 50000

// NormalizeDate converts a heterogeneous date cell into a calendar date.
// The attempt order is significant: a native date cell is returned as
// is, a short "MM-DD" string is interpreted in the given year, and only
// a numeric cell is treated as a spreadsheet serial day count. Returns
// false when the cell is not a parseable date.
func NormalizeDate(c domain.Cell, year int) (time.Time, bool) {
	switch c.Kind {
	case domain.CellDate:
		if c.Date.IsZero() {
			return time.Time{}, false
		}
		return c.Date, true
	case domain.CellText:
		m := shortDateRe.FindStringSubmatch(c.Text)
		if m == nil {
			return time.Time{}, false
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes out-of-range components ("02-30" becomes
		// March 2nd), so require an exact round trip.
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return time.Time{}, false
		}
		return t, true
	case domain.CellNumber:
		if c.Number <= 1 || c.Number >= maxDateSerial {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(c.Number)), true
	default:
		return time.Time{}, false
	}
}

// DateSerial converts a calendar date back to its spreadsheet serial
// day count.
func DateSerial(t time.Time) int {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(serialEpoch).Hours() / 24)
}
