// Package calendar lays out a month as a 7-column grid and projects events
// onto it.
//
// Months are 0-based (0 = January) throughout the package, and weeks start
// on Sunday.
package calendar

import "time"

const DaysPerWeek = 7

// Grid is the shape of a month view: filler days from the previous month,
// the month itself, then filler days from the next month up to the end of
// the last row.
type Grid struct {
	Year         int
	Month        int // 0..11
	LeadingCount int // weekday of the 1st, 0 = Sunday
	DaysInMonth  int
	// Days from the next month that complete the final partial row; 0..6.
	TrailingCount int
}

// Total number of cells, always a multiple of 7.
func (g Grid) Cells() int {
	return g.LeadingCount + g.DaysInMonth + g.TrailingCount
}

// Rows in the grid.
func (g Grid) Weeks() int {
	return g.Cells() / DaysPerWeek
}

// ComputeGrid assumes (year, month) is already normalized; wrapping is the
// caller's job.
func ComputeGrid(year, month int) Grid {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	leading := int(first.Weekday())
	days := DaysIn(year, month)
	return Grid{
		Year:          year,
		Month:         month,
		LeadingCount:  leading,
		DaysInMonth:   days,
		TrailingCount: (42 - (leading + days)) % DaysPerWeek,
	}
}

// Number of days in the 0-based month.
func DaysIn(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Shift a (year, month) pair by delta months, wrapping across years.
func AddMonths(year, month, delta int) (int, int) {
	total := year*12 + month + delta
	y, m := total/12, total%12
	if m < 0 {
		m += 12
		y--
	}
	return y, m
}

// YYYY-MM-DD for a 0-based month.
func DateString(year, month, day int) string {
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
