package market

import "time"

const day = 24 * time.Hour

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a midnight UTC date.
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b (negative if b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / day)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SameMonth reports whether a and b share calendar year and month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DateRange accumulates the earliest and latest dates seen.
type DateRange struct {
	Min time.Time
	Max time.Time
}

// Include widens the range to cover date.
func (r *DateRange) Include(date time.Time) {
	if r.Min.IsZero() || date.Before(r.Min) {
		r.Min = date
	}
	if r.Max.IsZero() || date.After(r.Max) {
		r.Max = date
	}
}

// Empty reports whether nothing has been included yet.
func (r DateRange) Empty() bool {
	return r.Min.IsZero() && r.Max.IsZero()
}

// UniverseRange returns the span from the earliest first bar to the latest last bar.
func UniverseRange(stocks []*Stock) DateRange {
	var r DateRange
	for _, s := range stocks {
		r.Include(s.FirstDate())
		r.Include(s.LastDate())
	}
	return r
}
