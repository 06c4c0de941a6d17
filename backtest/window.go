package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/market"
)

// Window is the simulated span of a run: trading starts on Start and stops
// once the date reaches End.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}

// WindowSpec describes a family of evaluation windows by calendar year.
type WindowSpec struct {
	FirstYear int // 0 starts at the universe's first year
	LastYear  int // last window start year; 0 derives it from the universe
	StepYears int
	SizeYears int // 0 runs every window to the end of the universe
}

// StartDate is January 1st of year, clamped forward to the universe start.
func StartDate(year int, r market.DateRange) time.Time {
	d := market.Date(year, time.January, 1)
	if d.Before(r.Min) {
		return r.Min
	}
	return d
}

// EndDate is January 1st of year, clamped back to the universe end.
func EndDate(year int, r market.DateRange) time.Time {
	d := market.Date(year, time.January, 1)
	if !d.Before(r.Max) {
		return r.Max
	}
	return d
}

// Windows expands spec over the universe range. Windows that clamp to an
// empty span are dropped.
func Windows(r market.DateRange, spec WindowSpec) ([]Window, error) {
	if r.Empty() {
		return nil, fmt.Errorf("backtest: empty universe range")
	}
	if spec.StepYears <= 0 {
		return nil, fmt.Errorf("backtest: step_years must be positive, got %d", spec.StepYears)
	}
	if spec.SizeYears < 0 {
		return nil, fmt.Errorf("backtest: size_years must not be negative, got %d", spec.SizeYears)
	}

	first := spec.FirstYear
	if first == 0 {
		first = r.Min.Year()
	}
	last := spec.LastYear
	if last == 0 {
		last = r.Max.Year() - max(spec.SizeYears, 1)
	}

	var out []Window
	for year := first; year <= last; year += spec.StepYears {
		w := Window{Start: StartDate(year, r), End: r.Max}
		if spec.SizeYears > 0 {
			w.End = EndDate(year+spec.SizeYears, r)
		}
		if !w.End.After(w.Start) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}
