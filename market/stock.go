package market

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoData is returned when a stock is built from an empty bar sequence.
	ErrNoData = errors.New("market: no data")

	// ErrMalformedData is returned for bars with a zero close/low or non-increasing dates.
	ErrMalformedData = errors.New("market: malformed data")
)

// Stock is an immutable instrument: a dense daily price series, an optional
// dividend schedule and an optional universe-entry date. A Stock is safe for
// concurrent read-only use once built.
type Stock struct {
	symbol string

	// bars holds one entry per calendar day starting at bars[0].Date.
	// Missing days repeat the previous bar with the date advanced.
	bars []Bar

	dividends []Dividend
	byDay     map[int64]decimal.Decimal

	entry time.Time
}

// StockOption configures optional Stock data.
type StockOption func(*Stock)

// WithDividends attaches a dividend schedule. Entries are sorted by date and
// same-day amounts are summed.
func WithDividends(divs []Dividend) StockOption {
	return func(s *Stock) {
		s.dividends = make([]Dividend, 0, len(divs))
		for _, d := range divs {
			s.dividends = append(s.dividends, Dividend{Date: Day(d.Date), Amount: d.Amount})
		}
		sort.SliceStable(s.dividends, func(i, j int) bool {
			return s.dividends[i].Date.Before(s.dividends[j].Date)
		})
	}
}

// WithUniverseEntry excludes the stock from selection before date.
func WithUniverseEntry(date time.Time) StockOption {
	return func(s *Stock) {
		s.entry = Day(date)
	}
}

// NewStock builds the dense series from bars, which must be ordered by date.
func NewStock(symbol string, bars []Bar, opts ...StockOption) (*Stock, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	s := &Stock{symbol: symbol}
	for _, opt := range opts {
		opt(s)
	}

	first := Day(bars[0].Date)
	last := Day(bars[len(bars)-1].Date)
	n := DaysBetween(first, last) + 1
	if n <= 0 {
		return nil, fmt.Errorf("%s: last date precedes first: %w", symbol, ErrMalformedData)
	}
	s.bars = make([]Bar, 0, n)

	for i, b := range bars {
		b, err := b.validate()
		if err != nil {
			return nil, fmt.Errorf("%s: bar %d (%s): %w", symbol, i, b.Date.Format(time.DateOnly), err)
		}
		b.Date = Day(b.Date)

		if len(s.bars) > 0 {
			prev := s.bars[len(s.bars)-1]
			gap := DaysBetween(prev.Date, b.Date)
			if gap <= 0 {
				return nil, fmt.Errorf("%s: bar %d (%s) not after %s: %w",
					symbol, i, b.Date.Format(time.DateOnly), prev.Date.Format(time.DateOnly), ErrMalformedData)
			}
			// carry the previous bar across missing days
			for k := 1; k < gap; k++ {
				fill := prev
				fill.Date = prev.Date.AddDate(0, 0, k)
				s.bars = append(s.bars, fill)
			}
		}
		s.bars = append(s.bars, b)
	}

	s.byDay = make(map[int64]decimal.Decimal, len(s.dividends))
	for _, d := range s.dividends {
		k := d.Date.Unix()
		s.byDay[k] = s.byDay[k].Add(d.Amount)
	}

	return s, nil
}

// Symbol returns the stock identifier.
func (s *Stock) Symbol() string { return s.symbol }

func (s *Stock) String() string { return s.symbol }

// FirstDate is the date of the first recorded bar.
func (s *Stock) FirstDate() time.Time { return s.bars[0].Date }

// LastDate is the date of the last recorded bar.
func (s *Stock) LastDate() time.Time { return s.bars[len(s.bars)-1].Date }

// Len returns the number of dense (gap-filled) daily bars.
func (s *Stock) Len() int { return len(s.bars) }

// Dividends returns a copy of the sorted dividend schedule.
func (s *Stock) Dividends() []Dividend {
	out := make([]Dividend, len(s.dividends))
	copy(out, s.dividends)
	return out
}

// UniverseEntry returns the universe-entry date and whether one is set.
func (s *Stock) UniverseEntry() (time.Time, bool) {
	return s.entry, !s.entry.IsZero()
}

// BarAt returns the bar for date. Dates after the last recorded bar return the
// last bar; dates before the first return false.
func (s *Stock) BarAt(date time.Time) (Bar, bool) {
	idx := DaysBetween(s.bars[0].Date, date)
	if idx < 0 {
		return Bar{}, false
	}
	if idx >= len(s.bars) {
		idx = len(s.bars) - 1
	}
	return s.bars[idx], true
}

// PriceAt returns the reference price for date, flat-extrapolating the last
// known price forever after the series ends. It panics before the first date;
// use BarAt to probe.
func (s *Stock) PriceAt(date time.Time) decimal.Decimal {
	b, ok := s.BarAt(date)
	if !ok {
		panic(fmt.Sprintf("market: %s has no price before %s (asked %s)",
			s.symbol, s.FirstDate().Format(time.DateOnly), Day(date).Format(time.DateOnly)))
	}
	return b.Price()
}

// DividendAt returns the per-share dividend paid on date, if any.
func (s *Stock) DividendAt(date time.Time) (decimal.Decimal, bool) {
	amt, ok := s.byDay[Day(date).Unix()]
	return amt, ok
}

// EligibleAt is false only when a universe-entry date is set and falls after date.
func (s *Stock) EligibleAt(date time.Time) bool {
	return s.entry.IsZero() || !s.entry.After(Day(date))
}

// Covers reports whether recorded history spans [from, to].
func (s *Stock) Covers(from, to time.Time) bool {
	return !Day(from).Before(s.FirstDate()) && !Day(to).After(s.LastDate())
}
