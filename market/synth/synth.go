// Package synth generates deterministic synthetic equity universes. Bars are a
// seeded geometric random walk on business days only, so weekends exercise the
// gap-filling in market.NewStock.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/shopspring/decimal"
)

// Params describes a synthetic universe.
type Params struct {
	Symbols    int
	Start      time.Time
	Days       int     // calendar days covered
	Seed       int64
	StartPrice float64 // first open
	Drift      float64 // expected daily log return
	Volatility float64 // daily log return standard deviation

	// DividendYield is the annual yield paid quarterly; 0 disables dividends.
	DividendYield float64

	// StaggerDays delays each subsequent symbol's universe entry.
	StaggerDays int
}

// Universe builds Symbols stocks named S000, S001, ...
func Universe(p Params) ([]*market.Stock, error) {
	if p.Symbols <= 0 {
		return nil, fmt.Errorf("synth: symbols must be positive, got %d", p.Symbols)
	}
	if p.Days <= 0 {
		return nil, fmt.Errorf("synth: days must be positive, got %d", p.Days)
	}
	if p.StartPrice <= 0 {
		p.StartPrice = 100
	}

	rng := rand.New(rand.NewSource(p.Seed))
	out := make([]*market.Stock, 0, p.Symbols)
	for i := 0; i < p.Symbols; i++ {
		sym := fmt.Sprintf("S%03d", i)
		// each symbol gets its own drift tilt so momentum rankings are not flat
		drift := p.Drift + (rng.Float64()-0.5)*p.Drift*2
		bars, divs := walk(rng, p, drift)

		opts := []market.StockOption{market.WithDividends(divs)}
		if p.StaggerDays > 0 && i > 0 {
			opts = append(opts, market.WithUniverseEntry(market.Day(p.Start).AddDate(0, 0, i*p.StaggerDays)))
		}
		s, err := market.NewStock(sym, bars, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Series builds a single stock from the same walk, for reference indices.
func Series(symbol string, p Params) (*market.Stock, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	if p.StartPrice <= 0 {
		p.StartPrice = 100
	}
	bars, divs := walk(rng, p, p.Drift)
	if len(bars) == 0 {
		return nil, fmt.Errorf("synth: %s: %w", symbol, market.ErrNoData)
	}
	return market.NewStock(symbol, bars, market.WithDividends(divs))
}

func walk(rng *rand.Rand, p Params, drift float64) ([]market.Bar, []market.Dividend) {
	var (
		bars []market.Bar
		divs []market.Dividend
	)
	price := p.StartPrice
	start := market.Day(p.Start)
	var paid time.Time

	for i := 0; i < p.Days; i++ {
		date := start.AddDate(0, 0, i)
		if market.IsWeekend(date) {
			continue
		}

		open := price
		ret := drift + p.Volatility*rng.NormFloat64()
		closeP := open * math.Exp(ret)
		spread := math.Abs(p.Volatility*rng.NormFloat64()) * open
		high := math.Max(open, closeP) + spread
		low := math.Max(math.Min(open, closeP)-spread, 0.01)

		bars = append(bars, market.Bar{
			Date:          date,
			Open:          cents(open),
			High:          cents(high),
			Low:           cents(low),
			Close:         cents(closeP),
			AdjustedClose: cents(closeP),
			Volume:        int64(1_000_000 + rng.Intn(1_000_000)),
		})

		// quarterly, first business day on or after the 15th
		if p.DividendYield > 0 && int(date.Month())%3 == 0 && date.Day() >= 15 && !market.SameMonth(paid, date) {
			divs = append(divs, market.Dividend{Date: date, Amount: cents(closeP * p.DividendYield / 4)})
			paid = date
		}
		price = closeP
	}
	return bars, divs
}

func cents(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(2)
}
