package strategies

import (
	"testing"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ohl is a daily bar; close equals open.
type ohl struct{ o, h, l string }

func stockOHL(t *testing.T, symbol string, start time.Time, bars []ohl) *market.Stock {
	t.Helper()
	out := make([]market.Bar, 0, len(bars))
	for i, b := range bars {
		out = append(out, market.Bar{
			Date:          start.AddDate(0, 0, i),
			Open:          d(b.o),
			High:          d(b.h),
			Low:           d(b.l),
			Close:         d(b.o),
			AdjustedClose: d(b.o),
		})
	}
	s, err := market.NewStock(symbol, out)
	require.NoError(t, err)
	return s
}

// trend builds n flat daily bars priced by f(i).
func trend(t *testing.T, symbol string, start time.Time, n int, f func(i int) decimal.Decimal, opts ...market.StockOption) *market.Stock {
	t.Helper()
	out := make([]market.Bar, 0, n)
	for i := 0; i < n; i++ {
		p := f(i)
		out = append(out, market.Bar{Date: start.AddDate(0, 0, i), Open: p, High: p, Low: p, Close: p, AdjustedClose: p})
	}
	s, err := market.NewStock(symbol, out, opts...)
	require.NoError(t, err)
	return s
}

func newMarket(start time.Time, cash string, stocks ...*market.Stock) *sim.Market {
	p := sim.DefaultParams(start)
	p.Cash = d(cash)
	p.Spread = decimal.Zero
	m := sim.New(stocks)
	m.Initialize(p)
	return m
}

// step trades then advances one business day.
func step(t *testing.T, m *sim.Market, s Strategy) {
	t.Helper()
	require.NoError(t, s.Trade(m))
	m.AdvanceDay()
}
