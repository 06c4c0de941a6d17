package sim

import (
	"testing"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// flatStock builds a stock whose open/high/low/close are all prices[i] on
// consecutive calendar days starting at start.
func flatStock(t *testing.T, symbol string, start time.Time, prices []string, opts ...market.StockOption) *market.Stock {
	t.Helper()
	bars := make([]market.Bar, 0, len(prices))
	for i, p := range prices {
		v := d(p)
		bars = append(bars, market.Bar{
			Date:          start.AddDate(0, 0, i),
			Open:          v,
			High:          v,
			Low:           v,
			Close:         v,
			AdjustedClose: v,
			Volume:        1000,
		})
	}
	s, err := market.NewStock(symbol, bars, opts...)
	require.NoError(t, err)
	return s
}

// testParams are round-number constants that keep expected values readable.
func testParams(start time.Time) Params {
	return Params{
		Cash:              d("100000"),
		OrderFee:          d("10"),
		TaxRate:           d("0.25"),
		InitialMargin:     d("0.5"),
		MaintenanceMargin: d("0.3"),
		LendingFeeRate:    d("0.03"),
		Spread:            d("0.01"),
		Start:             start,
	}
}

func newMarket(p Params, stocks []*market.Stock, opts ...Option) (*Market, *recordingSink) {
	sink := &recordingSink{}
	m := New(stocks, append([]Option{WithEventSink(sink)}, opts...)...)
	m.Initialize(p)
	return m, sink
}

type recordingSink struct {
	trades      []TradeEvent
	dividends   []DividendEvent
	marginCalls []MarginCallEvent
	settlements []SettlementEvent
}

func (s *recordingSink) OnTrade(e TradeEvent)           { s.trades = append(s.trades, e) }
func (s *recordingSink) OnDividend(e DividendEvent)     { s.dividends = append(s.dividends, e) }
func (s *recordingSink) OnMarginCall(e MarginCallEvent) { s.marginCalls = append(s.marginCalls, e) }
func (s *recordingSink) OnSettlement(e SettlementEvent) { s.settlements = append(s.settlements, e) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}
