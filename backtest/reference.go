package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
)

// ReferenceCash is what starting cash becomes when held passively in ref
// over w, with capital gains tax taken from any gain. Dividends and fees are
// ignored.
func ReferenceCash(ref *market.Stock, w Window, p sim.Params) (decimal.Decimal, error) {
	start, ok := ref.BarAt(w.Start)
	if !ok {
		return decimal.Zero, fmt.Errorf("backtest: reference %s has no price on %s", ref.Symbol(), w.Start.Format(time.DateOnly))
	}
	if start.Price().IsZero() {
		return decimal.Zero, fmt.Errorf("backtest: reference %s: %w", ref.Symbol(), market.ErrMalformedData)
	}

	growth := ref.PriceAt(w.End).Div(start.Price())
	if gain := growth.Sub(decimal.NewFromInt(1)); gain.IsPositive() {
		growth = growth.Sub(p.TaxRate.Mul(gain))
	}
	return growth.Mul(p.Cash), nil
}

// Performance is cash relative to the reference: 0.1 means 10% better.
func Performance(cash, reference decimal.Decimal) decimal.Decimal {
	if reference.IsZero() {
		return decimal.Zero
	}
	return cash.Div(reference).Sub(decimal.NewFromInt(1))
}
