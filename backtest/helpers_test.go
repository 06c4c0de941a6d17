package backtest

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var jan1 = market.Date(2020, time.January, 1) // a Wednesday

// linear builds n daily bars starting at jan1 priced base+i*step.
func linear(t *testing.T, symbol string, n int, base, step int64) *market.Stock {
	t.Helper()
	bars := make([]market.Bar, 0, n)
	for i := 0; i < n; i++ {
		p := decimal.NewFromInt(base + int64(i)*step)
		bars = append(bars, market.Bar{Date: jan1.AddDate(0, 0, i), Open: p, High: p, Low: p, Close: p, AdjustedClose: p})
	}
	s, err := market.NewStock(symbol, bars)
	require.NoError(t, err)
	return s
}

// testAccount keeps the arithmetic readable: no spread, flat 25% tax.
func testAccount() sim.Params {
	p := sim.DefaultParams(jan1)
	p.Cash = d("10000")
	p.TaxRate = d("0.25")
	p.Spread = decimal.Zero
	return p
}

type fakeJournal struct {
	mu     sync.Mutex
	trades []journal.TradeRecord
	runs   []journal.RunRecord
	err    error
}

func (j *fakeJournal) RecordTrade(t journal.TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.trades = append(j.trades, t)
	return j.err
}

func (j *fakeJournal) RecordCashFlow(journal.CashFlowRecord) error { return j.err }

func (j *fakeJournal) RecordRun(r journal.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs = append(j.runs, r)
	return j.err
}

func (j *fakeJournal) Close() error { return nil }

func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("run-%03d", n)
	}
}
