package journal

import (
	"errors"
	"testing"

	"github.com/rustyeddy/stocksim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderTrades(t *testing.T) {
	t.Parallel()

	j := &memJournal{}
	r := NewRecorder(j, "run-1")

	r.OnTrade(sim.TradeEvent{
		Date: date(2020, 1, 2), Action: sim.Open, Side: sim.Short, Symbol: "BBB",
		Shares: 10, Price: d("99.5"), Fee: d("10"), Reason: sim.ReasonOrder, Cash: d("99990"),
	})
	r.OnTrade(sim.TradeEvent{
		Date: date(2020, 1, 3), Action: sim.Close, Side: sim.Short, Symbol: "BBB",
		Shares: 10, Price: d("90"), Fee: d("10"), Gain: d("85"), Reason: sim.ReasonMarginCall,
	})

	require.Len(t, j.trades, 2)
	assert.Equal(t, 2, r.Trades())
	assert.Equal(t, "run-1", j.trades[0].RunID)
	assert.Equal(t, 1, j.trades[0].Seq)
	assert.Equal(t, "open", j.trades[0].Action)
	assert.Equal(t, "short", j.trades[0].Side)
	assert.Equal(t, 2, j.trades[1].Seq)
	assert.Equal(t, "margin-call", j.trades[1].Reason)
	assert.True(t, d("85").Equal(j.trades[1].Gain))
	assert.NoError(t, r.Err())
}

func TestRecorderCashFlows(t *testing.T) {
	t.Parallel()

	j := &memJournal{}
	r := NewRecorder(j, "run-1")

	r.OnDividend(sim.DividendEvent{Date: date(2020, 1, 6), Symbol: "AAA", Side: sim.Long, Shares: 10, PerShare: d("0.5"), Amount: d("5")})
	r.OnSettlement(sim.SettlementEvent{Date: date(2020, 2, 3), Kind: sim.LendingFeeSettlement, Amount: d("-2.5")})
	r.OnSettlement(sim.SettlementEvent{Date: date(2020, 2, 3), Kind: sim.TaxRefundSettlement, Amount: d("12")})
	r.OnMarginCall(sim.MarginCallEvent{Date: date(2020, 2, 4)})

	require.Len(t, j.flows, 3)
	assert.Equal(t, FlowDividend, j.flows[0].Kind)
	assert.Equal(t, "AAA", j.flows[0].Symbol)
	assert.Equal(t, FlowLendingFee, j.flows[1].Kind)
	assert.Empty(t, j.flows[1].Symbol)
	assert.Equal(t, FlowTaxRefund, j.flows[2].Kind)
	assert.Equal(t, 0, r.Trades())
}

func TestRecorderKeepsFirstError(t *testing.T) {
	t.Parallel()

	first := errors.New("disk full")
	j := &memJournal{err: first}
	r := NewRecorder(j, "run-1")

	r.OnTrade(sim.TradeEvent{Date: date(2020, 1, 2), Action: sim.Open, Side: sim.Long})
	j.err = errors.New("later")
	r.OnDividend(sim.DividendEvent{Date: date(2020, 1, 3)})

	assert.ErrorIs(t, r.Err(), first)
	assert.Equal(t, 1, r.Trades())
}
