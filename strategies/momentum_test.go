package strategies

import (
	"testing"

	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jan1  = market.Date(2020, 1, 1)
	jan13 = market.Date(2020, 1, 13)
)

func linear(base, slope int64) func(int) decimal.Decimal {
	return func(i int) decimal.Decimal { return decimal.NewFromInt(base + slope*int64(i)) }
}

// momentumUniverse ranks A > B > C > D over the ten days before Jan 13.
// A collapses on Jan 14.
func momentumUniverse(t *testing.T) []*market.Stock {
	a := trend(t, "A", jan1, 20, func(i int) decimal.Decimal {
		if i >= 13 {
			return decimal.NewFromInt(80)
		}
		return decimal.NewFromInt(100 + 5*int64(i))
	})
	return []*market.Stock{
		a,
		trend(t, "B", jan1, 20, linear(100, 1)),
		trend(t, "C", jan1, 20, linear(100, 0)),
		trend(t, "D", jan1, 20, linear(100, -2)),
		// would rank first but is not yet in the universe
		trend(t, "E", jan1, 20, linear(100, 50), market.WithUniverseEntry(market.Date(2020, 1, 20))),
		// history starts inside the ranking window
		trend(t, "F", market.Date(2020, 1, 10), 10, linear(100, 50)),
	}
}

func momentumConfig(mode Mode) MomentumConfig {
	return MomentumConfig{
		Stocks:      1,
		StopLoss:    d("0.08"),
		HoldDays:    5,
		HistoryDays: 10,
		IgnoreDays:  0,
		Mode:        mode,
	}
}

func sides(m *sim.Market) map[string]sim.Side {
	out := make(map[string]sim.Side)
	for _, p := range m.Positions() {
		out[p.Stock().Symbol()] = p.Side()
	}
	return out
}

func TestMomentumModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		want map[string]sim.Side
	}{
		{LongShort, map[string]sim.Side{"A": sim.Long, "D": sim.Short}},
		{LongOnly, map[string]sim.Side{"A": sim.Long}},
		{ShortOnly, map[string]sim.Side{"D": sim.Short}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			m := newMarket(jan13, "100000", momentumUniverse(t)...)
			s, err := NewMomentum(momentumConfig(tt.mode))
			require.NoError(t, err)

			require.NoError(t, s.Trade(m))
			assert.Equal(t, tt.want, sides(m))
		})
	}
}

func TestMomentumEqualFunding(t *testing.T) {
	t.Parallel()

	m := newMarket(jan13, "100000", momentumUniverse(t)...)
	s, err := NewMomentum(momentumConfig(LongShort))
	require.NoError(t, err)
	require.NoError(t, s.Trade(m))

	for _, p := range m.Positions() {
		switch p.Stock().Symbol() {
		case "A":
			// ⌊(50000 − 10) / 160⌋
			assert.Equal(t, int64(312), p.Shares())
		case "D":
			// ⌊(50000 − 10) / (76 × 0.5)⌋
			assert.Equal(t, int64(1315), p.Shares())
		}
	}
}

func TestMomentumStopLossAndHoldPeriod(t *testing.T) {
	t.Parallel()

	m := newMarket(jan13, "100000", momentumUniverse(t)...)
	s, err := NewMomentum(momentumConfig(LongShort))
	require.NoError(t, err)

	step(t, m, s)
	require.Len(t, m.Positions(), 2)

	// A opened at 160 and now trades at 80; D is still inside the hold period
	require.NoError(t, s.Trade(m))
	assert.Equal(t, map[string]sim.Side{"D": sim.Short}, sides(m))
	assert.Zero(t, m.MarginCalls())
}

func TestMomentumClosesPositionsOutsideTargets(t *testing.T) {
	t.Parallel()

	stocks := momentumUniverse(t)
	m := newMarket(jan13, "100000", stocks...)
	_, err := m.Buy(stocks[2], 10) // C is neither top nor bottom
	require.NoError(t, err)
	_, err = m.Short(stocks[0], 10) // A is targeted long, not short
	require.NoError(t, err)

	s, err := NewMomentum(momentumConfig(LongShort))
	require.NoError(t, err)
	require.NoError(t, s.Trade(m))

	assert.Equal(t, map[string]sim.Side{"A": sim.Long, "D": sim.Short}, sides(m))
}

func TestMomentumFundingFloor(t *testing.T) {
	t.Parallel()

	m := newMarket(jan13, "100000", momentumUniverse(t)...)
	cfg := momentumConfig(LongShort)
	cfg.MinFunding = d("60000")
	s, err := NewMomentum(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Trade(m))
	assert.Empty(t, m.Positions())
}

func TestMomentumValidation(t *testing.T) {
	t.Parallel()

	bad := []MomentumConfig{
		{Stocks: 0, HoldDays: 5, HistoryDays: 10},
		{Stocks: 1, HoldDays: 0, HistoryDays: 10},
		{Stocks: 1, HoldDays: 5, HistoryDays: 10, IgnoreDays: 10},
		{Stocks: 1, HoldDays: 5, HistoryDays: 10, Mode: "sideways"},
	}
	for _, cfg := range bad {
		_, err := NewMomentum(cfg)
		assert.ErrorIs(t, err, ErrInvalidParams, "%+v", cfg)
	}

	s, err := NewMomentum(MomentumConfigDefaults())
	require.NoError(t, err)
	assert.Equal(t, "6", s.Labels()["stocks"])
}
