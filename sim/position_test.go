package sim

import (
	"testing"

	"github.com/rustyeddy/stocksim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionValueAndReturn(t *testing.T) {
	t.Parallel()

	p := testParams(monday)
	p.Spread = d("0")
	s := flatStock(t, "S", monday, []string{"100", "80"})
	m, _ := newMarket(p, []*market.Stock{s})

	long, err := m.Buy(s, 10)
	require.NoError(t, err)
	short, err := m.Short(s, 10)
	require.NoError(t, err)
	m.AdvanceDay()

	assertDecimal(t, "800", long.Value(m.Date()))
	assertDecimal(t, "200", short.Value(m.Date()))
	assertDecimal(t, "-0.2", long.Return(m.Date()))
	assertDecimal(t, "0.2", short.Return(m.Date()))

	assert.Equal(t, "long", long.Side().String())
	assert.Equal(t, "short", short.Side().String())
	assert.Equal(t, monday, long.Opened())

	// cash + 800 + 200
	assert.True(t, m.Cash().Add(d("1000")).Equal(m.Equity()))
}
