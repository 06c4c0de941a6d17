package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bar(date time.Time, open, high, low, close string) Bar {
	return Bar{
		Date:          date,
		Open:          d(open),
		High:          d(high),
		Low:           d(low),
		Close:         d(close),
		AdjustedClose: d(close),
		Volume:        1000,
	}
}

func TestNewStockErrors(t *testing.T) {
	t.Parallel()

	_, err := NewStock("EMPTY", nil)
	require.ErrorIs(t, err, ErrNoData)

	_, err = NewStock("ZC", []Bar{bar(Date(2020, 1, 1), "1", "1", "1", "0")})
	require.ErrorIs(t, err, ErrMalformedData)

	_, err = NewStock("ZL", []Bar{bar(Date(2020, 1, 1), "1", "1", "0", "1")})
	require.ErrorIs(t, err, ErrMalformedData)

	_, err = NewStock("DUP", []Bar{
		bar(Date(2020, 1, 2), "1", "1", "1", "1"),
		bar(Date(2020, 1, 2), "1", "1", "1", "1"),
	})
	require.ErrorIs(t, err, ErrMalformedData)
}

func TestNewStockRepairsZeroOpen(t *testing.T) {
	t.Parallel()

	s, err := NewStock("ZO", []Bar{bar(Date(2020, 1, 1), "0", "12", "9", "11")})
	require.NoError(t, err)
	assert.True(t, s.PriceAt(Date(2020, 1, 1)).Equal(d("11")))
}

func TestStockGapFill(t *testing.T) {
	t.Parallel()

	// Friday then Monday: the weekend repeats Friday's bar.
	s, err := NewStock("GAP", []Bar{
		bar(Date(2021, 1, 8), "10", "11", "9", "10.5"),
		bar(Date(2021, 1, 11), "12", "13", "11", "12.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	sat, ok := s.BarAt(Date(2021, 1, 9))
	require.True(t, ok)
	assert.Equal(t, Date(2021, 1, 9), sat.Date)
	assert.True(t, sat.Open.Equal(d("10")))

	mon, ok := s.BarAt(Date(2021, 1, 11))
	require.True(t, ok)
	assert.True(t, mon.Open.Equal(d("12")))
}

func TestPriceAtFlatExtrapolation(t *testing.T) {
	t.Parallel()

	s, err := NewStock("FLAT", []Bar{
		bar(Date(2021, 3, 1), "10", "10", "10", "10"),
		bar(Date(2021, 3, 2), "20", "20", "20", "20"),
	})
	require.NoError(t, err)

	for _, date := range []time.Time{Date(2021, 3, 2), Date(2021, 4, 1), Date(2030, 1, 1)} {
		assert.True(t, s.PriceAt(date).Equal(d("20")), date)
	}

	_, ok := s.BarAt(Date(2021, 2, 28))
	assert.False(t, ok)
	assert.Panics(t, func() { s.PriceAt(Date(2021, 2, 28)) })
}

func TestDividendAndEligibility(t *testing.T) {
	t.Parallel()

	s, err := NewStock("DIV",
		[]Bar{bar(Date(2021, 1, 1), "10", "10", "10", "10")},
		WithDividends([]Dividend{
			{Date: Date(2021, 6, 1), Amount: d("0.5")},
			{Date: Date(2021, 3, 1), Amount: d("0.25")},
		}),
		WithUniverseEntry(Date(2021, 2, 1)),
	)
	require.NoError(t, err)

	amt, ok := s.DividendAt(Date(2021, 3, 1))
	require.True(t, ok)
	assert.True(t, amt.Equal(d("0.25")))

	_, ok = s.DividendAt(Date(2021, 3, 2))
	assert.False(t, ok)

	divs := s.Dividends()
	require.Len(t, divs, 2)
	assert.Equal(t, Date(2021, 3, 1), divs[0].Date)

	assert.False(t, s.EligibleAt(Date(2021, 1, 31)))
	assert.True(t, s.EligibleAt(Date(2021, 2, 1)))
}

func TestUniverseRange(t *testing.T) {
	t.Parallel()

	a, err := NewStock("A", []Bar{bar(Date(2020, 1, 1), "1", "1", "1", "1"), bar(Date(2020, 6, 1), "1", "1", "1", "1")})
	require.NoError(t, err)
	b, err := NewStock("B", []Bar{bar(Date(2019, 5, 1), "1", "1", "1", "1"), bar(Date(2020, 2, 1), "1", "1", "1", "1")})
	require.NoError(t, err)

	r := UniverseRange([]*Stock{a, b})
	assert.Equal(t, Date(2019, 5, 1), r.Min)
	assert.Equal(t, Date(2020, 6, 1), r.Max)
	assert.True(t, a.Covers(Date(2020, 2, 1), Date(2020, 5, 1)))
	assert.False(t, b.Covers(Date(2019, 4, 30), Date(2020, 1, 1)))
}

func TestDateHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, DaysBetween(Date(2021, 1, 29), Date(2021, 2, 1)))
	assert.True(t, IsWeekend(Date(2021, 1, 9)))
	assert.False(t, IsWeekend(Date(2021, 1, 11)))
	assert.True(t, SameMonth(Date(2021, 1, 1), Date(2021, 1, 31)))
	assert.False(t, SameMonth(Date(2021, 1, 1), Date(2022, 1, 1)))
}
