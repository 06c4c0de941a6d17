package indicators

import (
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/shopspring/decimal"
)

// DefaultWindow is the number of bars the rally and volatility gates look back over.
const DefaultWindow = 20

// Rally measures how far today's open has moved from the oldest open in a
// full window of recent bars.
type Rally struct {
	win *Window
}

func NewRally(size int) *Rally { return &Rally{win: NewWindow(size)} }

func (r *Rally) Name() string        { return fmt.Sprintf("Rally(%d)", r.win.Size()) }
func (r *Rally) Warmup() int         { return r.win.Size() }
func (r *Rally) Ready() bool         { return r.win.Full() }
func (r *Rally) Reset()              { r.win.Reset() }
func (r *Rally) Update(b market.Bar) { r.win.Update(b) }

// Value is open/oldestOpen − 1, or zero until the window is full.
func (r *Rally) Value(open decimal.Decimal) decimal.Decimal {
	if !r.Ready() {
		return decimal.Zero
	}
	oldest, _ := r.win.Oldest()
	return open.Div(oldest.Open).Sub(decimal.NewFromInt(1))
}

// Above reports a rally strictly greater than threshold.
func (r *Rally) Above(open, threshold decimal.Decimal) bool {
	return r.Ready() && r.Value(open).GreaterThan(threshold)
}

// Volatility is the high/low range of a full window: maxHigh/minLow − 1.
type Volatility struct {
	win *Window
}

func NewVolatility(size int) *Volatility { return &Volatility{win: NewWindow(size)} }

func (v *Volatility) Name() string        { return fmt.Sprintf("Volatility(%d)", v.win.Size()) }
func (v *Volatility) Warmup() int         { return v.win.Size() }
func (v *Volatility) Ready() bool         { return v.win.Full() }
func (v *Volatility) Reset()              { v.win.Reset() }
func (v *Volatility) Update(b market.Bar) { v.win.Update(b) }

func (v *Volatility) Value() decimal.Decimal {
	if !v.Ready() {
		return decimal.Zero
	}
	first := v.win.At(0)
	high, low := first.High, first.Low
	for i := 1; i < v.win.Len(); i++ {
		b := v.win.At(i)
		high = decimal.Max(high, b.High)
		low = decimal.Min(low, b.Low)
	}
	return high.Div(low).Sub(decimal.NewFromInt(1))
}

// Below reports a range strictly under threshold.
func (v *Volatility) Below(threshold decimal.Decimal) bool {
	return v.Ready() && v.Value().LessThan(threshold)
}

// TrailingReturn is price(to)/price(from) − 1. It is false when the stock's
// recorded history does not cover [from, to].
func TrailingReturn(s *market.Stock, from, to time.Time) (decimal.Decimal, bool) {
	if !s.Covers(from, to) {
		return decimal.Zero, false
	}
	start := s.PriceAt(from)
	if start.IsZero() {
		return decimal.Zero, false
	}
	return s.PriceAt(to).Div(start).Sub(decimal.NewFromInt(1)), true
}
