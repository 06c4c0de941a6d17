// Package indicators holds bounded, streaming signals over daily bars.
package indicators

import "github.com/rustyeddy/stocksim/market"

// Window is a fixed-capacity ring buffer of bars. Once full, each Update
// evicts the oldest bar.
type Window struct {
	bars  []market.Bar
	start int
	count int
}

// NewWindow creates a Window holding at most size bars.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{bars: make([]market.Bar, size)}
}

func (w *Window) Size() int  { return len(w.bars) }
func (w *Window) Len() int   { return w.count }
func (w *Window) Full() bool { return w.count == len(w.bars) }

func (w *Window) Reset() {
	w.start = 0
	w.count = 0
}

func (w *Window) Update(b market.Bar) {
	if w.count < len(w.bars) {
		w.bars[(w.start+w.count)%len(w.bars)] = b
		w.count++
		return
	}
	w.bars[w.start] = b
	w.start = (w.start + 1) % len(w.bars)
}

// At returns the i-th bar, oldest first.
func (w *Window) At(i int) market.Bar {
	return w.bars[(w.start+i)%len(w.bars)]
}

// Oldest returns the first bar still in the window.
func (w *Window) Oldest() (market.Bar, bool) {
	if w.count == 0 {
		return market.Bar{}, false
	}
	return w.At(0), true
}

// Bars copies the window contents, oldest first.
func (w *Window) Bars() []market.Bar {
	out := make([]market.Bar, w.count)
	for i := range out {
		out[i] = w.At(i)
	}
	return out
}
