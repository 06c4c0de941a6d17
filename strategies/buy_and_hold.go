package strategies

import "github.com/rustyeddy/stocksim/sim"

// BuyAndHold puts all available funds into one stock the first day it can
// and never sells. It is the benchmark other strategies are ranked against.
type BuyAndHold struct {
	Symbol string
	held   *sim.Position
}

func NewBuyAndHold(symbol string) *BuyAndHold {
	return &BuyAndHold{Symbol: symbol}
}

func (b *BuyAndHold) Name() string { return KindBuyAndHold }

func (b *BuyAndHold) Labels() map[string]string {
	return map[string]string{"kind": KindBuyAndHold}
}

func (b *BuyAndHold) Trade(m Market) error {
	if b.held != nil {
		return nil
	}
	stock, err := findStock(m, b.Symbol)
	if err != nil {
		return err
	}
	if _, ok := stock.BarAt(m.Date()); !ok {
		return nil
	}
	p, err := buyAll(m, stock)
	if err != nil {
		return err
	}
	b.held = p
	return nil
}
