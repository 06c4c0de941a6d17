package sim

import (
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/shopspring/decimal"
)

// Side is the direction of a position.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// Position is an open trade. It never changes after it is opened and is
// removed from the Market when liquidated.
type Position struct {
	stock  *market.Stock
	shares int64
	entry  decimal.Decimal // spread-inclusive execution price
	side   Side
	opened time.Time

	// initial margin booked at open; zero for longs
	margin decimal.Decimal
}

func (p *Position) Stock() *market.Stock        { return p.stock }
func (p *Position) Shares() int64               { return p.shares }
func (p *Position) EntryPrice() decimal.Decimal { return p.entry }
func (p *Position) Side() Side                  { return p.side }
func (p *Position) IsShort() bool               { return p.side == Short }
func (p *Position) Opened() time.Time           { return p.opened }

// InitialMargin is the margin reserved for this position when it was opened.
func (p *Position) InitialMargin() decimal.Decimal { return p.margin }

// Value is the position's contribution to equity on date: market value for
// longs, unrealized gain for shorts.
func (p *Position) Value(date time.Time) decimal.Decimal {
	price := p.stock.PriceAt(date)
	n := decimal.NewFromInt(p.shares)
	if p.side == Short {
		return p.entry.Sub(price).Mul(n)
	}
	return price.Mul(n)
}

// Return is the sign-adjusted unrealized return on date: positive when the
// position is in profit regardless of direction.
func (p *Position) Return(date time.Time) decimal.Decimal {
	price := p.stock.PriceAt(date)
	r := price.Sub(p.entry).Div(p.entry)
	if p.side == Short {
		return r.Neg()
	}
	return r
}
