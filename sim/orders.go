package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/stocksim/market"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds rejects an order whose cost exceeds available funds.
	// It is routine: the ledger is left untouched and the caller may retry later.
	ErrInsufficientFunds = errors.New("sim: insufficient funds")

	// ErrInvalidShares rejects orders for zero or negative share counts.
	ErrInvalidShares = errors.New("sim: share count must be positive")

	// ErrNoPrice rejects orders on a stock with no bar at the current date.
	ErrNoPrice = errors.New("sim: no price")

	// ErrUnknownPosition is returned when liquidating a position this Market does not hold.
	ErrUnknownPosition = errors.New("sim: unknown position")
)

// AskPrice is the execution price for opening a position in stock today:
// the reference price plus the spread.
func (m *Market) AskPrice(stock *market.Stock) (decimal.Decimal, error) {
	bar, ok := stock.BarAt(m.date)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s on %s: %w", stock.Symbol(), m.date.Format("2006-01-02"), ErrNoPrice)
	}
	return bar.Price().Add(m.params.Spread), nil
}

// Buy opens a long position, debiting shares×(price+spread)+fee.
func (m *Market) Buy(stock *market.Stock, shares int64) (*Position, error) {
	if shares <= 0 {
		return nil, ErrInvalidShares
	}
	price, err := m.AskPrice(stock)
	if err != nil {
		return nil, err
	}

	total := price.Mul(decimal.NewFromInt(shares)).Add(m.params.OrderFee)
	if total.GreaterThan(m.AvailableFunds()) {
		return nil, ErrInsufficientFunds
	}

	m.cash = m.cash.Sub(total)
	p := &Position{
		stock:  stock,
		shares: shares,
		entry:  price,
		side:   Long,
		opened: m.date,
	}
	m.positions = append(m.positions, p)
	m.emitTrade(p, Open, price, decimal.Zero, ReasonOrder)
	return p, nil
}

// Short opens a short position. Only the fee is debited; the initial margin
// is reserved out of available funds and sale proceeds are not credited.
func (m *Market) Short(stock *market.Stock, shares int64) (*Position, error) {
	if shares <= 0 {
		return nil, ErrInvalidShares
	}
	price, err := m.AskPrice(stock)
	if err != nil {
		return nil, err
	}

	margin := m.params.InitialMargin.Mul(decimal.NewFromInt(shares)).Mul(price)
	required := margin.Add(m.params.OrderFee)
	if required.GreaterThan(m.AvailableFunds()) {
		return nil, ErrInsufficientFunds
	}

	m.cash = m.cash.Sub(m.params.OrderFee)
	m.reservedMargin = m.reservedMargin.Add(margin)
	p := &Position{
		stock:  stock,
		shares: shares,
		entry:  price,
		side:   Short,
		opened: m.date,
		margin: margin,
	}
	m.positions = append(m.positions, p)
	m.emitTrade(p, Open, price, decimal.Zero, ReasonOrder)
	return p, nil
}

// Liquidate closes p at today's reference price.
func (m *Market) Liquidate(p *Position) error {
	return m.liquidate(p, ReasonOrder)
}

// LiquidateAll closes every open position.
func (m *Market) LiquidateAll() error {
	return m.liquidateAll(ReasonOrder)
}

// CashOut closes everything and settles tax and lending fees regardless of
// the calendar, returning the final cash balance.
func (m *Market) CashOut() (decimal.Decimal, error) {
	if err := m.liquidateAll(ReasonCashOut); err != nil {
		return m.cash, err
	}
	m.settleTaxes()
	m.settleLendingFee()
	return m.cash, nil
}

func (m *Market) liquidateAll(reason string) error {
	// liquidation mutates m.positions
	for _, p := range m.Positions() {
		if err := m.liquidate(p, reason); err != nil {
			return err
		}
	}
	return nil
}

func (m *Market) liquidate(p *Position, reason string) error {
	idx := m.indexOf(p)
	if idx < 0 {
		return fmt.Errorf("liquidate %s: %w", p.stock.Symbol(), ErrUnknownPosition)
	}

	price := p.stock.PriceAt(m.date)
	n := decimal.NewFromInt(p.shares)
	fee := m.params.OrderFee

	var gain decimal.Decimal
	switch p.side {
	case Long:
		gain = price.Sub(p.entry).Mul(n)
		m.cash = m.cash.Add(price.Mul(n)).Sub(fee)
	case Short:
		gain = p.entry.Sub(price).Mul(n)
		m.cash = m.cash.Add(gain).Sub(fee)
		m.reservedMargin = m.reservedMargin.Sub(p.margin)
		if m.reservedMargin.IsNegative() {
			panic(fmt.Sprintf("sim: reserved margin went negative (%s) closing %s", m.reservedMargin, p.stock.Symbol()))
		}
	}

	m.positions = append(m.positions[:idx], m.positions[idx+1:]...)
	m.bookCapitalGains(gain)
	m.emitTrade(p, Close, price, gain, reason)
	return nil
}

func (m *Market) indexOf(p *Position) int {
	for i, q := range m.positions {
		if q == p {
			return i
		}
	}
	return -1
}

func (m *Market) emitTrade(p *Position, action TradeAction, price, gain decimal.Decimal, reason string) {
	m.sink.OnTrade(TradeEvent{
		Date:   m.date,
		Action: action,
		Side:   p.side,
		Symbol: p.stock.Symbol(),
		Shares: p.shares,
		Price:  price,
		Fee:    m.params.OrderFee,
		Gain:   gain,
		Reason: reason,
		Cash:   m.cash,
	})
}
