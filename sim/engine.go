package sim

import (
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/shopspring/decimal"
)

// Params are the account constants fixed for a run.
type Params struct {
	Cash              decimal.Decimal
	OrderFee          decimal.Decimal
	TaxRate           decimal.Decimal
	InitialMargin     decimal.Decimal // fraction of short notional reserved at open
	MaintenanceMargin decimal.Decimal // equity / short market value floor
	LendingFeeRate    decimal.Decimal // annual rate on short notional at entry
	Spread            decimal.Decimal // per share, always against the trader
	Start             time.Time
}

// DefaultParams returns the reference brokerage constants starting at start.
func DefaultParams(start time.Time) Params {
	return Params{
		Cash:              decimal.NewFromInt(100_000),
		OrderFee:          decimal.NewFromInt(10),
		TaxRate:           decimal.RequireFromString("0.25").Mul(decimal.RequireFromString("1.0505")),
		InitialMargin:     decimal.RequireFromString("0.5"),
		MaintenanceMargin: decimal.RequireFromString("0.3"),
		LendingFeeRate:    decimal.RequireFromString("0.03"),
		Spread:            decimal.RequireFromString("0.01"),
		Start:             start,
	}
}

// MarginCallPolicy selects how a margin call is resolved.
type MarginCallPolicy int

const (
	// LiquidateAll closes every open position in one pass.
	LiquidateAll MarginCallPolicy = iota
	// LiquidateIteratively closes the oldest open position and rechecks until
	// the account is back above maintenance or flat.
	LiquidateIteratively
)

func (p MarginCallPolicy) String() string {
	switch p {
	case LiquidateIteratively:
		return "liquidate-iteratively"
	default:
		return "liquidate-all"
	}
}

// Market is a single-account brokerage ledger stepped one day at a time.
// A Market is owned by exactly one run and is not safe for concurrent use.
type Market struct {
	params Params
	policy MarginCallPolicy
	sink   EventSink

	stocks    []*market.Stock
	positions []*Position

	date time.Time
	cash decimal.Decimal

	reservedMargin decimal.Decimal
	accruedFee     decimal.Decimal
	gainsToDate    decimal.Decimal
	lossesToDate   decimal.Decimal
	marginCalls    int
}

// Option configures a Market.
type Option func(*Market)

// WithEventSink routes ledger events to sink.
func WithEventSink(sink EventSink) Option {
	return func(m *Market) {
		if sink != nil {
			m.sink = sink
		}
	}
}

// WithMarginCallPolicy overrides the default LiquidateAll resolution.
func WithMarginCallPolicy(p MarginCallPolicy) Option {
	return func(m *Market) { m.policy = p }
}

// New binds a Market to a fixed, read-only universe. Call Initialize before trading.
func New(stocks []*market.Stock, opts ...Option) *Market {
	m := &Market{
		stocks: stocks,
		sink:   NopSink{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize resets the account to p and sets the simulated date to p.Start.
func (m *Market) Initialize(p Params) {
	m.params = p
	m.date = market.Day(p.Start)
	m.cash = p.Cash
	m.positions = nil
	m.reservedMargin = decimal.Zero
	m.accruedFee = decimal.Zero
	m.gainsToDate = decimal.Zero
	m.lossesToDate = decimal.Zero
	m.marginCalls = 0
}

func (m *Market) Params() Params                     { return m.params }
func (m *Market) Date() time.Time                    { return m.date }
func (m *Market) Cash() decimal.Decimal              { return m.cash }
func (m *Market) MarginCalls() int                   { return m.marginCalls }
func (m *Market) Stocks() []*market.Stock            { return m.stocks }
func (m *Market) ReservedMargin() decimal.Decimal    { return m.reservedMargin }
func (m *Market) AccruedLendingFee() decimal.Decimal { return m.accruedFee }
func (m *Market) GainsToDate() decimal.Decimal       { return m.gainsToDate }
func (m *Market) LossesToDate() decimal.Decimal      { return m.lossesToDate }

// AvailableFunds is cash not reserved as initial margin for open shorts.
func (m *Market) AvailableFunds() decimal.Decimal {
	return m.cash.Sub(m.reservedMargin)
}

// Positions returns a snapshot of open positions in the order they were opened.
func (m *Market) Positions() []*Position {
	out := make([]*Position, len(m.positions))
	copy(out, m.positions)
	return out
}

// DateRange spans the universe's recorded history.
func (m *Market) DateRange() market.DateRange {
	return market.UniverseRange(m.stocks)
}

// Equity values the account at today's prices: cash plus long market value
// plus unrealized short gains.
func (m *Market) Equity() decimal.Decimal {
	equity := m.cash
	for _, p := range m.positions {
		equity = equity.Add(p.Value(m.date))
	}
	return equity
}
