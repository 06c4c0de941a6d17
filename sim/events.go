package sim

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeAction distinguishes opening from closing executions.
type TradeAction string

const (
	Open  TradeAction = "open"
	Close TradeAction = "close"
)

// Close reasons.
const (
	ReasonOrder      = "order"
	ReasonMarginCall = "margin-call"
	ReasonCashOut    = "cash-out"
)

// TradeEvent is emitted for every execution.
type TradeEvent struct {
	Date   time.Time
	Action TradeAction
	Side   Side
	Symbol string
	Shares int64
	Price  decimal.Decimal // execution price per share
	Fee    decimal.Decimal
	Gain   decimal.Decimal // realized gain, closes only
	Reason string
	Cash   decimal.Decimal // cash after the execution
}

// DividendEvent is emitted when a dividend is paid to a long or charged to a short.
type DividendEvent struct {
	Date     time.Time
	Symbol   string
	Side     Side
	Shares   int64
	PerShare decimal.Decimal
	Amount   decimal.Decimal // signed cash effect
}

// MarginCallEvent is emitted once per triggered margin call.
type MarginCallEvent struct {
	Date       time.Time
	Equity     decimal.Decimal
	ShortValue decimal.Decimal
	Ratio      decimal.Decimal
	Liquidated int
	Count      int
}

// SettlementKind names a periodic settlement.
type SettlementKind string

const (
	LendingFeeSettlement SettlementKind = "lending-fee"
	TaxRefundSettlement  SettlementKind = "tax-refund"
)

// SettlementEvent is emitted when accrued fees are charged or tax is refunded.
type SettlementEvent struct {
	Date   time.Time
	Kind   SettlementKind
	Amount decimal.Decimal // signed cash effect
}

// EventSink observes ledger activity. Implementations must not mutate the Market.
type EventSink interface {
	OnTrade(TradeEvent)
	OnDividend(DividendEvent)
	OnMarginCall(MarginCallEvent)
	OnSettlement(SettlementEvent)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnTrade(TradeEvent)           {}
func (NopSink) OnDividend(DividendEvent)     {}
func (NopSink) OnMarginCall(MarginCallEvent) {}
func (NopSink) OnSettlement(SettlementEvent) {}
