// Package journal persists what happens during backtest runs: trades, cash
// flows and per-run results.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one execution inside a run.
type TradeRecord struct {
	RunID  string          `db:"run_id"`
	Seq    int             `db:"seq"` // execution order within the run
	Date   time.Time       `db:"date"`
	Action string          `db:"action"` // open | close
	Side   string          `db:"side"`   // long | short
	Symbol string          `db:"symbol"`
	Shares int64           `db:"shares"`
	Price  decimal.Decimal `db:"price"`
	Fee    decimal.Decimal `db:"fee"`
	Gain   decimal.Decimal `db:"gain"`
	Reason string          `db:"reason"`
	Cash   decimal.Decimal `db:"cash"`
}

// Cash flow kinds.
const (
	FlowDividend   = "dividend"
	FlowLendingFee = "lending-fee"
	FlowTaxRefund  = "tax-refund"
)

// CashFlowRecord is a cash movement that is not an execution.
type CashFlowRecord struct {
	RunID  string          `db:"run_id"`
	Date   time.Time       `db:"date"`
	Kind   string          `db:"kind"`
	Symbol string          `db:"symbol"` // empty for account-level settlements
	Amount decimal.Decimal `db:"amount"` // signed cash effect
}

// RunRecord summarizes a finished run.
type RunRecord struct {
	RunID       string          `db:"run_id"`
	Created     time.Time       `db:"created"`
	Strategy    string          `db:"strategy"` // display name
	Kind        string          `db:"kind"`
	Labels      string          `db:"labels"` // JSON object of parameter labels
	Start       time.Time       `db:"start_date"`
	End         time.Time       `db:"end_date"`
	StartCash   decimal.Decimal `db:"start_cash"`
	FinalCash   decimal.Decimal `db:"final_cash"`
	MarginCalls int             `db:"margin_calls"`
	Trades      int             `db:"trades"`
}

// Journal stores run history. Implementations are safe for concurrent use.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordCashFlow(CashFlowRecord) error
	RecordRun(RunRecord) error
	Close() error
}
