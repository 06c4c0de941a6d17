package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/rustyeddy/stocksim/strategies"
	"github.com/shopspring/decimal"
)

// Job is one strategy configuration to run over one window.
type Job struct {
	ID     string
	Kind   string
	Params strategies.Params
	Window Window
}

// Result is the outcome of a single run.
type Result struct {
	JobID       string
	RunID       string
	Kind        string
	Strategy    string // display name
	Labels      map[string]string
	Window      Window
	FinalCash   decimal.Decimal
	MarginCalls int
	Trades      int
	Elapsed     time.Duration
	Err         error
}

// RunnerOptions controls how a single run is set up.
type RunnerOptions struct {
	// Account supplies the ledger constants. Start is replaced by the
	// job's window start.
	Account sim.Params
	Policy  sim.MarginCallPolicy

	// Sink, if set, receives every ledger event of the run.
	Sink sim.EventSink
}

// Runner drives one strategy over one window of a shared universe.
type Runner struct {
	Universe []*market.Stock
	Options  RunnerOptions
}

// Run executes the day loop:
//  1. strategy.Trade(market)
//  2. market.AdvanceDay()
//
// until the simulated date reaches the window end, then cashes out.
func (r *Runner) Run(job Job) (Result, error) {
	res := Result{JobID: job.ID, Kind: job.Kind, Window: job.Window}
	if len(r.Universe) == 0 {
		return res, errors.New("backtest: Universe is required")
	}
	if !job.Window.End.After(job.Window.Start) {
		return res, fmt.Errorf("backtest: window %s is empty", job.Window)
	}

	strategy, err := strategies.New(job.Kind, job.Params)
	if err != nil {
		return res, err
	}
	res.Strategy = strategy.Name()
	res.Labels = strategy.Labels()

	began := time.Now()
	counter := &tradeCounter{}
	sinks := journal.Fanout{counter}
	if r.Options.Sink != nil {
		sinks = append(sinks, r.Options.Sink)
	}

	m := sim.New(r.Universe, sim.WithEventSink(sinks), sim.WithMarginCallPolicy(r.Options.Policy))
	account := r.Options.Account
	account.Start = job.Window.Start
	m.Initialize(account)

	for m.Date().Before(job.Window.End) {
		if err := strategy.Trade(m); err != nil {
			return res, fmt.Errorf("backtest: %s on %s: %w", res.Strategy, m.Date().Format(time.DateOnly), err)
		}
		m.AdvanceDay()
	}

	cash, err := m.CashOut()
	if err != nil {
		return res, err
	}

	res.FinalCash = cash
	res.MarginCalls = m.MarginCalls()
	res.Trades = counter.n
	res.Elapsed = time.Since(began)
	return res, nil
}

// tradeCounter counts executions for the run result.
type tradeCounter struct {
	sim.NopSink
	n int
}

func (c *tradeCounter) OnTrade(sim.TradeEvent) { c.n++ }
