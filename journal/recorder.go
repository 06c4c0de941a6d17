package journal

import (
	"sync"

	"github.com/rustyeddy/stocksim/sim"
)

// Recorder adapts a Journal into a sim.EventSink for a single run. The
// ledger cannot handle write errors, so the first one is kept for Err.
type Recorder struct {
	j     Journal
	runID string

	mu     sync.Mutex
	seq    int
	trades int
	err    error
}

var _ sim.EventSink = (*Recorder)(nil)

func NewRecorder(j Journal, runID string) *Recorder {
	return &Recorder{j: j, runID: runID}
}

func (r *Recorder) OnTrade(e sim.TradeEvent) {
	r.mu.Lock()
	r.seq++
	r.trades++
	seq := r.seq
	r.mu.Unlock()

	r.keep(r.j.RecordTrade(TradeRecord{
		RunID:  r.runID,
		Seq:    seq,
		Date:   e.Date,
		Action: string(e.Action),
		Side:   e.Side.String(),
		Symbol: e.Symbol,
		Shares: e.Shares,
		Price:  e.Price,
		Fee:    e.Fee,
		Gain:   e.Gain,
		Reason: e.Reason,
		Cash:   e.Cash,
	}))
}

func (r *Recorder) OnDividend(e sim.DividendEvent) {
	r.keep(r.j.RecordCashFlow(CashFlowRecord{
		RunID:  r.runID,
		Date:   e.Date,
		Kind:   FlowDividend,
		Symbol: e.Symbol,
		Amount: e.Amount,
	}))
}

// OnMarginCall is a no-op: calls are counted on the run record and the
// resulting liquidations arrive as trades.
func (r *Recorder) OnMarginCall(sim.MarginCallEvent) {}

func (r *Recorder) OnSettlement(e sim.SettlementEvent) {
	kind := FlowTaxRefund
	if e.Kind == sim.LendingFeeSettlement {
		kind = FlowLendingFee
	}
	r.keep(r.j.RecordCashFlow(CashFlowRecord{
		RunID:  r.runID,
		Date:   e.Date,
		Kind:   kind,
		Amount: e.Amount,
	}))
}

// Trades is the number of executions seen.
func (r *Recorder) Trades() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trades
}

// Err returns the first journal write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) keep(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.mu.Unlock()
}
