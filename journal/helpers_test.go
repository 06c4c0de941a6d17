package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func sampleRun(id string) RunRecord {
	return RunRecord{
		RunID:       id,
		Created:     time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Strategy:    "trailing-stop(pullback=0.1, recovery=5)",
		Kind:        "trailing-stop",
		Labels:      `{"pullback":"0.1","recovery":"5"}`,
		Start:       date(2020, time.January, 2),
		End:         date(2021, time.January, 2),
		StartCash:   d("100000"),
		FinalCash:   d("104321.175"),
		MarginCalls: 1,
		Trades:      2,
	}
}

func sampleTrades(runID string) []TradeRecord {
	return []TradeRecord{
		{
			RunID: runID, Seq: 1, Date: date(2020, time.January, 2),
			Action: "open", Side: "long", Symbol: "AAA", Shares: 100,
			Price: d("10.05"), Fee: d("10"), Gain: decimal.Zero,
			Reason: "order", Cash: d("98985"),
		},
		{
			RunID: runID, Seq: 2, Date: date(2020, time.February, 3),
			Action: "close", Side: "long", Symbol: "AAA", Shares: 100,
			Price: d("11.945"), Fee: d("10"), Gain: d("169.5"),
			Reason: "order", Cash: d("100137.125"),
		},
	}
}

// memJournal keeps records in memory.
type memJournal struct {
	trades []TradeRecord
	flows  []CashFlowRecord
	runs   []RunRecord
	err    error
	closed bool
}

func (j *memJournal) RecordTrade(t TradeRecord) error {
	j.trades = append(j.trades, t)
	return j.err
}

func (j *memJournal) RecordCashFlow(c CashFlowRecord) error {
	j.flows = append(j.flows, c)
	return j.err
}

func (j *memJournal) RecordRun(r RunRecord) error {
	j.runs = append(j.runs, r)
	return j.err
}

func (j *memJournal) Close() error {
	j.closed = true
	return nil
}
