package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// CSV is a Journal writing trades.csv, cash_flows.csv and runs.csv into a
// directory.
type CSV struct {
	mu     sync.Mutex
	trades *csv.Writer
	flows  *csv.Writer
	runs   *csv.Writer
	files  []*os.File
}

var _ Journal = (*CSV)(nil)

var (
	tradeHeader = []string{"run_id", "seq", "date", "action", "side", "symbol", "shares", "price", "fee", "gain", "reason", "cash"}
	flowHeader  = []string{"run_id", "date", "kind", "symbol", "amount"}
	runHeader   = []string{"run_id", "created", "strategy", "kind", "labels", "start", "end", "start_cash", "final_cash", "margin_calls", "trades"}
)

func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	j := &CSV{}
	open := func(name string, header []string) (*csv.Writer, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		w.Flush()
		return w, w.Error()
	}

	var err error
	if j.trades, err = open("trades.csv", tradeHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.flows, err = open("cash_flows.csv", flowHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.runs, err = open("runs.csv", runHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	return j, nil
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.RunID,
		strconv.Itoa(t.Seq),
		day(t.Date),
		t.Action,
		t.Side,
		t.Symbol,
		strconv.FormatInt(t.Shares, 10),
		t.Price.String(),
		t.Fee.String(),
		t.Gain.String(),
		t.Reason,
		t.Cash.String(),
	})
}

func (j *CSV) RecordCashFlow(c CashFlowRecord) error {
	return j.write(j.flows, []string{
		c.RunID,
		day(c.Date),
		c.Kind,
		c.Symbol,
		c.Amount.String(),
	})
}

func (j *CSV) RecordRun(r RunRecord) error {
	return j.write(j.runs, []string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339),
		r.Strategy,
		r.Kind,
		r.Labels,
		day(r.Start),
		day(r.End),
		r.StartCash.String(),
		r.FinalCash.String(),
		strconv.Itoa(r.MarginCalls),
		strconv.Itoa(r.Trades),
	})
}

func (j *CSV) write(w *csv.Writer, row []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, w := range []*csv.Writer{j.trades, j.flows, j.runs} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	return j.closeFiles()
}

func (j *CSV) closeFiles() error {
	var first error
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	j.files = nil
	return first
}

func day(t time.Time) string {
	return t.Format(time.DateOnly)
}
