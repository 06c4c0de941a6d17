package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("journal: run not found")

// SQLite is a Journal backed by a single SQLite file.
type SQLite struct {
	mu sync.Mutex
	db *sqlx.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// pool workers share one writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.db.NamedExec(`
		INSERT INTO trades
		(run_id, seq, date, action, side, symbol, shares, price, fee, gain, reason, cash)
		VALUES (:run_id, :seq, :date, :action, :side, :symbol, :shares, :price, :fee, :gain, :reason, :cash)`, t)
	return err
}

func (j *SQLite) RecordCashFlow(c CashFlowRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.db.NamedExec(`
		INSERT INTO cash_flows (run_id, date, kind, symbol, amount)
		VALUES (:run_id, :date, :kind, :symbol, :amount)`, c)
	return err
}

func (j *SQLite) RecordRun(r RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.db.NamedExec(`
		INSERT INTO runs
		(run_id, created, strategy, kind, labels, start_date, end_date, start_cash, final_cash, margin_calls, trades)
		VALUES (:run_id, :created, :strategy, :kind, :labels, :start_date, :end_date, :start_cash, :final_cash, :margin_calls, :trades)`, r)
	return err
}

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var r RunRecord
	err := j.db.Get(&r, `SELECT * FROM runs WHERE run_id = ?`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%q: %w", runID, ErrRunNotFound)
	}
	return r, err
}

// ListRuns returns runs newest first. A positive limit caps the result.
func (j *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	q := `SELECT * FROM runs ORDER BY run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	var out []RunRecord
	if err := j.db.Select(&out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesByRun returns a run's executions in order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	var out []TradeRecord
	err := j.db.Select(&out, `SELECT * FROM trades WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListCashFlowsByRun returns a run's dividends and settlements by date.
func (j *SQLite) ListCashFlowsByRun(runID string) ([]CashFlowRecord, error) {
	var out []CashFlowRecord
	err := j.db.Select(&out, `SELECT * FROM cash_flows WHERE run_id = ? ORDER BY date, rowid`, runID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
