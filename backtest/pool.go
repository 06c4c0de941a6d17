package backtest

import (
	"encoding/json"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/metrics"
	"github.com/rustyeddy/stocksim/pkg/id"
	"github.com/rustyeddy/stocksim/sim"
)

// Pool runs jobs on a fixed number of workers. The universe is shared
// read-only; every run gets its own Market and Strategy.
type Pool struct {
	Universe []*market.Stock
	Account  sim.Params
	Policy   sim.MarginCallPolicy
	Workers  int // 0 uses runtime.NumCPU

	Journal journal.Journal    // optional
	Metrics *metrics.Collector // optional
	Log     zerolog.Logger

	// NewID issues run IDs; defaults to id.New.
	NewID func() string
}

// Run executes every job and returns once all workers have finished.
// Results come back in completion order; failed runs carry Err.
func (p *Pool) Run(jobs []Job) []Result {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(jobs))

	queue := make(chan Job)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]Result, 0, len(jobs))
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				res := p.runOne(job)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()

	return results
}

func (p *Pool) runOne(job Job) Result {
	newID := p.NewID
	if newID == nil {
		newID = id.New
	}
	runID := newID()
	log := p.Log.With().Str("run_id", runID).Str("kind", job.Kind).Logger()

	sinks := journal.Fanout{journal.NewLogSink(log)}
	var rec *journal.Recorder
	if p.Journal != nil {
		rec = journal.NewRecorder(p.Journal, runID)
		sinks = append(sinks, rec)
	}

	r := Runner{
		Universe: p.Universe,
		Options:  RunnerOptions{Account: p.Account, Policy: p.Policy, Sink: sinks},
	}
	res, err := r.Run(job)
	res.RunID = runID
	if err == nil && rec != nil {
		err = rec.Err()
	}
	if err == nil && p.Journal != nil {
		err = p.Journal.RecordRun(runRecord(res, p.Account))
	}
	if err != nil {
		res.Err = err
		p.Metrics.ObserveError()
		log.Error().Err(err).Str("window", job.Window.String()).Msg("run failed")
		return res
	}

	cash, _ := res.FinalCash.Float64()
	p.Metrics.ObserveRun(job.Kind, res.Elapsed, res.Trades, res.MarginCalls, cash)
	log.Debug().
		Str("strategy", res.Strategy).
		Str("window", job.Window.String()).
		Stringer("final_cash", res.FinalCash).
		Int("margin_calls", res.MarginCalls).
		Int("trades", res.Trades).
		Dur("elapsed", res.Elapsed).
		Msg("run complete")
	return res
}

func runRecord(res Result, account sim.Params) journal.RunRecord {
	labels, _ := json.Marshal(res.Labels)
	return journal.RunRecord{
		RunID:       res.RunID,
		Created:     time.Now().UTC(),
		Strategy:    res.Strategy,
		Kind:        res.Kind,
		Labels:      string(labels),
		Start:       res.Window.Start,
		End:         res.Window.End,
		StartCash:   account.Cash,
		FinalCash:   res.FinalCash,
		MarginCalls: res.MarginCalls,
		Trades:      res.Trades,
	}
}
