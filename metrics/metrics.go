// Package metrics exposes Prometheus collectors for backtest sweeps.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stocksim"

// Collector holds the sweep metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	RunsTotal        *prometheus.CounterVec
	TradesTotal      *prometheus.CounterVec
	MarginCallsTotal prometheus.Counter
	RunErrorsTotal   prometheus.Counter
	RunDuration      prometheus.Histogram
	FinalCash        *prometheus.GaugeVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed backtest runs by strategy kind",
		}, []string{"strategy"}),
		TradesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Executions across all runs by strategy kind",
		}, []string{"strategy"}),
		MarginCallsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "margin_calls_total",
			Help:      "Margin calls triggered across all runs",
		}),
		RunErrorsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_errors_total",
			Help:      "Runs aborted by a strategy or journal error",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a single backtest run",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		FinalCash: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "final_cash",
			Help:      "Final cash of the most recent run by strategy kind",
		}, []string{"strategy"}),
	}
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(kind string, elapsed time.Duration, trades, marginCalls int, finalCash float64) {
	if c == nil {
		return
	}
	c.RunsTotal.WithLabelValues(kind).Inc()
	c.TradesTotal.WithLabelValues(kind).Add(float64(trades))
	c.MarginCallsTotal.Add(float64(marginCalls))
	c.RunDuration.Observe(elapsed.Seconds())
	c.FinalCash.WithLabelValues(kind).Set(finalCash)
}

// ObserveError records a failed run.
func (c *Collector) ObserveError() {
	if c == nil {
		return
	}
	c.RunErrorsTotal.Inc()
}
