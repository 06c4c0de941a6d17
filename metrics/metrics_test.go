package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveRun("momentum", 20*time.Millisecond, 12, 1, 101500)
	c.ObserveRun("momentum", 30*time.Millisecond, 4, 0, 99000)
	c.ObserveRun("buy-and-hold", 5*time.Millisecond, 2, 0, 120000)
	c.ObserveError()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.RunsTotal.WithLabelValues("momentum")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.RunsTotal.WithLabelValues("buy-and-hold")))
	assert.Equal(t, float64(16), testutil.ToFloat64(c.TradesTotal.WithLabelValues("momentum")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.MarginCallsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.RunErrorsTotal))
	assert.Equal(t, float64(99000), testutil.ToFloat64(c.FinalCash.WithLabelValues("momentum")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.RunDuration))

	expected := `
# HELP stocksim_margin_calls_total Margin calls triggered across all runs
# TYPE stocksim_margin_calls_total counter
stocksim_margin_calls_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "stocksim_margin_calls_total"))
}

func TestNilCollector(t *testing.T) {
	t.Parallel()

	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRun("noop", time.Second, 0, 0, 0)
		c.ObserveError()
	})
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
