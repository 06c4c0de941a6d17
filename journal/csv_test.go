package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{tradeHeader}, readCSV(t, filepath.Join(dir, "trades.csv")))
	assert.Equal(t, [][]string{flowHeader}, readCSV(t, filepath.Join(dir, "cash_flows.csv")))
	assert.Equal(t, [][]string{runHeader}, readCSV(t, filepath.Join(dir, "runs.csv")))
}

func TestCSVJournalRows(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	j, err := NewCSV(dir)
	require.NoError(t, err)

	for _, tr := range sampleTrades("r1") {
		require.NoError(t, j.RecordTrade(tr))
	}
	require.NoError(t, j.RecordCashFlow(CashFlowRecord{
		RunID: "r1", Date: date(2020, 1, 15), Kind: FlowDividend, Symbol: "AAA", Amount: d("22"),
	}))
	require.NoError(t, j.RecordRun(sampleRun("r1")))
	require.NoError(t, j.Close())

	trades := readCSV(t, filepath.Join(dir, "trades.csv"))
	require.Len(t, trades, 3)
	assert.Equal(t, []string{
		"r1", "2", "2020-02-03", "close", "long", "AAA", "100",
		"11.945", "10", "169.5", "order", "100137.125",
	}, trades[2])

	flows := readCSV(t, filepath.Join(dir, "cash_flows.csv"))
	require.Len(t, flows, 2)
	assert.Equal(t, []string{"r1", "2020-01-15", "dividend", "AAA", "22"}, flows[1])

	runs := readCSV(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, runs, 2)
	assert.Equal(t, "2024-03-01T12:30:00Z", runs[1][1])
	assert.Equal(t, `{"pullback":"0.1","recovery":"5"}`, runs[1][4])
	assert.Equal(t, "104321.175", runs[1][8])
}
