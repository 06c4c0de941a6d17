package backtest

import (
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
)

// Ranked is a result with its performance against the reference.
type Ranked struct {
	Result
	Performance decimal.Decimal
}

// Summary ranks one window's results against the reference cash.
type Summary struct {
	Window        Window
	ReferenceCash decimal.Decimal
	Ranked        []Ranked
	Failed        []Result
}

// Summarize sorts successful results by final cash, best first.
func Summarize(w Window, reference decimal.Decimal, results []Result) Summary {
	s := Summary{Window: w, ReferenceCash: reference}
	for _, r := range results {
		if r.Err != nil {
			s.Failed = append(s.Failed, r)
			continue
		}
		s.Ranked = append(s.Ranked, Ranked{Result: r, Performance: Performance(r.FinalCash, reference)})
	}
	sort.Slice(s.Ranked, func(i, j int) bool {
		if c := s.Ranked[i].FinalCash.Cmp(s.Ranked[j].FinalCash); c != 0 {
			return c > 0
		}
		return s.Ranked[i].Strategy < s.Ranked[j].Strategy
	})
	return s
}

// Best returns at most n ranked results.
func (s Summary) Best(n int) []Ranked {
	if n <= 0 || n >= len(s.Ranked) {
		return s.Ranked
	}
	return s.Ranked[:n]
}

// Print writes a plain-text report of the best n results (0 for all) and
// per-label class averages.
func (s Summary) Print(w io.Writer, n int) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Window %s\n", s.Window)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Reference:     %s\n", s.ReferenceCash.StringFixed(2))
	fmt.Fprintf(w, "Runs:          %d\n", len(s.Ranked)+len(s.Failed))
	if len(s.Failed) > 0 {
		fmt.Fprintf(w, "Failed:        %d\n", len(s.Failed))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Strategies")
	fmt.Fprintln(w, "--------------------------------------------------")
	for _, r := range s.Best(n) {
		fmt.Fprintf(w, "  %s: %s (%s)", r.Strategy, r.FinalCash.StringFixed(2), FormatPerformance(r.Performance))
		if r.MarginCalls > 0 {
			fmt.Fprintf(w, " [%d margin call(s)]", r.MarginCalls)
		}
		fmt.Fprintln(w)
	}

	results := make([]Result, len(s.Ranked))
	for i, r := range s.Ranked {
		results[i] = r.Result
	}
	for _, label := range LabelKeys(results) {
		classes := ClassAverages(results, label)
		if len(classes) < 2 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "By %s\n", label)
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, c := range classes {
			fmt.Fprintf(w, "  %s: %s (%s)\n", c.Value, c.Cash.StringFixed(2), FormatPerformance(Performance(c.Cash, s.ReferenceCash)))
		}
	}
	fmt.Fprintln(w)
}

// PrintMedians writes the cross-window median table.
func PrintMedians(w io.Writer, stats []StrategyStat) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Median across windows")
	fmt.Fprintln(w, "==================================================")
	for _, s := range stats {
		fmt.Fprintf(w, "  %s: %s (%d runs)\n", s.Strategy, s.Median.StringFixed(2), s.Runs)
	}
	fmt.Fprintln(w)
}

// FormatPerformance renders a fraction as a signed percentage.
func FormatPerformance(p decimal.Decimal) string {
	pct := p.Shift(2).Round(2)
	if pct.IsZero() {
		return "0%"
	}
	if pct.IsPositive() {
		return "+" + pct.String() + "%"
	}
	return pct.String() + "%"
}
