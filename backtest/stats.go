package backtest

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StrategyStat is the median final cash of one strategy across windows.
type StrategyStat struct {
	Strategy string
	Median   decimal.Decimal
	Runs     int
}

// MedianByStrategy groups successful results by display name and returns
// the median final cash of each, best first.
func MedianByStrategy(results []Result) []StrategyStat {
	groups := map[string][]decimal.Decimal{}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		groups[r.Strategy] = append(groups[r.Strategy], r.FinalCash)
	}

	out := make([]StrategyStat, 0, len(groups))
	for name, cash := range groups {
		out = append(out, StrategyStat{Strategy: name, Median: median(cash), Runs: len(cash)})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Median.Cmp(out[j].Median); c != 0 {
			return c > 0
		}
		return out[i].Strategy < out[j].Strategy
	})
	return out
}

func median(xs []decimal.Decimal) decimal.Decimal {
	if len(xs) == 0 {
		return decimal.Zero
	}
	s := make([]decimal.Decimal, len(xs))
	copy(s, xs)
	sort.Slice(s, func(i, j int) bool { return s[i].LessThan(s[j]) })

	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return s[mid-1].Add(s[mid]).Div(decimal.NewFromInt(2))
}

// ClassAverage is the mean final cash of every run sharing one label value.
type ClassAverage struct {
	Value string
	Cash  decimal.Decimal
	Runs  int
}

// ClassAverages groups successful results by the value of label and
// averages their final cash, best first. Results without the label are
// skipped.
func ClassAverages(results []Result, label string) []ClassAverage {
	sums := map[string]decimal.Decimal{}
	counts := map[string]int{}
	for _, r := range results {
		v, ok := r.Labels[label]
		if r.Err != nil || !ok {
			continue
		}
		sums[v] = sums[v].Add(r.FinalCash)
		counts[v]++
	}

	out := make([]ClassAverage, 0, len(sums))
	for v, sum := range sums {
		n := counts[v]
		out = append(out, ClassAverage{Value: v, Cash: sum.Div(decimal.NewFromInt(int64(n))), Runs: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Cash.Cmp(out[j].Cash); c != 0 {
			return c > 0
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// LabelKeys lists every label name seen across results, sorted, except kind.
func LabelKeys(results []Result) []string {
	seen := map[string]bool{}
	for _, r := range results {
		for k := range r.Labels {
			if k != "kind" {
				seen[k] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
