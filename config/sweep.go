package config

import (
	"fmt"

	"github.com/rustyeddy/stocksim/strategies"
	"github.com/shopspring/decimal"
)

// SweepConfig is a parameter grid for one strategy kind. Every combination
// of the listed values becomes a run; an empty list leaves that parameter at
// its zero value.
type SweepConfig struct {
	Kind   string `json:"kind" yaml:"kind"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`

	Pullback     []decimal.Decimal `json:"pullback,omitempty" yaml:"pullback,omitempty"`
	RecoveryDays []int             `json:"recovery_days,omitempty" yaml:"recovery_days,omitempty"`
	Threshold    []decimal.Decimal `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Window       []int             `json:"window,omitempty" yaml:"window,omitempty"`

	Stocks      []int             `json:"stocks,omitempty" yaml:"stocks,omitempty"`
	StopLoss    []decimal.Decimal `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
	HoldDays    []int             `json:"hold_days,omitempty" yaml:"hold_days,omitempty"`
	HistoryDays []int             `json:"history_days,omitempty" yaml:"history_days,omitempty"`
	IgnoreDays  []int             `json:"ignore_days,omitempty" yaml:"ignore_days,omitempty"`
	Mode        []string          `json:"mode,omitempty" yaml:"mode,omitempty"`
	MinFunding  decimal.Decimal   `json:"min_funding,omitempty" yaml:"min_funding,omitempty"`
}

// Expand returns the cartesian product of the grid.
func (s SweepConfig) Expand() []strategies.Params {
	base := strategies.Params{Symbol: s.Symbol, MinFunding: s.MinFunding}
	out := []strategies.Params{base}

	out = cross(out, s.Pullback, func(p *strategies.Params, v decimal.Decimal) { p.Pullback = v })
	out = cross(out, s.RecoveryDays, func(p *strategies.Params, v int) { p.RecoveryDays = v })
	out = cross(out, s.Threshold, func(p *strategies.Params, v decimal.Decimal) { p.Threshold = v })
	out = cross(out, s.Window, func(p *strategies.Params, v int) { p.WindowSize = v })
	out = cross(out, s.Stocks, func(p *strategies.Params, v int) { p.Stocks = v })
	out = cross(out, s.StopLoss, func(p *strategies.Params, v decimal.Decimal) { p.StopLoss = v })
	out = cross(out, s.HoldDays, func(p *strategies.Params, v int) { p.HoldDays = v })
	out = cross(out, s.HistoryDays, func(p *strategies.Params, v int) { p.HistoryDays = v })
	out = cross(out, s.IgnoreDays, func(p *strategies.Params, v int) { p.IgnoreDays = v })
	out = cross(out, s.Mode, func(p *strategies.Params, v string) { p.Mode = strategies.Mode(v) })
	return out
}

// Validate builds every combination once so bad parameters surface before a
// sweep starts.
func (s SweepConfig) Validate() error {
	for _, p := range s.Expand() {
		if _, err := strategies.New(s.Kind, p); err != nil {
			return fmt.Errorf("%s: %w", s.Kind, err)
		}
	}
	return nil
}

func cross[T any](in []strategies.Params, values []T, set func(*strategies.Params, T)) []strategies.Params {
	if len(values) == 0 {
		return in
	}
	out := make([]strategies.Params, 0, len(in)*len(values))
	for _, p := range in {
		for _, v := range values {
			q := p
			set(&q, v)
			out = append(out, q)
		}
	}
	return out
}
