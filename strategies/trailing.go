package strategies

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rustyeddy/stocksim/indicators"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
)

// Gate is the re-entry signal a trailing stop waits for after selling.
type Gate int

const (
	// GateRecovery re-enters RecoveryDays calendar days after the sell.
	GateRecovery Gate = iota
	// GateRally re-enters when the open has rallied more than Threshold over
	// the oldest open in the rolling window.
	GateRally
	// GateVolatility re-enters when the window's high/low range is under Threshold.
	GateVolatility
	// GateMonday is GateRecovery restricted to Mondays, including the first purchase.
	GateMonday
)

func (g Gate) String() string {
	switch g {
	case GateRally:
		return "rally"
	case GateVolatility:
		return "volatility"
	case GateMonday:
		return "monday"
	default:
		return "recovery"
	}
}

// TrailingStopConfig parameterizes the trailing-stop family.
type TrailingStopConfig struct {
	Symbol       string          `json:"symbol"`
	Pullback     decimal.Decimal `json:"pullback"` // 0.1 sells 10% under the peak
	Gate         Gate            `json:"gate"`
	RecoveryDays int             `json:"recovery-days"`
	Threshold    decimal.Decimal `json:"threshold"` // rally or volatility gate
	WindowSize   int             `json:"window"`    // bars in the rolling gate window

	// fixed disables trailing: the stop stays at entry×(1−Pullback).
	fixed bool
}

// TrailingStop holds one stock with all available funds, selling when the
// day's low touches a stop trailing the highest high since entry, and
// re-entering when its gate opens.
type TrailingStop struct {
	cfg  TrailingStopConfig
	name string

	stock   *market.Stock
	started bool

	held *sim.Position
	peak decimal.Decimal
	stop decimal.Decimal

	recoverAt time.Time

	rally *indicators.Rally
	vol   *indicators.Volatility
}

// NewTrailingStop validates cfg and returns a strategy in the FLAT state.
func NewTrailingStop(cfg TrailingStopConfig) (*TrailingStop, error) {
	if !cfg.Pullback.IsPositive() || cfg.Pullback.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("pullback %s must be in (0, 1): %w", cfg.Pullback, ErrInvalidParams)
	}
	if cfg.RecoveryDays < 0 {
		return nil, fmt.Errorf("recovery days %d: %w", cfg.RecoveryDays, ErrInvalidParams)
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = indicators.DefaultWindow
	}

	s := &TrailingStop{cfg: cfg}
	switch cfg.Gate {
	case GateRally:
		s.rally = indicators.NewRally(cfg.WindowSize)
	case GateVolatility:
		s.vol = indicators.NewVolatility(cfg.WindowSize)
	}
	s.name = s.describe()
	return s, nil
}

// StopLossConfig parameterizes a fixed stop-loss.
type StopLossConfig struct {
	Symbol       string          `json:"symbol"`
	Percent      decimal.Decimal `json:"percent"`
	RecoveryDays int             `json:"recovery-days"`
}

// NewStopLoss is a trailing stop whose stop never moves above the entry's.
func NewStopLoss(cfg StopLossConfig) (*TrailingStop, error) {
	return NewTrailingStop(TrailingStopConfig{
		Symbol:       cfg.Symbol,
		Pullback:     cfg.Percent,
		Gate:         GateRecovery,
		RecoveryDays: cfg.RecoveryDays,
		fixed:        true,
	})
}

func (s *TrailingStop) Name() string { return s.name }

func (s *TrailingStop) holding() bool { return s.held != nil }

func (s *TrailingStop) Labels() map[string]string {
	l := map[string]string{
		"kind":     s.kind(),
		"pullback": s.cfg.Pullback.String(),
	}
	switch s.cfg.Gate {
	case GateRally, GateVolatility:
		l["threshold"] = s.cfg.Threshold.String()
	default:
		l["recovery_days"] = strconv.Itoa(s.cfg.RecoveryDays)
	}
	return l
}

func (s *TrailingStop) Trade(m Market) error {
	if s.stock == nil {
		stock, err := findStock(m, s.cfg.Symbol)
		if err != nil {
			return err
		}
		s.stock = stock
	}

	date := m.Date()
	bar, ok := s.stock.BarAt(date)
	if !ok {
		return nil
	}

	if !s.started {
		if s.cfg.Gate == GateMonday && date.Weekday() != time.Monday {
			return nil
		}
		return s.enter(m, bar)
	}

	if s.held != nil && !isOpen(m, s.held) {
		// closed by the ledger, e.g. a margin call
		s.flatten(date)
	}

	if s.held != nil {
		if !s.cfg.fixed && bar.High.GreaterThan(s.peak) {
			s.peak = bar.High
			s.stop = s.stopFor(s.peak)
		}
		if bar.Low.LessThanOrEqual(s.stop) {
			return s.exit(m, date)
		}
		return nil
	}

	switch s.cfg.Gate {
	case GateRally:
		if s.rally.Above(bar.Open, s.cfg.Threshold) {
			if err := s.enter(m, bar); err != nil || s.held != nil {
				return err
			}
		}
		// an unaffordable entry still buffers the bar
		s.rally.Update(bar)
	case GateVolatility:
		if s.vol.Below(s.cfg.Threshold) {
			if err := s.enter(m, bar); err != nil || s.held != nil {
				return err
			}
		}
		s.vol.Update(bar)
	case GateMonday:
		if s.recovered(date) && date.Weekday() == time.Monday {
			return s.enter(m, bar)
		}
	default:
		if s.recovered(date) {
			return s.enter(m, bar)
		}
	}
	return nil
}

func (s *TrailingStop) recovered(date time.Time) bool {
	return !s.recoverAt.IsZero() && !date.Before(s.recoverAt)
}

func (s *TrailingStop) enter(m Market, bar market.Bar) error {
	p, err := buyAll(m, s.stock)
	if err != nil || p == nil {
		return err
	}
	s.started = true
	s.held = p
	s.peak = bar.Price()
	s.stop = s.stopFor(s.peak)
	s.recoverAt = time.Time{}
	s.resetWindow()
	return nil
}

func (s *TrailingStop) exit(m Market, date time.Time) error {
	if err := m.Liquidate(s.held); err != nil {
		return err
	}
	s.flatten(date)
	return nil
}

func (s *TrailingStop) flatten(date time.Time) {
	s.held = nil
	s.peak = decimal.Zero
	s.stop = decimal.Zero
	if s.cfg.Gate == GateRecovery || s.cfg.Gate == GateMonday {
		s.recoverAt = date.AddDate(0, 0, s.cfg.RecoveryDays)
	}
	s.resetWindow()
}

func (s *TrailingStop) stopFor(price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(s.cfg.Pullback).Mul(price)
}

func (s *TrailingStop) resetWindow() {
	if s.rally != nil {
		s.rally.Reset()
	}
	if s.vol != nil {
		s.vol.Reset()
	}
}

func (s *TrailingStop) kind() string {
	if s.cfg.fixed {
		return KindStopLoss
	}
	switch s.cfg.Gate {
	case GateRally:
		return KindTrailingRally
	case GateVolatility:
		return KindTrailingVolatility
	case GateMonday:
		return KindTrailingMonday
	default:
		return KindTrailingStop
	}
}

func (s *TrailingStop) describe() string {
	switch s.cfg.Gate {
	case GateRally, GateVolatility:
		return fmt.Sprintf("%s(pullback=%s, %s=%s)", s.kind(), s.cfg.Pullback, s.cfg.Gate, s.cfg.Threshold)
	default:
		return fmt.Sprintf("%s(pullback=%s, recovery=%d)", s.kind(), s.cfg.Pullback, s.cfg.RecoveryDays)
	}
}
