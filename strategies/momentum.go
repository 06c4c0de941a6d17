package strategies

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rustyeddy/stocksim/indicators"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
)

// Mode restricts which sides a Momentum strategy takes.
type Mode string

const (
	LongShort Mode = "long-short"
	LongOnly  Mode = "long-only"
	ShortOnly Mode = "short-only"
)

// MomentumConfig parameterizes long/short momentum rotation.
type MomentumConfig struct {
	Stocks      int             `json:"stocks"`    // legs per side
	StopLoss    decimal.Decimal `json:"stop-loss"` // close when return < −StopLoss
	HoldDays    int             `json:"hold-days"` // calendar days between re-rankings
	HistoryDays int             `json:"history-days"`
	IgnoreDays  int             `json:"ignore-days"` // most recent days left out of the ranking window
	Mode        Mode            `json:"mode"`
	MinFunding  decimal.Decimal `json:"min-funding"` // skip opening when a leg would get less
}

// MomentumConfigDefaults mirrors the center of the original sweep.
func MomentumConfigDefaults() MomentumConfig {
	return MomentumConfig{
		Stocks:      6,
		StopLoss:    decimal.RequireFromString("0.08"),
		HoldDays:    30,
		HistoryDays: 360,
		IgnoreDays:  30,
		Mode:        LongShort,
		MinFunding:  decimal.NewFromInt(1000),
	}
}

// Momentum ranks the eligible universe by trailing return every HoldDays,
// holding the top Stocks long and the bottom Stocks short.
type Momentum struct {
	cfg      MomentumConfig
	lastEval time.Time
}

func NewMomentum(cfg MomentumConfig) (*Momentum, error) {
	if cfg.Mode == "" {
		cfg.Mode = LongShort
	}
	switch {
	case cfg.Stocks <= 0:
		return nil, fmt.Errorf("stocks %d: %w", cfg.Stocks, ErrInvalidParams)
	case cfg.HoldDays <= 0:
		return nil, fmt.Errorf("hold days %d: %w", cfg.HoldDays, ErrInvalidParams)
	case cfg.HistoryDays <= cfg.IgnoreDays || cfg.IgnoreDays < 0:
		return nil, fmt.Errorf("history %d must exceed ignore %d: %w", cfg.HistoryDays, cfg.IgnoreDays, ErrInvalidParams)
	case cfg.StopLoss.IsNegative():
		return nil, fmt.Errorf("stop-loss %s: %w", cfg.StopLoss, ErrInvalidParams)
	case cfg.Mode != LongShort && cfg.Mode != LongOnly && cfg.Mode != ShortOnly:
		return nil, fmt.Errorf("mode %q: %w", cfg.Mode, ErrInvalidParams)
	}
	return &Momentum{cfg: cfg}, nil
}

func (s *Momentum) Name() string {
	c := s.cfg
	return fmt.Sprintf("%s(%s, stocks=%d, stop=%s, hold=%d, ignore=%d)",
		KindMomentum, c.Mode, c.Stocks, c.StopLoss, c.HoldDays, c.IgnoreDays)
}

func (s *Momentum) Labels() map[string]string {
	return map[string]string{
		"kind":        KindMomentum,
		"mode":        string(s.cfg.Mode),
		"stocks":      strconv.Itoa(s.cfg.Stocks),
		"stop_loss":   s.cfg.StopLoss.String(),
		"hold_days":   strconv.Itoa(s.cfg.HoldDays),
		"ignore_days": strconv.Itoa(s.cfg.IgnoreDays),
	}
}

func (s *Momentum) Trade(m Market) error {
	date := m.Date()

	floor := s.cfg.StopLoss.Neg()
	for _, p := range m.Positions() {
		if p.Return(date).LessThan(floor) {
			if err := m.Liquidate(p); err != nil {
				return err
			}
		}
	}

	if !s.lastEval.IsZero() && market.DaysBetween(s.lastEval, date) < s.cfg.HoldDays {
		return nil
	}
	s.lastEval = date

	targets := s.targets(m, date)
	held := make(map[string]bool)
	for _, p := range m.Positions() {
		sym := p.Stock().Symbol()
		if side, ok := targets.side[sym]; ok && side == p.Side() {
			held[sym] = true
			continue
		}
		if err := m.Liquidate(p); err != nil {
			return err
		}
	}

	var legs []leg
	for _, l := range targets.legs {
		if !held[l.stock.Symbol()] {
			legs = append(legs, l)
		}
	}
	if len(legs) == 0 {
		return nil
	}

	funding := m.AvailableFunds().Div(decimal.NewFromInt(int64(len(legs))))
	if funding.LessThan(s.cfg.MinFunding) {
		return nil
	}
	for _, l := range legs {
		if err := s.open(m, l, funding); err != nil {
			return err
		}
	}
	return nil
}

type leg struct {
	stock *market.Stock
	side  sim.Side
}

type targetSet struct {
	legs []leg // longs first, best to worst, then shorts, worst first
	side map[string]sim.Side
}

type ranked struct {
	stock *market.Stock
	ret   decimal.Decimal
}

// targets ranks eligible stocks whose history covers the lookback window
// and picks the top and bottom Stocks of them.
func (s *Momentum) targets(m Market, date time.Time) targetSet {
	from := date.AddDate(0, 0, -s.cfg.HistoryDays)
	to := date.AddDate(0, 0, -s.cfg.IgnoreDays)

	var pool []ranked
	for _, st := range m.Stocks() {
		if !st.EligibleAt(date) {
			continue
		}
		r, ok := indicators.TrailingReturn(st, from, to)
		if !ok {
			continue
		}
		pool = append(pool, ranked{stock: st, ret: r})
	}
	sort.Slice(pool, func(i, j int) bool {
		if c := pool[i].ret.Cmp(pool[j].ret); c != 0 {
			return c > 0
		}
		return pool[i].stock.Symbol() < pool[j].stock.Symbol()
	})

	out := targetSet{side: make(map[string]sim.Side)}
	n := s.cfg.Stocks
	if s.cfg.Mode != ShortOnly {
		for i := 0; i < n && i < len(pool); i++ {
			out.legs = append(out.legs, leg{pool[i].stock, sim.Long})
			out.side[pool[i].stock.Symbol()] = sim.Long
		}
	}
	for i, taken := len(pool)-1, 0; s.cfg.Mode != LongOnly && i >= 0 && taken < n; i-- {
		sym := pool[i].stock.Symbol()
		if _, ok := out.side[sym]; ok {
			break
		}
		out.legs = append(out.legs, leg{pool[i].stock, sim.Short})
		out.side[sym] = sim.Short
		taken++
	}
	return out
}

func (s *Momentum) open(m Market, l leg, funding decimal.Decimal) error {
	ask, err := m.AskPrice(l.stock)
	if errors.Is(err, sim.ErrNoPrice) {
		return nil
	}
	if err != nil {
		return err
	}

	fee := m.Params().OrderFee
	if l.side == sim.Long {
		if shares := affordable(funding, fee, ask); shares > 0 {
			_, err = m.Buy(l.stock, shares)
		}
	} else {
		if shares := affordable(funding, fee, ask.Mul(m.Params().InitialMargin)); shares > 0 {
			_, err = m.Short(l.stock, shares)
		}
	}
	if errors.Is(err, sim.ErrInsufficientFunds) {
		return nil
	}
	return err
}
