package strategies

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownKind   = errors.New("strategies: unknown kind")
	ErrUnknownSymbol = errors.New("strategies: symbol not in universe")
	ErrInvalidParams = errors.New("strategies: invalid parameters")
)

// Market is the part of the ledger a Strategy reads and trades. *sim.Market
// implements it.
type Market interface {
	Date() time.Time
	Params() sim.Params
	Stocks() []*market.Stock
	Positions() []*sim.Position
	AvailableFunds() decimal.Decimal
	AskPrice(stock *market.Stock) (decimal.Decimal, error)

	Buy(stock *market.Stock, shares int64) (*sim.Position, error)
	Short(stock *market.Stock, shares int64) (*sim.Position, error)
	Liquidate(p *sim.Position) error
}

var _ Market = (*sim.Market)(nil)

// Strategy decides once per simulated day what to open and close. An instance
// carries private state for exactly one run and must not be shared.
type Strategy interface {
	Name() string

	// Trade is called once per day before the ledger advances. Orders that
	// fail for lack of funds are not errors; the strategy retries later.
	Trade(m Market) error

	// Labels describe the parameters, used to group runs into classes.
	Labels() map[string]string
}

// Params is the union of every strategy kind's parameters, as they appear
// in sweep configuration. Each kind reads only the fields it needs.
type Params struct {
	Symbol string `yaml:"symbol" json:"symbol"`

	// trailing-stop family and stop-loss
	Pullback     decimal.Decimal `yaml:"pullback" json:"pullback"`
	RecoveryDays int             `yaml:"recovery_days" json:"recovery_days"`
	Threshold    decimal.Decimal `yaml:"threshold" json:"threshold"`
	WindowSize   int             `yaml:"window" json:"window"`

	// momentum
	Stocks      int             `yaml:"stocks" json:"stocks"`
	StopLoss    decimal.Decimal `yaml:"stop_loss" json:"stop_loss"`
	HoldDays    int             `yaml:"hold_days" json:"hold_days"`
	HistoryDays int             `yaml:"history_days" json:"history_days"`
	IgnoreDays  int             `yaml:"ignore_days" json:"ignore_days"`
	Mode        Mode            `yaml:"mode" json:"mode"`
	MinFunding  decimal.Decimal `yaml:"min_funding" json:"min_funding"`
}

// Constructor builds a fresh Strategy from p.
type Constructor func(p Params) (Strategy, error)

var registry = make(map[string]Constructor)

// Register makes a strategy kind available to New.
func Register(kind string, c Constructor) {
	registry[kind] = c
}

// New builds a strategy of the named kind.
func New(kind string, p Params) (Strategy, error) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("%q (supported: %s): %w", kind, strings.Join(Kinds(), ", "), ErrUnknownKind)
	}
	return c(p)
}

// Kinds lists registered kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(KindNoop, func(Params) (Strategy, error) { return Noop{}, nil })
	Register(KindBuyAndHold, func(p Params) (Strategy, error) { return NewBuyAndHold(p.Symbol), nil })
	Register(KindTrailingStop, trailingConstructor(GateRecovery))
	Register(KindTrailingRally, trailingConstructor(GateRally))
	Register(KindTrailingVolatility, trailingConstructor(GateVolatility))
	Register(KindTrailingMonday, trailingConstructor(GateMonday))
	Register(KindStopLoss, func(p Params) (Strategy, error) {
		return NewStopLoss(StopLossConfig{Symbol: p.Symbol, Percent: p.Pullback, RecoveryDays: p.RecoveryDays})
	})
	Register(KindMomentum, func(p Params) (Strategy, error) {
		return NewMomentum(MomentumConfig{
			Stocks:      p.Stocks,
			StopLoss:    p.StopLoss,
			HoldDays:    p.HoldDays,
			HistoryDays: p.HistoryDays,
			IgnoreDays:  p.IgnoreDays,
			Mode:        p.Mode,
			MinFunding:  p.MinFunding,
		})
	})
}

func trailingConstructor(gate Gate) Constructor {
	return func(p Params) (Strategy, error) {
		return NewTrailingStop(TrailingStopConfig{
			Symbol:       p.Symbol,
			Pullback:     p.Pullback,
			Gate:         gate,
			RecoveryDays: p.RecoveryDays,
			Threshold:    p.Threshold,
			WindowSize:   p.WindowSize,
		})
	}
}

// Strategy kinds.
const (
	KindNoop               = "noop"
	KindBuyAndHold         = "buy-and-hold"
	KindTrailingStop       = "trailing-stop"
	KindTrailingRally      = "trailing-rally"
	KindTrailingVolatility = "trailing-volatility"
	KindTrailingMonday     = "trailing-monday"
	KindStopLoss           = "stop-loss"
	KindMomentum           = "momentum"
)

// findStock resolves symbol in the universe; an empty symbol picks the first stock.
func findStock(m Market, symbol string) (*market.Stock, error) {
	stocks := m.Stocks()
	if len(stocks) == 0 {
		return nil, fmt.Errorf("empty universe: %w", ErrUnknownSymbol)
	}
	if symbol == "" {
		return stocks[0], nil
	}
	for _, s := range stocks {
		if s.Symbol() == symbol {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", symbol, ErrUnknownSymbol)
}

// affordable is the largest share count whose cost fits in funds after the
// order fee, where each share costs unitCost.
func affordable(funds, fee, unitCost decimal.Decimal) int64 {
	if !unitCost.IsPositive() {
		return 0
	}
	budget := funds.Sub(fee)
	if !budget.IsPositive() {
		return 0
	}
	n, _ := budget.QuoRem(unitCost, 0)
	return n.IntPart()
}

// buyAll opens a long in stock with all available funds. A nil position means
// nothing was affordable.
func buyAll(m Market, stock *market.Stock) (*sim.Position, error) {
	ask, err := m.AskPrice(stock)
	if err != nil {
		return nil, err
	}
	shares := affordable(m.AvailableFunds(), m.Params().OrderFee, ask)
	if shares == 0 {
		return nil, nil
	}
	p, err := m.Buy(stock, shares)
	if errors.Is(err, sim.ErrInsufficientFunds) {
		return nil, nil
	}
	return p, err
}

func isOpen(m Market, p *sim.Position) bool {
	for _, q := range m.Positions() {
		if q == p {
			return true
		}
	}
	return false
}
