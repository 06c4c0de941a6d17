// Package config loads sweep configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/stocksim/backtest"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market/synth"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is a complete sweep: account constants, universe, evaluation
// windows and the strategy grids to run over each window.
type Config struct {
	Account         AccountConfig  `json:"account" yaml:"account"`
	Universe        UniverseConfig `json:"universe" yaml:"universe"`
	Windows         WindowsConfig  `json:"windows" yaml:"windows"`
	Sweep           []SweepConfig  `json:"sweep" yaml:"sweep"`
	Journal         JournalConfig  `json:"journal" yaml:"journal"`
	Workers         int            `json:"workers" yaml:"workers"` // 0 uses every CPU
	ReferenceSymbol string         `json:"reference_symbol" yaml:"reference_symbol"`
}

// AccountConfig holds the ledger constants shared by every run.
type AccountConfig struct {
	Cash              decimal.Decimal `json:"cash" yaml:"cash"`
	OrderFee          decimal.Decimal `json:"order_fee" yaml:"order_fee"`
	TaxRate           decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	InitialMargin     decimal.Decimal `json:"initial_margin" yaml:"initial_margin"`
	MaintenanceMargin decimal.Decimal `json:"maintenance_margin" yaml:"maintenance_margin"`
	LendingFeeRate    decimal.Decimal `json:"lending_fee_rate" yaml:"lending_fee_rate"`
	Spread            decimal.Decimal `json:"spread" yaml:"spread"`
	MarginCallPolicy  string          `json:"margin_call_policy,omitempty" yaml:"margin_call_policy,omitempty"`
}

// Params converts the account section into ledger parameters.
func (a AccountConfig) Params() sim.Params {
	return sim.Params{
		Cash:              a.Cash,
		OrderFee:          a.OrderFee,
		TaxRate:           a.TaxRate,
		InitialMargin:     a.InitialMargin,
		MaintenanceMargin: a.MaintenanceMargin,
		LendingFeeRate:    a.LendingFeeRate,
		Spread:            a.Spread,
	}
}

// Policy parses margin_call_policy; empty means liquidate-all.
func (a AccountConfig) Policy() (sim.MarginCallPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(a.MarginCallPolicy)) {
	case "", sim.LiquidateAll.String():
		return sim.LiquidateAll, nil
	case sim.LiquidateIteratively.String():
		return sim.LiquidateIteratively, nil
	default:
		return sim.LiquidateAll, fmt.Errorf("account.margin_call_policy %q must be %q or %q",
			a.MarginCallPolicy, sim.LiquidateAll, sim.LiquidateIteratively)
	}
}

// UniverseConfig describes the synthetic universe.
type UniverseConfig struct {
	Symbols       int     `json:"symbols" yaml:"symbols"`
	Start         string  `json:"start" yaml:"start"` // YYYY-MM-DD
	Days          int     `json:"days" yaml:"days"`
	Seed          int64   `json:"seed" yaml:"seed"`
	StartPrice    float64 `json:"start_price" yaml:"start_price"`
	Drift         float64 `json:"drift" yaml:"drift"`
	Volatility    float64 `json:"volatility" yaml:"volatility"`
	DividendYield float64 `json:"dividend_yield" yaml:"dividend_yield"`
	StaggerDays   int     `json:"stagger_days,omitempty" yaml:"stagger_days,omitempty"`
}

// Synth converts the section into generator parameters.
func (u UniverseConfig) Synth() (synth.Params, error) {
	start, err := time.Parse(time.DateOnly, u.Start)
	if err != nil {
		return synth.Params{}, fmt.Errorf("universe.start: %w", err)
	}
	return synth.Params{
		Symbols:       u.Symbols,
		Start:         start,
		Days:          u.Days,
		Seed:          u.Seed,
		StartPrice:    u.StartPrice,
		Drift:         u.Drift,
		Volatility:    u.Volatility,
		DividendYield: u.DividendYield,
		StaggerDays:   u.StaggerDays,
	}, nil
}

// WindowsConfig selects the evaluation windows by calendar year.
type WindowsConfig struct {
	FirstYear int `json:"first_year,omitempty" yaml:"first_year,omitempty"`
	LastYear  int `json:"last_year,omitempty" yaml:"last_year,omitempty"`
	StepYears int `json:"step_years" yaml:"step_years"`
	SizeYears int `json:"size_years" yaml:"size_years"` // 0 runs to the end of the universe
}

func (w WindowsConfig) Spec() backtest.WindowSpec {
	return backtest.WindowSpec{
		FirstYear: w.FirstYear,
		LastYear:  w.LastYear,
		StepYears: w.StepYears,
		SizeYears: w.SizeYears,
	}
}

// Journal types.
const (
	JournalNone   = "none"
	JournalCSV    = "csv"
	JournalSQLite = "sqlite"
)

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`         // csv
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"` // sqlite
}

// Open creates the configured journal. It returns nil for type none.
func (j JournalConfig) Open() (journal.Journal, error) {
	switch j.Type {
	case JournalCSV:
		c, err := journal.NewCSV(j.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case JournalSQLite:
		db, err := journal.NewSQLite(j.DBPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, nil
	}
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = &Config{}
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	one := decimal.NewFromInt(1)
	a := c.Account
	if !a.Cash.IsPositive() {
		return fmt.Errorf("account.cash must be positive")
	}
	if a.OrderFee.IsNegative() {
		return fmt.Errorf("account.order_fee must not be negative")
	}
	if a.TaxRate.IsNegative() || a.TaxRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("account.tax_rate must be in [0, 1)")
	}
	if !a.InitialMargin.IsPositive() || a.InitialMargin.GreaterThan(one) {
		return fmt.Errorf("account.initial_margin must be in (0, 1]")
	}
	if !a.MaintenanceMargin.IsPositive() || a.MaintenanceMargin.GreaterThan(one) {
		return fmt.Errorf("account.maintenance_margin must be in (0, 1]")
	}
	if a.LendingFeeRate.IsNegative() {
		return fmt.Errorf("account.lending_fee_rate must not be negative")
	}
	if a.Spread.IsNegative() {
		return fmt.Errorf("account.spread must not be negative")
	}
	if _, err := a.Policy(); err != nil {
		return err
	}

	u := c.Universe
	if u.Symbols <= 0 {
		return fmt.Errorf("universe.symbols must be positive")
	}
	if u.Days <= 0 {
		return fmt.Errorf("universe.days must be positive")
	}
	if u.Volatility < 0 {
		return fmt.Errorf("universe.volatility must not be negative")
	}
	if _, err := u.Synth(); err != nil {
		return err
	}

	w := c.Windows
	if w.StepYears <= 0 {
		return fmt.Errorf("windows.step_years must be positive")
	}
	if w.SizeYears < 0 {
		return fmt.Errorf("windows.size_years must not be negative")
	}
	if w.FirstYear != 0 && w.LastYear != 0 && w.LastYear < w.FirstYear {
		return fmt.Errorf("windows.last_year must not precede first_year")
	}

	if len(c.Sweep) == 0 {
		return fmt.Errorf("sweep must name at least one strategy")
	}
	for i, s := range c.Sweep {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sweep[%d]: %w", i, err)
		}
	}

	switch c.Journal.Type {
	case JournalNone:
	case JournalCSV:
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal dir required for CSV type")
		}
	case JournalSQLite:
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// Jobs expands every sweep grid over every window.
func (c *Config) Jobs(windows []backtest.Window) []backtest.Job {
	var jobs []backtest.Job
	for _, w := range windows {
		for _, s := range c.Sweep {
			for _, p := range s.Expand() {
				jobs = append(jobs, backtest.Job{
					ID:     fmt.Sprintf("%s#%d", s.Kind, len(jobs)),
					Kind:   s.Kind,
					Params: p,
					Window: w,
				})
			}
		}
	}
	return jobs
}

// Default returns a configuration with the reference brokerage constants and
// a small grid over every strategy family.
func Default() *Config {
	p := sim.DefaultParams(time.Time{})
	return &Config{
		Account: AccountConfig{
			Cash:              p.Cash,
			OrderFee:          p.OrderFee,
			TaxRate:           p.TaxRate,
			InitialMargin:     p.InitialMargin,
			MaintenanceMargin: p.MaintenanceMargin,
			LendingFeeRate:    p.LendingFeeRate,
			Spread:            p.Spread,
			MarginCallPolicy:  sim.LiquidateAll.String(),
		},
		Universe: UniverseConfig{
			Symbols:       24,
			Start:         "2000-01-03",
			Days:          365 * 8,
			Seed:          1,
			StartPrice:    50,
			Drift:         0.0003,
			Volatility:    0.018,
			DividendYield: 0.02,
			StaggerDays:   20,
		},
		Windows: WindowsConfig{
			StepYears: 2,
			SizeYears: 4,
		},
		Sweep: []SweepConfig{
			{Kind: "buy-and-hold", Symbol: "S000"},
			{
				Kind:         "trailing-stop",
				Symbol:       "S000",
				Pullback:     decimals("0.12", "0.15"),
				RecoveryDays: []int{20, 30, 40, 50, 60},
			},
			{
				Kind:      "trailing-rally",
				Symbol:    "S000",
				Pullback:  decimals("0.12", "0.15"),
				Threshold: decimals("0.06", "0.08", "0.1"),
				Window:    []int{20},
			},
			{
				Kind:      "trailing-volatility",
				Symbol:    "S000",
				Pullback:  decimals("0.12", "0.15"),
				Threshold: decimals("0.08", "0.1", "0.12"),
				Window:    []int{20},
			},
			{
				Kind:        "momentum",
				Stocks:      []int{4, 6, 8},
				StopLoss:    decimals("0.06", "0.08", "0.1", "0.12"),
				HoldDays:    []int{15, 30, 60},
				HistoryDays: []int{360},
				IgnoreDays:  []int{0, 30, 60},
				Mode:        []string{"long-only", "long-short"},
				MinFunding:  decimal.NewFromInt(1000),
			},
		},
		Journal: JournalConfig{
			Type:   JournalSQLite,
			DBPath: "./stocksim.db",
		},
		ReferenceSymbol: "S000",
	}
}

func decimals(xs ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(xs))
	for i, x := range xs {
		out[i] = decimal.RequireFromString(x)
	}
	return out
}
