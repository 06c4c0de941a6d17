package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rustyeddy/stocksim/backtest"
	"github.com/rustyeddy/stocksim/config"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/market/synth"
	"github.com/rustyeddy/stocksim/metrics"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run every configured strategy over every window",
	Long: `Generate the configured universe, expand the strategy grids and run each
combination over each evaluation window on a worker pool. Results are ranked
per window against the buy-and-hold reference, followed by medians across
windows.

Example:
  stocksim sweep --config sweep.yaml --top 15 --metrics-addr :9102`,
	Args: cobra.NoArgs,
	RunE: runSweepCmd,
}

var (
	sweepConfigPath  string
	sweepTop         int
	sweepMetricsAddr string
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepConfigPath, "config", "c", "", "sweep config file (defaults when empty)")
	sweepCmd.Flags().IntVar(&sweepTop, "top", 10, "results to print per window (0 for all)")
	sweepCmd.Flags().StringVar(&sweepMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while sweeping")
}

func runSweepCmd(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if sweepConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(sweepConfigPath); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	if sweepMetricsAddr != "" {
		srv := &http.Server{
			Addr:              sweepMetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", sweepMetricsAddr).Msg("metrics server")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		log.Info().Str("addr", sweepMetricsAddr).Msg("serving metrics")
	}

	return runSweep(cfg, cmd.OutOrStdout(), reg, log.Logger, sweepTop)
}

// runSweep evaluates every window in turn so each report prints as soon as
// its runs finish.
func runSweep(cfg *config.Config, out io.Writer, reg prometheus.Registerer, logger zerolog.Logger, top int) error {
	sp, err := cfg.Universe.Synth()
	if err != nil {
		return err
	}
	universe, err := synth.Universe(sp)
	if err != nil {
		return fmt.Errorf("generate universe: %w", err)
	}
	ref, err := referenceStock(universe, cfg.ReferenceSymbol)
	if err != nil {
		return err
	}
	policy, err := cfg.Account.Policy()
	if err != nil {
		return err
	}
	windows, err := backtest.Windows(market.UniverseRange(universe), cfg.Windows.Spec())
	if err != nil {
		return err
	}

	j, err := cfg.Journal.Open()
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer closeJournal(j, logger)
	}

	pool := &backtest.Pool{
		Universe: universe,
		Account:  cfg.Account.Params(),
		Policy:   policy,
		Workers:  cfg.Workers,
		Journal:  j,
		Metrics:  metrics.New(reg),
		Log:      logger,
	}

	logger.Info().
		Int("symbols", len(universe)).
		Int("windows", len(windows)).
		Str("policy", policy.String()).
		Msg("starting sweep")

	var all []backtest.Result
	for _, w := range windows {
		began := time.Now()
		results := pool.Run(cfg.Jobs([]backtest.Window{w}))

		refCash, err := backtest.ReferenceCash(ref, w, pool.Account)
		if err != nil {
			logger.Warn().Err(err).Str("window", w.String()).Msg("reference unavailable, ranking against starting cash")
			refCash = pool.Account.Cash
		}
		s := backtest.Summarize(w, refCash, results)
		s.Print(out, top)

		logger.Info().
			Str("window", w.String()).
			Int("runs", len(results)).
			Int("failed", len(s.Failed)).
			Dur("elapsed", time.Since(began)).
			Msg("window complete")
		all = append(all, results...)
	}

	backtest.PrintMedians(out, backtest.MedianByStrategy(all))
	return nil
}

func referenceStock(universe []*market.Stock, symbol string) (*market.Stock, error) {
	if symbol == "" {
		return universe[0], nil
	}
	for _, s := range universe {
		if s.Symbol() == symbol {
			return s, nil
		}
	}
	return nil, fmt.Errorf("reference_symbol %q is not in the universe", symbol)
}

// closeJournal flushes and closes j, logging a failure.
func closeJournal(j io.Closer, logger zerolog.Logger) {
	if err := j.Close(); err != nil {
		logger.Error().Err(err).Msg("close journal")
	}
}
