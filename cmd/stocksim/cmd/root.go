package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "stocksim",
	Short: "Backtest equity trading rules on a day-stepped brokerage ledger",
	Long: `Stocksim replays daily price history through a simulated brokerage account
and ranks trading rules by the cash they end with.

It provides tools for:
  - Sweeping strategy parameter grids over many evaluation windows
  - Comparing every run against a taxed buy-and-hold reference
  - Recording trades, dividends and settlements to SQLite or CSV
  - Browsing recorded runs as Org-mode outlines`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn or error")
}
