package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "straddle",
	Short: "An event-driven backtester for BTC short-straddle strategies",
	Long: `Straddle replays historical futures and option candles through an
event-driven simulation engine and reports the resulting PnL.

It provides tools for:
  - Replaying day-folder candle data against a short-straddle strategy
  - Journaling fills and daily PnL snapshots to CSV or SQLite
  - Computing performance statistics and rendering equity plots
  - Downloading candle history from Delta Exchange
  - Unpacking archived data drops into the day-folder layout`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
