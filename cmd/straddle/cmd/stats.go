package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/straddle/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute statistics from a journaled PnL series",
	Long: `Stats reads a PnL CSV written by a previous run (columns time,PnL),
computes daily performance statistics and renders cumulative PnL and
drawdown plots.

Example:
  straddle stats -p pnl.csv -o ./report`,
	RunE: runStats,
}

var (
	statsPnlPath string
	statsOutDir  string
	statsNoPlots bool
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsPnlPath, "pnl", "p", "./pnl.csv", "path to PnL CSV (time,PnL)")
	statsCmd.Flags().StringVarP(&statsOutDir, "out", "o", ".", "directory for PNG plots")
	statsCmd.Flags().BoolVar(&statsNoPlots, "no-plots", false, "skip writing PNG plots")
}

func runStats(cmd *cobra.Command, args []string) error {
	pnl, err := readPnlCSV(statsPnlPath)
	if err != nil {
		return err
	}
	if len(pnl) == 0 {
		return fmt.Errorf("no PnL rows in %s", statsPnlPath)
	}

	printSummary(stats.Compute(pnl))

	if !statsNoPlots {
		if err := stats.SavePlots(pnl, statsOutDir); err != nil {
			return fmt.Errorf("save plots: %w", err)
		}
		fmt.Printf("\nPlots written to %s\n", statsOutDir)
	}
	return nil
}

func readPnlCSV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var pnl []float64
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad PnL value %q on row %d: %w", row[1], i+1, err)
		}
		pnl = append(pnl, v)
	}
	return pnl, nil
}
