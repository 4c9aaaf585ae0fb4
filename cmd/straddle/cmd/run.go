package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/straddle/backtest"
	"github.com/rustyeddy/straddle/config"
	"github.com/rustyeddy/straddle/journal"
	"github.com/rustyeddy/straddle/sim"
	"github.com/rustyeddy/straddle/stats"
	"github.com/rustyeddy/straddle/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay historical candles through the straddle strategy",
	Long: `Run loads day-folder candle data, replays it tick by tick through the
short-straddle strategy, journals every fill and daily PnL snapshot,
and prints a performance summary.

Example:
  straddle run -c config.yaml
  straddle run --data ./data --start 2025-05-19 --end 2025-05-25`,
	RunE: runReplay,
}

var (
	runConfigPath string
	runDataRoot   string
	runStart      string
	runEnd        string
	runJournal    string
	runNoPlots    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringVarP(&runDataRoot, "data", "d", "", "override data root directory")
	runCmd.Flags().StringVar(&runStart, "start", "", "override start date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runEnd, "end", "", "override end date (YYYY-MM-DD)")
	runCmd.Flags().StringVarP(&runJournal, "journal", "j", "", "override journal type (csv, sqlite, memory)")
	runCmd.Flags().BoolVar(&runNoPlots, "no-plots", false, "skip writing PNG plots")
}

func loadRunConfig() (*config.Config, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if runDataRoot != "" {
		cfg.Simulation.DataRoot = runDataRoot
	}
	if runStart != "" {
		cfg.Simulation.StartDate = runStart
	}
	if runEnd != "" {
		cfg.Simulation.EndDate = runEnd
	}
	if runJournal != "" {
		cfg.Journal.Type = runJournal
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.FillsFile, cfg.PnlFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "memory":
		return journal.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown journal type %q (supported: csv, sqlite, memory)", cfg.Type)
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	start, end, err := cfg.Simulation.Range()
	if err != nil {
		return err
	}

	ticks, err := backtest.LoadDayFolders(cfg.Simulation.DataRoot, start, end, log)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	ledger := sim.NewLedger(j, log)
	strat := strategies.NewStraddle(cfg.Simulation.Underlying, ticks, log)
	strat.Quantity = cfg.Strategy.Quantity
	strat.EntryHour = cfg.Strategy.EntryHour
	strat.EntryMinute = cfg.Strategy.EntryMinute
	strat.ExitDeviation = cfg.Strategy.ExitDeviation
	strat.CashFlowLimit = cfg.Strategy.CashFlowLimit
	strat.StrikeDeviation = cfg.Strategy.StrikeDeviation
	strat.ExpiryOffsetDays = cfg.Strategy.ExpiryOffsetDays
	ledger.SetFillListener(strat)

	runner := &backtest.Runner{
		Ledger:   ledger,
		Feed:     backtest.NewSliceFeed(ticks),
		Strategy: strat,
		Log:      log,
	}

	fmt.Printf("Replaying %s from %s to %s\n", cfg.Simulation.Underlying,
		cfg.Simulation.StartDate, cfg.Simulation.EndDate)
	fmt.Printf("  Data: %s\n", cfg.Simulation.DataRoot)
	fmt.Printf("  Journal: %s\n\n", cfg.Journal.Type)

	res, err := runner.Run(context.Background())
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	pnl := make([]float64, 0, len(res.Snapshots))
	for _, s := range res.Snapshots {
		pnl = append(pnl, float64(s.PnL))
	}
	summary := stats.Compute(pnl)

	fmt.Printf("Replay Complete!\n")
	fmt.Printf("  Ticks: %d\n", res.Ticks)
	fmt.Printf("  Period: %s .. %s\n", res.Start.Format("2006-01-02 15:04"), res.End.Format("2006-01-02 15:04"))
	fmt.Printf("  Final PnL: %.2f\n\n", float64(res.FinalPnl))
	printSummary(summary)

	if !runNoPlots {
		if err := stats.SavePlots(pnl, cfg.Stats.OutDir); err != nil {
			return fmt.Errorf("save plots: %w", err)
		}
		fmt.Printf("\nPlots written to %s\n", cfg.Stats.OutDir)
	}
	return nil
}

func printSummary(s stats.Summary) {
	fmt.Printf("Daily PnL Statistics\n")
	fmt.Printf("  Mean: %.2f\n", s.Mean)
	fmt.Printf("  Median: %.2f\n", s.Median)
	fmt.Printf("  Sharpe (annualized): %.4f\n", s.Sharpe)
	fmt.Printf("  Max Drawdown: %.2f\n", s.MaxDrawdown)
	fmt.Printf("  VaR 95%%: %.4f\n", s.VaR95)
	fmt.Printf("  ES 95%%: %.4f\n", s.ES95)
}
