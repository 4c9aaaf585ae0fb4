// Package config loads and validates the simulation configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config is the complete run configuration.
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Strategy   StrategyConfig   `json:"strategy" yaml:"strategy"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Stats      StatsConfig      `json:"stats" yaml:"stats"`
}

// SimulationConfig selects the data to replay.
type SimulationConfig struct {
	StartDate  string `json:"start_date" yaml:"start_date"` // YYYY-MM-DD inclusive
	EndDate    string `json:"end_date" yaml:"end_date"`     // YYYY-MM-DD inclusive
	DataRoot   string `json:"data_root" yaml:"data_root"`
	Underlying string `json:"underlying" yaml:"underlying"`
}

// Range parses the configured date bounds.
func (s SimulationConfig) Range() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, s.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start_date: %w", err)
	}
	end, err = time.Parse(dateLayout, s.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end_date: %w", err)
	}
	return start, end, nil
}

// StrategyConfig holds the straddle parameters.
type StrategyConfig struct {
	EntryHour        int     `json:"entry_hour" yaml:"entry_hour"`
	EntryMinute      int     `json:"entry_minute" yaml:"entry_minute"`
	Quantity         float64 `json:"quantity" yaml:"quantity"`
	ExitDeviation    float64 `json:"exit_deviation" yaml:"exit_deviation"`
	CashFlowLimit    float64 `json:"cash_flow_limit" yaml:"cash_flow_limit"`
	StrikeDeviation  float64 `json:"strike_deviation" yaml:"strike_deviation"`
	ExpiryOffsetDays int     `json:"expiry_offset_days" yaml:"expiry_offset_days"`
}

// JournalConfig selects where fills and PnL snapshots are persisted.
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "csv", "sqlite" or "memory"
	FillsFile string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	PnlFile   string `json:"pnl_file,omitempty" yaml:"pnl_file,omitempty"`
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// StatsConfig controls the summary report.
type StatsConfig struct {
	OutDir string `json:"out_dir" yaml:"out_dir"` // where plot PNGs land
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML (.yaml/.yml) or JSON.
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

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	start, end, err := c.Simulation.Range()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("simulation.end_date must not be before start_date")
	}
	if c.Simulation.DataRoot == "" {
		return fmt.Errorf("simulation.data_root is required")
	}
	if c.Simulation.Underlying == "" {
		return fmt.Errorf("simulation.underlying is required")
	}

	if c.Strategy.EntryHour < 0 || c.Strategy.EntryHour > 23 {
		return fmt.Errorf("strategy.entry_hour must be between 0 and 23")
	}
	if c.Strategy.EntryMinute < 0 || c.Strategy.EntryMinute > 59 {
		return fmt.Errorf("strategy.entry_minute must be between 0 and 59")
	}
	if c.Strategy.Quantity <= 0 {
		return fmt.Errorf("strategy.quantity must be positive")
	}
	if c.Strategy.ExitDeviation <= 0 {
		return fmt.Errorf("strategy.exit_deviation must be positive")
	}
	if c.Strategy.CashFlowLimit <= 0 {
		return fmt.Errorf("strategy.cash_flow_limit must be positive")
	}
	if c.Strategy.StrikeDeviation <= 0 {
		return fmt.Errorf("strategy.strike_deviation must be positive")
	}
	if c.Strategy.ExpiryOffsetDays <= 0 {
		return fmt.Errorf("strategy.expiry_offset_days must be positive")
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.PnlFile == "" {
			return fmt.Errorf("journal fills_file and pnl_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "memory":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'memory'")
	}

	if c.Stats.OutDir == "" {
		return fmt.Errorf("stats.out_dir is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			StartDate:  "2025-05-19",
			EndDate:    "2025-05-25",
			DataRoot:   "./data",
			Underlying: "BTCUSDT",
		},
		Strategy: StrategyConfig{
			EntryHour:        13,
			EntryMinute:      0,
			Quantity:         0.1,
			ExitDeviation:    0.01,
			CashFlowLimit:    500,
			StrikeDeviation:  0.02,
			ExpiryOffsetDays: 3,
		},
		Journal: JournalConfig{
			Type:      "csv",
			FillsFile: "./fills.csv",
			PnlFile:   "./pnl.csv",
		},
		Stats: StatsConfig{
			OutDir: ".",
		},
	}
}
