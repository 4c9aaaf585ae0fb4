package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())

	start, end, err := cfg.Simulation.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC), end)
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
simulation:
  start_date: "2025-05-19"
  end_date: "2025-05-20"
  data_root: /data/btc
  underlying: BTCUSDT
strategy:
  entry_hour: 13
  entry_minute: 0
  quantity: 0.1
  exit_deviation: 0.01
  cash_flow_limit: 500
  strike_deviation: 0.02
  expiry_offset_days: 3
journal:
  type: sqlite
  db_path: ./run.sqlite
stats:
  out_dir: ./out
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/btc", cfg.Simulation.DataRoot)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "./run.sqlite", cfg.Journal.DBPath)
	assert.Equal(t, 0.02, cfg.Strategy.StrikeDeviation)
}

func TestLoadFromFileJSONFallback(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad start date", func(c *Config) { c.Simulation.StartDate = "not-a-date" }},
		{"end before start", func(c *Config) { c.Simulation.EndDate = "2025-05-01" }},
		{"missing data root", func(c *Config) { c.Simulation.DataRoot = "" }},
		{"missing underlying", func(c *Config) { c.Simulation.Underlying = "" }},
		{"bad entry hour", func(c *Config) { c.Strategy.EntryHour = 24 }},
		{"bad entry minute", func(c *Config) { c.Strategy.EntryMinute = 60 }},
		{"zero quantity", func(c *Config) { c.Strategy.Quantity = 0 }},
		{"zero exit deviation", func(c *Config) { c.Strategy.ExitDeviation = 0 }},
		{"zero cash flow limit", func(c *Config) { c.Strategy.CashFlowLimit = 0 }},
		{"zero strike deviation", func(c *Config) { c.Strategy.StrikeDeviation = 0 }},
		{"zero expiry offset", func(c *Config) { c.Strategy.ExpiryOffsetDays = 0 }},
		{"bad journal type", func(c *Config) { c.Journal.Type = "parquet" }},
		{"csv without paths", func(c *Config) { c.Journal.FillsFile = "" }},
		{"sqlite without db path", func(c *Config) {
			c.Journal.Type = "sqlite"
			c.Journal.DBPath = ""
		}},
		{"missing stats out dir", func(c *Config) { c.Stats.OutDir = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
