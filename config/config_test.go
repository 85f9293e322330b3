package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "EUR_USD", cfg.Symbol)
	assert.Equal(t, 200, cfg.Candles)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty symbol", func(c *Config) { c.Symbol = "" }},
		{"empty timeframe", func(c *Config) { c.Timeframe = "" }},
		{"zero candles", func(c *Config) { c.Candles = 0 }},
		{"window below lookback", func(c *Config) { c.Candles = 30 }},
		{"zero pivot period", func(c *Config) { c.Analyzer.PivotPeriod = 0 }},
		{"negative expiry", func(c *Config) { c.Signals.ExpiryBars = -1 }},
		{"bad risk", func(c *Config) { c.Risk.RiskPerTrade = 0 }},
		{"unknown journal", func(c *Config) { c.Journal.Type = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Symbol = "GBP_USD"
	cfg.Risk.RiskPerTrade = 0.5
	cfg.Signals.ExpiryBars = 3
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "GBP_USD", loaded.Symbol)
	assert.InDelta(t, 0.5, loaded.Risk.RiskPerTrade, 1e-9)
	assert.Equal(t, 3, loaded.Signals.ExpiryBars)
}

// Partial files inherit every unset field from the defaults.
func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbol: USD_JPY\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "USD_JPY", cfg.Symbol)
	assert.Equal(t, "M15", cfg.Timeframe)
	assert.Equal(t, 20, cfg.Analyzer.MAPeriod)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Candles = 250
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 250, loaded.Candles)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("candles: 10\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
