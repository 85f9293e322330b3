// Package config defines the typed engine configuration: a struct with
// named fields and explicit defaults, merged by field, never by untyped key
// lookup. It is constructed once and injected into the engine; there is no
// global settings object.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/quantfx/smcassist/risk"
	"github.com/quantfx/smcassist/structure"
	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Symbol    string           `json:"symbol" yaml:"symbol"`
	Timeframe string           `json:"timeframe" yaml:"timeframe"`
	Candles   int              `json:"candles" yaml:"candles"` // window size pulled per evaluation
	Analyzer  structure.Config `json:"analyzer" yaml:"analyzer"`
	Signals   SignalConfig     `json:"signals" yaml:"signals"`
	Risk      risk.Parameters  `json:"risk" yaml:"risk"`
	Journal   JournalConfig    `json:"journal" yaml:"journal"`
}

// SignalConfig tunes the classifier.
type SignalConfig struct {
	ResponsePeriod int `json:"response_period" yaml:"response_period"` // SMS lookback bars
	ExpiryBars     int `json:"expiry_bars" yaml:"expiry_bars"`         // 0 disables signal expiry
}

// JournalConfig selects the session journal.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "none"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns a configuration with standard settings.
func Default() *Config {
	return &Config{
		Symbol:    "EUR_USD",
		Timeframe: "M15",
		Candles:   200,
		Analyzer:  structure.Defaults(),
		Signals: SignalConfig{
			ResponsePeriod: 7,
			ExpiryBars:     5,
		},
		Risk: risk.DefaultParameters(),
		Journal: JournalConfig{
			Type: "none",
		},
	}
}

// LoadFromFile loads a configuration file, trying YAML first and falling
// back to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML (or JSON for .json paths).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate rejects malformed configuration before any engine is built.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Timeframe == "" {
		return fmt.Errorf("timeframe is required")
	}
	if c.Candles <= 0 {
		return fmt.Errorf("candles must be positive, got %d", c.Candles)
	}
	if min := c.Analyzer.MinBars(); c.Candles < min {
		return fmt.Errorf("candles (%d) below the analyzer's longest lookback (%d)", c.Candles, min)
	}
	for name, v := range map[string]int{
		"analyzer.ma_period":            c.Analyzer.MAPeriod,
		"analyzer.atr_period":           c.Analyzer.ATRPeriod,
		"analyzer.rsi_period":           c.Analyzer.RSIPeriod,
		"analyzer.order_block_lookback": c.Analyzer.OrderBlockLookback,
		"analyzer.liquidity_window":     c.Analyzer.LiquidityWindow,
		"analyzer.volume_window":        c.Analyzer.VolumeWindow,
		"analyzer.pivot_period":         c.Analyzer.PivotPeriod,
		"analyzer.level_lookback":       c.Analyzer.LevelLookback,
		"signals.response_period":       c.Signals.ResponsePeriod,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.Signals.ExpiryBars < 0 {
		return fmt.Errorf("signals.expiry_bars must not be negative, got %d", c.Signals.ExpiryBars)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'none', got %q", c.Journal.Type)
	}
	return nil
}
