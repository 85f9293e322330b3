// Package risk converts accepted signals into sized orders and enforces
// account-level trading limits: daily loss caps, open-position caps,
// trailing stops and break-even moves.
package risk

import "fmt"

// Parameters are the per-session risk settings. They are immutable while a
// session runs; Manager.SetParameters swaps them wholesale between
// evaluation cycles.
type Parameters struct {
	AccountBalance   float64 `json:"account_balance" yaml:"account_balance"`
	RiskPerTrade     float64 `json:"risk_per_trade" yaml:"risk_per_trade"`         // percent of balance
	MaxPositionSize  float64 `json:"max_position_size" yaml:"max_position_size"`   // lots
	MaxDailyDrawdown float64 `json:"max_daily_drawdown" yaml:"max_daily_drawdown"` // percent
	DailyLossLimit   float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`     // percent

	UseATR            bool    `json:"use_atr" yaml:"use_atr"`
	ATRMultiplier     float64 `json:"atr_multiplier" yaml:"atr_multiplier"`
	DefaultRiskReward float64 `json:"default_risk_reward" yaml:"default_risk_reward"`

	MaxOpenPositions int `json:"max_open_positions" yaml:"max_open_positions"`
	MaxDailyTrades   int `json:"max_daily_trades" yaml:"max_daily_trades"`

	TrailingStop bool    `json:"trailing_stop" yaml:"trailing_stop"`
	BreakEven    bool    `json:"break_even" yaml:"break_even"`
	BreakEvenATR float64 `json:"break_even_atr" yaml:"break_even_atr"`

	// MinLot is the single fallback/minimum lot size used whenever a sizing
	// denominator degenerates.
	MinLot float64 `json:"min_lot" yaml:"min_lot"`
}

// DefaultParameters returns the standard risk settings.
func DefaultParameters() Parameters {
	return Parameters{
		AccountBalance:    10000,
		RiskPerTrade:      1.0,
		MaxPositionSize:   10.0,
		MaxDailyDrawdown:  5.0,
		DailyLossLimit:    2.0,
		UseATR:            true,
		ATRMultiplier:     2.0,
		DefaultRiskReward: 2.0,
		MaxOpenPositions:  10,
		MaxDailyTrades:    50,
		TrailingStop:      true,
		BreakEven:         true,
		BreakEvenATR:      1.0,
		MinLot:            0.01,
	}
}

// Validate rejects malformed parameters at construction time, before any
// evaluation runs.
func (p Parameters) Validate() error {
	if p.AccountBalance <= 0 {
		return fmt.Errorf("account_balance must be positive, got %v", p.AccountBalance)
	}
	if p.RiskPerTrade <= 0 || p.RiskPerTrade > 100 {
		return fmt.Errorf("risk_per_trade must be in (0, 100], got %v", p.RiskPerTrade)
	}
	if p.MaxPositionSize <= 0 {
		return fmt.Errorf("max_position_size must be positive, got %v", p.MaxPositionSize)
	}
	if p.DailyLossLimit <= 0 || p.DailyLossLimit > 100 {
		return fmt.Errorf("daily_loss_limit must be in (0, 100], got %v", p.DailyLossLimit)
	}
	if p.MaxOpenPositions <= 0 {
		return fmt.Errorf("max_open_positions must be positive, got %d", p.MaxOpenPositions)
	}
	if p.MaxDailyTrades <= 0 {
		return fmt.Errorf("max_daily_trades must be positive, got %d", p.MaxDailyTrades)
	}
	if p.DefaultRiskReward <= 0 {
		return fmt.Errorf("default_risk_reward must be positive, got %v", p.DefaultRiskReward)
	}
	if p.MinLot <= 0 {
		return fmt.Errorf("min_lot must be positive, got %v", p.MinLot)
	}
	if p.UseATR && p.ATRMultiplier <= 0 {
		return fmt.Errorf("atr_multiplier must be positive when use_atr is set, got %v", p.ATRMultiplier)
	}
	return nil
}
