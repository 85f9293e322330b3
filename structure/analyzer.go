// Package structure derives market structure from a candle window: trend,
// order blocks, liquidity zones, swing pivots and the rolling extremes the
// signal classifier reads.
package structure

import (
	"math"

	"github.com/quantfx/smcassist/indicators"
	"github.com/quantfx/smcassist/market"
)

// Config holds the lookback parameters for one analysis pass.
type Config struct {
	MAPeriod           int     `json:"ma_period" yaml:"ma_period"`
	ATRPeriod          int     `json:"atr_period" yaml:"atr_period"`
	RSIPeriod          int     `json:"rsi_period" yaml:"rsi_period"`
	OrderBlockLookback int     `json:"order_block_lookback" yaml:"order_block_lookback"`
	LiquidityWindow    int     `json:"liquidity_window" yaml:"liquidity_window"`
	VolumeWindow       int     `json:"volume_window" yaml:"volume_window"`
	PivotPeriod        int     `json:"pivot_period" yaml:"pivot_period"`
	VolumeFactor       float64 `json:"volume_factor" yaml:"volume_factor"`
	LevelLookback      int     `json:"level_lookback" yaml:"level_lookback"`
	LevelThreshold     float64 `json:"level_threshold" yaml:"level_threshold"` // merge distance in ATRs
}

// Defaults returns the standard analyzer configuration.
func Defaults() Config {
	return Config{
		MAPeriod:           20,
		ATRPeriod:          14,
		RSIPeriod:          14,
		OrderBlockLookback: 20,
		LiquidityWindow:    50,
		VolumeWindow:       20,
		PivotPeriod:        20,
		VolumeFactor:       1.2,
		LevelLookback:      10,
		LevelThreshold:     1.2,
	}
}

// MinBars returns the longest lookback the configuration requires before an
// analysis can be produced.
func (c Config) MinBars() int {
	min := 2 * c.MAPeriod
	for _, n := range []int{
		c.ATRPeriod + 1,
		c.RSIPeriod + 1,
		c.OrderBlockLookback + 1,
		c.LiquidityWindow,
		c.VolumeWindow,
		2*c.PivotPeriod + 1,
	} {
		if n > min {
			min = n
		}
	}
	return min
}

// Analysis is the derived per-bar state for a candle window. All slices
// share the window's length; an Analysis with Len()==0 means the window was
// too short for the configured lookbacks.
type Analysis struct {
	// Indicator columns (NaN until warm).
	ATR    []float64
	RSI    []float64
	MAFast []float64
	MASlow []float64

	// Rolling extremes of high/low over the pivot period.
	Up []float64
	Dn []float64

	// Trend is +1 when the fast MA is above the slow MA, -1 when below,
	// 0 while either MA is still undefined.
	Trend []int

	// OrderBlock marks +1 (bullish) / -1 (bearish) / 0; OrderBlockPrice is
	// the block's reference price (low for bullish, high for bearish).
	OrderBlock      []int
	OrderBlockPrice []float64

	// Liquidity is a signed zone strength: positive for fresh highs,
	// negative for fresh lows, magnitude = volume over its trailing mean.
	Liquidity []float64

	// PivotHigh/PivotLow carry the pivot price, NaN when the bar is not a
	// pivot. The trailing PivotPeriod bars can never be confirmed pivots.
	PivotHigh []float64
	PivotLow  []float64

	// Levels are the merged support/resistance levels for the window.
	Levels indicators.Levels
}

// Len returns the number of analyzed bars.
func (a Analysis) Len() int { return len(a.Trend) }

// Analyze computes the derived state for the series. It returns an empty
// Analysis when the window is shorter than the longest configured lookback,
// never a partial one.
func Analyze(s *market.Series, cfg Config) Analysis {
	n := s.Len()
	if n < cfg.MinBars() {
		return Analysis{}
	}

	opens := s.Opens()
	highs := s.Highs()
	lows := s.Lows()
	closes := s.Closes()
	volumes := s.Volumes()

	atr, _ := indicators.ATR(highs, lows, closes, cfg.ATRPeriod)
	rsi, _ := indicators.RSI(closes, cfg.RSIPeriod)
	maFast, _ := indicators.SMA(closes, cfg.MAPeriod)
	maSlow, _ := indicators.SMA(closes, 2*cfg.MAPeriod)
	up, _ := indicators.RollingMax(highs, cfg.PivotPeriod)
	dn, _ := indicators.RollingMin(lows, cfg.PivotPeriod)

	a := Analysis{
		ATR:    atr,
		RSI:    rsi,
		MAFast: maFast,
		MASlow: maSlow,
		Up:     up,
		Dn:     dn,
	}
	a.Trend = trend(maFast, maSlow)
	a.OrderBlock, a.OrderBlockPrice = orderBlocks(opens, highs, lows, closes, cfg.OrderBlockLookback)
	a.Liquidity = liquidityZones(highs, lows, volumes, cfg)
	a.PivotHigh, a.PivotLow = pivots(highs, lows, cfg.PivotPeriod)
	a.Levels, _ = indicators.SupportResistance(highs, lows, closes, cfg.LevelLookback, cfg.LevelThreshold)
	return a
}

func trend(maFast, maSlow []float64) []int {
	out := make([]int, len(maFast))
	for i := range out {
		switch {
		case !indicators.Defined(maFast[i]) || !indicators.Defined(maSlow[i]):
			out[i] = 0
		case maFast[i] > maSlow[i]:
			out[i] = 1
		default:
			out[i] = -1
		}
	}
	return out
}

// orderBlocks applies the engulfing-reversal rule: a rejection candle
// immediately followed by a decisive break of its range marks the rejection
// candle as a block.
func orderBlocks(opens, highs, lows, closes []float64, lookback int) ([]int, []float64) {
	marks := make([]int, len(closes))
	prices := make([]float64, len(closes))
	for i := range prices {
		prices[i] = math.NaN()
	}

	for i := lookback; i < len(closes); i++ {
		prevBearish := closes[i-1] < opens[i-1]
		prevBullish := closes[i-1] > opens[i-1]
		curBullish := closes[i] > opens[i]
		curBearish := closes[i] < opens[i]

		if prevBearish && curBullish && closes[i] > highs[i-1] {
			marks[i-1] = 1
			prices[i-1] = lows[i-1]
		}
		if prevBullish && curBearish && closes[i] < lows[i-1] {
			marks[i-1] = -1
			prices[i-1] = highs[i-1]
		}
	}
	return marks, prices
}

// liquidityZones marks fresh rolling extremes reached on above-average
// volume. Strength is the ratio of bar volume to its trailing mean, signed
// by zone side, so low-volume breaks are de-emphasized.
func liquidityZones(highs, lows, volumes []float64, cfg Config) []float64 {
	zones := make([]float64, len(highs))

	recentHigh, _ := indicators.RollingMax(highs, cfg.LiquidityWindow)
	recentLow, _ := indicators.RollingMin(lows, cfg.LiquidityWindow)
	volMean, _ := indicators.RollingMean(volumes, cfg.VolumeWindow)

	for i := 1; i < len(highs); i++ {
		if !indicators.Defined(recentHigh[i]) || !indicators.Defined(volMean[i]) || volMean[i] <= 0 {
			continue
		}
		strength := volumes[i] / volMean[i]
		if strength <= cfg.VolumeFactor {
			continue
		}

		freshHigh := highs[i] == recentHigh[i] &&
			(!indicators.Defined(recentHigh[i-1]) || highs[i-1] != recentHigh[i-1])
		freshLow := lows[i] == recentLow[i] &&
			(!indicators.Defined(recentLow[i-1]) || lows[i-1] != recentLow[i-1])

		switch {
		case freshHigh:
			zones[i] = strength
		case freshLow:
			zones[i] = -strength
		}
	}
	return zones
}

// pivots marks centered-window swing extremes: the middle bar of a
// 2*prd+1 window is a pivot high if its high is the window maximum,
// a pivot low if its low is the window minimum.
func pivots(highs, lows []float64, prd int) (pivotHigh, pivotLow []float64) {
	pivotHigh = make([]float64, len(highs))
	pivotLow = make([]float64, len(lows))
	for i := range pivotHigh {
		pivotHigh[i] = math.NaN()
		pivotLow[i] = math.NaN()
	}

	for i := prd; i < len(highs)-prd; i++ {
		isHigh, isLow := true, true
		for j := i - prd; j <= i+prd; j++ {
			if highs[j] > highs[i] {
				isHigh = false
			}
			if lows[j] < lows[i] {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			pivotHigh[i] = highs[i]
		}
		if isLow {
			pivotLow[i] = lows[i]
		}
	}
	return pivotHigh, pivotLow
}
