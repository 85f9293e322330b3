package structure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/smcassist/indicators"
	"github.com/quantfx/smcassist/market"
)

func flatSeries(t *testing.T, n int, price, volume float64) *market.Series {
	t.Helper()
	s := market.NewSeries("EUR_USD", "M15")
	t0 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, s.Append(market.Candle{
			Symbol: "EUR_USD", Timeframe: "M15",
			Time: t0.Add(time.Duration(i) * 15 * time.Minute),
			Open: price, High: price, Low: price, Close: price,
			Volume: volume,
		}))
	}
	return s
}

func setBar(t *testing.T, s *market.Series, candles []market.Candle) *market.Series {
	t.Helper()
	out, err := market.SeriesFrom(s.Symbol, s.Timeframe, candles)
	require.NoError(t, err)
	return out
}

func TestAnalyzeShortWindowIsEmpty(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	s := flatSeries(t, cfg.MinBars()-1, 1.1000, 1000)

	a := Analyze(s, cfg)
	assert.Equal(t, 0, a.Len())
	assert.Nil(t, a.Trend)
}

func TestAnalyzeFlatSeries(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	s := flatSeries(t, 100, 1.1000, 1000)

	a := Analyze(s, cfg)
	require.Equal(t, 100, a.Len())

	// No true range, no order blocks, no liquidity events.
	assert.InDelta(t, 0.0, a.ATR[99], 1e-12)
	for i := range a.OrderBlock {
		assert.Equal(t, 0, a.OrderBlock[i])
		assert.Equal(t, 0.0, a.Liquidity[i])
	}
	// Equal MAs resolve to -1 (fast strictly above slow means +1).
	assert.Equal(t, -1, a.Trend[99])
	// Every interior bar of a flat window is a swing on both sides.
	require.NotEmpty(t, a.Levels.Resistance)
	assert.InDelta(t, 1.1000, a.Levels.Resistance[0], 1e-9)
	require.NotEmpty(t, a.Levels.Support)
	assert.InDelta(t, 1.1000, a.Levels.Support[0], 1e-9)
	// MAs undefined during warmup leave the trend neutral.
	assert.Equal(t, 0, a.Trend[0])
}

func TestTrendDirection(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	t0 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	var candles []market.Candle
	px := 1.1000
	for i := 0; i < 100; i++ {
		px += 0.0010 // steady uptrend: fast MA above slow MA
		candles = append(candles, market.Candle{
			Symbol: "EUR_USD", Timeframe: "M15",
			Time: t0.Add(time.Duration(i) * 15 * time.Minute),
			Open: px - 0.0010, High: px + 0.0001, Low: px - 0.0011, Close: px,
			Volume: 1000,
		})
	}
	s, err := market.SeriesFrom("EUR_USD", "M15", candles)
	require.NoError(t, err)

	a := Analyze(s, cfg)
	require.Equal(t, 100, a.Len())
	assert.Equal(t, 1, a.Trend[99])
}

// The engulfing-reversal scenario: bar 49 closes bearish, bar 50 closes
// bullish above bar 49's high, so bar 49 becomes a bullish order block at
// its low.
func TestOrderBlockMarking(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	base := flatSeries(t, 60, 1.1000, 1000)
	candles := base.Candles()
	candles[49].Open = 1.1050
	candles[49].High = 1.1050
	candles[49].Low = 1.0990
	candles[49].Close = 1.1000
	candles[50].Open = 1.1010
	candles[50].High = 1.1090
	candles[50].Low = 1.1000
	candles[50].Close = 1.1080
	s := setBar(t, base, candles)

	a := Analyze(s, cfg)
	require.Equal(t, 60, a.Len())

	assert.Equal(t, 1, a.OrderBlock[49])
	assert.InDelta(t, 1.0990, a.OrderBlockPrice[49], 1e-9)
	assert.Equal(t, 0, a.OrderBlock[50])
}

func TestBearishOrderBlock(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	base := flatSeries(t, 60, 1.1000, 1000)
	candles := base.Candles()
	// bullish rejection bar followed by a decisive break below its low
	candles[49].Open = 1.0950
	candles[49].High = 1.1010
	candles[49].Low = 1.0950
	candles[49].Close = 1.1000
	candles[50].Open = 1.0990
	candles[50].High = 1.0990
	candles[50].Low = 1.0910
	candles[50].Close = 1.0920
	s := setBar(t, base, candles)

	a := Analyze(s, cfg)
	assert.Equal(t, -1, a.OrderBlock[49])
	assert.InDelta(t, 1.1010, a.OrderBlockPrice[49], 1e-9)
}

func TestLiquidityZoneFreshHigh(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	base := flatSeries(t, 60, 1.1000, 1000)
	candles := base.Candles()
	// prior ceiling so the flat bars are not sitting on the rolling max
	candles[20].High = 1.1020
	// fresh high on well above-average volume
	candles[55].High = 1.1050
	candles[55].Close = 1.1040
	candles[55].Volume = 3000
	s := setBar(t, base, candles)

	a := Analyze(s, cfg)
	require.Equal(t, 60, a.Len())

	assert.Greater(t, a.Liquidity[55], 0.0)
	assert.Equal(t, 0.0, a.Liquidity[54])
}

func TestPivots(t *testing.T) {
	t.Parallel()

	n := 50
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := range highs {
		highs[i] = 10
		lows[i] = 8
	}
	highs[25] = 12
	lows[30] = 6

	ph, pl := pivots(highs, lows, 10)

	assert.True(t, indicators.Defined(ph[25]))
	assert.InDelta(t, 12.0, ph[25], 1e-9)
	assert.True(t, indicators.Defined(pl[30]))
	assert.InDelta(t, 6.0, pl[30], 1e-9)

	// bars inside the spike's window cannot be pivots
	assert.False(t, indicators.Defined(ph[20]))
	assert.False(t, indicators.Defined(pl[25]))
}
