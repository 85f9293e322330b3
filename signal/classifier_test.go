package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/smcassist/market"
	"github.com/quantfx/smcassist/structure"
)

var barStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func flatCandles(n int, price, volume float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = market.Candle{
			Symbol: "EUR_USD", Timeframe: "M15",
			Time: barStart.Add(time.Duration(i) * 15 * time.Minute),
			Open: price, High: price, Low: price, Close: price,
			Volume: volume,
		}
	}
	return out
}

func evaluate(t *testing.T, cl *Classifier, cfg structure.Config, candles []market.Candle) *Signal {
	t.Helper()
	s, err := market.SeriesFrom("EUR_USD", "M15", candles)
	require.NoError(t, err)
	return cl.Evaluate(s, structure.Analyze(s, cfg))
}

func TestEvaluateFlatSeriesNoSignal(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 0)

	sig := evaluate(t, cl, cfg, flatCandles(100, 1.1000, 1000))
	assert.Nil(t, sig)
}

func TestEvaluateShortWindowNoSignal(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 0)

	sig := evaluate(t, cl, cfg, flatCandles(cfg.MinBars()-1, 1.1000, 1000))
	assert.Nil(t, sig)
}

// A confirmed higher low sits PivotPeriod bars back while the final bar
// breaks the prior rolling high: bullish change of character.
func TestEvaluateCHoCHBuy(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 0)

	candles := flatCandles(61, 1.1000, 1000)
	candles[40].Low = 1.0950 // swing low, confirmed 20 bars later
	candles[60].High = 1.1040
	candles[60].Close = 1.1030

	sig := evaluate(t, cl, cfg, candles)
	require.NotNil(t, sig)
	assert.Equal(t, KindCHoCH, sig.Kind)
	assert.Equal(t, Buy, sig.Action)
	assert.InDelta(t, 0.8, sig.Confidence, 1e-9)
	assert.InDelta(t, 1.1030, sig.Entry, 1e-9)
	assert.InDelta(t, candles[60].Low-sig.ATR, sig.StopLoss, 1e-9)
	assert.InDelta(t, sig.Entry+2*sig.ATR, sig.TakeProfit, 1e-9)
	assert.Equal(t, candles[60].Time, sig.Time)
	assert.True(t, sig.Expiry.IsZero())
}

func TestEvaluateCHoCHSell(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 0)

	candles := flatCandles(61, 1.1000, 1000)
	candles[40].High = 1.1050 // swing high, confirmed 20 bars later
	candles[60].Low = 1.0950
	candles[60].Close = 1.0960

	sig := evaluate(t, cl, cfg, candles)
	require.NotNil(t, sig)
	assert.Equal(t, KindCHoCH, sig.Kind)
	assert.Equal(t, Sell, sig.Action)
	assert.InDelta(t, candles[60].High+sig.ATR, sig.StopLoss, 1e-9)
	assert.InDelta(t, sig.Entry-2*sig.ATR, sig.TakeProfit, 1e-9)
}

// A breakout close above the short-lookback range on above-average volume.
// The spike at bar 65 spoils both pivots at the CHoCH index without touching
// the 7-bar response window, so only the SMS rule can fire.
func TestEvaluateSMSBuy(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 0)

	candles := flatCandles(100, 1.1000, 1000)
	candles[65].High = 1.2000
	candles[65].Low = 1.0900
	candles[99].High = 1.1090
	candles[99].Close = 1.1080
	candles[99].Volume = 2000

	sig := evaluate(t, cl, cfg, candles)
	require.NotNil(t, sig)
	assert.Equal(t, KindSMS, sig.Kind)
	assert.Equal(t, Buy, sig.Action)
	assert.InDelta(t, 0.7, sig.Confidence, 1e-9)
	assert.InDelta(t, 1.1080, sig.Entry, 1e-9)
	assert.InDelta(t, 1.1000, sig.StopLoss, 1e-9)
	assert.InDelta(t, 1.1160, sig.TakeProfit, 1e-9) // 1:1 range projection
	assert.InDelta(t, 1.0, sig.RiskReward(), 1e-9)
}

func TestEvaluateSMSNeedsVolume(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 0)

	candles := flatCandles(100, 1.1000, 1000)
	candles[65].High = 1.2000
	candles[65].Low = 1.0900
	candles[99].High = 1.1090
	candles[99].Close = 1.1080
	// volume stays at the window mean: no break

	sig := evaluate(t, cl, cfg, candles)
	assert.Nil(t, sig)
}

// An engulfing reversal confirmed by the just-closed bar. The spike at bar
// 35 keeps the CHoCH pivots undefined and lifts the SMS range out of reach,
// isolating the order-block rule.
func TestEvaluateOrderBlockBuy(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 0)

	candles := flatCandles(51, 1.1000, 1000)
	candles[35].High = 1.2000
	candles[35].Low = 1.0900
	candles[49].Open = 1.1050
	candles[49].High = 1.1050
	candles[49].Low = 1.0990
	candles[49].Close = 1.1000
	candles[50].Open = 1.1010
	candles[50].High = 1.1090
	candles[50].Low = 1.1000
	candles[50].Close = 1.1080

	sig := evaluate(t, cl, cfg, candles)
	require.NotNil(t, sig)
	assert.Equal(t, KindOrderBlock, sig.Kind)
	assert.Equal(t, Buy, sig.Action)
	assert.InDelta(t, 0.75, sig.Confidence, 1e-9)
	assert.InDelta(t, candles[50].Low-sig.ATR, sig.StopLoss, 1e-9)
}

func TestEvaluateStampsExpiry(t *testing.T) {
	t.Parallel()

	cfg := structure.Defaults()
	cl := NewClassifier(cfg, 7, 5)

	candles := flatCandles(61, 1.1000, 1000)
	candles[40].Low = 1.0950
	candles[60].High = 1.1040
	candles[60].Close = 1.1030

	sig := evaluate(t, cl, cfg, candles)
	require.NotNil(t, sig)
	assert.Equal(t, candles[60].Time.Add(5*15*time.Minute), sig.Expiry)
}
