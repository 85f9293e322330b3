package indicators

import "math"

// TrueRange computes the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|).
// The first entry is NaN because no previous close exists.
func TrueRange(high, low, close []float64) ([]float64, error) {
	if err := checkSameLen("TrueRange", len(high), len(low), len(close)); err != nil {
		return nil, err
	}
	tr := undefined(len(high))
	for i := 1; i < len(high); i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr, nil
}

// ATR computes Wilder's Average True Range: an exponentially weighted
// average of true range with smoothing factor 1/period. Values are defined
// from index period onward (the first true range itself is undefined).
func ATR(high, low, close []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	tr, err := TrueRange(high, low, close)
	if err != nil {
		return nil, err
	}

	atr := undefined(len(tr))
	if len(tr) <= period {
		return atr, nil
	}

	// Seed with the simple average of the first period true ranges.
	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	atr[period] = sum / float64(period)

	alpha := 1.0 / float64(period)
	for i := period + 1; i < len(tr); i++ {
		atr[i] = atr[i-1] + (tr[i]-atr[i-1])*alpha
	}
	return atr, nil
}
