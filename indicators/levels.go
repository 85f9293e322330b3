package indicators

import "sort"

// Levels holds support and resistance price levels, each sorted ascending.
type Levels struct {
	Support    []float64
	Resistance []float64
}

// SupportResistance scans for swing highs/lows: a bar whose high (low) is
// the extreme of the lookback bars on both sides. Levels closer
// together than threshold ATRs of the latest ATR(14) are merged into the
// lower one.
func SupportResistance(high, low, close []float64, lookback int, threshold float64) (Levels, error) {
	if err := checkPeriod(lookback); err != nil {
		return Levels{}, err
	}
	if err := checkSameLen("SupportResistance", len(high), len(low), len(close)); err != nil {
		return Levels{}, err
	}

	minDist := 0.0
	if atr, err := ATR(high, low, close, 14); err == nil && len(atr) > 0 && Defined(atr[len(atr)-1]) {
		minDist = atr[len(atr)-1] * threshold
	}

	var highs, lows []float64
	for i := lookback; i < len(close)-lookback; i++ {
		swingHigh, swingLow := true, true
		for j := 1; j <= lookback; j++ {
			if high[i] < high[i-j] || high[i] < high[i+j] {
				swingHigh = false
			}
			if low[i] > low[i-j] || low[i] > low[i+j] {
				swingLow = false
			}
			if !swingHigh && !swingLow {
				break
			}
		}
		if swingHigh {
			highs = append(highs, high[i])
		}
		if swingLow {
			lows = append(lows, low[i])
		}
	}

	return Levels{
		Support:    filterLevels(lows, minDist),
		Resistance: filterLevels(highs, minDist),
	}, nil
}

func filterLevels(levels []float64, minDist float64) []float64 {
	if len(levels) == 0 {
		return nil
	}
	sort.Float64s(levels)
	out := levels[:1]
	for _, lv := range levels[1:] {
		if lv-out[len(out)-1] >= minDist {
			out = append(out, lv)
		}
	}
	return out
}
