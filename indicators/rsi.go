package indicators

import "math"

// RSI computes Wilder's Relative Strength Index over close prices.
// Values are defined from index period onward and lie in [0, 100].
// When the smoothed average loss is exactly zero the ratio is undefined and
// the output stays NaN at that index; callers must guard rather than read
// an implied 100.
func RSI(close []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := undefined(len(close))
	if len(close) <= period {
		return out, nil
	}

	// Seed averages with the simple mean of the first period gains/losses.
	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		d := close[i] - close[i-1]
		if d > 0 {
			gainSum += d
		} else {
			lossSum -= d
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	alpha := 1.0 / float64(period)
	for i := period + 1; i < len(close); i++ {
		d := close[i] - close[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain += (gain - avgGain) * alpha
		avgLoss += (loss - avgLoss) * alpha
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return math.NaN()
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
