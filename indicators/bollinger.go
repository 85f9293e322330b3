package indicators

import "math"

// BollingerBands computes the middle band (SMA) and upper/lower bands at
// middle ± mult × rolling sample standard deviation. All three outputs are
// defined from index period-1 onward.
func BollingerBands(close []float64, period int, mult float64) (upper, middle, lower []float64, err error) {
	if err := checkPeriod(period); err != nil {
		return nil, nil, nil, err
	}
	middle, err = SMA(close, period)
	if err != nil {
		return nil, nil, nil, err
	}

	upper = undefined(len(close))
	lower = undefined(len(close))
	for i := period - 1; i < len(close); i++ {
		mean := middle[i]
		var ss float64
		for j := i - period + 1; j <= i; j++ {
			d := close[j] - mean
			ss += d * d
		}
		sd := 0.0
		if period > 1 {
			sd = math.Sqrt(ss / float64(period-1))
		}
		upper[i] = mean + mult*sd
		lower[i] = mean - mult*sd
	}
	return upper, middle, lower, nil
}
