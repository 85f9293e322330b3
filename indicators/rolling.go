package indicators

// RollingMax computes the maximum over a trailing window.
// Values are defined from index period-1 onward.
func RollingMax(vals []float64, period int) ([]float64, error) {
	return rollingExtreme(vals, period, func(a, b float64) bool { return a > b })
}

// RollingMin computes the minimum over a trailing window.
// Values are defined from index period-1 onward.
func RollingMin(vals []float64, period int) ([]float64, error) {
	return rollingExtreme(vals, period, func(a, b float64) bool { return a < b })
}

func rollingExtreme(vals []float64, period int, better func(a, b float64) bool) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := undefined(len(vals))
	for i := period - 1; i < len(vals); i++ {
		ext := vals[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			if better(vals[j], ext) {
				ext = vals[j]
			}
		}
		out[i] = ext
	}
	return out, nil
}

// RollingMean computes the arithmetic mean over a trailing window.
// Values are defined from index period-1 onward.
func RollingMean(vals []float64, period int) ([]float64, error) {
	return SMA(vals, period)
}
