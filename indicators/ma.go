package indicators

// SMA computes the simple moving average over a trailing window.
// Values are defined from index period-1 onward.
func SMA(close []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := undefined(len(close))
	if len(close) < period {
		return out, nil
	}

	sum := 0.0
	for i, v := range close {
		sum += v
		if i >= period {
			sum -= close[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// EMA computes the exponential moving average with span=period
// (multiplier 2/(period+1)), seeded with the SMA of the first window.
// Values are defined from index period-1 onward.
func EMA(close []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := undefined(len(close))
	if len(close) < period {
		return out, nil
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += close[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema

	mult := 2.0 / float64(period+1)
	for i := period; i < len(close); i++ {
		ema = (close[i]-ema)*mult + ema
		out[i] = ema
	}
	return out, nil
}
