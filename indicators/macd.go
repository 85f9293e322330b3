package indicators

// MACD computes the Moving Average Convergence Divergence line
// (EMA(fast) - EMA(slow)), its signal line (EMA of the MACD line over
// signalPeriod) and the histogram (macd - signal). The MACD line is defined
// from index slow-1 onward; the signal line needs a further signalPeriod-1
// defined MACD values.
func MACD(close []float64, fast, slow, signalPeriod int) (macd, signalLine, hist []float64, err error) {
	for _, p := range []int{fast, slow, signalPeriod} {
		if err := checkPeriod(p); err != nil {
			return nil, nil, nil, err
		}
	}

	fastEMA, err := EMA(close, fast)
	if err != nil {
		return nil, nil, nil, err
	}
	slowEMA, err := EMA(close, slow)
	if err != nil {
		return nil, nil, nil, err
	}

	macd = undefined(len(close))
	for i := range close {
		if Defined(fastEMA[i]) && Defined(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
		}
	}

	signalLine = undefined(len(close))
	hist = undefined(len(close))
	if len(close) < slow {
		return macd, signalLine, hist, nil
	}

	// The signal EMA runs over the defined tail of the MACD line.
	start := slow - 1
	tail := macd[start:]
	tailEMA, err := EMA(tail, signalPeriod)
	if err != nil {
		return nil, nil, nil, err
	}
	for i, v := range tailEMA {
		if Defined(v) {
			signalLine[start+i] = v
			hist[start+i] = macd[start+i] - v
		}
	}
	return macd, signalLine, hist, nil
}
