// Package indicators provides pure technical-analysis functions over price
// columns. Every function returns an output slice the same length as its
// input, with leading entries set to NaN until enough history exists.
// Callers check Defined before consuming a value.
package indicators

import (
	"fmt"
	"math"
)

// Defined reports whether an indicator value is usable (not NaN).
func Defined(x float64) bool { return !math.IsNaN(x) }

// undefined fills a new slice of length n with NaN.
func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func checkPeriod(period int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	return nil
}

func checkSameLen(name string, lens ...int) error {
	for i := 1; i < len(lens); i++ {
		if lens[i] != lens[0] {
			return fmt.Errorf("%s: input lengths differ: %v", name, lens)
		}
	}
	return nil
}
