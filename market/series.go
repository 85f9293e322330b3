package market

import (
	"fmt"
	"time"
)

// Series is an append-only, time-ordered candle window for a single
// symbol/timeframe. Gaps between bars are tolerated; out-of-order or
// duplicate timestamps are rejected.
type Series struct {
	Symbol    string
	Timeframe string
	candles   []Candle
}

// NewSeries creates an empty series for the given symbol and timeframe.
func NewSeries(symbol, timeframe string) *Series {
	return &Series{Symbol: symbol, Timeframe: timeframe}
}

// SeriesFrom builds a series from already-ordered candles, validating each.
func SeriesFrom(symbol, timeframe string, candles []Candle) (*Series, error) {
	s := NewSeries(symbol, timeframe)
	for _, c := range candles {
		if err := s.Append(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds a closed candle to the series. The candle's timestamp must be
// strictly after the last one.
func (s *Series) Append(c Candle) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if n := len(s.candles); n > 0 && !c.Time.After(s.candles[n-1].Time) {
		return fmt.Errorf("series %s: candle at %s not after last bar %s",
			s.Symbol, c.Time.Format(time.RFC3339), s.candles[n-1].Time.Format(time.RFC3339))
	}
	s.candles = append(s.candles, c)
	return nil
}

// Len returns the number of candles in the series.
func (s *Series) Len() int { return len(s.candles) }

// At returns the candle at index i.
func (s *Series) At(i int) Candle { return s.candles[i] }

// Last returns the most recent candle; ok is false on an empty series.
func (s *Series) Last() (Candle, bool) {
	if len(s.candles) == 0 {
		return Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Trim drops the oldest candles so at most max remain.
func (s *Series) Trim(max int) {
	if max > 0 && len(s.candles) > max {
		s.candles = append(s.candles[:0:0], s.candles[len(s.candles)-max:]...)
	}
}

// Candles returns a copy of the underlying candle slice.
func (s *Series) Candles() []Candle {
	out := make([]Candle, len(s.candles))
	copy(out, s.candles)
	return out
}

// Opens returns the open column as an owned slice.
func (s *Series) Opens() []float64 { return s.column(func(c Candle) float64 { return c.Open }) }

// Highs returns the high column as an owned slice.
func (s *Series) Highs() []float64 { return s.column(func(c Candle) float64 { return c.High }) }

// Lows returns the low column as an owned slice.
func (s *Series) Lows() []float64 { return s.column(func(c Candle) float64 { return c.Low }) }

// Closes returns the close column as an owned slice.
func (s *Series) Closes() []float64 { return s.column(func(c Candle) float64 { return c.Close }) }

// Volumes returns the volume column as an owned slice.
func (s *Series) Volumes() []float64 { return s.column(func(c Candle) float64 { return c.Volume }) }

func (s *Series) column(f func(Candle) float64) []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i] = f(c)
	}
	return out
}

// BarDuration returns the spacing between the last two bars, or zero when
// fewer than two bars exist.
func (s *Series) BarDuration() time.Duration {
	n := len(s.candles)
	if n < 2 {
		return 0
	}
	return s.candles[n-1].Time.Sub(s.candles[n-2].Time)
}
