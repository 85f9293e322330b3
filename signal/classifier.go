package signal

import (
	"time"

	"github.com/quantfx/smcassist/indicators"
	"github.com/quantfx/smcassist/market"
	"github.com/quantfx/smcassist/structure"
)

// Classifier evaluates an analyzed window against the rule set in fixed
// precedence order: CHoCH, then SMS, then order block. It is stateless
// across calls; everything it reads is re-derived from the window.
type Classifier struct {
	cfg        structure.Config
	resp       int // SMS response lookback, in bars
	expiryBars int // bars a signal stays actionable; 0 disables expiry
}

// NewClassifier builds a classifier for the analyzer configuration.
// resp is the SMS breakout lookback (7 bars when <= 0).
func NewClassifier(cfg structure.Config, resp, expiryBars int) *Classifier {
	if resp <= 0 {
		resp = 7
	}
	return &Classifier{cfg: cfg, resp: resp, expiryBars: expiryBars}
}

// Evaluate inspects the latest bar and returns the first matching signal,
// or nil when no rule matches or the window is too short. At most one
// signal is returned per call.
func (cl *Classifier) Evaluate(s *market.Series, a structure.Analysis) *Signal {
	n := s.Len()
	if a.Len() != n || n < cl.minBars() {
		return nil
	}

	last := s.At(n - 1)
	atr := a.ATR[n-1]
	if !indicators.Defined(atr) {
		return nil
	}

	base := Signal{
		Symbol: s.Symbol,
		Entry:  last.Close,
		ATR:    atr,
		Time:   last.Time,
	}
	if cl.expiryBars > 0 {
		if d := s.BarDuration(); d > 0 {
			base.Expiry = last.Time.Add(time.Duration(cl.expiryBars) * d)
		}
	}

	if sig := cl.choch(s, a, base); sig != nil {
		return sig
	}
	if sig := cl.sms(s, a, base); sig != nil {
		return sig
	}
	return cl.orderBlock(s, a, base)
}

func (cl *Classifier) minBars() int {
	min := 2 * cl.cfg.MAPeriod
	if m := cl.cfg.MinBars(); m > min {
		min = m
	}
	if cl.resp+1 > min {
		min = cl.resp + 1
	}
	return min
}

// choch detects a change of character: a confirmed swing pivot against the
// break direction while the current bar clears the prior bar's rolling
// extreme. A bullish break needs a confirmed higher low behind it, a bearish
// break a confirmed lower high. Pivots use centered windows, so the newest
// bar whose pivot status is decidable sits PivotPeriod bars back.
func (cl *Classifier) choch(s *market.Series, a structure.Analysis, base Signal) *Signal {
	n := s.Len()
	pivotIdx := n - 1 - cl.cfg.PivotPeriod
	if pivotIdx < 0 || n < 2 {
		return nil
	}
	last := s.At(n - 1)

	if indicators.Defined(a.PivotLow[pivotIdx]) &&
		indicators.Defined(a.Up[n-2]) && last.High > a.Up[n-2] {
		sig := base
		sig.Action = Buy
		sig.Kind = KindCHoCH
		sig.Confidence = 0.8
		sig.StopLoss = last.Low - base.ATR
		sig.TakeProfit = last.Close + 2*base.ATR
		return &sig
	}

	if indicators.Defined(a.PivotHigh[pivotIdx]) &&
		indicators.Defined(a.Dn[n-2]) && last.Low < a.Dn[n-2] {
		sig := base
		sig.Action = Sell
		sig.Kind = KindCHoCH
		sig.Confidence = 0.8
		sig.StopLoss = last.High + base.ATR
		sig.TakeProfit = last.Close - 2*base.ATR
		return &sig
	}
	return nil
}

// sms detects a short-lookback structure break: the close clears the
// rolling extreme of the resp bars preceding the current one, on volume
// above their mean. Target is a 1:1 projection of the broken range.
func (cl *Classifier) sms(s *market.Series, a structure.Analysis, base Signal) *Signal {
	n := s.Len()
	lo, hi := n-1-cl.resp, n-1 // window of resp bars ending at the prior bar
	if lo < 0 {
		return nil
	}
	last := s.At(n - 1)

	lastUp, upOK := windowMax(a.Up[lo:hi])
	lastDn, dnOK := windowMin(a.Dn[lo:hi])
	if !upOK || !dnOK {
		return nil
	}

	volSum := 0.0
	for i := lo; i < hi; i++ {
		volSum += s.At(i).Volume
	}
	volMean := volSum / float64(cl.resp)

	if last.Close > lastUp && last.Volume > volMean {
		sig := base
		sig.Action = Buy
		sig.Kind = KindSMS
		sig.Confidence = 0.7
		sig.StopLoss = lastDn
		sig.TakeProfit = last.Close + (last.Close - lastDn)
		return &sig
	}

	if last.Close < lastDn && last.Volume > volMean {
		sig := base
		sig.Action = Sell
		sig.Kind = KindSMS
		sig.Confidence = 0.7
		sig.StopLoss = lastUp
		sig.TakeProfit = last.Close - (lastUp - last.Close)
		return &sig
	}
	return nil
}

// orderBlock acts on the newest confirmed block. A block is marked on the
// bar preceding its confirming break, so with the just-closed bar as the
// confirmer the newest possible mark sits one bar back.
func (cl *Classifier) orderBlock(s *market.Series, a structure.Analysis, base Signal) *Signal {
	n := s.Len()
	if n < 2 {
		return nil
	}
	mark := a.OrderBlock[n-2]
	if mark == 0 {
		return nil
	}
	last := s.At(n - 1)

	sig := base
	sig.Kind = KindOrderBlock
	sig.Confidence = 0.75
	if mark > 0 {
		sig.Action = Buy
		sig.StopLoss = last.Low - base.ATR
		sig.TakeProfit = last.Close + 2*base.ATR
	} else {
		sig.Action = Sell
		sig.StopLoss = last.High + base.ATR
		sig.TakeProfit = last.Close - 2*base.ATR
	}
	return &sig
}

func windowMax(vals []float64) (float64, bool) {
	found := false
	max := 0.0
	for _, v := range vals {
		if !indicators.Defined(v) {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	return max, found
}

func windowMin(vals []float64) (float64, bool) {
	found := false
	min := 0.0
	for _, v := range vals {
		if !indicators.Defined(v) {
			continue
		}
		if !found || v < min {
			min = v
			found = true
		}
	}
	return min, found
}
