// Package signal classifies analyzed candle windows into discrete trading
// signals with a fixed rule precedence.
package signal

import (
	"fmt"
	"math"
	"time"
)

// Kind tags the rule that produced a signal.
type Kind string

const (
	KindCHoCH      Kind = "CHoCH"
	KindSMS        Kind = "SMS"
	KindOrderBlock Kind = "order_block"
)

// Action is the trade direction.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Signal describes one classified trading opportunity. A signal is consumed
// exactly once: the risk engine either sizes it into an order or discards
// it. Rejected signals do not retry.
type Signal struct {
	Symbol     string
	Action     Action
	Kind       Kind
	Confidence float64
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	ATR        float64
	Time       time.Time
	Expiry     time.Time // zero means no expiry
}

func (s *Signal) String() string {
	return fmt.Sprintf("%s %s %s entry=%.5f stop=%.5f tp=%.5f conf=%.2f",
		s.Symbol, s.Kind, s.Action, s.Entry, s.StopLoss, s.TakeProfit, s.Confidence)
}

// RiskReward returns reward/risk implied by entry, stop and take-profit, or
// 0 when the stop distance is zero.
func (s *Signal) RiskReward() float64 {
	risk := math.Abs(s.Entry - s.StopLoss)
	if risk == 0 {
		return 0
	}
	return math.Abs(s.TakeProfit-s.Entry) / risk
}

// Valid reports whether the signal can still be acted on: not expired and
// with the current price within 1.5 ATR of the planned entry.
func (s *Signal) Valid(currentPrice float64, now time.Time) bool {
	if !s.Expiry.IsZero() && now.After(s.Expiry) {
		return false
	}
	if s.ATR <= 0 {
		return true
	}
	return math.Abs(currentPrice-s.Entry) <= s.ATR*1.5
}
