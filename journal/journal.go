// Package journal persists emitted signals and closed trades so a session
// can be reviewed after the fact.
package journal

import (
	"time"

	"github.com/quantfx/smcassist/signal"
)

// SignalRecord is one classified signal as it was emitted.
type SignalRecord struct {
	ID         string
	Symbol     string
	Kind       string
	Action     string
	Confidence float64
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	ATR        float64
	Time       time.Time
}

// NewSignalRecord flattens a signal for storage under the given ID.
func NewSignalRecord(id string, sig *signal.Signal) SignalRecord {
	return SignalRecord{
		ID:         id,
		Symbol:     sig.Symbol,
		Kind:       string(sig.Kind),
		Action:     string(sig.Action),
		Confidence: sig.Confidence,
		Entry:      sig.Entry,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		ATR:        sig.ATR,
		Time:       sig.Time,
	}
}

// TradeRecord is one completed round trip.
type TradeRecord struct {
	Ticket    string
	Symbol    string
	Size      float64
	Entry     float64
	Exit      float64
	OpenTime  time.Time
	CloseTime time.Time
	PnL       float64
	Reason    string
}

// Journal records session activity.
type Journal interface {
	RecordSignal(SignalRecord) error
	RecordTrade(TradeRecord) error
	Close() error
}

// Nop is a Journal that discards everything.
type Nop struct{}

func (Nop) RecordSignal(SignalRecord) error { return nil }
func (Nop) RecordTrade(TradeRecord) error   { return nil }
func (Nop) Close() error                    { return nil }
