package risk

import "time"

// PositionRisk is the risk assessment for a single position. It is created
// by sizing, owned by the Manager's open-positions collection while the
// position lives, and discarded when the position closes.
type PositionRisk struct {
	ID           string
	Symbol       string
	EntryPrice   float64
	Size         float64 // lots
	StopLoss     float64
	TakeProfit   float64
	RiskAmount   float64
	RewardAmount float64
	RiskReward   float64
	ATR          float64
	BreakEvenSet bool
	OpenTime     time.Time
}

// Long reports the position side, inferred from the stop placement:
// a stop below the entry means long, a stop above means short.
func (p *PositionRisk) Long() bool { return p.EntryPrice > p.StopLoss }
