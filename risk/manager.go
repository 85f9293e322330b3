package risk

import (
	"math"
	"sync"
	"time"

	"github.com/quantfx/smcassist/market"
	"github.com/quantfx/smcassist/signal"
)

// Manager tracks open-position risk, daily P&L and trade counts for one
// account. A single engine drives it synchronously; the mutex exists so one
// Manager can also serve as the shared limit authority when several symbol
// engines trade the same account.
type Manager struct {
	mu          sync.Mutex
	params      Parameters
	open        []*PositionRisk
	dailyPnL    float64
	tradesToday int
	day         time.Time // UTC midnight of the current trading day
}

// NewManager validates the parameters and returns a manager with zeroed
// daily counters.
func NewManager(p Parameters) (*Manager, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Manager{params: p}, nil
}

// Parameters returns the current session parameters.
func (m *Manager) Parameters() Parameters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params
}

// SetParameters replaces the session parameters between evaluation cycles.
func (m *Manager) SetParameters(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.params = p
	m.mu.Unlock()
	return nil
}

// Size converts a signal into a sized position with stop-loss and
// take-profit. Degenerate denominators never propagate: a zero or negative
// stop distance falls back to the minimum lot. The result is free of
// NaN/Inf, capped at MaxPositionSize and floored at the stricter of the
// account MinLot and the instrument's minimum lot.
func (m *Manager) Size(sig *signal.Signal, meta market.InstrumentMeta) PositionRisk {
	m.mu.Lock()
	p := m.params
	m.mu.Unlock()

	riskAmount := p.AccountBalance * p.RiskPerTrade / 100

	var size float64
	if p.UseATR && sig.ATR > 0 {
		// ATR-based sizing: stop distance in pips times the 10-per-pip
		// standard-lot value gives the per-lot risk.
		stopDistance := sig.ATR * p.ATRMultiplier
		var riskPerLot float64
		if ps := meta.PipSize(); ps > 0 {
			riskPerLot = stopDistance / ps * 10
		}
		if riskPerLot > 0 {
			size = riskAmount / riskPerLot
		} else {
			size = p.MinLot
		}
	} else {
		riskPerUnit := math.Abs(sig.Entry - sig.StopLoss)
		if riskPerUnit > 0 {
			size = riskAmount / riskPerUnit
		} else {
			size = p.MinLot
		}
	}
	size = clampSize(size, p, meta)

	// Take-profit projects the stop distance by the default risk/reward
	// ratio on the trade's side.
	var takeProfit float64
	if sig.Entry > sig.StopLoss { // long: stop below entry
		takeProfit = sig.Entry + (sig.Entry-sig.StopLoss)*p.DefaultRiskReward
	} else { // short: stop above entry
		takeProfit = sig.Entry - (sig.StopLoss-sig.Entry)*p.DefaultRiskReward
	}

	return PositionRisk{
		Symbol:       sig.Symbol,
		EntryPrice:   sig.Entry,
		Size:         size,
		StopLoss:     sig.StopLoss,
		TakeProfit:   takeProfit,
		RiskAmount:   riskAmount,
		RewardAmount: riskAmount * p.DefaultRiskReward,
		RiskReward:   p.DefaultRiskReward,
		ATR:          sig.ATR,
		OpenTime:     sig.Time,
	}
}

func clampSize(size float64, p Parameters, meta market.InstrumentMeta) float64 {
	minLot := p.MinLot
	if meta.MinLot > minLot {
		minLot = meta.MinLot
	}
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		size = minLot
	}
	if size > p.MaxPositionSize {
		size = p.MaxPositionSize
	}
	if meta.LotStep > 0 {
		size = math.Floor(size/meta.LotStep) * meta.LotStep
	}
	if size < minLot {
		size = minLot
	}
	return size
}

// OnOpen registers an opened position and counts it against the daily
// trade limit.
func (m *Manager) OnOpen(pos *PositionRisk) {
	m.mu.Lock()
	m.open = append(m.open, pos)
	m.tradesToday++
	m.mu.Unlock()
}

// OnClose removes the position and folds its realized P&L into the daily
// accumulator. Closing an unknown ID still books the P&L; it is not an
// error.
func (m *Manager) OnClose(id string, pnl float64) {
	m.mu.Lock()
	for i, pos := range m.open {
		if pos.ID == id {
			m.open = append(m.open[:i], m.open[i+1:]...)
			break
		}
	}
	m.dailyPnL += pnl
	m.mu.Unlock()
}

// OpenPositions returns the currently tracked positions.
func (m *Manager) OpenPositions() []*PositionRisk {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*PositionRisk, len(m.open))
	copy(out, m.open)
	return out
}

// ResetDaily zeroes the daily P&L and trade counters. Calling it twice is
// the same as calling it once.
func (m *Manager) ResetDaily() {
	m.mu.Lock()
	m.dailyPnL = 0
	m.tradesToday = 0
	m.mu.Unlock()
}

// RollDay resets the daily counters when now falls on a later UTC day than
// the last roll. It returns whether a reset happened, and is a no-op for
// repeated calls within the same day.
func (m *Manager) RollDay(now time.Time) bool {
	day := now.UTC().Truncate(24 * time.Hour)
	m.mu.Lock()
	defer m.mu.Unlock()
	if !day.After(m.day) {
		return false
	}
	rolled := !m.day.IsZero()
	m.day = day
	if rolled {
		m.dailyPnL = 0
		m.tradesToday = 0
	}
	return rolled
}

// UpdateOnPrice recomputes the position's live risk/reward numbers against
// the current price. This is a monitoring refresh; stops and targets are
// not touched.
func (m *Manager) UpdateOnPrice(pos *PositionRisk, currentPrice float64) {
	if pos.Long() {
		pos.RiskAmount = (currentPrice - pos.EntryPrice) * pos.Size
		pos.RewardAmount = (pos.TakeProfit - pos.EntryPrice) * pos.Size
	} else {
		pos.RiskAmount = (pos.EntryPrice - currentPrice) * pos.Size
		pos.RewardAmount = (pos.EntryPrice - pos.TakeProfit) * pos.Size
	}
	if pos.RiskAmount != 0 {
		pos.RiskReward = math.Abs(pos.RewardAmount / pos.RiskAmount)
	}
}

// AdjustTrailingStop proposes a new ATR-distance stop and applies it only
// when it tightens toward the entry: higher for longs, lower for shorts.
// It reports whether the stop moved.
func (m *Manager) AdjustTrailingStop(pos *PositionRisk, currentPrice, atrValue float64) bool {
	m.mu.Lock()
	mult := m.params.ATRMultiplier
	m.mu.Unlock()

	if atrValue <= 0 {
		atrValue = pos.ATR
	}
	if atrValue <= 0 {
		return false
	}

	if pos.Long() {
		newStop := currentPrice - atrValue*mult
		if newStop > pos.StopLoss {
			pos.StopLoss = newStop
			return true
		}
	} else {
		newStop := currentPrice + atrValue*mult
		if newStop < pos.StopLoss {
			pos.StopLoss = newStop
			return true
		}
	}
	return false
}

// MoveToBreakEven relocates the stop to the entry price once the trade has
// moved favorably by BreakEvenATR ATRs. It fires at most once per position
// and reports whether it did.
func (m *Manager) MoveToBreakEven(pos *PositionRisk, currentPrice float64) bool {
	m.mu.Lock()
	enabled := m.params.BreakEven
	beATR := m.params.BreakEvenATR
	m.mu.Unlock()

	if !enabled || pos.BreakEvenSet || pos.ATR <= 0 {
		return false
	}
	threshold := pos.ATR * beATR

	if pos.Long() {
		if currentPrice-pos.EntryPrice >= threshold && pos.StopLoss < pos.EntryPrice {
			pos.StopLoss = pos.EntryPrice
			pos.BreakEvenSet = true
			return true
		}
	} else {
		if pos.EntryPrice-currentPrice >= threshold && pos.StopLoss > pos.EntryPrice {
			pos.StopLoss = pos.EntryPrice
			pos.BreakEvenSet = true
			return true
		}
	}
	return false
}

// RiskSummary is a display snapshot of the manager's state.
type RiskSummary struct {
	OpenPositions int
	TotalRisk     float64
	DailyPnL      float64
	TradesToday   int
	Balance       float64
	Equity        float64
}

// Summary returns the current risk metrics.
func (m *Manager) Summary() RiskSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0.0
	for _, pos := range m.open {
		total += pos.RiskAmount
	}
	return RiskSummary{
		OpenPositions: len(m.open),
		TotalRisk:     total,
		DailyPnL:      m.dailyPnL,
		TradesToday:   m.tradesToday,
		Balance:       m.params.AccountBalance,
		Equity:        m.params.AccountBalance + m.dailyPnL,
	}
}
