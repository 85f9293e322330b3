package risk

import "fmt"

// Violation is one reason a proposal was denied.
type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of a limits check. A denial carries every limit
// that was breached, not just the first.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Reason flattens the violations into a single display string.
func (d Decision) Reason() string {
	if d.Allowed || len(d.Violations) == 0 {
		return ""
	}
	out := d.Violations[0].Msg
	for _, v := range d.Violations[1:] {
		out += "; " + v.Msg
	}
	return out
}

// CheckDailyLimits reports whether a new position may be opened. It must be
// consulted before every proposal, independently of and prior to sizing.
func (m *Manager) CheckDailyLimits() Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := Decision{Allowed: true}

	limit := m.params.AccountBalance * m.params.DailyLossLimit / 100
	if m.dailyPnL < 0 && -m.dailyPnL >= limit {
		d.add("DAILY_LOSS_LIMIT",
			fmt.Sprintf("daily loss limit of %.1f%% reached (pnl %.2f, limit %.2f)",
				m.params.DailyLossLimit, m.dailyPnL, limit))
	}
	if len(m.open) >= m.params.MaxOpenPositions {
		d.add("MAX_OPEN_POSITIONS",
			fmt.Sprintf("maximum open positions (%d) reached", m.params.MaxOpenPositions))
	}
	if m.tradesToday >= m.params.MaxDailyTrades {
		d.add("MAX_DAILY_TRADES",
			fmt.Sprintf("maximum trades per day (%d) reached", m.params.MaxDailyTrades))
	}
	return d
}
