// Package engine wires the analyzer, classifier and risk manager behind the
// surface the orchestration layer drives: Evaluate, ProposeOrder,
// OnPriceTick and RiskSummary. One Engine instance serves one symbol; it is
// driven synchronously by an external tick and never blocks on I/O itself.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quantfx/smcassist/broker"
	"github.com/quantfx/smcassist/config"
	"github.com/quantfx/smcassist/journal"
	"github.com/quantfx/smcassist/market"
	"github.com/quantfx/smcassist/pkg/id"
	"github.com/quantfx/smcassist/risk"
	"github.com/quantfx/smcassist/signal"
	"github.com/quantfx/smcassist/structure"
)

// ProposalRejectedError reports a denied order proposal with the limits
// that were breached.
type ProposalRejectedError struct {
	Decision risk.Decision
}

func (e *ProposalRejectedError) Error() string {
	return fmt.Sprintf("order proposal rejected: %s", e.Decision.Reason())
}

// Engine evaluates one symbol's candle window and manages the resulting
// positions' risk.
type Engine struct {
	cfg        *config.Config
	meta       market.InstrumentMeta
	classifier *signal.Classifier
	riskMgr    *risk.Manager
	brk        broker.Broker
	jrnl       journal.Journal
	log        *zap.Logger

	// open positions keyed by broker ticket
	positions map[string]*risk.PositionRisk
	lastATR   float64
}

// New builds an engine from a validated configuration. The journal may be
// nil; a no-op journal is substituted.
func New(cfg *config.Config, brk broker.Broker, jrnl journal.Journal, log *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mgr, err := risk.NewManager(cfg.Risk)
	if err != nil {
		return nil, err
	}
	if jrnl == nil {
		jrnl = journal.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:        cfg,
		meta:       market.Resolve(cfg.Symbol),
		classifier: signal.NewClassifier(cfg.Analyzer, cfg.Signals.ResponsePeriod, cfg.Signals.ExpiryBars),
		riskMgr:    mgr,
		brk:        brk,
		jrnl:       jrnl,
		log:        log.With(zap.String("symbol", cfg.Symbol)),
		positions:  make(map[string]*risk.PositionRisk),
	}, nil
}

// RiskManager exposes the engine's risk manager, e.g. to share one limit
// authority across several symbol engines.
func (e *Engine) RiskManager() *risk.Manager { return e.riskMgr }

// SetConfig replaces the configuration between evaluation cycles.
func (e *Engine) SetConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := e.riskMgr.SetParameters(cfg.Risk); err != nil {
		return err
	}
	e.cfg = cfg
	e.meta = market.Resolve(cfg.Symbol)
	e.classifier = signal.NewClassifier(cfg.Analyzer, cfg.Signals.ResponsePeriod, cfg.Signals.ExpiryBars)
	return nil
}

// Evaluate pulls the candle window from the broker, analyzes it and
// classifies at most one signal. A nil signal with nil error means "no
// signal this cycle"; an error means the upstream data could not be
// fetched.
func (e *Engine) Evaluate(ctx context.Context) (*signal.Signal, error) {
	candles, err := e.brk.GetCandles(ctx, e.cfg.Symbol, e.cfg.Timeframe, e.cfg.Candles)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	series, err := market.SeriesFrom(e.cfg.Symbol, e.cfg.Timeframe, candles)
	if err != nil {
		return nil, fmt.Errorf("build series: %w", err)
	}

	analysis := structure.Analyze(series, e.cfg.Analyzer)
	if analysis.Len() == 0 {
		e.log.Debug("window too short, skipping cycle", zap.Int("bars", series.Len()))
		return nil, nil
	}
	if n := analysis.Len(); n > 0 {
		e.lastATR = analysis.ATR[n-1]
	}

	sig := e.classifier.Evaluate(series, analysis)
	if sig == nil {
		return nil, nil
	}

	e.log.Info("signal classified",
		zap.String("kind", string(sig.Kind)),
		zap.String("action", string(sig.Action)),
		zap.Float64("entry", sig.Entry),
		zap.Float64("confidence", sig.Confidence),
	)
	if err := e.jrnl.RecordSignal(journal.NewSignalRecord(id.New(), sig)); err != nil {
		e.log.Warn("journal signal failed", zap.Error(err))
	}
	return sig, nil
}

// ProposeOrder gates the signal through the daily limits, sizes it and
// places the order. A limits denial returns *ProposalRejectedError; the
// signal is discarded either way and never retried.
func (e *Engine) ProposeOrder(ctx context.Context, sig *signal.Signal) (risk.PositionRisk, error) {
	if d := e.riskMgr.CheckDailyLimits(); !d.Allowed {
		e.log.Info("proposal rejected", zap.String("reason", d.Reason()))
		return risk.PositionRisk{}, &ProposalRejectedError{Decision: d}
	}

	pos := e.riskMgr.Size(sig, e.meta)

	ticket, err := e.brk.PlaceOrder(ctx, broker.OrderRequest{
		Symbol:     sig.Symbol,
		Side:       string(sig.Action),
		Size:       pos.Size,
		StopLoss:   pos.StopLoss,
		TakeProfit: pos.TakeProfit,
		Comment:    string(sig.Kind),
	})
	if err != nil {
		return risk.PositionRisk{}, fmt.Errorf("place order: %w", err)
	}

	pos.ID = ticket
	e.riskMgr.OnOpen(&pos)
	e.positions[ticket] = &pos

	e.log.Info("order placed",
		zap.String("ticket", ticket),
		zap.Float64("size", pos.Size),
		zap.Float64("stop", pos.StopLoss),
		zap.Float64("take_profit", pos.TakeProfit),
	)
	return pos, nil
}

// OnPriceTick refreshes live risk numbers for the open positions and runs
// the break-even and trailing-stop checks, pushing any stop moves to the
// broker. It also rolls the daily counters at the UTC day boundary.
func (e *Engine) OnPriceTick(ctx context.Context, tick market.Tick) {
	if e.riskMgr.RollDay(tick.Time) {
		e.log.Info("daily counters reset", zap.Time("day", tick.Time.UTC()))
	}
	price := tick.Mid()

	for ticket, pos := range e.positions {
		e.riskMgr.UpdateOnPrice(pos, price)

		moved := e.riskMgr.MoveToBreakEven(pos, price)
		if e.cfg.Risk.TrailingStop {
			if e.riskMgr.AdjustTrailingStop(pos, price, e.lastATR) {
				moved = true
			}
		}
		if !moved {
			continue
		}

		stop := pos.StopLoss
		if err := e.brk.ModifyPosition(ctx, ticket, &stop, nil); err != nil {
			e.log.Warn("stop modify failed", zap.String("ticket", ticket), zap.Error(err))
			continue
		}
		e.log.Info("stop adjusted", zap.String("ticket", ticket), zap.Float64("stop", stop))
	}
}

// OnPositionClosed books a closed position: realized P&L folds into the
// daily accumulator and a trade record is journaled. Unknown tickets only
// book the P&L.
func (e *Engine) OnPositionClosed(ticket string, pnl float64, reason string, closedAt time.Time) {
	e.riskMgr.OnClose(ticket, pnl)

	pos, ok := e.positions[ticket]
	if !ok {
		return
	}
	delete(e.positions, ticket)

	exit := pos.EntryPrice
	if pos.Size != 0 {
		if pos.Long() {
			exit = pos.EntryPrice + pnl/pos.Size
		} else {
			exit = pos.EntryPrice - pnl/pos.Size
		}
	}
	rec := journal.TradeRecord{
		Ticket:    ticket,
		Symbol:    pos.Symbol,
		Size:      pos.Size,
		Entry:     pos.EntryPrice,
		Exit:      exit,
		OpenTime:  pos.OpenTime,
		CloseTime: closedAt,
		PnL:       pnl,
		Reason:    reason,
	}
	if err := e.jrnl.RecordTrade(rec); err != nil {
		e.log.Warn("journal trade failed", zap.Error(err))
	}
	e.log.Info("position closed",
		zap.String("ticket", ticket),
		zap.Float64("pnl", pnl),
		zap.String("reason", reason),
	)
}

// RiskSummary returns the display snapshot of open risk and daily counters.
func (e *Engine) RiskSummary() risk.RiskSummary {
	return e.riskMgr.Summary()
}
