// Package sim provides an in-memory Broker for demos and engine tests.
// It fills market orders at the stored quote, triggers stops and targets on
// price updates, and reports realized P&L through a close callback.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/quantfx/smcassist/broker"
	"github.com/quantfx/smcassist/market"
	"github.com/quantfx/smcassist/pkg/id"
)

// CloseFunc is notified when a position closes, with the realized P&L in
// quote-currency terms and the trigger reason ("StopLoss", "TakeProfit",
// "Close").
type CloseFunc func(ticket string, pnl float64, reason string)

type position struct {
	broker.PositionSnapshot
	open bool
}

// Broker is a minimal simulated terminal.
type Broker struct {
	mu      sync.Mutex
	ticks   map[string]market.Tick
	candles map[string][]market.Candle // keyed symbol/timeframe
	pos     map[string]*position
	onClose CloseFunc
}

// New returns an empty simulated broker.
func New() *Broker {
	return &Broker{
		ticks:   make(map[string]market.Tick),
		candles: make(map[string][]market.Candle),
		pos:     make(map[string]*position),
	}
}

// SetCloseFunc installs the position-close callback.
func (b *Broker) SetCloseFunc(f CloseFunc) {
	b.mu.Lock()
	b.onClose = f
	b.mu.Unlock()
}

// LoadCandles replaces the stored history for a symbol/timeframe.
func (b *Broker) LoadCandles(symbol, timeframe string, candles []market.Candle) {
	b.mu.Lock()
	b.candles[candleKey(symbol, timeframe)] = candles
	b.mu.Unlock()
}

// AppendCandle adds one closed candle to the stored history.
func (b *Broker) AppendCandle(c market.Candle) {
	b.mu.Lock()
	key := candleKey(c.Symbol, c.Timeframe)
	b.candles[key] = append(b.candles[key], c)
	b.mu.Unlock()
}

func candleKey(symbol, timeframe string) string { return symbol + "/" + timeframe }

// GetCandles returns up to count of the newest stored candles, oldest
// first. Asking for a symbol with no data is an upstream data fault.
func (b *Broker) GetCandles(_ context.Context, symbol, timeframe string, count int) ([]market.Candle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.candles[candleKey(symbol, timeframe)]
	if len(all) == 0 {
		return nil, fmt.Errorf("sim: no candles for %s %s", symbol, timeframe)
	}
	if count > 0 && len(all) > count {
		all = all[len(all)-count:]
	}
	out := make([]market.Candle, len(all))
	copy(out, all)
	return out, nil
}

// GetTick returns the last stored quote for the symbol.
func (b *Broker) GetTick(_ context.Context, symbol string) (market.Tick, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.ticks[symbol]
	if !ok {
		return market.Tick{}, fmt.Errorf("sim: no tick for %s", symbol)
	}
	return t, nil
}

// GetOpenPositions lists the open positions for the symbol.
func (b *Broker) GetOpenPositions(_ context.Context, symbol string) ([]broker.PositionSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []broker.PositionSnapshot
	for _, p := range b.pos {
		if p.open && p.Symbol == symbol {
			out = append(out, p.PositionSnapshot)
		}
	}
	return out, nil
}

// PlaceOrder fills a market order at the stored quote: buys at ask, sells
// at bid.
func (b *Broker) PlaceOrder(_ context.Context, req broker.OrderRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.ticks[req.Symbol]
	if !ok {
		return "", fmt.Errorf("sim: no tick for %s, cannot fill", req.Symbol)
	}

	size := req.Size
	fill := t.Ask
	if req.Side == "sell" {
		size = -size
		fill = t.Bid
	}

	ticket := id.New()
	b.pos[ticket] = &position{
		PositionSnapshot: broker.PositionSnapshot{
			Ticket:     ticket,
			Symbol:     req.Symbol,
			Size:       size,
			EntryPrice: fill,
			StopLoss:   req.StopLoss,
			TakeProfit: req.TakeProfit,
			OpenTime:   t.Time,
		},
		open: true,
	}
	return ticket, nil
}

// ModifyPosition updates protective levels on an open position.
func (b *Broker) ModifyPosition(_ context.Context, ticket string, stopLoss, takeProfit *float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pos[ticket]
	if !ok || !p.open {
		return fmt.Errorf("sim: position %s not open", ticket)
	}
	if stopLoss != nil {
		p.StopLoss = *stopLoss
	}
	if takeProfit != nil {
		p.TakeProfit = *takeProfit
	}
	return nil
}

// ClosePosition closes at the current quote on the position's exit side.
func (b *Broker) ClosePosition(_ context.Context, ticket string) error {
	b.mu.Lock()
	p, ok := b.pos[ticket]
	if !ok || !p.open {
		b.mu.Unlock()
		return fmt.Errorf("sim: position %s not open", ticket)
	}
	t, ok := b.ticks[p.Symbol]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("sim: no tick for %s, cannot close", p.Symbol)
	}
	b.mu.Unlock()

	price := t.Bid
	if p.Size < 0 {
		price = t.Ask
	}
	b.close(p, price, "Close")
	return nil
}

// UpdateTick stores a new quote and fires stop-loss/take-profit triggers
// against it. Longs exit on bid, shorts on ask.
func (b *Broker) UpdateTick(t market.Tick) {
	b.mu.Lock()
	b.ticks[t.Symbol] = t
	var triggered []*position
	var prices []float64
	var reasons []string
	for _, p := range b.pos {
		if !p.open || p.Symbol != t.Symbol {
			continue
		}
		exit := t.Bid
		if p.Size < 0 {
			exit = t.Ask
		}
		if p.Size > 0 {
			switch {
			case p.StopLoss > 0 && exit <= p.StopLoss:
				triggered = append(triggered, p)
				prices = append(prices, p.StopLoss)
				reasons = append(reasons, "StopLoss")
			case p.TakeProfit > 0 && exit >= p.TakeProfit:
				triggered = append(triggered, p)
				prices = append(prices, p.TakeProfit)
				reasons = append(reasons, "TakeProfit")
			}
		} else {
			switch {
			case p.StopLoss > 0 && exit >= p.StopLoss:
				triggered = append(triggered, p)
				prices = append(prices, p.StopLoss)
				reasons = append(reasons, "StopLoss")
			case p.TakeProfit > 0 && exit <= p.TakeProfit:
				triggered = append(triggered, p)
				prices = append(prices, p.TakeProfit)
				reasons = append(reasons, "TakeProfit")
			}
		}
	}
	b.mu.Unlock()

	for i, p := range triggered {
		b.close(p, prices[i], reasons[i])
	}
}

func (b *Broker) close(p *position, price float64, reason string) {
	b.mu.Lock()
	if !p.open {
		b.mu.Unlock()
		return
	}
	p.open = false
	pnl := (price - p.EntryPrice) * p.Size
	p.Profit = pnl
	cb := b.onClose
	b.mu.Unlock()

	if cb != nil {
		cb(p.Ticket, pnl, reason)
	}
}
