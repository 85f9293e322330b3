// Package broker defines the interfaces the engine consumes from a broker
// terminal connection. The engine never blocks on I/O itself; these
// collaborators hand in already-fetched values and accept order intents.
package broker

import (
	"context"
	"time"

	"github.com/quantfx/smcassist/market"
)

// CandleSource supplies closed historical candles, newest last.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol, timeframe string, count int) ([]market.Candle, error)
}

// TickSource supplies the current quote for a symbol.
type TickSource interface {
	GetTick(ctx context.Context, symbol string) (market.Tick, error)
}

// PositionSnapshot is the broker's view of one open position.
type PositionSnapshot struct {
	Ticket     string
	Symbol     string
	Size       float64 // lots, negative for shorts
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Profit     float64
	OpenTime   time.Time
}

// PositionSource lists the open positions for a symbol.
type PositionSource interface {
	GetOpenPositions(ctx context.Context, symbol string) ([]PositionSnapshot, error)
}

// OrderRequest is a market order intent with protective levels attached.
type OrderRequest struct {
	Symbol     string
	Side       string // "buy" or "sell"
	Size       float64
	StopLoss   float64
	TakeProfit float64
	Comment    string
}

// OrderPlacer places and manages orders at the broker.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (ticket string, err error)
	ModifyPosition(ctx context.Context, ticket string, stopLoss, takeProfit *float64) error
	ClosePosition(ctx context.Context, ticket string) error
}

// Broker is the full terminal surface the engine depends on.
type Broker interface {
	CandleSource
	TickSource
	PositionSource
	OrderPlacer
}
