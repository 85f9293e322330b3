package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfx/smcassist/broker"
	"github.com/quantfx/smcassist/market"
)

func tickAt(bid, ask float64) market.Tick {
	return market.Tick{
		Symbol: "EUR_USD",
		Bid:    bid,
		Ask:    ask,
		Time:   time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetCandlesEmptyIsError(t *testing.T) {
	t.Parallel()

	b := New()
	_, err := b.GetCandles(context.Background(), "EUR_USD", "M15", 100)
	assert.Error(t, err)
}

func TestGetCandlesReturnsNewest(t *testing.T) {
	t.Parallel()

	b := New()
	t0 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	var candles []market.Candle
	for i := 0; i < 5; i++ {
		candles = append(candles, market.Candle{
			Symbol: "EUR_USD", Timeframe: "M15",
			Time: t0.Add(time.Duration(i) * 15 * time.Minute),
			Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1, Volume: float64(i),
		})
	}
	b.LoadCandles("EUR_USD", "M15", candles)

	got, err := b.GetCandles(context.Background(), "EUR_USD", "M15", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got[0].Volume)
	assert.Equal(t, 4.0, got[2].Volume)
}

func TestPlaceOrderFillSides(t *testing.T) {
	t.Parallel()

	b := New()
	ctx := context.Background()
	b.UpdateTick(tickAt(1.1000, 1.1002))

	buyTicket, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "EUR_USD", Side: "buy", Size: 0.25, StopLoss: 1.0950,
	})
	require.NoError(t, err)

	sellTicket, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "EUR_USD", Side: "sell", Size: 0.10, StopLoss: 1.1050,
	})
	require.NoError(t, err)
	assert.NotEqual(t, buyTicket, sellTicket)

	open, err := b.GetOpenPositions(ctx, "EUR_USD")
	require.NoError(t, err)
	require.Len(t, open, 2)

	byTicket := map[string]broker.PositionSnapshot{}
	for _, p := range open {
		byTicket[p.Ticket] = p
	}
	assert.InDelta(t, 1.1002, byTicket[buyTicket].EntryPrice, 1e-9) // buys fill at ask
	assert.InDelta(t, 0.25, byTicket[buyTicket].Size, 1e-9)
	assert.InDelta(t, 1.1000, byTicket[sellTicket].EntryPrice, 1e-9) // sells fill at bid
	assert.InDelta(t, -0.10, byTicket[sellTicket].Size, 1e-9)
}

func TestPlaceOrderWithoutQuoteFails(t *testing.T) {
	t.Parallel()

	b := New()
	_, err := b.PlaceOrder(context.Background(), broker.OrderRequest{
		Symbol: "EUR_USD", Side: "buy", Size: 0.1,
	})
	assert.Error(t, err)
}

func TestStopLossTriggersOnBid(t *testing.T) {
	t.Parallel()

	b := New()
	ctx := context.Background()
	b.UpdateTick(tickAt(1.1000, 1.1002))

	var gotTicket, gotReason string
	var gotPnL float64
	b.SetCloseFunc(func(ticket string, pnl float64, reason string) {
		gotTicket, gotPnL, gotReason = ticket, pnl, reason
	})

	ticket, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "EUR_USD", Side: "buy", Size: 0.25, StopLoss: 1.0950,
	})
	require.NoError(t, err)

	b.UpdateTick(tickAt(1.0980, 1.0982)) // above the stop, nothing fires
	assert.Empty(t, gotReason)

	b.UpdateTick(tickAt(1.0940, 1.0942))
	assert.Equal(t, ticket, gotTicket)
	assert.Equal(t, "StopLoss", gotReason)
	// Filled at the stop level: (1.0950 - 1.1002) * 0.25
	assert.InDelta(t, -0.0013, gotPnL, 1e-9)

	open, err := b.GetOpenPositions(ctx, "EUR_USD")
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestTakeProfitTriggersShortOnAsk(t *testing.T) {
	t.Parallel()

	b := New()
	ctx := context.Background()
	b.UpdateTick(tickAt(1.1000, 1.1002))

	var gotReason string
	var gotPnL float64
	b.SetCloseFunc(func(_ string, pnl float64, reason string) {
		gotPnL, gotReason = pnl, reason
	})

	_, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "EUR_USD", Side: "sell", Size: 0.10, TakeProfit: 1.0900,
	})
	require.NoError(t, err)

	b.UpdateTick(tickAt(1.0890, 1.0892))
	assert.Equal(t, "TakeProfit", gotReason)
	// Short entered at bid 1.1000, exits at the target: (1.0900 - 1.1000) * -0.10
	assert.InDelta(t, 0.001, gotPnL, 1e-9)
}

func TestModifyPosition(t *testing.T) {
	t.Parallel()

	b := New()
	ctx := context.Background()
	b.UpdateTick(tickAt(1.1000, 1.1002))

	ticket, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "EUR_USD", Side: "buy", Size: 0.25, StopLoss: 1.0950,
	})
	require.NoError(t, err)

	newStop := 1.0990
	require.NoError(t, b.ModifyPosition(ctx, ticket, &newStop, nil))

	open, err := b.GetOpenPositions(ctx, "EUR_USD")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.InDelta(t, 1.0990, open[0].StopLoss, 1e-9)

	assert.Error(t, b.ModifyPosition(ctx, "no-such-ticket", &newStop, nil))
}

func TestClosePosition(t *testing.T) {
	t.Parallel()

	b := New()
	ctx := context.Background()
	b.UpdateTick(tickAt(1.1000, 1.1002))

	var gotReason string
	b.SetCloseFunc(func(_ string, _ float64, reason string) { gotReason = reason })

	ticket, err := b.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "EUR_USD", Side: "buy", Size: 0.25,
	})
	require.NoError(t, err)

	require.NoError(t, b.ClosePosition(ctx, ticket))
	assert.Equal(t, "Close", gotReason)

	// Already closed.
	assert.Error(t, b.ClosePosition(ctx, ticket))
}
