// Package strategies contains the trading logic driven by the replay loop.
package strategies

import (
	"context"

	"github.com/rustyeddy/straddle/market"
	"github.com/rustyeddy/straddle/sim"
)

// Book is the slice of the ledger a strategy may touch: place orders and
// read last known prices.
type Book interface {
	ApplyOrder(symbol string, side sim.Side, qty, refPrice float64) error
	LastPrice(symbol string) (float64, bool)
}

// TickStrategy is the minimal interface a backtest strategy must
// implement. It is called once per replayed tick.
type TickStrategy interface {
	OnTick(ctx context.Context, book Book, tick market.Tick) error
}

// Noop does nothing. Useful as a baseline when testing the replay loop.
type Noop struct{}

func (Noop) OnTick(ctx context.Context, book Book, tick market.Tick) error {
	return nil
}
