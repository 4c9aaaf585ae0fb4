// Package journal persists what a backtest run produced: individual order
// fills and per-day PnL snapshots.
package journal

import (
	"time"

	"github.com/rustyeddy/straddle/market"
)

// Fill is one executed order leg.
type Fill struct {
	ID       string
	Time     time.Time
	Symbol   string
	Side     string // BUY or SELL
	Quantity float64
	Price    float64 // executed price, execution epsilon applied
}

// Notional is the cash value of the fill.
func (f Fill) Notional() market.Cash {
	return f.Price * f.Quantity
}

// PnlRecord is one mark-to-market snapshot of the whole book.
type PnlRecord struct {
	Label string // calendar date of the snapshot
	PnL   market.Cash
}

type Journal interface {
	RecordFill(Fill) error
	RecordPnl(PnlRecord) error
	Close() error
}
