// Package sim holds the position and PnL accounting for a backtest run.
package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/straddle/journal"
	"github.com/rustyeddy/straddle/market"
	"github.com/rustyeddy/straddle/pkg/id"
)

// Side of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Epsilon is the fixed execution slippage applied to every fill:
// buys pay refPrice*(1+Epsilon), sells receive refPrice*(1-Epsilon).
const Epsilon = 0.0001

// FillListener is notified after every fill is booked. The strategy uses
// it to maintain its own running cash-flow accumulator.
type FillListener interface {
	OnFill(journal.Fill)
}

// entry is the per-symbol book line. Created lazily on the first trade or
// price update and never removed during a run.
type entry struct {
	Qty       float64
	BuyValue  market.Cash
	SellValue market.Cash
	LastPrice float64
}

// Ledger tracks per-symbol quantity, cumulative buy/sell notional and
// last-known prices, and computes the authoritative mark-to-market PnL.
// It is owned by a single replay run; there is no internal locking.
type Ledger struct {
	book  map[string]*entry
	order []string // symbols in first-seen order, keeps iteration deterministic

	now      time.Time
	journal  journal.Journal
	log      *logrus.Logger
	listener FillListener
	history  []journal.PnlRecord
}

func NewLedger(j journal.Journal, log *logrus.Logger) *Ledger {
	if j == nil {
		j = journal.NewMemory()
	}
	if log == nil {
		log = logrus.New()
	}
	return &Ledger{
		book:    make(map[string]*entry),
		journal: j,
		log:     log,
	}
}

// SetFillListener registers the strategy's fill-confirmation callback.
func (l *Ledger) SetFillListener(fl FillListener) {
	l.listener = fl
}

func (l *Ledger) ensure(symbol string) *entry {
	e, ok := l.book[symbol]
	if !ok {
		e = &entry{}
		l.book[symbol] = e
		l.order = append(l.order, symbol)
	}
	return e
}

// Mark records the tick's price as the symbol's last known price and
// advances the ledger clock to the tick's timestamp.
func (l *Ledger) Mark(t market.Tick) {
	l.now = t.Time
	l.MarkPrice(t.Symbol, t.Price)
}

// MarkPrice updates the last known price for symbol.
func (l *Ledger) MarkPrice(symbol string, price float64) {
	l.ensure(symbol).LastPrice = price
}

// LastPrice returns the last known price for symbol. ok is false when no
// tick or trade has been seen for it yet.
func (l *Ledger) LastPrice(symbol string) (float64, bool) {
	e, ok := l.book[symbol]
	if !ok || e.LastPrice == 0 {
		return 0, false
	}
	return e.LastPrice, true
}

// ApplyOrder books a fill at refPrice adjusted by Epsilon, journals it and
// notifies the fill listener.
func (l *Ledger) ApplyOrder(symbol string, side Side, qty, refPrice float64) error {
	if qty <= 0 {
		return fmt.Errorf("apply order: quantity must be positive, got %v", qty)
	}
	if side != Buy && side != Sell {
		return fmt.Errorf("apply order: unknown side %q", side)
	}

	fillPrice := refPrice * (1 + Epsilon)
	if side == Sell {
		fillPrice = refPrice * (1 - Epsilon)
	}

	e := l.ensure(symbol)
	if side == Buy {
		e.Qty += qty
		e.BuyValue += fillPrice * qty
	} else {
		e.Qty -= qty
		e.SellValue += fillPrice * qty
	}

	fill := journal.Fill{
		ID:       id.New(),
		Time:     l.now,
		Symbol:   symbol,
		Side:     string(side),
		Quantity: qty,
		Price:    fillPrice,
	}
	if err := l.journal.RecordFill(fill); err != nil {
		return fmt.Errorf("record fill: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"symbol": symbol,
		"side":   side,
		"qty":    qty,
		"price":  fillPrice,
	}).Info("fill")

	if l.listener != nil {
		l.listener.OnFill(fill)
	}
	return nil
}

// TotalPnl returns the realized plus unrealized PnL over all known
// symbols: sellValue - buyValue + qty*lastPrice.
func (l *Ledger) TotalPnl() market.Cash {
	var total market.Cash
	for _, sym := range l.order {
		e := l.book[sym]
		total += e.SellValue - e.BuyValue + e.Qty*e.LastPrice
	}
	return total
}

// Snapshot appends a {label, TotalPnl} record to the run's PnL history and
// journals it. Ledger state is not mutated.
func (l *Ledger) Snapshot(label string) (journal.PnlRecord, error) {
	rec := journal.PnlRecord{Label: label, PnL: l.TotalPnl()}
	l.history = append(l.history, rec)

	if err := l.journal.RecordPnl(rec); err != nil {
		return rec, fmt.Errorf("record pnl: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"label": label,
		"pnl":   rec.PnL,
	}).Info("pnl snapshot")
	return rec, nil
}

// History returns all snapshots taken so far, oldest first.
func (l *Ledger) History() []journal.PnlRecord {
	return l.history
}

// Position returns the signed quantity currently held in symbol.
func (l *Ledger) Position(symbol string) float64 {
	e, ok := l.book[symbol]
	if !ok {
		return 0
	}
	return e.Qty
}
