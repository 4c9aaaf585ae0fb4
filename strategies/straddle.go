package strategies

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/straddle/journal"
	"github.com/rustyeddy/straddle/market"
	"github.com/rustyeddy/straddle/sim"
	"github.com/rustyeddy/straddle/strikes"
)

// Straddle sells an at-the-money call/put pair on the underlying's 13:00
// bar and buys it back when the underlying drifts more than ExitDeviation
// from the entry price or the running cash flow breaches CashFlowLimit.
//
// The machine has two states, flat and in-position. At most one
// transition happens per tick; option ticks never drive transitions, they
// only refresh the ledger's marks.
type Straddle struct {
	Underlying string
	Quantity   float64

	EntryHour   int
	EntryMinute int

	ExitDeviation    float64 // relative move of the underlying, e.g. 0.01
	CashFlowLimit    float64 // absolute bound on the cash-flow accumulator
	StrikeDeviation  float64 // ATM band handed to the strike selector
	ExpiryOffsetDays int

	universe []market.Tick
	log      *logrus.Logger

	open       bool
	entryTime  time.Time
	entryPrice float64
	callSymbol string
	putSymbol  string

	cashFlow float64
	fills    []journal.Fill
}

// NewStraddle builds a strategy over the full tick universe, which the
// strike selector scans at entry time. The universe must be loaded
// completely before the replay starts.
func NewStraddle(underlying string, universe []market.Tick, log *logrus.Logger) *Straddle {
	if log == nil {
		log = logrus.New()
	}
	return &Straddle{
		Underlying:       underlying,
		Quantity:         0.1,
		EntryHour:        13,
		EntryMinute:      0,
		ExitDeviation:    0.01,
		CashFlowLimit:    500,
		StrikeDeviation:  strikes.DefaultMaxDeviation,
		ExpiryOffsetDays: strikes.DefaultExpiryOffsetDays,
		universe:         universe,
		log:              log,
	}
}

func (s *Straddle) OnTick(ctx context.Context, book Book, tick market.Tick) error {
	_ = ctx

	// Transitions are driven by the underlying only.
	if tick.Symbol != s.Underlying {
		return nil
	}

	if s.open {
		return s.checkExit(book, tick)
	}

	if tick.Time.Hour() == s.EntryHour && tick.Time.Minute() == s.EntryMinute {
		return s.tryEnter(book, tick)
	}
	return nil
}

func (s *Straddle) tryEnter(book Book, tick market.Tick) error {
	call, put := strikes.SelectStraddle(tick.Price, tick.Time, s.universe, s.StrikeDeviation, s.ExpiryOffsetDays)
	if call == nil || put == nil {
		// No position is opened when either leg is missing; the next
		// 13:00 bar is the next opportunity.
		s.log.WithFields(logrus.Fields{
			"time":  tick.Time,
			"price": tick.Price,
		}).Warn("no ATM straddle for target expiry, skipping entry")
		return nil
	}

	s.entryTime = tick.Time
	s.entryPrice = tick.Price

	for _, leg := range []*strikes.Leg{call, put} {
		px := s.legPrice(book, leg.Symbol, tick.Price)
		if err := book.ApplyOrder(leg.Symbol, sim.Sell, s.Quantity, px); err != nil {
			return err
		}
	}

	s.callSymbol = call.Symbol
	s.putSymbol = put.Symbol
	s.open = true

	s.log.WithFields(logrus.Fields{
		"time":  tick.Time,
		"price": tick.Price,
		"call":  call.Symbol,
		"put":   put.Symbol,
	}).Info("opened straddle")
	return nil
}

func (s *Straddle) checkExit(book Book, tick market.Tick) error {
	deviation := math.Abs(tick.Price-s.entryPrice) / s.entryPrice
	if deviation <= s.ExitDeviation && math.Abs(s.cashFlow) <= s.CashFlowLimit {
		return nil
	}

	for _, sym := range []string{s.callSymbol, s.putSymbol} {
		px := s.legPrice(book, sym, tick.Price)
		if err := book.ApplyOrder(sym, sim.Buy, s.Quantity, px); err != nil {
			return err
		}
	}

	s.log.WithFields(logrus.Fields{
		"time":      tick.Time,
		"price":     tick.Price,
		"deviation": deviation,
		"cash_flow": s.cashFlow,
	}).Info("closed straddle")

	s.open = false
	s.callSymbol = ""
	s.putSymbol = ""
	return nil
}

// legPrice resolves the reference price for an option order, falling back
// to the underlying's current price when the leg has no mark yet.
func (s *Straddle) legPrice(book Book, symbol string, underlyingPx float64) float64 {
	if px, ok := book.LastPrice(symbol); ok {
		return px
	}
	s.log.WithFields(logrus.Fields{
		"symbol":   symbol,
		"fallback": underlyingPx,
	}).Debug("no mark for leg, using underlying price")
	return underlyingPx
}

// OnFill updates the strategy's own signed cash-flow accumulator: sells
// add cash, buys remove it. This is bookkeeping local to the strategy and
// deliberately separate from the ledger's TotalPnl.
func (s *Straddle) OnFill(f journal.Fill) {
	dir := -1.0
	if f.Side == string(sim.Sell) {
		dir = 1.0
	}
	s.cashFlow += dir * f.Quantity * f.Price
	s.fills = append(s.fills, f)
}

// Open reports whether a straddle is currently held.
func (s *Straddle) Open() bool { return s.open }

// CashFlow returns the strategy-local signed cash-flow accumulator.
func (s *Straddle) CashFlow() float64 { return s.cashFlow }

// Fills returns every fill confirmation seen so far.
func (s *Straddle) Fills() []journal.Fill { return s.fills }

// Legs returns the symbols of the held straddle; both are empty when
// flat.
func (s *Straddle) Legs() (call, put string) {
	return s.callSymbol, s.putSymbol
}
