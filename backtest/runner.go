// Package backtest drives a strategy over an ordered historical tick
// stream and records the PnL it produces.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/straddle/journal"
	"github.com/rustyeddy/straddle/market"
	"github.com/rustyeddy/straddle/sim"
	"github.com/rustyeddy/straddle/strategies"
)

// ErrNoData is returned when the feed produces no ticks at all. An empty
// replay is a configuration or data problem, never an empty result.
var ErrNoData = errors.New("backtest: no ticks in feed")

// TickFeed yields ticks one at a time in ascending timestamp order.
// Implementations return ok=false with a nil error at end of stream.
type TickFeed interface {
	Next() (t market.Tick, ok bool, err error)
	Close() error
}

// Runner replays a feed through the ledger and strategy.
type Runner struct {
	Ledger   *sim.Ledger
	Feed     TickFeed
	Strategy strategies.TickStrategy
	Log      *logrus.Logger
}

// Result summarizes one completed replay.
type Result struct {
	Ticks     int
	Start     time.Time
	End       time.Time
	FinalPnl  market.Cash
	Snapshots []journal.PnlRecord
}

// Run executes the replay loop. For every tick the ledger's mark is
// updated first, then the strategy is dispatched; the strategy may call
// back into the ledger to place orders. A PnL snapshot is recorded each
// time the calendar date changes, labeled with the date just finished,
// and a final snapshot is always recorded for the last tick's date.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Ledger == nil {
		return Result{}, fmt.Errorf("backtest: Ledger is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if r.Log == nil {
		r.Log = logrus.New()
	}
	defer r.Feed.Close()

	var (
		res      Result
		prevDate string
	)

	for {
		t, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, fmt.Errorf("backtest: feed: %w", err)
		}
		if !ok {
			break
		}

		date := t.Date()
		if prevDate != "" && date != prevDate {
			// Snapshot reflects the state at the last tick of the day
			// just finished, before this tick moves any marks.
			if _, err := r.Ledger.Snapshot(prevDate); err != nil {
				return Result{}, err
			}
		}

		r.Ledger.Mark(t)
		if err := r.Strategy.OnTick(ctx, r.Ledger, t); err != nil {
			return Result{}, fmt.Errorf("backtest: strategy at %s: %w", t.Time, err)
		}

		if res.Ticks == 0 {
			res.Start = t.Time
		}
		res.End = t.Time
		res.Ticks++
		prevDate = date
	}

	if res.Ticks == 0 {
		return Result{}, ErrNoData
	}

	if _, err := r.Ledger.Snapshot(prevDate); err != nil {
		return Result{}, err
	}

	res.FinalPnl = r.Ledger.TotalPnl()
	res.Snapshots = r.Ledger.History()

	r.Log.WithFields(logrus.Fields{
		"ticks":     res.Ticks,
		"start":     res.Start,
		"end":       res.End,
		"final_pnl": res.FinalPnl,
	}).Info("replay complete")

	return res, nil
}
