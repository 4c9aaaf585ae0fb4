package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/straddle/journal"
	"github.com/rustyeddy/straddle/market"
	"github.com/rustyeddy/straddle/sim"
	"github.com/rustyeddy/straddle/strategies"
)

func fut(t time.Time, px float64) market.Tick {
	return market.Tick{Time: t, Symbol: "BTCUSDT", Price: px}
}

func opt(t time.Time, kind market.OptionKind, strike, px float64) market.Tick {
	return market.Tick{
		Time:   t,
		Symbol: market.OptionSymbol(kind, "BTC", int(strike), t.AddDate(0, 0, 3)),
		Price:  px,
		Kind:   kind,
		Strike: strike,
	}
}

func TestRunnerEmptyFeedFailsFast(t *testing.T) {
	t.Parallel()

	logger, _ := logtest.NewNullLogger()
	r := &Runner{
		Ledger:   sim.NewLedger(journal.NewMemory(), logger),
		Feed:     NewSliceFeed(nil),
		Strategy: strategies.Noop{},
		Log:      logger,
	}

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRunnerRequiredFields(t *testing.T) {
	t.Parallel()

	logger, _ := logtest.NewNullLogger()
	ledger := sim.NewLedger(journal.NewMemory(), logger)
	feed := NewSliceFeed(nil)

	_, err := (&Runner{Feed: feed, Strategy: strategies.Noop{}}).Run(context.Background())
	assert.Error(t, err)

	_, err = (&Runner{Ledger: ledger, Strategy: strategies.Noop{}}).Run(context.Background())
	assert.Error(t, err)

	_, err = (&Runner{Ledger: ledger, Feed: feed}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunnerDayBoundarySnapshot(t *testing.T) {
	t.Parallel()

	logger, _ := logtest.NewNullLogger()
	mem := journal.NewMemory()
	ledger := sim.NewLedger(mem, logger)

	// Open 1 unit at 100 so the snapshot values show which mark they saw.
	require.NoError(t, ledger.ApplyOrder("BTCUSDT", sim.Buy, 1, 100))

	day1 := time.Date(2025, 5, 19, 15, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	r := &Runner{
		Ledger:   ledger,
		Feed:     NewSliceFeed([]market.Tick{fut(day1, 110), fut(day2, 200)}),
		Strategy: strategies.Noop{},
		Log:      logger,
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Ticks)

	require.Len(t, mem.Pnl, 2)

	// The 2025-05-19 snapshot is recorded before the 2025-05-20 tick
	// moves the mark: pnl = -100*(1+eps) + 110.
	assert.Equal(t, "2025-05-19", mem.Pnl[0].Label)
	assert.InDelta(t, 110-100*(1+sim.Epsilon), mem.Pnl[0].PnL, 1e-9)

	// Final snapshot reflects the 2025-05-20 mark.
	assert.Equal(t, "2025-05-20", mem.Pnl[1].Label)
	assert.InDelta(t, 200-100*(1+sim.Epsilon), mem.Pnl[1].PnL, 1e-9)

	assert.Equal(t, mem.Pnl, res.Snapshots)
}

func TestRunnerSingleDayGetsFinalSnapshot(t *testing.T) {
	t.Parallel()

	logger, _ := logtest.NewNullLogger()
	mem := journal.NewMemory()

	day := time.Date(2025, 5, 19, 13, 0, 0, 0, time.UTC)
	r := &Runner{
		Ledger:   sim.NewLedger(mem, logger),
		Feed:     NewSliceFeed([]market.Tick{fut(day, 100), fut(day.Add(5*time.Minute), 101)}),
		Strategy: strategies.Noop{},
		Log:      logger,
	}

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, mem.Pnl, 1)
	assert.Equal(t, "2025-05-19", mem.Pnl[0].Label)
}

type failingFeed struct{}

func (failingFeed) Next() (market.Tick, bool, error) {
	return market.Tick{}, false, errors.New("disk gone")
}
func (failingFeed) Close() error { return nil }

func TestRunnerFeedErrorPropagates(t *testing.T) {
	t.Parallel()

	logger, _ := logtest.NewNullLogger()
	r := &Runner{
		Ledger:   sim.NewLedger(journal.NewMemory(), logger),
		Feed:     failingFeed{},
		Strategy: strategies.Noop{},
		Log:      logger,
	}

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

// Replays the full entry-to-exit scenario: straddle sold at the 13:00 bar
// with fallback leg pricing, leg marks arriving at 13:05, exit on the 2%
// move at 13:10.
func TestRunnerStraddleEndToEnd(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 5, 19, 13, 0, 0, 0, time.UTC)

	ticks := []market.Tick{
		fut(entry, 100000),
		opt(entry.Add(5*time.Minute), market.KindCall, 100000, 50),
		opt(entry.Add(5*time.Minute), market.KindPut, 100000, 50),
		fut(entry.Add(10*time.Minute), 102000),
	}

	logger, _ := logtest.NewNullLogger()
	mem := journal.NewMemory()
	ledger := sim.NewLedger(mem, logger)
	strat := strategies.NewStraddle("BTCUSDT", ticks, logger)
	ledger.SetFillListener(strat)

	r := &Runner{
		Ledger:   ledger,
		Feed:     NewSliceFeed(ticks),
		Strategy: strat,
		Log:      logger,
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Ticks)
	assert.False(t, strat.Open())

	// Entry: both legs sold at the underlying's price (no marks yet).
	// Exit: both legs bought back at their 13:05 marks.
	require.Len(t, mem.Fills, 4)
	sellNotional := 2 * 0.1 * 100000 * (1 - sim.Epsilon)
	buyNotional := 2 * 0.1 * 50 * (1 + sim.Epsilon)

	assert.InDelta(t, sellNotional-buyNotional, res.FinalPnl, 1e-9)
	assert.Equal(t, 0.0, ledger.Position(ticks[1].Symbol))
	assert.Equal(t, 0.0, ledger.Position(ticks[2].Symbol))

	// Single-day run: exactly the final snapshot.
	require.Len(t, res.Snapshots, 1)
	assert.Equal(t, "2025-05-19", res.Snapshots[0].Label)
	assert.InDelta(t, res.FinalPnl, res.Snapshots[0].PnL, 1e-9)
}
