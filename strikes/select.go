// Package strikes picks the at-the-money option legs a straddle trades.
package strikes

import (
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/straddle/market"
)

const (
	// DefaultMaxDeviation is the widest relative distance from the
	// reference price a strike may have and still count as ATM.
	DefaultMaxDeviation = 0.02

	// DefaultExpiryOffsetDays matches the data layout: each day's option
	// universe targets the expiry three calendar days out.
	DefaultExpiryOffsetDays = 3
)

// Leg is one selected side of a straddle.
type Leg struct {
	Symbol string
	Strike float64
	Price  float64
	Time   time.Time
}

// SelectStraddle picks the call and put whose strikes sit closest to
// refPrice among options trading on asOf's calendar date with the target
// expiry (asOf + expiryOffsetDays, encoded in the symbol). Only strikes
// within maxDev of refPrice qualify; when several symbols tick that day,
// the latest tick per symbol is used. A missing leg comes back nil.
//
// Ties on strike distance resolve to the symbol first encountered in
// universe order, so results are deterministic for a fixed input.
func SelectStraddle(refPrice float64, asOf time.Time, universe []market.Tick, maxDev float64, expiryOffsetDays int) (call, put *Leg) {
	if maxDev <= 0 {
		maxDev = DefaultMaxDeviation
	}
	if expiryOffsetDays <= 0 {
		expiryOffsetDays = DefaultExpiryOffsetDays
	}
	if refPrice <= 0 {
		return nil, nil
	}

	date := asOf.Format("2006-01-02")
	expiry := market.ExpiryCode(asOf.AddDate(0, 0, expiryOffsetDays))

	// Latest tick per symbol, preserving first-encounter order for the
	// tie-break below.
	latest := make(map[string]market.Tick)
	var symbols []string

	for _, t := range universe {
		if !t.IsOption() {
			continue
		}
		if t.Date() != date {
			continue
		}
		if !strings.Contains(t.Symbol, expiry) {
			continue
		}

		prev, seen := latest[t.Symbol]
		if !seen {
			symbols = append(symbols, t.Symbol)
			latest[t.Symbol] = t
			continue
		}
		if t.Time.After(prev.Time) {
			latest[t.Symbol] = t
		}
	}

	var bestCall, bestPut *Leg
	var callDist, putDist float64

	for _, sym := range symbols {
		t := latest[sym]
		if t.Strike == 0 {
			continue
		}

		dist := math.Abs(t.Strike - refPrice)
		if dist/refPrice > maxDev {
			continue
		}

		leg := &Leg{Symbol: t.Symbol, Strike: t.Strike, Price: t.Price, Time: t.Time}
		switch t.Kind {
		case market.KindCall:
			if bestCall == nil || dist < callDist {
				bestCall, callDist = leg, dist
			}
		case market.KindPut:
			if bestPut == nil || dist < putDist {
				bestPut, putDist = leg, dist
			}
		}
	}

	return bestCall, bestPut
}
