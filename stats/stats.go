// Package stats computes summary risk statistics over a backtest's PnL
// series.
package stats

import (
	"math"
	"sort"
)

// TradingDaysPerYear annualizes the Sharpe ratio.
const TradingDaysPerYear = 252

// Summary holds the headline risk numbers for one PnL series.
type Summary struct {
	Mean        float64
	Median      float64
	Sharpe      float64
	MaxDrawdown float64
	VaR95       float64
	ES95        float64
}

// Compute summarizes the PnL series: mean and median of the raw values,
// annualized Sharpe over period-over-period percentage changes, maximum
// drawdown of the cumulative series, and 95% VaR / expected shortfall of
// the return series.
func Compute(pnl []float64) Summary {
	if len(pnl) == 0 {
		return Summary{}
	}

	rets := Returns(pnl)
	dd := Drawdown(Cumulative(pnl))

	s := Summary{
		Mean:        mean(pnl),
		Median:      median(pnl),
		MaxDrawdown: minOf(dd),
	}

	if sd := stddev(rets); sd > 0 {
		s.Sharpe = mean(rets) / sd * math.Sqrt(TradingDaysPerYear)
	}

	s.VaR95 = quantile(rets, 0.05)
	s.ES95 = tailMean(rets, s.VaR95)

	return s
}

// Returns computes period-over-period percentage changes, with the first
// period fixed at zero.
func Returns(pnl []float64) []float64 {
	rets := make([]float64, len(pnl))
	for i := 1; i < len(pnl); i++ {
		if pnl[i-1] == 0 {
			continue
		}
		rets[i] = pnl[i]/pnl[i-1] - 1
	}
	return rets
}

// Cumulative returns the running sum of the series.
func Cumulative(pnl []float64) []float64 {
	cum := make([]float64, len(pnl))
	var sum float64
	for i, v := range pnl {
		sum += v
		cum[i] = sum
	}
	return cum
}

// Drawdown returns cum minus its running maximum; entries are <= 0.
func Drawdown(cum []float64) []float64 {
	dd := make([]float64, len(cum))
	peak := math.Inf(-1)
	for i, v := range cum {
		if v > peak {
			peak = v
		}
		dd[i] = v - peak
	}
	return dd
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// stddev is the sample standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// quantile computes the q-quantile with linear interpolation between
// order statistics.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)

	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	frac := pos - float64(lo)
	return s[lo]*(1-frac) + s[hi]*frac
}

// tailMean averages the values at or below the cutoff.
func tailMean(xs []float64, cutoff float64) float64 {
	var sum float64
	var n int
	for _, x := range xs {
		if x <= cutoff {
			sum += x
			n++
		}
	}
	if n == 0 {
		return cutoff
	}
	return sum / float64(n)
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
