package delta

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/straddle/market"
	"github.com/rustyeddy/straddle/strikes"
)

// Fetch parameters. Strike coverage brackets the 2025 BTC range; widen
// it when the underlying moves outside the band.
const (
	DefaultResolution  = "5m"
	DefaultStrikeMin   = 90000
	DefaultStrikeMax   = 117000
	DefaultStrikeStep  = 200
	DefaultSessionHour = 9 // UTC session boundary used by the venue
)

// Fetcher downloads one trading day at a time and writes the day-folder
// CSV layout under Root: Root/YYYYMMDD/{futures,calls,puts}_*.csv.
type Fetcher struct {
	Client     *Client
	Root       string
	Underlying string
	Resolution string
	StrikeMin  int
	StrikeMax  int
	StrikeStep int
	Log        *logrus.Logger
}

// NewFetcher returns a Fetcher with the default strike grid and
// resolution.
func NewFetcher(client *Client, root, underlying string, log *logrus.Logger) *Fetcher {
	if log == nil {
		log = logrus.New()
	}
	return &Fetcher{
		Client:     client,
		Root:       root,
		Underlying: underlying,
		Resolution: DefaultResolution,
		StrikeMin:  DefaultStrikeMin,
		StrikeMax:  DefaultStrikeMax,
		StrikeStep: DefaultStrikeStep,
		Log:        log,
	}
}

// FetchRange downloads every day in [start, end] inclusive.
func (f *Fetcher) FetchRange(ctx context.Context, start, end time.Time) error {
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := f.FetchDay(ctx, day); err != nil {
			return err
		}
	}
	return nil
}

// FetchDay downloads the futures series plus the full option strike
// grid for one day. The day's window opens at the venue session hour
// and runs 24 hours.
func (f *Fetcher) FetchDay(ctx context.Context, day time.Time) error {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), DefaultSessionHour, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	dir := filepath.Join(f.Root, day.Format("20060102"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dateLabel := day.Format("2006-01-02")

	candles, err := f.Client.Candles(ctx, f.Underlying, f.Resolution, dayStart, dayEnd)
	if err != nil {
		return err
	}
	futPath := filepath.Join(dir, "futures_"+dateLabel+".csv")
	if err := writeFuturesCSV(futPath, f.Underlying, candles); err != nil {
		return err
	}
	f.Log.WithFields(logrus.Fields{
		"symbol": f.Underlying,
		"date":   dateLabel,
		"rows":   len(candles),
	}).Info("fetched futures candles")

	// Options expiring three days out cover the straddle's target
	// expiry for this session.
	expiry := day.AddDate(0, 0, strikes.DefaultExpiryOffsetDays)

	for _, kind := range []market.OptionKind{market.KindCall, market.KindPut} {
		rows := 0
		var legs []optionSeries
		for strike := f.StrikeMin; strike <= f.StrikeMax; strike += f.StrikeStep {
			sym := market.OptionSymbol(kind, f.Underlying, strike, expiry)
			candles, err := f.Client.Candles(ctx, sym, f.Resolution, dayStart, dayEnd)
			if err != nil {
				return err
			}
			if len(candles) == 0 {
				continue
			}
			legs = append(legs, optionSeries{symbol: sym, strike: strike, candles: candles})
			rows += len(candles)
		}

		name := "calls_" + dateLabel + ".csv"
		if kind == market.KindPut {
			name = "puts_" + dateLabel + ".csv"
		}
		if err := writeOptionsCSV(filepath.Join(dir, name), kind, legs); err != nil {
			return err
		}
		f.Log.WithFields(logrus.Fields{
			"kind":    string(kind),
			"date":    dateLabel,
			"symbols": len(legs),
			"rows":    rows,
		}).Info("fetched option candles")
	}
	return nil
}

type optionSeries struct {
	symbol  string
	strike  int
	candles []Candle
}

func writeFuturesCSV(path, symbol string, candles []Candle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "symbol", "close"}); err != nil {
		return err
	}
	for _, c := range candles {
		rec := []string{
			c.Time.Format(time.RFC3339),
			symbol,
			strconv.FormatFloat(c.Close, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeOptionsCSV(path string, kind market.OptionKind, legs []optionSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "symbol", "close", "strike_price", "option_type"}); err != nil {
		return err
	}
	for _, leg := range legs {
		for _, c := range leg.candles {
			rec := []string{
				c.Time.Format(time.RFC3339),
				leg.symbol,
				strconv.FormatFloat(c.Close, 'f', -1, 64),
				strconv.Itoa(leg.strike),
				string(kind),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
