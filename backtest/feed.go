package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/straddle/market"
)

// SliceFeed replays an in-memory tick slice.
type SliceFeed struct {
	ticks []market.Tick
	i     int
}

func NewSliceFeed(ticks []market.Tick) *SliceFeed {
	return &SliceFeed{ticks: ticks}
}

func (f *SliceFeed) Next() (market.Tick, bool, error) {
	if f.i >= len(f.ticks) {
		return market.Tick{}, false, nil
	}
	t := f.ticks[f.i]
	f.i++
	return t, true, nil
}

func (f *SliceFeed) Close() error { return nil }

// LoadDayFolders reads every tick CSV below root for the inclusive date
// range and returns one merged, time-sorted slice. The layout is one
// folder per day named YYYYMMDD holding futures files
// (time,symbol,close) and options files (time,symbol,close,strike_price,
// option_type); files may be xz-compressed (.csv.xz). Missing day folders
// and files without the required columns are logged and skipped. The sort
// is stable, so ties on the timestamp keep file order.
func LoadDayFolders(root string, start, end time.Time, log *logrus.Logger) ([]market.Tick, error) {
	if log == nil {
		log = logrus.New()
	}

	var ticks []market.Tick

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		folder := filepath.Join(root, d.Format("20060102"))
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			log.WithField("date", d.Format("2006-01-02")).Warn("no data folder for date")
			continue
		}

		var files []string
		for _, pat := range []string{"*.csv", "*.csv.xz"} {
			m, err := filepath.Glob(filepath.Join(folder, pat))
			if err != nil {
				return nil, err
			}
			files = append(files, m...)
		}
		sort.Strings(files)

		for _, path := range files {
			rows, err := readTickFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			if rows == nil {
				log.WithField("file", path).Warn("skipped file missing required columns")
				continue
			}
			ticks = append(ticks, rows...)
		}
	}

	sort.SliceStable(ticks, func(i, j int) bool {
		return ticks[i].Time.Before(ticks[j].Time)
	})
	return ticks, nil
}

// readTickFile parses one tick CSV. A nil, nil return means the file does
// not carry the required columns and should be skipped.
func readTickFile(path string) ([]market.Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rd io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, err
		}
		rd = xr
	}

	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	timeIdx, hasTime := col["time"]
	symIdx, hasSym := col["symbol"]
	pxIdx, hasPx := col["close"]
	if !hasTime || !hasSym || !hasPx {
		return nil, nil
	}

	strikeIdx, hasStrike := col["strike_price"]
	kindIdx, hasKind := col["option_type"]

	var ticks []market.Tick
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) <= timeIdx || len(row) <= symIdx || len(row) <= pxIdx {
			continue
		}

		ts, err := parseTime(row[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("bad time %q: %w", row[timeIdx], err)
		}
		px, err := strconv.ParseFloat(strings.TrimSpace(row[pxIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad close %q: %w", row[pxIdx], err)
		}

		t := market.Tick{
			Time:   ts,
			Symbol: strings.TrimSpace(row[symIdx]),
			Price:  px,
		}

		if hasKind && len(row) > kindIdx {
			switch strings.TrimSpace(strings.ToLower(row[kindIdx])) {
			case "call":
				t.Kind = market.KindCall
			case "put":
				t.Kind = market.KindPut
			}
		}
		if hasStrike && len(row) > strikeIdx {
			if s, err := strconv.ParseFloat(strings.TrimSpace(row[strikeIdx]), 64); err == nil {
				t.Strike = s
			}
		}

		ticks = append(ticks, t)
	}

	if ticks == nil {
		ticks = []market.Tick{}
	}
	return ticks, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
