package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal writes fills and PnL snapshots to two flat CSV files. The PnL
// file uses the `time,PnL` header consumed by the stats command.
type CSVJournal struct {
	fills *csv.Writer
	pnl   *csv.Writer
	ff    *os.File
	pf    *os.File
}

func NewCSV(fillsPath, pnlPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	pf, err := os.Create(pnlPath)
	if err != nil {
		ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	pw := csv.NewWriter(pf)

	if err := fw.Write([]string{"fill_id", "time", "symbol", "side", "quantity", "price"}); err != nil {
		return nil, err
	}
	if err := pw.Write([]string{"time", "PnL"}); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	pw.Flush()
	if err := pw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{fills: fw, pnl: pw, ff: ff, pf: pf}, nil
}

func (j *CSVJournal) RecordFill(f Fill) error {
	if err := j.fills.Write([]string{
		f.ID,
		f.Time.Format(time.RFC3339),
		f.Symbol,
		f.Side,
		fmtFloat(f.Quantity),
		fmtFloat(f.Price),
	}); err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordPnl(r PnlRecord) error {
	if err := j.pnl.Write([]string{r.Label, fmtFloat(r.PnL)}); err != nil {
		return err
	}
	j.pnl.Flush()
	return j.pnl.Error()
}

func (j *CSVJournal) Close() error {
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}
	j.pnl.Flush()
	if err := j.pnl.Error(); err != nil {
		return err
	}

	if err := j.ff.Close(); err != nil {
		return err
	}
	return j.pf.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
