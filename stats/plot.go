package stats

import (
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SavePlots renders the cumulative PnL and drawdown series as PNG files
// (cumulative_pnl.png and drawdown.png) in dir.
func SavePlots(pnl []float64, dir string) error {
	cum := Cumulative(pnl)
	dd := Drawdown(cum)

	if err := saveLine(cum, "Cumulative PnL", filepath.Join(dir, "cumulative_pnl.png")); err != nil {
		return err
	}
	return saveLine(dd, "Drawdown", filepath.Join(dir, "drawdown.png"))
}

func saveLine(ys []float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "period"
	p.Y.Label.Text = "PnL"

	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i].X = float64(i)
		pts[i].Y = y
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
