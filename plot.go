package dynamodera

import (
	"fmt"
	"image/color"
	"path/filepath"

	mmplt "github.com/maseology/mmPlot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writePlot draws the weighted spatial means of the true and
// reconstructed fields over time, with spatial-variability bands and the
// train/test split marked, and saves the figure under the run timestamp.
func (p *Pipeline) writePlot(rep *Report, trueMean, dmdMean, trueStd, dmdStd []float64) error {
	hours := p.Ds.HoursSinceStart()

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("DMD reconstruction and forecast\ntraining RMSE %.4f, forecast RMSE %.4f",
		rep.RMSETrain, rep.RMSETest)
	pl.X.Label.Text = "hours"
	pl.Y.Label.Text = "weighted spatial mean"

	band := func(mean, std []float64, c color.NRGBA) error {
		xys := make(plotter.XYs, 0, 2*len(mean))
		for i := range mean {
			xys = append(xys, plotter.XY{X: hours[i], Y: mean[i] - std[i]})
		}
		for i := len(mean) - 1; i >= 0; i-- {
			xys = append(xys, plotter.XY{X: hours[i], Y: mean[i] + std[i]})
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return err
		}
		poly.Color = c
		poly.LineStyle.Width = 0
		pl.Add(poly)
		return nil
	}
	if err := band(trueMean, trueStd, color.NRGBA{R: 200, A: 50}); err != nil {
		return err
	}
	if err := band(dmdMean, dmdStd, color.NRGBA{R: 120, G: 120, B: 120, A: 50}); err != nil {
		return err
	}

	line := func(y []float64, c color.NRGBA, w float64) (*plotter.Line, error) {
		xys := make(plotter.XYs, len(y))
		for i := range y {
			xys[i] = plotter.XY{X: hours[i], Y: y[i]}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.Color = c
		l.Width = vg.Points(w)
		return l, nil
	}
	lt, err := line(trueMean, color.NRGBA{R: 200, A: 255}, 1.5)
	if err != nil {
		return err
	}
	ld, err := line(dmdMean, color.NRGBA{R: 90, G: 90, B: 90, A: 255}, 1.5)
	if err != nil {
		return err
	}
	pl.Add(lt, ld)
	pl.Legend.Add("true values", lt)
	pl.Legend.Add("DMD reconstruction/forecast", ld)
	pl.Legend.Top = true

	// train/test split marker
	ymin, ymax := trueMean[0]-trueStd[0], trueMean[0]+trueStd[0]
	for i := range trueMean {
		if v := trueMean[i] - trueStd[i]; v < ymin {
			ymin = v
		}
		if v := trueMean[i] + trueStd[i]; v > ymax {
			ymax = v
		}
	}
	split, err := plotter.NewLine(plotter.XYs{
		{X: hours[rep.NTrain], Y: ymin},
		{X: hours[rep.NTrain], Y: ymax},
	})
	if err != nil {
		return err
	}
	split.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	pl.Add(split)
	pl.Legend.Add("train/test split", split)

	fp := filepath.Join(p.Cfg.OutputDir, fmt.Sprintf("dmd_prediction_%s.png", rep.Timestamp))
	if err := pl.Save(12*vg.Inch, 8*vg.Inch, fp); err != nil {
		return fmt.Errorf("plot %s: %w", fp, err)
	}
	rep.PlotPath = fp

	// quick obs-vs-sim check alongside the figure
	mmplt.ObsSim(filepath.Join(p.Cfg.OutputDir, "obssim_check.png"), trueMean, dmdMean)
	return nil
}
