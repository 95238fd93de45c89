// Package plot draws learning curves of experiments.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/samuelfneumann/goreinforce/experiment"
)

// Curve summarizes a set of learning curves, one per seed, at each
// episode
type Curve struct {
	Mean []float64
	Min  []float64
	Max  []float64
}

// Summarize returns the mean, minimum, and maximum across runs at each
// episode. Runs are truncated to the length of the shortest run.
func Summarize(runs [][]float64) (Curve, error) {
	if len(runs) == 0 {
		return Curve{}, fmt.Errorf("summarize: no runs")
	}
	episodes := len(runs[0])
	for _, run := range runs[1:] {
		if len(run) < episodes {
			episodes = len(run)
		}
	}

	curve := Curve{
		Mean: make([]float64, episodes),
		Min:  make([]float64, episodes),
		Max:  make([]float64, episodes),
	}
	column := make([]float64, len(runs))
	for i := 0; i < episodes; i++ {
		for j, run := range runs {
			column[j] = run[i]
		}
		curve.Mean[i] = stat.Mean(column, nil)
		curve.Min[i] = floats.Min(column)
		curve.Max[i] = floats.Max(column)
	}

	return curve, nil
}

// Smooth returns the trailing moving average of data over window
// elements. The first window-1 elements average over all preceding
// elements.
func Smooth(data []float64, window int) []float64 {
	if window <= 1 {
		return append([]float64(nil), data...)
	}

	smoothed := make([]float64, len(data))
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		smoothed[i] = sum / float64(n)
	}
	return smoothed
}

// LearningCurve plots the episodic return of each seed of r as a faint
// line, the mean return across seeds as a solid line, and the range
// across seeds as a shaded band, and saves the plot to filename. The
// image format is determined by the extension of filename.
func LearningCurve(r *experiment.Result, title, filename string) error {
	curve, err := Summarize(r.Returns)
	if err != nil {
		return fmt.Errorf("learningCurve: %v", err)
	}
	if len(curve.Mean) == 0 {
		return fmt.Errorf("learningCurve: no episodes to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episodes"
	p.Y.Label.Text = "Reward"

	band, err := plotter.NewPolygon(envelope(curve.Min, curve.Max))
	if err != nil {
		return fmt.Errorf("learningCurve: %v", err)
	}
	band.Color = withAlpha(plotutil.Color(0), 0x40)
	band.LineStyle.Width = 0
	p.Add(band)

	for i, run := range r.Returns {
		line, err := plotter.NewLine(points(run))
		if err != nil {
			return fmt.Errorf("learningCurve: seed %v: %v", r.Seeds[i], err)
		}
		line.Color = withAlpha(plotutil.Color(i+1), 0x50)
		line.Width = vg.Points(0.5)
		p.Add(line)
	}

	mean, err := plotter.NewLine(points(curve.Mean))
	if err != nil {
		return fmt.Errorf("learningCurve: %v", err)
	}
	mean.Color = plotutil.Color(0)
	mean.Width = vg.Points(1.5)
	p.Add(mean)
	p.Legend.Add("mean", mean)
	p.Legend.Add("min/max", band)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, filename); err != nil {
		return fmt.Errorf("learningCurve: could not save plot: %v", err)
	}
	return nil
}

// points returns the (episode, value) pairs of data, with episodes
// numbered from 1
func points(data []float64) plotter.XYs {
	xys := make(plotter.XYs, len(data))
	for i, v := range data {
		xys[i] = plotter.XY{X: float64(i + 1), Y: v}
	}
	return xys
}

// envelope returns a closed polygon following upper from left to
// right and lower from right to left
func envelope(lower, upper []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, 2*len(upper))
	xys = append(xys, points(upper)...)
	for i := len(lower) - 1; i >= 0; i-- {
		xys = append(xys, plotter.XY{X: float64(i + 1), Y: lower[i]})
	}
	return xys
}

func withAlpha(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8),
		A: alpha}
}
