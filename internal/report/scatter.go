package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/banshee-data/rainverify/internal/fsutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotOptions controls scatter plot presentation.
type PlotOptions struct {
	Title   string   // defaults to "Estimates vs observations"
	Unit    string   // measurement unit shown in the axis labels
	Metrics []string // metrics annotated on the plot; DefaultMetrics when empty
}

func (o PlotOptions) title() string {
	if o.Title == "" {
		return "Estimates vs observations"
	}
	return o.Title
}

func axisLabel(name, unit string) string {
	if unit == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, unit)
}

// maxValue returns the largest finite value of obs and est, or 1 when there
// is none, so the 1:1 line always has extent.
func maxValue(obs, est []float64) float64 {
	m := math.Inf(-1)
	for _, s := range [][]float64{obs, est} {
		for _, v := range s {
			if !math.IsNaN(v) && !math.IsInf(v, 0) && v > m {
				m = v
			}
		}
	}
	if math.IsInf(m, -1) || m <= 0 {
		return 1
	}
	return m
}

// NewScatterPlot builds a square scatter plot of est against obs with a grey
// 1:1 reference line from zero to the largest value and the selected
// metrics written in the lower right.
func NewScatterPlot(obs, est []float64, values map[string]float64, o PlotOptions) (*plot.Plot, error) {
	if len(obs) != len(est) {
		return nil, fmt.Errorf("scatter: %d observations but %d estimates", len(obs), len(est))
	}
	lines, err := metricLines(values, o.Metrics)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = o.title()
	p.X.Label.Text = axisLabel("Observations", o.Unit)
	p.Y.Label.Text = axisLabel("Estimates", o.Unit)

	maxv := maxValue(obs, est)
	p.X.Min, p.Y.Min = 0, 0
	p.X.Max, p.Y.Max = maxv, maxv

	pts := make(plotter.XYs, len(obs))
	for i := range obs {
		pts[i] = plotter.XY{X: obs[i], Y: est[i]}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(sc)

	one, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: maxv, Y: maxv}})
	if err != nil {
		return nil, err
	}
	one.Color = color.Gray{Y: 128}
	one.Width = vg.Points(1)
	p.Add(one)

	if len(lines) > 0 {
		lbl := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(lines)),
			Labels: lines,
		}
		// Stack labels upwards from 20% of the range at 70% across.
		for i := range lines {
			lbl.XYs[i] = plotter.XY{X: 0.7 * maxv, Y: (0.2 + 0.1*float64(len(lines)-1-i)) * maxv}
		}
		labels, err := plotter.NewLabels(lbl)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	return p, nil
}

// SavePlot renders the scatter plot and writes it to path on fsys. The image
// format follows the extension (png, svg, pdf, ...).
func SavePlot(fsys fsutil.FileSystem, path string, obs, est []float64, values map[string]float64, o PlotOptions) error {
	p, err := NewScatterPlot(obs, est, values, o)
	if err != nil {
		return err
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("plot path %q has no extension", path)
	}
	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
