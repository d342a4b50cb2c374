package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/user/complexity_analyzer_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// residualGrid is a plotter.GridXYZ with one row per metric and one column
// per measurement.
type residualGrid struct {
	z    [][]float64 // [row][col]
	cols int
}

func (g residualGrid) Dims() (c, r int)   { return g.cols, len(g.z) }
func (g residualGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g residualGrid) X(c int) float64    { return float64(c) }
func (g residualGrid) Y(r int) float64    { return float64(r) }

// RelativeResiduals returns (y − ŷ)/y for every measurement of a metric,
// where ŷ comes from the first segment containing that measurement, so a
// boundary point is judged by the lower segment's line. Zero observations
// give NaN.
func RelativeResiduals(mf analysis.MetricFit) []float64 {
	out := make([]float64, len(mf.X))
	for i, x := range mf.X {
		out[i] = math.NaN()
		for _, sf := range mf.Segments {
			if !sf.Segment.Contains(mf.N[i]) {
				continue
			}
			if mf.Y[i] != 0 {
				out[i] = (mf.Y[i] - sf.Fit.Predict(x)) / mf.Y[i]
			}
			break
		}
	}
	return out
}

// CreateResidualHeatmap shows where each metric departs from its segment
// lines, coloured on a diverging scale symmetric around zero, as PNG.
func CreateResidualHeatmap(ta *analysis.TimeAnalysis, width, height vg.Length) ([]byte, error) {
	if ta == nil || len(ta.Metrics) == 0 {
		return nil, fmt.Errorf("no time analysis results to plot heatmap")
	}

	grid := residualGrid{cols: len(ta.Metrics[0].X)}
	extent := 0.0
	for _, mf := range ta.Metrics {
		if len(mf.X) != grid.cols {
			return nil, fmt.Errorf("metric %s has %d points, expected %d", mf.Metric, len(mf.X), grid.cols)
		}
		row := RelativeResiduals(mf)
		for _, v := range row {
			if !math.IsNaN(v) {
				extent = math.Max(extent, math.Abs(v))
			}
		}
		grid.z = append(grid.z, row)
	}
	if grid.cols == 0 {
		return nil, fmt.Errorf("no measurements to plot heatmap")
	}
	if extent == 0 {
		extent = 1
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-extent)
	cm.SetMax(extent)

	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min = -extent
	hm.Max = extent
	hm.NaN = color.Gray{Y: 200}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Relative Residual of Segment Fits (±%.1f%%)", extent*100)
	p.X.Label.Text = "N"
	p.Y.Label.Text = "Metric"
	p.Add(hm)

	yTicks := make([]plot.Tick, len(ta.Metrics))
	for i, mf := range ta.Metrics {
		yTicks[i] = plot.Tick{Value: float64(i), Label: mf.Metric}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(ta.Metrics)) - 0.5

	ns := ta.Metrics[0].N
	step := max(1, grid.cols/10)
	var xTicks []plot.Tick
	for c := 0; c < grid.cols; c += step {
		xTicks = append(xTicks, plot.Tick{Value: float64(c), Label: fmt.Sprintf("%d", ns[c])})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.X.Min = -0.5
	p.X.Max = float64(grid.cols) - 0.5

	return renderPNG(p, width, height)
}
