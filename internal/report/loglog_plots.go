package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/user/complexity_analyzer_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// curvePoints is how many log-spaced N values the fitted curve is drawn with.
const curvePoints = 100

// LogSpace returns n values evenly spaced in log10 between lo and hi
// inclusive. lo and hi must be positive.
func LogSpace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	a, b := math.Log10(lo), math.Log10(hi)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Pow(10, a+(b-a)*float64(i)/float64(n-1))
	}
	out[n-1] = hi
	return out
}

// PowerLawCurve regenerates the fitted curve y = c·x^k over the observed N range.
func PowerLawCurve(sa *analysis.SpaceAnalysis, n int) plotter.XYs {
	lo := float64(sa.Points[0].N)
	hi := float64(sa.Points[len(sa.Points)-1].N)
	xs := LogSpace(lo, hi, n)
	pts := make(plotter.XYs, len(xs))
	for i, x := range xs {
		pts[i].X = x
		pts[i].Y = sa.Fit.Predict(x)
	}
	return pts
}

// SpaceInfoText is the annotation printed on the log-log chart.
func SpaceInfoText(fit analysis.PowerLawFit) string {
	return fmt.Sprintf("Log-Log Slope = %.4f\nR² = %.4f\nSlope ≈ 1.0 implies O(N)", fit.Exponent, fit.RSquared)
}

// CreateLogLogPlot draws measured memory against N on log-log axes together
// with the fitted power-law curve, and returns it as PNG.
func CreateLogLogPlot(sa *analysis.SpaceAnalysis, width, height vg.Length) ([]byte, error) {
	if sa == nil || len(sa.Points) < 2 {
		return nil, fmt.Errorf("no space analysis to plot")
	}

	p := plot.New()
	p.Title.Text = "SkipList Space Complexity (Log-Log Scale)"
	p.X.Label.Text = "Number of Elements (N) - Log Scale"
	p.Y.Label.Text = "Memory Usage (MB) - Log Scale"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}
	p.Y.Tick.Marker = plot.LogTicks{}
	p.Add(plotter.NewGrid())

	actual := make(plotter.XYs, len(sa.Points))
	maxY := 0.0
	for i, pt := range sa.Points {
		actual[i].X = float64(pt.N)
		actual[i].Y = pt.Value
		maxY = math.Max(maxY, pt.Value)
	}
	scatter, err := plotter.NewScatter(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory scatter: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 128, B: 128, A: 204}
	scatter.GlyphStyle.Radius = vg.Points(4)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add("Actual Memory Usage", scatter)

	curve, err := plotter.NewLine(PowerLawCurve(sa, curvePoints))
	if err != nil {
		return nil, fmt.Errorf("failed to create power-law curve: %w", err)
	}
	curve.Color = color.RGBA{R: 255, A: 255}
	curve.Width = vg.Points(2)
	curve.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(curve)
	p.Legend.Add(fmt.Sprintf("Power Law Fit (y ∝ x^%.4f)", sa.Fit.Exponent), curve)

	info, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: actual[0].X, Y: maxY}},
		Labels: []string{SpaceInfoText(sa.Fit)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create info label: %w", err)
	}
	info.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(-40)}
	p.Add(info)

	p.Legend.Top = true
	p.Legend.Left = false

	return renderPNG(p, width, height)
}
