package report

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/user/complexity_analyzer_go/internal/analysis"
	"github.com/user/complexity_analyzer_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SlopeDisplayScale multiplies fitted time slopes for display: seconds per
// N·log2(N) unit are around 1e-7 for the reference data.
const SlopeDisplayScale = 1e7

// Plot names, used as image keys, exported file names and PDF image ids.
const (
	PlotSpaceLogLog     = "space_loglog"
	PlotResidualHeatmap = "residual_heatmap"
	segmentedPlotPrefix = "segmented_"
)

var segmentColors = []color.Color{
	color.RGBA{G: 128, A: 255},               // green
	color.RGBA{R: 255, G: 165, A: 255},       // orange
	color.RGBA{R: 220, G: 20, B: 20, A: 255}, // red
}

// SegmentedPlotName returns the image key of a metric's segmented-fit chart.
func SegmentedPlotName(metric string) string {
	return segmentedPlotPrefix + strings.ToLower(metric)
}

// SegmentedPlotTitle returns the chart title for a time metric.
func SegmentedPlotTitle(metric string) string {
	op := strings.TrimSuffix(metric, "Time")
	switch op {
	case "Insert":
		op = "Insertion"
	case "":
		op = metric
	}
	return fmt.Sprintf("SkipList %s: 3-Stage Segmented Fit", op)
}

// SegmentLegend formats the legend entry of one segment fit.
func SegmentLegend(sf analysis.SegmentFit) string {
	return fmt.Sprintf("%s: Slope=%.2f, R²=%.3f", sf.Segment.Label, sf.Fit.Slope*SlopeDisplayScale, sf.Fit.RSquared)
}

// CreateSegmentedFitPlot draws the measured points of one time metric against
// N·log2(N) with one fitted line per segment, and returns it as PNG.
func CreateSegmentedFitPlot(mf analysis.MetricFit, title string, width, height vg.Length) ([]byte, error) {
	if len(mf.X) == 0 || len(mf.Segments) == 0 {
		return nil, fmt.Errorf("no fitted data to plot for %s", mf.Metric)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Theoretical Complexity (N·log2 N)"
	p.Y.Label.Text = "Total Time (seconds)"
	p.Add(plotter.NewGrid())

	actual := make(plotter.XYs, len(mf.X))
	for i := range mf.X {
		actual[i].X = mf.X[i]
		actual[i].Y = mf.Y[i]
	}
	scatter, err := plotter.NewScatter(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter for %s: %w", mf.Metric, err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 128, G: 128, B: 128, A: 160}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add("Actual Data", scatter)

	for i, sf := range mf.Segments {
		pts := make(plotter.XYs, len(sf.X))
		for j, x := range sf.X {
			pts[j].X = x
			pts[j].Y = sf.Fit.Predict(x)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s %s: %w", mf.Metric, sf.Segment.Label, err)
		}
		line.Color = segmentColors[i%len(segmentColors)]
		line.Width = vg.Points(2.5)
		p.Add(line)
		p.Legend.Add(SegmentLegend(sf), line)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = vg.Points(10)

	return renderPNG(p, width, height)
}

func renderPNG(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// seriesLabel names a dataset for captions.
func seriesLabel(s *parser.Series) string {
	if s == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s (%d rows, fingerprint %016x)", s.Name, s.Len(), s.Fingerprint())
}
