package report

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/user/complexity_analyzer_go/internal/analysis"
	"github.com/user/complexity_analyzer_go/internal/parser"
)

var (
	testWidth  = vg.Points(360)
	testHeight = vg.Points(216)
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	ts, err := parser.SampleTimeSeries()
	require.NoError(t, err)
	ss, err := parser.SampleSpaceSeries()
	require.NoError(t, err)

	ta, err := analysis.AnalyzeTime(ts, analysis.Thresholds{Limit1: 550000, Limit2: 1350000},
		parser.ColumnInsertTime, parser.ColumnSearchTime)
	require.NoError(t, err)
	sa, err := analysis.AnalyzeSpace(ss, parser.ColumnMemoryMB)
	require.NoError(t, err)

	return Input{TimeSeries: ts, Time: ta, SpaceSeries: ss, Space: sa, LinearTolerance: 0.05}
}

func requirePNG(t *testing.T, data []byte) {
	t.Helper()
	require.NotEmpty(t, data)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}

func TestLogSpace(t *testing.T) {
	xs := LogSpace(1, 1000, 4)
	require.Len(t, xs, 4)
	for i, want := range []float64{1, 10, 100, 1000} {
		assert.InDelta(t, want, xs[i], 1e-9)
	}
	assert.Nil(t, LogSpace(1, 10, 0))
	assert.Equal(t, []float64{5}, LogSpace(5, 50, 1))
}

func TestPowerLawCurve(t *testing.T) {
	sa := &analysis.SpaceAnalysis{
		Metric: parser.ColumnMemoryMB,
		Fit:    analysis.PowerLawFit{Exponent: 1, Coefficient: 2, RSquared: 1},
		Points: []parser.Point{{N: 10, Value: 20}, {N: 1000, Value: 2000}},
	}
	curve := PowerLawCurve(sa, 3)
	require.Len(t, curve, 3)
	assert.InDelta(t, 10, curve[0].X, 1e-9)
	assert.InDelta(t, 200, curve[1].Y, 1e-9)
	assert.InDelta(t, 2000, curve[2].Y, 1e-9)
}

func TestSegmentLabels(t *testing.T) {
	sf := analysis.SegmentFit{
		Segment: analysis.Segment{Label: analysis.LabelStage2},
		Fit:     analysis.FitResult{Slope: 1.234e-7, RSquared: 0.98765},
	}
	assert.Equal(t, "Stage 2 (Mid N): Slope=1.23, R²=0.988", SegmentLegend(sf))
	assert.Equal(t, "SkipList Insertion: 3-Stage Segmented Fit", SegmentedPlotTitle(parser.ColumnInsertTime))
	assert.Equal(t, "SkipList Search: 3-Stage Segmented Fit", SegmentedPlotTitle(parser.ColumnSearchTime))
	assert.Equal(t, "segmented_inserttime", SegmentedPlotName(parser.ColumnInsertTime))
}

func TestRelativeResiduals(t *testing.T) {
	mf := analysis.MetricFit{
		Metric: "T",
		N:      []int{1, 2, 3, 4},
		X:      []float64{1, 2, 3, 4},
		Y:      []float64{1, 2, 0, 5},
		Segments: []analysis.SegmentFit{
			{Segment: analysis.Segment{LowerBound: 1, UpperBound: 2}, Fit: analysis.FitResult{Slope: 1}},
			{Segment: analysis.Segment{LowerBound: 2, UpperBound: 4}, Fit: analysis.FitResult{Slope: 2}},
		},
	}
	res := RelativeResiduals(mf)
	require.Len(t, res, 4)
	assert.InDelta(t, 0, res[0], 1e-12)
	// N=2 is on the boundary and uses the first segment.
	assert.InDelta(t, 0, res[1], 1e-12)
	assert.True(t, math.IsNaN(res[2]))
	assert.InDelta(t, (5.0-8.0)/5.0, res[3], 1e-12)
}

func TestCreatePlots(t *testing.T) {
	in := sampleInput(t)

	for _, mf := range in.Time.Metrics {
		img, err := CreateSegmentedFitPlot(mf, SegmentedPlotTitle(mf.Metric), testWidth, testHeight)
		require.NoError(t, err)
		requirePNG(t, img)
	}

	img, err := CreateLogLogPlot(in.Space, testWidth, testHeight)
	require.NoError(t, err)
	requirePNG(t, img)

	img, err = CreateResidualHeatmap(in.Time, testWidth, testHeight)
	require.NoError(t, err)
	requirePNG(t, img)
}

func TestCreatePlots_Empty(t *testing.T) {
	_, err := CreateSegmentedFitPlot(analysis.MetricFit{Metric: "T"}, "t", testWidth, testHeight)
	assert.Error(t, err)
	_, err = CreateLogLogPlot(nil, testWidth, testHeight)
	assert.Error(t, err)
	_, err = CreateResidualHeatmap(&analysis.TimeAnalysis{}, testWidth, testHeight)
	assert.Error(t, err)
}

func TestExportImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := ExportImages(dir, map[string][]byte{"b": []byte("2"), "a": []byte("1")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestWriteFitSummary(t *testing.T) {
	in := sampleInput(t)
	path := filepath.Join(t.TempDir(), "fits.yaml")
	require.NoError(t, WriteFitSummary(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Summary
	require.NoError(t, yaml.Unmarshal(data, &got))

	require.NotNil(t, got.Time)
	assert.Equal(t, 550000, got.Time.Limit1)
	assert.Equal(t, 1350000, got.Time.Limit2)
	assert.Len(t, got.Time.Fits, 6)
	assert.Equal(t, parser.ColumnInsertTime, got.Time.Fits[0].Metric)
	assert.Equal(t, analysis.LabelStage1, got.Time.Fits[0].Segment)
	assert.Len(t, got.Time.Fingerprint, 16)

	require.NotNil(t, got.Space)
	assert.InDelta(t, 1.0, got.Space.Exponent, 0.01)
	assert.True(t, got.Space.ImpliesLinear)
}

func TestNewSummary_TimeOnly(t *testing.T) {
	in := sampleInput(t)
	in.Space, in.SpaceSeries = nil, nil
	s := NewSummary(in)
	assert.NotNil(t, s.Time)
	assert.Nil(t, s.Space)
}

func TestBuildPDFReport(t *testing.T) {
	in := sampleInput(t)
	images := make(map[string][]byte)
	for _, mf := range in.Time.Metrics {
		img, err := CreateSegmentedFitPlot(mf, SegmentedPlotTitle(mf.Metric), testWidth, testHeight)
		require.NoError(t, err)
		images[SegmentedPlotName(mf.Metric)] = img
	}
	img, err := CreateLogLogPlot(in.Space, testWidth, testHeight)
	require.NoError(t, err)
	images[PlotSpaceLogLog] = img

	// the residual heatmap is left out on purpose: a missing chart is noted,
	// not fatal.
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, in, images))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestBuildPDFReport_NoResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, BuildPDFReport(path, Input{}, nil))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
