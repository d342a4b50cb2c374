package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"

	"github.com/user/complexity_analyzer_go/internal/analysis"
	"github.com/user/complexity_analyzer_go/internal/collector"
	"github.com/user/complexity_analyzer_go/internal/config"
	"github.com/user/complexity_analyzer_go/internal/parser"
	"github.com/user/complexity_analyzer_go/internal/report"
)

// App runs one analysis or collection job.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	sample bool // use the embedded reference tables instead of cfg inputs
}

// NewApp creates a new App for cfg.
func NewApp(ctx context.Context, cfg *config.Config) *App {
	return &App{ctx: ctx, cfg: cfg}
}

func (a *App) sendStatus(message string) {
	klog.InfoDepth(1, message)
}

// loadSeries returns the time and space tables. A nil table means that
// analysis is skipped.
func (a *App) loadSeries() (timeSeries, spaceSeries *parser.Series, err error) {
	if a.sample {
		a.sendStatus("Using embedded reference measurements")
		if timeSeries, err = parser.SampleTimeSeries(); err != nil {
			return nil, nil, err
		}
		if spaceSeries, err = parser.SampleSpaceSeries(); err != nil {
			return nil, nil, err
		}
		return timeSeries, spaceSeries, nil
	}

	loaded := make(map[string]*parser.Series)
	load := func(path string, bench bool) (*parser.Series, error) {
		if path == "" {
			return nil, nil
		}
		if s, ok := loaded[path]; ok {
			return s, nil
		}
		a.sendStatus(fmt.Sprintf("Parsing: %s", path))
		var s *parser.Series
		var err error
		if bench {
			s, err = parser.ParseGoBenchFile(path)
		} else {
			s, err = parser.ParseSeriesFile(path)
		}
		if err != nil {
			return nil, err
		}
		a.sendStatus(fmt.Sprintf("Parsed %d measurements from %s", s.Len(), path))
		if len(s.ParseErrors) > 0 {
			klog.Warning("Parsing warnings:")
			for _, e := range s.ParseErrors {
				klog.Warningf("- %s", e)
			}
		}
		loaded[path] = s
		return s, nil
	}

	if timeSeries, err = load(a.cfg.Time.Input, a.cfg.Time.Bench); err != nil {
		return nil, nil, err
	}
	if spaceSeries, err = load(a.cfg.Space.Input, a.cfg.Space.Bench); err != nil {
		return nil, nil, err
	}
	if timeSeries == nil && spaceSeries == nil {
		return nil, nil, fmt.Errorf("%w: no time or space input given", analysis.ErrConfiguration)
	}
	return timeSeries, spaceSeries, nil
}

// Analyze loads the measurement tables, fits them and writes the charts, the
// fit summary and the PDF report. Every fit and chart is produced in memory
// first, so a failure leaves no output behind.
func (a *App) Analyze() error {
	timeSeries, spaceSeries, err := a.loadSeries()
	if err != nil {
		return err
	}

	in := report.Input{
		TimeSeries:      timeSeries,
		SpaceSeries:     spaceSeries,
		LinearTolerance: a.cfg.Space.LinearTolerance,
	}

	if timeSeries != nil {
		th, err := a.cfg.Thresholds()
		if err != nil {
			return err
		}
		a.sendStatus(fmt.Sprintf("Analyzing time complexity (limit1=%d, limit2=%d)...", th.Limit1, th.Limit2))
		in.Time, err = analysis.AnalyzeTime(timeSeries, th, a.cfg.Time.Metrics...)
		if err != nil {
			return fmt.Errorf("time analysis failed: %w", err)
		}
		for _, mf := range in.Time.Metrics {
			for _, sf := range mf.Segments {
				a.sendStatus(fmt.Sprintf("%s %s", mf.Metric, report.SegmentLegend(sf)))
			}
		}
	} else {
		klog.Warning("No time input, skipping time complexity analysis")
	}

	if spaceSeries != nil {
		a.sendStatus(fmt.Sprintf("Analyzing space complexity (%s)...", a.cfg.Space.Metric))
		in.Space, err = analysis.AnalyzeSpace(spaceSeries, a.cfg.Space.Metric)
		if err != nil {
			return fmt.Errorf("space analysis failed: %w", err)
		}
		a.sendStatus(fmt.Sprintf("%s, O(N): %t", in.Space.Fit, in.Space.Fit.ImpliesLinear(a.cfg.Space.LinearTolerance)))
	} else {
		klog.Warning("No space input, skipping space complexity analysis")
	}

	plotImages, err := a.renderPlots(in)
	if err != nil {
		return err
	}

	outDir := a.cfg.Report.OutputDir
	paths, err := report.ExportImages(outDir, plotImages)
	if err != nil {
		return err
	}
	for _, p := range paths {
		klog.V(1).Infof("Wrote %s", p)
	}

	summaryPath := a.outputPath(a.cfg.Report.Summary)
	if err := report.WriteFitSummary(summaryPath, in); err != nil {
		return fmt.Errorf("failed to write fit summary: %w", err)
	}
	a.sendStatus(fmt.Sprintf("Fit summary written: %s", summaryPath))

	if a.cfg.Report.PDF == "" {
		return nil
	}
	pdfPath := a.outputPath(a.cfg.Report.PDF)
	a.sendStatus(fmt.Sprintf("Generating PDF: %s...", pdfPath))
	if err := report.BuildPDFReport(pdfPath, in, plotImages); err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	a.sendStatus(fmt.Sprintf("PDF report successfully generated: %s", pdfPath))
	return nil
}

func (a *App) renderPlots(in report.Input) (map[string][]byte, error) {
	a.sendStatus("Generating plots...")
	width := vg.Points(a.cfg.Report.WidthPt)
	height := vg.Points(a.cfg.Report.HeightPt)

	type plotConfig struct {
		Name   string
		Type   string
		Metric analysis.MetricFit
	}
	var plotConfigs []plotConfig
	if in.Time != nil {
		for _, mf := range in.Time.Metrics {
			plotConfigs = append(plotConfigs, plotConfig{Name: report.SegmentedPlotName(mf.Metric), Type: "segmented", Metric: mf})
		}
		plotConfigs = append(plotConfigs, plotConfig{Name: report.PlotResidualHeatmap, Type: "heatmap"})
	}
	if in.Space != nil {
		plotConfigs = append(plotConfigs, plotConfig{Name: report.PlotSpaceLogLog, Type: "loglog"})
	}

	plotImages := make(map[string][]byte, len(plotConfigs))
	for _, pc := range plotConfigs {
		a.sendStatus(fmt.Sprintf("Plot: %s", pc.Name))
		var imgBytes []byte
		var errPlt error
		switch pc.Type {
		case "segmented":
			imgBytes, errPlt = report.CreateSegmentedFitPlot(pc.Metric, report.SegmentedPlotTitle(pc.Metric.Metric), width, height)
		case "heatmap":
			imgBytes, errPlt = report.CreateResidualHeatmap(in.Time, width, height)
		case "loglog":
			imgBytes, errPlt = report.CreateLogLogPlot(in.Space, width, height)
		}
		if errPlt != nil {
			return nil, fmt.Errorf("error generating plot %s: %w", pc.Name, errPlt)
		}
		plotImages[pc.Name] = imgBytes
	}
	a.sendStatus("Plot generation complete.")
	return plotImages, nil
}

// outputPath places relative report file names under the output directory.
func (a *App) outputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.cfg.Report.OutputDir, name)
}

// Collect benchmarks the skip list and writes the time and space tables.
func (a *App) Collect() error {
	if err := a.cfg.ValidateCollect(); err != nil {
		return err
	}
	cc := a.cfg.Collect

	a.sendStatus(fmt.Sprintf("Collecting time measurements for N=%d..%d step %d (x%d)", cc.StartN, cc.EndN, cc.Step, cc.Repeat))
	timeSeries, err := collector.CollectTime(a.ctx, cc)
	if err != nil {
		return err
	}
	if err := writeSeriesFile(cc.TimeOutput, timeSeries); err != nil {
		return err
	}
	a.sendStatus(fmt.Sprintf("Wrote %d rows to %s", timeSeries.Len(), cc.TimeOutput))

	a.sendStatus(fmt.Sprintf("Collecting space measurements at %d scales", len(cc.SpaceScales)))
	spaceSeries, err := collector.CollectSpace(a.ctx, cc)
	if err != nil {
		return err
	}
	if err := writeSeriesFile(cc.SpaceOutput, spaceSeries); err != nil {
		return err
	}
	a.sendStatus(fmt.Sprintf("Wrote %d rows to %s", spaceSeries.Len(), cc.SpaceOutput))
	return nil
}

func writeSeriesFile(path string, s *parser.Series) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return parser.WriteSeries(f, s)
}
