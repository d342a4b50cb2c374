package analysis

import (
	"fmt"

	"github.com/user/complexity_analyzer_go/internal/parser"
)

// AnalyzeTime performs the three-stage segmented fit of each named metric
// against N·log2(N).
//
// The series is partitioned once at th and every metric is fitted on the same
// segments. All validation (series size, thresholds, segment sizes, metric
// columns, finiteness) happens before the first fit, so a failed analysis
// never returns partial results.
func AnalyzeTime(series *parser.Series, th Thresholds, metrics ...string) (*TimeAnalysis, error) {
	if series == nil {
		return nil, fmt.Errorf("%w: series is nil", ErrInsufficientData)
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: no time metrics requested", ErrConfiguration)
	}

	segments, err := Partition(series.Measurements, th)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", series.Name, err)
	}

	columns := make([]int, len(metrics))
	for i, metric := range metrics {
		col, err := series.Column(metric)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		pts, err := series.Metric(metric)
		if err != nil {
			return nil, err
		}
		ys := make([]float64, len(pts))
		for j, p := range pts {
			ys[j] = p.Value
		}
		if err := checkFinite(metric, ys); err != nil {
			return nil, fmt.Errorf("series %q: %w", series.Name, err)
		}
		columns[i] = col
	}

	result := &TimeAnalysis{
		Thresholds: th,
		Metrics:    make([]MetricFit, 0, len(metrics)),
	}
	for i, metric := range metrics {
		xs, ys := transformTime(series.Measurements, columns[i])
		ns := make([]int, len(series.Measurements))
		for j, m := range series.Measurements {
			ns[j] = m.N
		}
		mf := MetricFit{
			Metric:   metric,
			Segments: make([]SegmentFit, 0, len(segments)),
			N:        ns,
			X:        xs,
			Y:        ys,
		}
		for _, seg := range segments {
			segX, segY := transformTime(seg.Members, columns[i])
			fit, err := FitLine(segX, segY)
			if err != nil {
				return nil, fmt.Errorf("series %q, %s, %s: %w", series.Name, metric, seg.Label, err)
			}
			mf.Segments = append(mf.Segments, SegmentFit{Segment: seg, Fit: fit, X: segX, Y: segY})
		}
		result.Metrics = append(result.Metrics, mf)
	}
	return result, nil
}

// AnalyzeSpace fits a power law of the named metric against N.
func AnalyzeSpace(series *parser.Series, metric string) (*SpaceAnalysis, error) {
	if series == nil {
		return nil, fmt.Errorf("%w: series is nil", ErrInsufficientData)
	}
	if _, err := series.Column(metric); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	pts, err := series.Metric(metric)
	if err != nil {
		return nil, err
	}

	fit, err := FitPowerLaw(pts)
	if err != nil {
		return nil, fmt.Errorf("series %q, %s: %w", series.Name, metric, err)
	}
	return &SpaceAnalysis{Metric: metric, Fit: fit, Points: pts}, nil
}

func transformTime(ms []parser.Measurement, col int) (xs, ys []float64) {
	xs = make([]float64, len(ms))
	ys = make([]float64, len(ms))
	for i, m := range ms {
		xs[i] = ComplexityTerm(m.N)
		ys[i] = m.Values[col]
	}
	return xs, ys
}
