package analysis

import (
	"fmt"
	"math"

	"github.com/user/complexity_analyzer_go/internal/parser"
)

// Segment labels, in N order.
const (
	LabelStage1 = "Stage 1 (Small N)"
	LabelStage2 = "Stage 2 (Mid N)"
	LabelStage3 = "Stage 3 (Large N)"
)

// Thresholds are the two N values splitting a time series into three
// segments. They are run-time configuration, never derived from the data.
type Thresholds struct {
	Limit1 int
	Limit2 int
}

// Segment is a contiguous N range of a series with inclusive bounds.
// Measurements whose N equals a threshold belong to both adjacent segments.
type Segment struct {
	Label      string
	LowerBound int
	UpperBound int
	Members    []parser.Measurement
}

// Contains reports whether n lies within the segment's inclusive bounds.
func (s Segment) Contains(n int) bool {
	return n >= s.LowerBound && n <= s.UpperBound
}

// FitResult is a fitted line y ≈ Slope·x + Intercept and its coefficient of
// determination.
type FitResult struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// Predict evaluates the fitted line at x.
func (f FitResult) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

func (f FitResult) String() string {
	return fmt.Sprintf("FitResult{Slope: %.6g, Intercept: %.6g, R²: %.4f}", f.Slope, f.Intercept, f.RSquared)
}

// PowerLawFit is a curve memory ≈ Coefficient·N^Exponent fitted in log-log
// space. RSquared is measured on the log10 residuals.
type PowerLawFit struct {
	Exponent    float64
	Coefficient float64
	RSquared    float64
}

// Predict evaluates Coefficient·n^Exponent.
func (p PowerLawFit) Predict(n float64) float64 {
	return p.Coefficient * math.Pow(n, p.Exponent)
}

// ImpliesLinear reports whether the exponent is within tol of 1, i.e. the
// measured growth is consistent with O(N).
func (p PowerLawFit) ImpliesLinear(tol float64) bool {
	return math.Abs(p.Exponent-1) <= tol
}

func (p PowerLawFit) String() string {
	return fmt.Sprintf("PowerLawFit{Exponent: %.4f, Coefficient: %.6g, R²: %.4f}", p.Exponent, p.Coefficient, p.RSquared)
}

// SegmentFit is the line fitted to one segment of one metric, together with
// the transformed points it was fitted on.
type SegmentFit struct {
	Segment Segment
	Fit     FitResult
	X       []float64 // N·log2(N)
	Y       []float64 // metric values
}

// MetricFit holds the three segment fits of one time metric.
type MetricFit struct {
	Metric   string
	Segments []SegmentFit
	N        []int     // whole series
	X        []float64 // whole series, N·log2(N)
	Y        []float64 // whole series, metric values
}

// TimeAnalysis is the result of the segmented time-complexity analysis.
type TimeAnalysis struct {
	Thresholds Thresholds
	Metrics    []MetricFit
}

// SpaceAnalysis is the result of the power-law space-complexity analysis.
type SpaceAnalysis struct {
	Metric string
	Fit    PowerLawFit
	Points []parser.Point
}
