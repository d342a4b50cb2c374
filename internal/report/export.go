package report

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/user/complexity_analyzer_go/internal/analysis"
	"github.com/user/complexity_analyzer_go/internal/parser"
)

// Input is everything the emitter renders. Either analysis may be nil when
// only one table was supplied.
type Input struct {
	TimeSeries      *parser.Series
	Time            *analysis.TimeAnalysis
	SpaceSeries     *parser.Series
	Space           *analysis.SpaceAnalysis
	LinearTolerance float64
}

// ExportImages writes each image to dir/<name>.png and returns the paths in
// name order.
func ExportImages(dir string, images map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	slices.Sort(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name+".png")
		if err := os.WriteFile(path, images[name], 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Summary is the machine-readable record of a run's fits.
type Summary struct {
	Time  *TimeSummary  `yaml:"time,omitempty"`
	Space *SpaceSummary `yaml:"space,omitempty"`
}

// TimeSummary lists every segment fit of the time analysis.
type TimeSummary struct {
	Dataset     string          `yaml:"dataset"`
	Fingerprint string          `yaml:"fingerprint"`
	Limit1      int             `yaml:"limit1"`
	Limit2      int             `yaml:"limit2"`
	Fits        []SegmentRecord `yaml:"fits"`
}

// SegmentRecord is one {segment, slope, intercept, R²} row.
type SegmentRecord struct {
	Metric     string  `yaml:"metric"`
	Segment    string  `yaml:"segment"`
	LowerBound int     `yaml:"lower_bound"`
	UpperBound int     `yaml:"upper_bound"`
	Points     int     `yaml:"points"`
	Slope      float64 `yaml:"slope"`
	Intercept  float64 `yaml:"intercept"`
	RSquared   float64 `yaml:"r_squared"`
}

// SpaceSummary records the power-law fit.
type SpaceSummary struct {
	Dataset       string  `yaml:"dataset"`
	Fingerprint   string  `yaml:"fingerprint"`
	Metric        string  `yaml:"metric"`
	Exponent      float64 `yaml:"exponent"`
	Coefficient   float64 `yaml:"coefficient"`
	RSquared      float64 `yaml:"r_squared"`
	ImpliesLinear bool    `yaml:"implies_linear"`
}

// NewSummary flattens the analyses of in into a Summary.
func NewSummary(in Input) *Summary {
	s := &Summary{}
	if in.Time != nil {
		ts := &TimeSummary{
			Limit1: in.Time.Thresholds.Limit1,
			Limit2: in.Time.Thresholds.Limit2,
		}
		if in.TimeSeries != nil {
			ts.Dataset = in.TimeSeries.Name
			ts.Fingerprint = fmt.Sprintf("%016x", in.TimeSeries.Fingerprint())
		}
		for _, mf := range in.Time.Metrics {
			for _, sf := range mf.Segments {
				ts.Fits = append(ts.Fits, SegmentRecord{
					Metric:     mf.Metric,
					Segment:    sf.Segment.Label,
					LowerBound: sf.Segment.LowerBound,
					UpperBound: sf.Segment.UpperBound,
					Points:     len(sf.Segment.Members),
					Slope:      sf.Fit.Slope,
					Intercept:  sf.Fit.Intercept,
					RSquared:   sf.Fit.RSquared,
				})
			}
		}
		s.Time = ts
	}
	if in.Space != nil {
		ss := &SpaceSummary{
			Metric:        in.Space.Metric,
			Exponent:      in.Space.Fit.Exponent,
			Coefficient:   in.Space.Fit.Coefficient,
			RSquared:      in.Space.Fit.RSquared,
			ImpliesLinear: in.Space.Fit.ImpliesLinear(in.LinearTolerance),
		}
		if in.SpaceSeries != nil {
			ss.Dataset = in.SpaceSeries.Name
			ss.Fingerprint = fmt.Sprintf("%016x", in.SpaceSeries.Fingerprint())
		}
		s.Space = ss
	}
	return s
}

// WriteFitSummary writes the YAML summary of in to path.
func WriteFitSummary(path string, in Input) error {
	data, err := yaml.Marshal(NewSummary(in))
	if err != nil {
		return fmt.Errorf("failed to encode fit summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create summary dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
