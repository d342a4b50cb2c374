package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/complexity_analyzer_go/internal/analysis"
	"github.com/user/complexity_analyzer_go/internal/parser"
)

// Config is the top-level configuration for an analysis or collection run.
type Config struct {
	Time    TimeConfig    `yaml:"time"`
	Space   SpaceConfig   `yaml:"space"`
	Report  ReportConfig  `yaml:"report"`
	Collect CollectConfig `yaml:"collect"`
}

// TimeConfig configures the segmented time-complexity analysis.
type TimeConfig struct {
	Input   string   `yaml:"input,omitempty"` // CSV, or go test -bench output when Bench is set
	Bench   bool     `yaml:"bench,omitempty"`
	Limit1  int      `yaml:"limit1"`
	Limit2  int      `yaml:"limit2"`
	Metrics []string `yaml:"metrics"`
}

// SpaceConfig configures the power-law space-complexity analysis.
type SpaceConfig struct {
	Input           string  `yaml:"input,omitempty"`
	Bench           bool    `yaml:"bench,omitempty"`
	Metric          string  `yaml:"metric"`
	LinearTolerance float64 `yaml:"linear_tolerance"` // |exponent-1| accepted as O(N)
}

// ReportConfig controls what the report emitter writes.
type ReportConfig struct {
	OutputDir string  `yaml:"output_dir"`
	PDF       string  `yaml:"pdf"` // empty disables the PDF
	Summary   string  `yaml:"summary"`
	WidthPt   float64 `yaml:"width_pt"`
	HeightPt  float64 `yaml:"height_pt"`
}

// CollectConfig drives the skip list benchmark collector.
type CollectConfig struct {
	StartN      int    `yaml:"start_n"`
	EndN        int    `yaml:"end_n"`
	Step        int    `yaml:"step"`
	Repeat      int    `yaml:"repeat"`
	Seed        uint64 `yaml:"seed"`
	SpaceScales []int  `yaml:"space_scales"`
	BatchSize   int    `yaml:"batch_size"` // search ops per latency sample
	TimeOutput  string `yaml:"time_output"`
	SpaceOutput string `yaml:"space_output"`
}

// Default returns a configuration with every optional field set. The time
// thresholds are left at zero: they must come from a file or flags.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) applyDefaults() {
	if len(c.Time.Metrics) == 0 {
		c.Time.Metrics = []string{parser.ColumnInsertTime, parser.ColumnSearchTime}
	}
	if c.Space.Metric == "" {
		c.Space.Metric = parser.ColumnMemoryMB
	}
	if c.Space.LinearTolerance == 0 {
		c.Space.LinearTolerance = 0.05
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "out"
	}
	if c.Report.Summary == "" {
		c.Report.Summary = "fits.yaml"
	}
	if c.Report.WidthPt == 0 {
		c.Report.WidthPt = 720 // 10in
	}
	if c.Report.HeightPt == 0 {
		c.Report.HeightPt = 432 // 6in
	}
	if c.Collect.StartN == 0 {
		c.Collect.StartN = 50000
	}
	if c.Collect.EndN == 0 {
		c.Collect.EndN = 2000000
	}
	if c.Collect.Step == 0 {
		c.Collect.Step = 50000
	}
	if c.Collect.Repeat == 0 {
		c.Collect.Repeat = 3
	}
	if c.Collect.Seed == 0 {
		c.Collect.Seed = 1
	}
	if len(c.Collect.SpaceScales) == 0 {
		c.Collect.SpaceScales = []int{1000, 2000, 5000, 10000, 20000, 50000, 100000, 200000, 500000}
	}
	if c.Collect.BatchSize == 0 {
		c.Collect.BatchSize = 1024
	}
	if c.Collect.TimeOutput == "" {
		c.Collect.TimeOutput = "skiplist_time.csv"
	}
	if c.Collect.SpaceOutput == "" {
		c.Collect.SpaceOutput = "skiplist_space.csv"
	}
}

// Thresholds returns the configured time segmentation thresholds, or
// analysis.ErrConfiguration when they were never set or are out of order.
// Whether they fit inside the data's N range is checked by the analysis.
func (c *Config) Thresholds() (analysis.Thresholds, error) {
	th := analysis.Thresholds{Limit1: c.Time.Limit1, Limit2: c.Time.Limit2}
	if th.Limit1 <= 0 || th.Limit2 <= 0 {
		return th, fmt.Errorf("%w: time.limit1 and time.limit2 must both be set (got %d, %d)",
			analysis.ErrConfiguration, th.Limit1, th.Limit2)
	}
	if th.Limit1 >= th.Limit2 {
		return th, fmt.Errorf("%w: time.limit1 (%d) must be less than time.limit2 (%d)",
			analysis.ErrConfiguration, th.Limit1, th.Limit2)
	}
	return th, nil
}

// ValidateCollect checks the collector settings.
func (c *Config) ValidateCollect() error {
	cc := c.Collect
	var errs []error
	if cc.StartN <= 0 || cc.EndN < cc.StartN {
		errs = append(errs, fmt.Errorf("collect: need 0 < start_n <= end_n, got %d..%d", cc.StartN, cc.EndN))
	}
	if cc.Step <= 0 {
		errs = append(errs, fmt.Errorf("collect: step must be positive, got %d", cc.Step))
	}
	if cc.Repeat < 1 {
		errs = append(errs, fmt.Errorf("collect: repeat must be at least 1, got %d", cc.Repeat))
	}
	if cc.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("collect: batch_size must be at least 1, got %d", cc.BatchSize))
	}
	for _, n := range cc.SpaceScales {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("collect: space scale %d must be positive", n))
		}
	}
	return errors.Join(errs...)
}
