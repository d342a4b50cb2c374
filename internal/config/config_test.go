package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user/complexity_analyzer_go/internal/analysis"
	"github.com/user/complexity_analyzer_go/internal/parser"
)

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "skiplist.yaml"))
	require.NoError(t, err)

	th, err := cfg.Thresholds()
	require.NoError(t, err)
	require.Equal(t, analysis.Thresholds{Limit1: 550000, Limit2: 1350000}, th)
	require.Equal(t, []string{parser.ColumnInsertTime, parser.ColumnSearchTime}, cfg.Time.Metrics)
	require.Equal(t, "complexity_report.pdf", cfg.Report.PDF)
	require.NoError(t, cfg.ValidateCollect())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("time:\n  limit1: 10\n  limit2: 20\n"))
	require.NoError(t, err)
	require.Equal(t, parser.ColumnMemoryMB, cfg.Space.Metric)
	require.Equal(t, 0.05, cfg.Space.LinearTolerance)
	require.Equal(t, "out", cfg.Report.OutputDir)
	require.Empty(t, cfg.Report.PDF)
	require.Equal(t, 3, cfg.Collect.Repeat)
	require.Len(t, cfg.Collect.SpaceScales, 9)
}

func TestThresholds(t *testing.T) {
	tests := []struct {
		name           string
		limit1, limit2 int
		wantErr        bool
	}{
		{"valid", 10, 20, false},
		{"unset", 0, 0, true},
		{"equal", 500, 500, true},
		{"reversed", 20, 10, true},
		{"negative", -5, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Time.Limit1, cfg.Time.Limit2 = tt.limit1, tt.limit2
			_, err := cfg.Thresholds()
			if tt.wantErr {
				require.ErrorIs(t, err, analysis.ErrConfiguration)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateCollect(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ValidateCollect())

	cfg.Collect.Step = 0
	cfg.Collect.Repeat = 0
	cfg.Collect.SpaceScales = []int{100, -1}
	err := cfg.ValidateCollect()
	require.Error(t, err)
	require.Contains(t, err.Error(), "step")
	require.Contains(t, err.Error(), "repeat")
	require.Contains(t, err.Error(), "space scale")
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Time.Limit1, cfg.Time.Limit2 = 100, 200
	data, err := cfg.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	back, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Parse([]byte("time: [not, a, map]"))
	require.Error(t, err)
}
