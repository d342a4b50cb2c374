package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

const smallTimeCSV = `N,InsertTime,SearchTime
100,0.5,0.25
200,1.0,0.75

300,1.5,1.25
`

func TestReadSeries(t *testing.T) {
	s, err := ReadSeries(strings.NewReader(smallTimeCSV), "small")
	require.NoError(t, err)
	require.Equal(t, []string{ColumnInsertTime, ColumnSearchTime}, s.Columns)
	require.Equal(t, 3, s.Len())
	require.Equal(t, Measurement{N: 300, Values: []float64{1.5, 1.25}}, s.Measurements[2])

	pts, err := s.Metric(ColumnSearchTime)
	require.NoError(t, err)
	require.Equal(t, []Point{{100, 0.25}, {200, 0.75}, {300, 1.25}}, pts)

	_, err = s.Metric("MemoryMB")
	require.Error(t, err)
}

func TestReadSeries_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"wrong first":    "Size,Time\n1,2\n",
		"no metrics":     "N\n1\n",
		"bad N":          "N,T\nx,1\n",
		"bad value":      "N,T\n1,abc\n",
		"not ascending":  "N,T\n2,1\n1,1\n",
		"duplicate N":    "N,T\n1,1\n1,2\n",
		"negative N":     "N,T\n-1,1\n",
		"short row":      "N,T,U\n1,1\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSeries(strings.NewReader(input), name)
			require.Error(t, err)
		})
	}
}

func TestReadSeries_HeaderOnly(t *testing.T) {
	s, err := ReadSeries(strings.NewReader("N,MemoryMB\n"), "hdr")
	require.NoError(t, err)
	require.Zero(t, s.Len())
	require.Len(t, s.ParseErrors, 1)
}

func TestWriteSeriesRoundTrip(t *testing.T) {
	s, err := ReadSeries(strings.NewReader(smallTimeCSV), "small")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, s))

	back, err := ReadSeries(&buf, "small")
	require.NoError(t, err)
	require.Equal(t, s.Measurements, back.Measurements)
	require.Equal(t, s.Fingerprint(), back.Fingerprint())
}

func TestFingerprint(t *testing.T) {
	a := NewSeries("a", ColumnMemoryMB)
	a.Append(1, 2)
	a.Append(10, 20)

	b := NewSeries("b", ColumnMemoryMB)
	b.Append(1, 2)
	b.Append(10, 20)
	require.Equal(t, a.Fingerprint(), b.Fingerprint(), "name must not affect fingerprint")

	b.Measurements[1].Values[0] = 20.000001
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestParseSeriesFile_Compressed(t *testing.T) {
	dir := t.TempDir()

	writers := map[string]func(*bytes.Buffer) error{
		"time.csv": func(b *bytes.Buffer) error {
			_, err := b.WriteString(smallTimeCSV)
			return err
		},
		"time.csv.gz": func(b *bytes.Buffer) error {
			w := gzip.NewWriter(b)
			if _, err := w.Write([]byte(smallTimeCSV)); err != nil {
				return err
			}
			return w.Close()
		},
		"time.csv.zst": func(b *bytes.Buffer) error {
			w, err := zstd.NewWriter(b)
			if err != nil {
				return err
			}
			if _, err := w.Write([]byte(smallTimeCSV)); err != nil {
				return err
			}
			return w.Close()
		},
		"time.csv.lz4": func(b *bytes.Buffer) error {
			w := lz4.NewWriter(b)
			if _, err := w.Write([]byte(smallTimeCSV)); err != nil {
				return err
			}
			return w.Close()
		},
	}

	for file, write := range writers {
		t.Run(file, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, write(&buf))
			path := filepath.Join(dir, file)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

			s, err := ParseSeriesFile(path)
			require.NoError(t, err)
			require.Equal(t, "time", s.Name)
			require.Equal(t, 3, s.Len())
		})
	}
}

func TestSamples(t *testing.T) {
	ts, err := SampleTimeSeries()
	require.NoError(t, err)
	require.Equal(t, 40, ts.Len())
	require.Equal(t, 50000, ts.Measurements[0].N)
	require.Equal(t, 2000000, ts.Measurements[ts.Len()-1].N)

	ss, err := SampleSpaceSeries()
	require.NoError(t, err)
	require.Equal(t, []string{ColumnMemoryMB}, ss.Columns)
	require.Equal(t, 9, ss.Len())
}

const benchOutput = `goos: linux
goarch: amd64
pkg: github.com/user/complexity_analyzer_go/internal/skiplist
BenchmarkSkipList/Insert/N=1000-8         	    5000	    200000 ns/op	   64000 B/op	    2000 allocs/op
BenchmarkSkipList/Insert/N=1000-8         	    5000	    400000 ns/op	   64000 B/op	    2000 allocs/op
BenchmarkSkipList/Search/N=1000-8         	   10000	    100000 ns/op	       0 B/op	       0 allocs/op
BenchmarkSkipList/Build/N=1000-8          	    5000	    300000 ns/op	 1048576 B/op	    2000 allocs/op
BenchmarkSkipList/Insert/N=2000-8         	    2000	    900000 ns/op	  128000 B/op	    4000 allocs/op
BenchmarkSkipList/Search/N=2000-8         	    5000	    250000 ns/op	       0 B/op	       0 allocs/op
BenchmarkSkipList/Build/N=2000-8          	    2000	    700000 ns/op	 2097152 B/op	    4000 allocs/op
BenchmarkOther-8                          	    1000	      1000 ns/op
PASS
`

func TestParseGoBench(t *testing.T) {
	s, err := ParseGoBench(strings.NewReader(benchOutput), "bench")
	require.NoError(t, err)
	require.Equal(t, []string{ColumnInsertTime, ColumnSearchTime, ColumnMemoryMB}, s.Columns)
	require.Equal(t, 2, s.Len())

	first := s.Measurements[0]
	require.Equal(t, 1000, first.N)
	require.InDelta(t, 0.0003, first.Values[0], 1e-12) // mean of 200us and 400us
	require.InDelta(t, 0.0001, first.Values[1], 1e-12)
	require.InDelta(t, 1.0, first.Values[2], 1e-12)

	require.Equal(t, 2000, s.Measurements[1].N)
	require.InDelta(t, 2.0, s.Measurements[1].Values[2], 1e-12)

	require.NotEmpty(t, s.ParseErrors, "unmatched benchmark should be reported")
}

func TestParseGoBench_NoMatches(t *testing.T) {
	_, err := ParseGoBench(strings.NewReader("BenchmarkOther-8 1000 1000 ns/op\n"), "bench")
	require.Error(t, err)
}
