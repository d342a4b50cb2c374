package parser

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Column names recognized in measurement tables.
const (
	ColumnN          = "N"
	ColumnInsertTime = "InsertTime"
	ColumnSearchTime = "SearchTime"
	ColumnMemoryMB   = "MemoryMB"
	ColumnAvgLevel   = "AvgLevel"
)

// Measurement is one row of a benchmark table: the element count N and the
// metrics measured at that size, in column order.
type Measurement struct {
	N      int
	Values []float64
}

// Series is an ordered measurement table, sorted ascending by N with unique N.
// It is read-only once loaded.
type Series struct {
	Name         string
	Columns      []string // metric column names, excluding N
	Measurements []Measurement
	ParseErrors  []string // non-fatal issues found while loading
}

// Point is a single (N, metric) pair taken from a Series.
type Point struct {
	N     int
	Value float64
}

// NewSeries returns an empty series with the given metric columns.
func NewSeries(name string, columns ...string) *Series {
	return &Series{
		Name:         name,
		Columns:      columns,
		Measurements: make([]Measurement, 0),
		ParseErrors:  make([]string, 0),
	}
}

// Len returns the number of measurements.
func (s *Series) Len() int {
	return len(s.Measurements)
}

// Column returns the index of the named metric column.
func (s *Series) Column(name string) (int, error) {
	for i, c := range s.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("series %q has no column %q (have %v)", s.Name, name, s.Columns)
}

// Metric returns the (N, value) pairs of one metric column in series order.
func (s *Series) Metric(name string) ([]Point, error) {
	col, err := s.Column(name)
	if err != nil {
		return nil, err
	}
	pts := make([]Point, 0, len(s.Measurements))
	for i, m := range s.Measurements {
		if col >= len(m.Values) {
			return nil, fmt.Errorf("series %q row %d (N=%d) has no value for %q", s.Name, i+1, m.N, name)
		}
		pts = append(pts, Point{N: m.N, Value: m.Values[col]})
	}
	return pts, nil
}

// Append adds a measurement. Ordering is checked by Validate, not here.
func (s *Series) Append(n int, values ...float64) {
	s.Measurements = append(s.Measurements, Measurement{N: n, Values: values})
}

// Validate checks that N is non-negative, strictly ascending (therefore unique)
// and that every row carries one value per column.
func (s *Series) Validate() error {
	for i, m := range s.Measurements {
		if m.N < 0 {
			return fmt.Errorf("series %q row %d: negative N %d", s.Name, i+1, m.N)
		}
		if len(m.Values) != len(s.Columns) {
			return fmt.Errorf("series %q row %d (N=%d): expected %d values, found %d", s.Name, i+1, m.N, len(s.Columns), len(m.Values))
		}
		if i > 0 && m.N <= s.Measurements[i-1].N {
			return fmt.Errorf("series %q row %d: N=%d is not greater than previous N=%d", s.Name, i+1, m.N, s.Measurements[i-1].N)
		}
	}
	return nil
}

// Fingerprint hashes the column names, N values and metric bits of the series.
// Two series with the same fingerprint produce identical fits.
func (s *Series) Fingerprint() uint64 {
	d := xxhash.New()
	for _, c := range s.Columns {
		_, _ = d.WriteString(c)
		_, _ = d.Write([]byte{0})
	}
	var buf [8]byte
	for _, m := range s.Measurements {
		binary.LittleEndian.PutUint64(buf[:], uint64(m.N))
		_, _ = d.Write(buf[:])
		for _, v := range m.Values {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = d.Write(buf[:])
		}
	}
	return d.Sum64()
}
