package parser

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"

	"golang.org/x/tools/benchmark/parse"
)

const bytesPerMB = 1024 * 1024

// benchNameRe matches sub-benchmarks named Benchmark<Name>/<Op>/N=<n>, with
// the optional -GOMAXPROCS suffix the testing package appends.
var benchNameRe = regexp.MustCompile(`^Benchmark\w*/(\w+)/N=(\d+)(?:-\d+)?$`)

// benchOps maps a sub-benchmark operation to the series column it feeds.
var benchOps = map[string]string{
	"Insert": ColumnInsertTime,
	"Search": ColumnSearchTime,
	"Build":  ColumnMemoryMB,
}

// benchColumnOrder fixes column order independently of map iteration.
var benchColumnOrder = []string{ColumnInsertTime, ColumnSearchTime, ColumnMemoryMB}

// ParseGoBenchFile reads `go test -bench` output from a file.
func ParseGoBenchFile(path string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark file: %w", err)
	}
	defer file.Close()

	r, closeFn, err := decompressingReader(file, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer closeFn()

	return ParseGoBench(r, seriesNameFromPath(path))
}

// ParseGoBench converts `go test -bench -benchmem` output into a Series.
// Insert and Search ns/op become seconds per batch of N operations; Build B/op
// becomes MemoryMB. Repeated runs (-count) of the same benchmark are averaged.
func ParseGoBench(r io.Reader, name string) (*Series, error) {
	set, err := parse.ParseSet(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse benchmark output: %w", err)
	}

	type acc struct {
		sum   float64
		count int
	}
	rows := make(map[int]map[string]*acc)
	seenCols := make(map[string]bool)

	benchNames := make([]string, 0, len(set))
	for benchName := range set {
		benchNames = append(benchNames, benchName)
	}
	slices.Sort(benchNames)

	var warnings []string
	for _, benchName := range benchNames {
		match := benchNameRe.FindStringSubmatch(benchName)
		if match == nil {
			warnings = append(warnings, fmt.Sprintf("Warning: benchmark %q does not match <Name>/<Op>/N=<n>, skipped.", benchName))
			continue
		}
		col, ok := benchOps[match[1]]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Warning: benchmark %q has unknown operation %q, skipped.", benchName, match[1]))
			continue
		}
		n, err := strconv.Atoi(match[2])
		if err != nil {
			return nil, fmt.Errorf("benchmark %q: invalid N: %w", benchName, err)
		}

		for _, b := range set[benchName] {
			var v float64
			if col == ColumnMemoryMB {
				if b.Measured&parse.AllocedBytesPerOp == 0 {
					return nil, fmt.Errorf("benchmark %q has no B/op; run with -benchmem", benchName)
				}
				v = float64(b.AllocedBytesPerOp) / bytesPerMB
			} else {
				v = b.NsPerOp / 1e9
			}
			if rows[n] == nil {
				rows[n] = make(map[string]*acc)
			}
			a := rows[n][col]
			if a == nil {
				a = &acc{}
				rows[n][col] = a
			}
			a.sum += v
			a.count++
			seenCols[col] = true
		}
	}

	columns := make([]string, 0, len(benchColumnOrder))
	for _, c := range benchColumnOrder {
		if seenCols[c] {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("benchmark output %q contains no recognized benchmarks", name)
	}

	ns := make([]int, 0, len(rows))
	for n := range rows {
		ns = append(ns, n)
	}
	slices.Sort(ns)

	series := NewSeries(name, columns...)
	series.ParseErrors = append(series.ParseErrors, warnings...)
	for _, n := range ns {
		values := make([]float64, 0, len(columns))
		for _, c := range columns {
			a := rows[n][c]
			if a == nil {
				break
			}
			values = append(values, a.sum/float64(a.count))
		}
		if len(values) != len(columns) {
			series.ParseErrors = append(series.ParseErrors, fmt.Sprintf("Warning: N=%d is missing some of %v, row dropped.", n, columns))
			continue
		}
		series.Append(n, values...)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
