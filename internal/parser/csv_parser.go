package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseSeriesFile reads a measurement table from a CSV file. Files ending in
// .gz, .zst or .lz4 are decompressed on the fly.
func ParseSeriesFile(path string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	r, closeFn, err := decompressingReader(file, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer closeFn()

	return ReadSeries(r, seriesNameFromPath(path))
}

// ReadSeries parses a CSV table whose header row is "N,<metric>,...".
// Blank rows are skipped. A row that cannot be parsed is a fatal error: a
// half-read series would silently change the fitted coefficients.
func ReadSeries(r io.Reader, name string) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}

	headerIdx := -1
	for i, row := range allRows {
		if isBlankRow(row) {
			continue
		}
		headerIdx = i
		break
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("CSV %q has no header row", name)
	}

	header := allRows[headerIdx]
	if strings.TrimSpace(header[0]) != ColumnN {
		return nil, fmt.Errorf("CSV %q: first column must be %q, got %q", name, ColumnN, header[0])
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("CSV %q: header has no metric columns", name)
	}
	columns := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		columns = append(columns, strings.TrimSpace(h))
	}

	series := NewSeries(name, columns...)
	for rowIdx := headerIdx + 1; rowIdx < len(allRows); rowIdx++ {
		row := allRows[rowIdx]
		if isBlankRow(row) {
			continue
		}
		if len(row) != len(header) {
			return nil, fmt.Errorf("CSV %q row %d: expected %d fields, found %d", name, rowIdx+1, len(header), len(row))
		}

		n, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("CSV %q row %d: invalid N %q: %w", name, rowIdx+1, row[0], err)
		}
		values := make([]float64, len(columns))
		for i, cell := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("CSV %q row %d: invalid %s value %q: %w", name, rowIdx+1, columns[i], cell, err)
			}
			values[i] = v
		}
		series.Append(n, values...)
	}

	if series.Len() == 0 {
		series.ParseErrors = append(series.ParseErrors, fmt.Sprintf("Warning: CSV %q contains a header but no measurements.", name))
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// WriteSeries writes a series as CSV with an "N" column first.
func WriteSeries(w io.Writer, s *Series) error {
	writer := csv.NewWriter(w)
	header := append([]string{ColumnN}, s.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(header))
	for _, m := range s.Measurements {
		record[0] = strconv.Itoa(m.N)
		for i, v := range m.Values {
			record[i+1] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row N=%d: %w", m.N, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func seriesNameFromPath(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".zst", ".lz4", ".csv"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
