package parser

import (
	"bytes"
	"embed"
	"fmt"
)

// Reference skip list measurements: averaged insert/search seconds for
// N = 50k..2M, and estimated memory for N = 1k..500k.
//
//go:embed samples/*.csv
var sampleFS embed.FS

const (
	sampleTimeFile  = "samples/skiplist_time.csv"
	sampleSpaceFile = "samples/skiplist_space.csv"
)

// SampleTimeSeries returns the embedded N,InsertTime,SearchTime reference table.
func SampleTimeSeries() (*Series, error) {
	return readSample(sampleTimeFile, "skiplist_time")
}

// SampleSpaceSeries returns the embedded N,MemoryMB reference table.
func SampleSpaceSeries() (*Series, error) {
	return readSample(sampleSpaceFile, "skiplist_space")
}

func readSample(file, name string) (*Series, error) {
	data, err := sampleFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded sample %s: %w", file, err)
	}
	return ReadSeries(bytes.NewReader(data), name)
}
