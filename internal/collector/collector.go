// Package collector benchmarks the skip list at increasing element counts
// and produces the measurement tables consumed by the analyzer.
package collector

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cespare/xxhash/v2"
	"k8s.io/klog/v2"

	"github.com/user/complexity_analyzer_go/internal/config"
	"github.com/user/complexity_analyzer_go/internal/parser"
	"github.com/user/complexity_analyzer_go/internal/skiplist"
)

const bytesPerMB = 1024 * 1024

// Latency histogram range in ns per search op.
const (
	minLatencyNs = 1
	maxLatencyNs = 100_000_000
	sigFigs      = 3
)

// Keys returns n pseudo-random keys derived from seed. The same (seed, n)
// always yields the same keys, so repeated collections time the same inserts.
func Keys(seed uint64, n int) []int64 {
	keys := make([]int64, n)
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	for i := range keys {
		binary.LittleEndian.PutUint64(buf[8:], uint64(i))
		keys[i] = int64(xxhash.Sum64(buf[:]) >> 1)
	}
	return keys
}

// CollectTime measures total insert and search time for N = StartN..EndN in
// steps of Step, averaging Repeat runs per N. Each run builds a fresh list,
// inserts N keys, then searches for each of them once.
func CollectTime(ctx context.Context, cfg config.CollectConfig) (*parser.Series, error) {
	series := parser.NewSeries("skiplist_time", parser.ColumnInsertTime, parser.ColumnSearchTime)
	batch := max(cfg.BatchSize, 1)

	for n := cfg.StartN; n <= cfg.EndN; n += cfg.Step {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("time collection interrupted at N=%d: %w", n, err)
		}

		hist := hdrhistogram.New(minLatencyNs, maxLatencyNs, sigFigs)
		var insertTotal, searchTotal time.Duration
		for r := range cfg.Repeat {
			seed := cfg.Seed + uint64(r)
			keys := Keys(seed, n)
			list := skiplist.New(seed)

			start := time.Now()
			for i, k := range keys {
				list.Insert(k, int64(i))
			}
			insertTotal += time.Since(start)

			searchStart := time.Now()
			batchStart := searchStart
			for i, k := range keys {
				list.Search(k)
				if (i+1)%batch == 0 {
					now := time.Now()
					_ = hist.RecordValue(now.Sub(batchStart).Nanoseconds() / int64(batch))
					batchStart = now
				}
			}
			searchTotal += time.Since(searchStart)
		}

		repeat := float64(cfg.Repeat)
		series.Append(n, insertTotal.Seconds()/repeat, searchTotal.Seconds()/repeat)
		klog.V(1).Infof("N=%d insert=%.6fs search=%.6fs", n, insertTotal.Seconds()/repeat, searchTotal.Seconds()/repeat)
		if hist.TotalCount() > 0 {
			klog.V(2).Infof("N=%d search latency p50=%dns p99=%dns max=%dns over %d batches",
				n, hist.ValueAtQuantile(50), hist.ValueAtQuantile(99), hist.Max(), hist.TotalCount())
		}
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// CollectSpace builds a list at each of SpaceScales and records its estimated
// memory in MB and its average tower height.
func CollectSpace(ctx context.Context, cfg config.CollectConfig) (*parser.Series, error) {
	series := parser.NewSeries("skiplist_space", parser.ColumnMemoryMB, parser.ColumnAvgLevel)

	for _, n := range cfg.SpaceScales {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("space collection interrupted at N=%d: %w", n, err)
		}
		list := skiplist.New(cfg.Seed)
		for i, k := range Keys(cfg.Seed, n) {
			list.Insert(k, int64(i))
		}
		mb := float64(list.EstimateMemory()) / bytesPerMB
		series.Append(n, mb, list.AvgLevel())
		klog.V(1).Infof("N=%d memory=%.4fMB avg level=%.2f", n, mb, list.AvgLevel())
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
