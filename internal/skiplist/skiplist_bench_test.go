package skiplist

import (
	"fmt"
	"testing"
)

var benchSizes = []int{1000, 10000, 100000}

func benchKeys(n int) []int64 {
	keys := make([]int64, n)
	x := uint64(0x2545F4914F6CDD1D)
	for i := range keys {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		keys[i] = int64(x >> 1)
	}
	return keys
}

// BenchmarkSkipList emits Insert/Search/Build sub-benchmarks named
// <Op>/N=<n>, one op being a whole batch of n operations. Its -benchmem
// output can be fed to `complexity_analyzer analyze -bench`.
func BenchmarkSkipList(b *testing.B) {
	for _, n := range benchSizes {
		keys := benchKeys(n)

		b.Run(fmt.Sprintf("Insert/N=%d", n), func(b *testing.B) {
			for range b.N {
				s := New(1)
				for i, k := range keys {
					s.Insert(k, int64(i))
				}
			}
		})

		b.Run(fmt.Sprintf("Search/N=%d", n), func(b *testing.B) {
			s := New(1)
			for i, k := range keys {
				s.Insert(k, int64(i))
			}
			b.ResetTimer()
			for range b.N {
				for _, k := range keys {
					s.Search(k)
				}
			}
		})

		b.Run(fmt.Sprintf("Build/N=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				s := New(1)
				for i, k := range keys {
					s.Insert(k, int64(i))
				}
			}
		})
	}
}
