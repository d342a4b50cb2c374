package skiplist

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertSearchOrder(t *testing.T) {
	s := New(42)
	rng := rand.New(rand.NewPCG(1, 2))
	want := make(map[int64]int64)
	for i := range 100 {
		k := rng.Int64N(1000)
		s.Insert(k, int64(i))
		want[k] = int64(i)
	}
	require.Equal(t, len(want), s.Len())

	for k, v := range want {
		got, ok := s.Search(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, v, got)
	}

	prev := int64(-1)
	count := 0
	s.Ascend(func(k, _ int64) bool {
		require.Greater(t, k, prev)
		prev = k
		count++
		return true
	})
	require.Equal(t, s.Len(), count)
}

func TestInsertUpdatesExisting(t *testing.T) {
	s := New(1)
	require.True(t, s.Insert(50, 1))
	require.False(t, s.Insert(50, 2))
	require.Equal(t, 1, s.Len())
	v, ok := s.Search(50)
	require.True(t, ok)
	require.Equal(t, int64(2), v)
}

func TestSearchMissing(t *testing.T) {
	s := New(1)
	for k := int64(0); k < 100; k += 10 {
		s.Insert(k, k)
	}
	for _, k := range []int64{101, -1, 5, 95} {
		_, ok := s.Search(k)
		require.False(t, ok, "key %d", k)
	}
}

func TestDelete(t *testing.T) {
	s := New(7)
	keys := []int64{30, 10, 50, 20, 40, 60, 70, 80, 90, 100}
	for _, k := range keys {
		s.Insert(k, k*10)
	}

	require.True(t, s.Delete(30))
	_, ok := s.Search(30)
	require.False(t, ok)
	require.Equal(t, len(keys)-1, s.Len())

	require.False(t, s.Delete(999))
	require.Equal(t, len(keys)-1, s.Len())

	for _, k := range keys {
		s.Delete(k)
	}
	require.Zero(t, s.Len())
	require.Zero(t, s.Level())
	require.Zero(t, s.AvgLevel())
	s.Ascend(func(_, _ int64) bool {
		t.Fatal("list should be empty")
		return false
	})
}

func TestAscendStopsEarly(t *testing.T) {
	s := New(3)
	for k := range int64(10) {
		s.Insert(k, k)
	}
	var seen []int64
	s.Ascend(func(k, _ int64) bool {
		seen = append(seen, k)
		return len(seen) < 3
	})
	require.Equal(t, []int64{0, 1, 2}, seen)
}

func TestSeedDeterminism(t *testing.T) {
	a, b := New(99), New(99)
	for k := range int64(2000) {
		a.Insert(k, k)
		b.Insert(k, k)
	}
	require.Equal(t, a.Level(), b.Level())
	require.Equal(t, a.AvgLevel(), b.AvgLevel())
	require.Equal(t, a.EstimateMemory(), b.EstimateMemory())
}

func TestAvgLevelAndMemory(t *testing.T) {
	s := New(5)
	empty := s.EstimateMemory()
	for k := range int64(20000) {
		s.Insert(k, k)
	}
	// Geometric tower heights with P = 0.5 have mean 1.
	require.InDelta(t, 1.0, s.AvgLevel(), 0.1)
	require.Less(t, s.Level(), MaxLevel)
	require.Greater(t, s.EstimateMemory(), empty)

	perNode := float64(s.EstimateMemory()-empty) / float64(s.Len())
	s2 := New(5)
	for k := range int64(40000) {
		s2.Insert(k, k)
	}
	perNode2 := float64(s2.EstimateMemory()-empty) / float64(s2.Len())
	require.InEpsilon(t, perNode, perNode2, 0.05, "memory grows linearly in N")
}
