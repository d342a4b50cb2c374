// Package skiplist implements the ordered index whose insert/search cost and
// memory footprint the analyzer measures.
package skiplist

import (
	"math/rand/v2"
	"unsafe"
)

const (
	// MaxLevel is the highest tower a node can have (levels 0..MaxLevel-1).
	MaxLevel = 16
	// P is the probability that a node at level i is promoted to level i+1.
	P = 0.5
)

type node struct {
	key     int64
	value   int64
	forward []*node // forward[i] is the next node on level i
}

// SkipList is an ordered int64 -> int64 map. It is not safe for concurrent use.
type SkipList struct {
	header *node
	level  int // highest level in use, 0-based
	size   int
	rng    *rand.Rand
	update [MaxLevel]*node // scratch space for Insert/Delete
}

// New returns an empty skip list whose tower heights are drawn from a PCG
// source seeded with seed.
func New(seed uint64) *SkipList {
	return &SkipList{
		header: &node{forward: make([]*node, MaxLevel)},
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *SkipList) randomLevel() int {
	lvl := 0
	for lvl < MaxLevel-1 && s.rng.Float64() < P {
		lvl++
	}
	return lvl
}

// Insert stores value under key. It returns true when a new node was created
// and false when an existing key had its value replaced.
func (s *SkipList) Insert(key, value int64) bool {
	x := s.header
	for i := s.level; i >= 0; i-- {
		for x.forward[i] != nil && x.forward[i].key < key {
			x = x.forward[i]
		}
		s.update[i] = x
	}

	if next := x.forward[0]; next != nil && next.key == key {
		next.value = value
		return false
	}

	lvl := s.randomLevel()
	if lvl > s.level {
		for i := s.level + 1; i <= lvl; i++ {
			s.update[i] = s.header
		}
		s.level = lvl
	}

	n := &node{key: key, value: value, forward: make([]*node, lvl+1)}
	for i := 0; i <= lvl; i++ {
		n.forward[i] = s.update[i].forward[i]
		s.update[i].forward[i] = n
	}
	s.size++
	return true
}

// Search returns the value stored under key.
func (s *SkipList) Search(key int64) (int64, bool) {
	x := s.header
	for i := s.level; i >= 0; i-- {
		for x.forward[i] != nil && x.forward[i].key < key {
			x = x.forward[i]
		}
	}
	x = x.forward[0]
	if x != nil && x.key == key {
		return x.value, true
	}
	return 0, false
}

// Delete removes key and reports whether it was present.
func (s *SkipList) Delete(key int64) bool {
	x := s.header
	for i := s.level; i >= 0; i-- {
		for x.forward[i] != nil && x.forward[i].key < key {
			x = x.forward[i]
		}
		s.update[i] = x
	}

	x = x.forward[0]
	if x == nil || x.key != key {
		return false
	}
	for i := 0; i <= s.level; i++ {
		if s.update[i].forward[i] != x {
			break
		}
		s.update[i].forward[i] = x.forward[i]
	}
	for s.level > 0 && s.header.forward[s.level] == nil {
		s.level--
	}
	s.size--
	return true
}

// Len returns the number of keys.
func (s *SkipList) Len() int { return s.size }

// Level returns the highest level in use (0 for an empty or flat list).
func (s *SkipList) Level() int { return s.level }

// Ascend calls fn for each key/value pair in ascending key order until fn
// returns false.
func (s *SkipList) Ascend(fn func(key, value int64) bool) {
	for x := s.header.forward[0]; x != nil; x = x.forward[0] {
		if !fn(x.key, x.value) {
			return
		}
	}
}

// AvgLevel returns the mean 0-based tower height of the stored nodes; with
// P = 0.5 it approaches 1 as the list grows.
func (s *SkipList) AvgLevel() float64 {
	if s.size == 0 {
		return 0
	}
	total := 0
	for x := s.header.forward[0]; x != nil; x = x.forward[0] {
		total += len(x.forward) - 1
	}
	return float64(total) / float64(s.size)
}

// EstimateMemory returns the bytes held by the list: the list struct, then for
// the header and every node its struct plus its forward pointer slots.
func (s *SkipList) EstimateMemory() int64 {
	const (
		listSize = int64(unsafe.Sizeof(SkipList{}))
		nodeSize = int64(unsafe.Sizeof(node{}))
		ptrSize  = int64(unsafe.Sizeof((*node)(nil)))
	)
	total := listSize
	for x := s.header; x != nil; x = x.forward[0] {
		total += nodeSize + int64(cap(x.forward))*ptrSize
	}
	return total
}
