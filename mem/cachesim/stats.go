package cachesim

// Stats aggregates the access counters of a single-level cache. The raw
// counters only ever increase between resets. The derived fields are valid
// after ComputeStats and stay cached until the next reset.
type Stats struct {
	ReadHits    uint64
	ReadMisses  uint64
	WriteHits   uint64
	WriteMisses uint64
	Evictions   uint64

	StatsComputed bool
	NumReads      uint64
	NumWrites     uint64
	NumHits       uint64
	NumMisses     uint64
	ReadHitRate   float64
	ReadMissRate  float64
	WriteHitRate  float64
	WriteMissRate float64
	EvictionRate  float64
}

// Compute derives the totals and rates from the raw counters. It is
// idempotent: calling it twice without intervening accesses yields the same
// derived values.
func (s *Stats) Compute() {
	s.NumReads = s.ReadHits + s.ReadMisses
	s.NumWrites = s.WriteHits + s.WriteMisses
	s.NumHits = s.ReadHits + s.WriteHits
	s.NumMisses = s.ReadMisses + s.WriteMisses

	if s.NumReads != 0 {
		s.ReadHitRate = float64(s.ReadHits) / float64(s.NumReads)
		s.ReadMissRate = float64(s.ReadMisses) / float64(s.NumReads)
	}

	if s.NumWrites != 0 {
		s.WriteHitRate = float64(s.WriteHits) / float64(s.NumWrites)
		s.WriteMissRate = float64(s.WriteMisses) / float64(s.NumWrites)
	}

	if s.NumMisses != 0 {
		s.EvictionRate = float64(s.Evictions) / float64(s.NumMisses)
	}

	s.StatsComputed = true
}

// HierarchyStats aggregates the access counters of a two-level cache. An L1
// miss is not counted separately: it is either an L2 hit or an L2 miss, so
// L1 misses equal L2 hits plus L2 misses by construction.
type HierarchyStats struct {
	L1ReadHits   uint64
	L2ReadHits   uint64
	L2ReadMisses uint64

	L1WriteHits   uint64
	L2WriteHits   uint64
	L2WriteMisses uint64

	StatsComputed   bool
	NumReads        uint64
	NumWrites       uint64
	L1ReadHitRate   float64
	L2ReadHitRate   float64
	L2ReadMissRate  float64
	L1WriteHitRate  float64
	L2WriteHitRate  float64
	L2WriteMissRate float64
}

// Compute derives the totals and rates from the raw counters. It is
// idempotent.
func (s *HierarchyStats) Compute() {
	s.NumReads = s.L1ReadHits + s.L2ReadHits + s.L2ReadMisses
	s.NumWrites = s.L1WriteHits + s.L2WriteHits + s.L2WriteMisses

	if s.NumReads != 0 {
		s.L1ReadHitRate = float64(s.L1ReadHits) / float64(s.NumReads)
		s.L2ReadHitRate = float64(s.L2ReadHits) / float64(s.NumReads)
		s.L2ReadMissRate = float64(s.L2ReadMisses) / float64(s.NumReads)
	}

	if s.NumWrites != 0 {
		s.L1WriteHitRate = float64(s.L1WriteHits) / float64(s.NumWrites)
		s.L2WriteHitRate = float64(s.L2WriteHits) / float64(s.NumWrites)
		s.L2WriteMissRate = float64(s.L2WriteMisses) / float64(s.NumWrites)
	}

	s.StatsComputed = true
}
