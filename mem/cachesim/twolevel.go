package cachesim

import (
	"github.com/sarchlab/cachesim/mem/addressmapping"
)

// A TwoLevelCache models an inclusive L1/L2 hierarchy. The L1 is a single
// un-banked partition; the L2 is banked. Both levels always allocate on a
// miss.
//
// Every access touches both levels, so a line that hits in L1 is also
// refreshed in L2. Inclusion is approximate: an L2 eviction is not
// propagated into L1, so a line can stay resident in L1 after it has left
// L2. Accesses to such a line still count as L1 hits.
//
// A TwoLevelCache is not safe for concurrent use.
type TwoLevelCache struct {
	name         string
	log2LineSize uint64

	l1    *level
	l2    *level
	stats HierarchyStats
}

// Access simulates one memory access at addr, touching both levels and
// classifying the result as an L1 hit, an L2 hit, or an L2 miss. An L2 miss
// stands for an access to backing memory. Access never fails.
func (c *TwoLevelCache) Access(addr uint64, isWrite bool) {
	line := addressmapping.AddrToLine(addr, c.log2LineSize)

	// Touch the L2 unconditionally so a line resident in L1 keeps its L2
	// copy warm.
	l1Hit := c.l1.touch(line, true).Hit
	l2Hit := c.l2.touch(line, true).Hit

	if !isWrite {
		switch {
		case l1Hit:
			c.stats.L1ReadHits++
		case l2Hit:
			c.stats.L2ReadHits++
		default:
			c.stats.L2ReadMisses++
		}
	} else {
		switch {
		case l1Hit:
			c.stats.L1WriteHits++
		case l2Hit:
			c.stats.L2WriteHits++
		default:
			c.stats.L2WriteMisses++
		}
	}
}

// Name returns the name of the cache.
func (c *TwoLevelCache) Name() string {
	return c.name
}

// Log2LineSize returns the base-2 logarithm of the configured line size.
func (c *TwoLevelCache) Log2LineSize() uint64 {
	return c.log2LineSize
}

// ComputeStats derives the percentage fields from the raw counters. It is
// idempotent and safe to call multiple times.
func (c *TwoLevelCache) ComputeStats() {
	c.stats.Compute()
}

// GetStats returns the current counters. The returned value aliases live
// state.
func (c *TwoLevelCache) GetStats() *HierarchyStats {
	return &c.stats
}

// ZeroStatsCounters resets all counters while leaving the resident lines of
// both levels untouched.
func (c *TwoLevelCache) ZeroStatsCounters() {
	c.stats = HierarchyStats{}
}

// TwoLevelBuilder builds two-level caches.
type TwoLevelBuilder struct {
	l1NumLines    uint64
	l1NumWays     uint64
	l2NumLines    uint64
	l2NumWays     uint64
	l2NumBanks    uint64
	lineSizeBytes uint64
}

// MakeTwoLevelBuilder creates a builder with the default configuration:
// a 512-line 8-way L1 and a 1Mi-line 8-way L2 over 64 banks, with 64-byte
// lines.
func MakeTwoLevelBuilder() TwoLevelBuilder {
	return TwoLevelBuilder{
		l1NumLines:    512,
		l1NumWays:     8,
		l2NumLines:    1 << 20,
		l2NumWays:     8,
		l2NumBanks:    64,
		lineSizeBytes: 64,
	}
}

// WithL1NumLines sets the total number of lines of the L1.
func (b TwoLevelBuilder) WithL1NumLines(numLines uint64) TwoLevelBuilder {
	b.l1NumLines = numLines
	return b
}

// WithL1NumWays sets the associativity of the L1.
func (b TwoLevelBuilder) WithL1NumWays(numWays uint64) TwoLevelBuilder {
	b.l1NumWays = numWays
	return b
}

// WithL2NumLines sets the total number of lines of the L2.
func (b TwoLevelBuilder) WithL2NumLines(numLines uint64) TwoLevelBuilder {
	b.l2NumLines = numLines
	return b
}

// WithL2NumWays sets the associativity of the L2.
func (b TwoLevelBuilder) WithL2NumWays(numWays uint64) TwoLevelBuilder {
	b.l2NumWays = numWays
	return b
}

// WithL2NumBanks sets the number of banks the L2 is partitioned into.
func (b TwoLevelBuilder) WithL2NumBanks(numBanks uint64) TwoLevelBuilder {
	b.l2NumBanks = numBanks
	return b
}

// WithLineSizeBytes sets the line size shared by both levels. It must be a
// power of two.
func (b TwoLevelBuilder) WithLineSizeBytes(
	lineSizeBytes uint64,
) TwoLevelBuilder {
	b.lineSizeBytes = lineSizeBytes
	return b
}

// Build builds a two-level cache. It panics if either level's configuration
// violates the divisibility invariants.
func (b TwoLevelBuilder) Build(name string) *TwoLevelCache {
	return &TwoLevelCache{
		name:         name,
		log2LineSize: addressmapping.Log2(b.lineSizeBytes),
		l1:           newLevel(b.l1NumLines, b.l1NumWays, 1),
		l2:           newLevel(b.l2NumLines, b.l2NumWays, b.l2NumBanks),
	}
}
