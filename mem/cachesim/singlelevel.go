package cachesim

import (
	"github.com/sarchlab/cachesim/mem/addressmapping"
)

// AllocationPolicy selects which misses bring a line into the cache.
type AllocationPolicy int

const (
	// AllocateAlways allocates a line on every miss.
	AllocateAlways AllocationPolicy = iota

	// AllocateOnWriteOnly allocates a line only on write misses. A pure
	// read stream never occupies a line, which models a write-only or
	// streaming buffer.
	AllocateOnWriteOnly
)

// A SingleLevelCache models one banked, set-associative cache level with
// LRU replacement. It is driven one access at a time and accumulates
// hit/miss statistics and a ledger of the backing-memory traffic it would
// generate.
//
// A SingleLevelCache is not safe for concurrent use. Banks partition the
// modeled capacity, not the simulator; a caller that drives one instance
// from multiple goroutines must supply its own synchronization.
type SingleLevelCache struct {
	name         string
	log2LineSize uint64
	policy       AllocationPolicy

	level  *level
	stats  Stats
	ledger *TrafficLedger
}

// Access simulates one memory access at addr. It never fails: any address
// maps to some (bank, set) partition.
func (c *SingleLevelCache) Access(addr uint64, isWrite bool) {
	line := addressmapping.AddrToLine(addr, c.log2LineSize)
	allocate := c.policy == AllocateAlways || isWrite

	res := c.level.touch(line, allocate)

	if res.Evicted {
		c.stats.Evictions++
		c.ledger.RecordWrite(res.Victim)
	}

	if !res.Hit && !isWrite {
		c.ledger.RecordRead(uint64(line))
	}

	switch {
	case !isWrite && res.Hit:
		c.stats.ReadHits++
	case !isWrite:
		c.stats.ReadMisses++
	case res.Hit:
		c.stats.WriteHits++
	default:
		c.stats.WriteMisses++
	}
}

// Name returns the name of the cache.
func (c *SingleLevelCache) Name() string {
	return c.name
}

// Log2LineSize returns the base-2 logarithm of the configured line size.
func (c *SingleLevelCache) Log2LineSize() uint64 {
	return c.log2LineSize
}

// ComputeStats derives the percentage fields from the raw counters. It is
// idempotent and safe to call multiple times.
func (c *SingleLevelCache) ComputeStats() {
	c.stats.Compute()
}

// GetStats returns the current counters. The returned value aliases live
// state: it changes as the cache is accessed, and the derived fields are
// only valid after ComputeStats.
func (c *SingleLevelCache) GetStats() *Stats {
	return &c.stats
}

// Ledger returns the backing-memory traffic ledger of the cache.
func (c *SingleLevelCache) Ledger() *TrafficLedger {
	return c.ledger
}

// ZeroStatsCounters resets all counters and the ledger while leaving the
// resident lines untouched. It marks the end of a warmup phase: subsequent
// accesses to lines that were resident before the reset still hit.
func (c *SingleLevelCache) ZeroStatsCounters() {
	c.stats = Stats{}
	c.ledger.Reset()
}

// SingleLevelBuilder builds single-level caches.
type SingleLevelBuilder struct {
	numLines      uint64
	numWays       uint64
	numBanks      uint64
	lineSizeBytes uint64
	policy        AllocationPolicy
}

// MakeSingleLevelBuilder creates a builder with the default configuration:
// 1024 lines, 4 ways, 1 bank, 64-byte lines, allocating on every miss.
func MakeSingleLevelBuilder() SingleLevelBuilder {
	return SingleLevelBuilder{
		numLines:      1024,
		numWays:       4,
		numBanks:      1,
		lineSizeBytes: 64,
		policy:        AllocateAlways,
	}
}

// WithNumLines sets the total number of lines of the cache.
func (b SingleLevelBuilder) WithNumLines(numLines uint64) SingleLevelBuilder {
	b.numLines = numLines
	return b
}

// WithNumWays sets the associativity of the cache.
func (b SingleLevelBuilder) WithNumWays(numWays uint64) SingleLevelBuilder {
	b.numWays = numWays
	return b
}

// WithNumBanks sets the number of banks the cache is partitioned into.
func (b SingleLevelBuilder) WithNumBanks(numBanks uint64) SingleLevelBuilder {
	b.numBanks = numBanks
	return b
}

// WithLineSizeBytes sets the line size. It must be a power of two.
func (b SingleLevelBuilder) WithLineSizeBytes(
	lineSizeBytes uint64,
) SingleLevelBuilder {
	b.lineSizeBytes = lineSizeBytes
	return b
}

// WithAllocationPolicy sets which misses allocate a line.
func (b SingleLevelBuilder) WithAllocationPolicy(
	policy AllocationPolicy,
) SingleLevelBuilder {
	b.policy = policy
	return b
}

// Build builds a single-level cache. It panics if the configuration
// violates the divisibility invariants.
func (b SingleLevelBuilder) Build(name string) *SingleLevelCache {
	return &SingleLevelCache{
		name:         name,
		log2LineSize: addressmapping.Log2(b.lineSizeBytes),
		policy:       b.policy,
		level:        newLevel(b.numLines, b.numWays, b.numBanks),
		ledger:       NewTrafficLedger(),
	}
}
