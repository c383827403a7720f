// Package histogram counts reads and writes at word granularity. Unlike the
// cache models, it tracks every access, hit or miss, so it reports what the
// program touched rather than what reached backing memory. It shares the
// binary ledger dump contract of the cache traffic ledgers.
package histogram

import (
	"github.com/sarchlab/cachesim/mem/addressmapping"
	"github.com/sarchlab/cachesim/mem/cachesim"
)

// A Counter is a per-word read/write histogram.
type Counter struct {
	log2WordSize uint64
	counts       *cachesim.TrafficLedger
}

// NewCounter creates a Counter for the given word size. It panics if
// wordSizeBytes is not a power of two.
func NewCounter(wordSizeBytes uint64) *Counter {
	return &Counter{
		log2WordSize: addressmapping.Log2(wordSizeBytes),
		counts:       cachesim.NewTrafficLedger(),
	}
}

// Access records one access to the word that holds addr.
func (c *Counter) Access(addr uint64, isWrite bool) {
	word := addr >> c.log2WordSize

	if isWrite {
		c.counts.RecordWrite(word)
	} else {
		c.counts.RecordRead(word)
	}
}

// Entries returns the recorded per-word counts sorted by word address.
func (c *Counter) Entries() []cachesim.LedgerEntry {
	return c.counts.Entries()
}

// Len returns the number of distinct words recorded.
func (c *Counter) Len() int {
	return c.counts.Len()
}

// ZeroStatsCounters discards all recorded counts.
func (c *Counter) ZeroStatsCounters() {
	c.counts.Reset()
}
