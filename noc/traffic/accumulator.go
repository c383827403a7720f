// Package traffic accumulates the bytes a simulated node sends to each of
// its peers. It is a modeling device for network traffic analysis, keyed by
// an integer rank, with no notion of time or topology.
package traffic

import "sort"

// An Entry is the byte count accumulated toward one destination rank.
type Entry struct {
	Dst    int
	NBytes uint64
}

// An Accumulator counts bytes sent per destination rank.
type Accumulator struct {
	rank      int
	destBytes map[int]uint64
}

// NewAccumulator creates an Accumulator for the node with the given rank.
// Rank -1 stands for a not-yet-assigned rank.
func NewAccumulator(rank int) *Accumulator {
	return &Accumulator{
		rank:      rank,
		destBytes: make(map[int]uint64),
	}
}

// Rank returns the rank of the accumulating node.
func (a *Accumulator) Rank() int {
	return a.rank
}

// SetRank assigns the rank of the accumulating node.
func (a *Accumulator) SetRank(rank int) {
	a.rank = rank
}

// SendTo records nBytes sent to the destination rank dst.
func (a *Accumulator) SendTo(dst int, nBytes uint64) {
	a.destBytes[dst] += nBytes
}

// TotalBytes returns the bytes sent to all destinations.
func (a *Accumulator) TotalBytes() uint64 {
	total := uint64(0)
	for _, n := range a.destBytes {
		total += n
	}

	return total
}

// Entries returns the per-destination counts sorted by destination rank.
func (a *Accumulator) Entries() []Entry {
	entries := make([]Entry, 0, len(a.destBytes))
	for dst, n := range a.destBytes {
		entries = append(entries, Entry{Dst: dst, NBytes: n})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Dst < entries[j].Dst
	})

	return entries
}

// ZeroStatsCounters discards all accumulated counts.
func (a *Accumulator) ZeroStatsCounters() {
	a.destBytes = make(map[int]uint64)
}
