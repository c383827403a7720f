package cachesim

import "sort"

// A LedgerEntry is the per-address record of backing-memory traffic: how
// many fetches (reads) and write-backs (writes) the simulation attributed
// to one aligned block of memory.
type LedgerEntry struct {
	Address uint64
	NReads  int64
	NWrites int64
}

// A TrafficLedger counts fetch and write-back events per address. It grows
// with the footprint of the simulated program until reset.
type TrafficLedger struct {
	counts map[uint64]*LedgerEntry
}

// NewTrafficLedger creates an empty TrafficLedger.
func NewTrafficLedger() *TrafficLedger {
	return &TrafficLedger{
		counts: make(map[uint64]*LedgerEntry),
	}
}

// RecordRead attributes one fetch-from-memory event to addr.
func (l *TrafficLedger) RecordRead(addr uint64) {
	l.entry(addr).NReads++
}

// RecordWrite attributes one write-back event to addr.
func (l *TrafficLedger) RecordWrite(addr uint64) {
	l.entry(addr).NWrites++
}

func (l *TrafficLedger) entry(addr uint64) *LedgerEntry {
	e, ok := l.counts[addr]
	if !ok {
		e = &LedgerEntry{Address: addr}
		l.counts[addr] = e
	}

	return e
}

// Len returns the number of distinct addresses recorded.
func (l *TrafficLedger) Len() int {
	return len(l.counts)
}

// Counts returns the recorded reads and writes for addr.
func (l *TrafficLedger) Counts(addr uint64) (nReads, nWrites int64) {
	e, ok := l.counts[addr]
	if !ok {
		return 0, 0
	}

	return e.NReads, e.NWrites
}

// Entries returns all recorded entries sorted by address. Sorting keeps
// dumps reproducible across runs.
func (l *TrafficLedger) Entries() []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(l.counts))
	for _, e := range l.counts {
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Address < entries[j].Address
	})

	return entries
}

// Reset discards all recorded entries.
func (l *TrafficLedger) Reset() {
	l.counts = make(map[uint64]*LedgerEntry)
}
