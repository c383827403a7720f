package cachesim

import (
	"fmt"

	"github.com/sarchlab/cachesim/mem/addressmapping"
	"github.com/sarchlab/cachesim/mem/cachesim/internal/lruset"
)

// A level is one cache level: a bank-by-set grid of LRU sets. An un-banked
// level is a level with a single bank.
type level struct {
	numBanks    uint64
	setsPerBank uint64
	numWays     uint64
	sets        [][]*lruset.Set
}

func newLevel(numLines, numWays, numBanks uint64) *level {
	mustHaveValidGeometry(numLines, numWays, numBanks)

	l := &level{
		numBanks:    numBanks,
		setsPerBank: numLines / numBanks / numWays,
		numWays:     numWays,
	}

	l.sets = make([][]*lruset.Set, numBanks)
	for b := range l.sets {
		l.sets[b] = make([]*lruset.Set, l.setsPerBank)
		for s := range l.sets[b] {
			l.sets[b][s] = lruset.New(int(numWays))
		}
	}

	return l
}

func mustHaveValidGeometry(numLines, numWays, numBanks uint64) {
	if numWays == 0 {
		panic("a cache level must have at least one way")
	}

	if numBanks == 0 {
		panic("a cache level must have at least one bank")
	}

	if numLines%numWays != 0 {
		panic(fmt.Sprintf(
			"the number of lines (%d) must be a multiple of the number of ways (%d)",
			numLines, numWays))
	}

	if numLines%numBanks != 0 {
		panic(fmt.Sprintf(
			"the number of lines (%d) must be a multiple of the number of banks (%d)",
			numLines, numBanks))
	}

	setsPerBank := numLines / numBanks / numWays
	if setsPerBank == 0 {
		panic(fmt.Sprintf(
			"%d lines split over %d banks of %d ways leaves no sets",
			numLines, numBanks, numWays))
	}

	if setsPerBank&(setsPerBank-1) != 0 {
		panic(fmt.Sprintf(
			"the number of sets per bank must be a power of two, got %d",
			setsPerBank))
	}
}

// touch routes line to its (bank, set) partition and touches it there.
func (l *level) touch(line addressmapping.LineAddress, allocate bool) lruset.Result {
	set := addressmapping.SetIndex(line, l.setsPerBank)
	bank := addressmapping.BankIndex(line, l.numBanks)

	return l.sets[bank][set].Touch(uint64(line), allocate)
}

// contains reports whether line is resident anywhere in the level.
func (l *level) contains(line addressmapping.LineAddress) bool {
	set := addressmapping.SetIndex(line, l.setsPerBank)
	bank := addressmapping.BankIndex(line, l.numBanks)

	return l.sets[bank][set].Contains(uint64(line))
}
