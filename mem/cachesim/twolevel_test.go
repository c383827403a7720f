package cachesim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cachesim"
)

var _ = Describe("TwoLevelCache", func() {
	var c *cachesim.TwoLevelCache

	BeforeEach(func() {
		c = cachesim.MakeTwoLevelBuilder().
			WithL1NumLines(8).
			WithL1NumWays(2).
			WithL2NumLines(64).
			WithL2NumWays(4).
			WithL2NumBanks(2).
			WithLineSizeBytes(64).
			Build("Hierarchy")
	})

	It("should panic on an invalid L1 geometry", func() {
		Expect(func() {
			cachesim.MakeTwoLevelBuilder().
				WithL1NumLines(10).
				WithL1NumWays(3).
				Build("Bad")
		}).To(Panic())
	})

	It("should panic on an invalid L2 geometry", func() {
		Expect(func() {
			cachesim.MakeTwoLevelBuilder().
				WithL2NumLines(100).
				WithL2NumBanks(3).
				Build("Bad")
		}).To(Panic())
	})

	It("should classify a cold access as an L2 miss", func() {
		c.Access(0x1000, false)

		Expect(c.GetStats().L2ReadMisses).To(Equal(uint64(1)))
	})

	It("should classify a repeated access as an L1 hit", func() {
		c.Access(0x1000, false)
		c.Access(0x1000, false)

		Expect(c.GetStats().L1ReadHits).To(Equal(uint64(1)))
	})

	It("should serve lines evicted from L1 out of L2", func() {
		// The L1 has 4 sets of 2 ways. Three lines mapping to the same
		// L1 set push the first one out of L1 while it stays in L2.
		l1Sets := uint64(4)
		lineSize := uint64(64)

		c.Access(0, false)
		c.Access(l1Sets*lineSize, false)
		c.Access(2*l1Sets*lineSize, false)

		c.Access(0, false)

		Expect(c.GetStats().L2ReadHits).To(Equal(uint64(1)))
		Expect(c.GetStats().L2ReadMisses).To(Equal(uint64(3)))
	})

	It("should separate read and write counters", func() {
		c.Access(0x1000, true)
		c.Access(0x1000, true)
		c.Access(0x1000, false)

		s := c.GetStats()
		Expect(s.L2WriteMisses).To(Equal(uint64(1)))
		Expect(s.L1WriteHits).To(Equal(uint64(1)))
		Expect(s.L1ReadHits).To(Equal(uint64(1)))
	})

	It("should keep resident lines across a counter reset", func() {
		c.Access(0x1000, false)

		c.ZeroStatsCounters()
		c.Access(0x1000, false)

		s := c.GetStats()
		Expect(s.L1ReadHits).To(Equal(uint64(1)))
		Expect(s.L2ReadMisses).To(Equal(uint64(0)))
	})

	It("should compute rates idempotently", func() {
		c.Access(0x1000, false)
		c.Access(0x1000, false)

		c.ComputeStats()
		first := *c.GetStats()
		c.ComputeStats()
		second := *c.GetStats()

		Expect(first).To(Equal(second))
		Expect(first.L1ReadHitRate).To(BeNumerically("~", 0.5))
		Expect(first.L2ReadMissRate).To(BeNumerically("~", 0.5))
	})

	It("should count an L1 hit for a line already evicted from L2", func() {
		// Inclusion is approximate: L2 evictions do not invalidate L1.
		// Build an L2 smaller than the L1 so that filling the L2 evicts
		// a line that the L1 still holds.
		small := cachesim.MakeTwoLevelBuilder().
			WithL1NumLines(4).
			WithL1NumWays(4).
			WithL2NumLines(2).
			WithL2NumWays(2).
			WithL2NumBanks(1).
			WithLineSizeBytes(64).
			Build("ApproxInclusion")

		small.Access(0*64, false)
		small.Access(1*64, false)
		small.Access(2*64, false) // evicts line 0 from the 2-way L2

		small.Access(0*64, false) // still resident in L1

		s := small.GetStats()
		Expect(s.L1ReadHits).To(Equal(uint64(1)))
		Expect(s.L2ReadMisses).To(Equal(uint64(3)))
	})
})
