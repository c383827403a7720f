package cachesim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cachesim"
)

var _ = Describe("SingleLevelCache", func() {
	var c *cachesim.SingleLevelCache

	BeforeEach(func() {
		c = cachesim.MakeSingleLevelBuilder().
			WithNumLines(64).
			WithNumWays(4).
			WithNumBanks(2).
			WithLineSizeBytes(64).
			Build("L1Cache")
	})

	It("should panic when lines do not divide into ways", func() {
		Expect(func() {
			cachesim.MakeSingleLevelBuilder().
				WithNumLines(100).
				WithNumWays(3).
				Build("Bad")
		}).To(Panic())
	})

	It("should panic when lines do not divide into banks", func() {
		Expect(func() {
			cachesim.MakeSingleLevelBuilder().
				WithNumLines(64).
				WithNumWays(4).
				WithNumBanks(3).
				Build("Bad")
		}).To(Panic())
	})

	It("should panic when the line size is not a power of two", func() {
		Expect(func() {
			cachesim.MakeSingleLevelBuilder().
				WithLineSizeBytes(48).
				Build("Bad")
		}).To(Panic())
	})

	It("should panic when the configuration leaves no sets", func() {
		Expect(func() {
			cachesim.MakeSingleLevelBuilder().
				WithNumLines(4).
				WithNumWays(4).
				WithNumBanks(4).
				Build("Bad")
		}).To(Panic())
	})

	It("should count a cold access as a read miss", func() {
		c.Access(0x1000, false)

		Expect(c.GetStats().ReadMisses).To(Equal(uint64(1)))
		Expect(c.GetStats().ReadHits).To(Equal(uint64(0)))
	})

	It("should hit all bytes of a resident line", func() {
		for addr := uint64(0); addr < 64; addr++ {
			c.Access(addr, false)
		}

		Expect(c.GetStats().ReadMisses).To(Equal(uint64(1)))
		Expect(c.GetStats().ReadHits).To(Equal(uint64(63)))
	})

	It("should ledger a fetch for every read miss", func() {
		c.Access(0x1000, false)
		c.Access(0x1000, false)
		c.Access(0x2000, false)

		nReads, nWrites := c.Ledger().Counts(0x1000 >> 6)
		Expect(nReads).To(Equal(int64(1)))
		Expect(nWrites).To(Equal(int64(0)))
		Expect(c.Ledger().Len()).To(Equal(2))
	})

	It("should ledger a write-back for every eviction", func() {
		// One set holds 4 ways; the 5th distinct line mapping there
		// evicts the first.
		conflicting := cachesim.MakeSingleLevelBuilder().
			WithNumLines(4).
			WithNumWays(4).
			WithNumBanks(1).
			WithLineSizeBytes(64).
			Build("Tiny")

		for i := uint64(0); i < 5; i++ {
			conflicting.Access(i*64, false)
		}

		Expect(conflicting.GetStats().Evictions).To(Equal(uint64(1)))
		nReads, nWrites := conflicting.Ledger().Counts(0)
		Expect(nReads).To(Equal(int64(1)))
		Expect(nWrites).To(Equal(int64(1)))
	})

	It("should not ledger a fetch for a write miss", func() {
		c.Access(0x1000, true)

		nReads, nWrites := c.Ledger().Counts(0x1000 >> 6)
		Expect(nReads).To(Equal(int64(0)))
		Expect(nWrites).To(Equal(int64(0)))
		Expect(c.GetStats().WriteMisses).To(Equal(uint64(1)))
	})

	It("should keep resident lines across a counter reset", func() {
		c.Access(0x1000, false)

		c.ZeroStatsCounters()

		Expect(c.GetStats().ReadMisses).To(Equal(uint64(0)))
		Expect(c.Ledger().Len()).To(Equal(0))

		c.Access(0x1000, false)
		Expect(c.GetStats().ReadHits).To(Equal(uint64(1)))
	})

	It("should compute rates idempotently", func() {
		c.Access(0x1000, false)
		c.Access(0x1000, false)
		c.Access(0x1040, true)

		c.ComputeStats()
		first := *c.GetStats()
		c.ComputeStats()
		second := *c.GetStats()

		Expect(first).To(Equal(second))
		Expect(first.StatsComputed).To(BeTrue())
		Expect(first.ReadHitRate).To(BeNumerically("~", 0.5))
		Expect(first.WriteMissRate).To(BeNumerically("~", 1.0))
	})

	Context("with the allocate-on-write-only policy", func() {
		BeforeEach(func() {
			c = cachesim.MakeSingleLevelBuilder().
				WithNumLines(64).
				WithNumWays(4).
				WithLineSizeBytes(64).
				WithAllocationPolicy(cachesim.AllocateOnWriteOnly).
				Build("WriteBuffer")
		})

		It("should not allocate on a read miss", func() {
			c.Access(0x1000, false)
			c.Access(0x1000, false)

			Expect(c.GetStats().ReadMisses).To(Equal(uint64(2)))
			Expect(c.GetStats().ReadHits).To(Equal(uint64(0)))
		})

		It("should allocate on a write miss", func() {
			c.Access(0x1000, true)
			c.Access(0x1000, false)

			Expect(c.GetStats().WriteMisses).To(Equal(uint64(1)))
			Expect(c.GetStats().ReadHits).To(Equal(uint64(1)))
		})

		It("should still ledger read misses that do not allocate", func() {
			c.Access(0x1000, false)
			c.Access(0x1000, false)

			nReads, _ := c.Ledger().Counts(0x1000 >> 6)
			Expect(nReads).To(Equal(int64(2)))
		})
	})
})
