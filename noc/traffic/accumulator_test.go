package traffic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/noc/traffic"
)

var _ = Describe("Accumulator", func() {
	var a *traffic.Accumulator

	BeforeEach(func() {
		a = traffic.NewAccumulator(3)
	})

	It("should accumulate bytes per destination", func() {
		a.SendTo(1, 100)
		a.SendTo(2, 50)
		a.SendTo(1, 25)

		Expect(a.Entries()).To(Equal([]traffic.Entry{
			{Dst: 1, NBytes: 125},
			{Dst: 2, NBytes: 50},
		}))
		Expect(a.TotalBytes()).To(Equal(uint64(175)))
	})

	It("should sort destinations in its entries", func() {
		a.SendTo(9, 1)
		a.SendTo(0, 1)
		a.SendTo(4, 1)

		entries := a.Entries()
		Expect(entries[0].Dst).To(Equal(0))
		Expect(entries[1].Dst).To(Equal(4))
		Expect(entries[2].Dst).To(Equal(9))
	})

	It("should reassign its rank", func() {
		Expect(a.Rank()).To(Equal(3))

		a.SetRank(7)

		Expect(a.Rank()).To(Equal(7))
	})

	It("should discard counts on reset", func() {
		a.SendTo(1, 100)

		a.ZeroStatsCounters()

		Expect(a.Entries()).To(BeEmpty())
		Expect(a.TotalBytes()).To(Equal(uint64(0)))
	})
})
