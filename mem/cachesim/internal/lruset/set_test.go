package lruset

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Set", func() {
	var s *Set

	BeforeEach(func() {
		s = New(4)
	})

	It("should panic when built with zero ways", func() {
		Expect(func() { New(0) }).To(Panic())
	})

	It("should miss on an empty set", func() {
		res := s.Touch(0x100, true)

		Expect(res.Hit).To(BeFalse())
		Expect(res.Evicted).To(BeFalse())
		Expect(s.Len()).To(Equal(1))
	})

	It("should hit on a resident line", func() {
		s.Touch(0x100, true)

		res := s.Touch(0x100, true)

		Expect(res.Hit).To(BeTrue())
		Expect(s.Len()).To(Equal(1))
	})

	It("should never duplicate a line", func() {
		for i := 0; i < 10; i++ {
			s.Touch(0x100, true)
		}

		Expect(s.Len()).To(Equal(1))
		Expect(s.Lines()).To(Equal([]uint64{0x100}))
	})

	It("should keep lines in recency order", func() {
		s.Touch(1, true)
		s.Touch(2, true)
		s.Touch(3, true)
		s.Touch(1, true)

		Expect(s.Lines()).To(Equal([]uint64{2, 3, 1}))
	})

	It("should evict the least recently used line when full", func() {
		for line := uint64(1); line <= 4; line++ {
			s.Touch(line, true)
		}

		res := s.Touch(5, true)

		Expect(res.Hit).To(BeFalse())
		Expect(res.Evicted).To(BeTrue())
		Expect(res.Victim).To(Equal(uint64(1)))
		Expect(s.Contains(1)).To(BeFalse())
		Expect(s.Contains(5)).To(BeTrue())
	})

	It("should let a hit save a line from eviction", func() {
		for line := uint64(1); line <= 4; line++ {
			s.Touch(line, true)
		}

		s.Touch(1, true)
		res := s.Touch(5, true)

		Expect(res.Victim).To(Equal(uint64(2)))
		Expect(s.Contains(1)).To(BeTrue())
	})

	It("should not insert a missing line when allocation is off", func() {
		res := s.Touch(0x100, false)

		Expect(res.Hit).To(BeFalse())
		Expect(res.Evicted).To(BeFalse())
		Expect(s.Len()).To(Equal(0))
	})

	It("should still refresh recency on a hit when allocation is off", func() {
		for line := uint64(1); line <= 4; line++ {
			s.Touch(line, true)
		}

		s.Touch(1, false)

		Expect(s.Lines()).To(Equal([]uint64{2, 3, 4, 1}))
	})

	It("should never exceed its capacity", func() {
		for line := uint64(0); line < 1000; line++ {
			s.Touch(line*17, true)
			Expect(s.Len()).To(BeNumerically("<=", s.Ways()))
		}
	})

	It("should recycle arena slots through long eviction streams", func() {
		for round := 0; round < 100; round++ {
			for line := uint64(0); line < 8; line++ {
				s.Touch(line, true)
			}
		}

		Expect(s.Len()).To(Equal(4))
		Expect(s.Lines()).To(Equal([]uint64{4, 5, 6, 7}))
	})
})
