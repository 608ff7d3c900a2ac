package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LRUVictimFinder", func() {
	var (
		tags   TagArray
		finder *LRUVictimFinder
	)

	BeforeEach(func() {
		tags = NewTagArray(2, 4)
		finder = NewLRUVictimFinder(2, 4)
	})

	fill := func(setID int) {
		set := tags.GetSet(setID)
		for w := range set.Blocks {
			set.Blocks[w].IsValid = true
		}
	}

	It("should prefer invalid blocks", func() {
		fill(0)
		tags.GetSet(0).Blocks[3].IsValid = false

		way, err := finder.SelectVictim(0, tags.GetSet(0), Access{})

		Expect(err).NotTo(HaveOccurred())
		Expect(way).To(Equal(3))
	})

	It("should evict the least recently used block", func() {
		fill(1)
		for _, w := range []int{2, 0, 3, 1} {
			Expect(finder.RecordOutcome(1, w, Access{}, 0, true)).To(Succeed())
		}

		way, err := finder.SelectVictim(1, tags.GetSet(1), Access{})

		Expect(err).NotTo(HaveOccurred())
		Expect(way).To(Equal(2))
		Expect(finder.LRUQueue(1)).To(Equal([]int{2, 0, 3, 1}))
	})

	It("should reject invalid indices", func() {
		_, err := finder.SelectVictim(2, nil, Access{})
		Expect(err).To(MatchError(ErrInvalidSetIndex))

		err = finder.RecordOutcome(0, 4, Access{}, 0, false)
		Expect(err).To(MatchError(ErrInvalidWayIndex))
	})
})
