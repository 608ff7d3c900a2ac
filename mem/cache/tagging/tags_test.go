package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	var (
		tags TagArray
	)

	BeforeEach(func() {
		tags = NewTagArray(1024, 4)
	})

	It("should map block addresses to sets", func() {
		Expect(tags.SetIndex(0x100)).To(Equal(0x100))
		Expect(tags.SetIndex(1024 + 3)).To(Equal(3))
	})

	It("should lookup", func() {
		tags.Update(Block{
			Tag:     0x100,
			SetID:   0x100,
			WayID:   2,
			IsValid: true,
		})

		block, ok := tags.Lookup(0x100)
		Expect(ok).To(BeTrue())
		Expect(block.WayID).To(Equal(2))
	})

	It("should return nothing when lookup cannot find block", func() {
		block, ok := tags.Lookup(0x100)
		Expect(ok).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should return nothing if block is invalid", func() {
		tags.Update(Block{
			Tag:     0x100,
			SetID:   0x100,
			WayID:   0,
			IsValid: false,
		})

		_, ok := tags.Lookup(0x100)
		Expect(ok).To(BeFalse())
	})

	It("should find the first invalid way", func() {
		set := tags.GetSet(5)
		Expect(set.FirstInvalidWay()).To(Equal(0))

		for w := range 4 {
			set.Blocks[w].IsValid = true
		}
		Expect(set.FirstInvalidWay()).To(Equal(-1))

		set.Blocks[2].IsValid = false
		Expect(set.FirstInvalidWay()).To(Equal(2))
	})

	It("should invalidate everything on reset", func() {
		tags.Update(Block{Tag: 7, SetID: 7, WayID: 1, IsValid: true})

		tags.Reset()

		_, ok := tags.Lookup(7)
		Expect(ok).To(BeFalse())
		Expect(tags.GetSet(7).Blocks[1].WayID).To(Equal(1))
	})
})

var _ = Describe("AccessType", func() {
	It("should parse its own names", func() {
		for _, t := range []AccessType{Load, RFO, Prefetch, Writeback} {
			parsed, ok := ParseAccessType(t.String())
			Expect(ok).To(BeTrue())
			Expect(parsed).To(Equal(t))
		}

		_, ok := ParseAccessType("store")
		Expect(ok).To(BeFalse())
	})
})
