package shipd

import (
	"github.com/sarchlab/shipd/mem/cache/tagging"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func access(pc, block uint64) tagging.Access {
	return tagging.Access{PC: pc, Address: block << DefaultLog2BlockSize}
}

// miss runs the calls the cache makes for a missing access.
func miss(p *Policy, setID int, a tagging.Access) int {
	way, err := p.SelectVictim(setID, nil, a)
	Expect(err).NotTo(HaveOccurred())
	Expect(p.RecordOutcome(setID, way, a, 0, false)).To(Succeed())

	return way
}

func hit(p *Policy, setID, wayID int) {
	Expect(p.RecordOutcome(setID, wayID, tagging.Access{}, 0, true)).
		To(Succeed())
}

func rrpvs(p *Policy, setID int) []uint8 {
	r := []uint8{}
	for w := range p.NumWays() {
		r = append(r, p.Line(setID, w).RRPV)
	}

	return r
}

var _ = Describe("Policy", func() {
	var p *Policy

	BeforeEach(func() {
		p = MakeBuilder().WithNumSets(4).WithNumWays(4).Build("LLC.Policy")
	})

	It("should start with every line invalid", func() {
		for s := range 4 {
			for w := range 4 {
				Expect(p.Line(s, w)).To(Equal(LineState{RRPV: MaxRRPV}))
			}
		}

		Expect(p.StreamThreshold()).To(Equal(uint8(2)))
		Expect(p.Report()).To(Equal(Stats{StreamThreshold: 2}))
	})

	It("should panic on invalid geometry", func() {
		Expect(func() { MakeBuilder().WithNumSets(0).Build("P") }).To(Panic())
		Expect(func() { MakeBuilder().WithNumWays(-1).Build("P") }).To(Panic())
	})

	Context("victim selection", func() {
		It("should fill invalid ways from the lowest index", func() {
			for w := range 4 {
				Expect(miss(p, 1, access(uint64(w+1), uint64(w*10)))).To(Equal(w))
			}
		})

		It("should prefer an invalid way over a saturated one", func() {
			for w := range 4 {
				miss(p, 0, access(7, uint64(w*10)))
			}
			p.line(0, 1).RRPV = MaxRRPV
			p.line(0, 2).Valid = false

			way, err := p.SelectVictim(0, nil, access(8, 1000))

			Expect(err).NotTo(HaveOccurred())
			Expect(way).To(Equal(2))
			Expect(p.Line(0, 1).RRPV).To(Equal(uint8(MaxRRPV)))
		})

		It("should pick the lowest saturated way without aging", func() {
			for w := range 4 {
				miss(p, 0, access(7, uint64(w*10)))
			}
			for w, r := range []uint8{3, 1, 3, 0} {
				p.line(0, w).RRPV = r
			}

			Expect(p.findVictimWay(0)).To(Equal(0))
			Expect(rrpvs(p, 0)).To(Equal([]uint8{3, 1, 3, 0}))
		})

		It("should age the set until a way saturates", func() {
			for w := range 4 {
				miss(p, 0, access(7, uint64(w*10)))
			}
			for w, r := range []uint8{1, 2, 0, 1} {
				p.line(0, w).RRPV = r
			}

			Expect(p.findVictimWay(0)).To(Equal(1))
			Expect(rrpvs(p, 0)).To(Equal([]uint8{2, 3, 1, 2}))
		})

		It("should terminate when every line is protected", func() {
			for w := range 4 {
				miss(p, 0, access(7, uint64(w*10)))
				p.line(0, w).RRPV = 0
			}

			Expect(p.findVictimWay(0)).To(Equal(0))
			Expect(rrpvs(p, 0)).To(Equal([]uint8{3, 3, 3, 3}))
		})

		It("should reject a set outside the cache", func() {
			_, err := p.SelectVictim(4, nil, access(1, 1))
			Expect(err).To(MatchError(tagging.ErrInvalidSetIndex))

			_, err = p.SelectVictim(-1, nil, access(1, 1))
			Expect(err).To(MatchError(tagging.ErrInvalidSetIndex))
		})

		It("should not train the stream detector on rejected calls", func() {
			_, _ = p.SelectVictim(9, nil, access(1, 1))

			Expect(p.SignatureEntry(Signature(1)).HasLastBlock).To(BeFalse())
		})
	})

	Context("insertion", func() {
		var single *Policy

		BeforeEach(func() {
			single = MakeBuilder().WithNumSets(1).WithNumWays(1).Build("P")
		})

		It("should insert hot signatures at RRPV 0", func() {
			way := miss(single, 0, access(0x40, 5))

			l := single.Line(0, way)
			Expect(l.Valid).To(BeTrue())
			Expect(l.RRPV).To(Equal(uint8(0)))
			Expect(l.Signature).To(Equal(Signature(0x40)))
			Expect(l.HasHit).To(BeFalse())
			Expect(l.IsStreaming).To(BeFalse())
		})

		It("should penalize a signature whose line dies without a hit", func() {
			miss(single, 0, access(0x40, 5))
			miss(single, 0, access(0x80, 50))

			Expect(single.SignatureEntry(Signature(0x40)).SHCT).
				To(Equal(uint8(SHCTInit - 1)))
			Expect(single.SignatureEntry(Signature(0x80)).SHCT).
				To(Equal(uint8(SHCTInit)))
		})

		It("should not penalize a signature whose line was hit", func() {
			miss(single, 0, access(0x40, 5))
			hit(single, 0, 0)
			miss(single, 0, access(0x80, 50))

			Expect(single.SignatureEntry(Signature(0x40)).SHCT).
				To(Equal(uint8(SHCTMax)))
		})

		It("should insert cold signatures at the maximum RRPV", func() {
			miss(single, 0, access(0x40, 5))
			miss(single, 0, access(0x40, 50))

			l := single.Line(0, 0)
			Expect(single.SignatureEntry(Signature(0x40)).SHCT).To(Equal(uint8(1)))
			Expect(l.IsStreaming).To(BeFalse())
			Expect(l.RRPV).To(Equal(uint8(MaxRRPV)))
		})

		It("should insert cold streaming signatures at RRPV 1", func() {
			miss(single, 0, access(0x40, 5))
			miss(single, 0, access(0x40, 6))

			l := single.Line(0, 0)
			Expect(l.IsStreaming).To(BeTrue())
			Expect(l.RRPV).To(Equal(uint8(1)))
			Expect(single.Report().StreamInserts).To(Equal(uint64(1)))
		})

		It("should insert hot streaming signatures at RRPV 0", func() {
			miss(single, 0, access(0x40, 5))
			hit(single, 0, 0)
			miss(single, 0, access(0x40, 6))

			l := single.Line(0, 0)
			Expect(l.IsStreaming).To(BeTrue())
			Expect(l.RRPV).To(Equal(uint8(0)))
		})

		It("should count streaming lines evicted without a hit", func() {
			miss(single, 0, access(0x40, 5))
			miss(single, 0, access(0x40, 6))
			miss(single, 0, access(0x80, 1000))

			Expect(single.Report().StreamMisses).To(Equal(uint64(1)))
		})
	})

	Context("outcomes", func() {
		It("should protect and train on hits", func() {
			way := miss(p, 2, access(0x40, 1))
			p.line(2, way).RRPV = 2

			hit(p, 2, way)
			hit(p, 2, way)
			hit(p, 2, way)

			l := p.Line(2, way)
			Expect(l.HasHit).To(BeTrue())
			Expect(l.RRPV).To(Equal(uint8(0)))
			Expect(p.SignatureEntry(Signature(0x40)).SHCT).
				To(Equal(uint8(SHCTMax)))
		})

		It("should count hits on streaming lines", func() {
			miss(p, 0, access(0x40, 1))
			way := miss(p, 0, access(0x40, 2))
			Expect(p.Line(0, way).IsStreaming).To(BeTrue())

			hit(p, 0, way)

			Expect(p.Report().StreamHits).To(Equal(uint64(1)))
		})

		It("should report lifetime totals", func() {
			way := miss(p, 0, access(0x40, 1))
			hit(p, 0, way)
			hit(p, 0, way)
			miss(p, 0, access(0x44, 100))

			s := p.Report()
			Expect(s.Hits).To(Equal(uint64(2)))
			Expect(s.Misses).To(Equal(uint64(2)))
			Expect(s.HitRate).To(BeNumerically("~", 50.0))
		})

		It("should reject invalid indices", func() {
			err := p.RecordOutcome(4, 0, tagging.Access{}, 0, true)
			Expect(err).To(MatchError(tagging.ErrInvalidSetIndex))

			err = p.RecordOutcome(0, 4, tagging.Access{}, 0, true)
			Expect(err).To(MatchError(tagging.ErrInvalidWayIndex))

			Expect(p.Report().Hits).To(BeZero())
		})
	})

	It("should forget everything on reset", func() {
		way := miss(p, 0, access(0x40, 1))
		hit(p, 0, way)

		p.Reset()

		Expect(p.Line(0, way)).To(Equal(LineState{RRPV: MaxRRPV}))
		Expect(p.SignatureEntry(Signature(0x40)).SHCT).To(Equal(uint8(SHCTInit)))
		Expect(p.Report()).To(Equal(Stats{StreamThreshold: 2}))
	})

	It("should detect a stream at the top of the address space", func() {
		p = MakeBuilder().WithNumSets(1).WithNumWays(4).
			WithLog2BlockSize(0).Build("P")

		top := ^uint64(0)
		miss(p, 0, tagging.Access{PC: 0x40, Address: top})
		way := miss(p, 0, tagging.Access{PC: 0x40, Address: top - 1})

		Expect(p.Line(0, way).IsStreaming).To(BeTrue())
		Expect(p.Report().StreamInserts).To(Equal(uint64(1)))
	})

	It("should fill a 16-way set and evict a saturated way on the 17th miss", func() {
		p = MakeBuilder().WithNumSets(1).WithNumWays(16).Build("P")

		for i := range 16 {
			pc := uint64(i + 1)
			way := miss(p, 0, access(pc, uint64(i)))
			Expect(way).To(Equal(i))

			l := p.Line(0, way)
			hot := p.SignatureEntry(Signature(pc)).SHCT >= SHCTThreshold
			Expect(hot).To(BeTrue())
			Expect(l.IsStreaming).To(BeFalse())
			Expect(l.RRPV).To(Equal(uint8(0)))
		}

		way, err := p.SelectVictim(0, nil, access(17, 16))

		Expect(err).NotTo(HaveOccurred())
		Expect(way).To(Equal(0))
		for w := 1; w < 16; w++ {
			Expect(p.Line(0, w).RRPV).To(Equal(uint8(MaxRRPV)))
		}
		Expect(p.SignatureEntry(Signature(1)).SHCT).To(Equal(uint8(SHCTInit - 1)))
		Expect(p.Line(0, 0).Signature).To(Equal(Signature(17)))
	})
})
