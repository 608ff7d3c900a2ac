package llc

import (
	"bytes"

	"github.com/sarchlab/shipd/mem/cache/shipd"
	"github.com/sarchlab/shipd/mem/cache/tagging"
	"github.com/sarchlab/shipd/sim/stateful"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cache checkpoint", func() {
	build := func() (*Cache, *shipd.Policy) {
		p := shipd.MakeBuilder().WithNumSets(4).WithNumWays(2).Build("LLC.Policy")
		c := MakeBuilder().WithNumSets(4).WithNumWays(2).WithVictimFinder(p).Build("LLC")
		return c, p
	}

	run := func(c *Cache, from, to uint64) {
		for i := from; i < to; i++ {
			a := tagging.Access{PC: 0x400 + (i%3)*4, Address: (i * 7 % 19) << 6}
			if i%5 == 0 {
				a.Type = tagging.RFO
			}

			_, err := c.Access(a)
			Expect(err).NotTo(HaveOccurred())
		}
	}

	It("should continue identically after a restore", func() {
		c, p := build()
		run(c, 0, 200)

		buf := new(bytes.Buffer)
		Expect(stateful.Save(buf, stateful.JSONCodec{}, c, p)).To(Succeed())

		restored, restoredPolicy := build()
		Expect(stateful.Load(buf, stateful.JSONCodec{}, restored, restoredPolicy)).
			To(Succeed())
		Expect(restored.Stats()).To(Equal(c.Stats()))

		run(c, 200, 400)
		run(restored, 200, 400)

		Expect(restored.Stats()).To(Equal(c.Stats()))
		Expect(restoredPolicy.Report()).To(Equal(p.Report()))
		for s := range 4 {
			Expect(restored.tags.GetSet(s).Blocks).To(Equal(c.tags.GetSet(s).Blocks))
		}
	})

	It("should refuse a checkpoint of another geometry", func() {
		c, _ := build()
		run(c, 0, 50)

		fields, err := c.Serialize()
		Expect(err).NotTo(HaveOccurred())

		other := MakeBuilder().WithNumSets(8).WithNumWays(2).Build("LLC")
		Expect(other.Deserialize(fields)).NotTo(Succeed())
	})

	It("should refuse blocks in the wrong set", func() {
		c, _ := build()
		fields := map[string]any{
			"num_sets":        4,
			"num_ways":        2,
			"log2_block_size": 6,
			"blocks": []any{
				map[string]any{"tag": 5, "set": 0, "way": 0},
			},
		}

		Expect(c.Deserialize(fields)).To(MatchError(ContainSubstring("set 0")))
	})

	It("should refuse two blocks in one way", func() {
		c, _ := build()
		fields := map[string]any{
			"num_sets":        4,
			"num_ways":        2,
			"log2_block_size": 6,
			"blocks": []any{
				map[string]any{"tag": 4, "set": 0, "way": 1},
				map[string]any{"tag": 8, "set": 0, "way": 1},
			},
		}

		Expect(c.Deserialize(fields)).
			To(MatchError(ContainSubstring("more than one block")))
	})

	It("should refuse a block cached twice", func() {
		c, _ := build()
		run(c, 0, 20)
		before := c.Stats()

		fields := map[string]any{
			"num_sets":        4,
			"num_ways":        2,
			"log2_block_size": 6,
			"blocks": []any{
				map[string]any{"tag": 4, "set": 0, "way": 0},
				map[string]any{"tag": 4, "set": 0, "way": 1},
			},
		}

		Expect(c.Deserialize(fields)).
			To(MatchError(ContainSubstring("more than once")))
		Expect(c.Stats()).To(Equal(before))
	})
})
