// Package workload generates synthetic last-level-cache access sequences.
package workload

import (
	"math/rand"

	"github.com/sarchlab/shipd/mem/cache/tagging"
)

// A Generator produces accesses one at a time. Next returns false once the
// generator is exhausted.
type Generator interface {
	Next() (tagging.Access, bool)
}

// Pattern holds the settings shared by the single-PC generators.
type Pattern struct {
	CoreID        int
	PC            uint64
	Type          tagging.AccessType
	Log2BlockSize int
}

func (p Pattern) access(block uint64) tagging.Access {
	return tagging.Access{
		CoreID:  p.CoreID,
		PC:      p.PC,
		Address: block << p.Log2BlockSize,
		Type:    p.Type,
	}
}

// StreamGenerator touches consecutive blocks, each exactly once.
type StreamGenerator struct {
	Pattern
	next      uint64
	remaining int
}

// NewStream creates a generator that visits count blocks starting at
// startBlock.
func NewStream(p Pattern, startBlock uint64, count int) *StreamGenerator {
	return &StreamGenerator{Pattern: p, next: startBlock, remaining: count}
}

// Next returns the next block of the stream.
func (g *StreamGenerator) Next() (tagging.Access, bool) {
	if g.remaining <= 0 {
		return tagging.Access{}, false
	}

	a := g.access(g.next)
	g.next++
	g.remaining--

	return a, true
}

// LoopGenerator cycles over a fixed working set of blocks. Consecutive
// elements of the working set are stride blocks apart.
type LoopGenerator struct {
	Pattern
	base      uint64
	size      uint64
	stride    uint64
	pos       uint64
	remaining int
}

// NewLoop creates a generator that issues count accesses to a working set
// of size blocks.
func NewLoop(
	p Pattern,
	baseBlock, size, stride uint64,
	count int,
) *LoopGenerator {
	if size == 0 {
		panic("loop working set must not be empty")
	}

	if stride == 0 {
		stride = 1
	}

	return &LoopGenerator{
		Pattern:   p,
		base:      baseBlock,
		size:      size,
		stride:    stride,
		remaining: count,
	}
}

// Next returns the next block of the loop.
func (g *LoopGenerator) Next() (tagging.Access, bool) {
	if g.remaining <= 0 {
		return tagging.Access{}, false
	}

	a := g.access(g.base + g.pos*g.stride)
	g.pos = (g.pos + 1) % g.size
	g.remaining--

	return a, true
}

// RandomGenerator picks blocks uniformly from a range. The PC of each access
// is drawn from numPCs instruction addresses starting at Pattern.PC.
type RandomGenerator struct {
	Pattern
	base      uint64
	size      uint64
	numPCs    int
	rng       *rand.Rand
	remaining int
}

// NewRandom creates a seeded random generator over size blocks.
func NewRandom(
	p Pattern,
	baseBlock, size uint64,
	numPCs int,
	count int,
	seed int64,
) *RandomGenerator {
	if size == 0 {
		panic("random range must not be empty")
	}

	if numPCs <= 0 {
		numPCs = 1
	}

	return &RandomGenerator{
		Pattern:   p,
		base:      baseBlock,
		size:      size,
		numPCs:    numPCs,
		rng:       rand.New(rand.NewSource(seed)),
		remaining: count,
	}
}

// Next returns a random block.
func (g *RandomGenerator) Next() (tagging.Access, bool) {
	if g.remaining <= 0 {
		return tagging.Access{}, false
	}

	a := g.access(g.base + uint64(g.rng.Int63n(int64(g.size))))
	a.PC += uint64(g.rng.Intn(g.numPCs)) * 4
	g.remaining--

	return a, true
}
