package shipd

import (
	"fmt"

	"github.com/sarchlab/shipd/sim/naming"
)

// Builder can build policies.
type Builder struct {
	numSets       int
	numWays       int
	log2BlockSize int
}

// MakeBuilder creates a builder with the default single-core geometry.
func MakeBuilder() Builder {
	return Builder{
		numSets:       DefaultNumSets,
		numWays:       DefaultNumWays,
		log2BlockSize: DefaultLog2BlockSize,
	}
}

// WithNumSets sets the number of sets of the cache.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithNumWays sets the associativity of the cache.
func (b Builder) WithNumWays(numWays int) Builder {
	b.numWays = numWays
	return b
}

// WithLog2BlockSize sets the log2 of the cache line size.
func (b Builder) WithLog2BlockSize(log2BlockSize int) Builder {
	b.log2BlockSize = log2BlockSize
	return b
}

// Build creates an initialized policy.
func (b Builder) Build(name string) *Policy {
	b.mustBeValid()

	p := &Policy{
		NamedBase:     naming.MakeNamedBase(name),
		numSets:       b.numSets,
		numWays:       b.numWays,
		log2BlockSize: b.log2BlockSize,
		lines:         make([]LineState, b.numSets*b.numWays),
	}

	p.Reset()

	return p
}

func (b Builder) mustBeValid() {
	if b.numSets <= 0 {
		panic(fmt.Sprintf("number of sets must be positive, got %d", b.numSets))
	}

	if b.numWays <= 0 {
		panic(fmt.Sprintf("number of ways must be positive, got %d", b.numWays))
	}

	if b.log2BlockSize < 0 || b.log2BlockSize >= 64 {
		panic(fmt.Sprintf("log2 block size %d out of range", b.log2BlockSize))
	}
}
