package llc

import (
	"fmt"

	"github.com/sarchlab/shipd/mem/cache/tagging"
)

// Builder can build last-level caches.
type Builder struct {
	numSets       int
	numWays       int
	log2BlockSize int
	victimFinder  tagging.VictimFinder
}

// MakeBuilder creates a builder for a 2 MB, 16-way cache with 64 B lines.
func MakeBuilder() Builder {
	return Builder{
		numSets:       2048,
		numWays:       16,
		log2BlockSize: 6,
	}
}

// WithNumSets sets the number of sets.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithNumWays sets the associativity.
func (b Builder) WithNumWays(numWays int) Builder {
	b.numWays = numWays
	return b
}

// WithLog2BlockSize sets the log2 of the cache line size.
func (b Builder) WithLog2BlockSize(log2BlockSize int) Builder {
	b.log2BlockSize = log2BlockSize
	return b
}

// WithVictimFinder sets the replacement policy. It must be built for the same
// geometry as the cache.
func (b Builder) WithVictimFinder(vf tagging.VictimFinder) Builder {
	b.victimFinder = vf
	return b
}

// Build creates a cache. Without a victim finder the cache uses LRU.
func (b Builder) Build(name string) *Cache {
	if b.log2BlockSize < 0 || b.log2BlockSize >= 64 {
		panic(fmt.Sprintf("log2 block size %d out of range", b.log2BlockSize))
	}

	vf := b.victimFinder
	if vf == nil {
		vf = tagging.NewLRUVictimFinder(b.numSets, b.numWays)
	}

	return &Cache{
		name:          name,
		log2BlockSize: b.log2BlockSize,
		tags:          tagging.NewTagArray(b.numSets, b.numWays),
		victimFinder:  vf,
	}
}
