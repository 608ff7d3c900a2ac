package workload

import "github.com/sarchlab/shipd/mem/cache/tagging"

// PhasedGenerator runs its generators one after another.
type PhasedGenerator struct {
	phases  []Generator
	current int
}

// NewPhased creates a generator that drains each phase before starting the
// next.
func NewPhased(phases ...Generator) *PhasedGenerator {
	return &PhasedGenerator{phases: phases}
}

// Phase returns the index of the phase that produces the next access.
func (g *PhasedGenerator) Phase() int {
	return g.current
}

// Next returns the next access of the current phase.
func (g *PhasedGenerator) Next() (tagging.Access, bool) {
	for g.current < len(g.phases) {
		if a, ok := g.phases[g.current].Next(); ok {
			return a, true
		}

		g.current++
	}

	return tagging.Access{}, false
}

// MixGenerator interleaves its generators round-robin. Exhausted generators
// are skipped.
type MixGenerator struct {
	sources []Generator
	done    []bool
	next    int
	active  int
}

// NewMix creates a generator that interleaves sources.
func NewMix(sources ...Generator) *MixGenerator {
	return &MixGenerator{
		sources: sources,
		done:    make([]bool, len(sources)),
		active:  len(sources),
	}
}

// Next returns the access of the next source in turn.
func (g *MixGenerator) Next() (tagging.Access, bool) {
	for g.active > 0 {
		i := g.next
		g.next = (g.next + 1) % len(g.sources)

		if g.done[i] {
			continue
		}

		if a, ok := g.sources[i].Next(); ok {
			return a, true
		}

		g.done[i] = true
		g.active--
	}

	return tagging.Access{}, false
}

// Drain calls f with every access g produces.
func Drain(g Generator, f func(tagging.Access) error) error {
	for {
		a, ok := g.Next()
		if !ok {
			return nil
		}

		if err := f(a); err != nil {
			return err
		}
	}
}
