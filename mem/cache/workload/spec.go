package workload

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sarchlab/shipd/mem/cache/tagging"
	"gopkg.in/yaml.v3"
)

// DefaultLog2BlockSize is used when a spec does not set a block size.
const DefaultLog2BlockSize = 6

// Spec describes a workload as a sequence of phases. Loaded from YAML via
// LoadSpec(path).
type Spec struct {
	Seed          int64       `yaml:"seed"`
	Log2BlockSize *int        `yaml:"log2_block_size,omitempty"`
	Phases        []PhaseSpec `yaml:"phases"`
}

// PhaseSpec is one phase. The patterns of a phase are interleaved.
type PhaseSpec struct {
	Name     string        `yaml:"name,omitempty"`
	Patterns []PatternSpec `yaml:"patterns"`
}

// PatternSpec configures a single generator.
type PatternSpec struct {
	Kind     string `yaml:"kind"`
	PC       uint64 `yaml:"pc"`
	Core     int    `yaml:"core,omitempty"`
	Type     string `yaml:"type,omitempty"`
	Base     uint64 `yaml:"base"`
	Blocks   uint64 `yaml:"blocks,omitempty"`
	Stride   uint64 `yaml:"stride,omitempty"`
	PCs      int    `yaml:"pcs,omitempty"`
	Accesses int    `yaml:"accesses"`
}

var validKinds = map[string]bool{
	"stream": true, "loop": true, "random": true,
}

// LoadSpec reads and parses a YAML workload file. Unknown keys are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}

	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload: %w", err)
	}

	return &spec, nil
}

// BlockSizeLog2 returns the log2 of the block size the generators address.
// An explicit zero means byte-sized blocks.
func (s *Spec) BlockSizeLog2() int {
	if s.Log2BlockSize == nil {
		return DefaultLog2BlockSize
	}

	return *s.Log2BlockSize
}

// Validate checks that every phase and pattern can be built.
func (s *Spec) Validate() error {
	if log2 := s.BlockSizeLog2(); log2 < 0 || log2 >= 64 {
		return fmt.Errorf("log2_block_size must be in [0, 63], got %d", log2)
	}

	if len(s.Phases) == 0 {
		return fmt.Errorf("at least one phase required")
	}

	for i, ph := range s.Phases {
		if len(ph.Patterns) == 0 {
			return fmt.Errorf("phase[%d]: at least one pattern required", i)
		}

		for j, p := range ph.Patterns {
			prefix := fmt.Sprintf("phase[%d].pattern[%d]", i, j)
			if err := validatePattern(&p, prefix); err != nil {
				return err
			}
		}
	}

	return nil
}

func validatePattern(p *PatternSpec, prefix string) error {
	if !validKinds[p.Kind] {
		return fmt.Errorf("%s: unknown kind %q; valid: stream, loop, random",
			prefix, p.Kind)
	}

	if p.Accesses < 0 {
		return fmt.Errorf("%s: accesses must not be negative, got %d",
			prefix, p.Accesses)
	}

	if p.Type != "" {
		if _, ok := tagging.ParseAccessType(p.Type); !ok {
			return fmt.Errorf(
				"%s: unknown type %q; valid: load, rfo, prefetch, writeback",
				prefix, p.Type)
		}
	}

	if p.Kind != "stream" && p.Blocks == 0 {
		return fmt.Errorf("%s: %s pattern needs a positive blocks count",
			prefix, p.Kind)
	}

	return nil
}

// Accesses returns the total number of accesses the spec produces.
func (s *Spec) Accesses() int {
	n := 0
	for _, ph := range s.Phases {
		for _, p := range ph.Patterns {
			n += p.Accesses
		}
	}

	return n
}

// Build validates the spec and creates its generator.
func (s *Spec) Build() (*PhasedGenerator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	log2 := s.BlockSizeLog2()

	phases := make([]Generator, 0, len(s.Phases))
	for i, ph := range s.Phases {
		sources := make([]Generator, 0, len(ph.Patterns))
		for j, p := range ph.Patterns {
			seed := s.Seed + int64(i)*1000 + int64(j)
			sources = append(sources, p.build(log2, seed))
		}

		if len(sources) == 1 {
			phases = append(phases, sources[0])
		} else {
			phases = append(phases, NewMix(sources...))
		}
	}

	return NewPhased(phases...), nil
}

func (p *PatternSpec) build(log2BlockSize int, seed int64) Generator {
	t := tagging.Load
	if p.Type != "" {
		t, _ = tagging.ParseAccessType(p.Type)
	}

	pattern := Pattern{
		CoreID:        p.Core,
		PC:            p.PC,
		Type:          t,
		Log2BlockSize: log2BlockSize,
	}

	switch p.Kind {
	case "stream":
		return NewStream(pattern, p.Base, p.Accesses)
	case "loop":
		return NewLoop(pattern, p.Base, p.Blocks, p.Stride, p.Accesses)
	case "random":
		return NewRandom(pattern, p.Base, p.Blocks, p.PCs, p.Accesses, seed)
	default:
		panic(fmt.Sprintf("unknown pattern kind %q", p.Kind))
	}
}
