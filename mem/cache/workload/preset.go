package workload

import "fmt"

// PresetNames lists the workloads Preset knows.
var PresetNames = []string{"stream", "loop", "random", "mixed"}

// Preset returns a built-in workload of about n accesses.
func Preset(name string, n int, seed int64) (*Spec, error) {
	if n <= 0 {
		return nil, fmt.Errorf("access count must be positive, got %d", n)
	}

	switch name {
	case "stream":
		return single(seed, PatternSpec{
			Kind: "stream", PC: 0x401000, Base: 0x100000, Accesses: n,
		}), nil
	case "loop":
		return single(seed, PatternSpec{
			Kind: "loop", PC: 0x402000, Blocks: 24576, Accesses: n,
		}), nil
	case "random":
		return single(seed, PatternSpec{
			Kind: "random", PC: 0x403000, Base: 0x200000,
			Blocks: 1 << 20, PCs: 16, Accesses: n,
		}), nil
	case "mixed":
		return mixed(n, seed), nil
	default:
		return nil, fmt.Errorf("unknown workload %q; valid: %v",
			name, PresetNames)
	}
}

func single(seed int64, p PatternSpec) *Spec {
	return &Spec{
		Seed:   seed,
		Phases: []PhaseSpec{{Name: p.Kind, Patterns: []PatternSpec{p}}},
	}
}

// mixed alternates a loop disturbed by a scan with a random phase, so that
// the miss rate changes noticeably between phases.
func mixed(n int, seed int64) *Spec {
	third := n / 3
	last := n - 2*third

	loopScan := PhaseSpec{
		Name: "loop-scan",
		Patterns: []PatternSpec{
			{Kind: "loop", PC: 0x402000, Blocks: 16384, Accesses: third / 2},
			{
				Kind: "stream", PC: 0x401000, Base: 0x100000,
				Accesses: third - third/2,
			},
		},
	}

	random := PhaseSpec{
		Name: "random",
		Patterns: []PatternSpec{{
			Kind: "random", PC: 0x403000, Base: 0x200000,
			Blocks: 1 << 20, PCs: 16, Accesses: third,
		}},
	}

	loop := PhaseSpec{
		Name: "loop",
		Patterns: []PatternSpec{{
			Kind: "loop", PC: 0x402000, Blocks: 16384, Accesses: last,
		}},
	}

	return &Spec{
		Seed:   seed,
		Phases: []PhaseSpec{loopScan, random, loop},
	}
}
