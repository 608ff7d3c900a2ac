package shipd

// Replacement state limits.
const (
	// MaxRRPV is the saturated re-reference prediction value.
	MaxRRPV = 3

	// SigTableSize is the number of signature table entries. Must be a power
	// of two.
	SigTableSize = 2048

	// SHCTInit marks a never-seen signature as weakly hot.
	SHCTInit      = 2
	SHCTMax       = 3
	SHCTThreshold = 2

	// STCTInit is the stream counter value of a signature with no history.
	STCTInit = 1
	STCTMax  = 3
)

// Adaptation parameters.
const (
	// EpochLength is the number of accesses between adaptation cycles.
	EpochLength = 100000

	// PhaseChangeDelta is the miss-rate swing between two consecutive epochs
	// that resets the streaming history.
	PhaseChangeDelta = 0.05

	// StreamLowRatio and StreamHighRatio bound the stream hit ratio. Below the
	// low bound the streaming threshold rises, above the high bound it drops.
	StreamLowRatio  = 0.10
	StreamHighRatio = 0.70

	minStreamThreshold     = 1
	initialStreamThreshold = STCTInit + 1
)

// Default geometry of a single-core last-level cache.
const (
	DefaultNumSets       = 2048
	DefaultNumWays       = 16
	DefaultLog2BlockSize = 6
)

func incSat(v *uint8, limit uint8) {
	if *v < limit {
		*v++
	}
}

func decSat(v *uint8) {
	if *v > 0 {
		*v--
	}
}
