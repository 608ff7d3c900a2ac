package shipd

import "github.com/sarchlab/shipd/sim/hooking"

// Hook positions of the policy. Both carry an EpochSummary as the item.
var (
	HookPosEpochEnd    = &hooking.HookPos{Name: "Policy.EpochEnd"}
	HookPosPhaseChange = &hooking.HookPos{Name: "Policy.PhaseChange"}
)

// EpochSummary describes a completed epoch and the adaptation it caused.
type EpochSummary struct {
	Epoch          uint64
	Accesses       uint64
	Hits           uint64
	Misses         uint64
	MissRate       float64
	PrevMissRate   float64
	StreamInserts  uint64
	StreamHits     uint64
	StreamMisses   uint64
	StreamHitRatio float64
	PhaseChange    bool
	OldThreshold   uint8
	NewThreshold   uint8
}
