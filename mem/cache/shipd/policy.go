package shipd

import (
	"github.com/sarchlab/shipd/mem/cache/tagging"
	"github.com/sarchlab/shipd/sim/hooking"
	"github.com/sarchlab/shipd/sim/naming"
)

// LineState is the replacement state of one way of one set.
type LineState struct {
	Valid       bool   `json:"valid"`
	RRPV        uint8  `json:"rrpv"`
	Signature   uint32 `json:"signature"`
	HasHit      bool   `json:"has_hit"`
	IsStreaming bool   `json:"is_streaming"`
}

type epochCounters struct {
	Accesses      uint64 `json:"accesses"`
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	StreamInserts uint64 `json:"stream_inserts"`
	StreamHits    uint64 `json:"stream_hits"`
	StreamMisses  uint64 `json:"stream_misses"`
}

type lifetimeCounters struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	StreamInserts uint64 `json:"stream_inserts"`
	StreamHits    uint64 `json:"stream_hits"`
	StreamMisses  uint64 `json:"stream_misses"`
	Epochs        uint64 `json:"epochs"`
	PhaseChanges  uint64 `json:"phase_changes"`
}

// Policy is the adaptive signature-based replacement policy. It owns the
// replacement state of every line in the cache and the signature table.
// Construct it with a Builder.
type Policy struct {
	naming.NamedBase
	hooking.HookableBase

	numSets       int
	numWays       int
	log2BlockSize int

	lines []LineState
	sigs  signatureTable

	streamThreshold uint8
	prevMissRate    float64
	epoch           epochCounters
	lifetime        lifetimeCounters
}

// Reset returns every table and counter to its start-up value.
func (p *Policy) Reset() {
	for i := range p.lines {
		p.lines[i] = LineState{RRPV: MaxRRPV}
	}

	p.sigs.reset()

	p.streamThreshold = initialStreamThreshold
	p.prevMissRate = 0
	p.epoch = epochCounters{}
	p.lifetime = lifetimeCounters{}
}

// SelectVictim picks the way that the missing access is installed into and
// installs it. The replacement state is tracked by the policy itself, so set
// is not consulted.
func (p *Policy) SelectVictim(
	setID int,
	_ *tagging.Set,
	access tagging.Access,
) (int, error) {
	if err := tagging.CheckSetIndex(setID, p.numSets); err != nil {
		return 0, err
	}

	sig := Signature(access.PC)
	p.sigs.observeBlock(sig, access.Address>>p.log2BlockSize)

	wayID := p.findVictimWay(setID)
	p.install(setID, wayID, sig)

	return wayID, nil
}

// RecordOutcome trains the policy with the outcome of an access and runs the
// epoch monitor when an epoch completes.
func (p *Policy) RecordOutcome(
	setID, wayID int,
	_ tagging.Access,
	_ uint64,
	hit bool,
) error {
	if err := tagging.CheckSetIndex(setID, p.numSets); err != nil {
		return err
	}

	if err := tagging.CheckWayIndex(wayID, p.numWays); err != nil {
		return err
	}

	p.epoch.Accesses++

	if hit {
		p.recordHit(setID, wayID)
	} else {
		p.lifetime.Misses++
		p.epoch.Misses++
	}

	if p.epoch.Accesses >= EpochLength {
		p.monitorEpoch()
	}

	return nil
}

func (p *Policy) recordHit(setID, wayID int) {
	p.lifetime.Hits++
	p.epoch.Hits++

	l := p.line(setID, wayID)
	l.HasHit = true
	l.RRPV = 0
	p.sigs.trainHit(l.Signature)

	if l.IsStreaming {
		p.epoch.StreamHits++
		p.lifetime.StreamHits++
	}
}

// NumSets returns the number of sets the policy tracks.
func (p *Policy) NumSets() int {
	return p.numSets
}

// NumWays returns the associativity the policy tracks.
func (p *Policy) NumWays() int {
	return p.numWays
}

// StreamThreshold returns the current STCT value at which a signature is
// considered streaming.
func (p *Policy) StreamThreshold() uint8 {
	return p.streamThreshold
}

// Line returns the replacement state of a way.
func (p *Policy) Line(setID, wayID int) LineState {
	return *p.line(setID, wayID)
}

// SignatureEntry returns the signature table entry of sig.
func (p *Policy) SignatureEntry(sig uint32) SignatureEntry {
	return p.sigs.view(sig & (SigTableSize - 1))
}

func (p *Policy) line(setID, wayID int) *LineState {
	return &p.lines[setID*p.numWays+wayID]
}

func (p *Policy) setLines(setID int) []LineState {
	start := setID * p.numWays
	return p.lines[start : start+p.numWays]
}
