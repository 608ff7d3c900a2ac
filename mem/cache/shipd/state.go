package shipd

import (
	"fmt"

	"github.com/sarchlab/shipd/sim/stateful"
)

type signatureState struct {
	SHCT      []uint8  `json:"shct"`
	STCT      []uint8  `json:"stct"`
	LastBlock []uint64 `json:"last_block"`
	HasLast   []bool   `json:"has_last_block"`
}

type policyState struct {
	NumSets         int              `json:"num_sets"`
	NumWays         int              `json:"num_ways"`
	Log2BlockSize   int              `json:"log2_block_size"`
	Lines           []LineState      `json:"lines"`
	Signatures      signatureState   `json:"signatures"`
	StreamThreshold uint8            `json:"stream_threshold"`
	PrevMissRate    float64          `json:"prev_miss_rate"`
	Epoch           epochCounters    `json:"epoch"`
	Lifetime        lifetimeCounters `json:"lifetime"`
}

var _ stateful.State = (*Policy)(nil)

// Serialize captures every table and counter of the policy.
func (p *Policy) Serialize() (map[string]any, error) {
	s := policyState{
		NumSets:         p.numSets,
		NumWays:         p.numWays,
		Log2BlockSize:   p.log2BlockSize,
		Lines:           p.lines,
		StreamThreshold: p.streamThreshold,
		PrevMissRate:    p.prevMissRate,
		Epoch:           p.epoch,
		Lifetime:        p.lifetime,
		Signatures: signatureState{
			SHCT:      make([]uint8, SigTableSize),
			STCT:      make([]uint8, SigTableSize),
			LastBlock: make([]uint64, SigTableSize),
			HasLast:   make([]bool, SigTableSize),
		},
	}

	for i, e := range p.sigs.entries {
		s.Signatures.SHCT[i] = e.shct
		s.Signatures.STCT[i] = e.stct
		s.Signatures.LastBlock[i] = e.lastBlock
		s.Signatures.HasLast[i] = e.hasLast
	}

	fields := map[string]any{}
	if err := stateful.Convert(s, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// Deserialize restores a state produced by Serialize. The geometry must match
// the geometry the policy was built with.
func (p *Policy) Deserialize(fields map[string]any) error {
	s := policyState{}
	if err := stateful.Convert(fields, &s); err != nil {
		return err
	}

	if err := p.checkRestorable(s); err != nil {
		return err
	}

	copy(p.lines, s.Lines)

	for i := range p.sigs.entries {
		p.sigs.entries[i] = sigEntry{
			shct:      s.Signatures.SHCT[i],
			stct:      s.Signatures.STCT[i],
			lastBlock: s.Signatures.LastBlock[i],
			hasLast:   s.Signatures.HasLast[i],
		}
	}

	p.streamThreshold = s.StreamThreshold
	p.prevMissRate = s.PrevMissRate
	p.epoch = s.Epoch
	p.lifetime = s.Lifetime

	return nil
}

func (p *Policy) checkRestorable(s policyState) error {
	if s.NumSets != p.numSets || s.NumWays != p.numWays ||
		s.Log2BlockSize != p.log2BlockSize {
		return fmt.Errorf(
			"checkpoint geometry %dx%d (block 2^%d) does not match %dx%d (block 2^%d)",
			s.NumSets, s.NumWays, s.Log2BlockSize,
			p.numSets, p.numWays, p.log2BlockSize)
	}

	if len(s.Lines) != len(p.lines) {
		return fmt.Errorf("checkpoint has %d lines, want %d",
			len(s.Lines), len(p.lines))
	}

	for i, l := range s.Lines {
		if l.RRPV > MaxRRPV || l.Signature >= SigTableSize {
			return fmt.Errorf("line %d out of range: %+v", i, l)
		}
	}

	sigs := s.Signatures
	if len(sigs.SHCT) != SigTableSize || len(sigs.STCT) != SigTableSize ||
		len(sigs.LastBlock) != SigTableSize ||
		len(sigs.HasLast) != SigTableSize {
		return fmt.Errorf("checkpoint signature table has the wrong size")
	}

	for i := range SigTableSize {
		if sigs.SHCT[i] > SHCTMax || sigs.STCT[i] > STCTMax {
			return fmt.Errorf("signature %d counters out of range", i)
		}
	}

	if s.StreamThreshold < minStreamThreshold || s.StreamThreshold > STCTMax {
		return fmt.Errorf("stream threshold %d out of range", s.StreamThreshold)
	}

	return nil
}
