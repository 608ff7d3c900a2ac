package shipd

import (
	"fmt"
	"io"
)

// Stats is a snapshot of the policy telemetry.
type Stats struct {
	Hits            uint64  `json:"hits"`
	Misses          uint64  `json:"misses"`
	HitRate         float64 `json:"hit_rate"`
	StreamThreshold uint8   `json:"stream_threshold"`
	StreamInserts   uint64  `json:"stream_inserts"`
	StreamHits      uint64  `json:"stream_hits"`
	StreamMisses    uint64  `json:"stream_misses"`
	Epochs          uint64  `json:"epochs"`
	PhaseChanges    uint64  `json:"phase_changes"`
}

// Report returns the lifetime statistics. HitRate is a percentage.
func (p *Policy) Report() Stats {
	total := p.lifetime.Hits + p.lifetime.Misses

	return Stats{
		Hits:            p.lifetime.Hits,
		Misses:          p.lifetime.Misses,
		HitRate:         100 * ratio(p.lifetime.Hits, total),
		StreamThreshold: p.streamThreshold,
		StreamInserts:   p.lifetime.StreamInserts,
		StreamHits:      p.lifetime.StreamHits,
		StreamMisses:    p.lifetime.StreamMisses,
		Epochs:          p.lifetime.Epochs,
		PhaseChanges:    p.lifetime.PhaseChanges,
	}
}

// WriteReport prints the statistics in a human readable block.
func (s Stats) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"==== Adaptive SHiP-D Policy Stats ====\n"+
			"Hits:          %d\n"+
			"Misses:        %d\n"+
			"HitRate:       %.4f%%\n"+
			"STCT_Thresh:   %d\n"+
			"StreamInserts: %d\n"+
			"StreamHits:    %d\n"+
			"StreamMisses:  %d\n"+
			"Epochs:        %d\n"+
			"PhaseChanges:  %d\n",
		s.Hits, s.Misses, s.HitRate, s.StreamThreshold,
		s.StreamInserts, s.StreamHits, s.StreamMisses,
		s.Epochs, s.PhaseChanges)

	return err
}

// Snapshot returns the same statistics as Report. The policy is not
// synchronized, so callers running it concurrently must snapshot it through
// the owner of the policy.
func (p *Policy) Snapshot() any {
	return p.Report()
}
