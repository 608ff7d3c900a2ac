package shipd

import (
	"math"

	"github.com/sarchlab/shipd/sim/hooking"
)

func ratio(num, den uint64) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}

// monitorEpoch closes the current epoch.
func (p *Policy) monitorEpoch() {
	p.lifetime.Epochs++

	summary := EpochSummary{
		Epoch:          p.lifetime.Epochs,
		Accesses:       p.epoch.Accesses,
		Hits:           p.epoch.Hits,
		Misses:         p.epoch.Misses,
		MissRate:       ratio(p.epoch.Misses, p.epoch.Accesses),
		PrevMissRate:   p.prevMissRate,
		StreamInserts:  p.epoch.StreamInserts,
		StreamHits:     p.epoch.StreamHits,
		StreamMisses:   p.epoch.StreamMisses,
		StreamHitRatio: ratio(p.epoch.StreamHits, p.epoch.StreamInserts),
		OldThreshold:   p.streamThreshold,
	}

	if math.Abs(summary.MissRate-p.prevMissRate) >= PhaseChangeDelta {
		summary.PhaseChange = true
		p.lifetime.PhaseChanges++
		p.sigs.resetStreaming()
	}

	p.adaptStreamThreshold(summary.StreamHitRatio)
	summary.NewThreshold = p.streamThreshold

	p.prevMissRate = summary.MissRate
	p.epoch = epochCounters{}

	p.notifyEpoch(summary)
}

func (p *Policy) adaptStreamThreshold(streamHitRatio float64) {
	switch {
	case streamHitRatio < StreamLowRatio && p.streamThreshold < STCTMax:
		p.streamThreshold++
	case streamHitRatio > StreamHighRatio &&
		p.streamThreshold > minStreamThreshold:
		p.streamThreshold--
	}
}

func (p *Policy) notifyEpoch(summary EpochSummary) {
	if p.NumHooks() == 0 {
		return
	}

	if summary.PhaseChange {
		p.InvokeHook(hooking.HookCtx{
			Domain: p,
			Pos:    HookPosPhaseChange,
			Item:   summary,
		})
	}

	p.InvokeHook(hooking.HookCtx{
		Domain: p,
		Pos:    HookPosEpochEnd,
		Item:   summary,
	})
}
