package shipd

// install replaces the line in (setID, wayID) with a line of signature sig.
func (p *Policy) install(setID, wayID int, sig uint32) {
	l := p.line(setID, wayID)

	if l.Valid {
		p.evict(l)
	}

	streaming := p.sigs.isStreaming(sig, p.streamThreshold)
	if streaming {
		p.epoch.StreamInserts++
		p.lifetime.StreamInserts++
	}

	*l = LineState{
		Valid:       true,
		RRPV:        p.insertionRRPV(sig, streaming),
		Signature:   sig,
		IsStreaming: streaming,
	}
}

func (p *Policy) evict(l *LineState) {
	if l.HasHit {
		return
	}

	p.sigs.penalize(l.Signature)

	if l.IsStreaming {
		p.epoch.StreamMisses++
		p.lifetime.StreamMisses++
	}
}

func (p *Policy) insertionRRPV(sig uint32, streaming bool) uint8 {
	switch {
	case p.sigs.isHot(sig):
		return 0
	case streaming:
		return 1
	default:
		return MaxRRPV
	}
}
