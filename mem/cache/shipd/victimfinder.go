package shipd

// findVictimWay returns the lowest invalid way if there is one. Otherwise it
// returns the lowest way with a saturated RRPV, aging the set until such a
// way exists.
func (p *Policy) findVictimWay(setID int) int {
	lines := p.setLines(setID)

	for w := range lines {
		if !lines[w].Valid {
			return w
		}
	}

	// Each aging pass moves the oldest line one step closer to MaxRRPV, so
	// the scan succeeds after at most MaxRRPV passes.
	for range MaxRRPV + 1 {
		for w := range lines {
			if lines[w].RRPV == MaxRRPV {
				return w
			}
		}

		for w := range lines {
			if lines[w].RRPV < MaxRRPV {
				lines[w].RRPV++
			}
		}
	}

	panic("no line reached the maximum RRPV")
}
