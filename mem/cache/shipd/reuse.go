package shipd

func (t *signatureTable) trainHit(sig uint32) {
	incSat(&t.entries[sig].shct, SHCTMax)
}

// penalize is applied to the signature of a line evicted without any hit.
func (t *signatureTable) penalize(sig uint32) {
	decSat(&t.entries[sig].shct)
}

func (t *signatureTable) isHot(sig uint32) bool {
	return t.entries[sig].shct >= SHCTThreshold
}
