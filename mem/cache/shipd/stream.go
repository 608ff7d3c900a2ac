package shipd

// observeBlock trains the stream counter of sig with the block that sig is
// about to install. Only a block adjacent to the previous one counts as
// streaming evidence. The first block of a signature only records the
// address.
func (t *signatureTable) observeBlock(sig uint32, blockAddr uint64) {
	e := &t.entries[sig]

	if e.hasLast {
		delta := int64(blockAddr - e.lastBlock)
		if delta == 1 || delta == -1 {
			incSat(&e.stct, STCTMax)
		} else {
			decSat(&e.stct)
		}
	}

	e.lastBlock = blockAddr
	e.hasLast = true
}

func (t *signatureTable) isStreaming(sig uint32, threshold uint8) bool {
	return t.entries[sig].stct >= threshold
}

// resetStreaming forgets all streaming history. Reuse counters are kept.
func (t *signatureTable) resetStreaming() {
	for i := range t.entries {
		t.entries[i].stct = STCTInit
		t.entries[i].lastBlock = 0
		t.entries[i].hasLast = false
	}
}
