package shipd

// Signature folds a program counter into an index of the signature table.
func Signature(pc uint64) uint32 {
	return uint32((pc ^ (pc >> 12) ^ (pc >> 20)) & (SigTableSize - 1))
}

type sigEntry struct {
	shct      uint8
	stct      uint8
	lastBlock uint64
	hasLast   bool
}

// signatureTable is shared by all the sets. Signatures that collide share an
// entry.
type signatureTable struct {
	entries [SigTableSize]sigEntry
}

func (t *signatureTable) reset() {
	for i := range t.entries {
		t.entries[i] = sigEntry{
			shct: SHCTInit,
			stct: STCTInit,
		}
	}
}

// SignatureEntry is a read-only view of one signature table entry.
type SignatureEntry struct {
	SHCT         uint8
	STCT         uint8
	LastBlock    uint64
	HasLastBlock bool
}

func (t *signatureTable) view(sig uint32) SignatureEntry {
	e := t.entries[sig]

	return SignatureEntry{
		SHCT:         e.shct,
		STCT:         e.stct,
		LastBlock:    e.lastBlock,
		HasLastBlock: e.hasLast,
	}
}
