// Package tagging provides the vocabulary shared by last-level-cache models
// and their replacement policies: blocks, sets, accesses, and the contract a
// replacement policy fulfills.
package tagging

// TagArray tracks which block address each way of each set holds.
type TagArray interface {
	Lookup(blockAddr uint64) (Block, bool)
	Update(block Block)
	GetSet(setID int) *Set
	SetIndex(blockAddr uint64) int
	NumSets() int
	NumWays() int
	Reset()
}

// NewTagArray creates a tag array with all the blocks invalid.
func NewTagArray(numSets, numWays int) TagArray {
	if numSets <= 0 || numWays <= 0 {
		panic("tag array must have at least one set and one way")
	}

	t := &tagArrayImpl{
		numSets: numSets,
		numWays: numWays,
	}

	t.Reset()

	return t
}

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
	IsDirty bool
}

// A Set is a list of blocks where a certain piece memory can be stored at.
type Set struct {
	Blocks []Block
}

// FirstInvalidWay returns the lowest way that holds no valid block, or -1.
func (s *Set) FirstInvalidWay() int {
	for i := range s.Blocks {
		if !s.Blocks[i].IsValid {
			return i
		}
	}

	return -1
}

type tagArrayImpl struct {
	numSets int
	numWays int
	sets    []Set
}

func (d *tagArrayImpl) NumSets() int {
	return d.numSets
}

func (d *tagArrayImpl) NumWays() int {
	return d.numWays
}

// SetIndex returns the set that a block address maps to.
func (d *tagArrayImpl) SetIndex(blockAddr uint64) int {
	return int(blockAddr % uint64(d.numSets))
}

// GetSet returns the set with the given index.
func (d *tagArrayImpl) GetSet(setID int) *Set {
	return &d.sets[setID]
}

// Lookup finds the valid block that holds blockAddr.
func (d *tagArrayImpl) Lookup(blockAddr uint64) (Block, bool) {
	set := d.GetSet(d.SetIndex(blockAddr))
	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == blockAddr {
			return block, true
		}
	}

	return Block{}, false
}

// Update updates the block information
func (d *tagArrayImpl) Update(block Block) {
	d.sets[block.SetID].Blocks[block.WayID] = block
}

// Reset will mark all the blocks in the directory invalid
func (d *tagArrayImpl) Reset() {
	d.sets = make([]Set, d.numSets)
	for i := 0; i < d.numSets; i++ {
		d.sets[i].Blocks = make([]Block, d.numWays)
		for j := 0; j < d.numWays; j++ {
			d.sets[i].Blocks[j] = Block{
				SetID: i,
				WayID: j,
			}
		}
	}
}
