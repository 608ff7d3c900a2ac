package tagging

// A VictimFinder decides which block should be evicted and learns from the
// outcome of every access.
//
// The cache calls SelectVictim on every miss, before installing the new
// block, and RecordOutcome after every access, hit or miss. Calls for the same
// access must come in that order.
type VictimFinder interface {
	// SelectVictim returns the way that the missing access should be
	// installed into. set holds the live contents of the set.
	SelectVictim(setID int, set *Set, access Access) (wayID int, err error)

	// RecordOutcome updates the policy after an access resolves. victimAddr
	// is the address of the evicted block, if any.
	RecordOutcome(
		setID, wayID int,
		access Access,
		victimAddr uint64,
		hit bool,
	) error
}

// LRUVictimFinder evicts the least recently used block.
type LRUVictimFinder struct {
	numWays   int
	lruQueues [][]int
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder(numSets, numWays int) *LRUVictimFinder {
	e := &LRUVictimFinder{
		numWays:   numWays,
		lruQueues: make([][]int, numSets),
	}

	for i := range e.lruQueues {
		e.lruQueues[i] = make([]int, numWays)
		for j := range numWays {
			e.lruQueues[i][j] = j
		}
	}

	return e
}

// SelectVictim returns the least recently used block in a set.
func (e *LRUVictimFinder) SelectVictim(
	setID int,
	set *Set,
	_ Access,
) (int, error) {
	if err := CheckSetIndex(setID, len(e.lruQueues)); err != nil {
		return 0, err
	}

	queue := e.lruQueues[setID]

	// First try evicting an empty block
	if set != nil {
		for _, wayID := range queue {
			if !set.Blocks[wayID].IsValid {
				return wayID, nil
			}
		}
	}

	return queue[0], nil
}

// RecordOutcome moves the accessed block to the most recently used position.
func (e *LRUVictimFinder) RecordOutcome(
	setID, wayID int,
	_ Access,
	_ uint64,
	_ bool,
) error {
	if err := CheckSetIndex(setID, len(e.lruQueues)); err != nil {
		return err
	}

	if err := CheckWayIndex(wayID, e.numWays); err != nil {
		return err
	}

	e.visit(setID, wayID)

	return nil
}

// LRUQueue returns the ways of a set from least to most recently used.
func (e *LRUVictimFinder) LRUQueue(setID int) []int {
	return append([]int(nil), e.lruQueues[setID]...)
}

func (e *LRUVictimFinder) visit(setID, wayID int) {
	queue := e.lruQueues[setID]
	newQueue := make([]int, 0, len(queue))

	for _, w := range queue {
		if w != wayID {
			newQueue = append(newQueue, w)
		}
	}

	newQueue = append(newQueue, wayID)

	e.lruQueues[setID] = newQueue
}
