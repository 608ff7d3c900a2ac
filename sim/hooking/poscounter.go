package hooking

import (
	"sync"
)

// PosCounter counts how many times each hook position is triggered.
type PosCounter struct {
	lock     sync.Mutex
	posNames []string
	count    map[string]uint64
}

// NewPosCounter creates a new PosCounter.
func NewPosCounter() *PosCounter {
	return &PosCounter{
		count: make(map[string]uint64),
	}
}

// Func counts the invocation.
func (c *PosCounter) Func(ctx HookCtx) {
	c.lock.Lock()
	defer c.lock.Unlock()

	name := ctx.Pos.Name
	if _, ok := c.count[name]; !ok {
		c.posNames = append(c.posNames, name)
	}

	c.count[name]++
}

// PosNames returns the names of the positions seen, in first-seen order.
func (c *PosCounter) PosNames() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]string(nil), c.posNames...)
}

// Count returns the number of invocations at the given position.
func (c *PosCounter) Count(pos *HookPos) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.count[pos.Name]
}
