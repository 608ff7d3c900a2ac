// Package llc models a set-associative last-level cache that delegates every
// replacement decision to a tagging.VictimFinder.
package llc

import (
	"fmt"
	"sync"

	"github.com/sarchlab/shipd/mem/cache/tagging"
)

// AccessResult describes how the cache handled one access.
type AccessResult struct {
	Hit        bool
	SetID      int
	WayID      int
	Evicted    bool
	VictimAddr uint64
}

// Stats are the counters the cache keeps regardless of the policy.
type Stats struct {
	Accesses  uint64 `json:"accesses"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// HitRate returns the fraction of accesses that hit, as a percentage.
func (s Stats) HitRate() float64 {
	if s.Accesses == 0 {
		return 0
	}

	return 100 * float64(s.Hits) / float64(s.Accesses)
}

// Cache is a last-level cache. Its methods may be called from multiple
// goroutines; accesses are serialized so the policy sees a single timeline.
type Cache struct {
	name          string
	log2BlockSize int
	tags          tagging.TagArray
	victimFinder  tagging.VictimFinder

	lock  sync.Mutex
	stats Stats
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// Access looks up the block of a.Address and, on a miss, installs it in the
// way chosen by the victim finder.
func (c *Cache) Access(a tagging.Access) (AccessResult, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	blockAddr := a.Address >> c.log2BlockSize
	setID := c.tags.SetIndex(blockAddr)

	if block, ok := c.tags.Lookup(blockAddr); ok {
		return c.handleHit(setID, block, a)
	}

	return c.handleMiss(setID, blockAddr, a)
}

func (c *Cache) handleHit(
	setID int,
	block tagging.Block,
	a tagging.Access,
) (AccessResult, error) {
	err := c.victimFinder.RecordOutcome(setID, block.WayID, a, 0, true)
	if err != nil {
		return AccessResult{}, err
	}

	if a.Type == tagging.Writeback || a.Type == tagging.RFO {
		block.IsDirty = true
		c.tags.Update(block)
	}

	c.stats.Accesses++
	c.stats.Hits++

	return AccessResult{Hit: true, SetID: setID, WayID: block.WayID}, nil
}

func (c *Cache) handleMiss(
	setID int,
	blockAddr uint64,
	a tagging.Access,
) (AccessResult, error) {
	set := c.tags.GetSet(setID)

	wayID, err := c.victimFinder.SelectVictim(setID, set, a)
	if err != nil {
		return AccessResult{}, err
	}

	if err := tagging.CheckWayIndex(wayID, c.tags.NumWays()); err != nil {
		return AccessResult{}, fmt.Errorf("victim finder returned %w", err)
	}

	result := AccessResult{SetID: setID, WayID: wayID}

	victim := set.Blocks[wayID]
	if victim.IsValid {
		result.Evicted = true
		result.VictimAddr = victim.Tag << c.log2BlockSize
		c.stats.Evictions++
	}

	c.tags.Update(tagging.Block{
		Tag:     blockAddr,
		SetID:   setID,
		WayID:   wayID,
		IsValid: true,
		IsDirty: a.Type == tagging.Writeback || a.Type == tagging.RFO,
	})

	err = c.victimFinder.RecordOutcome(setID, wayID, a, result.VictimAddr, false)
	if err != nil {
		return AccessResult{}, err
	}

	c.stats.Accesses++
	c.stats.Misses++

	return result, nil
}

// Stats returns a copy of the cache counters.
func (c *Cache) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.stats
}

// Inspect runs f while no access is in progress, so that f can read the
// state of the victim finder consistently.
func (c *Cache) Inspect(f func(vf tagging.VictimFinder)) {
	c.lock.Lock()
	defer c.lock.Unlock()

	f(c.victimFinder)
}

// Snapshot is the state of a cache as shown in a monitor.
type Snapshot struct {
	Stats   Stats
	HitRate float64
	Policy  any
}

type snapshotter interface {
	Snapshot() any
}

// Snapshot returns the cache counters together with the snapshot of the
// victim finder, if the victim finder provides one.
func (c *Cache) Snapshot() any {
	c.lock.Lock()
	defer c.lock.Unlock()

	s := Snapshot{
		Stats:   c.stats,
		HitRate: c.stats.HitRate(),
	}

	if vf, ok := c.victimFinder.(snapshotter); ok {
		s.Policy = vf.Snapshot()
	}

	return s
}
