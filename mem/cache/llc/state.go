package llc

import (
	"fmt"

	"github.com/sarchlab/shipd/mem/cache/tagging"
	"github.com/sarchlab/shipd/sim/stateful"
)

type blockState struct {
	Tag   uint64 `json:"tag"`
	Set   int    `json:"set"`
	Way   int    `json:"way"`
	Dirty bool   `json:"dirty"`
}

type cacheState struct {
	NumSets       int          `json:"num_sets"`
	NumWays       int          `json:"num_ways"`
	Log2BlockSize int          `json:"log2_block_size"`
	Blocks        []blockState `json:"blocks"`
	Stats         Stats        `json:"stats"`
}

var _ stateful.State = (*Cache)(nil)

// Serialize captures the valid blocks and the counters of the cache. The
// victim finder is not included; it is saved as a state of its own.
func (c *Cache) Serialize() (map[string]any, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	s := cacheState{
		NumSets:       c.tags.NumSets(),
		NumWays:       c.tags.NumWays(),
		Log2BlockSize: c.log2BlockSize,
		Blocks:        []blockState{},
		Stats:         c.stats,
	}

	for setID := range c.tags.NumSets() {
		for _, b := range c.tags.GetSet(setID).Blocks {
			if !b.IsValid {
				continue
			}

			s.Blocks = append(s.Blocks, blockState{
				Tag: b.Tag, Set: b.SetID, Way: b.WayID, Dirty: b.IsDirty,
			})
		}
	}

	fields := map[string]any{}
	if err := stateful.Convert(s, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// Deserialize replaces the content of the cache with a state produced by
// Serialize.
func (c *Cache) Deserialize(fields map[string]any) error {
	s := cacheState{}
	if err := stateful.Convert(fields, &s); err != nil {
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if s.NumSets != c.tags.NumSets() || s.NumWays != c.tags.NumWays() ||
		s.Log2BlockSize != c.log2BlockSize {
		return fmt.Errorf(
			"checkpoint geometry %dx%d (block 2^%d) does not match %dx%d (block 2^%d)",
			s.NumSets, s.NumWays, s.Log2BlockSize,
			c.tags.NumSets(), c.tags.NumWays(), c.log2BlockSize)
	}

	if err := c.checkBlocks(s.Blocks); err != nil {
		return err
	}

	c.tags.Reset()

	for _, b := range s.Blocks {
		c.tags.Update(tagging.Block{
			Tag:     b.Tag,
			SetID:   b.Set,
			WayID:   b.Way,
			IsValid: true,
			IsDirty: b.Dirty,
		})
	}

	c.stats = s.Stats

	return nil
}

// checkBlocks makes sure every block fits the geometry and that no way and
// no tag appears twice.
func (c *Cache) checkBlocks(blocks []blockState) error {
	type location struct{ set, way int }

	usedWays := make(map[location]bool, len(blocks))
	seenTags := make(map[uint64]bool, len(blocks))

	for _, b := range blocks {
		if err := tagging.CheckSetIndex(b.Set, c.tags.NumSets()); err != nil {
			return err
		}

		if err := tagging.CheckWayIndex(b.Way, c.tags.NumWays()); err != nil {
			return err
		}

		if c.tags.SetIndex(b.Tag) != b.Set {
			return fmt.Errorf("block 0x%x does not belong to set %d",
				b.Tag, b.Set)
		}

		loc := location{b.Set, b.Way}
		if usedWays[loc] {
			return fmt.Errorf("set %d way %d holds more than one block",
				b.Set, b.Way)
		}

		if seenTags[b.Tag] {
			return fmt.Errorf("block 0x%x is cached more than once", b.Tag)
		}

		usedWays[loc] = true
		seenTags[b.Tag] = true
	}

	return nil
}
