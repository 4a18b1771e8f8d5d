package region

import (
	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
)

// DefaultCapacity is the default resident region count.
const DefaultCapacity = 25

type cacheKey struct {
	wx, wy int
	lod    LOD
}

type cacheEntry struct {
	region *Region
	tick   uint64
}

// Cache holds refined regions with eviction by distance from the cursor
// first and LRU second, so zooming around the cursor stays warm.
type Cache struct {
	world    *overworld.WorldData
	capacity int
	entries  map[cacheKey]*cacheEntry
	tick     uint64
	cursorX  int
	cursorY  int
}

// NewCache creates a region cache for one world.
func NewCache(world *overworld.WorldData, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		world:    world,
		capacity: capacity,
		entries:  make(map[cacheKey]*cacheEntry, capacity),
	}
}

// SetCursor updates the view position driving eviction priority.
func (c *Cache) SetCursor(wx, wy int) {
	c.cursorX, c.cursorY = c.world.Wrap(wx, wy)
}

// Len returns the resident region count.
func (c *Cache) Len() int { return len(c.entries) }

// Get returns the refined region, generating and caching it if needed.
func (c *Cache) Get(wx, wy int, lod LOD) *Region {
	wx, wy = c.world.Wrap(wx, wy)
	k := cacheKey{wx, wy, lod}
	c.tick++

	if e, ok := c.entries[k]; ok {
		e.tick = c.tick
		return e.region
	}

	if len(c.entries) >= c.capacity {
		c.evict()
	}
	r := Generate(c.world, wx, wy, lod)
	c.entries[k] = &cacheEntry{region: r, tick: c.tick}
	return r
}

// evict drops the entry farthest from the cursor, breaking ties by LRU.
func (c *Cache) evict() {
	var victim cacheKey
	bestDist := -1
	var bestTick uint64
	for k, e := range c.entries {
		d := grid.DistanceWrapped(
			grid.TileCoord{X: k.wx, Y: k.wy},
			grid.TileCoord{X: c.cursorX, Y: c.cursorY},
			c.world.Width,
		)
		if d > bestDist || (d == bestDist && e.tick < bestTick) {
			bestDist = d
			bestTick = e.tick
			victim = k
		}
	}
	delete(c.entries, victim)
}
