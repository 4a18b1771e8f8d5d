// Package chunkcache provides the LRU cache over local chunks with
// optional persistence and neighbour-edge boundary assembly, so chunks
// generate seamlessly in any access order.
package chunkcache

import (
	"container/list"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"darktower-backend/internal/chunkstore"
	"darktower-backend/internal/localgen"
	"darktower-backend/internal/metrics"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/verify"
)

// DefaultCapacity is the default number of resident chunks.
const DefaultCapacity = 25

// Stats are the cache counters.
type Stats struct {
	Hits        int
	Misses      int
	Evictions   int
	DiskLoads   int
	DiskSaves   int
	Count       int
	MemoryBytes int
}

// HitRate is hits over total accesses.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Summary formats the stats for logs.
func (s Stats) Summary() string {
	return fmt.Sprintf("Hits: %d | Misses: %d | Rate: %.1f%% | Chunks: %d | Mem: %.1fMB",
		s.Hits, s.Misses, s.HitRate()*100, s.Count, float64(s.MemoryBytes)/(1024*1024))
}

type key struct{ wx, wy int }

type entry struct {
	chunk *localgen.LocalChunk
	elem  *list.Element
}

// Cache is an LRU chunk cache. Single-threaded cooperative use: a
// reference returned by GetOrGenerate stays valid until the next
// mutating call.
type Cache struct {
	capacity int
	entries  map[key]*entry
	lru      *list.List // front = LRU, back = MRU
	store    chunkstore.Store
	stats    Stats
}

// New creates a cache with the given capacity and no persistence.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[key]*entry, capacity),
		lru:      list.New(),
	}
}

// NewWithStore creates a cache backed by a persistent chunk store.
func NewWithStore(capacity int, store chunkstore.Store) *Cache {
	c := New(capacity)
	c.store = store
	return c
}

// Stats returns a copy of the counters.
func (c *Cache) Stats() Stats {
	c.stats.Count = len(c.entries)
	c.stats.MemoryBytes = 0
	for _, e := range c.entries {
		c.stats.MemoryBytes += e.chunk.MemorySize()
	}
	return c.stats
}

// Has reports whether a chunk is resident in memory.
func (c *Cache) Has(wx, wy int) bool {
	_, ok := c.entries[key{wx, wy}]
	return ok
}

// Peek returns a resident chunk without touching LRU order, or nil.
func (c *Cache) Peek(wx, wy int) *localgen.LocalChunk {
	if e, ok := c.entries[key{wx, wy}]; ok {
		return e.chunk
	}
	return nil
}

// Clear drops every resident chunk and resets the counters.
func (c *Cache) Clear() {
	c.entries = make(map[key]*entry, c.capacity)
	c.lru.Init()
	c.stats = Stats{}
}

// touch promotes an entry to MRU.
func (c *Cache) touch(e *entry) {
	c.lru.MoveToBack(e.elem)
}

// insert adds a chunk, evicting the LRU entry when over capacity.
func (c *Cache) insert(k key, chunk *localgen.LocalChunk) {
	if e, ok := c.entries[k]; ok {
		e.chunk = chunk
		c.touch(e)
		return
	}
	if len(c.entries) >= c.capacity {
		front := c.lru.Front()
		if front != nil {
			victim := front.Value.(key)
			c.lru.Remove(front)
			delete(c.entries, victim)
			c.stats.Evictions++
			metrics.RecordEviction()
			log.Debug().Int("wx", victim.wx).Int("wy", victim.wy).Msg("Chunk evicted")
		}
	}
	elem := c.lru.PushBack(k)
	c.entries[k] = &entry{chunk: chunk, elem: elem}
	metrics.SetCacheSize(len(c.entries), c.approxMemory())
}

func (c *Cache) approxMemory() int {
	total := 0
	for _, e := range c.entries {
		total += e.chunk.MemorySize()
	}
	return total
}

// BoundaryConditions assembles edges from whichever neighbours are
// currently resident in memory.
func (c *Cache) BoundaryConditions(wx, wy int) *localgen.BoundaryConditions {
	bounds := &localgen.BoundaryConditions{}

	// A neighbour's face touching us becomes our edge on that side.
	if n := c.Peek(wx, wy-1); n != nil {
		bounds.North = n.ExtractEdge(localgen.EdgeSouth)
	}
	if n := c.Peek(wx, wy+1); n != nil {
		bounds.South = n.ExtractEdge(localgen.EdgeNorth)
	}
	if n := c.Peek(wx+1, wy); n != nil {
		bounds.East = n.ExtractEdge(localgen.EdgeWest)
	}
	if n := c.Peek(wx-1, wy); n != nil {
		bounds.West = n.ExtractEdge(localgen.EdgeEast)
	}
	return bounds
}

// GetOrGenerate returns the chunk at (wx, wy): memory hit, then store
// hit, then generation with boundary conditions from loaded neighbours.
func (c *Cache) GetOrGenerate(world *overworld.WorldData, src localgen.SiteSource, wx, wy int) *localgen.LocalChunk {
	chunk, _ := c.getOrGenerate(world, src, wx, wy, -1)
	return chunk
}

// GetOrGenerateValidated is GetOrGenerate plus inline verification.
// Critical boundary, geology, z-reachability or structure-presence
// failures trigger regeneration with the same boundaries, up to maxRetries. Returns the chunk and whether it
// ultimately passed; a still-failing chunk is cached marked invalid (a
// slightly wrong chunk beats no chunk).
func (c *Cache) GetOrGenerateValidated(world *overworld.WorldData, src localgen.SiteSource, wx, wy, maxRetries int) (*localgen.LocalChunk, bool) {
	return c.getOrGenerate(world, src, wx, wy, maxRetries)
}

func (c *Cache) getOrGenerate(world *overworld.WorldData, src localgen.SiteSource, wx, wy, maxRetries int) (*localgen.LocalChunk, bool) {
	k := key{wx, wy}

	if e, ok := c.entries[k]; ok {
		c.stats.Hits++
		metrics.RecordCacheHit()
		c.touch(e)
		return e.chunk, e.chunk.Valid
	}

	// Store hit counts as a hit: the chunk existed.
	if c.store != nil {
		if chunk, err := c.store.Load(wx, wy); err != nil {
			log.Warn().Err(err).Int("wx", wx).Int("wy", wy).Msg("Chunk store load failed; generating instead")
		} else if chunk != nil {
			c.stats.DiskLoads++
			c.stats.Hits++
			metrics.RecordDiskLoad()
			metrics.RecordCacheHit()
			c.insert(k, chunk)
			return chunk, chunk.Valid
		}
	}

	c.ensureNeighboursLoaded(world, wx, wy)
	bounds := c.BoundaryConditions(wx, wy)

	start := time.Now()
	chunk := localgen.Generate(world, src, wx, wy, bounds)
	metrics.ObserveChunkGeneration(time.Since(start).Seconds())

	valid := true
	if maxRetries >= 0 {
		chunk, valid = c.validate(world, src, chunk, bounds, wx, wy, maxRetries)
	}

	if c.store != nil {
		if err := c.store.Save(chunk); err != nil {
			// Persistence failures degrade to in-memory-only.
			log.Warn().Err(err).Int("wx", wx).Int("wy", wy).Msg("Chunk save failed")
		} else {
			c.stats.DiskSaves++
			metrics.RecordDiskSave()
		}
	}

	c.stats.Misses++
	metrics.RecordCacheMiss()
	c.insert(k, chunk)
	return chunk, valid
}

// validate verifies a freshly generated chunk, regenerating on critical
// boundary, geology, z-reachability or structure-presence failures. Boundaries are held fixed across retries:
// any surviving non-determinism is an implementation bug, not noise to
// retry through.
func (c *Cache) validate(world *overworld.WorldData, src localgen.SiteSource, chunk *localgen.LocalChunk, bounds *localgen.BoundaryConditions, wx, wy, maxRetries int) (*localgen.LocalChunk, bool) {
	var sites []localgen.Site
	if src != nil {
		sites = src.StructuresAt(wx, wy)
	}

	for attempt := 0; ; attempt++ {
		report := verify.Chunk(world, chunk, sites, bounds)
		if !report.HasCriticalIn(verify.CategoryBoundaryCoherence, verify.CategoryGeologyConsistency, verify.CategoryZReachability, verify.CategoryStructurePresence) {
			return chunk, true
		}
		if attempt >= maxRetries {
			log.Warn().
				Int("wx", wx).Int("wy", wy).
				Int("attempts", attempt+1).
				Str("status", report.Status().String()).
				Msg("Chunk failed critical verification; caching as invalid")
			chunk.Valid = false
			return chunk, false
		}
		log.Info().Int("wx", wx).Int("wy", wy).Int("attempt", attempt+1).Msg("Regenerating chunk after failed verification")
		chunk = localgen.Generate(world, src, wx, wy, bounds)
	}
}

// ensureNeighboursLoaded pulls persisted neighbours into memory so the
// boundary conditions include chunks from earlier sessions.
func (c *Cache) ensureNeighboursLoaded(world *overworld.WorldData, wx, wy int) {
	if c.store == nil {
		return
	}
	for _, n := range [4][2]int{{wx, wy - 1}, {wx, wy + 1}, {wx + 1, wy}, {wx - 1, wy}} {
		nx, ny := n[0], n[1]
		if ny < 0 || ny >= world.Height {
			continue
		}
		if c.Has(nx, ny) {
			continue
		}
		chunk, err := c.store.Load(nx, ny)
		if err != nil || chunk == nil {
			continue
		}
		c.stats.DiskLoads++
		metrics.RecordDiskLoad()
		c.insert(key{nx, ny}, chunk)
	}
}
