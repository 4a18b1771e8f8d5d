package chunkcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/chunkstore"
	"darktower-backend/internal/localgen"
	"darktower-backend/internal/overworld"
)

func testWorld(t *testing.T) *overworld.WorldData {
	t.Helper()
	return overworld.Generate(64, 32, 12345)
}

func TestGetOrGenerateCachesChunk(t *testing.T) {
	w := testWorld(t)
	c := New(4)

	first := c.GetOrGenerate(w, nil, 10, 10)
	second := c.GetOrGenerate(w, nil, 10, 10)

	require.Same(t, first, second)
	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestLRUEvictionOrder(t *testing.T) {
	w := testWorld(t)
	c := New(4)

	// The eviction scenario: fill, touch the oldest, insert one more.
	c.GetOrGenerate(w, nil, 0, 10)
	c.GetOrGenerate(w, nil, 1, 10)
	c.GetOrGenerate(w, nil, 2, 10)
	c.GetOrGenerate(w, nil, 3, 10)
	c.GetOrGenerate(w, nil, 0, 10) // touch (0,10): now MRU
	c.GetOrGenerate(w, nil, 4, 10) // evicts (1,10), the LRU

	assert.True(t, c.Has(0, 10), "(0,10) was touched and must survive")
	assert.False(t, c.Has(1, 10), "(1,10) was least recently used")
	assert.True(t, c.Has(2, 10))
	assert.True(t, c.Has(3, 10))
	assert.True(t, c.Has(4, 10))
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestCapacityNeverExceeded(t *testing.T) {
	w := testWorld(t)
	c := New(3)

	for i := 0; i < 8; i++ {
		c.GetOrGenerate(w, nil, i, 8)
		require.LessOrEqual(t, c.Stats().Count, 3)
	}
}

func TestBoundaryConditionsFromResidentNeighbours(t *testing.T) {
	w := testWorld(t)
	c := New(8)

	c.GetOrGenerate(w, nil, 20, 10)
	bounds := c.BoundaryConditions(21, 10)

	require.NotNil(t, bounds.West, "west neighbour is resident")
	assert.Nil(t, bounds.East)
	assert.Nil(t, bounds.North)
	assert.Nil(t, bounds.South)
}

func TestSeamlessNeighbourGeneration(t *testing.T) {
	w := testWorld(t)
	c := New(8)

	a := c.GetOrGenerate(w, nil, 20, 10)
	b := c.GetOrGenerate(w, nil, 21, 10)

	east := a.ExtractEdge(localgen.EdgeEast)
	west := b.ExtractEdge(localgen.EdgeWest)
	for i := 0; i < localgen.LocalSize; i++ {
		for zi := 0; zi < a.ZCount(); zi++ {
			require.Equal(t, east.Tiles[i][zi], west.Tiles[i][zi], "seam at i=%d zi=%d", i, zi)
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	w := testWorld(t)
	store := chunkstore.NewFileStore(t.TempDir(), 12345)

	c1 := NewWithStore(4, store)
	generated := c1.GetOrGenerate(w, nil, 15, 12)
	require.Equal(t, 1, c1.Stats().DiskSaves)

	// A fresh cache sharing the store loads instead of regenerating.
	c2 := NewWithStore(4, store)
	loaded := c2.GetOrGenerate(w, nil, 15, 12)

	assert.True(t, generated.Equal(loaded))
	stats := c2.Stats()
	assert.Equal(t, 1, stats.DiskLoads)
	assert.Equal(t, 1, stats.Hits)
	assert.Zero(t, stats.Misses)
}

func TestValidatedGenerationPasses(t *testing.T) {
	w := testWorld(t)
	c := New(4)

	chunk, valid := c.GetOrGenerateValidated(w, nil, 12, 9, 2)

	require.NotNil(t, chunk)
	assert.True(t, valid)
	assert.True(t, chunk.Valid)
}

func TestClearResets(t *testing.T) {
	w := testWorld(t)
	c := New(4)
	c.GetOrGenerate(w, nil, 1, 1)

	c.Clear()

	assert.Zero(t, c.Stats().Count)
	assert.False(t, c.Has(1, 1))
}

func TestStatsSummary(t *testing.T) {
	w := testWorld(t)
	c := New(4)
	c.GetOrGenerate(w, nil, 2, 2)

	s := c.Stats().Summary()
	assert.Contains(t, s, "Hits: 0")
	assert.Contains(t, s, "Chunks: 1")
}
