package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/overworld"
)

func testWorld(t *testing.T) *overworld.WorldData {
	t.Helper()
	return overworld.Generate(64, 32, 2024)
}

func TestGenerateDeterministic(t *testing.T) {
	w := testWorld(t)

	a := Generate(w, 10, 10, LODFull)
	b := Generate(w, 10, 10, LODFull)

	require.Equal(t, a.Tiles, b.Tiles)
}

func TestEdgeCoherenceWithoutStitching(t *testing.T) {
	w := testWorld(t)

	// Two horizontally adjacent regions: heights along the shared edge
	// must come out of the same world-space function. Adjacent columns
	// at the seam should differ no more than the in-region gradient.
	left := Generate(w, 10, 10, LODLow)
	right := Generate(w, 11, 10, LODLow)

	maxSeamJump := 0.0
	maxInner := 0.0
	for py := 0; py < Size; py++ {
		seam := absF(left.Tiles[py][Size-1].Height - right.Tiles[py][0].Height)
		if seam > maxSeamJump {
			maxSeamJump = seam
		}
		inner := absF(left.Tiles[py][Size-1].Height - left.Tiles[py][Size-2].Height)
		if inner > maxInner {
			maxInner = inner
		}
	}
	assert.LessOrEqual(t, maxSeamJump, maxInner*3+1,
		"seam discontinuity (%f) must stay within the in-region gradient scale (%f)", maxSeamJump, maxInner)
}

func TestLODLevels(t *testing.T) {
	w := testWorld(t)

	low := Generate(w, 5, 5, LODLow)
	full := Generate(w, 5, 5, LODFull)

	// Low carries no vegetation at all.
	for py := 0; py < Size; py++ {
		for px := 0; px < Size; px++ {
			require.Equal(t, VegNone, low.Tiles[py][px].Vegetation)
			require.False(t, low.Tiles[py][px].Rock)
		}
	}
	_ = full
}

func TestCacheGenerateOnce(t *testing.T) {
	w := testWorld(t)
	c := NewCache(w, 4)

	a := c.Get(3, 3, LODFull)
	b := c.Get(3, 3, LODFull)

	assert.Same(t, a, b)
}

func TestCacheDistanceEviction(t *testing.T) {
	w := testWorld(t)
	c := NewCache(w, 3)
	c.SetCursor(0, 0)

	c.Get(0, 0, LODLow)
	c.Get(1, 0, LODLow)
	c.Get(30, 15, LODLow) // far away
	c.Get(2, 0, LODLow)   // forces eviction

	assert.Equal(t, 3, c.Len())
	// The far region was evicted; nearby ones survived.
	near := c.Get(0, 0, LODLow)
	assert.NotNil(t, near)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
