package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTilemapGetSet(t *testing.T) {
	m := NewTilemap[int](8, 4)
	m.Set(3, 2, 42)

	assert.Equal(t, 42, m.Get(3, 2))
	assert.Equal(t, 0, m.Get(0, 0))
}

func TestTilemapRef(t *testing.T) {
	m := NewTilemap[float32](4, 4)
	*m.Ref(1, 1) = 2.5

	assert.InDelta(t, 2.5, m.Get(1, 1), 1e-6)
}

func TestTilemapClone(t *testing.T) {
	m := NewTilemap[int](4, 4)
	m.Set(0, 0, 7)

	c := m.Clone()
	c.Set(0, 0, 9)

	assert.Equal(t, 7, m.Get(0, 0))
	assert.Equal(t, 9, c.Get(0, 0))
}

func TestWrapX(t *testing.T) {
	assert.Equal(t, 0, WrapX(0, 64))
	assert.Equal(t, 63, WrapX(-1, 64))
	assert.Equal(t, 0, WrapX(64, 64))
	assert.Equal(t, 1, WrapX(129, 64))
}

func TestClampY(t *testing.T) {
	assert.Equal(t, 0, ClampY(-5, 32))
	assert.Equal(t, 31, ClampY(40, 32))
	assert.Equal(t, 15, ClampY(15, 32))
}

func TestDistanceWrapped(t *testing.T) {
	// The wrapping property from opposite map edges.
	assert.Equal(t, 1, DistanceWrapped(TileCoord{0, 5}, TileCoord{63, 5}, 64))
	assert.Equal(t, 2, DistanceWrapped(TileCoord{1, 5}, TileCoord{63, 5}, 64))
	assert.Equal(t, 10, DistanceWrapped(TileCoord{0, 0}, TileCoord{5, 5}, 64))
	// Y never wraps.
	assert.Equal(t, 31, DistanceWrapped(TileCoord{0, 0}, TileCoord{0, 31}, 64))
}

func TestGlobalLocalRoundTrip(t *testing.T) {
	cases := []GlobalLocal{
		{GX: 0, GY: 0},
		{GX: 47, GY: 47},
		{GX: 48, GY: 48},
		{GX: 48*32 + 17, GY: 48*16 + 3},
		{GX: -1, GY: -48},
	}
	for _, g := range cases {
		got := FromHierarchical(g.WorldTile(), g.LocalOffset())
		require.Equal(t, g, got, "round trip for %+v", g)
	}
}

func TestGlobalLocalDecomposition(t *testing.T) {
	g := FromHierarchical(TileCoord{X: 32, Y: 16}, LocalOffset{LX: 5, LY: 40})

	assert.Equal(t, TileCoord{X: 32, Y: 16}, g.WorldTile())
	assert.Equal(t, LocalOffset{LX: 5, LY: 40}, g.LocalOffset())
	assert.Equal(t, 32*48+5, g.GX)
}
