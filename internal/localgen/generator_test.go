package localgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/overworld"
)

func testWorld(t *testing.T) *overworld.WorldData {
	t.Helper()
	return overworld.Generate(64, 32, 12345)
}

// fixedSites implements SiteSource with a static site list.
type fixedSites map[[2]int][]Site

func (f fixedSites) StructuresAt(wx, wy int) []Site {
	return f[[2]int{wx, wy}]
}

func landTile(t *testing.T, w *overworld.WorldData) (int, int) {
	t.Helper()
	for y := 2; y < w.Height-2; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.Biomes.Get(x, y).IsWater() {
				return x, y
			}
		}
	}
	t.Fatal("no land tile found")
	return 0, 0
}

func TestGenerateDeterministic(t *testing.T) {
	w := testWorld(t)
	wx, wy := 32, 16

	a := Generate(w, nil, wx, wy, nil)
	b := Generate(w, nil, wx, wy, nil)

	require.True(t, a.Equal(b), "repeated generation must be tile-for-tile identical")
}

func TestGenerateSurfaceZMatchesWorld(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	c := Generate(w, nil, wx, wy, nil)

	assert.Equal(t, w.SurfaceZ.Get(wx, wy), c.SurfaceZ)
	assert.True(t, c.Generated)
}

func TestEveryLandColumnHasSurface(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	c := Generate(w, nil, wx, wy, nil)

	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			z := c.LocalSurface(lx, ly)
			tile := c.Get(lx, ly, z)
			require.NotEqual(t, TerrainAir, tile.Terrain.Kind, "column (%d,%d)", lx, ly)
			require.False(t, tile.Terrain.IsWater(), "column (%d,%d)", lx, ly)
		}
	}
}

func TestColumnSurfaceDeviationClamped(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	c := Generate(w, nil, wx, wy, nil)

	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			z := c.LocalSurface(lx, ly)
			dev := z - c.SurfaceZ
			require.GreaterOrEqual(t, dev, -3, "column (%d,%d)", lx, ly)
			require.LessOrEqual(t, dev, 3, "column (%d,%d)", lx, ly)
		}
	}
}

func TestWaterNeverOnConstructed(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	sites := fixedSites{{wx, wy}: {{Kind: SiteVillage, Z: w.SurfaceZ.Get(wx, wy)}}}
	c := Generate(w, sites, wx, wy, nil)

	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			for z := ZMin; z <= ZMax; z++ {
				tile := c.Get(lx, ly, z)
				if tile.Terrain.IsWater() {
					require.False(t, tile.Terrain.IsConstructed())
				}
			}
		}
	}
}

func TestBoundaryEdgeEquality(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	a := Generate(w, nil, wx, wy, nil)
	east := a.ExtractEdge(EdgeEast)

	bounds := &BoundaryConditions{West: east}
	b := Generate(w, nil, wx+1, wy, bounds)
	west := b.ExtractEdge(EdgeWest)

	for i := 0; i < LocalSize; i++ {
		for zi := 0; zi < a.ZCount(); zi++ {
			require.Equal(t, east.Tiles[i][zi], west.Tiles[i][zi],
				"edge mismatch at i=%d zi=%d", i, zi)
		}
	}
}

func TestGenerateWithBoundariesDeterministic(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	a := Generate(w, nil, wx, wy, nil)
	bounds := &BoundaryConditions{West: a.ExtractEdge(EdgeEast)}

	b1 := Generate(w, nil, wx+1, wy, bounds)
	b2 := Generate(w, nil, wx+1, wy, bounds)

	require.True(t, b1.Equal(b2))
}

func TestVillageStructure(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	sites := fixedSites{{wx, wy}: {{Kind: SiteVillage, Z: w.SurfaceZ.Get(wx, wy)}}}
	c := Generate(w, sites, wx, wy, nil)

	doors, floors := 0, 0
	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			tile := c.Get(lx, ly, c.SurfaceZ)
			if tile.Feature.Kind == FeatDoor {
				doors++
			}
			if tile.Terrain.Kind == TerrainConstructedFloor {
				floors++
			}
		}
	}
	assert.GreaterOrEqual(t, doors, 3, "each building needs a door")
	assert.Greater(t, floors, 50, "plaza plus roads plus interiors")
}

func TestDungeonAccessibility(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)
	surfZ := w.SurfaceZ.Get(wx, wy)
	dungeonTop := surfZ - 6

	sites := fixedSites{{wx, wy}: {{Kind: SiteDungeon, Z: dungeonTop}}}
	c := Generate(w, sites, wx, wy, nil)

	// A stairs-down must exist at some column's local surface.
	var entrance [2]int
	found := false
	for ly := 0; ly < LocalSize && !found; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			z := c.LocalSurface(lx, ly)
			if c.Get(lx, ly, z).Feature.Kind == FeatStairsDown {
				entrance = [2]int{lx, ly}
				found = true
				break
			}
		}
	}
	require.True(t, found, "dungeon entrance stairs missing")

	// BFS from the entrance must reach the dungeon's top level.
	reached := bfsReachesZ(c, entrance[0], entrance[1], c.LocalSurface(entrance[0], entrance[1]), dungeonTop)
	assert.True(t, reached, "no passable path from surface to dungeon top level")
}

// bfsReachesZ walks passable tiles, descending through vertical features,
// and reports whether any tile at or below targetZ is reached.
func bfsReachesZ(c *LocalChunk, sx, sy, sz, targetZ int) bool {
	type pos struct{ x, y, z int }
	visited := map[pos]bool{}
	queue := []pos{{sx, sy, sz}}
	visited[queue[0]] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p.z <= targetZ {
			return true
		}
		tile := c.Get(p.x, p.y, p.z)
		next := []pos{}
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			next = append(next, pos{p.x + d[0], p.y + d[1], p.z})
		}
		if tile.Feature.IsVertical() {
			next = append(next, pos{p.x, p.y, p.z - 1}, pos{p.x, p.y, p.z + 1})
		}
		for _, n := range next {
			if n.x < 0 || n.x >= LocalSize || n.y < 0 || n.y >= LocalSize || n.z < ZMin || n.z > ZMax {
				continue
			}
			if visited[n] {
				continue
			}
			if !c.Get(n.x, n.y, n.z).IsPassable() {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}

func TestCastleStructure(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	sites := fixedSites{{wx, wy}: {{Kind: SiteCastle, Z: w.SurfaceZ.Get(wx, wy)}}}
	c := Generate(w, sites, wx, wy, nil)

	walls, gates := 0, 0
	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			tile := c.Get(lx, ly, c.SurfaceZ)
			if tile.Terrain.Kind == TerrainFortressWall {
				walls++
			}
			if tile.Feature.Kind == FeatDoor && tile.Terrain.Kind == TerrainConstructedFloor {
				gates++
			}
		}
	}
	assert.Greater(t, walls, 50, "castle needs its enclosure")
	assert.GreaterOrEqual(t, gates, 1, "castle needs a gate")
}

func TestChunkSummary(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	c := Generate(w, nil, wx, wy, nil)
	s := c.Summarize()

	assert.Equal(t, wx, s.WorldX)
	assert.Equal(t, c.SurfaceZ, s.SurfaceZ)
	assert.True(t, s.Valid)
}
