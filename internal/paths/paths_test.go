package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
)

// flatWorld builds a uniform grassland world for cost-isolated tests.
func flatWorld(width, height int) *overworld.WorldData {
	w := &overworld.WorldData{
		Seed:         1,
		Width:        width,
		Height:       height,
		Heightmap:    grid.NewTilemap[float64](width, height),
		Temperature:  grid.NewTilemap[float64](width, height),
		Moisture:     grid.NewTilemap[float64](width, height),
		Biomes:       grid.NewTilemap[overworld.Biome](width, height),
		Stress:       grid.NewTilemap[float64](width, height),
		PlateMap:     grid.NewTilemap[overworld.PlateID](width, height),
		SurfaceZ:     grid.NewTilemap[int](width, height),
		WaterBodyMap: grid.NewTilemap[overworld.WaterBodyID](width, height),
		FlowAccum:    grid.NewTilemap[float64](width, height),
	}
	w.Biomes.Fill(overworld.BiomeGrassland)
	return w
}

// mapRoads is an in-memory road layer.
type mapRoads map[[2]int]bool

func (m mapRoads) HasRoad(x, y int) bool { return m[[2]int{x, y}] }
func (m mapRoads) MarkRoad(x, y int)     { m[[2]int{x, y}] = true }

func TestFindPathEndpoints(t *testing.T) {
	w := flatWorld(32, 16)
	b := NewBuilder(w, mapRoads{})

	path := b.FindPath(grid.TileCoord{X: 2, Y: 3}, grid.TileCoord{X: 20, Y: 9})

	require.NotEmpty(t, path)
	assert.Equal(t, grid.TileCoord{X: 2, Y: 3}, path[0])
	assert.Equal(t, grid.TileCoord{X: 20, Y: 9}, path[len(path)-1])
}

func TestFindPathAvoidsWater(t *testing.T) {
	w := flatWorld(32, 16)
	// A lake wall with a gap at the top.
	for y := 2; y < 16; y++ {
		w.Biomes.Set(16, y, overworld.BiomeLake)
	}
	b := NewBuilder(w, mapRoads{})

	path := b.FindPath(grid.TileCoord{X: 4, Y: 8}, grid.TileCoord{X: 28, Y: 8})

	for _, c := range path {
		assert.False(t, w.BiomeAt(c.X, c.Y).IsWater(), "path crosses water at %+v", c)
	}
}

func TestRoadConvergence(t *testing.T) {
	w := flatWorld(32, 16)
	roads := mapRoads{}
	b := NewBuilder(w, roads)

	first := b.FindPath(grid.TileCoord{X: 0, Y: 0}, grid.TileCoord{X: 10, Y: 0})
	b.ApplyPath(first)

	second := b.FindPath(grid.TileCoord{X: 0, Y: 1}, grid.TileCoord{X: 10, Y: 1})

	// The parallel-road penalty forbids hugging: every cell is either on
	// the existing road or not adjacent to it... except at the endpoints,
	// which are pinned one cell away.
	onRoad := 0
	for _, c := range second {
		if roads.HasRoad(c.X, c.Y) {
			onRoad++
		}
	}
	assert.GreaterOrEqual(t, onRoad, len(second)*6/10,
		"second route should merge onto the existing road (got %d/%d)", onRoad, len(second))
}

func TestWrappedPathTakesShortWay(t *testing.T) {
	w := flatWorld(64, 16)
	b := NewBuilder(w, mapRoads{})

	path := b.FindPath(grid.TileCoord{X: 1, Y: 8}, grid.TileCoord{X: 62, Y: 8})

	require.NotEmpty(t, path)
	assert.Less(t, len(path), 10, "path should wrap across the seam, not cross the map")
}

func TestBresenhamEndpoints(t *testing.T) {
	path := Bresenham(grid.TileCoord{X: 0, Y: 0}, grid.TileCoord{X: 10, Y: 4}, 64)

	require.NotEmpty(t, path)
	assert.Equal(t, grid.TileCoord{X: 0, Y: 0}, path[0])
	assert.Equal(t, grid.TileCoord{X: 10, Y: 4}, path[len(path)-1])
}

func TestBresenhamWraps(t *testing.T) {
	path := Bresenham(grid.TileCoord{X: 1, Y: 0}, grid.TileCoord{X: 62, Y: 0}, 64)

	assert.LessOrEqual(t, len(path), 5, "wrapped line is 3 steps, not 61")
	assert.Equal(t, grid.TileCoord{X: 62, Y: 0}, path[len(path)-1])
}

func TestFallbackKeepsEndpoints(t *testing.T) {
	w := flatWorld(16, 8)
	// Water walls at x=4-5 and x=10-11 cut the wrapped map into two
	// regions with start and target on different sides: A* finds nothing
	// and Bresenham takes over.
	for y := 0; y < 8; y++ {
		for x := 10; x < 12; x++ {
			w.Biomes.Set(x, y, overworld.BiomeOcean)
		}
		for x := 4; x < 6; x++ {
			w.Biomes.Set(x, y, overworld.BiomeOcean)
		}
	}
	b := NewBuilder(w, mapRoads{})

	from := grid.TileCoord{X: 2, Y: 4}
	to := grid.TileCoord{X: 8, Y: 4}
	path := b.FindPath(from, to)

	require.NotEmpty(t, path)
	assert.Equal(t, from, path[0])
	assert.Equal(t, to, path[len(path)-1])
}

func TestApplyPathMarksRoads(t *testing.T) {
	w := flatWorld(32, 16)
	roads := mapRoads{}
	b := NewBuilder(w, roads)

	path := b.FindPath(grid.TileCoord{X: 0, Y: 5}, grid.TileCoord{X: 8, Y: 5})
	b.ApplyPath(path)

	for _, c := range path {
		assert.True(t, roads.HasRoad(c.X, c.Y))
	}
}
