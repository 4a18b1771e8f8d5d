package overworld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/grid"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(64, 32, 42)
	b := Generate(64, 32, 42)

	require.Equal(t, a.ID, b.ID)
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			require.Equal(t, a.Heightmap.Get(x, y), b.Heightmap.Get(x, y), "heightmap (%d,%d)", x, y)
			require.Equal(t, a.Biomes.Get(x, y), b.Biomes.Get(x, y), "biome (%d,%d)", x, y)
			require.Equal(t, a.SurfaceZ.Get(x, y), b.SurfaceZ.Get(x, y), "surface z (%d,%d)", x, y)
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a := Generate(64, 32, 1)
	b := Generate(64, 32, 2)

	differs := false
	for y := 0; y < a.Height && !differs; y++ {
		for x := 0; x < a.Width; x++ {
			if a.Biomes.Get(x, y) != b.Biomes.Get(x, y) {
				differs = true
				break
			}
		}
	}
	assert.True(t, differs, "different seeds should produce different biome maps")
}

func TestGenerateFieldsPopulated(t *testing.T) {
	w := Generate(64, 32, 7)

	assert.NotEmpty(t, w.Plates)
	assert.NotEmpty(t, w.WaterBodies, "a 64x32 world should detect at least one water body")

	land, water := 0, 0
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.Biomes.Get(x, y).IsWater() {
				water++
			} else {
				land++
			}
			s := w.Stress.Get(x, y)
			require.GreaterOrEqual(t, s, -1.0)
			require.LessOrEqual(t, s, 1.0)
			m := w.Moisture.Get(x, y)
			require.GreaterOrEqual(t, m, 0.0)
			require.LessOrEqual(t, m, 1.0)
		}
	}
	assert.Positive(t, land)
	assert.Positive(t, water)
}

func TestSurfaceZWithinBounds(t *testing.T) {
	w := Generate(48, 24, 99)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			z := w.SurfaceZ.Get(x, y)
			require.GreaterOrEqual(t, z, grid.ZMin+6)
			require.LessOrEqual(t, z, grid.ZMax-4)
		}
	}
}

func TestTileAtWraps(t *testing.T) {
	w := Generate(32, 16, 5)

	east := w.TileAt(-1, 4)
	assert.Equal(t, 31, east.X)

	clamped := w.TileAt(3, 999)
	assert.Equal(t, 15, clamped.Y)
}

func TestWaterBodiesConsistent(t *testing.T) {
	w := Generate(64, 32, 11)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			id := w.WaterBodyMap.Get(x, y)
			if w.Biomes.Get(x, y).IsWater() {
				require.NotZero(t, id, "water tile (%d,%d) must belong to a body", x, y)
			}
		}
	}
}
