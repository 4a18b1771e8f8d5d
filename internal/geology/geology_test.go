package geology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/overworld"
)

func testWorld(t *testing.T) *overworld.WorldData {
	t.Helper()
	return overworld.Generate(64, 32, 42)
}

func TestDeriveDeterministic(t *testing.T) {
	w := testWorld(t)

	a := Derive(w, 10, 10)
	b := Derive(w, 10, 10)
	require.Equal(t, a, b)
}

func TestDeriveSurfaceMatchesWorld(t *testing.T) {
	w := testWorld(t)

	for _, c := range [][2]int{{0, 0}, {17, 5}, {63, 31}, {32, 16}} {
		p := Derive(w, c[0], c[1])
		assert.Equal(t, w.SurfaceZ.Get(c[0], c[1]), p.SurfaceZ)
		assert.Equal(t, w.Biomes.Get(c[0], c[1]), p.Biome)
	}
}

func TestVolcanicStone(t *testing.T) {
	w := testWorld(t)
	found := false
	for y := 0; y < w.Height && !found; y++ {
		for x := 0; x < w.Width; x++ {
			if w.Biomes.Get(x, y).Family() == overworld.FamilyVolcanic {
				p := Derive(w, x, y)
				assert.Equal(t, Basalt, p.PrimaryStone)
				assert.True(t, p.HasMagma)
				found = true
				break
			}
		}
	}
	if !found {
		t.Skip("no volcanic tiles in this world")
	}
}

func TestSoilDepthRanges(t *testing.T) {
	w := testWorld(t)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			p := Derive(w, x, y)
			require.GreaterOrEqual(t, p.SoilDepth, 1)
			require.LessOrEqual(t, p.SoilDepth, 8)
		}
	}
}

func TestAquiferBelowSurface(t *testing.T) {
	w := testWorld(t)
	checked := 0
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			p := Derive(w, x, y)
			if !p.HasAquifer {
				continue
			}
			checked++
			diff := p.SurfaceZ - p.AquiferZ
			require.GreaterOrEqual(t, diff, 2)
			require.LessOrEqual(t, diff, 6)
		}
	}
	assert.Positive(t, checked, "some tiles should carry an aquifer")
}

func TestLayerBoundsOrdered(t *testing.T) {
	for layer := 0; layer < 3; layer++ {
		lo, hi := LayerBounds(layer, 4, -24)
		assert.LessOrEqual(t, lo, hi, "layer %d", layer)
	}
}
