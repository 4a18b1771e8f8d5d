package localgen

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"darktower-backend/internal/geology"
	"darktower-backend/internal/grid"
)

// Cave thresholds per cavern layer (upper, middle, deep). Lower values
// open more cave; a layer without cavern presence uses the closed value.
var caveThresholds = [3]float64{0.58, 0.52, 0.48}

const caveClosedThreshold = 0.78

// carveCaves opens cave tiles in underground stone using 3-D noise
// sampled at world-space coordinates, so cave systems continue across
// chunk boundaries without stitching.
func carveCaves(chunk *LocalChunk, geo *geology.Params, caveNoise *perlin.Perlin) {
	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			surface := chunk.LocalSurface(lx, ly)
			for z := ZMin; z < surface; z++ {
				t := chunk.Get(lx, ly, z)
				if t.Terrain.Kind != TerrainStone && t.Terrain.Kind != TerrainSoil {
					continue
				}

				layer := cavernLayerAt(geo, z)
				threshold := caveClosedThreshold
				if layer >= 0 && geo.CavernPresence[layer] {
					threshold = caveThresholds[layer]
				}

				if sampleCave(caveNoise, chunk.WorldX, chunk.WorldY, lx, ly, z) > threshold {
					tile := NewTile(Terrain{Kind: TerrainCaveFloor, Mat: MatStone})
					tile.Temperature = float32(geo.Temperature)
					// Flooded caves below the water table.
					if geo.HasAquifer && z < geo.AquiferZ {
						tile = NewTile(Terrain{Kind: TerrainShallowWater, Mat: MatWater})
					}
					chunk.Set(lx, ly, z, tile)
				}
			}
		}
	}
}

// sampleCave evaluates the 3-D cave field at a world-space position.
func sampleCave(caveNoise *perlin.Perlin, wx, wy, lx, ly, z int) float64 {
	nx := (float64(wx*LocalSize) + float64(lx)) * 0.05
	ny := (float64(wy*LocalSize) + float64(ly)) * 0.05
	nz := float64(z) * 0.08
	return caveNoise.Noise3D(nx, ny, nz)
}

// cavernLayerAt maps a z to its cavern layer index, or -1 when outside
// all layers.
func cavernLayerAt(geo *geology.Params, z int) int {
	for layer := 0; layer < 3; layer++ {
		lo, hi := geology.LayerBounds(layer, geo.SurfaceZ, grid.ZMin)
		if z >= lo && z <= hi {
			return layer
		}
	}
	return -1
}

// addCaveFeatures decorates open cave tiles with speleothems, fungus,
// and crystal by cavern layer.
func addCaveFeatures(chunk *LocalChunk, geo *geology.Params, r *rand.Rand) {
	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			for z := ZMin; z < chunk.SurfaceZ; z++ {
				t := chunk.Get(lx, ly, z)
				if t.Terrain.Kind != TerrainCaveFloor || t.Feature.Kind != FeatNone {
					continue
				}
				roll := r.Float64()
				layer := cavernLayerAt(geo, z)
				var feat Feature
				switch {
				case roll < 0.03:
					feat = Feature{Kind: FeatStalagmite}
				case roll < 0.06:
					feat = Feature{Kind: FeatStalactite}
				case roll < 0.08 && layer >= 1:
					feat = Feature{Kind: FeatMushroom}
				case roll < 0.09 && layer == 2:
					feat = Feature{Kind: FeatGiantMushroom}
				case roll < 0.10 && layer == 2:
					feat = Feature{Kind: FeatCrystal}
				case roll < 0.105:
					feat = Feature{Kind: FeatOreVein}
				default:
					continue
				}
				tile := t
				tile.Feature = feat
				chunk.Set(lx, ly, z, tile)
			}
		}
	}
}
