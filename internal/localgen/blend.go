package localgen

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"darktower-backend/internal/geology"
	"darktower-backend/internal/overworld"
)

// cornerBiomes holds the diagonal neighbour biome at each chunk corner,
// used to blend transitions so chunk edges do not flip biome in a hard
// quadrant line.
type cornerBiomes struct {
	nw, ne, sw, se overworld.Biome
	own            overworld.Biome
}

func cornersFor(world *overworld.WorldData, wx, wy int) cornerBiomes {
	return cornerBiomes{
		own: world.BiomeAt(wx, wy),
		nw:  world.BiomeAt(wx-1, wy-1),
		ne:  world.BiomeAt(wx+1, wy-1),
		sw:  world.BiomeAt(wx-1, wy+1),
		se:  world.BiomeAt(wx+1, wy+1),
	}
}

// blendedBiome picks the biome governing a local cell. Corner weights are
// bilinear over the chunk; a Perlin match-noise field decides which biome
// wins near a corner, producing organic, non-linear transitions.
func blendedBiome(c cornerBiomes, match *perlin.Perlin, wx, wy, lx, ly int) overworld.Biome {
	u := float64(lx) / float64(LocalSize-1)
	v := float64(ly) / float64(LocalSize-1)

	corner := c.own
	weight := 0.0
	if w := (1 - u) * (1 - v); w > weight && c.nw != c.own {
		corner, weight = c.nw, w
	}
	if w := u * (1 - v); w > weight && c.ne != c.own {
		corner, weight = c.ne, w
	}
	if w := (1 - u) * v; w > weight && c.sw != c.own {
		corner, weight = c.sw, w
	}
	if w := u * v; w > weight && c.se != c.own {
		corner, weight = c.se, w
	}
	if weight < 0.25 || corner.IsWater() != c.own.IsWater() {
		// Too far from a foreign corner, or the transition would cross a
		// coastline; water edges are handled by the water column fill.
		return c.own
	}

	gx := float64(wx*LocalSize + lx)
	gy := float64(wy*LocalSize + ly)
	n := (match.Noise2D(gx*0.11, gy*0.11) + 1) / 2
	if n < weight {
		return corner
	}
	return c.own
}

// surfaceTerrain draws the top-tile terrain for a biome from its
// material distribution.
func surfaceTerrain(biome overworld.Biome, geo *geology.Params, r *rand.Rand) Terrain {
	roll := r.Float64()
	switch biome.Family() {
	case overworld.FamilyPolar:
		if roll < 0.6 {
			return Terrain{Kind: TerrainSnow, Mat: MatSnow}
		}
		return Terrain{Kind: TerrainIce, Mat: MatIce}
	case overworld.FamilyArid:
		if roll < 0.75 {
			return Terrain{Kind: TerrainSand, Mat: MatSand}
		}
		return Terrain{Kind: TerrainGravel, Mat: MatStone}
	case overworld.FamilyWetland:
		if roll < 0.55 {
			return Terrain{Kind: TerrainMud, Mat: MatMud}
		}
		return Grass()
	case overworld.FamilyHighland:
		switch {
		case roll < 0.4:
			return Terrain{Kind: TerrainGravel, Mat: MatStone}
		case roll < 0.7:
			return Stone(geo.PrimaryStone)
		default:
			return Grass()
		}
	case overworld.FamilyVolcanic:
		if roll < 0.5 {
			return Stone(geology.Basalt)
		}
		return Terrain{Kind: TerrainGravel, Mat: MatStone}
	case overworld.FamilyCoast:
		if roll < 0.8 {
			return Terrain{Kind: TerrainSand, Mat: MatSand}
		}
		return Terrain{Kind: TerrainGravel, Mat: MatStone}
	case overworld.FamilyBoreal:
		if roll < 0.3 {
			return Terrain{Kind: TerrainSnow, Mat: MatSnow}
		}
		return Grass()
	default:
		if roll < 0.92 {
			return Grass()
		}
		return Soil(geo.Soil)
	}
}
