package localgen

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/rs/zerolog/log"

	"darktower-backend/internal/geology"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/rng"
)

// Magma pools below this z when the cell has magma.
const magmaCeilingZ = ZMin + 3

// Generate builds the local chunk for (wx, wy).
//
// The pipeline order is fixed and every pass draws from its own labelled
// substream of the chunk seed, so adding a pass never perturbs earlier
// ones; the biome-match and cave noise fields are seeded from the world
// seed instead, so they line up across chunks. For fixed (seed, wx, wy,
// boundaries) the output is tile-for-tile identical.
func Generate(world *overworld.WorldData, src SiteSource, wx, wy int, bounds *BoundaryConditions) *LocalChunk {
	geo := geology.Derive(world, wx, wy)
	seed := rng.ChunkSeed(world.Seed, wx, wy)

	chunk := NewChunk(wx, wy, geo.SurfaceZ)
	chunk.Geology = geo
	chunk.genSeed = seed

	surfaceNoise := perlin.NewPerlin(2, 2, 4, int64(rng.Derive(seed, "surface-noise")))
	matchNoise := perlin.NewPerlin(2, 2, 3, int64(rng.Derive(world.Seed, "biome-match")))
	caveNoise := perlin.NewPerlin(2, 2, 3, int64(rng.Derive(world.Seed, "caves")))

	corners := cornersFor(world, wx, wy)

	// Surface and underground pass, column by column.
	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			biome := blendedBiome(corners, matchNoise, wx, wy, lx, ly)
			surface := columnSurfaceZ(&geo, surfaceNoise, wx, wy, lx, ly)
			fillColumn(chunk, &geo, biome, lx, ly, surface)
		}
	}

	// Cave pass: world-space 3D noise keeps caves continuous across
	// chunk boundaries.
	carveCaves(chunk, &geo, caveNoise)

	// Structure pass.
	var sites []Site
	if src != nil {
		sites = src.StructuresAt(wx, wy)
	}
	structRand := rng.NewSub(seed, "structures")
	hasMajor := false
	for _, site := range sites {
		placeSite(chunk, &geo, site, structRand)
		if site.Kind.IsMajor() {
			hasMajor = true
		}
	}

	// Feature pass.
	featRand := rng.NewSub(seed, "features")
	if !hasMajor {
		addSurfaceFeatures(chunk, &geo, corners, matchNoise, featRand)
	}
	addCaveFeatures(chunk, &geo, rng.NewSub(seed, "cave-features"))

	// Boundary enforcement last: the rim is a hard constraint, the next
	// three cells blend toward the neighbour.
	if !bounds.IsEmpty() {
		enforceBoundaries(chunk, &geo, surfaceNoise, matchNoise, corners, bounds)
	}

	chunk.Generated = true

	log.Debug().
		Int("wx", wx).Int("wy", wy).
		Int("surface_z", chunk.SurfaceZ).
		Int("sites", len(sites)).
		Msg("Local chunk generated")

	return chunk
}

// columnSurfaceZ offsets the chunk surface by up to +-2 z using
// world-space noise so neighbouring chunks agree along their shared edge.
func columnSurfaceZ(geo *geology.Params, surfaceNoise *perlin.Perlin, wx, wy, lx, ly int) int {
	gx := float64(wx*LocalSize + lx)
	gy := float64(wy*LocalSize + ly)
	n := surfaceNoise.Noise2D(gx*0.04, gy*0.04)
	offset := int(math.Round(n * 2.4))
	if offset > 2 {
		offset = 2
	}
	if offset < -2 {
		offset = -2
	}
	return geo.SurfaceZ + offset
}

// fillColumn writes the full z-column at (lx, ly): surface material on
// top, soil to soil depth, the aquifer layer, stone split between the
// primary and secondary varieties, and magma at the bottom.
//
// The column is a pure function of the chunk seed and its inputs, so the
// boundary pass can rebuild columns without disturbing their neighbours.
func fillColumn(chunk *LocalChunk, geo *geology.Params, biome overworld.Biome, lx, ly, surface int) {
	r := rng.New(rng.ChunkSeed(rng.Derive(chunk.genSeed, "column"), lx, ly))

	if biome.IsWater() {
		fillWaterColumn(chunk, geo, lx, ly)
		return
	}

	surfTerrain := surfaceTerrain(biome, geo, r)

	for z := ZMin; z <= ZMax; z++ {
		var tile LocalTile
		switch {
		case z > surface:
			tile = AirTile()
		case z == surface:
			tile = NewTile(surfTerrain)
		case geo.HasMagma && z <= magmaCeilingZ:
			tile = NewTile(Terrain{Kind: TerrainMagma, Mat: MatMagma})
			tile.Temperature = 900
		case geo.HasAquifer && z == geo.AquiferZ:
			tile = NewTile(Terrain{Kind: TerrainShallowWater, Mat: MatWater})
		case z > surface-1-geo.SoilDepth:
			tile = NewTile(Soil(geo.Soil))
		default:
			stone := geo.PrimaryStone
			if r.Float64() < 0.25 {
				stone = geo.SecondaryStone
			}
			tile = NewTile(Stone(stone))
		}
		tile.Temperature = float32(geo.Temperature)
		if tile.Terrain.Kind == TerrainMagma {
			tile.Temperature = 900
		}
		chunk.Set(lx, ly, z, tile)
	}
}

// fillWaterColumn builds an open-water column: bed stone below the
// surface z, then standing water up to sea level.
func fillWaterColumn(chunk *LocalChunk, geo *geology.Params, lx, ly int) {
	bed := geo.SurfaceZ
	if bed >= grid.SeaLevelZ {
		bed = grid.SeaLevelZ - 1
	}
	for z := ZMin; z <= ZMax; z++ {
		var tile LocalTile
		switch {
		case z <= bed:
			if geo.HasMagma && z <= magmaCeilingZ {
				tile = NewTile(Terrain{Kind: TerrainMagma, Mat: MatMagma})
				tile.Temperature = 900
			} else {
				tile = NewTile(Stone(geo.PrimaryStone))
			}
		case z <= grid.SeaLevelZ:
			depth := grid.SeaLevelZ - z
			kind := TerrainShallowWater
			if depth > 2 {
				kind = TerrainDeepWater
			}
			tile = NewTile(Terrain{Kind: kind, Mat: MatWater})
		default:
			tile = AirTile()
		}
		chunk.Set(lx, ly, z, tile)
	}
}

// enforceBoundaries overwrites the one-cell rim with the supplied edge
// data and blends the next three cells toward the neighbour's surface
// height (weight 1 at the edge falling to 0 four cells in).
func enforceBoundaries(chunk *LocalChunk, geo *geology.Params, surfaceNoise *perlin.Perlin, matchNoise *perlin.Perlin, corners cornerBiomes, bounds *BoundaryConditions) {
	for _, dir := range []EdgeDirection{EdgeNorth, EdgeSouth, EdgeEast, EdgeWest} {
		edge := bounds.Edge(dir)
		if edge == nil {
			continue
		}
		for i := 0; i < LocalSize; i++ {
			// Hard constraint: copy the neighbour's face verbatim.
			x, y := edgeCell(dir, i)
			for z := ZMin; z <= ZMax; z++ {
				chunk.Set(x, y, z, edge.Tiles[i][z-ZMin])
			}

			// Soft constraint: pull the next columns' surface toward the
			// edge surface.
			edgeSurface := edgeColumnSurface(edge, i)
			for d := 1; d <= 3; d++ {
				ix, iy := inwardCell(dir, i, d)
				weight := 1.0 - float64(d)/4.0
				own := columnSurfaceZ(geo, surfaceNoise, chunk.WorldX, chunk.WorldY, ix, iy)
				blended := int(math.Round(float64(edgeSurface)*weight + float64(own)*(1-weight)))
				if hasStructureTiles(chunk, ix, iy) {
					continue
				}
				biome := blendedBiome(corners, matchNoise, chunk.WorldX, chunk.WorldY, ix, iy)
				fillColumn(chunk, geo, biome, ix, iy, blended)
			}
		}
	}
}

// edgeColumnSurface finds the local surface stored in an edge column.
func edgeColumnSurface(edge *ChunkEdge, i int) int {
	for z := ZMax; z >= ZMin; z-- {
		t := edge.Tiles[i][z-ZMin]
		if t.Terrain.Kind != TerrainAir && !t.Terrain.IsWater() {
			return z
		}
	}
	return grid.SeaLevelZ
}

// inwardCell steps d cells inward from edge position i.
func inwardCell(dir EdgeDirection, i, d int) (int, int) {
	switch dir {
	case EdgeNorth:
		return i, d
	case EdgeSouth:
		return i, LocalSize - 1 - d
	case EdgeEast:
		return LocalSize - 1 - d, i
	default:
		return d, i
	}
}

// hasStructureTiles reports whether a column contains constructed tiles,
// which the boundary blend must not bulldoze.
func hasStructureTiles(chunk *LocalChunk, x, y int) bool {
	for z := ZMin; z <= ZMax; z++ {
		if chunk.Get(x, y, z).Terrain.IsConstructed() {
			return true
		}
	}
	return false
}
