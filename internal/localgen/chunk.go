package localgen

import (
	"darktower-backend/internal/geology"
	"darktower-backend/internal/grid"
)

// LocalSize aliases the shared chunk side length.
const LocalSize = grid.LocalSize

// Chunk z extent.
const (
	ZMin = grid.ZMin
	ZMax = grid.ZMax
)

// LocalChunk is the dense tile block owned by one overworld cell.
// Layout is [z][y][x] for cache-friendly per-level access.
type LocalChunk struct {
	WorldX int
	WorldY int

	tiles []LocalTile

	// genSeed is the chunk seed used while generating; not persisted and
	// not part of equality.
	genSeed uint64

	// SurfaceZ is the canonical chunk surface; individual columns may
	// deviate by a couple of z-levels from noise.
	SurfaceZ int

	Geology geology.Params

	Generated bool
	// Valid is cleared when the chunk failed critical verification but
	// was cached anyway.
	Valid bool
}

// NewChunk creates an empty (all-air) chunk.
func NewChunk(worldX, worldY, surfaceZ int) *LocalChunk {
	return &LocalChunk{
		WorldX:   worldX,
		WorldY:   worldY,
		tiles:    make([]LocalTile, LocalSize*LocalSize*grid.ZCount),
		SurfaceZ: surfaceZ,
		Valid:    true,
	}
}

// ZCount returns the number of z-levels.
func (c *LocalChunk) ZCount() int { return grid.ZCount }

func (c *LocalChunk) index(x, y, z int) int {
	return (z-ZMin)*LocalSize*LocalSize + y*LocalSize + x
}

// Get returns the tile at local (x, y, z).
func (c *LocalChunk) Get(x, y, z int) LocalTile {
	return c.tiles[c.index(x, y, z)]
}

// Ref returns a pointer to the tile at local (x, y, z).
func (c *LocalChunk) Ref(x, y, z int) *LocalTile {
	return &c.tiles[c.index(x, y, z)]
}

// Set stores a tile at local (x, y, z).
func (c *LocalChunk) Set(x, y, z int, tile LocalTile) {
	c.tiles[c.index(x, y, z)] = tile
}

// InBounds reports whether (x, y, z) addresses a tile of this chunk.
func (c *LocalChunk) InBounds(x, y, z int) bool {
	return x >= 0 && x < LocalSize && y >= 0 && y < LocalSize && z >= ZMin && z <= ZMax
}

// MemorySize approximates the chunk's memory footprint in bytes.
func (c *LocalChunk) MemorySize() int {
	const tileSize = 16 // struct LocalTile, padded
	return len(c.tiles)*tileSize + 128
}

// LocalSurface returns the z of the highest non-air, non-water tile of
// the column (the bed under open water), or the chunk surface when the
// column holds no such tile.
func (c *LocalChunk) LocalSurface(x, y int) int {
	for z := ZMax; z >= ZMin; z-- {
		t := c.Get(x, y, z)
		if t.Terrain.Kind != TerrainAir && !t.Terrain.IsWater() {
			return z
		}
	}
	return c.SurfaceZ
}

// IsUnderground reports whether z lies below the chunk surface.
func (c *LocalChunk) IsUnderground(z int) bool { return z < c.SurfaceZ }

// Equal reports tile-for-tile, field-for-field equality with another
// chunk. Used by determinism tests and the persistence round-trip.
func (c *LocalChunk) Equal(o *LocalChunk) bool {
	if c.WorldX != o.WorldX || c.WorldY != o.WorldY || c.SurfaceZ != o.SurfaceZ ||
		c.Generated != o.Generated || c.Valid != o.Valid || len(c.tiles) != len(o.tiles) {
		return false
	}
	if c.Geology != o.Geology {
		return false
	}
	for i := range c.tiles {
		if c.tiles[i] != o.tiles[i] {
			return false
		}
	}
	return true
}

// Summary is a compact description of a generated chunk for listings.
type Summary struct {
	WorldX     int    `json:"wx"`
	WorldY     int    `json:"wy"`
	SurfaceZ   int    `json:"surface_z"`
	Biome      string `json:"biome"`
	Structures int    `json:"structures"`
	Features   int    `json:"features"`
	CaveTiles  int    `json:"cave_tiles"`
	WaterTiles int    `json:"water_tiles"`
	Valid      bool   `json:"valid"`
}

// Summarize scans the chunk once and returns its summary.
func (c *LocalChunk) Summarize() Summary {
	s := Summary{
		WorldX:   c.WorldX,
		WorldY:   c.WorldY,
		SurfaceZ: c.SurfaceZ,
		Biome:    c.Geology.Biome.String(),
		Valid:    c.Valid,
	}
	for i := range c.tiles {
		t := &c.tiles[i]
		if t.Feature.Kind != FeatNone {
			s.Features++
		}
		switch t.Terrain.Kind {
		case TerrainCaveFloor, TerrainCaveWall:
			s.CaveTiles++
		case TerrainConstructedFloor, TerrainConstructedWall, TerrainFortressWall:
			s.Structures++
		}
		if t.Terrain.IsWater() {
			s.WaterTiles++
		}
	}
	return s
}
