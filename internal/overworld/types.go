package overworld

import (
	"github.com/google/uuid"

	"darktower-backend/internal/grid"
)

// PlateID identifies a tectonic plate.
type PlateID uint8

// PlateKind distinguishes continental and oceanic plates.
type PlateKind uint8

const (
	PlateContinental PlateKind = iota
	PlateOceanic
)

// Plate is a tectonic plate with a drift vector.
type Plate struct {
	ID       PlateID
	Kind     PlateKind
	SeedX    int
	SeedY    int
	DriftX   float64
	DriftY   float64
	BaseElev float64
}

// WaterBodyID identifies a detected water body. Zero means none.
type WaterBodyID uint16

// WaterBodyType classifies a water body.
type WaterBodyType uint8

const (
	WaterNone WaterBodyType = iota
	WaterOcean
	WaterSea
	WaterLake
	WaterRiver
)

// WaterBody is a connected region of water tiles.
type WaterBody struct {
	ID        WaterBodyID
	Type      WaterBodyType
	TileCount int
}

// RiverSegment is one polyline step of a traced river with its width.
type RiverSegment struct {
	From  grid.TileCoord
	To    grid.TileCoord
	Width int
}

// WorldData bundles all generated overworld fields. Immutable after
// Generate returns; every reader holds a shared reference without locking.
type WorldData struct {
	// ID identifies this world for save manifests and the chronicle.
	ID     uuid.UUID
	Seed   uint64
	Width  int
	Height int

	// Elevation in metres; negative is underwater.
	Heightmap *grid.Tilemap[float64]
	// Temperature in degrees Celsius.
	Temperature *grid.Tilemap[float64]
	// Moisture in [0,1].
	Moisture *grid.Tilemap[float64]
	// Biome classification.
	Biomes *grid.Tilemap[Biome]
	// Tectonic stress in [-1,+1]; -1 divergent, +1 convergent.
	Stress *grid.Tilemap[float64]
	// Plate assignment per tile.
	PlateMap *grid.Tilemap[PlateID]
	Plates   []Plate
	// Natural ground z-level per tile.
	SurfaceZ *grid.Tilemap[int]
	// Water body assignment per tile (0 = none).
	WaterBodyMap *grid.Tilemap[WaterBodyID]
	WaterBodies  []WaterBody
	// Optional flow accumulation from river tracing.
	FlowAccum *grid.Tilemap[float64]
	// Optional traced river network.
	Rivers []RiverSegment
}

// TileInfo is a read-only snapshot of every per-tile field.
type TileInfo struct {
	X, Y          int
	Elevation     float64
	Temperature   float64
	Moisture      float64
	Biome         Biome
	Stress        float64
	PlateID       PlateID
	SurfaceZ      int
	WaterBodyID   WaterBodyID
	WaterBodyType WaterBodyType
}

// Wrap normalizes a tile coordinate onto this map.
func (w *WorldData) Wrap(x, y int) (int, int) {
	return grid.WrapX(x, w.Width), grid.ClampY(y, w.Height)
}

// TileAt returns the full tile record at (x, y) after wrapping.
func (w *WorldData) TileAt(x, y int) TileInfo {
	x, y = w.Wrap(x, y)
	wbID := w.WaterBodyMap.Get(x, y)
	wbType := WaterNone
	if wbID != 0 && int(wbID) <= len(w.WaterBodies) {
		wbType = w.WaterBodies[wbID-1].Type
	}
	return TileInfo{
		X:             x,
		Y:             y,
		Elevation:     w.Heightmap.Get(x, y),
		Temperature:   w.Temperature.Get(x, y),
		Moisture:      w.Moisture.Get(x, y),
		Biome:         w.Biomes.Get(x, y),
		Stress:        w.Stress.Get(x, y),
		PlateID:       w.PlateMap.Get(x, y),
		SurfaceZ:      w.SurfaceZ.Get(x, y),
		WaterBodyID:   wbID,
		WaterBodyType: wbType,
	}
}

// BiomeAt returns the biome at a wrapped coordinate.
func (w *WorldData) BiomeAt(x, y int) Biome {
	x, y = w.Wrap(x, y)
	return w.Biomes.Get(x, y)
}

// IsWaterAt reports whether the wrapped tile is open water.
func (w *WorldData) IsWaterAt(x, y int) bool {
	return w.BiomeAt(x, y).IsWater()
}

// WaterBodyTypeAt returns the water body type at a wrapped coordinate.
func (w *WorldData) WaterBodyTypeAt(x, y int) WaterBodyType {
	x, y = w.Wrap(x, y)
	id := w.WaterBodyMap.Get(x, y)
	if id == 0 || int(id) > len(w.WaterBodies) {
		return WaterNone
	}
	return w.WaterBodies[id-1].Type
}
