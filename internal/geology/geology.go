// Package geology maps an overworld cell to the parameters that drive
// local chunk generation: stone layering, soil depth, caverns, magma,
// and the aquifer level.
package geology

import (
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/rng"
)

// StoneType enumerates the stone varieties used underground.
type StoneType uint8

const (
	Limestone StoneType = iota
	Granite
	Sandstone
	Slate
	Marble
	Basalt
	Obsidian
	Shale
)

// String returns the stone's display name.
func (s StoneType) String() string {
	switch s {
	case Limestone:
		return "limestone"
	case Granite:
		return "granite"
	case Sandstone:
		return "sandstone"
	case Slate:
		return "slate"
	case Marble:
		return "marble"
	case Basalt:
		return "basalt"
	case Obsidian:
		return "obsidian"
	case Shale:
		return "shale"
	}
	return "stone"
}

// hardness in [0,1] biases cavern formation; soft stone dissolves.
var stoneHardness = [8]float64{
	Limestone: 0.35,
	Granite:   0.9,
	Sandstone: 0.4,
	Slate:     0.6,
	Marble:    0.7,
	Basalt:    0.85,
	Obsidian:  0.95,
	Shale:     0.3,
}

// Hardness returns the stone hardness in [0,1].
func (s StoneType) Hardness() float64 {
	return stoneHardness[s]
}

// SoilKind enumerates the soil varieties.
type SoilKind uint8

const (
	Loam SoilKind = iota
	Clay
	SandSoil
	Silt
	Peat
	GravelSoil
	Permafrost
	Ash
)

// Params describes the geology of one overworld cell.
type Params struct {
	SurfaceZ      int
	Biome         overworld.Biome
	Temperature   float64
	Moisture      float64
	Stress        float64
	IsVolcanic    bool
	WaterBodyType overworld.WaterBodyType

	// SoilDepth is the soil cover in tiles below the surface.
	SoilDepth int
	Soil      SoilKind

	PrimaryStone   StoneType
	SecondaryStone StoneType

	// CavernPresence marks the upper/middle/deep cavern layers.
	CavernPresence [3]bool
	HasMagma       bool

	// AquiferZ is the water table level, when one exists.
	AquiferZ   int
	HasAquifer bool
}

// Volcanic stress threshold: above this a cell gets magma even without a
// volcanic biome.
const magmaStressThreshold = 0.7

// Derive computes the geology parameters for an overworld cell. Pure
// lookup and rule-based classification; deterministic for a fixed world.
func Derive(world *overworld.WorldData, wx, wy int) Params {
	info := world.TileAt(wx, wy)

	p := Params{
		SurfaceZ:      info.SurfaceZ,
		Biome:         info.Biome,
		Temperature:   info.Temperature,
		Moisture:      info.Moisture,
		Stress:        info.Stress,
		IsVolcanic:    info.Biome.Family() == overworld.FamilyVolcanic,
		WaterBodyType: info.WaterBodyType,
	}

	p.PrimaryStone, p.SecondaryStone = stoneFor(info)
	p.SoilDepth, p.Soil = soilFor(info)
	p.HasMagma = p.IsVolcanic || info.Stress > magmaStressThreshold

	if aq, ok := aquiferFor(info); ok {
		p.AquiferZ = aq
		p.HasAquifer = true
	}

	seed := rng.ChunkSeed(world.Seed, info.X, info.Y)
	for i := 0; i < 3; i++ {
		p.CavernPresence[i] = cavernAt(seed, i, p)
	}

	return p
}

func stoneFor(info overworld.TileInfo) (StoneType, StoneType) {
	switch info.Biome.Family() {
	case overworld.FamilyVolcanic:
		return Basalt, Obsidian
	case overworld.FamilyArid:
		return Sandstone, Shale
	case overworld.FamilyHighland:
		return Granite, Slate
	case overworld.FamilyWetland:
		return Shale, Limestone
	case overworld.FamilyPolar:
		return Granite, Marble
	case overworld.FamilyExotic:
		return Marble, Limestone
	default:
		if info.Stress > 0.5 {
			return Granite, Marble
		}
		return Limestone, Sandstone
	}
}

func soilFor(info overworld.TileInfo) (int, SoilKind) {
	switch info.Biome.Family() {
	case overworld.FamilyPolar:
		if info.Biome == overworld.BiomeIceSheet || info.Biome == overworld.BiomeGlacier {
			return 1, Permafrost
		}
		return 2, Permafrost
	case overworld.FamilyArid:
		return 2, SandSoil
	case overworld.FamilyVolcanic:
		return 1, Ash
	case overworld.FamilyHighland:
		return 1, GravelSoil
	case overworld.FamilyWetland:
		return 7, Peat
	case overworld.FamilyTropical:
		return 5, Clay
	case overworld.FamilyTemperateForest, overworld.FamilyBoreal:
		return 5, Loam
	case overworld.FamilyCoast:
		return 3, SandSoil
	default:
		if info.Biome == overworld.BiomeFloodplain {
			return 8, Silt
		}
		return 4, Loam
	}
}

func aquiferFor(info overworld.TileInfo) (int, bool) {
	if info.Moisture < 0.35 || info.Elevation < 0 {
		return 0, false
	}
	// Wetter cells hold water closer to the surface.
	k := 6 - int(info.Moisture*4) // moisture 0.35 -> k=5, 1.0 -> k=2
	if k < 2 {
		k = 2
	}
	return info.SurfaceZ - k, true
}

// cavernAt decides cavern presence for layer i (0 upper, 1 middle,
// 2 deep) from a deterministic hash biased by stone hardness and biome.
func cavernAt(seed uint64, layer int, p Params) bool {
	h := rng.Derive(seed, "cavern")
	h = rng.Derive(h, string(rune('a'+layer)))
	roll := float64(h%1000) / 1000.0

	// Soft stone dissolves into caverns more readily.
	chance := 0.55 * (1.0 - p.PrimaryStone.Hardness())
	// Deep layers are more likely to have opened.
	chance += float64(layer) * 0.12
	if p.Biome == overworld.BiomeKarst {
		chance += 0.3
	}
	if p.IsVolcanic {
		// Lava tubes.
		chance += 0.15
	}
	return roll < chance
}

// LayerBounds returns the (lowZ, highZ) range of a cavern layer relative
// to the chunk's z extent.
func LayerBounds(layer int, surfaceZ, zMin int) (int, int) {
	span := surfaceZ - zMin
	switch layer {
	case 0:
		return surfaceZ - span/4, surfaceZ - 2
	case 1:
		return surfaceZ - span/2, surfaceZ - span/4
	default:
		return zMin + 2, surfaceZ - span/2
	}
}
