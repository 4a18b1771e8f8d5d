// Package localgen builds local chunks: the 48x48 x ~40-z-level block of
// fine tiles owned by one overworld cell, with geology, caves, placed
// structures, and surface features.
package localgen

import "darktower-backend/internal/geology"

// Material is the coarse material class of a tile, used for rendering
// and interaction checks.
type Material uint8

const (
	MatAir Material = iota
	MatGrass
	MatDirt
	MatSand
	MatMud
	MatIce
	MatSnow
	MatStone
	MatWater
	MatMagma
)

// TerrainKind tags the terrain variant of a local tile.
type TerrainKind uint8

const (
	TerrainAir TerrainKind = iota
	TerrainSoil
	TerrainStone
	TerrainGrass
	TerrainSand
	TerrainMud
	TerrainIce
	TerrainSnow
	TerrainGravel
	TerrainShallowWater
	TerrainDeepWater
	TerrainFlowingWater
	TerrainMagma
	TerrainCaveFloor
	TerrainCaveWall
	TerrainConstructedFloor
	TerrainConstructedWall
	TerrainFortressWall

	terrainKindCount
)

// Terrain is a tagged terrain variant. Soil carries a soil kind, Stone a
// stone kind, and constructed tiles a material.
type Terrain struct {
	Kind  TerrainKind
	Soil  geology.SoilKind
	Stone geology.StoneType
	Mat   Material
}

// Terrain constructors for the common variants.

func Air() Terrain   { return Terrain{Kind: TerrainAir, Mat: MatAir} }
func Grass() Terrain { return Terrain{Kind: TerrainGrass, Mat: MatGrass} }

func Soil(kind geology.SoilKind) Terrain {
	return Terrain{Kind: TerrainSoil, Soil: kind, Mat: MatDirt}
}

func Stone(kind geology.StoneType) Terrain {
	return Terrain{Kind: TerrainStone, Stone: kind, Mat: MatStone}
}

func ConstructedFloor(mat Material) Terrain {
	return Terrain{Kind: TerrainConstructedFloor, Mat: mat}
}

func ConstructedWall(mat Material) Terrain {
	return Terrain{Kind: TerrainConstructedWall, Mat: mat}
}

// terrainPassable is a flat property table indexed by the terrain tag.
var terrainPassable = [terrainKindCount]bool{
	TerrainAir:              true,
	TerrainGrass:            true,
	TerrainSand:             true,
	TerrainMud:              true,
	TerrainIce:              true,
	TerrainSnow:             true,
	TerrainGravel:           true,
	TerrainShallowWater:     true,
	TerrainCaveFloor:        true,
	TerrainConstructedFloor: true,
}

var terrainWater = [terrainKindCount]bool{
	TerrainShallowWater: true,
	TerrainDeepWater:    true,
	TerrainFlowingWater: true,
}

var terrainSolid = [terrainKindCount]bool{
	TerrainSoil:            true,
	TerrainStone:           true,
	TerrainCaveWall:        true,
	TerrainConstructedWall: true,
	TerrainFortressWall:    true,
}

// IsPassable reports whether the terrain can be walked through.
func (t Terrain) IsPassable() bool { return terrainPassable[t.Kind] }

// IsWater reports whether the terrain is any water variant.
func (t Terrain) IsWater() bool { return terrainWater[t.Kind] }

// IsSolid reports whether the terrain blocks movement.
func (t Terrain) IsSolid() bool { return terrainSolid[t.Kind] }

// IsConstructed reports whether the terrain was built rather than formed.
func (t Terrain) IsConstructed() bool {
	switch t.Kind {
	case TerrainConstructedFloor, TerrainConstructedWall, TerrainFortressWall:
		return true
	}
	return false
}

// FeatureKind tags the feature variant placed on a tile.
type FeatureKind uint8

const (
	FeatNone FeatureKind = iota
	FeatTree
	FeatBush
	FeatBoulder
	FeatDoor
	FeatStairsUp
	FeatStairsDown
	FeatRampUp
	FeatRampDown
	FeatLadder
	FeatTorch
	FeatPillar
	FeatStalactite
	FeatStalagmite
	FeatMushroom
	FeatGiantMushroom
	FeatCrystal
	FeatOreVein
	FeatRubble
	FeatChest
	FeatAltar
	FeatTrap
	FeatLever
	FeatHeadstone
	FeatMausoleum
	FeatBones
	FeatWeb
	FeatSlime
	FeatAntMound
	FeatBeeHive
	FeatWeaponScrap
	FeatStatue
	FeatWell
	FeatFountain

	featureKindCount
)

// Feature is a tagged feature variant. Arg carries the variant payload:
// tree height, door open (1), trap hidden (1), lever active (1).
type Feature struct {
	Kind FeatureKind
	Arg  uint8
}

// NoFeature is the empty feature.
var NoFeature = Feature{}

func Tree(height uint8) Feature { return Feature{Kind: FeatTree, Arg: height} }
func Door(open bool) Feature    { return Feature{Kind: FeatDoor, Arg: boolArg(open)} }
func Trap(hidden bool) Feature  { return Feature{Kind: FeatTrap, Arg: boolArg(hidden)} }

func boolArg(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

var featureBlocking = [featureKindCount]bool{
	FeatTree:          true,
	FeatBoulder:       true,
	FeatPillar:        true,
	FeatStalagmite:    true,
	FeatGiantMushroom: true,
	FeatCrystal:       true,
	FeatStatue:        true,
	FeatMausoleum:     true,
}

// IsBlocking reports whether the feature blocks movement.
func (f Feature) IsBlocking() bool { return featureBlocking[f.Kind] }

// IsVertical reports whether the feature allows z-movement.
func (f Feature) IsVertical() bool {
	switch f.Kind {
	case FeatStairsUp, FeatStairsDown, FeatRampUp, FeatRampDown, FeatLadder:
		return true
	}
	return false
}

// LocalTile is a single fine tile inside a chunk.
type LocalTile struct {
	Terrain     Terrain
	Feature     Feature
	Material    Material
	Temperature float32
	Light       uint8
	Visible     bool
	Explored    bool
}

// NewTile builds a tile from terrain, defaulting material to the
// terrain's own material class.
func NewTile(terrain Terrain) LocalTile {
	return LocalTile{Terrain: terrain, Material: terrain.Mat, Temperature: 15}
}

// AirTile returns an empty tile.
func AirTile() LocalTile { return NewTile(Air()) }

// IsPassable reports whether the tile can be entered on foot.
func (t LocalTile) IsPassable() bool {
	return t.Terrain.IsPassable() && !t.Feature.IsBlocking()
}
