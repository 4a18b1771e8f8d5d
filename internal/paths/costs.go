package paths

import (
	"math"

	"darktower-backend/internal/overworld"
)

// Per-step terrain costs. Existing roads are near-free so independent
// paths converge onto them.
const (
	costRoad          = 1.0
	costOpen          = 4.0
	costForestLight   = 8.0
	costForestDense   = 10.0
	costWetland       = 18.0
	costArid          = 14.0
	costHighland      = 20.0
	costVolcanic      = 25.0
	costTundra        = 16.0
	costRiverCrossing = 15.0
	// parallelPenalty keeps a new path from hugging an existing road
	// without merging onto it: merge or stay a cell away.
	parallelPenalty = 50.0
)

// Impassable marks water steps.
var impassable = math.Inf(1)

// biomeStepCost returns the base cost of stepping onto a tile.
func biomeStepCost(b overworld.Biome) float64 {
	if b.IsWater() {
		return impassable
	}
	switch b.Family() {
	case overworld.FamilyWetland:
		return costWetland
	case overworld.FamilyArid:
		return costArid
	case overworld.FamilyVolcanic:
		return costVolcanic
	case overworld.FamilyPolar:
		return costTundra
	case overworld.FamilyHighland:
		return costHighland
	case overworld.FamilyTropical:
		if b.IsForest() {
			return costForestDense
		}
		return costOpen
	case overworld.FamilyBoreal:
		return costForestLight
	case overworld.FamilyTemperateForest:
		if b == overworld.BiomeOldGrowthForest || b == overworld.BiomeTemperateRainforest {
			return costForestDense
		}
		return costForestLight
	case overworld.FamilyExotic:
		if b.IsForest() {
			return costForestDense
		}
		return costArid
	default:
		return costOpen
	}
}

// hillPenalty adds climbing cost above normalised heights 0.5 and 0.6.
func hillPenalty(elevation float64) float64 {
	norm := elevation / 3500.0
	switch {
	case norm > 0.6:
		return 8
	case norm > 0.5:
		return 4
	default:
		return 0
	}
}

// wavyPenalty is a cheap analytic field in [0,4] that bends routes
// organically without a noise table.
func wavyPenalty(x, y int) float64 {
	v := math.Sin(float64(x)*0.7+float64(y)*0.3) * math.Cos(float64(y)*0.5-float64(x)*0.2)
	return (v + 1) * 2
}
