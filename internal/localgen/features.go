package localgen

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"darktower-backend/internal/geology"
	"darktower-backend/internal/overworld"
)

// featureClusters maps a biome to the number of feature clusters dropped
// on a wilderness chunk.
func featureClusters(biome overworld.Biome) int {
	if biome.IsForest() {
		return 14
	}
	switch biome.Family() {
	case overworld.FamilyTropical:
		return 12
	case overworld.FamilyOpen, overworld.FamilyWetland:
		return 6
	case overworld.FamilyBoreal:
		return 10
	case overworld.FamilyArid, overworld.FamilyPolar:
		return 3
	case overworld.FamilyHighland, overworld.FamilyVolcanic:
		return 4
	case overworld.FamilyExotic:
		return 8
	default:
		return 5
	}
}

// addSurfaceFeatures drops biome-appropriate vegetation and rocks in
// Poisson-like clusters with noisy radii. Each cluster's biome is the
// blended biome at its centre, so transitions carry mixed vegetation.
func addSurfaceFeatures(chunk *LocalChunk, geo *geology.Params, corners cornerBiomes, match *perlin.Perlin, r *rand.Rand) {
	clusters := featureClusters(geo.Biome)
	for i := 0; i < clusters; i++ {
		cx := r.Intn(LocalSize)
		cy := r.Intn(LocalSize)
		radius := 2 + r.Intn(4)
		biome := blendedBiome(corners, match, chunk.WorldX, chunk.WorldY, cx, cy)
		if biome.IsWater() {
			continue
		}
		fills := radius * radius
		for j := 0; j < fills; j++ {
			// Noisy blob: radius wobbles per placement.
			dx := r.Intn(radius*2+1) - radius
			dy := r.Intn(radius*2+1) - radius
			x, y := cx+dx, cy+dy
			if x < 0 || x >= LocalSize || y < 0 || y >= LocalSize {
				continue
			}
			z := chunk.LocalSurface(x, y)
			t := chunk.Get(x, y, z)
			if !t.Terrain.IsPassable() || t.Terrain.IsConstructed() || t.Feature.Kind != FeatNone {
				continue
			}
			t.Feature = pickSurfaceFeature(biome, r)
			chunk.Set(x, y, z, t)
		}
	}
}

func pickSurfaceFeature(biome overworld.Biome, r *rand.Rand) Feature {
	roll := r.Float64()
	if biome.IsForest() {
		switch {
		case roll < 0.6:
			return Tree(uint8(2 + r.Intn(4)))
		case roll < 0.8:
			return Feature{Kind: FeatBush}
		case roll < 0.9:
			return Feature{Kind: FeatMushroom}
		default:
			return Feature{Kind: FeatBoulder}
		}
	}
	switch biome.Family() {
	case overworld.FamilyArid, overworld.FamilyVolcanic:
		if roll < 0.7 {
			return Feature{Kind: FeatBoulder}
		}
		return Feature{Kind: FeatBush}
	case overworld.FamilyPolar:
		return Feature{Kind: FeatBoulder}
	case overworld.FamilyHighland:
		if roll < 0.6 {
			return Feature{Kind: FeatBoulder}
		}
		return Tree(uint8(1 + r.Intn(3)))
	case overworld.FamilyExotic:
		switch {
		case roll < 0.35:
			return Feature{Kind: FeatCrystal}
		case roll < 0.6:
			return Feature{Kind: FeatGiantMushroom}
		default:
			return Tree(uint8(2 + r.Intn(5)))
		}
	default:
		switch {
		case roll < 0.35:
			return Feature{Kind: FeatBush}
		case roll < 0.55:
			return Tree(uint8(2 + r.Intn(3)))
		default:
			return Feature{Kind: FeatBoulder}
		}
	}
}
