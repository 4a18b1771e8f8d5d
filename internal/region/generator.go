// Package region provides the 64x64 mid-scale refinement between the
// overworld and local chunks, used by the zoom layer. Every sample is a
// pure function of world-space position, and interpolation is bicubic
// over an extended window, so adjacent regions agree on shared edge
// pixels without stitching.
package region

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/rng"
)

// Size is the region side length in refined pixels.
const Size = 64

// LOD selects how much detail a region carries.
type LOD uint8

const (
	LODLow    LOD = iota // heightmap only
	LODMedium            // + rivers + uniform vegetation
	LODFull              // + clustered vegetation, rocks, springs, waterfalls
)

// Vegetation classifies a refined pixel's cover.
type Vegetation uint8

const (
	VegNone Vegetation = iota
	VegGrass
	VegShrub
	VegTree
	VegDenseTree
)

// Tile is one refined pixel.
type Tile struct {
	Height     float64
	Biome      overworld.Biome
	Vegetation Vegetation
	River      bool
	Rock       bool
	Spring     bool
	Waterfall  bool
}

// Region is a refined view of one overworld cell.
type Region struct {
	WX, WY int
	LOD    LOD
	Tiles  [Size][Size]Tile
}

// Generate refines one overworld cell at the requested LOD.
func Generate(world *overworld.WorldData, wx, wy int, lod LOD) *Region {
	wx, wy = grid.WrapX(wx, world.Width), grid.ClampY(wy, world.Height)
	r := &Region{WX: wx, WY: wy, LOD: lod}

	detail := opensimplex.NewNormalized(int64(rng.Derive(world.Seed, "region-detail")))
	warp := opensimplex.NewNormalized(int64(rng.Derive(world.Seed, "region-warp")))

	for py := 0; py < Size; py++ {
		for px := 0; px < Size; px++ {
			// World-space position of this pixel (cell centres at +0.5).
			gx := float64(wx) + (float64(px)+0.5)/Size
			gy := float64(wy) + (float64(py)+0.5)/Size

			h := bicubicHeight(world, gx, gy)
			if lod >= LODMedium {
				// Domain-warped fBm detail, sampled in world space.
				wxoff := warp.Eval2(gx*3.1, gy*3.1) - 0.5
				wyoff := warp.Eval2(gx*3.1+41.7, gy*3.1-17.3) - 0.5
				d := fbm(detail, gx*11+wxoff, gy*11+wyoff, 3)
				h += (d - 0.5) * 60
			}

			t := Tile{Height: h, Biome: world.BiomeAt(wx, wy)}
			if lod >= LODFull {
				t.Biome = localBiomeOverride(world, wx, wy, h)
			}
			r.Tiles[py][px] = t
		}
	}

	if lod >= LODMedium {
		traceRivers(world, r)
		addVegetation(world, r, detail, lod)
	}
	if lod == LODFull {
		addRocksAndWater(world, r)
	}
	return r
}

// bicubicHeight interpolates the overworld heightmap with Catmull-Rom
// splines over a 4x4 neighbourhood. The window always covers the
// neighbour's centre samples, which is what makes shared edges agree.
func bicubicHeight(world *overworld.WorldData, gx, gy float64) float64 {
	// Sample positions are overworld cell centres.
	fx := gx - 0.5
	fy := gy - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	var rows [4]float64
	for j := 0; j < 4; j++ {
		var cols [4]float64
		for i := 0; i < 4; i++ {
			sx := grid.WrapX(x0-1+i, world.Width)
			sy := grid.ClampY(y0-1+j, world.Height)
			cols[i] = world.Heightmap.Get(sx, sy)
		}
		rows[j] = catmullRom(cols[0], cols[1], cols[2], cols[3], tx)
	}
	return catmullRom(rows[0], rows[1], rows[2], rows[3], ty)
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

func fbm(n opensimplex.Noise, x, y float64, octaves int) float64 {
	sum, amp, freq, norm := 0.0, 1.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		sum += n.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

// localBiomeOverride adjusts the pixel biome for height extremes within
// the cell.
func localBiomeOverride(world *overworld.WorldData, wx, wy int, h float64) overworld.Biome {
	base := world.BiomeAt(wx, wy)
	if base.IsWater() {
		return base
	}
	switch {
	case h < 0:
		return overworld.BiomeLake
	case h > 2600 && base.Family() != overworld.FamilyVolcanic:
		return overworld.BiomeAlpine
	default:
		return base
	}
}

// traceRivers rasterises the world river network segments crossing this
// cell into river pixels.
func traceRivers(world *overworld.WorldData, r *Region) {
	for _, seg := range world.Rivers {
		if seg.From.X != r.WX || seg.From.Y != r.WY {
			continue
		}
		// The segment runs from this cell centre toward the neighbour
		// centre; rasterise the half inside this cell.
		dx := float64(seg.To.X - seg.From.X)
		dy := float64(seg.To.Y - seg.From.Y)
		if dx > 1 {
			dx = -1
		} else if dx < -1 {
			dx = 1
		}
		for step := 0; step <= Size/2; step++ {
			fx := 0.5 + dx*float64(step)/Size
			fy := 0.5 + dy*float64(step)/Size
			px := int(fx * Size)
			py := int(fy * Size)
			if px < 0 || px >= Size || py < 0 || py >= Size {
				break
			}
			for w := 0; w < seg.Width; w++ {
				if px+w < Size {
					r.Tiles[py][px+w].River = true
				}
			}
		}
	}
}

// addVegetation covers land by biome: clustered at Full, uniform at
// Medium.
func addVegetation(world *overworld.WorldData, r *Region, detail opensimplex.Noise, lod LOD) {
	base := world.BiomeAt(r.WX, r.WY)
	density := vegetationDensity(base)
	if density == 0 {
		return
	}

	for py := 0; py < Size; py++ {
		for px := 0; px < Size; px++ {
			t := &r.Tiles[py][px]
			if t.River || t.Height < 0 {
				continue
			}
			if lod == LODMedium {
				// Uniform cover keyed on pixel parity.
				if (px+py)%int(1/density+1) == 0 {
					t.Vegetation = VegGrass
				}
				continue
			}
			// Full: clusters from world-space noise.
			gx := float64(r.WX) + float64(px)/Size
			gy := float64(r.WY) + float64(py)/Size
			n := detail.Eval2(gx*23, gy*23)
			switch {
			case n > 1-density*0.5:
				if base.IsForest() {
					t.Vegetation = VegDenseTree
				} else {
					t.Vegetation = VegTree
				}
			case n > 1-density:
				t.Vegetation = VegShrub
			case n > 1-density*1.8:
				t.Vegetation = VegGrass
			}
		}
	}
}

func vegetationDensity(b overworld.Biome) float64 {
	if b.IsWater() {
		return 0
	}
	if b.IsForest() {
		return 0.5
	}
	switch b.Family() {
	case overworld.FamilyOpen, overworld.FamilyWetland:
		return 0.3
	case overworld.FamilyTropical:
		return 0.45
	case overworld.FamilyArid, overworld.FamilyPolar, overworld.FamilyVolcanic:
		return 0.05
	default:
		return 0.2
	}
}

// addRocksAndWater scatters rocks and marks springs and waterfalls from
// deterministic per-cell hashes.
func addRocksAndWater(world *overworld.WorldData, r *Region) {
	seed := rng.ChunkSeed(world.Seed, r.WX, r.WY)
	rocks := rng.NewSub(seed, "region-rocks")

	count := 4 + rocks.Intn(8)
	for i := 0; i < count; i++ {
		px := rocks.Intn(Size)
		py := rocks.Intn(Size)
		if r.Tiles[py][px].Height >= 0 && !r.Tiles[py][px].River {
			r.Tiles[py][px].Rock = true
		}
	}

	// A wet, elevated cell may host a spring; a river pixel on a steep
	// slope becomes a waterfall.
	if world.Moisture.Get(r.WX, r.WY) > 0.6 && world.Heightmap.Get(r.WX, r.WY) > 500 {
		springs := rng.NewSub(seed, "region-springs")
		px := springs.Intn(Size)
		py := springs.Intn(Size)
		r.Tiles[py][px].Spring = true
	}
	for py := 1; py < Size-1; py++ {
		for px := 1; px < Size-1; px++ {
			t := &r.Tiles[py][px]
			if !t.River {
				continue
			}
			drop := t.Height - r.Tiles[py+1][px].Height
			if drop > 120 {
				t.Waterfall = true
			}
		}
	}
}
