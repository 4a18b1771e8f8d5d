package overworld

import (
	"encoding/binary"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"darktower-backend/internal/grid"
	"darktower-backend/internal/rng"
)

// worldNamespace derives stable world UUIDs from seeds.
var worldNamespace = uuid.MustParse("9f2f6f3e-7b1d-45a2-b1c4-1f40a52ce8d1")

// Metres of elevation per z-level when deriving surface z.
const metresPerZ = 150.0

// Generate produces a full overworld deterministically from the seed.
//
// Field dependency order: plates -> stress -> heightmap -> temperature ->
// moisture -> biomes -> fantasy placement -> rivers -> water bodies.
func Generate(width, height int, seed uint64) *WorldData {
	w := &WorldData{
		ID:           worldID(seed),
		Seed:         seed,
		Width:        width,
		Height:       height,
		Heightmap:    grid.NewTilemap[float64](width, height),
		Temperature:  grid.NewTilemap[float64](width, height),
		Moisture:     grid.NewTilemap[float64](width, height),
		Biomes:       grid.NewTilemap[Biome](width, height),
		Stress:       grid.NewTilemap[float64](width, height),
		PlateMap:     grid.NewTilemap[PlateID](width, height),
		SurfaceZ:     grid.NewTilemap[int](width, height),
		WaterBodyMap: grid.NewTilemap[WaterBodyID](width, height),
		FlowAccum:    grid.NewTilemap[float64](width, height),
	}

	generatePlates(w)
	generateStress(w)
	generateHeightmap(w)
	generateTemperature(w)
	generateMoisture(w)
	assignBiomes(w)
	placeFantasyBiomes(w)
	traceRivers(w)
	detectWaterBodies(w)
	deriveSurfaceZ(w)

	log.Debug().
		Int("width", width).
		Int("height", height).
		Uint64("seed", seed).
		Int("plates", len(w.Plates)).
		Int("water_bodies", len(w.WaterBodies)).
		Msg("Overworld generated")

	return w
}

func worldID(seed uint64) uuid.UUID {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seed)
	return uuid.NewSHA1(worldNamespace, b[:])
}

func generatePlates(w *WorldData) {
	r := rng.NewSub(w.Seed, "plates")
	count := 8 + r.Intn(5)

	w.Plates = make([]Plate, count)
	for i := range w.Plates {
		kind := PlateOceanic
		base := -3500.0 + r.Float64()*1500.0
		if r.Float64() < 0.45 {
			kind = PlateContinental
			base = 100.0 + r.Float64()*500.0
		}
		angle := r.Float64() * 2 * math.Pi
		w.Plates[i] = Plate{
			ID:       PlateID(i + 1),
			Kind:     kind,
			SeedX:    r.Intn(w.Width),
			SeedY:    r.Intn(w.Height),
			DriftX:   math.Cos(angle),
			DriftY:   math.Sin(angle),
			BaseElev: base,
		}
	}

	// Voronoi assignment with wrapped distance so plates cross the seam.
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			best := 0
			bestDist := math.MaxInt
			for i, p := range w.Plates {
				d := grid.DistanceWrapped(grid.TileCoord{X: x, Y: y}, grid.TileCoord{X: p.SeedX, Y: p.SeedY}, w.Width)
				if d < bestDist {
					bestDist = d
					best = i
				}
			}
			w.PlateMap.Set(x, y, w.Plates[best].ID)
		}
	}
}

func generateStress(w *WorldData) {
	// Stress peaks at plate boundaries: project the relative drift of the
	// two plates onto the boundary direction. Positive = convergent.
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			here := w.PlateMap.Get(x, y)
			var stress float64
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx := grid.WrapX(x+d[0], w.Width)
				ny := grid.ClampY(y+d[1], w.Height)
				other := w.PlateMap.Get(nx, ny)
				if other == here {
					continue
				}
				a := w.Plates[here-1]
				b := w.Plates[other-1]
				relX := a.DriftX - b.DriftX
				relY := a.DriftY - b.DriftY
				// Approaching along the boundary normal is convergent.
				s := -(relX*float64(d[0]) + relY*float64(d[1])) / 2
				if math.Abs(s) > math.Abs(stress) {
					stress = s
				}
			}
			w.Stress.Set(x, y, clampF(stress, -1, 1))
		}
	}

	// Diffuse the boundary stress a few tiles inland.
	for pass := 0; pass < 3; pass++ {
		next := w.Stress.Clone()
		for y := 0; y < w.Height; y++ {
			for x := 0; x < w.Width; x++ {
				sum := w.Stress.Get(x, y) * 2
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					sum += w.Stress.Get(grid.WrapX(x+d[0], w.Width), grid.ClampY(y+d[1], w.Height))
				}
				next.Set(x, y, sum/6)
			}
		}
		w.Stress = next
	}
}

func generateHeightmap(w *WorldData) {
	p := perlin.NewPerlin(2, 2, 3, int64(rng.Derive(w.Seed, "heightmap")))
	detail := perlin.NewPerlin(2, 2, 3, int64(rng.Derive(w.Seed, "heightmap-detail")))

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			plate := w.Plates[w.PlateMap.Get(x, y)-1]
			stress := w.Stress.Get(x, y)

			// Convergent boundaries raise mountains; divergent open rifts.
			tectonic := stress * 2200.0
			if plate.Kind == PlateOceanic && stress > 0.4 {
				// Island arcs along oceanic convergence.
				tectonic += 1800.0
			}

			nx := float64(x) / float64(w.Width) * 8
			ny := float64(y) / float64(w.Height) * 8
			n1 := p.Noise2D(nx, ny) * 900
			n2 := detail.Noise2D(nx*4, ny*4) * 250

			w.Heightmap.Set(x, y, plate.BaseElev+tectonic+n1+n2)
		}
	}
}

func generateTemperature(w *WorldData) {
	p := perlin.NewPerlin(2, 2, 3, int64(rng.Derive(w.Seed, "temperature")))

	for y := 0; y < w.Height; y++ {
		// Equator at map centre, poles at top/bottom edges.
		latitude := math.Abs(float64(y)/float64(w.Height)-0.5) * 2
		base := 30.0 - latitude*52.0
		for x := 0; x < w.Width; x++ {
			elev := w.Heightmap.Get(x, y)
			altitude := math.Max(elev, 0)
			lapse := altitude / 1000.0 * 6.5
			wobble := p.Noise2D(float64(x)*0.07, float64(y)*0.07) * 4
			w.Temperature.Set(x, y, base-lapse+wobble)
		}
	}
}

func generateMoisture(w *WorldData) {
	p := perlin.NewPerlin(2, 2, 3, int64(rng.Derive(w.Seed, "moisture")))

	for y := 0; y < w.Height; y++ {
		latitude := math.Abs(float64(y)/float64(w.Height)-0.5) * 2
		// Dry at the equator and the poles, wettest at the mid-latitudes.
		band := 0.65 - 0.45*math.Cos(latitude*math.Pi*2)
		for x := 0; x < w.Width; x++ {
			n := (p.Noise2D(float64(x)*0.05, float64(y)*0.05) + 1) / 2
			m := clampF(band*0.5+n*0.6, 0, 1)
			if w.Heightmap.Get(x, y) < 0 {
				m = 1
			}
			w.Moisture.Set(x, y, m)
		}
	}
}

func assignBiomes(w *WorldData) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			w.Biomes.Set(x, y, classify(w, x, y))
		}
	}

	// Coast pass: land next to ocean-depth water becomes shoreline.
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			b := w.Biomes.Get(x, y)
			if b.IsWater() || b.Family() == FamilyHighland || b.Family() == FamilyVolcanic {
				continue
			}
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nb := w.Biomes.Get(grid.WrapX(x+d[0], w.Width), grid.ClampY(y+d[1], w.Height))
				if nb == BiomeOcean || nb == BiomeDeepOcean {
					if w.Temperature.Get(x, y) > 5 {
						w.Biomes.Set(x, y, BiomeBeach)
					} else {
						w.Biomes.Set(x, y, BiomeRockyShore)
					}
					break
				}
			}
		}
	}
}

func classify(w *WorldData, x, y int) Biome {
	elev := w.Heightmap.Get(x, y)
	temp := w.Temperature.Get(x, y)
	moist := w.Moisture.Get(x, y)
	stress := w.Stress.Get(x, y)
	volcanic := stress > 0.75

	if elev < 0 {
		switch {
		case temp < -5:
			return BiomeFrozenOcean
		case elev < -2500:
			return BiomeDeepOcean
		default:
			return BiomeOcean
		}
	}

	if volcanic && elev > 800 {
		return BiomeVolcano
	}
	if volcanic {
		if moist < 0.3 {
			return BiomeAshlands
		}
		return BiomeVolcanicWasteland
	}

	if elev > 3200 {
		return BiomeSnowyPeaks
	}
	if elev > 2400 {
		return BiomeAlpine
	}
	if elev > 1600 {
		if moist > 0.55 && temp > 0 {
			return BiomeMountainForest
		}
		return BiomeMountain
	}
	if elev > 1000 {
		if moist < 0.25 {
			return BiomeMesa
		}
		return BiomeHighland
	}
	if elev > 600 {
		return BiomeHills
	}

	// Polar band
	if temp < -10 {
		if moist < 0.2 {
			return BiomePolarDesert
		}
		return BiomeIceSheet
	}
	if temp < -2 {
		if moist > 0.6 {
			return BiomePermafrostBog
		}
		return BiomeTundra
	}
	if temp < 5 {
		if moist > 0.45 {
			return BiomeTaiga
		}
		return BiomeSteppe
	}

	// Temperate band
	if temp < 18 {
		switch {
		case moist > 0.8:
			return BiomeTemperateRainforest
		case moist > 0.6:
			return BiomeDeciduousForest
		case moist > 0.45:
			return BiomeMixedForest
		case moist > 0.3:
			return BiomeGrassland
		default:
			return BiomeColdDesert
		}
	}

	// Hot band
	switch {
	case moist > 0.8:
		return BiomeTropicalRainforest
	case moist > 0.62:
		return BiomeJungle
	case moist > 0.5:
		return BiomeMonsoonForest
	case moist > 0.35:
		return BiomeSavanna
	case moist > 0.2:
		return BiomeThornscrub
	default:
		if w.Stress.Get(x, y) < -0.4 {
			return BiomeSaltFlats
		}
		return BiomeDesert
	}
}

// placeFantasyBiomes overwrites rare pockets with unique biomes using a
// low-frequency noise mask, keyed so placements cluster instead of salting
// single tiles.
func placeFantasyBiomes(w *WorldData) {
	p := perlin.NewPerlin(2, 2, 3, int64(rng.Derive(w.Seed, "fantasy")))
	r := rng.NewSub(w.Seed, "fantasy-pick")

	replacements := map[BiomeFamily][]Biome{
		FamilyTemperateForest: {BiomeEnchantedForest, BiomeFeywood, BiomeEldertrees, BiomeHauntedForest, BiomeWitchwood},
		FamilyBoreal:          {BiomeAuroraTundra, BiomeFrozenHellscape},
		FamilyWetland:         {BiomeShadowMarsh, BiomeBloodFen, BiomeMistValley},
		FamilyArid:            {BiomeSingingSands, BiomeGlassDesert, BiomeBoneFields, BiomeCursedBarrens},
		FamilyOpen:            {BiomeCrystalFields, BiomeLeyNexus, BiomeVerdantHeart},
		FamilyHighland:        {BiomeCrystalSpires, BiomeEchoCanyon, BiomeFloatingStones},
		FamilyVolcanic:        {BiomeDragonScorch, BiomeObsidianPlain},
		FamilyTropical:        {BiomeMushroomForest, BiomeGiantMycelium},
	}
	picked := map[BiomeFamily]Biome{}
	for fam, opts := range replacements {
		picked[fam] = opts[r.Intn(len(opts))]
	}

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if p.Noise2D(float64(x)*0.15, float64(y)*0.15) < 0.72 {
				continue
			}
			b := w.Biomes.Get(x, y)
			if b.IsWater() {
				continue
			}
			if repl, ok := picked[b.Family()]; ok {
				w.Biomes.Set(x, y, repl)
			}
		}
	}
}

func detectWaterBodies(w *WorldData) {
	visited := grid.NewTilemap[bool](w.Width, w.Height)
	var next WaterBodyID = 1

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if visited.Get(x, y) || !w.Biomes.Get(x, y).IsWater() {
				continue
			}
			size := floodFill(w, visited, x, y, next)
			t := WaterLake
			switch {
			case size > w.Width*w.Height/8:
				t = WaterOcean
			case size > w.Width*w.Height/40:
				t = WaterSea
			}
			w.WaterBodies = append(w.WaterBodies, WaterBody{ID: next, Type: t, TileCount: size})
			next++
		}
	}
}

func floodFill(w *WorldData, visited *grid.Tilemap[bool], sx, sy int, id WaterBodyID) int {
	stack := []grid.TileCoord{{X: sx, Y: sy}}
	visited.Set(sx, sy, true)
	count := 0
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		w.WaterBodyMap.Set(c.X, c.Y, id)
		count++
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx := grid.WrapX(c.X+d[0], w.Width)
			ny := c.Y + d[1]
			if ny < 0 || ny >= w.Height || visited.Get(nx, ny) {
				continue
			}
			if !w.Biomes.Get(nx, ny).IsWater() {
				continue
			}
			visited.Set(nx, ny, true)
			stack = append(stack, grid.TileCoord{X: nx, Y: ny})
		}
	}
	return count
}

// traceRivers descends from wet highland sources to the nearest water
// body, accumulating flow and recording polyline segments.
func traceRivers(w *WorldData) {
	r := rng.NewSub(w.Seed, "rivers")
	sources := 0
	want := w.Width * w.Height / 512
	if want < 4 {
		want = 4
	}

	for attempt := 0; attempt < want*8 && sources < want; attempt++ {
		x := r.Intn(w.Width)
		y := r.Intn(w.Height)
		if w.Heightmap.Get(x, y) < 900 || w.Moisture.Get(x, y) < 0.5 || w.Biomes.Get(x, y).IsWater() {
			continue
		}
		if traceOneRiver(w, x, y) {
			sources++
		}
	}
}

func traceOneRiver(w *WorldData, x, y int) bool {
	const maxLen = 256
	flow := 1.0
	prev := grid.TileCoord{X: x, Y: y}

	for i := 0; i < maxLen; i++ {
		if w.Biomes.Get(x, y).IsWater() {
			return i > 2
		}
		w.FlowAccum.Set(x, y, w.FlowAccum.Get(x, y)+flow)
		flow += w.Moisture.Get(x, y) * 0.5

		// Steepest descent among 8 neighbours.
		bestX, bestY := x, y
		bestElev := w.Heightmap.Get(x, y)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx := grid.WrapX(x+dx, w.Width)
				ny := y + dy
				if ny < 0 || ny >= w.Height {
					continue
				}
				if e := w.Heightmap.Get(nx, ny); e < bestElev {
					bestElev = e
					bestX, bestY = nx, ny
				}
			}
		}
		if bestX == x && bestY == y {
			// Local pit: leave a lake tile.
			w.Biomes.Set(x, y, BiomeLake)
			return i > 2
		}

		width := 1
		if flow > 12 {
			width = 2
		}
		w.Rivers = append(w.Rivers, RiverSegment{From: prev, To: grid.TileCoord{X: bestX, Y: bestY}, Width: width})
		prev = grid.TileCoord{X: bestX, Y: bestY}
		x, y = bestX, bestY
	}
	return true
}

func deriveSurfaceZ(w *WorldData) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			z := int(math.Round(w.Heightmap.Get(x, y) / metresPerZ))
			if z < grid.ZMin+6 {
				z = grid.ZMin + 6
			}
			if z > grid.ZMax-4 {
				z = grid.ZMax - 4
			}
			w.SurfaceZ.Set(x, y, z)
		}
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
