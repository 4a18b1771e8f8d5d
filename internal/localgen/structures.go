package localgen

import (
	"math/rand"

	"darktower-backend/internal/geology"
)

// placeSite carves one structure on top of the naturally generated
// terrain. Underground structures get a guaranteed vertical connection
// from the real local surface to their top level.
func placeSite(chunk *LocalChunk, geo *geology.Params, site Site, r *rand.Rand) {
	switch site.Kind {
	case SiteDungeon, SiteUndergroundFortress:
		top := site.Z
		if top > geo.SurfaceZ-3 {
			top = geo.SurfaceZ - 3
		}
		levels := 3 + r.Intn(3)
		ex, ey := generateDungeonLevels(chunk, top, levels, r)
		ensureVerticalAccess(chunk, ex, ey, top)
	case SiteMine:
		generateMine(chunk, geo, r)
	case SiteVillage:
		generateVillage(chunk, r)
	case SiteCastle:
		generateCastle(chunk, r)
	case SiteGraveyard:
		generateGraveyard(chunk, r)
	case SiteBattlefield:
		generateBattlefield(chunk, r)
	case SiteMonsterLair:
		generateMonsterLair(chunk, site.Lair, r)
	case SiteShrine:
		generateShrine(chunk, r)
	case SiteRuins:
		generateRuins(chunk, r)
	case SiteSpring:
		generateSpring(chunk, r)
	case SiteWaterfall:
		generateWaterfall(chunk, site.Z, r)
	case SiteUndergroundLake:
		generateUndergroundLake(chunk, geo)
	}
}

// ensureVerticalAccess carves a stairwell from the column's real local
// surface down to topZ. Every entrance-bearing structure runs through
// here; a chunk without this path fails critical verification.
func ensureVerticalAccess(chunk *LocalChunk, x, y, topZ int) {
	surface := chunk.LocalSurface(x, y)
	entry := NewTile(ConstructedFloor(MatStone))
	entry.Feature = Feature{Kind: FeatStairsDown}
	chunk.Set(x, y, surface, entry)

	for z := surface - 1; z > topZ; z-- {
		t := NewTile(ConstructedFloor(MatStone))
		t.Feature = Feature{Kind: FeatStairsDown}
		chunk.Set(x, y, z, t)
	}

	bottom := NewTile(ConstructedFloor(MatStone))
	bottom.Feature = Feature{Kind: FeatStairsUp}
	chunk.Set(x, y, topZ, bottom)
}

// carveRoom places a walled rectangular room at z: constructed floor
// inside, constructed wall on the perimeter.
func carveRoom(chunk *LocalChunk, x0, y0, w, h, z int, mat Material) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			if !chunk.InBounds(x, y, z) {
				continue
			}
			onEdge := x == x0 || x == x0+w-1 || y == y0 || y == y0+h-1
			if onEdge {
				chunk.Set(x, y, z, NewTile(ConstructedWall(mat)))
			} else {
				chunk.Set(x, y, z, NewTile(ConstructedFloor(mat)))
			}
			// Headroom above the floor.
			if chunk.InBounds(x, y, z+1) && !onEdge {
				chunk.Set(x, y, z+1, AirTile())
			}
		}
	}
}

// placeDoor replaces one wall tile with a floor carrying a door feature.
func placeDoor(chunk *LocalChunk, x, y, z int) {
	t := NewTile(ConstructedFloor(MatStone))
	t.Feature = Door(false)
	chunk.Set(x, y, z, t)
}

type room struct {
	x, y, w, h int
}

func (r room) centre() (int, int) { return r.x + r.w/2, r.y + r.h/2 }

// bspSplit recursively partitions a region into rooms. A region stops
// splitting at depth 0 or once both sides are under 16; a split takes a
// third to two thirds of the longer side.
func bspSplit(r *rand.Rand, x, y, w, h, depth int) []room {
	if depth == 0 || (w < 16 && h < 16) {
		// Leaf: carve a room inside the region with a margin.
		rw := 6 + r.Intn(maxInt(w-8, 1))
		rh := 6 + r.Intn(maxInt(h-8, 1))
		rw = minInt(rw, w-2)
		rh = minInt(rh, h-2)
		return []room{{x: x + 1 + r.Intn(maxInt(w-rw-1, 1)), y: y + 1 + r.Intn(maxInt(h-rh-1, 1)), w: rw, h: rh}}
	}
	if w >= h {
		split := w/3 + r.Intn(maxInt(w/3, 1))
		return append(
			bspSplit(r, x, y, split, h, depth-1),
			bspSplit(r, x+split, y, w-split, h, depth-1)...)
	}
	split := h/3 + r.Intn(maxInt(h/3, 1))
	return append(
		bspSplit(r, x, y, w, split, depth-1),
		bspSplit(r, x, y+split, w, h-split, depth-1)...)
}

// generateDungeonLevel carves one BSP level at z and returns its rooms.
func generateDungeonLevel(chunk *LocalChunk, z int, r *rand.Rand) []room {
	rooms := bspSplit(r, 2, 2, LocalSize-4, LocalSize-4, 3)
	for _, rm := range rooms {
		carveRoom(chunk, rm.x, rm.y, rm.w, rm.h, z, MatStone)
	}
	// Corridors connect consecutive rooms through an L-bend.
	for i := 1; i < len(rooms); i++ {
		ax, ay := rooms[i-1].centre()
		bx, by := rooms[i].centre()
		carveCorridor(chunk, ax, ay, bx, by, z)
	}
	// Sparse dungeon dressing.
	for _, rm := range rooms {
		if r.Float64() < 0.4 {
			cx, cy := rm.centre()
			t := chunk.Get(cx, cy, z)
			if t.Terrain.Kind == TerrainConstructedFloor {
				switch r.Intn(4) {
				case 0:
					t.Feature = Feature{Kind: FeatChest}
				case 1:
					t.Feature = Trap(true)
				case 2:
					t.Feature = Feature{Kind: FeatTorch}
				default:
					t.Feature = Feature{Kind: FeatRubble}
				}
				chunk.Set(cx, cy, z, t)
			}
		}
	}
	return rooms
}

func carveCorridor(chunk *LocalChunk, ax, ay, bx, by, z int) {
	x, y := ax, ay
	for x != bx {
		chunk.Set(x, y, z, NewTile(ConstructedFloor(MatStone)))
		if x < bx {
			x++
		} else {
			x--
		}
	}
	for y != by {
		chunk.Set(x, y, z, NewTile(ConstructedFloor(MatStone)))
		if y < by {
			y++
		} else {
			y--
		}
	}
	chunk.Set(bx, by, z, NewTile(ConstructedFloor(MatStone)))
}

// generateDungeonLevels builds a stack of BSP levels descending from
// topZ. Stairs between consecutive levels share the same (x, y). Returns
// the entrance column on the top level.
func generateDungeonLevels(chunk *LocalChunk, topZ, levels int, r *rand.Rand) (int, int) {
	prevStairs := [2]int{-1, -1}
	entrance := [2]int{LocalSize / 2, LocalSize / 2}

	for i := 0; i < levels; i++ {
		z := topZ - i*2
		if z <= ZMin {
			break
		}
		rooms := generateDungeonLevel(chunk, z, r)
		rm := rooms[r.Intn(len(rooms))]
		cx, cy := rm.centre()

		if i == 0 {
			entrance = [2]int{cx, cy}
		}

		// Stairs up to the previous level at its stairs-down position.
		if prevStairs[0] >= 0 {
			up := NewTile(ConstructedFloor(MatStone))
			up.Feature = Feature{Kind: FeatStairsUp}
			chunk.Set(prevStairs[0], prevStairs[1], z, up)
			carveCorridor(chunk, prevStairs[0], prevStairs[1], cx, cy, z)
		}

		// Stairs down toward the next level.
		if i < levels-1 {
			down := NewTile(ConstructedFloor(MatStone))
			down.Feature = Feature{Kind: FeatStairsDown}
			chunk.Set(cx, cy, z, down)
			prevStairs = [2]int{cx, cy}
		}
	}
	return entrance[0], entrance[1]
}

// generateMine places a surface entrance building and 3-5 descending
// tunnel levels with connecting stairs and scattered ore veins.
func generateMine(chunk *LocalChunk, geo *geology.Params, r *rand.Rand) {
	levels := 3 + r.Intn(3)
	ex, ey := LocalSize/2, LocalSize/2
	surface := chunk.LocalSurface(ex, ey)

	// Entrance building.
	carveRoom(chunk, ex-2, ey-2, 5, 5, surface, MatStone)
	placeDoor(chunk, ex, ey-2, surface)

	topZ := surface - 3
	for i := 0; i < levels; i++ {
		z := topZ - i*3
		if z <= ZMin {
			break
		}
		carveMineLevel(chunk, ex, ey, z, r)
	}
	bottomZ := topZ - (levels-1)*3
	if bottomZ <= ZMin {
		bottomZ = ZMin + 1
	}

	// The shaft connects every level at the entrance column.
	ensureVerticalAccess(chunk, ex, ey, bottomZ)
}

// carveMineLevel opens a cross of tunnels through the level with ore
// veins on the walls.
func carveMineLevel(chunk *LocalChunk, cx, cy, z int, r *rand.Rand) {
	span := 10 + r.Intn(10)
	for d := -span; d <= span; d++ {
		for _, p := range [2][2]int{{cx + d, cy}, {cx, cy + d}} {
			if !chunk.InBounds(p[0], p[1], z) {
				continue
			}
			chunk.Set(p[0], p[1], z, NewTile(ConstructedFloor(MatStone)))
		}
	}
	veins := 4 + r.Intn(6)
	for i := 0; i < veins; i++ {
		vx := cx + r.Intn(span*2+1) - span
		vy := cy + r.Intn(5) - 2
		if !chunk.InBounds(vx, vy, z) {
			continue
		}
		t := chunk.Get(vx, vy, z)
		if t.Terrain.Kind == TerrainStone {
			t.Feature = Feature{Kind: FeatOreVein}
			chunk.Set(vx, vy, z, t)
		}
	}
}

// generateVillage places 3-8 buildings around a central plaza, roads out
// to the chunk edges, and a door on every building.
func generateVillage(chunk *LocalChunk, r *rand.Rand) {
	z := chunk.SurfaceZ
	cx, cy := LocalSize/2, LocalSize/2

	// Plaza.
	for y := cy - 3; y <= cy+3; y++ {
		for x := cx - 3; x <= cx+3; x++ {
			chunk.Set(x, y, z, NewTile(ConstructedFloor(MatStone)))
		}
	}
	well := chunk.Get(cx, cy, z)
	well.Feature = Feature{Kind: FeatWell}
	chunk.Set(cx, cy, z, well)

	// Roads from the plaza to each chunk edge midpoint.
	for x := 0; x < LocalSize; x++ {
		flattenRoadTile(chunk, x, cy, z)
	}
	for y := 0; y < LocalSize; y++ {
		flattenRoadTile(chunk, cx, y, z)
	}

	buildings := 3 + r.Intn(6)
	placed := 0
	for attempt := 0; attempt < buildings*8 && placed < buildings; attempt++ {
		w := 5 + r.Intn(4)
		h := 5 + r.Intn(4)
		x0 := 2 + r.Intn(LocalSize-w-4)
		y0 := 2 + r.Intn(LocalSize-h-4)
		if overlapsVillageCore(x0, y0, w, h, cx, cy) || overlapsConstruction(chunk, x0, y0, w, h, z) {
			continue
		}
		carveRoom(chunk, x0, y0, w, h, z, MatDirt)
		// Door on the side facing the plaza, connected by a path.
		dx, dy := doorTowards(x0, y0, w, h, cx, cy)
		placeDoor(chunk, dx, dy, z)
		carvePath(chunk, dx, dy, cx, cy, z)
		placed++
	}
}

func flattenRoadTile(chunk *LocalChunk, x, y, z int) {
	if !chunk.InBounds(x, y, z) {
		return
	}
	if chunk.Get(x, y, z).Terrain.IsConstructed() {
		return
	}
	chunk.Set(x, y, z, NewTile(ConstructedFloor(MatDirt)))
	if chunk.InBounds(x, y, z+1) {
		chunk.Set(x, y, z+1, AirTile())
	}
}

func overlapsVillageCore(x0, y0, w, h, cx, cy int) bool {
	return x0 <= cx+4 && x0+w >= cx-4 && y0 <= cy+4 && y0+h >= cy-4
}

func overlapsConstruction(chunk *LocalChunk, x0, y0, w, h, z int) bool {
	for y := y0 - 1; y <= y0+h; y++ {
		for x := x0 - 1; x <= x0+w; x++ {
			if !chunk.InBounds(x, y, z) {
				return true
			}
			if chunk.Get(x, y, z).Terrain.IsConstructed() {
				return true
			}
		}
	}
	return false
}

// doorTowards picks the wall tile of a room closest to (tx, ty),
// never a corner.
func doorTowards(x0, y0, w, h, tx, ty int) (int, int) {
	cx, cy := x0+w/2, y0+h/2
	dx, dy := tx-cx, ty-cy
	if absInt(dx) > absInt(dy) {
		if dx > 0 {
			return x0 + w - 1, cy
		}
		return x0, cy
	}
	if dy > 0 {
		return cx, y0 + h - 1
	}
	return cx, y0
}

// carvePath draws an L-shaped dirt path between two points, skipping
// constructed tiles so walls stay intact.
func carvePath(chunk *LocalChunk, ax, ay, bx, by, z int) {
	x, y := ax, ay
	step := func() {
		if !chunk.InBounds(x, y, z) {
			return
		}
		t := chunk.Get(x, y, z)
		if t.Terrain.IsConstructed() {
			return
		}
		chunk.Set(x, y, z, NewTile(ConstructedFloor(MatDirt)))
	}
	for x != bx {
		step()
		if x < bx {
			x++
		} else {
			x--
		}
	}
	for y != by {
		step()
		if y < by {
			y++
		} else {
			y--
		}
	}
}

// generateCastle builds a rectangular fortress-wall enclosure with 2-4
// towers, an interior keep, and a single gate.
func generateCastle(chunk *LocalChunk, r *rand.Rand) {
	z := chunk.SurfaceZ
	size := 26 + r.Intn(8)
	x0 := (LocalSize - size) / 2
	y0 := (LocalSize - size) / 2

	wall := func(x, y int) {
		t := NewTile(Terrain{Kind: TerrainFortressWall, Mat: MatStone})
		chunk.Set(x, y, z, t)
		chunk.Set(x, y, z+1, t)
	}

	for x := x0; x < x0+size; x++ {
		wall(x, y0)
		wall(x, y0+size-1)
	}
	for y := y0; y < y0+size; y++ {
		wall(x0, y)
		wall(x0+size-1, y)
	}
	// Courtyard.
	for y := y0 + 1; y < y0+size-1; y++ {
		for x := x0 + 1; x < x0+size-1; x++ {
			chunk.Set(x, y, z, NewTile(ConstructedFloor(MatStone)))
		}
	}

	// Towers on 2-4 corners.
	towers := 2 + r.Intn(3)
	corners := [4][2]int{{x0, y0}, {x0 + size - 3, y0}, {x0, y0 + size - 3}, {x0 + size - 3, y0 + size - 3}}
	for i := 0; i < towers; i++ {
		tx, ty := corners[i][0], corners[i][1]
		for y := ty; y < ty+3; y++ {
			for x := tx; x < tx+3; x++ {
				wall(x, y)
			}
		}
	}

	// Keep.
	keep := size / 3
	kx := x0 + (size-keep)/2
	ky := y0 + (size-keep)/2
	carveRoom(chunk, kx, ky, keep, keep, z, MatStone)
	placeDoor(chunk, kx+keep/2, ky+keep-1, z)

	// Single gate on the south wall.
	gate := NewTile(ConstructedFloor(MatStone))
	gate.Feature = Door(false)
	chunk.Set(x0+size/2, y0+size-1, z, gate)
	chunk.Set(x0+size/2, y0+size-1, z+1, AirTile())
}

// generateGraveyard lays a regular grid of headstones and one mausoleum.
// No walls; the dead do not wander.
func generateGraveyard(chunk *LocalChunk, r *rand.Rand) {
	z := chunk.SurfaceZ
	x0 := 8 + r.Intn(8)
	y0 := 8 + r.Intn(8)
	cols := 6 + r.Intn(4)
	rows := 4 + r.Intn(3)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := x0 + col*2
			y := y0 + row*2
			if !chunk.InBounds(x, y, z) {
				continue
			}
			t := chunk.Get(x, y, z)
			if !t.Terrain.IsPassable() {
				continue
			}
			t.Feature = Feature{Kind: FeatHeadstone}
			chunk.Set(x, y, z, t)
		}
	}

	mx := x0 + cols*2 + 2
	my := y0
	if mx+2 < LocalSize && my+2 < LocalSize {
		carveRoom(chunk, mx, my, 3, 3, z, MatStone)
		placeDoor(chunk, mx+1, my+2, z)
		centre := chunk.Get(mx+1, my+1, z)
		centre.Feature = Feature{Kind: FeatMausoleum}
		chunk.Set(mx+1, my+1, z, centre)
	}
}

// generateBattlefield scatters bones, rubble, and weapon scrap. No
// buildings.
func generateBattlefield(chunk *LocalChunk, r *rand.Rand) {
	z := chunk.SurfaceZ
	count := 30 + r.Intn(40)
	for i := 0; i < count; i++ {
		x := r.Intn(LocalSize)
		y := r.Intn(LocalSize)
		surface := chunk.LocalSurface(x, y)
		if absInt(surface-z) > 2 {
			continue
		}
		t := chunk.Get(x, y, surface)
		if !t.Terrain.IsPassable() || t.Feature.Kind != FeatNone {
			continue
		}
		switch r.Intn(3) {
		case 0:
			t.Feature = Feature{Kind: FeatBones}
		case 1:
			t.Feature = Feature{Kind: FeatRubble}
		default:
			t.Feature = Feature{Kind: FeatWeaponScrap}
		}
		chunk.Set(x, y, surface, t)
	}
}

// generateMonsterLair clusters species-specific markings around the
// chunk centre.
func generateMonsterLair(chunk *LocalChunk, lair LairType, r *rand.Rand) {
	cx, cy := LocalSize/2, LocalSize/2
	count := 20 + r.Intn(20)

	feat := FeatBones
	switch lair {
	case LairWebCluster:
		feat = FeatWeb
	case LairSlimeTrail:
		feat = FeatSlime
	case LairAntMound:
		feat = FeatAntMound
	case LairBeeHive:
		feat = FeatBeeHive
	}

	for i := 0; i < count; i++ {
		x := cx + r.Intn(17) - 8
		y := cy + r.Intn(17) - 8
		if x < 0 || x >= LocalSize || y < 0 || y >= LocalSize {
			continue
		}
		surface := chunk.LocalSurface(x, y)
		t := chunk.Get(x, y, surface)
		if !t.Terrain.IsPassable() || t.Feature.Kind != FeatNone {
			continue
		}
		t.Feature = Feature{Kind: feat}
		chunk.Set(x, y, surface, t)
	}
}

// generateShrine lays a small stone floor with an altar.
func generateShrine(chunk *LocalChunk, r *rand.Rand) {
	z := chunk.SurfaceZ
	cx := LocalSize/2 + r.Intn(9) - 4
	cy := LocalSize/2 + r.Intn(9) - 4
	for y := cy - 1; y <= cy+1; y++ {
		for x := cx - 1; x <= cx+1; x++ {
			if chunk.InBounds(x, y, z) {
				chunk.Set(x, y, z, NewTile(ConstructedFloor(MatStone)))
			}
		}
	}
	altar := chunk.Get(cx, cy, z)
	altar.Feature = Feature{Kind: FeatAltar}
	chunk.Set(cx, cy, z, altar)
}

// generateRuins leaves broken wall fragments and rubble of an older
// building.
func generateRuins(chunk *LocalChunk, r *rand.Rand) {
	z := chunk.SurfaceZ
	x0 := 10 + r.Intn(20)
	y0 := 10 + r.Intn(20)
	w := 6 + r.Intn(6)
	h := 6 + r.Intn(6)
	for y := y0; y < y0+h && y < LocalSize; y++ {
		for x := x0; x < x0+w && x < LocalSize; x++ {
			onEdge := x == x0 || x == x0+w-1 || y == y0 || y == y0+h-1
			if !onEdge {
				continue
			}
			// Most of the wall has collapsed.
			if r.Float64() < 0.45 {
				chunk.Set(x, y, z, NewTile(ConstructedWall(MatStone)))
			} else if r.Float64() < 0.5 {
				t := chunk.Get(x, y, z)
				t.Feature = Feature{Kind: FeatRubble}
				chunk.Set(x, y, z, t)
			}
		}
	}
}

// generateSpring pools shallow water around a source tile.
func generateSpring(chunk *LocalChunk, r *rand.Rand) {
	cx := LocalSize/2 + r.Intn(13) - 6
	cy := LocalSize/2 + r.Intn(13) - 6
	z := chunk.LocalSurface(cx, cy)

	src := NewTile(Terrain{Kind: TerrainFlowingWater, Mat: MatWater})
	chunk.Set(cx, cy, z, src)
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		x, y := cx+d[0], cy+d[1]
		if !chunk.InBounds(x, y, z) {
			continue
		}
		if r.Float64() < 0.8 {
			chunk.Set(x, y, z, NewTile(Terrain{Kind: TerrainShallowWater, Mat: MatWater}))
		}
	}
}

// generateWaterfall carves a vertical water column down a cliff face.
func generateWaterfall(chunk *LocalChunk, topZ int, r *rand.Rand) {
	cx := LocalSize/2 + r.Intn(9) - 4
	cy := LocalSize/2 + r.Intn(9) - 4

	if topZ > chunk.SurfaceZ {
		topZ = chunk.SurfaceZ
	}
	bottom := topZ - 3 - r.Intn(4)
	if bottom < ZMin {
		bottom = ZMin
	}
	for z := topZ; z >= bottom; z-- {
		chunk.Set(cx, cy, z, NewTile(Terrain{Kind: TerrainFlowingWater, Mat: MatWater}))
	}
	// Plunge pool.
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		x, y := cx+d[0], cy+d[1]
		if chunk.InBounds(x, y, bottom) {
			chunk.Set(x, y, bottom, NewTile(Terrain{Kind: TerrainShallowWater, Mat: MatWater}))
		}
	}
}

// generateUndergroundLake floods cave floors below the water table.
func generateUndergroundLake(chunk *LocalChunk, geo *geology.Params) {
	level := geo.AquiferZ
	if !geo.HasAquifer {
		level = geo.SurfaceZ - 6
	}
	for ly := 0; ly < LocalSize; ly++ {
		for lx := 0; lx < LocalSize; lx++ {
			for z := ZMin; z <= level && z < chunk.SurfaceZ; z++ {
				t := chunk.Get(lx, ly, z)
				if t.Terrain.Kind == TerrainCaveFloor {
					chunk.Set(lx, ly, z, NewTile(Terrain{Kind: TerrainShallowWater, Mat: MatWater}))
				}
			}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
