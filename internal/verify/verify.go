package verify

import (
	"darktower-backend/internal/geology"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/localgen"
	"darktower-backend/internal/overworld"
)

// EdgeClass collapses tile kinds for boundary comparison: all water
// kinds are one class, all land kinds another, air a third.
type EdgeClass uint8

const (
	ClassAir EdgeClass = iota
	ClassLand
	ClassWater
)

// Classify maps a tile to its edge-equivalence class.
func Classify(t localgen.LocalTile) EdgeClass {
	switch {
	case t.Terrain.IsWater():
		return ClassWater
	case t.Terrain.Kind == localgen.TerrainAir:
		return ClassAir
	default:
		return ClassLand
	}
}

// Chunk runs all verification categories and returns the report.
// sites lists the structures history declared for this tile; bounds are
// the boundary conditions the chunk was generated against, when known.
func Chunk(world *overworld.WorldData, chunk *localgen.LocalChunk, sites []localgen.Site, bounds *localgen.BoundaryConditions) *Report {
	r := &Report{WorldX: chunk.WorldX, WorldY: chunk.WorldY}

	checkGeology(r, world, chunk)
	checkStructures(r, chunk, sites)
	checkReachability(r, chunk, sites)
	if !bounds.IsEmpty() {
		checkBoundaries(r, chunk, bounds)
		checkFeatureContinuity(r, chunk, bounds)
	}

	return r
}

func checkGeology(r *Report, world *overworld.WorldData, chunk *localgen.LocalChunk) {
	geo := geology.Derive(world, chunk.WorldX, chunk.WorldY)

	if chunk.SurfaceZ != geo.SurfaceZ {
		r.fail(CategoryGeologyConsistency, SeverityCritical,
			"chunk surface_z %d does not match derived %d", chunk.SurfaceZ, geo.SurfaceZ)
	} else {
		r.pass(CategoryGeologyConsistency)
	}

	if chunk.Geology.PrimaryStone != geo.PrimaryStone {
		r.fail(CategoryGeologyConsistency, SeverityHigh,
			"primary stone %s does not match derived %s", chunk.Geology.PrimaryStone, geo.PrimaryStone)
	} else {
		r.pass(CategoryGeologyConsistency)
	}

	if geo.HasMagma {
		found := false
		for ly := 0; ly < localgen.LocalSize && !found; ly++ {
			for lx := 0; lx < localgen.LocalSize; lx++ {
				for z := localgen.ZMin; z <= localgen.ZMin+3; z++ {
					if chunk.Get(lx, ly, z).Terrain.Kind == localgen.TerrainMagma {
						found = true
						break
					}
				}
				if found {
					break
				}
			}
		}
		if !found {
			r.fail(CategoryGeologyConsistency, SeverityHigh,
				"geology has magma but no magma tiles below the deep threshold")
		} else {
			r.pass(CategoryGeologyConsistency)
		}
	}
}

// structureMarker returns a predicate identifying tiles that prove the
// site was realised.
func structureMarker(kind localgen.SiteKind) func(localgen.LocalTile) bool {
	switch kind {
	case localgen.SiteVillage:
		return func(t localgen.LocalTile) bool { return t.Feature.Kind == localgen.FeatDoor }
	case localgen.SiteCastle:
		return func(t localgen.LocalTile) bool { return t.Terrain.Kind == localgen.TerrainFortressWall }
	case localgen.SiteDungeon, localgen.SiteUndergroundFortress, localgen.SiteMine:
		return func(t localgen.LocalTile) bool {
			return t.Feature.Kind == localgen.FeatStairsUp || t.Feature.Kind == localgen.FeatStairsDown
		}
	case localgen.SiteGraveyard:
		return func(t localgen.LocalTile) bool { return t.Feature.Kind == localgen.FeatHeadstone }
	case localgen.SiteBattlefield:
		return func(t localgen.LocalTile) bool {
			switch t.Feature.Kind {
			case localgen.FeatBones, localgen.FeatRubble, localgen.FeatWeaponScrap:
				return true
			}
			return false
		}
	case localgen.SiteMonsterLair:
		return func(t localgen.LocalTile) bool {
			switch t.Feature.Kind {
			case localgen.FeatWeb, localgen.FeatBones, localgen.FeatSlime, localgen.FeatAntMound, localgen.FeatBeeHive:
				return true
			}
			return false
		}
	case localgen.SiteShrine:
		return func(t localgen.LocalTile) bool { return t.Feature.Kind == localgen.FeatAltar }
	case localgen.SiteSpring, localgen.SiteWaterfall, localgen.SiteUndergroundLake:
		return func(t localgen.LocalTile) bool { return t.Terrain.IsWater() }
	default:
		return nil
	}
}

func checkStructures(r *Report, chunk *localgen.LocalChunk, sites []localgen.Site) {
	for _, site := range sites {
		marker := structureMarker(site.Kind)
		if marker == nil {
			continue
		}
		found := false
	scan:
		for z := localgen.ZMin; z <= localgen.ZMax; z++ {
			for ly := 0; ly < localgen.LocalSize; ly++ {
				for lx := 0; lx < localgen.LocalSize; lx++ {
					if marker(chunk.Get(lx, ly, z)) {
						found = true
						break scan
					}
				}
			}
		}
		if found {
			r.pass(CategoryStructurePresence)
		} else {
			r.fail(CategoryStructurePresence, SeverityCritical,
				"declared structure kind %d has no marker tiles", site.Kind)
		}
	}
}

func checkReachability(r *Report, chunk *localgen.LocalChunk, sites []localgen.Site) {
	for _, site := range sites {
		if !site.Kind.HasEntrance() {
			continue
		}
		ex, ey, ok := findEntrance(chunk)
		if !ok {
			r.fail(CategoryZReachability, SeverityCritical,
				"entrance-bearing structure has no surface stairs")
			continue
		}
		target := site.Z
		if target > chunk.SurfaceZ-3 {
			target = chunk.SurfaceZ - 3
		}
		if bfsReaches(chunk, ex, ey, chunk.LocalSurface(ex, ey), target) {
			r.pass(CategoryZReachability)
		} else {
			f := r.fail(CategoryZReachability, SeverityCritical,
				"no passable path from entrance to structure z=%d", target)
			*f = f.At(ex, ey, target)
		}
	}
}

// bfsReaches walks passable tiles from the entrance, using vertical
// features to change z, until it reaches targetZ or exhausts the chunk.
func bfsReaches(chunk *localgen.LocalChunk, sx, sy, sz, targetZ int) bool {
	type pos struct{ x, y, z int }
	visited := make(map[pos]bool)
	queue := []pos{{sx, sy, sz}}
	visited[queue[0]] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p.z <= targetZ {
			return true
		}

		tile := chunk.Get(p.x, p.y, p.z)
		candidates := [][3]int{
			{p.x + 1, p.y, p.z}, {p.x - 1, p.y, p.z},
			{p.x, p.y + 1, p.z}, {p.x, p.y - 1, p.z},
		}
		if tile.Feature.IsVertical() {
			candidates = append(candidates, [3]int{p.x, p.y, p.z - 1}, [3]int{p.x, p.y, p.z + 1})
		}
		for _, c := range candidates {
			n := pos{c[0], c[1], c[2]}
			if !chunk.InBounds(n.x, n.y, n.z) || visited[n] {
				continue
			}
			if !chunk.Get(n.x, n.y, n.z).IsPassable() {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}

func findEntrance(chunk *localgen.LocalChunk) (int, int, bool) {
	for ly := 0; ly < localgen.LocalSize; ly++ {
		for lx := 0; lx < localgen.LocalSize; lx++ {
			z := chunk.LocalSurface(lx, ly)
			if chunk.Get(lx, ly, z).Feature.Kind == localgen.FeatStairsDown {
				return lx, ly, true
			}
		}
	}
	return 0, 0, false
}

func checkBoundaries(r *Report, chunk *localgen.LocalChunk, bounds *localgen.BoundaryConditions) {
	for _, dir := range []localgen.EdgeDirection{localgen.EdgeNorth, localgen.EdgeSouth, localgen.EdgeEast, localgen.EdgeWest} {
		edge := bounds.Edge(dir)
		if edge == nil {
			continue
		}
		own := chunk.ExtractEdge(dir)
		mismatches := 0
		for i := 0; i < localgen.LocalSize; i++ {
			for zi := 0; zi < grid.ZCount; zi++ {
				if Classify(own.Tiles[i][zi]) != Classify(edge.Tiles[i][zi]) {
					mismatches++
				}
			}
		}
		if mismatches == 0 {
			r.pass(CategoryBoundaryCoherence)
		} else {
			sev := SeverityCritical
			if mismatches < localgen.LocalSize*grid.ZCount/100 {
				sev = SeverityMedium
			}
			r.fail(CategoryBoundaryCoherence, sev,
				"%s edge disagrees with supplied boundary on %d cells", dirName(dir), mismatches)
		}
	}
}

// checkFeatureContinuity is best-effort: the rim surface may not step
// more than one z against the neighbour edge.
func checkFeatureContinuity(r *Report, chunk *localgen.LocalChunk, bounds *localgen.BoundaryConditions) {
	for _, dir := range []localgen.EdgeDirection{localgen.EdgeNorth, localgen.EdgeSouth, localgen.EdgeEast, localgen.EdgeWest} {
		edge := bounds.Edge(dir)
		if edge == nil {
			continue
		}
		own := chunk.ExtractEdge(dir)
		steps := 0
		for i := 0; i < localgen.LocalSize; i++ {
			if absInt(edgeSurface(own, i)-edgeSurface(edge, i)) > 1 {
				steps++
			}
		}
		if steps == 0 {
			r.pass(CategoryFeatureContinuity)
		} else {
			r.fail(CategoryFeatureContinuity, SeverityLow,
				"%s edge has %d columns stepping more than one z", dirName(dir), steps)
		}
	}
}

func edgeSurface(e *localgen.ChunkEdge, i int) int {
	for zi := grid.ZCount - 1; zi >= 0; zi-- {
		t := e.Tiles[i][zi]
		if t.Terrain.Kind != localgen.TerrainAir && !t.Terrain.IsWater() {
			return zi + grid.ZMin
		}
	}
	return grid.SeaLevelZ
}

func dirName(d localgen.EdgeDirection) string {
	switch d {
	case localgen.EdgeNorth:
		return "north"
	case localgen.EdgeSouth:
		return "south"
	case localgen.EdgeEast:
		return "east"
	default:
		return "west"
	}
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
