package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog/log"

	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/paths"
	"darktower-backend/internal/rng"
)

// NewState seeds a short-horizon simulation with starting tribes placed
// on habitable tiles.
func NewState(world *overworld.WorldData, params Params, seed uint64) *State {
	s := &State{
		World:     world,
		Tribes:    make(map[TribeID]*Tribe),
		Territory: grid.NewTilemap[TribeID](world.Width, world.Height),
		Relations: make(map[[2]TribeID]*TribeRelation),
		Roads:     make(map[grid.TileCoord]*RoadSegment),
		Params:    params,
		nextTribeID: 1,
		nextAgentID: 1,
	}

	r := rng.NewSub(seed, "sim-init")
	tribes := 3 + r.Intn(3)
	for i := 0; i < tribes; i++ {
		for attempt := 0; attempt < 40; attempt++ {
			x, y := r.Intn(world.Width), r.Intn(world.Height)
			if world.IsWaterAt(x, y) || s.OwnerOf(x, y) != 0 {
				continue
			}
			s.spawnTribe(x, y, r)
			break
		}
	}

	// Starter fauna herds.
	herds := 8 + r.Intn(8)
	for i := 0; i < herds; i++ {
		x, y := r.Intn(world.Width), r.Intn(world.Height)
		if world.IsWaterAt(x, y) {
			continue
		}
		species := FaunaSpecies(r.Intn(6))
		for j := 0; j < 2+r.Intn(4); j++ {
			s.Fauna = append(s.Fauna, &Animal{
				ID:      s.nextAgentID,
				Species: species,
				X:       x,
				Y:       y,
				Female:  j%2 == 0,
				Age:     1 + r.Intn(4),
				State:   FaunaIdle,
				HomeX:   x,
				HomeY:   y,
			})
			s.nextAgentID++
		}
	}

	return s
}

func (s *State) spawnTribe(x, y int, r *rand.Rand) *Tribe {
	t := &Tribe{
		ID:        s.nextTribeID,
		Name:      fmt.Sprintf("Tribe of the %s", s.World.BiomeAt(x, y)),
		Capital:   grid.TileCoord{X: x, Y: y},
		Territory: map[grid.TileCoord]struct{}{},
		Population: 60 + r.Intn(80),
		Culture: TribeCulture{
			Aggression:       r.Float64(),
			TradeAffinity:    r.Float64(),
			ExpansionDrive:   r.Float64(),
			ResearchPriority: r.Float64(),
		},
		StockpileCap: 500,
		Settlements:  []TribeSettlement{{X: x, Y: y, Buildings: []Building{BuildingHut}}},
	}
	s.nextTribeID++
	t.Workers = t.Population * 6 / 10
	t.Warriors = t.Population / 10
	for i := range t.Needs {
		t.Needs[i] = 0.7
	}
	s.Tribes[t.ID] = t
	s.claim(t, x, y)
	// A starting ring of territory.
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := s.World.Wrap(x+d[0], y+d[1])
		if !s.World.IsWaterAt(nx, ny) && s.OwnerOf(nx, ny) == 0 {
			s.claim(t, nx, ny)
		}
	}

	// Five colonists per tribe, one of each role.
	for i := 0; i < 5; i++ {
		s.Colonists = append(s.Colonists, &Colonist{
			ID:    s.nextAgentID,
			Tribe: t.ID,
			Role:  ColonistRole(i % 5),
			X:     x,
			Y:     y,
		})
		s.nextAgentID++
	}
	return t
}

// Run seeds a simulation and advances it the given number of ticks.
func Run(world *overworld.WorldData, params Params, ticks int, r *rand.Rand) *State {
	s := NewState(world, params, world.Seed)
	for i := 0; i < ticks; i++ {
		s.Step(r)
	}
	return s
}

// tribeIDs returns live tribe ids in order.
func (s *State) tribeIDs() []TribeID {
	out := make([]TribeID, 0, len(s.Tribes))
	for id, t := range s.Tribes {
		if !t.Extinct {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Step advances the short-horizon simulation by one tick. Order is
// fixed: resources, consumption, needs, population, tech, territory,
// monsters, fauna, colonists, roads, diplomacy, cleanup.
func (s *State) Step(r *rand.Rand) {
	for _, id := range s.tribeIDs() {
		t := s.Tribes[id]
		s.extractResources(t)
		s.consume(t, r)
		s.updateNeeds(t)
		s.updatePopulation(t, r)
		s.advanceTech(t)
		s.expandTerritory(t, r)
	}

	s.updateMonsters(r)
	s.updateFauna(r)
	s.updateColonists(r)
	s.maintainRoads(r)
	s.tribeDiplomacy(r)
	s.cleanup()

	s.Tick++
}

// seasonOf maps the tick to a season index.
func (s *State) seasonOf() int { return int(s.Tick % 4) }

// extractResources works each owned tile through the biome-season
// production table with tech, needs, and diminishing-returns factors.
func (s *State) extractResources(t *Tribe) {
	if len(t.Territory) == 0 || t.Workers == 0 {
		return
	}
	season := s.seasonOf()
	diminishing := math.Sqrt(float64(t.Workers) / float64(len(t.Territory)))
	needsMod := 0.5 + t.Needs[NeedMorale]*0.5

	owned := make([]grid.TileCoord, 0, len(t.Territory))
	for c := range t.Territory {
		owned = append(owned, c)
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].Y != owned[j].Y {
			return owned[i].Y < owned[j].Y
		}
		return owned[i].X < owned[j].X
	})

	for _, c := range owned {
		biome := s.World.BiomeAt(c.X, c.Y)
		for res, amount := range productionFor(biome, season) {
			gain := amount * t.Age.Multiplier() * needsMod * diminishing
			t.Stockpile[res] = math.Min(t.Stockpile[res]+gain, t.StockpileCap)
		}
	}
}

// productionFor is the biome-season production table.
func productionFor(b overworld.Biome, season int) map[Resource]float64 {
	winter := season == 3
	out := map[Resource]float64{}
	if b.IsWater() {
		out[ResWater] = 3
		out[ResFood] = 1.5
		return out
	}
	switch b.Family() {
	case overworld.FamilyTemperateForest, overworld.FamilyBoreal:
		out[ResWood] = 2.5
		out[ResFood] = 1.2
		out[ResHide] = 0.5
	case overworld.FamilyOpen:
		out[ResFood] = 2.2
		out[ResHide] = 0.4
	case overworld.FamilyTropical:
		out[ResFood] = 2.6
		out[ResWood] = 1.5
	case overworld.FamilyHighland, overworld.FamilyVolcanic:
		out[ResStone] = 2.0
		out[ResOre] = 1.0
	case overworld.FamilyArid:
		out[ResStone] = 0.8
		out[ResFood] = 0.4
	case overworld.FamilyWetland:
		out[ResFood] = 1.6
		out[ResWater] = 2.0
	case overworld.FamilyPolar:
		out[ResHide] = 0.8
		out[ResFood] = 0.3
	default:
		out[ResFood] = 1.0
	}
	out[ResWater] += 1.0
	if winter {
		out[ResFood] *= 0.4
	}
	return out
}

// consume subtracts food and water against population and decays the
// stockpile.
func (s *State) consume(t *Tribe, r *rand.Rand) {
	pop := float64(t.Population)
	t.Stockpile[ResFood] -= pop * 0.02
	t.Stockpile[ResWater] -= pop * 0.015
	for res := Resource(0); res < resourceCount; res++ {
		if t.Stockpile[res] < 0 {
			t.Stockpile[res] = 0
		}
		t.Stockpile[res] *= 1 - decayRates[res]
	}
}

// updateNeeds recomputes the satisfaction vector.
func (s *State) updateNeeds(t *Tribe) {
	pop := math.Max(float64(t.Population), 1)
	t.Needs[NeedFood] = clamp01(t.Stockpile[ResFood] / (pop * 0.1))
	t.Needs[NeedWater] = clamp01(t.Stockpile[ResWater] / (pop * 0.08))

	shelterCap := 0.0
	defense := 0.0
	research := 0.0
	for _, st := range t.Settlements {
		for _, b := range st.Buildings {
			switch b {
			case BuildingHut:
				shelterCap += 40
			case BuildingGranary:
				shelterCap += 10
			case BuildingPalisade:
				defense += 0.3
			case BuildingLibrary:
				research += 1
			case BuildingWorkshop:
				research += 0.5
			}
		}
	}
	t.Needs[NeedShelter] = clamp01(shelterCap / pop)
	t.Needs[NeedDefense] = clamp01(0.2 + defense + float64(t.Warriors)/pop)
	t.Needs[NeedHealth] = clamp01((t.Needs[NeedFood] + t.Needs[NeedWater]) / 2)
	t.Needs[NeedMorale] = clamp01((t.Needs[NeedFood] + t.Needs[NeedShelter] + t.Needs[NeedHealth]) / 3)
}

// updatePopulation births and buries by needs; famine shrinks fast.
func (s *State) updatePopulation(t *Tribe, r *rand.Rand) {
	births := int(float64(t.Population) * 0.01 * t.Needs[NeedHealth])
	deaths := int(float64(t.Population) * 0.008 * (1 - t.Needs[NeedFood]))
	if t.Needs[NeedFood] < 0.15 {
		famine := int(float64(t.Population) * 0.05)
		deaths += famine
		log.Debug().Str("tribe", t.Name).Int("deaths", famine).Msg("Famine")
	}
	t.Population += births - deaths
	if t.Population < 0 {
		t.Population = 0
	}
	t.Workers = t.Population * 6 / 10
	t.Warriors = int(float64(t.Population) * (0.08 + t.Culture.Aggression*0.08))
	t.StockpileCap = 500 + float64(t.Population)*5
}

// advanceTech accrues research and crosses age thresholds when the
// prerequisites are met.
func (s *State) advanceTech(t *Tribe) {
	t.Research += float64(t.Workers) * 0.01 * (0.5 + t.Culture.ResearchPriority)
	for _, st := range t.Settlements {
		for _, b := range st.Buildings {
			if b == BuildingLibrary {
				t.Research += 2
			}
		}
	}

	type gate struct {
		next     TechAge
		research float64
		stone    float64
		ore      float64
	}
	gates := []gate{
		{AgeBronze, 200, 50, 20},
		{AgeIron, 600, 150, 80},
		{AgeClassical, 1500, 400, 200},
	}
	for _, g := range gates {
		if t.Age == g.next-1 && t.Research >= g.research &&
			t.Stockpile[ResStone] >= g.stone && t.Stockpile[ResOre] >= g.ore {
			t.Age = g.next
			log.Info().Str("tribe", t.Name).Int("age", int(g.next)).Msg("Tribe advances an age")
		}
	}
}

// expandTerritory claims one unowned land tile next to an owned tile: the
// first found when scanning owned tiles in row-major order. Culture does
// not steer which tile is taken; ExpansionDrive only sets how often a
// claim is attempted.
func (s *State) expandTerritory(t *Tribe, r *rand.Rand) {
	if r.Float64() > t.Culture.ExpansionDrive*0.5 {
		return
	}
	// Deterministic frontier scan: owned tiles in sorted order.
	owned := make([]grid.TileCoord, 0, len(t.Territory))
	for c := range t.Territory {
		owned = append(owned, c)
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].Y != owned[j].Y {
			return owned[i].Y < owned[j].Y
		}
		return owned[i].X < owned[j].X
	})

	for _, c := range owned {
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := s.World.Wrap(c.X+d[0], c.Y+d[1])
			if s.OwnerOf(nx, ny) != 0 || s.World.IsWaterAt(nx, ny) {
				continue
			}
			s.claim(t, nx, ny)
			return
		}
	}
}

// maintainRoads decays road condition and occasionally builds a road
// between neighbouring tribes' capitals.
func (s *State) maintainRoads(r *rand.Rand) {
	for c, seg := range s.Roads {
		seg.Condition -= s.Params.RoadDecay
		if seg.Condition <= 0 {
			delete(s.Roads, c)
		}
	}

	ids := s.tribeIDs()
	if len(ids) < 2 || r.Float64() > 0.05 {
		return
	}
	a := s.Tribes[ids[r.Intn(len(ids))]]
	b := s.Tribes[ids[r.Intn(len(ids))]]
	if a.ID == b.ID {
		return
	}
	if grid.DistanceWrapped(a.Capital, b.Capital, s.World.Width) > 30 {
		return
	}

	builder := paths.NewBuilder(s.World, s)
	path := builder.FindPath(a.Capital, b.Capital)
	builder.ApplyPath(path)
}

// HasRoad implements paths.RoadNetwork over the decaying road layer.
func (s *State) HasRoad(x, y int) bool {
	x, y = s.World.Wrap(x, y)
	_, ok := s.Roads[grid.TileCoord{X: x, Y: y}]
	return ok
}

// MarkRoad implements paths.RoadNetwork.
func (s *State) MarkRoad(x, y int) {
	x, y = s.World.Wrap(x, y)
	c := grid.TileCoord{X: x, Y: y}
	if seg, ok := s.Roads[c]; ok {
		seg.Condition = 1
		return
	}
	s.Roads[c] = &RoadSegment{At: c, Condition: 1}
}

// tribeDiplomacy drifts opinions and signs simple treaties.
func (s *State) tribeDiplomacy(r *rand.Rand) {
	ids := s.tribeIDs()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := s.Tribes[ids[i]], s.Tribes[ids[j]]
			rel := s.RelationBetween(a.ID, b.ID)

			drift := int((a.Culture.TradeAffinity+b.Culture.TradeAffinity)*2) -
				int((a.Culture.Aggression+b.Culture.Aggression)*2)
			rel.Opinion += drift
			switch {
			case rel.Opinion < -40:
				rel.Stance = TribeHostile
			case rel.Opinion > 60:
				rel.Stance = TribeAllied
			case rel.Opinion > 20:
				rel.Stance = TribeFriendly
			default:
				rel.Stance = TribeNeutral
			}

			if rel.Stance == TribeFriendly && r.Float64() < 0.02 {
				s.Treaties = append(s.Treaties, Treaty{A: a.ID, B: b.ID, Kind: "trade", SinceTick: s.Tick})
				// Exchange surpluses.
				for res := Resource(0); res < resourceCount; res++ {
					if a.Stockpile[res] > b.Stockpile[res]*2 {
						moved := a.Stockpile[res] * 0.1
						a.Stockpile[res] -= moved
						b.Stockpile[res] = math.Min(b.Stockpile[res]+moved, b.StockpileCap)
					}
				}
			}
		}
	}
}

// cleanup buries dead monsters, fauna, and extinct tribes.
func (s *State) cleanup() {
	live := s.Monsters[:0]
	for _, m := range s.Monsters {
		if m.State != MonsterDead {
			live = append(live, m)
		}
	}
	s.Monsters = live

	liveFauna := s.Fauna[:0]
	for _, a := range s.Fauna {
		if a.State != FaunaDead {
			liveFauna = append(liveFauna, a)
		}
	}
	s.Fauna = liveFauna

	for _, id := range s.tribeIDs() {
		t := s.Tribes[id]
		if t.Population > 0 {
			continue
		}
		t.Extinct = true
		s.release(t)
		for k := range s.Relations {
			if k[0] == t.ID || k[1] == t.ID {
				delete(s.Relations, k)
			}
		}
		log.Info().Str("tribe", t.Name).Msg("Tribe goes extinct")
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
