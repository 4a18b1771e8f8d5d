package history

import (
	"fmt"

	"math/rand"

	"github.com/rs/zerolog/log"

	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/rng"
)

// Init creates the world's history at year zero: founding factions with
// capitals on habitable tiles, root religions, legendary monsters with
// lairs, and seeded dungeons.
func Init(world *overworld.WorldData, seed uint64) *WorldHistory {
	h := &WorldHistory{
		WorldID:     world.ID,
		Seed:        seed,
		Width:       world.Width,
		Height:      world.Height,
		Factions:    make(map[FactionID]*Faction),
		Figures:     make(map[FigureID]*Figure),
		Dynasties:   make(map[DynastyID]*Dynasty),
		Wars:        make(map[WarID]*War),
		Sieges:      make(map[SiegeID]*Siege),
		Settlements: make(map[SettlementID]*Settlement),
		Monuments:   make(map[MonumentID]*Monument),
		Artifacts:   NewArtifactRegistry(),
		Religions:   make(map[ReligionID]*Religion),
		Monsters:    make(map[MonsterID]*HistoricMonster),
		Lairs:       make(map[LairID]*Lair),
		Dungeons:    make(map[DungeonID]*Dungeon),
		Chronicle:   chronicle.NewLog(),
		Tiles:       grid.NewTilemap[TileHistory](world.Width, world.Height),
	}
	h.ids.faction = rng.NewIDAllocator()
	h.ids.figure = rng.NewIDAllocator()
	h.ids.dynasty = rng.NewIDAllocator()
	h.ids.war = rng.NewIDAllocator()
	h.ids.siege = rng.NewIDAllocator()
	h.ids.settlement = rng.NewIDAllocator()
	h.ids.monument = rng.NewIDAllocator()
	h.ids.religion = rng.NewIDAllocator()
	h.ids.monster = rng.NewIDAllocator()
	h.ids.lair = rng.NewIDAllocator()
	h.ids.dungeon = rng.NewIDAllocator()

	r := rng.NewSub(seed, "history-init")
	h.names = newNameGenerator(rng.NewSub(seed, "history-names"))

	// Root religions first so factions can follow them.
	faiths := 2 + r.Intn(2)
	for i := 0; i < faiths; i++ {
		rel := &Religion{
			ID:      ReligionID(h.ids.religion.Next()),
			Name:    h.names.ReligionName(),
			Deities: []string{h.names.Person(), h.names.Person()},
		}
		picked := map[Doctrine]bool{}
		for len(rel.Doctrines) < 2+r.Intn(2) {
			d := Doctrine(r.Intn(int(doctrineCount)))
			if !picked[d] {
				picked[d] = true
				rel.Doctrines = append(rel.Doctrines, d)
			}
		}
		h.Religions[rel.ID] = rel
		h.append(chronicle.Event{
			Type:  chronicle.EventReligionFounded,
			Title: fmt.Sprintf("%s is founded", rel.Name),
		})
	}

	habitable := habitableTiles(world)
	factions := 4 + r.Intn(5)
	for i := 0; i < factions && len(habitable) > 0; i++ {
		// Capitals keep their distance from each other.
		idx := r.Intn(len(habitable))
		site := habitable[idx]
		habitable = pruneNear(habitable, site, 12, world.Width)

		h.foundFaction(site.X, site.Y, Race(r.Intn(len(raceNames))), r)
	}

	// Legendary monsters and their lairs.
	monsters := 3 + r.Intn(4)
	for i := 0; i < monsters; i++ {
		x, y := r.Intn(world.Width), r.Intn(world.Height)
		if world.IsWaterAt(x, y) {
			continue
		}
		species := MonsterSpecies(r.Intn(len(speciesNames)))
		m := &HistoricMonster{
			ID:        MonsterID(h.ids.monster.Next()),
			Name:      h.names.MonsterName(),
			Species:   species,
			X:         x,
			Y:         y,
			Alive:     true,
			Legendary: true,
		}
		h.Monsters[m.ID] = m
		lair := &Lair{
			ID:      LairID(h.ids.lair.Next()),
			Monster: m.ID,
			Species: species,
			Name:    fmt.Sprintf("Lair of %s", m.Name),
			X:       x,
			Y:       y,
			Z:       world.SurfaceZ.Get(x, y) - 2 - r.Intn(6),
		}
		h.Lairs[lair.ID] = lair
	}

	// Seeded dungeons in the wilds.
	dungeons := 4 + r.Intn(5)
	for i := 0; i < dungeons; i++ {
		x, y := r.Intn(world.Width), r.Intn(world.Height)
		if world.IsWaterAt(x, y) {
			continue
		}
		d := &Dungeon{
			ID:       DungeonID(h.ids.dungeon.Next()),
			Name:     h.names.Place(),
			X:        x,
			Y:        y,
			DepthMin: world.SurfaceZ.Get(x, y) - 6 - r.Intn(10),
		}
		h.Dungeons[d.ID] = d
	}

	log.Info().
		Int("factions", len(h.Factions)).
		Int("religions", len(h.Religions)).
		Int("monsters", len(h.Monsters)).
		Int("dungeons", len(h.Dungeons)).
		Msg("History initialized")

	return h
}

// foundFaction creates a faction with its capital, dynasty, and leader.
func (h *WorldHistory) foundFaction(x, y int, race Race, r *rand.Rand) *Faction {
	f := &Faction{
		ID:   FactionID(h.ids.faction.Next()),
		Name: h.names.FactionName(),
		Race: race,
		Culture: Culture{
			Xenophobia: r.Float64(),
			Aggression: r.Float64(),
			TradeBias:  r.Float64(),
		},
		Population: 400 + r.Intn(800),
		Military:   50 + r.Float64()*100,
		Succession: SuccessionLaw(r.Intn(5)),
		Wealth:     100 + r.Intn(400),
		Relations:  make(map[FactionID]*Relation),
	}

	if ids := h.religionIDs(); len(ids) > 0 {
		f.ReligionID = ids[r.Intn(len(ids))]
	}
	if rel := h.Religions[f.ReligionID]; rel != nil {
		rel.Followers = append(rel.Followers, f.ID)
		rel.FollowerCount += f.Population
	}

	dyn := &Dynasty{
		ID:          DynastyID(h.ids.dynasty.Next()),
		Name:        "House " + h.names.Person(),
		Generations: 1,
		Prestige:    10 + r.Intn(40),
	}
	h.Dynasties[dyn.ID] = dyn
	f.DynastyID = dyn.ID

	leader := h.newFigure(f.ID, race, r)
	leader.Personality = Personality{
		War:       r.Float64(),
		Diplomacy: r.Float64(),
		Builder:   r.Float64(),
		Tyranny:   r.Float64(),
	}
	dyn.Head = leader.ID
	dyn.Members = append(dyn.Members, leader.ID)
	f.LeaderID = leader.ID

	capital := &Settlement{
		ID:         SettlementID(h.ids.settlement.Next()),
		Name:       h.names.Place(),
		X:          x,
		Y:          y,
		Faction:    f.ID,
		Population: f.Population,
		Defence:    20 + r.Float64()*30,
	}
	capital.Tier = TierFor(capital.Population)
	h.Settlements[capital.ID] = capital
	f.Settlements = append(f.Settlements, capital.ID)

	h.Factions[f.ID] = f

	id := h.append(chronicle.Event{
		Type:        chronicle.EventFactionFounded,
		Title:       fmt.Sprintf("%s is founded at %s", f.Name, capital.Name),
		HasLocation: true,
		Location:    grid.TileCoord{X: x, Y: y},
		FactionIDs:  []uint64{uint64(f.ID)},
	})
	h.recordTileEvent(x, y, id)
	return f
}

// newFigure mints a figure born this season.
func (h *WorldHistory) newFigure(faction FactionID, race Race, r *rand.Rand) *Figure {
	fig := &Figure{
		ID:        FigureID(h.ids.figure.Next()),
		Name:      h.names.Person(),
		Race:      race,
		FactionID: faction,
		Birth:     h.CurrentDate,
		Alive:     true,
		Personality: Personality{
			War:       r.Float64(),
			Diplomacy: r.Float64(),
			Builder:   r.Float64(),
			Tyranny:   r.Float64() * 0.7,
		},
	}
	h.Figures[fig.ID] = fig
	return fig
}

// habitableTiles lists land tiles a capital can stand on.
func habitableTiles(world *overworld.WorldData) []grid.TileCoord {
	var out []grid.TileCoord
	for y := 1; y < world.Height-1; y++ {
		for x := 0; x < world.Width; x++ {
			b := world.Biomes.Get(x, y)
			if b.IsWater() {
				continue
			}
			switch b.Family() {
			case overworld.FamilyPolar, overworld.FamilyVolcanic:
				continue
			}
			out = append(out, grid.TileCoord{X: x, Y: y})
		}
	}
	return out
}

// pruneNear removes tiles within dist of c.
func pruneNear(tiles []grid.TileCoord, c grid.TileCoord, dist, width int) []grid.TileCoord {
	out := tiles[:0]
	for _, t := range tiles {
		if grid.DistanceWrapped(t, c, width) >= dist {
			out = append(out, t)
		}
	}
	return out
}
