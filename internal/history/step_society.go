package history

import (
	"fmt"
	"math/rand"

	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/paths"
)

const (
	artifactChanceBase   = 0.005
	monumentChanceBase   = 0.003
	artifactNameRetries  = 10
	conversionChanceBase = 0.005
	sacrificeRate        = 0.005
	schismChance         = 0.001
	disasterChance       = 0.005
	tradeChanceBase      = 0.02
	tradeRange           = 80
	tradeRouteCapPerTick = 20
	assassinationChance  = 0.002
	questChance          = 0.01
)

var artifactKindByRole = map[string][]string{
	"war":       {"Blade", "Hammer", "Shield", "Horn"},
	"diplomacy": {"Crown", "Ring", "Chalice"},
	"builder":   {"Staff", "Tome", "Amulet"},
}

// stepArtifactsAndMonuments lets each faction attempt creations.
func stepArtifactsAndMonuments(h *WorldHistory, params SimulationParams, r *rand.Rand) {
	for _, f := range h.LiveFactions() {
		lead := h.Figures[f.LeaderID]
		builderMult := 1.0
		role := "war"
		if lead != nil {
			builderMult = 0.5 + lead.Personality.Builder*1.5
			switch {
			case lead.Personality.Diplomacy > lead.Personality.War && lead.Personality.Diplomacy > lead.Personality.Builder:
				role = "diplomacy"
			case lead.Personality.Builder > lead.Personality.War:
				role = "builder"
			}
		}

		if r.Float64() < artifactChanceBase*params.ArtifactRate*builderMult {
			h.createArtifact(f, role, r)
		}

		religionMult := 1.0
		if rel := h.Religions[f.ReligionID]; rel != nil && rel.Has(DoctrineMonasticTradition) {
			religionMult = 1.5
		}
		if r.Float64() < monumentChanceBase*params.MonumentRate*builderMult*religionMult {
			h.buildMonument(f, r)
		}
	}
}

// createArtifact mints a uniquely named artifact held by the leader.
func (h *WorldHistory) createArtifact(f *Faction, role string, r *rand.Rand) {
	var name string
	for attempt := 0; attempt < artifactNameRetries; attempt++ {
		candidate := h.names.ArtifactName()
		if !h.Artifacts.NameTaken(candidate) {
			name = candidate
			break
		}
	}
	if name == "" {
		// The namespace is crowded; skip this season.
		return
	}

	kinds := artifactKindByRole[role]
	a := h.Artifacts.Create(Artifact{
		Name:     name,
		Kind:     kinds[r.Intn(len(kinds))],
		Creator:  f.LeaderID,
		Owner:    f.ID,
		Location: WithHero(f.LeaderID),
		Quality:  1 + r.Intn(5),
		Rarity:   1 + r.Intn(5),
	})
	if r.Float64() < 0.3 {
		a.Lore = &ArtifactLore{Philosophy: fmt.Sprintf("Forged under %s", h.names.Place())}
	}
	if lead := h.Figures[f.LeaderID]; lead != nil {
		lead.Artifacts = append(lead.Artifacts, a.ID)
	}

	h.append(chronicle.Event{
		Type:         chronicle.EventArtifactCreated,
		Title:        fmt.Sprintf("%s is forged in %s", a.Name, f.Name),
		FactionIDs:   []uint64{uint64(f.ID)},
		Participants: []uint64{uint64(f.LeaderID)},
	})
}

// buildMonument raises a monument at the faction capital.
func (h *WorldHistory) buildMonument(f *Faction, r *rand.Rand) {
	if len(f.Settlements) == 0 {
		return
	}
	capital := h.Settlements[f.Settlements[0]]
	if capital == nil || capital.Destroyed {
		return
	}

	kinds := []string{"obelisk", "great statue", "temple", "triumphal arch", "mausoleum"}
	m := &Monument{
		ID:         MonumentID(h.ids.monument.Next()),
		Name:       fmt.Sprintf("The %s of %s", kinds[r.Intn(len(kinds))], capital.Name),
		Kind:       kinds[r.Intn(len(kinds))],
		Creator:    f.ID,
		Settlement: capital.ID,
		X:          capital.X,
		Y:          capital.Y,
		Quality:    1 + r.Intn(5),
	}
	h.Monuments[m.ID] = m
	capital.Monuments = append(capital.Monuments, m.ID)

	id := h.append(chronicle.Event{
		Type:        chronicle.EventMonumentBuilt,
		Title:       fmt.Sprintf("%s rises at %s", m.Name, capital.Name),
		HasLocation: true,
		Location:    grid.TileCoord{X: capital.X, Y: capital.Y},
		FactionIDs:  []uint64{uint64(f.ID)},
	})
	h.recordTileEvent(capital.X, capital.Y, id)
}

// stepReligion runs conversion, sacrifice, and schism.
func stepReligion(h *WorldHistory, r *rand.Rand) {
	for _, rid := range h.religionIDs() {
		rel := h.Religions[rid]

		// (a) Proselytising conversion, capped at one per religion per
		// tick.
		if rel.Has(DoctrineProselytizing) {
			for _, f := range h.LiveFactions() {
				if f.ReligionID == rel.ID {
					continue
				}
				chance := conversionChanceBase * (1 - 0.7*f.Culture.Xenophobia)
				if r.Float64() >= chance {
					continue
				}
				if old := h.Religions[f.ReligionID]; old != nil {
					old.removeFollower(f.ID)
					old.FollowerCount = saturatingSub(old.FollowerCount, f.Population)
				}
				f.ReligionID = rel.ID
				rel.Followers = append(rel.Followers, f.ID)
				rel.FollowerCount += f.Population
				h.append(chronicle.Event{
					Type:       chronicle.EventConversion,
					Title:      fmt.Sprintf("%s embraces %s", f.Name, rel.Name),
					FactionIDs: []uint64{uint64(f.ID)},
				})
				break
			}
		}

		// (b) Sacrifice-required faiths consume their flock.
		if rel.Has(DoctrineSacrificeRequired) {
			for _, fid := range rel.Followers {
				f := h.Factions[fid]
				if f == nil || f.Dissolved {
					continue
				}
				if r.Float64() >= sacrificeRate {
					continue
				}
				victims := 5 + r.Intn(26)
				f.Population = saturatingSub(f.Population, victims)
				h.append(chronicle.Event{
					Type:       chronicle.EventSacrifice,
					Title:      fmt.Sprintf("%s offers %d souls to %s", f.Name, victims, rel.Name),
					FactionIDs: []uint64{uint64(f.ID)},
				})
			}
		}

		// (c) Schism.
		if len(rel.Followers) >= 2 && r.Float64() < schismChance {
			heretic := h.Factions[rel.Followers[len(rel.Followers)-1]]
			if heretic == nil || heretic.Dissolved {
				continue
			}
			child := h.Schism(rel, heretic, r)
			h.append(chronicle.Event{
				Type:       chronicle.EventSchism,
				Title:      fmt.Sprintf("%s splits from %s as %s turns heretic", child.Name, rel.Name, heretic.Name),
				FactionIDs: []uint64{uint64(heretic.ID)},
			})
		}
	}
}

var disasterKinds = []string{"earthquake", "flood", "drought", "plague", "volcanic eruption"}

// stepNaturalEvents occasionally strikes one settlement with disaster.
func stepNaturalEvents(h *WorldHistory, r *rand.Rand) {
	if r.Float64() >= disasterChance {
		return
	}
	ids := h.settlementIDs()
	if len(ids) == 0 {
		return
	}
	s := h.Settlements[ids[r.Intn(len(ids))]]
	if s == nil || s.Destroyed {
		return
	}

	kind := disasterKinds[r.Intn(len(disasterKinds))]
	casualties := 50 + r.Intn(451)
	s.Population = saturatingSub(s.Population, casualties)
	if f := h.Factions[s.Faction]; f != nil {
		f.Population = saturatingSub(f.Population, casualties)
	}

	id := h.append(chronicle.Event{
		Type:        chronicle.EventDisaster,
		Title:       fmt.Sprintf("A %s devastates %s; %d perish", kind, s.Name, casualties),
		HasLocation: true,
		Location:    grid.TileCoord{X: s.X, Y: s.Y},
		FactionIDs:  []uint64{uint64(s.Faction)},
	})
	h.recordTileEvent(s.X, s.Y, id)
}

// stepTrade opens routes between friendly settlements, building roads
// through the path builder. Roads are permanent tile annotations.
func stepTrade(h *WorldHistory, world *overworld.WorldData, params SimulationParams, r *rand.Rand) {
	builder := paths.NewBuilder(world, h)
	routes := 0

	for _, sid := range h.settlementIDs() {
		if routes >= tradeRouteCapPerTick {
			return
		}
		s := h.Settlements[sid]
		if s.Destroyed {
			continue
		}
		f := h.Factions[s.Faction]
		if f == nil || f.Dissolved {
			continue
		}
		if r.Float64() >= tradeChanceBase*params.TradeRate*(0.5+f.Culture.TradeBias) {
			continue
		}

		target := h.findTradePartner(s, f, r)
		if target == nil {
			continue
		}

		path := builder.FindPath(grid.TileCoord{X: s.X, Y: s.Y}, grid.TileCoord{X: target.X, Y: target.Y})
		if len(path) == 0 {
			continue
		}
		builder.ApplyPath(path)
		routes++

		other := h.Factions[target.Faction]
		goods := complementaryGoods(world.BiomeAt(s.X, s.Y), world.BiomeAt(target.X, target.Y))
		f.RelationWith(other.ID).Opinion += 5
		other.RelationWith(f.ID).Opinion += 5
		f.Wealth += 10
		other.Wealth += 10

		h.append(chronicle.Event{
			Type:        chronicle.EventTradeRouteOpened,
			Title:       fmt.Sprintf("%s and %s open a %s route", s.Name, target.Name, goods),
			HasLocation: true,
			Location:    grid.TileCoord{X: s.X, Y: s.Y},
			FactionIDs:  []uint64{uint64(f.ID), uint64(other.ID)},
		})
	}
}

// findTradePartner picks a settlement of another faction within range,
// skipping hostile or warring pairs.
func (h *WorldHistory) findTradePartner(s *Settlement, f *Faction, r *rand.Rand) *Settlement {
	var candidates []*Settlement
	for _, sid := range h.settlementIDs() {
		t := h.Settlements[sid]
		if t.Destroyed || t.Faction == f.ID {
			continue
		}
		other := h.Factions[t.Faction]
		if other == nil || other.Dissolved {
			continue
		}
		rel := f.RelationWith(other.ID)
		if rel.Stance == StanceAtWar || rel.Stance == StanceHostile {
			continue
		}
		d := grid.DistanceWrapped(grid.TileCoord{X: s.X, Y: s.Y}, grid.TileCoord{X: t.X, Y: t.Y}, h.Width)
		if d <= tradeRange {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[r.Intn(len(candidates))]
}

// complementaryGoods names what two biomes exchange; food by default.
func complementaryGoods(a, b overworld.Biome) string {
	fa, fb := a.Family(), b.Family()
	if fa == fb {
		return "food"
	}
	switch {
	case fa == overworld.FamilyHighland || fb == overworld.FamilyHighland:
		return "ore and grain"
	case fa == overworld.FamilyTemperateForest || fb == overworld.FamilyTemperateForest:
		return "timber"
	case fa == overworld.FamilyArid || fb == overworld.FamilyArid:
		return "salt and spice"
	case fa == overworld.FamilyTropical || fb == overworld.FamilyTropical:
		return "dye and fruit"
	default:
		return "food"
	}
}

// stepMinor runs the small remaining steps: quests to heroes,
// assassinations, artifact lifecycle on leader death, and wealth flows.
func stepMinor(h *WorldHistory, r *rand.Rand) {
	// Quests push heroes toward registered dungeons.
	for _, fid := range h.figureIDs() {
		fig := h.Figures[fid]
		if !fig.Alive || !contains(fig.Skills, "heroism") {
			continue
		}
		if r.Float64() >= questChance || len(h.Dungeons) == 0 {
			continue
		}
		dids := sortedKeys(h.Dungeons)
		d := h.Dungeons[dids[r.Intn(len(dids))]]
		h.append(chronicle.Event{
			Type:         chronicle.EventQuestIssued,
			Title:        fmt.Sprintf("%s sets out for the depths of %s", fig.Name, d.Name),
			HasLocation:  true,
			Location:     grid.TileCoord{X: d.X, Y: d.Y},
			Participants: []uint64{uint64(fig.ID)},
		})
	}

	// Assassination attempts between warring leaders.
	for _, f := range h.LiveFactions() {
		if len(f.Wars) == 0 || r.Float64() >= assassinationChance {
			continue
		}
		war := h.Wars[f.Wars[0]]
		if war == nil || war.Ended {
			continue
		}
		enemyID := war.Defender
		if enemyID == f.ID {
			enemyID = war.Aggressor
		}
		enemy := h.Factions[enemyID]
		if enemy == nil || enemy.Dissolved {
			continue
		}
		victim := h.Figures[enemy.LeaderID]
		if victim == nil || !victim.Alive {
			continue
		}
		h.append(chronicle.Event{
			Type:         chronicle.EventAssassination,
			Title:        fmt.Sprintf("An assassin of %s strikes down %s", f.Name, victim.Name),
			FactionIDs:   []uint64{uint64(f.ID), uint64(enemy.ID)},
			Participants: []uint64{uint64(victim.ID)},
		})
		h.killFigure(victim, "to an assassin's blade", r)
	}

	// Artifact lifecycle: items held by the dead pass on or vanish.
	h.Artifacts.Each(func(a *Artifact) {
		if a.Location.Kind != LocWithHero {
			return
		}
		holder := h.Figures[a.Location.Hero]
		if holder == nil || holder.Alive {
			return
		}
		f := h.Factions[holder.FactionID]
		if f != nil && !f.Dissolved && h.Figures[f.LeaderID] != nil && h.Figures[f.LeaderID].Alive {
			// Passes to the current ruler.
			h.Artifacts.Transfer(a.ID, WithHero(f.LeaderID))
			h.Figures[f.LeaderID].Artifacts = append(h.Figures[f.LeaderID].Artifacts, a.ID)
			return
		}
		if holder.HasBurial {
			h.Artifacts.Transfer(a.ID, Location{Kind: LocInTomb, X: holder.BurialX, Y: holder.BurialY, Z: holder.BurialZ, BuriedWith: holder.ID})
			return
		}
		h.Artifacts.Transfer(a.ID, Location{Kind: LocHidden, X: 0, Y: 0, Z: 0})
		h.append(chronicle.Event{
			Type:  chronicle.EventArtifactLost,
			Title: fmt.Sprintf("%s vanishes from history", a.Name),
		})
	})

	// Wealth: settlement income minus war upkeep.
	for _, f := range h.LiveFactions() {
		income := len(f.Settlements) * 5
		upkeep := len(f.Wars) * 8
		f.Wealth += income - upkeep
		if f.Wealth < 0 {
			f.Wealth = 0
		}
	}
}
