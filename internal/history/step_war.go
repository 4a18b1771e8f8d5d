package history

import (
	"fmt"
	"math/rand"

	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/grid"
)

// Opinion thresholds for war pathways.
const (
	warOpinionThreshold        = -30
	warlikeOpinionThreshold    = -15
	warlikeInclination         = 0.6
	siegeCaptureRatio          = 1.5
	siegeMinimumSeasons        = 2
	battleChancePerSeason      = 0.15
	warEndChancePerDurationYr  = 0.1
	warMinimumDurationYears    = 3
	loserHeavyCasualtyRatio    = 0.6
	monsterRaidRange           = 20
	monsterRaidChanceBase      = 0.01
	crusadeDeclarationBase     = 0.002
	hostileDeclarationBase     = 0.018
	sampledDeclarationBase     = 0.004
	warmongerInclinationScale  = 0.05
	allianceJoinOpinionDivisor = 150.0
)

// declareWar opens a war between two factions, wiring relations, war
// lists, and the declaration event.
func (h *WorldHistory) declareWar(aggressor, defender *Faction, cause WarCause) *War {
	if aggressor.AtWarCap() || defender.AtWarCap() {
		// OutOfCapacity policy: silently skip.
		return nil
	}

	war := &War{
		ID:        WarID(h.ids.war.Next()),
		Aggressor: aggressor.ID,
		Defender:  defender.ID,
		Cause:     cause,
		Start:     h.CurrentDate,
	}

	eventType := chronicle.EventWarDeclared
	title := fmt.Sprintf("%s declares the %s on %s", aggressor.Name, h.names.WarName(), defender.Name)
	if cause == CauseHolyCrusade {
		eventType = chronicle.EventHolyWarDeclared
		title = fmt.Sprintf("%s calls a holy crusade against %s", aggressor.Name, defender.Name)
	}
	war.DeclarationEvent = h.append(chronicle.Event{
		Type:       eventType,
		Title:      title,
		FactionIDs: []uint64{uint64(aggressor.ID), uint64(defender.ID)},
	})

	h.Wars[war.ID] = war
	aggressor.Wars = append(aggressor.Wars, war.ID)
	defender.Wars = append(defender.Wars, war.ID)

	ra := aggressor.RelationWith(defender.ID)
	ra.Stance = StanceAtWar
	ra.ActiveWars = append(ra.ActiveWars, war.ID)
	rb := defender.RelationWith(aggressor.ID)
	rb.Stance = StanceAtWar
	rb.ActiveWars = append(rb.ActiveWars, war.ID)

	return war
}

// warMultipliers compounds leader personality, religion, shared faith,
// and how far below the threshold the pair has sunk.
func (h *WorldHistory) warMultipliers(a, b *Faction, opinion int, threshold int) float64 {
	mult := 1.0
	if lead := h.Figures[a.LeaderID]; lead != nil {
		mult *= 0.5 + lead.Personality.War*1.5
	}
	if rel := h.Religions[a.ReligionID]; rel != nil {
		if rel.Has(DoctrineHolyWar) {
			mult *= 1.4
		}
		if rel.Has(DoctrinePacifism) {
			mult *= 0.4
		}
	}
	if a.ReligionID == b.ReligionID {
		mult *= 0.6
	}
	if opinion < threshold {
		mult *= 1.0 + float64(threshold-opinion)/50.0
	}
	return mult
}

// stepWarDeclarations runs the four declaration pathways.
func stepWarDeclarations(h *WorldHistory, params SimulationParams, r *rand.Rand) {
	live := h.LiveFactions()
	n := len(live)
	if n < 2 {
		return
	}

	// (a) Sampled pairs at or below the opinion threshold.
	for i := 0; i < n; i++ {
		a := live[r.Intn(n)]
		b := live[r.Intn(n)]
		if a.ID == b.ID {
			continue
		}
		threshold := warOpinionThreshold
		if lead := h.Figures[a.LeaderID]; lead != nil && lead.Personality.War > warlikeInclination {
			threshold = warlikeOpinionThreshold
		}
		op := a.RelationWith(b.ID).Opinion
		if op > threshold || a.RelationWith(b.ID).Stance == StanceAtWar {
			continue
		}
		chance := sampledDeclarationBase * params.WarFrequency * h.warMultipliers(a, b, op, threshold)
		if r.Float64() < chance {
			h.declareWar(a, b, CauseBorderFriction)
		}
	}

	// (b) Scan already-hostile relations.
	for _, a := range live {
		for _, bid := range sortedKeys(a.Relations) {
			rel := a.Relations[bid]
			if rel.Opinion >= warOpinionThreshold || rel.Stance == StanceAtWar {
				continue
			}
			b := h.Factions[bid]
			if b == nil || b.Dissolved {
				continue
			}
			chance := hostileDeclarationBase * params.WarFrequency * h.warMultipliers(a, b, rel.Opinion, warOpinionThreshold)
			if r.Float64() < chance {
				h.declareWar(a, b, CauseAncientGrudge)
			}
		}
	}

	// (c) Warmongers strike neighbours unprovoked.
	for _, a := range live {
		lead := h.Figures[a.LeaderID]
		if lead == nil || lead.Personality.War <= warlikeInclination {
			continue
		}
		excess := lead.Personality.War - warlikeInclination
		for _, b := range live {
			if a.ID == b.ID || a.RelationWith(b.ID).Stance == StanceAtWar {
				continue
			}
			if !h.factionsNeighbours(a, b) {
				continue
			}
			if r.Float64() < excess*warmongerInclinationScale {
				h.declareWar(a, b, CauseWarmonger)
				break
			}
		}
	}

	// (d) Holy crusades against different-religion neighbours.
	for _, a := range live {
		rel := h.Religions[a.ReligionID]
		if rel == nil || !rel.Has(DoctrineHolyWar) {
			continue
		}
		for _, b := range live {
			if a.ID == b.ID || a.ReligionID == b.ReligionID {
				continue
			}
			if a.RelationWith(b.ID).Stance == StanceAtWar || !h.factionsNeighbours(a, b) {
				continue
			}
			if r.Float64() < crusadeDeclarationBase*params.WarFrequency {
				h.declareWar(a, b, CauseHolyCrusade)
				break
			}
		}
	}
}

// stepAllianceObligations invites allies into each active war.
func stepAllianceObligations(h *WorldHistory, r *rand.Rand) {
	for _, wid := range h.warIDs() {
		war := h.Wars[wid]
		if war.Ended {
			continue
		}
		h.inviteAllies(war, war.Aggressor, &war.AggressorAllies, war.Defender, r)
		h.inviteAllies(war, war.Defender, &war.DefenderAllies, war.Aggressor, r)
	}
}

func (h *WorldHistory) inviteAllies(war *War, principal FactionID, allies *[]FactionID, enemy FactionID, r *rand.Rand) {
	p := h.Factions[principal]
	if p == nil {
		return
	}
	for _, fid := range sortedKeys(p.Relations) {
		rel := p.Relations[fid]
		if rel.Stance != StanceAllied {
			continue
		}
		ally := h.Factions[fid]
		if ally == nil || ally.Dissolved || ally.AtWarCap() || fid == enemy {
			continue
		}
		if contains(*allies, fid) {
			continue
		}
		// Allegiance strength: warmer friends answer the call.
		if r.Float64() < float64(rel.Opinion)/allianceJoinOpinionDivisor {
			*allies = append(*allies, fid)
			ally.Wars = append(ally.Wars, war.ID)
		}
	}
}

// stepBattles resolves at most one battle per war per season.
func stepBattles(h *WorldHistory, r *rand.Rand) {
	for _, wid := range h.warIDs() {
		war := h.Wars[wid]
		if war.Ended {
			continue
		}
		if r.Float64() >= battleChancePerSeason {
			continue
		}
		a := h.Factions[war.Aggressor]
		d := h.Factions[war.Defender]
		if a == nil || d == nil || a.Dissolved || d.Dissolved {
			continue
		}

		rollA := r.Float64() * a.Military
		rollD := r.Float64() * d.Military
		lossA := 10 + r.Intn(91)
		lossD := 10 + r.Intn(91)

		a.Population = saturatingSub(a.Population, lossA)
		d.Population = saturatingSub(d.Population, lossD)
		war.CasualtiesAggressor += lossA
		war.CasualtiesDefender += lossD

		winner := a
		if rollD > rollA {
			winner = d
		}
		id := h.append(chronicle.Event{
			Type:       chronicle.EventBattleFought,
			Title:      fmt.Sprintf("%s prevails in battle", winner.Name),
			FactionIDs: []uint64{uint64(a.ID), uint64(d.ID)},
			CausedBy:   war.DeclarationEvent,
		})
		war.BattleEvents = append(war.BattleEvents, id)
	}
}

// stepSieges advances attrition and resolves captures.
func stepSieges(h *WorldHistory, r *rand.Rand) {
	for _, sid := range h.siegeIDs() {
		siege := h.Sieges[sid]
		if siege.Ended {
			continue
		}
		target := h.Settlements[siege.Target]
		if target == nil || target.Destroyed {
			siege.Ended = true
			continue
		}

		// Deterministic fractional decay plus a stochastic shock.
		siege.AttackerStrength *= 0.97
		siege.DefenderStrength *= 0.95
		siege.AttackerStrength -= r.Float64() * 2
		siege.DefenderStrength -= r.Float64() * 3
		if siege.AttackerStrength < 0 {
			siege.AttackerStrength = 0
		}

		duration := (h.CurrentDate.Year-siege.Start.Year)*4 + (h.CurrentDate.Season - siege.Start.Season)

		if siege.DefenderStrength <= 0 {
			// The walls fail utterly; the settlement may not survive.
			siege.Ended = true
			siege.DefenderStrength = 0
			if r.Float64() < 0.5 {
				h.destroySettlement(target, siege.Attacker)
				continue
			}
			h.captureSettlement(siege, target)
			continue
		}

		if duration >= siegeMinimumSeasons && siege.AttackerStrength > siege.DefenderStrength*siegeCaptureRatio {
			siege.Ended = true
			h.captureSettlement(siege, target)
		}
	}
}

func (h *WorldHistory) captureSettlement(siege *Siege, target *Settlement) {
	oldFaction := h.Factions[target.Faction]
	newFaction := h.Factions[siege.Attacker]
	if oldFaction == nil || newFaction == nil {
		return
	}

	removeSettlement(oldFaction, target.ID)
	oldFaction.Population = saturatingSub(oldFaction.Population, target.Population)
	newFaction.Settlements = append(newFaction.Settlements, target.ID)
	newFaction.Population += target.Population
	target.Faction = siege.Attacker
	target.State = StateDeclining

	id := h.append(chronicle.Event{
		Type:        chronicle.EventSiegeEnded,
		Title:       fmt.Sprintf("%s falls to %s", target.Name, newFaction.Name),
		HasLocation: true,
		Location:    grid.TileCoord{X: target.X, Y: target.Y},
		FactionIDs:  []uint64{uint64(siege.Attacker), uint64(siege.Defender)},
		CausedBy:    siege.BeginEvent,
	})
	h.recordTileEvent(target.X, target.Y, id)

	if oldFaction.ID != 0 && len(oldFaction.Settlements) == 0 {
		h.dissolveFaction(oldFaction)
	}
}

func (h *WorldHistory) destroySettlement(target *Settlement, by FactionID) {
	f := h.Factions[target.Faction]
	if f != nil {
		removeSettlement(f, target.ID)
		f.Population = saturatingSub(f.Population, target.Population)
	}
	target.Destroyed = true
	target.State = StateRuined
	loss := target.Population
	target.Population = 0

	id := h.append(chronicle.Event{
		Type:        chronicle.EventSettlementDestroyed,
		Title:       fmt.Sprintf("%s is razed; %d perish", target.Name, loss),
		HasLocation: true,
		Location:    grid.TileCoord{X: target.X, Y: target.Y},
		FactionIDs:  []uint64{uint64(by), uint64(target.Faction)},
	})
	h.recordTileEvent(target.X, target.Y, id)

	if f != nil && len(f.Settlements) == 0 {
		h.dissolveFaction(f)
	}
}

// stepWarEnd checks every active war for exhaustion and settles terms.
func stepWarEnd(h *WorldHistory, r *rand.Rand) {
	for _, wid := range h.warIDs() {
		war := h.Wars[wid]
		if war.Ended {
			continue
		}
		years := h.CurrentDate.YearsSince(war.Start)
		if years <= warMinimumDurationYears {
			continue
		}
		if r.Float64() >= warEndChancePerDurationYr*float64(years) {
			continue
		}
		h.endWar(war, r)
	}
}

func (h *WorldHistory) endWar(war *War, r *rand.Rand) {
	war.Ended = true
	war.End = h.CurrentDate

	a := h.Factions[war.Aggressor]
	d := h.Factions[war.Defender]

	// Victor is the side with fewer casualties; ties go to the aggressor.
	victor, loser := a, d
	war.Victor = war.Aggressor
	if war.CasualtiesDefender < war.CasualtiesAggressor {
		victor, loser = d, a
		war.Victor = war.Defender
	}

	for _, f := range []*Faction{a, d} {
		if f == nil {
			continue
		}
		removeWar(f, war.ID)
	}
	for _, fid := range war.AggressorAllies {
		if ally := h.Factions[fid]; ally != nil {
			removeWar(ally, war.ID)
		}
	}
	for _, fid := range war.DefenderAllies {
		if ally := h.Factions[fid]; ally != nil {
			removeWar(ally, war.ID)
		}
	}

	if a != nil && d != nil {
		ra := a.RelationWith(d.ID)
		ra.Stance = StancePeace
		ra.Opinion += 20
		ra.ActiveWars = removeWarID(ra.ActiveWars, war.ID)
		rd := d.RelationWith(a.ID)
		rd.Stance = StancePeace
		rd.Opinion += 20
		rd.ActiveWars = removeWarID(rd.ActiveWars, war.ID)
	}

	victorName, loserName := "nobody", "nobody"
	if victor != nil {
		victorName = victor.Name
	}
	if loser != nil {
		loserName = loser.Name
	}
	h.append(chronicle.Event{
		Type:       chronicle.EventWarEnded,
		Title:      fmt.Sprintf("The war ends: %s defeats %s", victorName, loserName),
		FactionIDs: []uint64{uint64(war.Aggressor), uint64(war.Defender)},
		CausedBy:   war.DeclarationEvent,
	})

	if loser == nil || victor == nil || loser.Dissolved {
		return
	}
	if len(loser.Settlements) == 0 {
		h.dissolveFaction(loser)
		return
	}

	// Victory initiates sieges over the loser's remaining settlements
	// rather than instant transfers.
	sieges := 1
	totalLoserCasualties := war.CasualtiesDefender
	if loser == a {
		totalLoserCasualties = war.CasualtiesAggressor
	}
	total := war.CasualtiesAggressor + war.CasualtiesDefender
	if total > 0 && float64(totalLoserCasualties)/float64(total) > loserHeavyCasualtyRatio {
		sieges = 2
	}
	for i := 0; i < sieges && i < len(loser.Settlements); i++ {
		h.beginSiege(war, victor, loser, loser.Settlements[i], r)
	}
}

func (h *WorldHistory) beginSiege(war *War, attacker, defender *Faction, target SettlementID, r *rand.Rand) {
	s := h.Settlements[target]
	if s == nil || s.Destroyed {
		return
	}
	siege := &Siege{
		ID:               SiegeID(h.ids.siege.Next()),
		War:              war.ID,
		Attacker:         attacker.ID,
		Defender:         defender.ID,
		Target:           target,
		Start:            h.CurrentDate,
		AttackerStrength: attacker.Military * (0.8 + r.Float64()*0.4),
		DefenderStrength: s.Defence + defender.Military*0.3,
	}
	siege.BeginEvent = h.append(chronicle.Event{
		Type:        chronicle.EventSiegeBegan,
		Title:       fmt.Sprintf("%s lays siege to %s", attacker.Name, s.Name),
		HasLocation: true,
		Location:    grid.TileCoord{X: s.X, Y: s.Y},
		FactionIDs:  []uint64{uint64(attacker.ID), uint64(defender.ID)},
		CausedBy:    war.DeclarationEvent,
	})
	h.Sieges[siege.ID] = siege
	war.Sieges = append(war.Sieges, siege.ID)
}

// stepMonsterRaids lets living legendary creatures raid nearby
// settlements.
func stepMonsterRaids(h *WorldHistory, params SimulationParams, r *rand.Rand) {
	for _, mid := range h.monsterIDs() {
		m := h.Monsters[mid]
		if !m.Alive || !m.Legendary {
			continue
		}
		if r.Float64() >= monsterRaidChanceBase*params.MonsterActivity {
			continue
		}

		// Nearest settlement within range.
		var target *Settlement
		best := monsterRaidRange + 1
		for _, sid := range h.settlementIDs() {
			s := h.Settlements[sid]
			if s.Destroyed {
				continue
			}
			d := grid.DistanceWrapped(grid.TileCoord{X: m.X, Y: m.Y}, grid.TileCoord{X: s.X, Y: s.Y}, h.Width)
			if d < best {
				best = d
				target = s
			}
		}
		if target == nil {
			continue
		}

		kills := 10 + r.Intn(191)
		target.Population = saturatingSub(target.Population, kills)
		if f := h.Factions[target.Faction]; f != nil {
			f.Population = saturatingSub(f.Population, kills)
		}
		m.Kills += kills

		id := h.append(chronicle.Event{
			Type:         chronicle.EventMonsterRaid,
			Title:        fmt.Sprintf("%s the %s raids %s", m.Name, m.Species, target.Name),
			HasLocation:  true,
			Location:     grid.TileCoord{X: target.X, Y: target.Y},
			FactionIDs:   []uint64{uint64(target.Faction)},
			Participants: []uint64{uint64(m.ID)},
		})
		h.recordTileEvent(target.X, target.Y, id)
	}
}

// dissolveFaction retires a faction with no settlements.
func (h *WorldHistory) dissolveFaction(f *Faction) {
	f.Dissolved = true
	if rel := h.Religions[f.ReligionID]; rel != nil {
		rel.removeFollower(f.ID)
	}
	h.append(chronicle.Event{
		Type:       chronicle.EventFactionDissolved,
		Title:      fmt.Sprintf("%s passes into memory", f.Name),
		FactionIDs: []uint64{uint64(f.ID)},
	})
}

func removeSettlement(f *Faction, id SettlementID) {
	for i, s := range f.Settlements {
		if s == id {
			f.Settlements = append(f.Settlements[:i], f.Settlements[i+1:]...)
			return
		}
	}
}

func removeWar(f *Faction, id WarID) {
	for i, w := range f.Wars {
		if w == id {
			f.Wars = append(f.Wars[:i], f.Wars[i+1:]...)
			return
		}
	}
}

func removeWarID(list []WarID, id WarID) []WarID {
	for i, w := range list {
		if w == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
