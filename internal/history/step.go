package history

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/metrics"
	"darktower-backend/internal/overworld"
)

// neighbourRange is the settlement distance within which two factions
// count as neighbours.
const neighbourRange = 45

// Step advances history by one season. Sub-steps run in a fixed order;
// later steps read state written by earlier ones. Events appended in
// tick t are only consulted from tick t+1.
func Step(h *WorldHistory, world *overworld.WorldData, params SimulationParams, r *rand.Rand) {
	start := time.Now()
	eventsBefore := h.Chronicle.Len()

	stepPopulation(h)
	stepSettlementUpgrades(h)
	// Territory expansion is the short-horizon loop's job; history holds
	// the slot so the ordering contract stays stable.
	stepOpinionFriction(h, r)
	stepPeacefulDiplomacy(h, params, r)
	stepWarDeclarations(h, params, r)
	stepAllianceObligations(h, r)
	stepBattles(h, r)
	stepSieges(h, r)
	stepWarEnd(h, r)
	stepMonsterRaids(h, params, r)
	stepFigures(h, r)
	stepRebellion(h, r)
	stepArtifactsAndMonuments(h, params, r)
	stepReligion(h, r)
	stepNaturalEvents(h, r)
	stepTrade(h, world, params, r)
	stepMinor(h, r)

	h.CurrentDate = h.CurrentDate.Next()

	appended := h.Chronicle.Len() - eventsBefore
	metrics.ObserveHistoryTick(time.Since(start).Seconds(), appended)
	log.Debug().
		Int("year", h.CurrentDate.Year).
		Int("season", h.CurrentDate.Season).
		Int("events", appended).
		Msg("History tick")
}

// stepPopulation applies each active settlement's growth rule and moves
// the faction total by the same delta, saturating.
func stepPopulation(h *WorldHistory) {
	for _, id := range h.settlementIDs() {
		s := h.Settlements[id]
		if s.Destroyed {
			continue
		}
		f := h.Factions[s.Faction]
		if f == nil || f.Dissolved {
			continue
		}

		rate := 0.006
		switch s.State {
		case StateDeclining:
			rate = -0.004
		case StateRuined:
			rate = -0.02
		}
		delta := int(float64(s.Population) * rate)
		if delta == 0 && rate > 0 && s.Population > 0 {
			delta = 1
		}

		if delta >= 0 {
			s.Population += delta
			f.Population += delta
		} else {
			loss := -delta
			s.Population = saturatingSub(s.Population, loss)
			f.Population = saturatingSub(f.Population, loss)
		}
	}
}

// stepSettlementUpgrades promotes settlements across tier thresholds.
func stepSettlementUpgrades(h *WorldHistory) {
	for _, id := range h.settlementIDs() {
		s := h.Settlements[id]
		if s.Destroyed {
			continue
		}
		newTier := TierFor(s.Population)
		if newTier == s.Tier {
			continue
		}
		grew := newTier > s.Tier
		s.Tier = newTier
		if grew {
			s.State = StateThriving
			h.append(chronicle.Event{
				Type:        chronicle.EventSettlementUpgraded,
				Title:       fmt.Sprintf("%s grows into a %s", s.Name, newTier),
				HasLocation: true,
				Location:    grid.TileCoord{X: s.X, Y: s.Y},
				FactionIDs:  []uint64{uint64(s.Faction)},
			})
		} else {
			s.State = StateDeclining
		}
	}
}

// factionsNeighbours reports whether any two settlements of a and b are
// within neighbourRange tiles.
func (h *WorldHistory) factionsNeighbours(a, b *Faction) bool {
	for _, sa := range a.Settlements {
		pa := h.Settlements[sa]
		if pa == nil || pa.Destroyed {
			continue
		}
		for _, sb := range b.Settlements {
			pb := h.Settlements[sb]
			if pb == nil || pb.Destroyed {
				continue
			}
			d := grid.DistanceWrapped(grid.TileCoord{X: pa.X, Y: pa.Y}, grid.TileCoord{X: pb.X, Y: pb.Y}, h.Width)
			if d <= neighbourRange {
				return true
			}
		}
	}
	return false
}

// culturalDistance measures how alien two factions find each other.
func culturalDistance(a, b *Faction) float64 {
	d := 0.0
	if a.Race != b.Race {
		d += 0.5
	}
	d += absF(a.Culture.Aggression-b.Culture.Aggression) * 0.25
	d += absF(a.Culture.TradeBias-b.Culture.TradeBias) * 0.25
	return d
}

var incidentKinds = []struct {
	kind  string
	delta int
}{
	{"border clash", -12},
	{"public insult", -8},
	{"trade dispute", -10},
	{"territorial encroachment", -15},
}

// stepOpinionFriction samples random neighbour pairs and applies small
// negative drifts, occasionally escalating into a named incident.
func stepOpinionFriction(h *WorldHistory, r *rand.Rand) {
	live := h.LiveFactions()
	n := len(live)
	if n < 2 {
		return
	}

	for i := 0; i < 3*n; i++ {
		a := live[r.Intn(n)]
		b := live[r.Intn(n)]
		if a.ID == b.ID || !h.factionsNeighbours(a, b) {
			continue
		}

		friction := culturalDistance(a, b) * a.Culture.Xenophobia
		if a.ReligionID != b.ReligionID {
			if rel := h.Religions[a.ReligionID]; rel != nil && rel.Has(DoctrineHolyWar) {
				friction += 0.3
			}
		}

		delta := -int(friction*3) - 1
		if r.Float64() < 0.02 {
			incident := incidentKinds[r.Intn(len(incidentKinds))]
			delta += incident.delta
			h.append(chronicle.Event{
				Type:       chronicle.EventDiplomaticIncident,
				Title:      fmt.Sprintf("A %s sours relations between %s and %s", incident.kind, a.Name, b.Name),
				FactionIDs: []uint64{uint64(a.ID), uint64(b.ID)},
			})
		}

		a.RelationWith(b.ID).Opinion += delta
		b.RelationWith(a.ID).Opinion += delta
	}
}

// stepPeacefulDiplomacy signs treaties between warm pairs and alliances
// between friendly ones.
func stepPeacefulDiplomacy(h *WorldHistory, params SimulationParams, r *rand.Rand) {
	live := h.LiveFactions()
	for i, a := range live {
		for _, b := range live[i+1:] {
			ra := a.RelationWith(b.ID)
			if ra.Stance == StanceAtWar {
				continue
			}

			lead := h.Figures[a.LeaderID]
			personality := 1.0
			if lead != nil {
				personality = 0.5 + lead.Personality.Diplomacy
			}
			religionMult := 1.0
			sameReligion := 1.0
			if a.ReligionID == b.ReligionID {
				sameReligion = 1.5
			}
			if rel := h.Religions[a.ReligionID]; rel != nil && rel.Has(DoctrinePacifism) {
				religionMult = 1.5
			}

			if ra.Stance == StanceNeutral && ra.Opinion >= 0 {
				chance := 0.05 * params.DiplomacyRate * personality * religionMult * sameReligion
				if r.Float64() < chance {
					ra.Stance = StanceTreaty
					b.RelationWith(a.ID).Stance = StanceTreaty
					ra.Opinion += 10
					b.RelationWith(a.ID).Opinion += 10
					h.append(chronicle.Event{
						Type:       chronicle.EventTreatySigned,
						Title:      fmt.Sprintf("%s and %s sign a treaty", a.Name, b.Name),
						FactionIDs: []uint64{uint64(a.ID), uint64(b.ID)},
					})
				}
				continue
			}

			if ra.Stance == StanceTreaty && ra.Opinion >= 50 {
				chance := 0.025 * params.DiplomacyRate * personality * religionMult * sameReligion
				if r.Float64() < chance {
					ra.Stance = StanceAllied
					b.RelationWith(a.ID).Stance = StanceAllied
					ra.Opinion += 15
					b.RelationWith(a.ID).Opinion += 15
					h.append(chronicle.Event{
						Type:       chronicle.EventAllianceFormed,
						Title:      fmt.Sprintf("%s and %s form an alliance", a.Name, b.Name),
						FactionIDs: []uint64{uint64(a.ID), uint64(b.ID)},
					})
				}
			}
		}
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
