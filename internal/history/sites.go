package history

import (
	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/localgen"
)

// lairTypeFor maps a monster species to its lair markings.
func lairTypeFor(s MonsterSpecies) localgen.LairType {
	switch s {
	case SpeciesGiantSpider:
		return localgen.LairWebCluster
	case SpeciesTroll, SpeciesOgre, SpeciesWerewolf, SpeciesDragon:
		return localgen.LairBoneNest
	case SpeciesCaveCrawler, SpeciesDeepWorm:
		return localgen.LairSlimeTrail
	case SpeciesGiantAnt:
		return localgen.LairAntMound
	case SpeciesGiantBee:
		return localgen.LairBeeHive
	default:
		return localgen.LairGeneric
	}
}

// StructuresAt lists the structures registered for an overworld tile, in
// priority order. Implements localgen.SiteSource: this is how history
// reaches into local chunk generation.
func (h *WorldHistory) StructuresAt(wx, wy int) []localgen.Site {
	wx, wy = grid.WrapX(wx, h.Width), grid.ClampY(wy, h.Height)
	var sites []localgen.Site

	// Dungeons.
	for _, id := range sortedKeys(h.Dungeons) {
		d := h.Dungeons[id]
		if d.X == wx && d.Y == wy {
			sites = append(sites, localgen.Site{Kind: localgen.SiteDungeon, Z: d.DepthMin})
		}
	}

	// Settlements project a village (or castle for high tiers) onto
	// their own tile.
	for _, id := range h.settlementIDs() {
		s := h.Settlements[id]
		if s.X == wx && s.Y == wy {
			switch {
			case s.Destroyed:
				sites = append(sites, localgen.Site{Kind: localgen.SiteRuins})
			case s.Tier >= TierCity:
				sites = append(sites, localgen.Site{Kind: localgen.SiteCastle})
			default:
				sites = append(sites, localgen.Site{Kind: localgen.SiteVillage})
			}
		}

		// Graveyards grow beside settlements that have seen better days.
		if !s.Destroyed && s.State != StateThriving && wx == grid.WrapX(s.X+2, h.Width) && wy == s.Y+1 {
			sites = append(sites, localgen.Site{Kind: localgen.SiteGraveyard})
		}
	}

	// Monster lairs.
	for _, id := range sortedKeys(h.Lairs) {
		l := h.Lairs[id]
		if l.X == wx && l.Y == wy {
			sites = append(sites, localgen.Site{
				Kind: localgen.SiteMonsterLair,
				Z:    l.Z,
				Lair: lairTypeFor(l.Species),
			})
		}
	}

	// Battles and monuments recorded on this tile leave marks.
	seenBattlefield := false
	seenShrine := false
	for _, eid := range h.Tiles.Get(wx, wy).Events {
		e := h.Chronicle.Get(eid)
		if e == nil {
			continue
		}
		switch e.Type {
		case chronicle.EventBattleFought, chronicle.EventSiegeEnded, chronicle.EventSettlementDestroyed, chronicle.EventMonsterRaid:
			if !seenBattlefield {
				sites = append(sites, localgen.Site{Kind: localgen.SiteBattlefield})
				seenBattlefield = true
			}
		case chronicle.EventMonumentBuilt:
			if !seenShrine {
				sites = append(sites, localgen.Site{Kind: localgen.SiteShrine})
				seenShrine = true
			}
		}
	}

	return sites
}
