package history

import (
	"fmt"
	"math/rand"

	"darktower-backend/internal/chronicle"
)

const (
	crisisChanceProne    = 0.35
	crisisChanceStable   = 0.08
	coupChanceInCrisis   = 0.30
	heroBirthChance      = 0.01
	rebellionTyranny     = 0.6
	rebellionChanceScale = 0.025
)

// stepFigures ages figures, resolves deaths and successions, and lets
// rare heroes emerge.
func stepFigures(h *WorldHistory, r *rand.Rand) {
	for _, fid := range h.figureIDs() {
		fig := h.Figures[fid]
		if !fig.Alive {
			continue
		}
		age := fig.Age(h.CurrentDate)
		half := fig.Race.Lifespan() / 2
		if age <= half {
			continue
		}
		deathChance := float64(age-half) / float64(half) * 0.05
		if r.Float64() >= deathChance {
			continue
		}
		h.killFigure(fig, "of old age", r)
	}

	// Rare hero births.
	for _, f := range h.LiveFactions() {
		if r.Float64() >= heroBirthChance {
			continue
		}
		hero := h.newFigure(f.ID, f.Race, r)
		hero.Skills = append(hero.Skills, "heroism")
		h.append(chronicle.Event{
			Type:         chronicle.EventHeroEmerged,
			Title:        fmt.Sprintf("%s of %s shows signs of greatness", hero.Name, f.Name),
			FactionIDs:   []uint64{uint64(f.ID)},
			Participants: []uint64{uint64(hero.ID)},
		})
	}
}

// killFigure marks a figure dead and, when they led a faction, runs the
// succession.
func (h *WorldHistory) killFigure(fig *Figure, causeText string, r *rand.Rand) {
	fig.Alive = false
	fig.Death = h.CurrentDate

	// Interment at the faction's capital, a few levels down.
	if f := h.Factions[fig.FactionID]; f != nil && len(f.Settlements) > 0 {
		if capital := h.Settlements[f.Settlements[0]]; capital != nil {
			fig.HasBurial = true
			fig.BurialX = capital.X
			fig.BurialY = capital.Y
			fig.BurialZ = -2 - r.Intn(3)
		}
	}

	h.append(chronicle.Event{
		Type:         chronicle.EventFigureDied,
		Title:        fmt.Sprintf("%s dies %s", fig.Name, causeText),
		Participants: []uint64{uint64(fig.ID)},
		FactionIDs:   []uint64{uint64(fig.FactionID)},
	})

	f := h.Factions[fig.FactionID]
	if f == nil || f.Dissolved || f.LeaderID != fig.ID {
		return
	}
	h.runSuccession(f, fig, r)
}

// runSuccession installs a new leader, with a chance of a crisis that
// escalates into a coup or civil unrest.
func (h *WorldHistory) runSuccession(f *Faction, dead *Figure, r *rand.Rand) {
	dyn := h.Dynasties[f.DynastyID]

	crisisChance := crisisChanceStable
	if f.Succession.CrisisProne() {
		crisisChance = crisisChanceProne
	}

	makeHeir := func() *Figure {
		heir := h.newFigure(f.ID, f.Race, r)
		if f.Succession == LawPrimogeniture && dyn != nil {
			heir.Parents = append(heir.Parents, dead.ID)
			dead.Children = append(dead.Children, heir.ID)
			dyn.Members = append(dyn.Members, heir.ID)
			dyn.Generations++
		}
		return heir
	}

	if r.Float64() >= crisisChance {
		heir := makeHeir()
		f.LeaderID = heir.ID
		if dyn != nil {
			dyn.Head = heir.ID
		}
		h.append(chronicle.Event{
			Type:         chronicle.EventRulerCrowned,
			Title:        fmt.Sprintf("%s is crowned ruler of %s", heir.Name, f.Name),
			FactionIDs:   []uint64{uint64(f.ID)},
			Participants: []uint64{uint64(heir.ID)},
		})
		return
	}

	// Succession crisis: an heir and a rival emerge.
	heir := makeHeir()
	rival := h.newFigure(f.ID, f.Race, r)
	rival.Enemies = append(rival.Enemies, heir.ID)
	heir.Enemies = append(heir.Enemies, rival.ID)

	if r.Float64() < coupChanceInCrisis {
		// Coup: the heir is executed, the rival takes the throne.
		heir.Alive = false
		heir.Death = h.CurrentDate
		f.LeaderID = rival.ID
		if dyn != nil {
			dyn.Head = rival.ID
			dyn.Scandals++
			dyn.Prestige -= 10
		}
		h.append(chronicle.Event{
			Type:         chronicle.EventCoup,
			Title:        fmt.Sprintf("%s seizes %s in a coup; %s is executed", rival.Name, f.Name, heir.Name),
			FactionIDs:   []uint64{uint64(f.ID)},
			Participants: []uint64{uint64(rival.ID), uint64(heir.ID)},
		})
		return
	}

	// Civil unrest: the heir holds the throne at a cost.
	f.LeaderID = heir.ID
	if dyn != nil {
		dyn.Head = heir.ID
		dyn.Prestige -= 5
	}
	loss := 50 + r.Intn(200)
	f.Population = saturatingSub(f.Population, loss)
	h.append(chronicle.Event{
		Type:         chronicle.EventRulerDeposed,
		Title:        fmt.Sprintf("Civil unrest wracks %s; %s prevails over %s", f.Name, heir.Name, rival.Name),
		FactionIDs:   []uint64{uint64(f.ID)},
		Participants: []uint64{uint64(heir.ID), uint64(rival.ID)},
	})
}

// stepRebellion lets tyrants reap what they sow.
func stepRebellion(h *WorldHistory, r *rand.Rand) {
	for _, f := range h.LiveFactions() {
		lead := h.Figures[f.LeaderID]
		if lead == nil || !lead.Alive || lead.Personality.Tyranny <= rebellionTyranny {
			continue
		}
		chance := (lead.Personality.Tyranny - rebellionTyranny) * rebellionChanceScale
		if r.Float64() >= chance {
			continue
		}

		loss := 100 + r.Intn(300)
		f.Population = saturatingSub(f.Population, loss)
		h.append(chronicle.Event{
			Type:         chronicle.EventRebellion,
			Title:        fmt.Sprintf("Rebellion against the tyrant %s of %s", lead.Name, f.Name),
			FactionIDs:   []uint64{uint64(f.ID)},
			Participants: []uint64{uint64(lead.ID)},
		})

		// The mob sometimes reaches the palace; killFigure then runs the
		// succession at once, within this tick.
		if r.Float64() < 0.2 {
			h.killFigure(lead, "at the hands of rebels", r)
		}
	}
}
