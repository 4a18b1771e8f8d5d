package sim

import (
	"fmt"
	"math/rand"
)

// CombatOutcome summarises a resolved encounter.
type CombatOutcome uint8

const (
	OutcomeMonsterSlain CombatOutcome = iota
	OutcomeWarriorsSlain
	OutcomeMutual
	OutcomeMonsterFled
	OutcomeWarriorsFled
)

// CombatReport records one encounter for the caller and reputation.
type CombatReport struct {
	MonsterID   uint64
	Tribe       TribeID
	Outcome     CombatOutcome
	Rounds      int
	DamageDealt float64
	WarriorLoss int
	Log         []string
	// Reputation delta from (monster killed, damage dealt,
	// significance).
	Reputation int
}

// bodyPart is a combat character's hit location.
type bodyPart struct {
	name     string
	hp       float64
	vital    bool
	disabled bool
}

// character is a detailed-combat participant.
type character struct {
	name  string
	parts []bodyPart
	str   float64
	alive bool
	fled  bool
}

func monsterCharacter(m *Monster) *character {
	return &character{
		name: m.Species.String(),
		str:  m.Strength,
		parts: []bodyPart{
			{name: "head", hp: m.Health * 0.2, vital: true},
			{name: "torso", hp: m.Health * 0.5, vital: true},
			{name: "left limb", hp: m.Health * 0.15},
			{name: "right limb", hp: m.Health * 0.15},
		},
		alive: true,
	}
}

func warriorCharacter(i int) *character {
	return &character{
		name: fmt.Sprintf("warrior %d", i+1),
		str:  8,
		parts: []bodyPart{
			{name: "head", hp: 10, vital: true},
			{name: "torso", hp: 25, vital: true},
			{name: "left arm", hp: 8},
			{name: "right arm", hp: 8},
		},
		alive: true,
	}
}

// attack resolves one swing, returning the log line.
func attack(attacker, defender *character, r *rand.Rand) string {
	// Pick an intact part at random (up to four draws), else the first
	// intact one.
	idx := -1
	for attempt := 0; attempt < 4; attempt++ {
		cand := r.Intn(len(defender.parts))
		if !defender.parts[cand].disabled {
			idx = cand
			break
		}
	}
	if idx == -1 {
		for i := range defender.parts {
			if !defender.parts[i].disabled {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		defender.alive = false
		return fmt.Sprintf("%s collapses", defender.name)
	}

	part := &defender.parts[idx]
	dmg := r.Float64() * attacker.str
	part.hp -= dmg
	line := fmt.Sprintf("%s strikes %s's %s for %.0f", attacker.name, defender.name, part.name, dmg)
	if part.hp <= 0 {
		part.disabled = true
		line += " - disabled"
		if part.vital {
			defender.alive = false
			line += "; " + defender.name + " falls"
		}
	}
	return line
}

// maxCombatRounds bounds a detailed encounter.
const maxCombatRounds = 10

// resolveMonsterAttack runs an encounter between a monster and a
// tribe's warriors. Significant monsters (high HP or strength) get the
// detailed per-body-part resolution; the rest use simple rolls.
func (s *State) resolveMonsterAttack(m *Monster, t *Tribe, r *rand.Rand) CombatReport {
	if m.Significant {
		return s.detailedCombat(m, t, r)
	}
	return s.simpleCombat(m, t, r)
}

func (s *State) simpleCombat(m *Monster, t *Tribe, r *rand.Rand) CombatReport {
	rep := CombatReport{MonsterID: m.ID, Tribe: t.ID}

	defence := float64(t.Warriors) * (0.5 + t.Needs[NeedDefense])
	monsterRoll := r.Float64() * m.Strength * 3
	tribeRoll := r.Float64() * defence * 0.2

	if tribeRoll > monsterRoll {
		m.Health -= tribeRoll
		rep.DamageDealt = tribeRoll
		if m.Health <= 0 {
			rep.Outcome = OutcomeMonsterSlain
			rep.Reputation = 5
		} else {
			rep.Outcome = OutcomeMonsterFled
			rep.Reputation = 2
		}
		return rep
	}

	loss := 1 + r.Intn(4)
	t.Warriors -= loss
	if t.Warriors < 0 {
		t.Warriors = 0
	}
	t.Population = maxIntSim(t.Population-loss, 0)
	rep.WarriorLoss = loss
	rep.Outcome = OutcomeWarriorsSlain
	rep.Reputation = -2
	return rep
}

// detailedCombat converts both sides to characters and alternates
// attacks for up to ten rounds.
func (s *State) detailedCombat(m *Monster, t *Tribe, r *rand.Rand) CombatReport {
	rep := CombatReport{MonsterID: m.ID, Tribe: t.ID}

	// 2-10 warriors, bounded by the monster's strength.
	count := 2 + int(m.Strength/6)
	if count > 10 {
		count = 10
	}
	if count > t.Warriors {
		count = t.Warriors
	}
	if count == 0 {
		rep.Outcome = OutcomeWarriorsFled
		rep.Reputation = -3
		return rep
	}

	beast := monsterCharacter(m)
	warriors := make([]*character, count)
	for i := range warriors {
		warriors[i] = warriorCharacter(i)
	}

	aliveWarriors := func() []*character {
		var out []*character
		for _, w := range warriors {
			if w.alive && !w.fled {
				out = append(out, w)
			}
		}
		return out
	}

	for round := 0; round < maxCombatRounds && beast.alive; round++ {
		rep.Rounds = round + 1
		fighters := aliveWarriors()
		if len(fighters) == 0 {
			break
		}

		// Warriors strike first in a round, then the beast answers.
		for _, w := range fighters {
			if !beast.alive {
				break
			}
			line := attack(w, beast, r)
			rep.Log = append(rep.Log, line)
			rep.DamageDealt += w.str * 0.5
		}
		if beast.alive {
			target := fighters[r.Intn(len(fighters))]
			rep.Log = append(rep.Log, attack(beast, target, r))
			// When the beast fells a warrior, the rest sometimes rout.
			if !target.alive && r.Float64() < 0.2 {
				for _, w := range aliveWarriors() {
					w.fled = true
				}
			}
		}
	}

	lost := 0
	for _, w := range warriors {
		if !w.alive {
			lost++
		}
	}
	t.Warriors = maxIntSim(t.Warriors-lost, 0)
	t.Population = maxIntSim(t.Population-lost, 0)
	rep.WarriorLoss = lost

	survivors := aliveWarriors()
	switch {
	case !beast.alive:
		m.Health = 0
		rep.Outcome = OutcomeMonsterSlain
		rep.Reputation = 10 + int(rep.DamageDealt/20)
	case len(survivors) == 0 && lost == count:
		rep.Outcome = OutcomeWarriorsSlain
		rep.Reputation = -5
	case len(survivors) == 0:
		rep.Outcome = OutcomeWarriorsFled
		rep.Reputation = -3
	default:
		rep.Outcome = OutcomeMutual
		rep.Reputation = int(rep.DamageDealt / 30)
		m.Health -= rep.DamageDealt * 0.3
	}
	if m.Significant {
		// Any encounter with a significant monster counts double, losses
		// included.
		rep.Reputation *= 2
	}
	return rep
}

// CombatReports drains the encounter log accumulated since the last
// call.
func (s *State) CombatReports() []CombatReport {
	out := s.combatReports
	s.combatReports = nil
	return out
}

func maxIntSim(a, b int) int {
	if a > b {
		return a
	}
	return b
}
