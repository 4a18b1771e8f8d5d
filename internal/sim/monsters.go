package sim

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"darktower-backend/internal/grid"
	"darktower-backend/internal/history"
)

// Significance thresholds: detailed combat kicks in for these.
const (
	significantHP       = 150.0
	significantStrength = 30.0
)

// updateMonsters spawns, runs behaviour machines, and resolves combat.
// Distant monsters only take sparse updates; focused ones act each tick.
func (s *State) updateMonsters(r *rand.Rand) {
	s.maybeSpawnMonster(r)

	for _, m := range s.Monsters {
		if m.State == MonsterDead {
			continue
		}
		if !s.InFocus(m.X, m.Y) && !s.sparseTick(m.ID) {
			continue
		}
		s.stepMonster(m, r)
		m.LastAction = s.Tick
	}

	s.monsterVsMonster(r)
}

// maybeSpawnMonster spawns when under cap, on schedule, away from
// tribes.
func (s *State) maybeSpawnMonster(r *rand.Rand) {
	if len(s.Monsters) >= s.Params.MonsterCap {
		return
	}
	if s.Tick%s.Params.MonsterSpawnEvery != 0 {
		return
	}
	for attempt := 0; attempt < 20; attempt++ {
		x, y := r.Intn(s.World.Width), r.Intn(s.World.Height)
		if s.World.IsWaterAt(x, y) {
			continue
		}
		if s.nearestTribeDistance(x, y) < s.Params.MonsterMinTribeDist {
			continue
		}
		hp := 60 + r.Float64()*160
		str := 10 + r.Float64()*30
		m := &Monster{
			ID:              s.nextAgentID,
			Species:         history.MonsterSpecies(r.Intn(10)),
			X:               x,
			Y:               y,
			Health:          hp,
			Strength:        str,
			State:           MonsterIdle,
			TerritoryX:      x,
			TerritoryY:      y,
			TerritoryRadius: 3 + r.Intn(5),
			Significant:     hp >= significantHP || str >= significantStrength,
		}
		s.nextAgentID++
		s.Monsters = append(s.Monsters, m)
		log.Debug().Str("species", m.Species.String()).Int("x", x).Int("y", y).Msg("Monster spawned")
		return
	}
}

func (s *State) nearestTribeDistance(x, y int) int {
	best := s.World.Width
	for _, id := range s.tribeIDs() {
		t := s.Tribes[id]
		d := grid.DistanceWrapped(grid.TileCoord{X: x, Y: y}, t.Capital, s.World.Width)
		if d < best {
			best = d
		}
	}
	return best
}

// stepMonster advances one monster's state machine.
func (s *State) stepMonster(m *Monster, r *rand.Rand) {
	switch m.State {
	case MonsterIdle:
		if r.Float64() < 0.4 {
			m.State = MonsterRoaming
		}
	case MonsterRoaming:
		s.moveWithinTerritory(m, r)
		// Now and then a roaming monster turns to hunt, heading for the
		// nearest tribe capital.
		if r.Float64() < 0.15 {
			m.State = MonsterHunting
		}
	case MonsterHunting:
		if owner := s.OwnerOf(m.X, m.Y); owner != 0 {
			m.State = MonsterAttacking
			m.Target = owner
			return
		}
		s.moveToward(m, s.nearestTribeTile(m), r)
	case MonsterAttacking:
		t := s.Tribes[m.Target]
		if t == nil || t.Extinct {
			m.State = MonsterRoaming
			m.Target = 0
			return
		}
		report := s.resolveMonsterAttack(m, t, r)
		s.combatReports = append(s.combatReports, report)
		switch report.Outcome {
		case OutcomeMonsterSlain:
			m.State = MonsterDead
		case OutcomeMonsterFled:
			m.State = MonsterFleeing
			m.Target = 0
		default:
			if m.Health < 25 {
				m.State = MonsterFleeing
			}
		}
	case MonsterFleeing:
		s.moveToward(m, grid.TileCoord{X: m.TerritoryX, Y: m.TerritoryY}, r)
		if m.X == m.TerritoryX && m.Y == m.TerritoryY {
			m.State = MonsterIdle
			m.Health += 10
		}
	}
}

func (s *State) moveWithinTerritory(m *Monster, r *rand.Rand) {
	dx := r.Intn(3) - 1
	dy := r.Intn(3) - 1
	nx, ny := s.World.Wrap(m.X+dx, m.Y+dy)
	if s.World.IsWaterAt(nx, ny) {
		return
	}
	d := grid.DistanceWrapped(grid.TileCoord{X: nx, Y: ny}, grid.TileCoord{X: m.TerritoryX, Y: m.TerritoryY}, s.World.Width)
	if d <= m.TerritoryRadius {
		m.X, m.Y = nx, ny
	}
}

func (s *State) moveToward(m *Monster, target grid.TileCoord, r *rand.Rand) {
	step := func(cur, dst, width int, wrap bool) int {
		if cur == dst {
			return 0
		}
		if wrap {
			fwd := grid.WrapX(dst-cur, width)
			if fwd <= width/2 {
				return 1
			}
			return -1
		}
		if dst > cur {
			return 1
		}
		return -1
	}
	nx, ny := s.World.Wrap(m.X+step(m.X, target.X, s.World.Width, true), m.Y+step(m.Y, target.Y, 0, false))
	if !s.World.IsWaterAt(nx, ny) {
		m.X, m.Y = nx, ny
	} else if r.Float64() < 0.5 {
		// Slide along the coast.
		nx, ny = s.World.Wrap(m.X, m.Y+1)
		if !s.World.IsWaterAt(nx, ny) {
			m.X, m.Y = nx, ny
		}
	}
}

func (s *State) nearestTribeTile(m *Monster) grid.TileCoord {
	best := grid.TileCoord{X: m.TerritoryX, Y: m.TerritoryY}
	bestDist := s.World.Width * 2
	for _, id := range s.tribeIDs() {
		t := s.Tribes[id]
		d := grid.DistanceWrapped(grid.TileCoord{X: m.X, Y: m.Y}, t.Capital, s.World.Width)
		if d < bestDist {
			bestDist = d
			best = t.Capital
		}
	}
	return best
}

// monsterVsMonster resolves territorial fights between monsters sharing
// a tile.
func (s *State) monsterVsMonster(r *rand.Rand) {
	for i := 0; i < len(s.Monsters); i++ {
		for j := i + 1; j < len(s.Monsters); j++ {
			a, b := s.Monsters[i], s.Monsters[j]
			if a.State == MonsterDead || b.State == MonsterDead {
				continue
			}
			if a.X != b.X || a.Y != b.Y {
				continue
			}
			// Simple opposed rolls.
			ra := r.Float64() * a.Strength
			rb := r.Float64() * b.Strength
			if ra > rb {
				b.Health -= ra - rb
				if b.Health <= 0 {
					b.State = MonsterDead
				}
			} else {
				a.Health -= rb - ra
				if a.Health <= 0 {
					a.State = MonsterDead
				}
			}
		}
	}
}
