package sim

import (
	"math/rand"

	"darktower-backend/internal/grid"
)

const (
	faunaBreedCooldown = 12
	faunaMaxAge        = 40
	faunaHomeRange     = 5
)

// updateFauna steps every animal's behaviour machine. Distant animals
// update sparsely.
func (s *State) updateFauna(r *rand.Rand) {
	var births []*Animal

	for _, a := range s.Fauna {
		if a.State == FaunaDead {
			continue
		}
		if !s.InFocus(a.X, a.Y) && !s.sparseTick(a.ID) {
			continue
		}

		a.Age++
		a.Hunger = clamp01(a.Hunger + 0.08)
		if a.Age > faunaMaxAge || a.Hunger >= 1 {
			a.State = FaunaDead
			continue
		}

		switch a.State {
		case FaunaIdle:
			if a.Hunger > 0.5 {
				if a.Species.Predatory() {
					a.State = FaunaHunting
				} else {
					a.State = FaunaGrazing
				}
			} else if r.Float64() < 0.3 {
				a.State = FaunaRoaming
			}
		case FaunaGrazing:
			if !s.World.IsWaterAt(a.X, a.Y) {
				a.Hunger = clamp01(a.Hunger - 0.3)
			}
			if a.Hunger < 0.2 {
				a.State = FaunaIdle
			}
		case FaunaHunting:
			if prey := s.preyAt(a); prey != nil {
				prey.State = FaunaDead
				a.Hunger = 0
				a.State = FaunaIdle
			} else {
				s.wanderAnimal(a, r)
			}
		case FaunaRoaming:
			s.wanderAnimal(a, r)
			if s.monsterNear(a.X, a.Y, 2) {
				a.State = FaunaFleeing
			} else if a.Hunger < 0.3 && s.Tick-a.LastBreed > faunaBreedCooldown && a.Age >= 3 {
				a.State = FaunaBreeding
			} else if r.Float64() < 0.2 {
				a.State = FaunaIdle
			}
		case FaunaFleeing:
			s.wanderAnimal(a, r)
			s.wanderAnimal(a, r)
			if !s.monsterNear(a.X, a.Y, 3) {
				a.State = FaunaMigrating
			}
		case FaunaBreeding:
			if mate := s.mateFor(a); mate != nil {
				a.LastBreed = s.Tick
				mate.LastBreed = s.Tick
				births = append(births, &Animal{
					ID:      s.nextAgentID,
					Species: a.Species,
					X:       a.X,
					Y:       a.Y,
					Female:  r.Float64() < 0.5,
					State:   FaunaIdle,
					HomeX:   a.HomeX,
					HomeY:   a.HomeY,
				})
				s.nextAgentID++
			}
			a.State = FaunaIdle
		case FaunaMigrating:
			// Head back toward the home range.
			home := grid.TileCoord{X: a.HomeX, Y: a.HomeY}
			if grid.DistanceWrapped(grid.TileCoord{X: a.X, Y: a.Y}, home, s.World.Width) <= faunaHomeRange {
				a.State = FaunaIdle
			} else {
				if a.X != home.X {
					if grid.WrapX(home.X-a.X, s.World.Width) <= s.World.Width/2 {
						a.X = grid.WrapX(a.X+1, s.World.Width)
					} else {
						a.X = grid.WrapX(a.X-1, s.World.Width)
					}
				}
				if a.Y < home.Y {
					a.Y++
				} else if a.Y > home.Y {
					a.Y--
				}
			}
		}
	}

	s.Fauna = append(s.Fauna, births...)
}

func (s *State) wanderAnimal(a *Animal, r *rand.Rand) {
	nx, ny := s.World.Wrap(a.X+r.Intn(3)-1, a.Y+r.Intn(3)-1)
	if !s.World.IsWaterAt(nx, ny) {
		a.X, a.Y = nx, ny
	}
}

// preyAt finds a non-predator animal on the hunter's tile.
func (s *State) preyAt(hunter *Animal) *Animal {
	for _, a := range s.Fauna {
		if a == hunter || a.State == FaunaDead || a.Species.Predatory() {
			continue
		}
		if a.X == hunter.X && a.Y == hunter.Y {
			return a
		}
	}
	return nil
}

// mateFor finds an opposite-sex animal of the species nearby.
func (s *State) mateFor(a *Animal) *Animal {
	for _, b := range s.Fauna {
		if b == a || b.State == FaunaDead || b.Species != a.Species || b.Female == a.Female {
			continue
		}
		if grid.DistanceWrapped(grid.TileCoord{X: a.X, Y: a.Y}, grid.TileCoord{X: b.X, Y: b.Y}, s.World.Width) <= 1 {
			return b
		}
	}
	return nil
}

func (s *State) monsterNear(x, y, radius int) bool {
	for _, m := range s.Monsters {
		if m.State == MonsterDead {
			continue
		}
		if grid.DistanceWrapped(grid.TileCoord{X: x, Y: y}, grid.TileCoord{X: m.X, Y: m.Y}, s.World.Width) <= radius {
			return true
		}
	}
	return false
}
