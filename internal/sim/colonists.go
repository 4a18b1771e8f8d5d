package sim

import (
	"math/rand"
	"sort"

	"darktower-backend/internal/grid"
)

// updateColonists steps colonist activity machines. Only focused
// colonists advance their local-space position; distant ones track
// tile-level movement on sparse ticks.
func (s *State) updateColonists(r *rand.Rand) {
	for _, c := range s.Colonists {
		tribe := s.Tribes[c.Tribe]
		if tribe == nil || tribe.Extinct {
			continue
		}
		focused := s.InFocus(c.X, c.Y)
		if !focused && !s.sparseTick(c.ID) {
			continue
		}

		switch c.Activity {
		case ColonistIdle:
			s.assignJob(c, tribe, r)
		case ColonistTraveling:
			s.stepTowardDest(c)
			if c.X == c.DestX && c.Y == c.DestY {
				c.Activity = ColonistWorking
			}
		case ColonistWorking:
			if r.Float64() < 0.25 {
				c.Activity = ColonistReturning
				c.DestX, c.DestY = tribe.Capital.X, tribe.Capital.Y
			}
		case ColonistReturning:
			s.stepTowardDest(c)
			if c.X == c.DestX && c.Y == c.DestY {
				if r.Float64() < 0.3 {
					c.Activity = ColonistSocializing
				} else {
					c.Activity = ColonistIdle
				}
			}
		case ColonistPatrolling, ColonistScouting:
			s.stepTowardDest(c)
			if c.X == c.DestX && c.Y == c.DestY {
				c.Activity = ColonistIdle
			}
			if s.monsterNear(c.X, c.Y, 1) && c.Role != RoleWarrior {
				c.Activity = ColonistFleeing
				c.DestX, c.DestY = tribe.Capital.X, tribe.Capital.Y
			}
		case ColonistFleeing:
			s.stepTowardDest(c)
			s.stepTowardDest(c)
			if c.X == c.DestX && c.Y == c.DestY {
				c.Activity = ColonistIdle
			}
		case ColonistSocializing:
			if r.Float64() < 0.5 {
				c.Activity = ColonistIdle
			}
		}

		// Local-space wandering only for focused colonists; distant ones
		// keep a stable local position.
		if focused {
			c.LocalX = clampLocal(c.LocalX + r.Intn(5) - 2)
			c.LocalY = clampLocal(c.LocalY + r.Intn(5) - 2)
		}
		c.LastMove = s.Tick
	}
}

// assignJob sends a colonist toward role-appropriate work.
func (s *State) assignJob(c *Colonist, tribe *Tribe, r *rand.Rand) {
	if c.PlayerControlled {
		return
	}
	switch c.Role {
	case RoleGatherer, RoleCrafter:
		// Work a random owned tile.
		if len(tribe.Territory) == 0 {
			return
		}
		owned := make([]grid.TileCoord, 0, len(tribe.Territory))
		for t := range tribe.Territory {
			owned = append(owned, t)
		}
		sort.Slice(owned, func(i, j int) bool {
			if owned[i].Y != owned[j].Y {
				return owned[i].Y < owned[j].Y
			}
			return owned[i].X < owned[j].X
		})
		target := owned[r.Intn(len(owned))]
		c.Job = "gather"
		c.DestX, c.DestY = target.X, target.Y
		c.Activity = ColonistTraveling
	case RoleBuilder:
		c.Job = "build"
		c.DestX, c.DestY = tribe.Capital.X, tribe.Capital.Y
		c.Activity = ColonistTraveling
	case RoleWarrior:
		c.Job = "patrol"
		c.DestX, c.DestY = s.World.Wrap(tribe.Capital.X+r.Intn(5)-2, tribe.Capital.Y+r.Intn(5)-2)
		c.Activity = ColonistPatrolling
	case RoleScout:
		c.Job = "scout"
		c.DestX, c.DestY = s.World.Wrap(tribe.Capital.X+r.Intn(13)-6, tribe.Capital.Y+r.Intn(13)-6)
		c.Activity = ColonistScouting
	}
}

// stepTowardDest moves one tile toward the destination, wrapping x.
func (s *State) stepTowardDest(c *Colonist) {
	if c.X != c.DestX {
		if grid.WrapX(c.DestX-c.X, s.World.Width) <= s.World.Width/2 {
			c.X = grid.WrapX(c.X+1, s.World.Width)
		} else {
			c.X = grid.WrapX(c.X-1, s.World.Width)
		}
	} else if c.Y != c.DestY {
		if c.DestY > c.Y {
			c.Y++
		} else {
			c.Y--
		}
	}
}

func clampLocal(v int) int {
	if v < 0 {
		return 0
	}
	if v >= grid.LocalSize {
		return grid.LocalSize - 1
	}
	return v
}
