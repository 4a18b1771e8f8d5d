// Package sim runs the short-horizon simulation: tribes, monsters,
// fauna, and colonists sharing the overworld grid and a territory map.
// It reads history metadata but never mutates WorldHistory.
package sim

import (
	"darktower-backend/internal/grid"
	"darktower-backend/internal/history"
	"darktower-backend/internal/overworld"
)

// TribeID identifies a tribe. Zero means unowned territory.
type TribeID uint32

// Resource enumerates stockpiled goods.
type Resource uint8

const (
	ResFood Resource = iota
	ResWater
	ResWood
	ResStone
	ResOre
	ResHide

	resourceCount
)

// decayRates per season, indexed by resource.
var decayRates = [resourceCount]float64{
	ResFood:  0.15,
	ResWater: 0.30,
	ResWood:  0.02,
	ResStone: 0,
	ResOre:   0,
	ResHide:  0.05,
}

// Need indexes the tribe needs vector.
type Need uint8

const (
	NeedFood Need = iota
	NeedWater
	NeedShelter
	NeedHealth
	NeedMorale
	NeedDefense

	needCount
)

// TechAge ranks tribal technology.
type TechAge uint8

const (
	AgeStone TechAge = iota
	AgeBronze
	AgeIron
	AgeClassical
)

// Multiplier applied to extraction per age.
func (a TechAge) Multiplier() float64 {
	return 1.0 + float64(a)*0.35
}

// TribeCulture biases tribal behaviour.
type TribeCulture struct {
	Aggression       float64
	TradeAffinity    float64
	ExpansionDrive   float64
	ResearchPriority float64
}

// Building is a constructed improvement in a tribe settlement.
type Building uint8

const (
	BuildingHut Building = iota
	BuildingGranary
	BuildingPalisade
	BuildingWorkshop
	BuildingShrine
	BuildingLibrary
)

// TribeSettlement is one populated site of a tribe.
type TribeSettlement struct {
	X, Y      int
	Buildings []Building
}

// Tribe is one short-horizon polity.
type Tribe struct {
	ID      TribeID
	Name    string
	Capital grid.TileCoord

	Territory map[grid.TileCoord]struct{}

	Population int
	Workers    int
	Warriors   int

	Stockpile    [resourceCount]float64
	StockpileCap float64
	Needs        [needCount]float64

	Age         TechAge
	Research    float64
	Settlements []TribeSettlement
	Culture     TribeCulture
	Wealth      int

	Extinct bool
}

// TribeStance is the diplomatic posture between two tribes.
type TribeStance uint8

const (
	TribeNeutral TribeStance = iota
	TribeFriendly
	TribeAllied
	TribeHostile
)

// pairKey orders a tribe pair so the relation matrix is unordered.
func pairKey(a, b TribeID) [2]TribeID {
	if a > b {
		a, b = b, a
	}
	return [2]TribeID{a, b}
}

// TribeRelation is the shared relation of an unordered pair.
type TribeRelation struct {
	Opinion int
	Stance  TribeStance
}

// Treaty is a standing agreement between two tribes.
type Treaty struct {
	A, B      TribeID
	Kind      string
	SinceTick int64
}

// MonsterState is the live-monster behaviour machine.
type MonsterState uint8

const (
	MonsterIdle MonsterState = iota
	MonsterRoaming
	MonsterHunting
	MonsterAttacking
	MonsterFleeing
	MonsterDead
)

// Monster is a live creature on the map.
type Monster struct {
	ID       uint64
	Species  history.MonsterSpecies
	X, Y     int
	Health   float64
	Strength float64
	State    MonsterState
	// Target tribe while attacking.
	Target TribeID

	TerritoryX, TerritoryY int
	TerritoryRadius        int
	LastAction             int64
	Significant            bool
}

// FaunaSpecies enumerates wild animals.
type FaunaSpecies uint8

const (
	FaunaDeer FaunaSpecies = iota
	FaunaBoar
	FaunaWolf
	FaunaRabbit
	FaunaBear
	FaunaFox
)

// Predatory reports whether the species hunts others.
func (s FaunaSpecies) Predatory() bool {
	return s == FaunaWolf || s == FaunaBear || s == FaunaFox
}

// FaunaState is the fauna behaviour machine.
type FaunaState uint8

const (
	FaunaIdle FaunaState = iota
	FaunaGrazing
	FaunaRoaming
	FaunaFleeing
	FaunaBreeding
	FaunaMigrating
	FaunaHunting
	FaunaDead
)

// Animal is one wild creature.
type Animal struct {
	ID        uint64
	Species   FaunaSpecies
	X, Y      int
	Female    bool
	Age       int
	Hunger    float64
	State     FaunaState
	LastBreed int64
	HomeX     int
	HomeY     int
}

// ColonistRole classifies a tribal worker.
type ColonistRole uint8

const (
	RoleGatherer ColonistRole = iota
	RoleBuilder
	RoleWarrior
	RoleScout
	RoleCrafter
)

// ColonistActivity is the colonist behaviour machine.
type ColonistActivity uint8

const (
	ColonistIdle ColonistActivity = iota
	ColonistTraveling
	ColonistWorking
	ColonistReturning
	ColonistPatrolling
	ColonistScouting
	ColonistFleeing
	ColonistSocializing
)

// Colonist is a simulated tribal worker with tile and local positions.
type Colonist struct {
	ID    uint64
	Tribe TribeID
	Role  ColonistRole
	Job   string

	Activity ColonistActivity
	X, Y     int
	// Local-space position within the tile, only advanced in focus.
	LocalX, LocalY int
	DestX, DestY   int
	LastMove       int64

	PlayerControlled bool
}

// Params tune the short-horizon loop.
type Params struct {
	MonsterCap          int
	MonsterSpawnEvery   int64
	MonsterMinTribeDist int
	FocusRadius         int
	SparseEvery         int64
	RoadDecay           float64
}

// DefaultParams returns the baseline tuning.
func DefaultParams() Params {
	return Params{
		MonsterCap:          12,
		MonsterSpawnEvery:   8,
		MonsterMinTribeDist: 6,
		FocusRadius:         4,
		SparseEvery:         4,
		RoadDecay:           0.01,
	}
}

// RoadSegment is a maintained road tile with a condition that decays.
type RoadSegment struct {
	At        grid.TileCoord
	Condition float64
}

// State is the whole short-horizon simulation state.
type State struct {
	World *overworld.WorldData

	Tribes    map[TribeID]*Tribe
	Territory *grid.Tilemap[TribeID]

	Relations map[[2]TribeID]*TribeRelation
	Treaties  []Treaty

	Monsters  []*Monster
	Fauna     []*Animal
	Colonists []*Colonist

	Roads map[grid.TileCoord]*RoadSegment

	// FocusPoint enables full-rate simulation near the player's view.
	HasFocus bool
	Focus    grid.GlobalLocal

	Tick   int64
	Params Params

	nextTribeID   TribeID
	nextAgentID   uint64
	combatReports []CombatReport
}

// RelationBetween returns (creating if needed) the pair relation.
func (s *State) RelationBetween(a, b TribeID) *TribeRelation {
	k := pairKey(a, b)
	r, ok := s.Relations[k]
	if !ok {
		r = &TribeRelation{}
		s.Relations[k] = r
	}
	return r
}

// OwnerOf returns the tribe owning a tile, or zero.
func (s *State) OwnerOf(x, y int) TribeID {
	x, y = s.World.Wrap(x, y)
	return s.Territory.Get(x, y)
}

// claim assigns a tile to a tribe in both the territory map and the
// tribe's own set. The territory map is authoritative.
func (s *State) claim(t *Tribe, x, y int) {
	x, y = s.World.Wrap(x, y)
	s.Territory.Set(x, y, t.ID)
	t.Territory[grid.TileCoord{X: x, Y: y}] = struct{}{}
}

// release frees every tile of an extinct tribe.
func (s *State) release(t *Tribe) {
	for c := range t.Territory {
		if s.Territory.Get(c.X, c.Y) == t.ID {
			s.Territory.Set(c.X, c.Y, 0)
		}
	}
	t.Territory = map[grid.TileCoord]struct{}{}
}

// InFocus reports whether a tile sits inside the medium-focus radius.
func (s *State) InFocus(x, y int) bool {
	if !s.HasFocus {
		return false
	}
	tile := s.Focus.WorldTile()
	return grid.DistanceWrapped(grid.TileCoord{X: x, Y: y}, tile, s.World.Width) <= s.Params.FocusRadius
}

// sparseTick reports whether a distant agent updates this tick.
func (s *State) sparseTick(id uint64) bool {
	return (s.Tick+int64(id))%s.Params.SparseEvery == 0
}
