package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/rng"
)

func testState(t *testing.T, seed uint64) *State {
	t.Helper()
	w := overworld.Generate(64, 32, seed)
	return NewState(w, DefaultParams(), seed)
}

func TestNewStatePlacesTribes(t *testing.T) {
	s := testState(t, 42)

	require.NotEmpty(t, s.Tribes)
	for _, tribe := range s.Tribes {
		assert.Positive(t, tribe.Population)
		assert.NotEmpty(t, tribe.Territory)
		assert.Equal(t, tribe.ID, s.OwnerOf(tribe.Capital.X, tribe.Capital.Y))
	}
	assert.NotEmpty(t, s.Fauna)
}

func TestTerritoryMapAuthoritative(t *testing.T) {
	s := testState(t, 42)

	for _, tribe := range s.Tribes {
		for c := range tribe.Territory {
			assert.Equal(t, tribe.ID, s.OwnerOf(c.X, c.Y),
				"territory map must agree with tribe set at %+v", c)
		}
	}
}

func TestStepRuns(t *testing.T) {
	s := testState(t, 42)
	r := rng.NewSub(42, "sim-ticks")

	for i := 0; i < 50; i++ {
		s.Step(r)
	}

	assert.Equal(t, int64(50), s.Tick)
	for _, tribe := range s.Tribes {
		require.GreaterOrEqual(t, tribe.Population, 0)
		for _, n := range tribe.Needs {
			require.GreaterOrEqual(t, n, 0.0)
			require.LessOrEqual(t, n, 1.0)
		}
		for res := Resource(0); res < resourceCount; res++ {
			require.GreaterOrEqual(t, tribe.Stockpile[res], 0.0)
		}
	}
}

func TestTerritoryExpansionClaimsLand(t *testing.T) {
	s := testState(t, 7)
	r := rng.NewSub(7, "sim-ticks")

	before := 0
	for _, tribe := range s.Tribes {
		before += len(tribe.Territory)
		tribe.Culture.ExpansionDrive = 1.0
	}
	for i := 0; i < 60; i++ {
		s.Step(r)
	}
	after := 0
	for _, tribe := range s.Tribes {
		after += len(tribe.Territory)
	}
	assert.Greater(t, after, before)
}

func TestExtinctTribeReleasesTerritory(t *testing.T) {
	s := testState(t, 42)
	r := rng.NewSub(42, "sim-ticks")

	var victim *Tribe
	for _, tribe := range s.Tribes {
		victim = tribe
		break
	}
	require.NotNil(t, victim)
	capital := victim.Capital
	victim.Population = 0

	s.Step(r)

	assert.True(t, victim.Extinct)
	assert.Equal(t, TribeID(0), s.OwnerOf(capital.X, capital.Y))
	for k := range s.Relations {
		assert.NotEqual(t, victim.ID, k[0])
		assert.NotEqual(t, victim.ID, k[1])
	}
}

func TestMonstersSpawnAndStayOnLand(t *testing.T) {
	s := testState(t, 99)
	r := rng.NewSub(99, "sim-ticks")

	for i := 0; i < 100; i++ {
		s.Step(r)
	}

	assert.LessOrEqual(t, len(s.Monsters), s.Params.MonsterCap)
	for _, m := range s.Monsters {
		assert.False(t, s.World.IsWaterAt(m.X, m.Y), "monster at water tile (%d,%d)", m.X, m.Y)
	}
}

func TestFocusPointSparseUpdates(t *testing.T) {
	s := testState(t, 42)
	r := rng.NewSub(42, "sim-ticks")

	// Focus on the first tribe's capital.
	var capital grid.TileCoord
	for _, id := range s.tribeIDs() {
		capital = s.Tribes[id].Capital
		break
	}
	s.HasFocus = true
	s.Focus = grid.FromHierarchical(capital, grid.LocalOffset{LX: 24, LY: 24})

	assert.True(t, s.InFocus(capital.X, capital.Y))
	assert.False(t, s.InFocus(capital.X+20, capital.Y+10))

	for i := 0; i < 10; i++ {
		s.Step(r)
	}
}

func TestRunAdvancesTicks(t *testing.T) {
	w := overworld.Generate(64, 32, 42)
	r := rng.NewSub(42, "run")

	s := Run(w, DefaultParams(), 20, r)

	assert.Equal(t, int64(20), s.Tick)
}

func TestSimpleCombatBounds(t *testing.T) {
	s := testState(t, 42)
	r := rng.NewSub(42, "combat")

	var tribe *Tribe
	for _, id := range s.tribeIDs() {
		tribe = s.Tribes[id]
		break
	}
	require.NotNil(t, tribe)
	tribe.Warriors = 20

	m := &Monster{ID: 1, Health: 50, Strength: 10, State: MonsterAttacking, Target: tribe.ID}
	rep := s.resolveMonsterAttack(m, tribe, r)

	assert.Contains(t, []CombatOutcome{OutcomeMonsterSlain, OutcomeMonsterFled, OutcomeWarriorsSlain}, rep.Outcome)
	assert.GreaterOrEqual(t, tribe.Warriors, 0)
}

func TestDetailedCombatRunsRounds(t *testing.T) {
	s := testState(t, 42)
	r := rng.NewSub(42, "combat-detailed")

	var tribe *Tribe
	for _, id := range s.tribeIDs() {
		tribe = s.Tribes[id]
		break
	}
	require.NotNil(t, tribe)
	tribe.Warriors = 30
	popBefore := tribe.Population

	m := &Monster{ID: 2, Health: 200, Strength: 40, Significant: true}
	rep := s.resolveMonsterAttack(m, tribe, r)

	assert.Positive(t, rep.Rounds)
	assert.LessOrEqual(t, rep.Rounds, maxCombatRounds)
	assert.NotEmpty(t, rep.Log)
	assert.LessOrEqual(t, tribe.Population, popBefore)
}

func TestRoadsDecayWithoutMaintenance(t *testing.T) {
	s := testState(t, 42)
	s.MarkRoad(5, 5)
	require.True(t, s.HasRoad(5, 5))

	seg := s.Roads[grid.TileCoord{X: 5, Y: 5}]
	seg.Condition = 0.005

	// No live tribes: maintenance cannot rebuild, only decay.
	for _, tribe := range s.Tribes {
		tribe.Extinct = true
	}
	r := rng.NewSub(42, "roads")
	s.maintainRoads(r)

	assert.False(t, s.HasRoad(5, 5), "fully decayed roads disappear")
}
