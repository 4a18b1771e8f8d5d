package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/rng"
)

func testWorld(t *testing.T) *overworld.WorldData {
	t.Helper()
	return overworld.Generate(64, 32, 42)
}

func TestInitCreatesFoundations(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)

	assert.GreaterOrEqual(t, len(h.Factions), 1)
	assert.GreaterOrEqual(t, len(h.Religions), 2)
	assert.NotEmpty(t, h.Dungeons)

	for _, f := range h.Factions {
		require.NotZero(t, f.LeaderID)
		require.NotEmpty(t, f.Settlements)
		lead := h.Figures[f.LeaderID]
		require.NotNil(t, lead)
		require.True(t, lead.Alive)
	}
}

func TestHundredTickRun(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)
	r := rng.NewSub(42, "history-ticks")
	params := DefaultParams()

	for i := 0; i < 100; i++ {
		Step(h, w, params, r)
	}

	// Chronicle ids form a contiguous prefix of 1..K.
	k := h.Chronicle.Len()
	require.Positive(t, k)
	prev := chronicle.Date{Year: -1}
	for id := 1; id <= k; id++ {
		e := h.Chronicle.Get(chronicle.EventID(id))
		require.NotNil(t, e, "missing event %d", id)
		require.Equal(t, chronicle.EventID(id), e.ID)
		require.False(t, e.Date.Before(prev), "dates must be non-decreasing at event %d", id)
		prev = e.Date
	}

	// No negative populations anywhere.
	for _, f := range h.Factions {
		require.GreaterOrEqual(t, f.Population, 0)
	}
	for _, s := range h.Settlements {
		require.GreaterOrEqual(t, s.Population, 0)
	}

	assert.Equal(t, 25, h.CurrentDate.Year, "100 seasons is 25 years")
}

func TestWarCapNeverExceeded(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 7)
	r := rng.NewSub(7, "history-ticks")
	params := DefaultParams()
	params.WarFrequency = 20 // pressure-cook the declaration pathways

	for i := 0; i < 200; i++ {
		Step(h, w, params, r)
		for _, f := range h.Factions {
			require.LessOrEqual(t, len(f.Wars), MaxActiveWars,
				"faction %s exceeds the war cap at tick %d", f.Name, i)
		}
	}
}

func TestWarsDeclareAndEnd(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)
	r := rng.NewSub(42, "history-ticks")
	params := DefaultParams()
	params.WarFrequency = 8

	for i := 0; i < 400; i++ {
		Step(h, w, params, r)
	}

	declared, ended := 0, 0
	h.Chronicle.Each(func(e *chronicle.Event) bool {
		switch e.Type {
		case chronicle.EventWarDeclared, chronicle.EventHolyWarDeclared:
			declared++
		case chronicle.EventWarEnded:
			ended++
		}
		return true
	})
	assert.Positive(t, declared, "a century at high war frequency must see war")
	assert.Positive(t, ended, "wars must also end")
}

func TestSuccessionHappens(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)
	r := rng.NewSub(42, "history-ticks")
	params := DefaultParams()

	// Age every leader near death so succession triggers quickly.
	for _, f := range h.Factions {
		lead := h.Figures[f.LeaderID]
		lead.Birth = chronicle.Date{Year: -(lead.Race.Lifespan() + 10)}
	}

	for i := 0; i < 40; i++ {
		Step(h, w, params, r)
	}

	succession := 0
	h.Chronicle.Each(func(e *chronicle.Event) bool {
		switch e.Type {
		case chronicle.EventRulerCrowned, chronicle.EventCoup, chronicle.EventRulerDeposed:
			succession++
		}
		return true
	})
	assert.Positive(t, succession)

	// Every live faction still has a living leader.
	for _, f := range h.LiveFactions() {
		lead := h.Figures[f.LeaderID]
		require.NotNil(t, lead)
		require.True(t, lead.Alive, "faction %s leader must be alive after succession", f.Name)
	}
}

func TestBattleEventsCausedByDeclaration(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 99)
	r := rng.NewSub(99, "history-ticks")
	params := DefaultParams()
	params.WarFrequency = 10

	for i := 0; i < 300; i++ {
		Step(h, w, params, r)
	}

	checked := 0
	h.Chronicle.Each(func(e *chronicle.Event) bool {
		if e.Type == chronicle.EventBattleFought {
			require.NotZero(t, e.CausedBy, "battles must link their declaration")
			decl := h.Chronicle.Get(e.CausedBy)
			require.NotNil(t, decl)
			require.Contains(t, []chronicle.EventType{chronicle.EventWarDeclared, chronicle.EventHolyWarDeclared}, decl.Type)
			checked++
		}
		return true
	})
	if checked == 0 {
		t.Skip("no battles this run")
	}
}

func TestRoadNetworkInterface(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)

	assert.False(t, h.HasRoad(5, 5))
	h.MarkRoad(5, 5)
	assert.True(t, h.HasRoad(5, 5))
	// Wrapped access sees the same tile.
	assert.True(t, h.HasRoad(5+w.Width, 5))
}

func TestDeterministicReplay(t *testing.T) {
	w := testWorld(t)

	run := func() *WorldHistory {
		h := Init(w, 42)
		r := rng.NewSub(42, "history-ticks")
		params := DefaultParams()
		for i := 0; i < 50; i++ {
			Step(h, w, params, r)
		}
		return h
	}

	a := run()
	b := run()

	require.Equal(t, a.Chronicle.Len(), b.Chronicle.Len())
	for id := 1; id <= a.Chronicle.Len(); id++ {
		ea := a.Chronicle.Get(chronicle.EventID(id))
		eb := b.Chronicle.Get(chronicle.EventID(id))
		require.Equal(t, ea.Type, eb.Type, "event %d type", id)
		require.Equal(t, ea.Title, eb.Title, "event %d title", id)
	}
}
