package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/localgen"
	"darktower-backend/internal/rng"
)

func TestSchismMovesHeretic(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)
	r := rng.NewSub(42, "schism-test")

	// One religion, two follower factions.
	live := h.LiveFactions()
	require.GreaterOrEqual(t, len(live), 2)
	parent := h.Religions[h.religionIDs()[0]]
	parent.Followers = nil
	parent.FollowerCount = 0
	for _, rel := range h.Religions {
		rel.Followers = nil
		rel.FollowerCount = 0
	}
	a, b := live[0], live[1]
	for _, f := range []*Faction{a, b} {
		f.ReligionID = parent.ID
		parent.Followers = append(parent.Followers, f.ID)
		parent.FollowerCount += f.Population
	}

	// Force the schism draw directly.
	child := h.Schism(parent, b, r)

	assert.NotContains(t, parent.Followers, b.ID, "heretic removed from parent")
	assert.Contains(t, child.Followers, b.ID, "heretic follows the new faith")
	assert.Equal(t, child.ID, b.ReligionID)
	assert.Contains(t, parent.Hostile, child.ID)
	assert.Contains(t, child.Hostile, parent.ID)
	assert.Contains(t, parent.Heresies, child.ID)
	assert.NotEmpty(t, child.Doctrines)
}

func TestDeclareWarRespectsCap(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)

	live := h.LiveFactions()
	require.GreaterOrEqual(t, len(live), 3)
	a, b, c := live[0], live[1], live[2]

	w1 := h.declareWar(a, b, CauseBorderFriction)
	require.NotNil(t, w1)
	w2 := h.declareWar(a, c, CauseBorderFriction)
	require.NotNil(t, w2)

	// Third war would exceed the cap and is silently skipped.
	d := live[len(live)-1]
	if d == a || d == b || d == c {
		t.Skip("not enough distinct factions")
	}
	w3 := h.declareWar(a, d, CauseBorderFriction)
	assert.Nil(t, w3)
	assert.Len(t, a.Wars, MaxActiveWars)
}

func TestDeclareWarWiresRelations(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)

	live := h.LiveFactions()
	require.GreaterOrEqual(t, len(live), 2)
	a, b := live[0], live[1]

	war := h.declareWar(a, b, CauseAncientGrudge)
	require.NotNil(t, war)

	assert.Equal(t, StanceAtWar, a.RelationWith(b.ID).Stance)
	assert.Equal(t, StanceAtWar, b.RelationWith(a.ID).Stance)
	assert.Contains(t, a.Wars, war.ID)
	assert.Contains(t, b.Wars, war.ID)
	assert.NotZero(t, war.DeclarationEvent)
}

func TestArtifactRegistryIndices(t *testing.T) {
	reg := NewArtifactRegistry()

	a := reg.Create(Artifact{Name: "The Iron Blade of Dawn", Location: WithHero(7)})
	require.Equal(t, ArtifactID(1), a.ID)

	assert.Contains(t, reg.ByHero(7), a.ID)
	assert.True(t, reg.NameTaken("The Iron Blade of Dawn"))

	// Transfer invalidates and rebuilds: the old index entry must be gone.
	reg.Transfer(a.ID, Location{Kind: LocInDungeon, X: 3, Y: 4, Z: -6, PlaceName: "Deephold"})
	assert.Empty(t, reg.ByHero(7))
	assert.Contains(t, reg.ByDungeon(3, 4), a.ID)
	assert.Contains(t, reg.ByCoord(3, 4, -6), a.ID)

	reg.Destroy(a.ID)
	assert.Empty(t, reg.ByDungeon(3, 4))
	assert.Equal(t, LocDestroyed, reg.Get(a.ID).Location.Kind)
}

func TestArtifactNamesUnique(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)
	r := rng.NewSub(42, "artifact-test")

	f := h.LiveFactions()[0]
	for i := 0; i < 40; i++ {
		h.createArtifact(f, "war", r)
	}

	seen := map[string]bool{}
	h.Artifacts.Each(func(a *Artifact) {
		require.False(t, seen[a.Name], "duplicate artifact name %q", a.Name)
		seen[a.Name] = true
	})
}

func TestStructuresAtSettlement(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)

	var s *Settlement
	for _, id := range h.settlementIDs() {
		s = h.Settlements[id]
		break
	}
	require.NotNil(t, s)

	sites := h.StructuresAt(s.X, s.Y)
	require.NotEmpty(t, sites)
	assert.Contains(t, []localgen.SiteKind{localgen.SiteVillage, localgen.SiteCastle}, sites[0].Kind)
}

func TestStructuresAtDungeon(t *testing.T) {
	w := testWorld(t)
	h := Init(w, 42)

	var d *Dungeon
	for _, id := range sortedKeys(h.Dungeons) {
		d = h.Dungeons[id]
		break
	}
	require.NotNil(t, d)

	sites := h.StructuresAt(d.X, d.Y)
	found := false
	for _, s := range sites {
		if s.Kind == localgen.SiteDungeon {
			found = true
			assert.Equal(t, d.DepthMin, s.Z)
		}
	}
	assert.True(t, found)
}

func TestNameGeneratorShapes(t *testing.T) {
	g := newNameGenerator(rng.NewSub(1, "names"))

	assert.NotEmpty(t, g.Place())
	assert.NotEmpty(t, g.Person())
	assert.Contains(t, g.WarName(), "War of the ")
	assert.Contains(t, g.ArtifactName(), "The ")
}
