package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/localgen"
	"darktower-backend/internal/overworld"
)

func testWorld(t *testing.T) *overworld.WorldData {
	t.Helper()
	return overworld.Generate(64, 32, 12345)
}

func landTile(t *testing.T, w *overworld.WorldData) (int, int) {
	t.Helper()
	for y := 2; y < w.Height-2; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.Biomes.Get(x, y).IsWater() {
				return x, y
			}
		}
	}
	t.Fatal("no land tile")
	return 0, 0
}

type fixedSites map[[2]int][]localgen.Site

func (f fixedSites) StructuresAt(wx, wy int) []localgen.Site { return f[[2]int{wx, wy}] }

func TestCleanChunkPasses(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	c := localgen.Generate(w, nil, wx, wy, nil)
	r := Chunk(w, c, nil, nil)

	assert.Equal(t, StatusPassed, r.Status(), "failures: %v", r.Failures)
}

func TestGeologyMismatchIsCritical(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	c := localgen.Generate(w, nil, wx, wy, nil)
	c.SurfaceZ += 3

	r := Chunk(w, c, nil, nil)

	assert.Equal(t, StatusFailed, r.Status())
	assert.True(t, r.HasCriticalIn(CategoryGeologyConsistency))
}

func TestStructurePresence(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)
	sites := []localgen.Site{{Kind: localgen.SiteVillage, Z: w.SurfaceZ.Get(wx, wy)}}

	src := fixedSites{{wx, wy}: sites}
	c := localgen.Generate(w, src, wx, wy, nil)

	r := Chunk(w, c, sites, nil)
	assert.Zero(t, r.FailedBy[CategoryStructurePresence], "failures: %v", r.Failures)

	// A chunk generated without the structure must fail the check.
	bare := localgen.Generate(w, nil, wx, wy, nil)
	r2 := Chunk(w, bare, sites, nil)
	assert.True(t, r2.HasCriticalIn(CategoryStructurePresence))
}

func TestDungeonReachability(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)
	sites := []localgen.Site{{Kind: localgen.SiteDungeon, Z: w.SurfaceZ.Get(wx, wy) - 6}}

	src := fixedSites{{wx, wy}: sites}
	c := localgen.Generate(w, src, wx, wy, nil)

	r := Chunk(w, c, sites, nil)
	assert.Zero(t, r.FailedBy[CategoryZReachability], "failures: %v", r.Failures)
}

func TestBoundaryCoherence(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	a := localgen.Generate(w, nil, wx, wy, nil)
	bounds := &localgen.BoundaryConditions{West: a.ExtractEdge(localgen.EdgeEast)}
	b := localgen.Generate(w, nil, wx+1, wy, bounds)

	r := Chunk(w, b, nil, bounds)
	assert.Zero(t, r.FailedBy[CategoryBoundaryCoherence], "failures: %v", r.Failures)
}

func TestBoundaryViolationDetected(t *testing.T) {
	w := testWorld(t)
	wx, wy := landTile(t, w)

	a := localgen.Generate(w, nil, wx, wy, nil)
	bounds := &localgen.BoundaryConditions{West: a.ExtractEdge(localgen.EdgeEast)}

	// Generate WITHOUT the boundary, then verify against it: the west rim
	// will not match in general, and turning ten rim tiles near the top
	// into deep water forces the issue.
	b := localgen.Generate(w, nil, wx+1, wy, nil)
	for zi := 0; zi < 10; zi++ {
		b.Set(0, 10+zi, localgen.ZMax-1, localgen.NewTile(localgen.Terrain{Kind: localgen.TerrainDeepWater, Mat: localgen.MatWater}))
	}

	r := Chunk(w, b, nil, bounds)
	assert.Positive(t, r.FailedBy[CategoryBoundaryCoherence])
}

func TestReportStatusLevels(t *testing.T) {
	r := &Report{}
	require.Equal(t, StatusPassed, r.Status())

	r.fail(CategoryFeatureContinuity, SeverityLow, "one step")
	require.Equal(t, StatusPartialPass, r.Status())

	r.fail(CategoryBoundaryCoherence, SeverityCritical, "edge mismatch")
	require.Equal(t, StatusFailed, r.Status())
}

func TestFailureString(t *testing.T) {
	f := Failure{Category: CategoryZReachability, Severity: SeverityCritical, Message: "stuck"}.At(3, 4, -5)
	s := f.String()

	assert.Contains(t, s, "CRITICAL")
	assert.Contains(t, s, "Z-Level Reachability")
	assert.Contains(t, s, "(3,4,z=-5)")
}
