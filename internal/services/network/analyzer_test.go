package network

import (
	"testing"

	"github.com/srigunasankarkatta/mlm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) (Analyzer, *testutil.World) {
	t.Helper()
	world := testutil.NewWorld()
	world.SeedPackages()
	return NewAnalyzer(world.Users, world.Pool), world
}

func TestDirectsCountOnlyCountsPackageHolders(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 1)
	world.FillDirects(root.ID, 3, 1)
	world.NewUser("free-rider", root.ID, 0) // no package, excluded

	count, err := a.DirectsCount(root.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTotalNetworkSizeCountsDescendants(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 1)
	directs := world.FillDirects(root.ID, 4, 1)
	for _, d := range directs {
		world.FillDirects(d.ID, 4, 1)
	}

	size, err := a.TotalNetworkSize(root.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, size)
}

func TestTotalNetworkSizeRespectsMaxDepth(t *testing.T) {
	a, world := newTestAnalyzer(t)

	// A single chain 12 deep; only 10 levels are visible.
	root := world.NewUser("root", 0, 1)
	parent := root
	for i := 0; i < 12; i++ {
		parent = world.FillDirects(parent.ID, 1, 1)[0]
	}

	size, err := a.TotalNetworkSize(root.ID)
	require.NoError(t, err)
	assert.Equal(t, MaxNetworkDepth, size)
}

func TestGroupSizeAtDepth(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 1)
	directs := world.FillDirects(root.ID, 4, 1)
	for _, d := range directs {
		world.FillDirects(d.ID, 4, 1)
	}

	size, err := a.GroupSizeAtDepth(root.ID, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	size, err = a.GroupSizeAtDepth(root.ID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 20, size)
}

func TestGroupSizeZeroWhenUnderRequiredDirects(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 1)
	world.FillDirects(root.ID, 3, 1)

	size, err := a.GroupSizeAtDepth(root.ID, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestGroupSizeCountsOnlyFirstRequiredDirects(t *testing.T) {
	a, world := newTestAnalyzer(t)

	// Five directs; the fifth and its full subtree must not count toward
	// the 4x4 shape at any layer.
	root := world.NewUser("root", 0, 1)
	directs := world.FillDirects(root.ID, 5, 1)
	world.FillDirects(directs[4].ID, 4, 1)

	size, err := a.GroupSizeAtDepth(root.ID, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	size, err = a.GroupSizeAtDepth(root.ID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, size)
}

func TestGroupSizeSubtreeUnderFanOutContributesZero(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 1)
	directs := world.FillDirects(root.ID, 4, 1)
	// Only one direct has a full fan-out of its own.
	world.FillDirects(directs[0].ID, 4, 1)
	world.FillDirects(directs[1].ID, 2, 1)

	size, err := a.GroupSizeAtDepth(root.ID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, size) // 4 directs + the one complete subtree
}

func TestDetectGroupCompletions(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 1)
	world.FillDirects(root.ID, 4, 1)

	detections, err := a.DetectGroupCompletions(root.ID)
	require.NoError(t, err)
	require.Len(t, detections, 5)

	byLevel := make(map[int]LevelDetection)
	for _, d := range detections {
		byLevel[d.Level.Level] = d
	}

	four := byLevel[4]
	assert.True(t, four.Completed)
	assert.Equal(t, 4, four.GroupSize)
	assert.Equal(t, 4, four.DirectsCount)
	assert.Equal(t, 4, four.NetworkSize)
	assert.Equal(t, 0.50, four.Level.BonusAmount)

	sixteen := byLevel[16]
	assert.False(t, sixteen.Completed)
	assert.Equal(t, 4, sixteen.GroupSize)
}

func TestDetectGroupCompletionsTwoLayers(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 2)
	directs := world.FillDirects(root.ID, 4, 1)
	for _, d := range directs {
		world.FillDirects(d.ID, 4, 1)
	}

	detections, err := a.DetectGroupCompletions(root.ID)
	require.NoError(t, err)

	byLevel := make(map[int]LevelDetection)
	for _, d := range detections {
		byLevel[d.Level.Level] = d
	}
	assert.True(t, byLevel[4].Completed)
	assert.True(t, byLevel[16].Completed)
	assert.Equal(t, 20, byLevel[16].GroupSize)
	assert.False(t, byLevel[64].Completed)
}

func TestEligibleLevels(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 2) // tier 2 package
	world.FillDirects(root.ID, 4, 1)

	levels, err := a.EligibleLevels(root.ID)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, 4, levels[0].Level)
	assert.Equal(t, 16, levels[1].Level)
}

func TestEligibleLevelsRequiresDirects(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 3)
	world.FillDirects(root.ID, 2, 1)

	levels, err := a.EligibleLevels(root.ID)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestAnalyzeNetwork(t *testing.T) {
	a, world := newTestAnalyzer(t)

	root := world.NewUser("root", 0, 1)
	directs := world.FillDirects(root.ID, 4, 1)
	for _, d := range directs[:2] {
		world.FillDirects(d.ID, 3, 2)
	}

	stats, err := a.AnalyzeNetwork(root.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.DirectsCount)
	assert.Equal(t, 10, stats.TotalNetworkSize)
	assert.Equal(t, 2, stats.DeepestLevel)
	assert.Equal(t, 4, stats.MembersByDepth[1])
	assert.Equal(t, 6, stats.MembersByDepth[2])
	assert.Equal(t, 4, stats.PackageDistribution["Package-1"])
	assert.Equal(t, 6, stats.PackageDistribution["Package-2"])
}

func TestDepthForLevel(t *testing.T) {
	assert.Equal(t, 1, depthForLevel(4))
	assert.Equal(t, 2, depthForLevel(16))
	assert.Equal(t, 3, depthForLevel(64))
	assert.Equal(t, 4, depthForLevel(256))
	assert.Equal(t, 5, depthForLevel(1024))
}
