package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clustercore/domuopt/internal/analyze"
	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
)

// searchFixture is a two-host cluster where the guest's primary host lacks
// the cores and processor weight it requires; swapping it onto its
// (failover-free, so the swap carries no RAM-reservation constraints)
// secondary resolves both violations in a single step.
func searchFixture(t *testing.T) (*cluster.Cluster, *placement.Configuration) {
	t.Helper()

	weak, err := cluster.NewDom0("test", "weak", 16384, cluster.ProcessorTypeXeon, cluster.ArchitectureX86_64, 3000, 1, true, nil)
	require.NoError(t, err)

	strong, err := cluster.NewDom0("test", "strong", 16384, cluster.ProcessorTypeXeon, cluster.ArchitectureX86_64, 3000, 4, true, nil)
	require.NoError(t, err)

	domU, err := cluster.NewDomU("test", "domU1", 2048, cluster.NoLimit, 4, 512, nil, cluster.ArchitectureX86_64, cluster.NoLimit, false, nil)
	require.NoError(t, err)

	cl, err := cluster.New("test", []cluster.Dom0{weak, strong}, []cluster.DomU{domU})
	require.NoError(t, err)

	cfg, err := placement.NewConfiguration(cl, []placement.DomUPlacement{
		{DomU: domU, Primary: cluster.Dom0{Hostname: "weak"}, Secondary: &cluster.Dom0{Hostname: "strong"}},
	})
	require.NoError(t, err)

	return cl, cfg
}

func TestOptimize_SolvesByFindingAnOptimalConfiguration(t *testing.T) {
	cl, cfg := searchFixture(t)
	require.False(t, analyze.IsOptimal(cl, cfg))

	outcome, err := Optimize(cl, cfg, Exponential, Options{MinimumAlertLevel: analyze.AlertLevelLow})
	require.NoError(t, err)

	require.Equal(t, StatusSolved, outcome.Status)
	require.NotEmpty(t, outcome.Path)

	final := outcome.Path[len(outcome.Path)-1].Config
	assert.True(t, analyze.IsOptimal(cl, final))
}

func TestOptimize_PathStartsFromCurrentConfiguration(t *testing.T) {
	cl, cfg := searchFixture(t)

	outcome, err := Optimize(cl, cfg, Exponential, Options{MinimumAlertLevel: analyze.AlertLevelLow})
	require.NoError(t, err)
	require.Equal(t, StatusSolved, outcome.Status)

	first := outcome.Path[0]
	assert.Equal(t, SwapPrimarySecondary{DomUHostname: "domU1"}, first.Move)

	p, ok := first.Config.PlacementFor("domU1")
	require.True(t, ok)
	assert.Equal(t, "strong", p.Primary.Hostname)
}

func TestOptimize_NodeCapReached(t *testing.T) {
	cl, cfg := searchFixture(t)

	outcome, err := Optimize(cl, cfg, Exponential, Options{MinimumAlertLevel: analyze.AlertLevelLow, NodeCap: 1})
	require.NoError(t, err)

	assert.Equal(t, StatusNodeCapReached, outcome.Status)
	assert.Equal(t, 1, outcome.Expanded)
}

func TestOptimize_Cancelled(t *testing.T) {
	cl, cfg := searchFixture(t)

	cancel := make(chan struct{})
	close(cancel)

	outcome, err := Optimize(cl, cfg, Exponential, Options{MinimumAlertLevel: analyze.AlertLevelLow, Cancel: cancel})
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, outcome.Status)
}

func TestOptimize_AlreadyOptimalSolvesImmediately(t *testing.T) {
	dom0a, err := cluster.NewDom0("test", "dom0a", 16384, cluster.ProcessorTypeXeon, cluster.ArchitectureX86_64, 3000, 4, true, nil)
	require.NoError(t, err)

	domU, err := cluster.NewDomU("test", "domU1", 4096, cluster.NoLimit, 1, 512, nil, cluster.ArchitectureX86_64, cluster.NoLimit, false, nil)
	require.NoError(t, err)

	cl, err := cluster.New("test", []cluster.Dom0{dom0a}, []cluster.DomU{domU})
	require.NoError(t, err)

	cfg, err := placement.NewConfiguration(cl, []placement.DomUPlacement{
		{DomU: domU, Primary: cluster.Dom0{Hostname: "dom0a"}},
	})
	require.NoError(t, err)

	outcome, err := Optimize(cl, cfg, Exponential, Options{MinimumAlertLevel: analyze.AlertLevelLow})
	require.NoError(t, err)

	assert.Equal(t, StatusSolved, outcome.Status)
	assert.Empty(t, outcome.Path)
	assert.Equal(t, 1, outcome.Expanded)
}

func TestOptimize_DeterministicAcrossRuns(t *testing.T) {
	cl, cfg := searchFixture(t)

	first, err := Optimize(cl, cfg, Exponential, Options{MinimumAlertLevel: analyze.AlertLevelLow})
	require.NoError(t, err)
	second, err := Optimize(cl, cfg, Exponential, Options{MinimumAlertLevel: analyze.AlertLevelLow})
	require.NoError(t, err)

	require.Equal(t, len(first.Path), len(second.Path))
	for i := range first.Path {
		assert.Equal(t, first.Path[i].Move, second.Path[i].Move)
	}
}
