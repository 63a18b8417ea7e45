package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clustercore/domuopt/internal/cluster"
)

// fixture builds a two-host, one-guest cluster: dom0a and dom0b each have a
// single disk, and domU1 has a single 100-extent disk with a failover
// reservation, so tests can exercise both the primary-only and
// primary+secondary paths by varying the placements they feed in.
func fixture(t *testing.T) *cluster.Cluster {
	t.Helper()

	dom0a, err := cluster.NewDom0("test", "dom0a", 16384, cluster.ProcessorTypeXeon, cluster.ArchitectureX86_64, 3000, 4, true, []cluster.Dom0Disk{
		{Device: "sda", DiskSpeed: 7200},
	})
	require.NoError(t, err)

	dom0b, err := cluster.NewDom0("test", "dom0b", 16384, cluster.ProcessorTypeXeon, cluster.ArchitectureX86_64, 3000, 4, true, []cluster.Dom0Disk{
		{Device: "sdb", DiskSpeed: 7200},
	})
	require.NoError(t, err)

	domU1, err := cluster.NewDomU("test", "domU1", 4096, 2048, 1, 512, nil, cluster.ArchitectureX86_64, cluster.NoLimit, false, []cluster.DomUDisk{
		{Device: "xvda", Extents: 100, MinimumDiskSpeed: cluster.NoLimit, Weight: 10},
	})
	require.NoError(t, err)

	cl, err := cluster.New("test", []cluster.Dom0{dom0a, dom0b}, []cluster.DomU{domU1})
	require.NoError(t, err)
	return cl
}

func validPlacement() DomUPlacement {
	return DomUPlacement{
		DomU:      cluster.DomU{Hostname: "domU1"},
		Primary:   cluster.Dom0{Hostname: "dom0a"},
		Secondary: &cluster.Dom0{Hostname: "dom0b"},
		Disks: []DomUDiskPlacement{
			{
				Disk:      cluster.DomUDisk{Device: "xvda", Extents: 100},
				Primary:   []PhysicalVolumeConfiguration{{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0a", Device: "sda"}, Extents: 100}},
				Secondary: []PhysicalVolumeConfiguration{{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0b", Device: "sdb"}, Extents: 100}},
			},
		},
	}
}

func TestNewConfiguration_HappyPath(t *testing.T) {
	cl := fixture(t)
	cfg, err := NewConfiguration(cl, []DomUPlacement{validPlacement()})
	require.NoError(t, err)
	assert.Len(t, cfg.Placements(), 1)

	p, ok := cfg.PlacementFor("domU1")
	require.True(t, ok)
	assert.Equal(t, "dom0a", p.Primary.Hostname)
	assert.True(t, p.HasSecondary())
}

func TestNewConfiguration_UnknownDomU(t *testing.T) {
	cl := fixture(t)
	p := validPlacement()
	p.DomU.Hostname = "ghost"

	_, err := NewConfiguration(cl, []DomUPlacement{p})
	assert.ErrorIs(t, err, ErrUnknownDomU)
}

func TestNewConfiguration_MissingPlacement(t *testing.T) {
	cl := fixture(t)

	_, err := NewConfiguration(cl, nil)
	assert.ErrorIs(t, err, ErrMissingPlacement)
}

func TestNewConfiguration_PrimaryEqualsSecondary(t *testing.T) {
	cl := fixture(t)
	p := validPlacement()
	p.Secondary = &cluster.Dom0{Hostname: "dom0a"}

	_, err := NewConfiguration(cl, []DomUPlacement{p})
	assert.ErrorIs(t, err, ErrPrimaryEqualsSecondary)
}

func TestNewConfiguration_MissingSecondary(t *testing.T) {
	cl := fixture(t)
	p := validPlacement()
	p.Secondary = nil

	_, err := NewConfiguration(cl, []DomUPlacement{p})
	assert.ErrorIs(t, err, ErrMissingSecondary)
}

func TestNewConfiguration_ExtentsMismatch(t *testing.T) {
	cl := fixture(t)
	p := validPlacement()
	p.Disks[0].Primary[0].Extents = 50

	_, err := NewConfiguration(cl, []DomUPlacement{p})
	assert.ErrorIs(t, err, ErrExtentsMismatch)
}

func TestNewConfiguration_CrossHostVolume(t *testing.T) {
	cl := fixture(t)
	p := validPlacement()
	p.Disks[0].Primary[0].PhysicalVolume.Dom0Hostname = "dom0b"

	_, err := NewConfiguration(cl, []DomUPlacement{p})
	assert.ErrorIs(t, err, ErrCrossHostVolume)
}

func TestConfiguration_With(t *testing.T) {
	cl := fixture(t)
	cfg, err := NewConfiguration(cl, []DomUPlacement{validPlacement()})
	require.NoError(t, err)

	next, err := cfg.With("domU1", func(p DomUPlacement) DomUPlacement {
		disks := make([]DomUDiskPlacement, len(p.Disks))
		for i, d := range p.Disks {
			disks[i] = DomUDiskPlacement{
				Disk:      d.Disk,
				Primary:   []PhysicalVolumeConfiguration{{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0b", Device: "sdb"}, Extents: d.Disk.Extents}},
				Secondary: []PhysicalVolumeConfiguration{{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0a", Device: "sda"}, Extents: d.Disk.Extents}},
			}
		}
		return DomUPlacement{
			DomU:      p.DomU,
			Primary:   cluster.Dom0{Hostname: "dom0b"},
			Secondary: &cluster.Dom0{Hostname: "dom0a"},
			Disks:     disks,
		}
	})
	require.NoError(t, err)

	p, ok := next.PlacementFor("domU1")
	require.True(t, ok)
	assert.Equal(t, "dom0b", p.Primary.Hostname)
	assert.False(t, cfg.Equal(next))
}

func TestConfiguration_FingerprintStableUnderVolumeOrder(t *testing.T) {
	cl := fixture(t)
	p1 := validPlacement()
	p1.Disks[0].Primary = []PhysicalVolumeConfiguration{
		{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0a", Device: "sda"}, Extents: 40},
		{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0a", Device: "sda"}, Extents: 60},
	}
	p2 := validPlacement()
	p2.Disks[0].Primary = []PhysicalVolumeConfiguration{
		{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0a", Device: "sda"}, Extents: 60},
		{PhysicalVolume: PhysicalVolume{Dom0Hostname: "dom0a", Device: "sda"}, Extents: 40},
	}

	cfg1, err := NewConfiguration(cl, []DomUPlacement{p1})
	require.NoError(t, err)
	cfg2, err := NewConfiguration(cl, []DomUPlacement{p2})
	require.NoError(t, err)

	assert.True(t, cfg1.Equal(cfg2))
	assert.Equal(t, cfg1.Fingerprint(), cfg2.Fingerprint())
}
