package placement

import (
	"fmt"

	"github.com/clustercore/domuopt/internal/cluster"
)

// Configuration is a fully-assigned, immutable placement of every guest in
// a Cluster. New Configurations are produced only by NewConfiguration and by
// the move generator's moves; nothing ever mutates one in place.
type Configuration struct {
	cluster    *cluster.Cluster
	placements []DomUPlacement
	byHostname map[string]int
}

// NewConfiguration validates placements against cl's topology and, on
// success, returns an immutable Configuration holding the canonical
// (cluster-resolved) copies of every referenced Dom0, DomU and DomUDisk.
// Physical volumes are checked against the cluster's Dom0Disks and kept as
// the (hostname, device) pairs they were given.
// Every invariant in the topology's data model is checked here, once, so
// that nothing downstream needs to re-derive them.
func NewConfiguration(cl *cluster.Cluster, placements []DomUPlacement) (*Configuration, error) {
	byHostname := make(map[string]int, len(placements))
	resolved := make([]DomUPlacement, len(placements))

	for i, p := range placements {
		domU, ok := cl.DomUByHostname(p.DomU.Hostname)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDomU, p.DomU.Hostname)
		}
		if _, exists := byHostname[domU.Hostname]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePlacement, domU.Hostname)
		}

		primary, ok := cl.Dom0ByHostname(p.Primary.Hostname)
		if !ok {
			return nil, fmt.Errorf("%w: %q (primary for %q)", ErrUnknownDom0, p.Primary.Hostname, domU.Hostname)
		}

		var secondary *cluster.Dom0
		if p.Secondary != nil {
			s, ok := cl.Dom0ByHostname(p.Secondary.Hostname)
			if !ok {
				return nil, fmt.Errorf("%w: %q (secondary for %q)", ErrUnknownDom0, p.Secondary.Hostname, domU.Hostname)
			}
			if s.Hostname == primary.Hostname {
				return nil, fmt.Errorf("%w: %q", ErrPrimaryEqualsSecondary, domU.Hostname)
			}
			secondary = &s
		}

		if domU.HasFailoverReservation() && secondary == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingSecondary, domU.Hostname)
		}

		disks, err := resolveDiskPlacements(cl, domU, primary, secondary, p.Disks)
		if err != nil {
			return nil, err
		}

		resolved[i] = DomUPlacement{
			DomU:      domU,
			Primary:   primary,
			Secondary: secondary,
			Disks:     disks,
		}
		byHostname[domU.Hostname] = i
	}

	// Every DomU in the cluster must have exactly one placement; the loop
	// above already rejects duplicates, so here we only need to check for
	// omissions and reorder into canonical (cluster) order.
	ordered := make([]DomUPlacement, len(cl.DomUs()))
	orderedByHostname := make(map[string]int, len(ordered))
	for i, domU := range cl.DomUs() {
		idx, ok := byHostname[domU.Hostname]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingPlacement, domU.Hostname)
		}
		ordered[i] = resolved[idx]
		orderedByHostname[domU.Hostname] = i
	}

	return &Configuration{cluster: cl, placements: ordered, byHostname: orderedByHostname}, nil
}

func resolveDiskPlacements(cl *cluster.Cluster, domU cluster.DomU, primary cluster.Dom0, secondary *cluster.Dom0, disks []DomUDiskPlacement) ([]DomUDiskPlacement, error) {
	byDevice := make(map[string]DomUDiskPlacement, len(disks))
	for _, d := range disks {
		byDevice[d.Disk.Device] = d
	}

	resolved := make([]DomUDiskPlacement, len(domU.Disks()))
	for i, declared := range domU.Disks() {
		d, ok := byDevice[declared.Device]
		if !ok {
			return nil, fmt.Errorf("%w: %q:%q", ErrUnknownDomUDisk, domU.Hostname, declared.Device)
		}

		primaryVolumes, err := resolveVolumes(cl, primary.Hostname, d.Primary)
		if err != nil {
			return nil, fmt.Errorf("%s:%s primary: %w", domU.Hostname, declared.Device, err)
		}
		if sum := sumExtents(primaryVolumes); sum != declared.Extents {
			return nil, fmt.Errorf("%w: %s:%s primary has %d, disk has %d", ErrExtentsMismatch, domU.Hostname, declared.Device, sum, declared.Extents)
		}

		var secondaryVolumes []PhysicalVolumeConfiguration
		if secondary != nil {
			secondaryVolumes, err = resolveVolumes(cl, secondary.Hostname, d.Secondary)
			if err != nil {
				return nil, fmt.Errorf("%s:%s secondary: %w", domU.Hostname, declared.Device, err)
			}
			if sum := sumExtents(secondaryVolumes); sum != declared.Extents {
				return nil, fmt.Errorf("%w: %s:%s secondary has %d, disk has %d", ErrExtentsMismatch, domU.Hostname, declared.Device, sum, declared.Extents)
			}
		} else if len(d.Secondary) != 0 {
			return nil, fmt.Errorf("%w: %s:%s", ErrUnexpectedSecondary, domU.Hostname, declared.Device)
		}

		resolved[i] = DomUDiskPlacement{Disk: declared, Primary: primaryVolumes, Secondary: secondaryVolumes}
	}

	return resolved, nil
}

func resolveVolumes(cl *cluster.Cluster, hostHostname string, volumes []PhysicalVolumeConfiguration) ([]PhysicalVolumeConfiguration, error) {
	resolved := make([]PhysicalVolumeConfiguration, len(volumes))
	for i, v := range volumes {
		if v.PhysicalVolume.Dom0Hostname != hostHostname {
			return nil, fmt.Errorf("%w: volume on %q, role assigned to %q", ErrCrossHostVolume, v.PhysicalVolume.Dom0Hostname, hostHostname)
		}
		if _, ok := cl.Dom0Disk(v.PhysicalVolume.Dom0Hostname, v.PhysicalVolume.Device); !ok {
			return nil, fmt.Errorf("%w: %q:%q", ErrUnknownDom0Disk, v.PhysicalVolume.Dom0Hostname, v.PhysicalVolume.Device)
		}
		resolved[i] = v
	}
	return resolved, nil
}

func sumExtents(volumes []PhysicalVolumeConfiguration) int {
	total := 0
	for _, v := range volumes {
		total += v.Extents
	}
	return total
}

// Cluster returns the topology this configuration places.
func (c *Configuration) Cluster() *cluster.Cluster {
	return c.cluster
}

// Placements returns every guest's placement, in the cluster's declared
// DomU order, which is also the order the analyzer and the fingerprint use.
func (c *Configuration) Placements() []DomUPlacement {
	return c.placements
}

// PlacementFor looks up a single guest's placement by hostname.
func (c *Configuration) PlacementFor(hostname string) (DomUPlacement, bool) {
	i, ok := c.byHostname[hostname]
	if !ok {
		return DomUPlacement{}, false
	}
	return c.placements[i], true
}

// With returns a new Configuration identical to c except that hostname's
// placement has been replaced by the result of mutate. It is the building
// block every move uses to produce a successor; the result is re-validated
// against c's topology, so a move can never escape the structural
// invariants by construction.
func (c *Configuration) With(hostname string, mutate func(DomUPlacement) DomUPlacement) (*Configuration, error) {
	current, ok := c.PlacementFor(hostname)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomU, hostname)
	}

	next := make([]DomUPlacement, len(c.placements))
	copy(next, c.placements)
	for i, p := range next {
		if p.DomU.Hostname == hostname {
			next[i] = mutate(current)
			break
		}
	}

	return NewConfiguration(c.cluster, next)
}
