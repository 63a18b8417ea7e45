package optimize

import (
	"errors"
	"fmt"

	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
)

// ErrNoSecondary is returned by a move that requires a failover host when
// the target guest currently has none.
var ErrNoSecondary = errors.New("optimize: domU has no secondary dom0 to move")

// Move produces a new Configuration from a current one by a single legal
// transition. Every successor Apply returns, if any, still satisfies the
// structural invariants of the topology -- Configuration.With re-validates
// it, so a move can never escape them by construction.
type Move interface {
	fmt.Stringer
	Apply(cl *cluster.Cluster, cfg *placement.Configuration) (*placement.Configuration, error)
}

// SwapPrimarySecondary exchanges a guest's primary and secondary Dom0 (and,
// with them, each disk's primary and secondary physical-volume layout).
type SwapPrimarySecondary struct {
	DomUHostname string
}

func (m SwapPrimarySecondary) String() string {
	return fmt.Sprintf("swap primary/secondary for %s", m.DomUHostname)
}

// Apply implements Move.
func (m SwapPrimarySecondary) Apply(cl *cluster.Cluster, cfg *placement.Configuration) (*placement.Configuration, error) {
	if p, ok := cfg.PlacementFor(m.DomUHostname); !ok || !p.HasSecondary() {
		return nil, ErrNoSecondary
	}
	return cfg.With(m.DomUHostname, func(p placement.DomUPlacement) placement.DomUPlacement {
		newPrimary := cluster.Dom0{Hostname: p.Secondary.Hostname}
		newSecondary := cluster.Dom0{Hostname: p.Primary.Hostname}
		disks := make([]placement.DomUDiskPlacement, len(p.Disks))
		for i, d := range p.Disks {
			disks[i] = placement.DomUDiskPlacement{Disk: d.Disk, Primary: d.Secondary, Secondary: d.Primary}
		}
		return placement.DomUPlacement{DomU: p.DomU, Primary: newPrimary, Secondary: &newSecondary, Disks: disks}
	})
}

// ReassignSecondary moves a guest's failover host to a different Dom0,
// relocating every disk's secondary physical volumes onto the new host's
// first declared disk as a single extent range.
type ReassignSecondary struct {
	DomUHostname     string
	NewSecondaryHost string
}

func (m ReassignSecondary) String() string {
	return fmt.Sprintf("reassign secondary of %s to %s", m.DomUHostname, m.NewSecondaryHost)
}

// Apply implements Move.
func (m ReassignSecondary) Apply(cl *cluster.Cluster, cfg *placement.Configuration) (*placement.Configuration, error) {
	target, ok := cl.Dom0ByHostname(m.NewSecondaryHost)
	if !ok || len(target.Disks()) == 0 {
		return nil, fmt.Errorf("optimize: %s has no disk to host a secondary volume", m.NewSecondaryHost)
	}
	landingDisk := target.Disks()[0]

	return cfg.With(m.DomUHostname, func(p placement.DomUPlacement) placement.DomUPlacement {
		disks := make([]placement.DomUDiskPlacement, len(p.Disks))
		for i, d := range p.Disks {
			disks[i] = placement.DomUDiskPlacement{
				Disk:    d.Disk,
				Primary: d.Primary,
				Secondary: []placement.PhysicalVolumeConfiguration{{
					PhysicalVolume: placement.PhysicalVolume{Dom0Hostname: m.NewSecondaryHost, Device: landingDisk.Device},
					Extents:        d.Disk.Extents,
				}},
			}
		}
		return placement.DomUPlacement{
			DomU:      p.DomU,
			Primary:   p.Primary,
			Secondary: &cluster.Dom0{Hostname: m.NewSecondaryHost},
			Disks:     disks,
		}
	})
}

// MigrateSecondaryDisk relocates a single DomUDisk's secondary
// physical-volume layout to a different Dom0Disk on the same secondary
// host, collapsing it to one extent range on the new device.
type MigrateSecondaryDisk struct {
	DomUHostname string
	Device       string
	NewDevice    string
}

func (m MigrateSecondaryDisk) String() string {
	return fmt.Sprintf("migrate secondary volume of %s:%s to %s", m.DomUHostname, m.Device, m.NewDevice)
}

// Apply implements Move.
func (m MigrateSecondaryDisk) Apply(cl *cluster.Cluster, cfg *placement.Configuration) (*placement.Configuration, error) {
	if p, ok := cfg.PlacementFor(m.DomUHostname); !ok || !p.HasSecondary() {
		return nil, ErrNoSecondary
	}
	return cfg.With(m.DomUHostname, func(p placement.DomUPlacement) placement.DomUPlacement {
		disks := make([]placement.DomUDiskPlacement, len(p.Disks))
		for i, d := range p.Disks {
			if d.Disk.Device != m.Device {
				disks[i] = d
				continue
			}
			disks[i] = placement.DomUDiskPlacement{
				Disk:    d.Disk,
				Primary: d.Primary,
				Secondary: []placement.PhysicalVolumeConfiguration{{
					PhysicalVolume: placement.PhysicalVolume{Dom0Hostname: p.Secondary.Hostname, Device: m.NewDevice},
					Extents:        d.Disk.Extents,
				}},
			}
		}
		return placement.DomUPlacement{DomU: p.DomU, Primary: p.Primary, Secondary: p.Secondary, Disks: disks}
	})
}

// Generate enumerates every legal single-step move out of cfg, in a fixed
// order: for each guest in the cluster's declared order that currently has
// a secondary (a guest without one contributes no moves), a primary/secondary
// swap, then a secondary reassignment to every other eligible Dom0, then a
// secondary-disk migration for every disk whose secondary volume is a single
// extent range. Successor generation is intentionally narrow -- see
// DESIGN.md -- but
// deterministic: identical inputs always produce the same ordered move
// list, which is what makes A*'s tie-breaking reproducible.
func Generate(cl *cluster.Cluster, cfg *placement.Configuration) []Move {
	var moves []Move

	for _, domU := range cl.DomUs() {
		p, ok := cfg.PlacementFor(domU.Hostname)
		if !ok || !p.HasSecondary() {
			continue
		}

		moves = append(moves, SwapPrimarySecondary{DomUHostname: domU.Hostname})

		for _, candidate := range cl.Dom0s() {
			if candidate.Hostname == p.Primary.Hostname || candidate.Hostname == p.Secondary.Hostname {
				continue
			}
			if len(candidate.Disks()) == 0 {
				continue
			}
			moves = append(moves, ReassignSecondary{DomUHostname: domU.Hostname, NewSecondaryHost: candidate.Hostname})
		}

		secondaryHost, _ := cl.Dom0ByHostname(p.Secondary.Hostname)
		for _, d := range p.Disks {
			if len(d.Secondary) != 1 {
				continue
			}
			currentDevice := d.Secondary[0].PhysicalVolume.Device
			for _, disk := range secondaryHost.Disks() {
				if disk.Device == currentDevice {
					continue
				}
				moves = append(moves, MigrateSecondaryDisk{DomUHostname: domU.Hostname, Device: d.Disk.Device, NewDevice: disk.Device})
			}
		}
	}

	return moves
}
