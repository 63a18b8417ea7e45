// Package placement models a concrete assignment of guests to hosts: the
// Configuration that the analyzer scores and the search driver rewrites one
// move at a time. Every Configuration is immutable once constructed and is
// validated against the structural invariants of the topology it places.
package placement

import "github.com/clustercore/domuopt/internal/cluster"

// PhysicalVolume names the location a DomUDisk's extents are drawn from: a
// specific device on a specific Dom0.
type PhysicalVolume struct {
	Dom0Hostname string
	Device       string
}

// PhysicalVolumeConfiguration is a slice of a DomUDisk's extents living on
// one PhysicalVolume.
type PhysicalVolumeConfiguration struct {
	PhysicalVolume PhysicalVolume
	Extents        int
}

// DomUDiskPlacement is the primary and secondary physical-volume layout for
// one of a guest's disks.
type DomUDiskPlacement struct {
	Disk      cluster.DomUDisk
	Primary   []PhysicalVolumeConfiguration
	Secondary []PhysicalVolumeConfiguration
}

// DomUPlacement is where one guest currently lives: its primary host, its
// optional failover host, and the physical-volume layout of each of its
// disks.
type DomUPlacement struct {
	DomU      cluster.DomU
	Primary   cluster.Dom0
	Secondary *cluster.Dom0
	Disks     []DomUDiskPlacement
}

// HasSecondary reports whether this guest currently has a failover host
// assigned.
func (p DomUPlacement) HasSecondary() bool {
	return p.Secondary != nil
}
