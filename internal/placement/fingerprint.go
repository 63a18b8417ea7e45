package placement

import (
	"fmt"
	"sort"
	"strings"
)

// Fingerprint returns a canonical encoding of the full placement tuple:
// every guest's primary/secondary host and every disk's physical-volume
// assignments. Two Configurations with the same Fingerprint are, by
// definition, the same placement, regardless of the order moves discovered
// the physical volumes in. This is what the search driver's closed set
// hashes on, so it must be stable across runs given identical inputs.
func (c *Configuration) Fingerprint() string {
	var b strings.Builder

	for _, p := range c.placements {
		b.WriteString(p.DomU.Hostname)
		b.WriteByte('|')
		b.WriteString(p.Primary.Hostname)
		b.WriteByte('|')
		if p.Secondary != nil {
			b.WriteString(p.Secondary.Hostname)
		} else {
			b.WriteByte('-')
		}
		for _, d := range p.Disks {
			b.WriteByte('|')
			b.WriteString(d.Disk.Device)
			b.WriteByte('=')
			writeVolumes(&b, d.Primary)
			b.WriteByte('/')
			writeVolumes(&b, d.Secondary)
		}
		b.WriteByte(';')
	}

	return b.String()
}

func writeVolumes(b *strings.Builder, volumes []PhysicalVolumeConfiguration) {
	sorted := make([]PhysicalVolumeConfiguration, len(volumes))
	copy(sorted, volumes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PhysicalVolume.Dom0Hostname != sorted[j].PhysicalVolume.Dom0Hostname {
			return sorted[i].PhysicalVolume.Dom0Hostname < sorted[j].PhysicalVolume.Dom0Hostname
		}
		if sorted[i].PhysicalVolume.Device != sorted[j].PhysicalVolume.Device {
			return sorted[i].PhysicalVolume.Device < sorted[j].PhysicalVolume.Device
		}
		return sorted[i].Extents < sorted[j].Extents
	})
	for i, v := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%s:%s:%d", v.PhysicalVolume.Dom0Hostname, v.PhysicalVolume.Device, v.Extents)
	}
}

// Equal reports whether two Configurations describe the same placement
// tuple, independent of object identity or physical-volume ordering.
func (c *Configuration) Equal(other *Configuration) bool {
	if other == nil {
		return false
	}
	return c.Fingerprint() == other.Fingerprint()
}
