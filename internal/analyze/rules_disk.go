package analyze

import (
	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
)

// availableDiskWeight is rule 9: free allocation weight on a single
// Dom0Disk. A DomUDisk that places more than one physical volume on this
// disk is counted at most once -- the rule is "weight per DomUDisk placed
// on this disk", not per physical volume, and the first matching volume
// found ends the search for that DomUDisk. Maximum severity is MEDIUM.
func (a *Analyzer) availableDiskWeight(dom0 cluster.Dom0, disk cluster.Dom0Disk, minLevel AlertLevel, sink Sink) bool {
	if minLevel > AlertLevelMedium {
		return true
	}

	allocated := 0
	for _, p := range a.config.Placements() {
		var volumesByDisk func(placement.DomUDiskPlacement) []placement.PhysicalVolumeConfiguration
		switch {
		case p.Primary.Equal(dom0):
			volumesByDisk = func(d placement.DomUDiskPlacement) []placement.PhysicalVolumeConfiguration { return d.Primary }
		case p.Secondary != nil && p.Secondary.Equal(dom0):
			volumesByDisk = func(d placement.DomUDiskPlacement) []placement.PhysicalVolumeConfiguration { return d.Secondary }
		default:
			continue
		}

		for _, d := range p.Disks {
			for _, v := range volumesByDisk(d) {
				if v.PhysicalVolume.Device == disk.Device {
					allocated += d.Disk.Weight
					break
				}
			}
		}
	}

	free := 1024 - allocated
	level := AlertLevelNone
	if free < 0 {
		level = AlertLevelMedium
	}
	if level < minLevel {
		return true
	}

	return sink.Accept(Result{
		Label:     "Available Weight",
		Deviation: -float64(free) / 1024,
		Level:     level,
		Value:     free,
	})
}

// diskSpeed is rule 10: for each DomUDisk with any physical volume on this
// disk, MEDIUM when the disk is too slow for extents placed here. Maximum
// severity is MEDIUM.
func (a *Analyzer) diskSpeed(dom0 cluster.Dom0, disk cluster.Dom0Disk, minLevel AlertLevel, sink Sink) bool {
	if minLevel > AlertLevelMedium {
		return true
	}

	for _, p := range a.config.Placements() {
		var isPrimary bool
		switch {
		case p.Primary.Equal(dom0):
			isPrimary = true
		case p.Secondary != nil && p.Secondary.Equal(dom0):
			isPrimary = false
		default:
			continue
		}

		for _, d := range p.Disks {
			volumes := d.Secondary
			if isPrimary {
				volumes = d.Primary
			}

			tooSlowExtents := 0
			found := false
			for _, v := range volumes {
				if v.PhysicalVolume.Device != disk.Device {
					continue
				}
				found = true
				if d.Disk.MinimumDiskSpeed == cluster.NoLimit {
					break
				}
				if disk.DiskSpeed < d.Disk.MinimumDiskSpeed {
					tooSlowExtents += v.Extents
				}
			}
			if !found {
				continue
			}

			level := AlertLevelNone
			if d.Disk.MinimumDiskSpeed != cluster.NoLimit && tooSlowExtents > 0 {
				level = AlertLevelMedium
			}
			if level < minLevel {
				continue
			}

			var value any
			if d.Disk.MinimumDiskSpeed != cluster.NoLimit {
				value = d.Disk.MinimumDiskSpeed
			}
			if !sink.Accept(Result{
				Label:     p.DomU.Hostname + ":" + d.Disk.Device,
				Deviation: float64(tooSlowExtents) / float64(d.Disk.Extents),
				Level:     level,
				Value:     value,
			}) {
				return false
			}
		}
	}
	return true
}
