// Package topology loads a cluster's physical layout and a placement of its
// guests from YAML documents on disk: viper merges named documents
// under a directory, mapstructure decodes them into plain DTOs (with a
// couple of hooks to turn the topology's string enums into their typed
// form along the way), and a small build step turns the DTOs into
// cluster.Cluster and placement.Configuration, the types the rest of the
// program actually uses.
package topology

import "github.com/clustercore/domuopt/internal/cluster"

// dom0DiskDocument is one physical disk entry under a dom0 in the topology
// document.
type dom0DiskDocument struct {
	Device    string `mapstructure:"device"`
	DiskSpeed int    `mapstructure:"disk_speed"`
}

// dom0Document is one Dom0 host entry in the topology document.
type dom0Document struct {
	Hostname              string                       `mapstructure:"hostname"`
	RAM                   int                          `mapstructure:"ram"`
	ProcessorType         cluster.ProcessorType         `mapstructure:"processor_type"`
	ProcessorArchitecture cluster.ProcessorArchitecture `mapstructure:"processor_architecture"`
	ProcessorSpeed        int                          `mapstructure:"processor_speed"`
	ProcessorCores        int                          `mapstructure:"processor_cores"`
	SupportsHVM           bool                         `mapstructure:"supports_hvm"`
	Disks                 []dom0DiskDocument           `mapstructure:"disks"`
}

// domUDiskDocument is one logical disk entry under a domU in the topology
// document.
type domUDiskDocument struct {
	Device           string `mapstructure:"device"`
	Extents          int    `mapstructure:"extents"`
	MinimumDiskSpeed int    `mapstructure:"minimum_disk_speed"`
	Weight           int    `mapstructure:"weight"`
}

// domUDocument is one DomU guest entry in the topology document.
// MinimumProcessorType is a string, not a cluster.ProcessorType: it is
// optional, and the empty string means "no minimum" rather than any
// particular processor generation.
type domUDocument struct {
	Hostname                     string                        `mapstructure:"hostname"`
	PrimaryRAM                   int                           `mapstructure:"primary_ram"`
	SecondaryRAM                 int                           `mapstructure:"secondary_ram"`
	ProcessorCores               int                           `mapstructure:"processor_cores"`
	ProcessorWeight              int                           `mapstructure:"processor_weight"`
	MinimumProcessorType         string                        `mapstructure:"minimum_processor_type"`
	MinimumProcessorArchitecture cluster.ProcessorArchitecture `mapstructure:"minimum_processor_architecture"`
	MinimumProcessorSpeed        int                           `mapstructure:"minimum_processor_speed"`
	RequiresHVM                  bool                          `mapstructure:"requires_hvm"`
	Disks                        []domUDiskDocument            `mapstructure:"disks"`
}

// topologyDocument is the top-level shape of the topology YAML document:
// the cluster's name, its hosts, and its guests.
type topologyDocument struct {
	Cluster string         `mapstructure:"cluster"`
	Dom0s   []dom0Document `mapstructure:"dom0s"`
	DomUs   []domUDocument `mapstructure:"domus"`
}

// physicalVolumeDocument is one physical-volume entry in the placement
// document, naming a Dom0Disk and how many extents of a DomUDisk land on it.
type physicalVolumeDocument struct {
	Dom0Hostname string `mapstructure:"dom0_hostname"`
	Device       string `mapstructure:"device"`
	Extents      int    `mapstructure:"extents"`
}

// diskPlacementDocument is one DomUDisk's primary and secondary
// physical-volume layout in the placement document.
type diskPlacementDocument struct {
	Device    string                    `mapstructure:"device"`
	Primary   []physicalVolumeDocument `mapstructure:"primary"`
	Secondary []physicalVolumeDocument `mapstructure:"secondary"`
}

// domUPlacementDocument is one guest's full placement in the placement
// document: its primary and (optional) secondary host and its disks.
type domUPlacementDocument struct {
	DomUHostname      string                  `mapstructure:"domu_hostname"`
	PrimaryHostname   string                  `mapstructure:"primary_hostname"`
	SecondaryHostname string                  `mapstructure:"secondary_hostname"`
	Disks             []diskPlacementDocument `mapstructure:"disks"`
}

// placementDocument is the top-level shape of the placement YAML document.
type placementDocument struct {
	Placements []domUPlacementDocument `mapstructure:"placements"`
}
