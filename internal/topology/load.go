package topology

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
)

// Load reads topology.yaml and placement.yaml out of dir, the same
// merge-several-named-documents-under-a-directory approach as the rest of
// this kind of tool's config loading, and builds a validated Cluster and
// the Configuration placing it.
func Load(dir string) (*cluster.Cluster, *placement.Configuration, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")

	for _, name := range []string{"topology", "placement"} {
		v.SetConfigName(name)
		if err := v.MergeInConfig(); err != nil {
			return nil, nil, fmt.Errorf("topology: failed to read %s.yaml: %w", name, err)
		}
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		stringToProcessorTypeHookFunc(),
		stringToProcessorArchitectureHookFunc(),
	))

	var topo topologyDocument
	if err := v.Unmarshal(&topo, decodeHook); err != nil {
		return nil, nil, fmt.Errorf("topology: failed to decode topology document: %w", err)
	}

	var placementDoc placementDocument
	if err := v.Unmarshal(&placementDoc, decodeHook); err != nil {
		return nil, nil, fmt.Errorf("topology: failed to decode placement document: %w", err)
	}

	cl, err := buildCluster(topo)
	if err != nil {
		return nil, nil, fmt.Errorf("topology: failed to build cluster: %w", err)
	}

	cfg, err := buildConfiguration(cl, placementDoc)
	if err != nil {
		return nil, nil, fmt.Errorf("topology: failed to build placement: %w", err)
	}

	return cl, cfg, nil
}

func buildCluster(doc topologyDocument) (*cluster.Cluster, error) {
	dom0s := make([]cluster.Dom0, len(doc.Dom0s))
	for i, d := range doc.Dom0s {
		disks := lo.Map(d.Disks, func(disk dom0DiskDocument, _ int) cluster.Dom0Disk {
			return cluster.Dom0Disk{Device: disk.Device, DiskSpeed: disk.DiskSpeed}
		})
		dom0, err := cluster.NewDom0(doc.Cluster, d.Hostname, d.RAM, d.ProcessorType, d.ProcessorArchitecture, d.ProcessorSpeed, d.ProcessorCores, d.SupportsHVM, disks)
		if err != nil {
			return nil, fmt.Errorf("dom0 %q: %w", d.Hostname, err)
		}
		dom0s[i] = dom0
	}

	domUs := make([]cluster.DomU, len(doc.DomUs))
	for i, d := range doc.DomUs {
		disks := lo.Map(d.Disks, func(disk domUDiskDocument, _ int) cluster.DomUDisk {
			return cluster.DomUDisk{
				Device:           disk.Device,
				Extents:          disk.Extents,
				MinimumDiskSpeed: disk.MinimumDiskSpeed,
				Weight:           disk.Weight,
			}
		})

		var minType *cluster.ProcessorType
		if d.MinimumProcessorType != "" {
			t, err := cluster.ParseProcessorType(d.MinimumProcessorType)
			if err != nil {
				return nil, fmt.Errorf("domU %q: %w", d.Hostname, err)
			}
			minType = &t
		}

		domU, err := cluster.NewDomU(doc.Cluster, d.Hostname, d.PrimaryRAM, d.SecondaryRAM, d.ProcessorCores, d.ProcessorWeight, minType, d.MinimumProcessorArchitecture, d.MinimumProcessorSpeed, d.RequiresHVM, disks)
		if err != nil {
			return nil, fmt.Errorf("domU %q: %w", d.Hostname, err)
		}
		domUs[i] = domU
	}

	return cluster.New(doc.Cluster, dom0s, domUs)
}

func buildConfiguration(cl *cluster.Cluster, doc placementDocument) (*placement.Configuration, error) {
	placements := make([]placement.DomUPlacement, len(doc.Placements))
	for i, p := range doc.Placements {
		domU, ok := cl.DomUByHostname(p.DomUHostname)
		if !ok {
			return nil, fmt.Errorf("%w: %q", placement.ErrUnknownDomU, p.DomUHostname)
		}

		var secondary *cluster.Dom0
		if p.SecondaryHostname != "" {
			secondary = &cluster.Dom0{Hostname: p.SecondaryHostname}
		}

		disks := make([]placement.DomUDiskPlacement, len(p.Disks))
		for j, d := range p.Disks {
			disk, ok := domU.Disk(d.Device)
			if !ok {
				return nil, fmt.Errorf("%w: %q:%q", placement.ErrUnknownDomUDisk, p.DomUHostname, d.Device)
			}
			disks[j] = placement.DomUDiskPlacement{
				Disk:      disk,
				Primary:   buildVolumes(d.Primary),
				Secondary: buildVolumes(d.Secondary),
			}
		}

		placements[i] = placement.DomUPlacement{
			DomU:      domU,
			Primary:   cluster.Dom0{Hostname: p.PrimaryHostname},
			Secondary: secondary,
			Disks:     disks,
		}
	}

	return placement.NewConfiguration(cl, placements)
}

func buildVolumes(docs []physicalVolumeDocument) []placement.PhysicalVolumeConfiguration {
	return lo.Map(docs, func(v physicalVolumeDocument, _ int) placement.PhysicalVolumeConfiguration {
		return placement.PhysicalVolumeConfiguration{
			PhysicalVolume: placement.PhysicalVolume{Dom0Hostname: v.Dom0Hostname, Device: v.Device},
			Extents:        v.Extents,
		}
	})
}
