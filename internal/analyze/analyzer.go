package analyze

import (
	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
)

// Analyzer evaluates a single Configuration against the cluster it places.
// It holds no mutable state and performs no I/O: the same (cluster,
// configuration, floor) always produces the same Result sequence, in the
// same order, and two Analyzers may run concurrently over the same or
// different configurations as long as each uses its own sink.
type Analyzer struct {
	cluster *cluster.Cluster
	config  *placement.Configuration
}

// New builds an Analyzer for cfg against cl.
func New(cl *cluster.Cluster, cfg *placement.Configuration) *Analyzer {
	return &Analyzer{cluster: cl, config: cfg}
}

// Analyze drives every rule in its fixed order (per Dom0: rules 1-8 in the
// order below, then per Dom0Disk: weight then speed) until sink.Accept
// returns false or every rule has run. minLevel is a performance contract
// as much as a filter: a rule whose maximum possible severity is strictly
// below minLevel is skipped without doing any work.
func (a *Analyzer) Analyze(minLevel AlertLevel, sink Sink) {
	for _, dom0 := range a.cluster.Dom0s() {
		if !a.analyzeDom0(dom0, minLevel, sink) {
			return
		}
	}
}

func (a *Analyzer) analyzeDom0(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	if !a.availableRAM(dom0, minLevel, sink) {
		return false
	}
	if !a.allocatedSecondaryRAM(dom0, minLevel, sink) {
		return false
	}
	if !a.processorType(dom0, minLevel, sink) {
		return false
	}
	if !a.processorArchitecture(dom0, minLevel, sink) {
		return false
	}
	if !a.processorSpeed(dom0, minLevel, sink) {
		return false
	}
	if !a.processorCores(dom0, minLevel, sink) {
		return false
	}
	if !a.availableProcessorWeight(dom0, minLevel, sink) {
		return false
	}
	if !a.requiresHVM(dom0, minLevel, sink) {
		return false
	}

	// The highest alert level any disk rule can produce is MEDIUM; avoid
	// walking the disk list at all once the floor has risen past HIGH.
	if minLevel > AlertLevelHigh {
		return true
	}
	for _, disk := range dom0.Disks() {
		if !a.availableDiskWeight(dom0, disk, minLevel, sink) {
			return false
		}
		if !a.diskSpeed(dom0, disk, minLevel, sink) {
			return false
		}
	}
	return true
}

// IsOptimal reports whether cfg has no rule violation at severity above
// NONE when evaluated at the LOW floor -- the definition of an optimal
// configuration.
func IsOptimal(cl *cluster.Cluster, cfg *placement.Configuration) bool {
	return IsOptimalAt(cl, cfg, AlertLevelLow)
}

// IsOptimalAt is the generalized goal test: no violation at or above floor
// exists. A NONE result is never a violation, so floors NONE and LOW give
// the same answer as IsOptimal; callers may raise the search driver's floor
// via optimize.Options.
func IsOptimalAt(cl *cluster.Cluster, cfg *placement.Configuration, floor AlertLevel) bool {
	found := false
	New(cl, cfg).Analyze(floor, SinkFunc(func(r Result) bool {
		if r.Level != AlertLevelNone {
			found = true
			return false
		}
		return true
	}))
	return !found
}
