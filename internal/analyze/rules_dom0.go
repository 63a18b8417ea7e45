package analyze

import (
	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
)

// availableRAM is rule 1: free primary RAM on dom0. Its maximum severity is
// CRITICAL, so it is always evaluated regardless of the floor.
func (a *Analyzer) availableRAM(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	allocated := 0
	for _, p := range a.config.Placements() {
		if p.Primary.Equal(dom0) {
			allocated += p.DomU.PrimaryRAM
		}
	}

	free := dom0.RAM - allocated
	level := AlertLevelNone
	if free < 0 {
		level = AlertLevelCritical
	}
	if level < minLevel {
		return true
	}

	return sink.Accept(Result{
		Label:     "Available RAM",
		Deviation: -float64(free) / float64(dom0.RAM),
		Level:     level,
		Value:     free,
	})
}

// allocatedSecondaryRAM is rule 2: for each other Dom0 that has guests
// secondaried here with a failover reservation, can this host actually
// absorb that origin host's load if it fails? Maximum severity is HIGH.
func (a *Analyzer) allocatedSecondaryRAM(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	if minLevel > AlertLevelHigh {
		return true
	}

	allocatedPrimary := 0
	var originHosts []string
	secondaryByOrigin := make(map[string]int)
	for _, p := range a.config.Placements() {
		if p.Primary.Equal(dom0) {
			allocatedPrimary += p.DomU.PrimaryRAM
			continue
		}
		if p.Secondary != nil && p.Secondary.Equal(dom0) && p.DomU.HasFailoverReservation() {
			origin := p.Primary.Hostname
			if _, seen := secondaryByOrigin[origin]; !seen {
				originHosts = append(originHosts, origin)
			}
			secondaryByOrigin[origin] += p.DomU.SecondaryRAM
		}
	}

	freePrimary := dom0.RAM - allocatedPrimary

	for _, origin := range originHosts {
		allocatedSecondary := secondaryByOrigin[origin]
		level := AlertLevelNone
		if allocatedSecondary > freePrimary {
			level = AlertLevelHigh
		}
		if level < minLevel {
			continue
		}
		if !sink.Accept(Result{
			Label:     origin,
			Deviation: float64(allocatedSecondary-freePrimary) / float64(dom0.RAM),
			Level:     level,
			Value:     allocatedSecondary,
		}) {
			return false
		}
	}
	return true
}

// processorType is rule 3: LOW when a primary-or-secondary guest's minimum
// processor type exceeds this host's. Maximum severity is LOW.
func (a *Analyzer) processorType(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	if minLevel > AlertLevelLow {
		return true
	}

	for _, p := range a.config.Placements() {
		if !hostedHere(p, dom0) {
			continue
		}
		minType := p.DomU.MinimumProcessorType
		level := AlertLevelNone
		if minType != nil && dom0.ProcessorType < *minType {
			level = AlertLevelLow
		}
		if level < minLevel {
			continue
		}
		var value any
		if minType != nil {
			value = *minType
		}
		if !sink.Accept(Result{
			Label:     p.DomU.Hostname,
			Deviation: 1,
			Level:     level,
			Value:     value,
		}) {
			return false
		}
	}
	return true
}

// processorArchitecture is rule 4: architecture strictly below the guest's
// minimum is CRITICAL for primaries, HIGH for secondaries. There is no
// floor at which this rule can be skipped: its maximum severity, CRITICAL,
// is the top of the scale.
func (a *Analyzer) processorArchitecture(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	for _, p := range a.config.Placements() {
		var level AlertLevel
		switch {
		case p.Primary.Equal(dom0):
			if dom0.ProcessorArchitecture < p.DomU.MinimumProcessorArchitecture {
				level = AlertLevelCritical
			}
		case p.Secondary != nil && p.Secondary.Equal(dom0) && p.DomU.HasFailoverReservation():
			if dom0.ProcessorArchitecture < p.DomU.MinimumProcessorArchitecture {
				level = AlertLevelHigh
			}
		default:
			continue
		}
		if level < minLevel {
			continue
		}
		if !sink.Accept(Result{
			Label:     p.DomU.Hostname,
			Deviation: 1,
			Level:     level,
			Value:     p.DomU.MinimumProcessorArchitecture,
		}) {
			return false
		}
	}
	return true
}

// processorSpeed is rule 5: LOW when below the guest's minimum MHz.
// Maximum severity is LOW.
func (a *Analyzer) processorSpeed(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	if minLevel > AlertLevelLow {
		return true
	}

	for _, p := range a.config.Placements() {
		if !hostedHere(p, dom0) {
			continue
		}
		minSpeed := p.DomU.MinimumProcessorSpeed
		level := AlertLevelNone
		if minSpeed != cluster.NoLimit && dom0.ProcessorSpeed < minSpeed {
			level = AlertLevelLow
		}
		if level < minLevel {
			continue
		}
		var value any
		if minSpeed != cluster.NoLimit {
			value = minSpeed
		}
		if !sink.Accept(Result{
			Label:     p.DomU.Hostname,
			Deviation: float64(minSpeed-dom0.ProcessorSpeed) / float64(minSpeed),
			Level:     level,
			Value:     value,
		}) {
			return false
		}
	}
	return true
}

// processorCores is rule 6: MEDIUM when below the guest's required core
// count. Maximum severity is MEDIUM.
func (a *Analyzer) processorCores(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	if minLevel > AlertLevelMedium {
		return true
	}

	for _, p := range a.config.Placements() {
		if !hostedHere(p, dom0) {
			continue
		}
		minCores := p.DomU.ProcessorCores
		level := AlertLevelNone
		if minCores != cluster.NoLimit && dom0.ProcessorCores < minCores {
			level = AlertLevelMedium
		}
		if level < minLevel {
			continue
		}
		var value any
		if minCores != cluster.NoLimit {
			value = minCores
		}
		if !sink.Accept(Result{
			Label:     p.DomU.Hostname,
			Deviation: float64(minCores-dom0.ProcessorCores) / float64(minCores),
			Level:     level,
			Value:     value,
		}) {
			return false
		}
	}
	return true
}

// availableProcessorWeight is rule 7: free primary processor-weight on
// dom0. Maximum severity is MEDIUM.
func (a *Analyzer) availableProcessorWeight(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	if minLevel > AlertLevelMedium {
		return true
	}

	allocated := 0
	for _, p := range a.config.Placements() {
		if p.Primary.Equal(dom0) {
			allocated += p.DomU.RequiredProcessorWeight()
		}
	}

	total := dom0.TotalProcessorWeight()
	free := total - allocated
	level := AlertLevelNone
	if free < 0 {
		level = AlertLevelMedium
	}
	if level < minLevel {
		return true
	}

	return sink.Accept(Result{
		Label:     "Available Processor Weight",
		Deviation: -float64(free) / float64(total),
		Level:     level,
		Value:     free,
	})
}

// requiresHVM is rule 8: CRITICAL for an HVM-requiring primary on a
// non-HVM host, HIGH for an HVM-requiring secondary. No floor skips it.
func (a *Analyzer) requiresHVM(dom0 cluster.Dom0, minLevel AlertLevel, sink Sink) bool {
	for _, p := range a.config.Placements() {
		var role AlertLevel
		switch {
		case p.Primary.Equal(dom0):
			role = AlertLevelCritical
		case p.Secondary != nil && p.Secondary.Equal(dom0) && p.DomU.HasFailoverReservation():
			role = AlertLevelHigh
		default:
			continue
		}

		level := AlertLevelNone
		if p.DomU.RequiresHVM && !dom0.SupportsHVM {
			level = role
		}
		if level < minLevel {
			continue
		}
		if !sink.Accept(Result{
			Label:     p.DomU.Hostname,
			Deviation: 1,
			Level:     level,
			Value:     p.DomU.RequiresHVM,
		}) {
			return false
		}
	}
	return true
}

// hostedHere reports whether p's guest is primary on dom0, or secondary on
// it with a live (non-NoLimit) secondary RAM reservation -- the selection
// rule shared by rules 3, 5 and 6.
func hostedHere(p placement.DomUPlacement, dom0 cluster.Dom0) bool {
	if p.Primary.Equal(dom0) {
		return true
	}
	return p.Secondary != nil && p.Secondary.Equal(dom0) && p.DomU.HasFailoverReservation()
}
