// Package sink provides the Analyzer's standard result-sink adapters: a
// counting sink for statistics, a weight-summing sink for the exponential
// heuristic, and a collecting sink for diagnostic reporting.
package sink

import "github.com/clustercore/domuopt/internal/analyze"

// Counting tallies every non-NONE Result it sees without ever stopping the
// analyzer early. Useful for reporting "N violations found" summaries.
type Counting struct {
	Total int
}

// Accept implements analyze.Sink.
func (c *Counting) Accept(r analyze.Result) bool {
	if r.Level != analyze.AlertLevelNone {
		c.Total++
	}
	return true
}

// Collecting accumulates every Result it sees, in the order the analyzer
// produced them, for diagnostic reporting at any floor.
type Collecting struct {
	Results []analyze.Result
}

// Accept implements analyze.Sink.
func (c *Collecting) Accept(r analyze.Result) bool {
	c.Results = append(c.Results, r)
	return true
}

// weights assigns the exponential heuristic's per-level cost. The gap
// between CRITICAL and everything else is deliberately enormous: the
// search should eliminate a single hard-constraint violation before it
// eliminates any number of soft ones.
var weights = map[analyze.AlertLevel]float64{
	analyze.AlertLevelLow:      4,
	analyze.AlertLevelMedium:   8,
	analyze.AlertLevelHigh:     16,
	analyze.AlertLevelCritical: 1024,
}

// WeightSumming is a pure fold over the Result stream: it has no shared
// state beyond its own Total field, so a fresh WeightSumming per Analyze
// call is safe to use from any number of concurrent search workers.
type WeightSumming struct {
	Total float64
}

// Accept implements analyze.Sink. It panics on a NONE result, which can
// only mean the analyzer was called below the LOW floor required for this
// sink's contract -- an analyzer bug, not a recoverable condition.
func (w *WeightSumming) Accept(r analyze.Result) bool {
	weight, ok := weights[r.Level]
	if !ok {
		panic("sink: weight-summing sink received a result with no assigned weight: " + r.Level.String())
	}
	w.Total += weight
	return true
}
