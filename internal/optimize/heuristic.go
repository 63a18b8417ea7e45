// Package optimize holds the two components that drive the cluster toward
// an optimal placement: the move generator, which enumerates legal
// single-step transitions, and the A*-style search driver, which explores
// them guided by a heuristic built on top of the analyzer.
package optimize

import (
	"github.com/clustercore/domuopt/internal/analyze"
	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
	"github.com/clustercore/domuopt/internal/sink"
)

// Func scores a Configuration for the frontier: lower is better, and the
// value already incorporates g so that configurations tied on violations
// prefer the shorter path.
type Func func(cl *cluster.Cluster, cfg *placement.Configuration, g int) float64

// LeastInformed is the baseline heuristic: g if the configuration is
// optimal, g+1 otherwise. It is admissible but carries no information
// about how far from optimal a non-goal configuration is; its only job is
// to prove that an A* search is well-formed even with the weakest possible
// guidance -- every optimal configuration has LeastInformed(c, g) == g.
func LeastInformed(cl *cluster.Cluster, cfg *placement.Configuration, g int) float64 {
	if analyze.IsOptimal(cl, cfg) {
		return float64(g)
	}
	return float64(g + 1)
}

// Exponential aggregates every analyzer result at the LOW floor into a
// weighted total, added to g. The exponential gap between CRITICAL and the
// lesser severities biases the search toward clearing hard-constraint
// violations first, even at the cost of a longer plan. It is implemented as
// a pure fold over the Result stream -- a fresh sink.WeightSumming per
// call -- so unlike a shared accumulator it is safe to invoke concurrently
// from multiple search workers.
func Exponential(cl *cluster.Cluster, cfg *placement.Configuration, g int) float64 {
	w := &sink.WeightSumming{}
	analyze.New(cl, cfg).Analyze(analyze.AlertLevelLow, w)
	return float64(g) + w.Total
}
