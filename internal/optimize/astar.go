package optimize

import (
	"container/heap"

	"golang.org/x/sync/errgroup"

	"github.com/clustercore/domuopt/internal/analyze"
	"github.com/clustercore/domuopt/internal/cluster"
	"github.com/clustercore/domuopt/internal/placement"
)

// Status describes how a search run ended.
type Status int

const (
	StatusSolved Status = iota
	StatusExhausted
	StatusCancelled
	StatusNodeCapReached
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusExhausted:
		return "exhausted"
	case StatusCancelled:
		return "cancelled"
	case StatusNodeCapReached:
		return "node-cap-reached"
	default:
		return "unknown"
	}
}

// Step is one move along a solution path, paired with the Configuration it
// produced.
type Step struct {
	Move   Move
	Config *placement.Configuration
}

// Outcome is the result of a single Optimize run.
type Outcome struct {
	Status   Status
	Path     []Step
	Expanded int
}

// Options configures a search run. The zero value is usable: its goal test
// accepts the same configurations as the LOW floor, with no node cap and
// unbounded successor concurrency.
type Options struct {
	// MinimumAlertLevel is the floor passed to the analyzer when testing a
	// configuration for optimality. The zero value, AlertLevelNone, behaves
	// like AlertLevelLow: NONE results never count as violations, so a
	// configuration is a goal when the analyzer reports nothing above NONE.
	MinimumAlertLevel analyze.AlertLevel

	// NodeCap bounds the number of configurations the search will expand
	// before giving up. Zero or negative means no cap.
	NodeCap int

	// Concurrency bounds how many successors are evaluated in parallel per
	// expansion. Zero or negative means unbounded.
	Concurrency int

	// Cancel, if non-nil, stops the search as soon as it is readable.
	Cancel <-chan struct{}
}

// node is a frontier entry: a Configuration reached after g moves from the
// initial one, scored by f, with enough of its ancestry to reconstruct the
// path once a goal is found.
type node struct {
	cfg    *placement.Configuration
	g      int
	f      float64
	move   Move
	parent *node
}

// pqItem wraps a node with an insertion sequence number so that frontier
// ties on f, after preferring the smaller g, fall back to discovery order
// rather than map or slice iteration order -- the property that makes the
// search's move choice reproducible for identical inputs.
type pqItem struct {
	node *node
	seq  int
}

type priorityQueue []*pqItem

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	if q[i].node.f != q[j].node.f {
		return q[i].node.f < q[j].node.f
	}
	if q[i].node.g != q[j].node.g {
		return q[i].node.g < q[j].node.g
	}
	return q[i].seq < q[j].seq
}

func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *priorityQueue) Push(x any) { *q = append(*q, x.(*pqItem)) }

func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Optimize runs an A*-style best-first search from initial, guided by h,
// until it finds a configuration the analyzer considers optimal at
// opts.MinimumAlertLevel, exhausts the frontier, is cancelled, or reaches
// opts.NodeCap expansions. Every successor of an expanded node is scored
// concurrently (bounded by opts.Concurrency) before the results are pushed
// onto the frontier in a fixed order, so the search itself stays
// deterministic regardless of how the goroutines interleave.
func Optimize(cl *cluster.Cluster, initial *placement.Configuration, h Func, opts Options) (Outcome, error) {
	frontier := &priorityQueue{}
	heap.Init(frontier)

	seq := 0
	push := func(n *node) {
		seq++
		heap.Push(frontier, &pqItem{node: n, seq: seq})
	}
	push(&node{cfg: initial, g: 0, f: h(cl, initial, 0)})

	closed := make(map[string]int)
	expanded := 0

	for frontier.Len() > 0 {
		if opts.Cancel != nil {
			select {
			case <-opts.Cancel:
				return Outcome{Status: StatusCancelled, Expanded: expanded}, nil
			default:
			}
		}

		if opts.NodeCap > 0 && expanded >= opts.NodeCap {
			return Outcome{Status: StatusNodeCapReached, Expanded: expanded}, nil
		}

		current := heap.Pop(frontier).(*pqItem).node
		fingerprint := current.cfg.Fingerprint()
		if bestG, seen := closed[fingerprint]; seen && bestG <= current.g {
			continue
		}
		closed[fingerprint] = current.g
		expanded++

		if analyze.IsOptimalAt(cl, current.cfg, opts.MinimumAlertLevel) {
			return Outcome{Status: StatusSolved, Path: reconstruct(current), Expanded: expanded}, nil
		}

		moves := Generate(cl, current.cfg)
		if len(moves) == 0 {
			continue
		}

		type scored struct {
			cfg *placement.Configuration
			f   float64
			ok  bool
		}
		results := make([]scored, len(moves))

		limit := opts.Concurrency
		if limit <= 0 {
			limit = -1
		}
		var g errgroup.Group
		g.SetLimit(limit)
		for i, mv := range moves {
			i, mv := i, mv
			g.Go(func() error {
				next, err := mv.Apply(cl, current.cfg)
				if err != nil {
					return nil
				}
				results[i] = scored{cfg: next, f: h(cl, next, current.g+1), ok: true}
				return nil
			})
		}
		_ = g.Wait()

		for i, mv := range moves {
			r := results[i]
			if !r.ok {
				continue
			}
			successorFingerprint := r.cfg.Fingerprint()
			if bestG, seen := closed[successorFingerprint]; seen && bestG <= current.g+1 {
				continue
			}
			push(&node{cfg: r.cfg, g: current.g + 1, f: r.f, move: mv, parent: current})
		}
	}

	return Outcome{Status: StatusExhausted, Expanded: expanded}, nil
}

// reconstruct walks a goal node's ancestry back to the root and returns the
// moves in the order they were applied.
func reconstruct(n *node) []Step {
	var steps []Step
	for n.parent != nil {
		steps = append(steps, Step{Move: n.move, Config: n.cfg})
		n = n.parent
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
