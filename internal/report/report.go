// Package report renders analyzer results and search outcomes for the CLI.
// It makes no decisions of its own; everything it prints was already
// computed by the analyzer or the search driver.
package report

import (
	"fmt"
	"io"

	"github.com/clustercore/domuopt/internal/analyze"
	"github.com/clustercore/domuopt/internal/optimize"
	"github.com/clustercore/domuopt/internal/sink"
)

// Results writes one line per Result, in the order the analyzer produced
// them -- including NONE results, since this layer formats what the
// analyzer computed rather than deciding what is worth showing -- followed
// by a one-line violation-count summary.
func Results(w io.Writer, results []analyze.Result) error {
	counting := &sink.Counting{}

	for _, r := range results {
		counting.Accept(r)

		if _, err := fmt.Fprintf(w, "%-8s %-24s deviation=%+.4f", r.Level, r.Label, r.Deviation); err != nil {
			return err
		}
		if r.Value != nil {
			if _, err := fmt.Fprintf(w, " value=%v", r.Value); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d violation(s)\n", counting.Total)
	return err
}

// Outcome writes a search Outcome: its status, how many nodes were
// expanded, and each step of the returned path (if any).
func Outcome(w io.Writer, outcome optimize.Outcome) error {
	if _, err := fmt.Fprintf(w, "status=%s expanded=%d steps=%d\n", outcome.Status, outcome.Expanded, len(outcome.Path)); err != nil {
		return err
	}
	for i, step := range outcome.Path {
		if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, step.Move); err != nil {
			return err
		}
	}
	return nil
}
