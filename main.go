package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clustercore/domuopt/internal/analyze"
	"github.com/clustercore/domuopt/internal/optimize"
	"github.com/clustercore/domuopt/internal/report"
	"github.com/clustercore/domuopt/internal/sink"
	"github.com/clustercore/domuopt/internal/topology"
)

var (
	path        string
	levelName   string
	heuristic   string
	nodeCap     int
	concurrency int
)

var root = &cobra.Command{
	Use:   "domuopt",
	Short: "Cluster placement analyzer and optimizer for DomU/Dom0 clusters",
}

var validate = &cobra.Command{
	Use:   "validate",
	Short: "Report whether the loaded configuration is optimal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cl, cfg, err := topology.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load topology: %w", err)
		}

		var first analyze.Result
		found := false
		analyze.New(cl, cfg).Analyze(analyze.AlertLevelLow, analyze.SinkFunc(func(r analyze.Result) bool {
			if r.Level == analyze.AlertLevelNone {
				return true
			}
			first = r
			found = true
			return false
		}))
		if found {
			return fmt.Errorf("configuration is not optimal: %s", first.Label)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "configuration is optimal")
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print every analyzer result at or above a given level",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		level, err := parseLevel(levelName)
		if err != nil {
			return fmt.Errorf("failed to parse level: %w", err)
		}

		cl, cfg, err := topology.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load topology: %w", err)
		}

		collecting := &sink.Collecting{}
		analyze.New(cl, cfg).Analyze(level, collecting)

		return report.Results(cmd.OutOrStdout(), collecting.Results)
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for a reconfiguration path toward an optimal configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		h, err := parseHeuristic(heuristic)
		if err != nil {
			return fmt.Errorf("failed to parse heuristic: %w", err)
		}

		cl, cfg, err := topology.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load topology: %w", err)
		}

		outcome, err := optimize.Optimize(cl, cfg, h, optimize.Options{
			MinimumAlertLevel: analyze.AlertLevelLow,
			NodeCap:           nodeCap,
			Concurrency:       concurrency,
		})
		if err != nil {
			return fmt.Errorf("failed to optimize: %w", err)
		}

		return report.Outcome(cmd.OutOrStdout(), outcome)
	},
}

func parseLevel(s string) (analyze.AlertLevel, error) {
	switch s {
	case "none":
		return analyze.AlertLevelNone, nil
	case "low":
		return analyze.AlertLevelLow, nil
	case "medium":
		return analyze.AlertLevelMedium, nil
	case "high":
		return analyze.AlertLevelHigh, nil
	case "critical":
		return analyze.AlertLevelCritical, nil
	default:
		return analyze.AlertLevelNone, fmt.Errorf("unknown level %q", s)
	}
}

func parseHeuristic(s string) (optimize.Func, error) {
	switch s {
	case "least-informed":
		return optimize.LeastInformed, nil
	case "exponential":
		return optimize.Exponential, nil
	default:
		return nil, fmt.Errorf("unknown heuristic %q", s)
	}
}

func init() {
	root.PersistentFlags().StringVar(&path, "path", "", "Path to the directory holding topology.yaml and placement.yaml")
	root.MarkPersistentFlagRequired("path")

	reportCmd.Flags().StringVar(&levelName, "level", "low", "Minimum alert level to report (none|low|medium|high|critical)")

	optimizeCmd.Flags().StringVar(&heuristic, "heuristic", "exponential", "Heuristic to guide the search (least-informed|exponential)")
	optimizeCmd.Flags().IntVar(&nodeCap, "node-cap", 0, "Maximum number of configurations to expand (0 = unbounded)")
	optimizeCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum number of successors scored in parallel per expansion (0 = unbounded)")

	root.AddCommand(validate, reportCmd, optimizeCmd)
}

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
