package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/internal/engine"
)

func newCompareCmd() *cobra.Command {
	var opts inputOpts

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every placement strategy and compare the results",
		Long: `Compare runs each placement strategy on the same venue through the full
pipeline, refinement included, and prints counts, scores and timings side by
side. The marked row is the layout auto mode would pick.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, &opts)
		},
	}

	registerInputFlags(cmd, &opts)

	return cmd
}

func runCompare(cmd *cobra.Command, opts *inputOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, err := buildPlan(cmd, opts)
	if err != nil {
		return err
	}
	opt, err := buildOptimizer(ctx, opts)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	reports, err := opt.CompareStrategies(ctx, p.Boundary, p.Obstacles, p.Config)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compared %d strategies", len(reports)))

	best := engine.BestReport(reports)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tTABLES\tSCORE\tUTILIZATION\tTIME\t")
	for i, r := range reports {
		marker := ""
		if i == best {
			marker = "<- best"
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.1f%%\t%s\t%s\n",
			r.Strategy, r.Count, r.Score, r.Stats.SpaceUtilization,
			r.Elapsed.Round(time.Millisecond), marker)
	}
	return w.Flush()
}
