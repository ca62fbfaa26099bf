package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/internal/model"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. It is
// called by the main package with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the hallplan CLI with the given base context. Cancelling the
// context mid-optimization yields the best layout found so far.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "hallplan",
		Short: "HallPlan packs tables into venue floor plans",
		Long: `HallPlan computes the densest valid placement of identical tables inside a
venue, honoring minimum clearances to walls, obstacles and other tables.
Venues come from DXF drawings, obstacle schedules from CSV or XLSX files, and
results go out as plan documents, DXF layouts, XLSX schedules or QR labels.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("hallplan %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newOptimizeCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newPresetsCmd())

	return root
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in table size presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE (mm)\tDESCRIPTION")
			for _, p := range model.TablePresets {
				fmt.Fprintf(w, "%s\t%.0f x %.0f\t%s\n", p.Name, p.Width, p.Height, p.Description)
			}
			return w.Flush()
		},
	}
}
