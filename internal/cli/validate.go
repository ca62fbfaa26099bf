package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/internal/engine"
	"github.com/hallplan/hallplan/internal/model"
	"github.com/hallplan/hallplan/internal/plan"
)

func newValidateCmd() *cobra.Command {
	var planFile string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a saved layout against its clearance rules",
		Long: `Validate re-checks every placement in a saved plan document against the
wall, table and obstacle clearances in its config. All violations are
reported, not just the first; any violation makes the command exit non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, planFile, asJSON)
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "", "plan document to validate (JSON)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the violations as JSON")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runValidate(cmd *cobra.Command, planFile string, asJSON bool) error {
	logger := loggerFromContext(cmd.Context())

	p, err := plan.Load(planFile)
	if err != nil {
		return err
	}
	if p.Result == nil || len(p.Result.Tables) == 0 {
		return fmt.Errorf("plan %s has no layout to validate", planFile)
	}

	opt, err := engine.New(engine.Options{Logger: logger})
	if err != nil {
		return err
	}
	ok, violations, err := opt.Validate(p.Boundary, p.Obstacles, p.Config, p.Result.Tables)
	if err != nil {
		return err
	}

	if asJSON {
		if violations == nil {
			violations = []model.Violation{}
		}
		data, err := json.MarshalIndent(violations, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	if ok {
		logger.Info("layout valid", "tables", len(p.Result.Tables))
		return nil
	}
	for _, v := range violations {
		logger.Error(v.Description, "kind", v.Kind, "threshold", fmt.Sprintf("%.0fmm", v.Threshold))
	}
	return fmt.Errorf("%d clearance violations", len(violations))
}
