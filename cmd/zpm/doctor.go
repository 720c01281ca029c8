package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/zpm/internal/drift"
	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the selected Zig is the one on PATH",
		Long: `Compare the selected version, the zig symlink in the bin directory, and
the zig your PATH resolves to, and report any disagreement.`,
		GroupID: groupSetup,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			cur, err := m.Current()
			if err != nil {
				return err
			}

			results := drift.NewDetector(m.Layout()).Detect(cmd.Context(), cur.Version)
			fmt.Fprint(a.stdout, drift.FormatReport(results))

			problems := 0
			for _, r := range results {
				if r.DriftType.IsProblem() {
					a.logger.Debug("drift", "tool", r.Tool, "type", r.DriftType.String())
					problems++
				}
			}
			if problems > 0 {
				return zpmerrors.NewUserError(fmt.Errorf("%d problem(s) detected", problems), "")
			}
			return nil
		},
	}
}
