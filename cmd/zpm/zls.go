package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/zpm/internal/toolchain"
)

func newInstallZLSCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install-zls",
		Short: "Install the Zig language server for the current version",
		Long: `Download the latest ZLS release for this machine, unpack it into the
current version's directory and link it as <bin-dir>/zls.`,
		GroupID: groupVersions,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var res *toolchain.CompanionResult
			err := a.withLock(cmd.Context(), cmd.Name(), func(m *toolchain.Manager) error {
				var err error
				res, err = m.InstallCompanion(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(a.stdout, "Installed zls %s", res.Release)
			fmt.Fprintf(a.stdout, " for zig %s\n", res.ZigVersion)
			if !res.Verified {
				fmt.Fprintf(a.stdout, "  note: %s has no published checksum; it was not verified\n", res.Asset)
			}
			return nil
		},
	}
}
