package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/zpm/internal/toolchain"
)

func newUninstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <version>",
		Aliases: []string{"rm"},
		Short:   "Remove an installed Zig version",
		Long: `Remove an installed Zig version. If it is the current version, the zig
symlink and the current marker are removed too and no version is selected.`,
		GroupID: groupVersions,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := args[0]

			wasCurrent := false
			err := a.withLock(cmd.Context(), cmd.Name(), func(m *toolchain.Manager) error {
				cur, err := m.Current()
				if err != nil {
					return err
				}
				wasCurrent = cur.Set && cur.Version == v
				return m.Uninstall(v)
			})
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(a.stdout, "Uninstalled zig %s\n", v)
			if wasCurrent {
				fmt.Fprintln(a.stdout, "No version is selected now. Run: zpm use <version>")
			}
			return nil
		},
	}
}
