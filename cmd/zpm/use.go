package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
	"github.com/ZebulonRouseFrantzich/zpm/internal/toolchain"
)

func newUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "use <version>",
		Short:   "Switch the current Zig version",
		Long:    `Point the zig symlink in the bin directory at an installed version.`,
		GroupID: groupVersions,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := args[0]
			err := a.withLock(cmd.Context(), cmd.Name(), func(m *toolchain.Manager) error {
				return m.Use(v)
			})
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(a.stdout, "Now using zig %s\n", v)
			a.pathHint()
			return nil
		},
	}
}

func newCurrentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "current",
		Short:   "Print the current Zig version",
		GroupID: groupVersions,
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
			if !cur.Set {
				return zpmerrors.NewUserError(fmt.Errorf("no version selected"), "Run: zpm use <version>")
			}

			fmt.Fprintln(a.stdout, cur.Version)
			if !m.IsInstalled(cur.Version) {
				a.logger.Warn("current version is not installed", "version", cur.Version)
			}
			return nil
		},
	}
}
