package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/zpm/internal/toolchain"
	"github.com/ZebulonRouseFrantzich/zpm/internal/version"
)

func newInstallCmd(a *app) *cobra.Command {
	var setDefault bool

	cmd := &cobra.Command{
		Use:     "install [version]",
		Aliases: []string{"i"},
		Short:   "Install a Zig version",
		Long: `Install a Zig version for this machine.

The version defaults to "latest" (the master development build). The archive
is downloaded to the cache, checked against the index's sha256 and unpacked
into <root>/versions/<version>. Installing an installed version downloads
nothing.`,
		Example: `  zpm install
  zpm install stable --default
  zpm install 0.13.0`,
		GroupID: groupVersions,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := version.Latest
			if len(args) == 1 {
				token = args[0]
			}

			var res *toolchain.InstallResult
			err := a.withLock(cmd.Context(), cmd.Name(), func(m *toolchain.Manager) error {
				var err error
				res, err = m.Install(cmd.Context(), token, setDefault)
				return err
			})
			if res != nil {
				a.printInstall(res)
			}
			if err != nil {
				return err
			}
			if res.Activated {
				a.pathHint()
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&setDefault, "default", "d", false, "make the installed version current")
	return cmd
}

func (a *app) printInstall(res *toolchain.InstallResult) {
	green := color.New(color.FgGreen)

	if res.AlreadyInstalled {
		fmt.Fprintf(a.stdout, "zig %s is already installed\n", res.Version)
	} else {
		green.Fprintf(a.stdout, "Installed zig %s", res.Version)
		fmt.Fprintf(a.stdout, " (%s)\n", res.Platform)
		if res.Verification != nil && len(res.Verification.Methods) > 0 {
			fmt.Fprintf(a.stdout, "  verified: %s\n", joinMethods(res.Verification))
		}
	}
	if res.Activated {
		green.Fprintf(a.stdout, "Now using zig %s\n", res.Version)
	}
}
