package main

import (
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	groupVersions = "versions"
	groupSetup    = "setup"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zpm",
		Short: "Zig toolchain version manager",
		Long: `zpm installs Zig toolchains from the official release index, keeps several
versions side by side under ~/.zpm, and switches between them with a symlink
in a bin directory on your PATH.

Versions can be given literally (0.13.0) or as an alias:
  latest, master   the newest development build
  stable           the newest tagged release`,
		Example: `  # Install the newest release and make it the default
  zpm install stable --default

  # Switch versions
  zpm use 0.12.0

  # Show everything the index offers
  zpm list --remote`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.started = true
			if err := a.setupLogging(); err != nil {
				return err
			}
			if cmd.Annotations[annotationSkipConfigFile] != "" {
				return a.defaultConfig()
			}
			return a.loadConfig(cmd.Context())
		},
	}
	cmd.SetVersionTemplate("zpm {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "", "config file (default $XDG_CONFIG_HOME/zpm/config.lua)")
	flags.String(keyRoot, "", "install root (default ~/.zpm)")
	flags.String(keyBinDir, "", "directory for the zig and zls symlinks (default ~/.local/bin)")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only print errors")

	for _, key := range []string{keyConfig, keyRoot, keyBinDir} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddGroup(
		&cobra.Group{ID: groupVersions, Title: "Version Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	cmd.AddCommand(
		newInstallCmd(a),
		newUninstallCmd(a),
		newUseCmd(a),
		newListCmd(a),
		newCurrentCmd(a),
		newInstallZLSCmd(a),
		newEnvCmd(a),
		newSetupShellCmd(a),
		newDoctorCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// annotationSkipConfigFile marks commands that ignore the config file, so
// they work while it is broken.
const annotationSkipConfigFile = "zpm/skip-config-file"
