package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/zpm/internal/config"
	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or create the zpm config file",
		GroupID: groupSetup,
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write a config file holding the built-in defaults, adjusted by any
ZPM_* variables and flags. The existing file is not read, so
"zpm config init --force" also replaces a broken config.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfigFile: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return zpmerrors.NewUserError(
					fmt.Errorf("%s already exists", path),
					"Use --force to overwrite it")
			}

			src := config.NewGenerator(a.home).Generate(a.cfg)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, "create %s", filepath.Dir(path))
			}
			if err := os.WriteFile(path, []byte(src), 0644); err != nil {
				return errors.Wrapf(err, "write %s", path)
			}

			color.New(color.FgGreen).Fprintf(a.stdout, "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as Lua",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "-- source: %s\n", a.configPath)
			_, err := fmt.Fprint(a.stdout, config.NewGenerator(a.home).Generate(a.cfg))
			return err
		},
	}
}
