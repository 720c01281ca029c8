package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
	"github.com/ZebulonRouseFrantzich/zpm/internal/shell"
)

func newEnvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env [shell]",
		Short: "Print shell code that puts the bin directory on PATH",
		Long: `Print shell code that adds the zpm bin directory to PATH. Evaluate it
from your shell's startup file:

  bash/zsh:  eval "$(zpm env bash)"
  fish:      zpm env fish | source

The shell is detected when omitted.`,
		GroupID:   groupSetup,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := resolveShell(args)
			if err != nil {
				return err
			}
			script, err := shell.EnvScript(sh, a.cfg.BinDir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.stdout, script)
			return err
		},
	}
}

func newSetupShellCmd(a *app) *cobra.Command {
	var (
		opts      shell.SetupOptions
		shellName string
	)

	cmd := &cobra.Command{
		Use:   "setup-shell",
		Short: "Add zpm to your shell startup file",
		Long: `Append the zpm activation line to the rc file of your shell
(~/.bashrc, ~/.zshrc or ~/.config/fish/config.fish). Nothing is written if
the line is already present.`,
		GroupID: groupSetup,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			if shellName != "" {
				names = []string{shellName}
			}
			sh, err := resolveShell(names)
			if err != nil {
				return err
			}

			mgr, err := shell.NewManager(a.home)
			if err != nil {
				return err
			}
			res, err := mgr.SetupIntegration(sh, opts)
			if err != nil {
				return err
			}

			switch {
			case res.AlreadyPresent && !res.Added:
				fmt.Fprintf(a.stdout, "%s already loads zpm\n", res.RCFile)
			case opts.DryRun:
				fmt.Fprintf(a.stdout, "Would add to %s:\n  %s\n", res.RCFile, res.ActivationCommand)
			default:
				color.New(color.FgGreen).Fprintf(a.stdout, "Added zpm to %s\n", res.RCFile)
				if res.BackupPath != "" {
					fmt.Fprintf(a.stdout, "  backup: %s\n", res.BackupPath)
				}
				fmt.Fprintln(a.stdout, "Restart your shell or run:", res.ActivationCommand)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shellName, "shell", "", "shell to configure: bash, zsh, fish (default: detected)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show the change without writing")
	cmd.Flags().BoolVar(&opts.Backup, "backup", false, "copy the rc file to <rc>"+shell.BackupSuffix+" first")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "append the line even if one is present")
	return cmd
}

// resolveShell parses an explicit shell name or detects the user's shell.
func resolveShell(args []string) (shell.ShellType, error) {
	if len(args) == 1 {
		sh := shell.ParseShell(args[0])
		if !sh.IsValid() {
			return "", zpmerrors.NewUserError(&shell.UnsupportedShellError{Shell: args[0]}, "")
		}
		return sh, nil
	}

	det, err := shell.DetectShell()
	if err != nil {
		return "", err
	}
	if !det.Shell.IsValid() {
		return "", zpmerrors.NewUserError(
			&shell.UnsupportedShellError{Shell: det.Shell.String()},
			"Name the shell explicitly, e.g.: zpm env bash")
	}
	return det.Shell, nil
}
