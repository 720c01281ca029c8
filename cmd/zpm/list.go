package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
	"github.com/ZebulonRouseFrantzich/zpm/internal/toolchain"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func newListCmd(a *app) *cobra.Command {
	var (
		remote bool
		output string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed or available Zig versions",
		Long: `List installed Zig versions, newest first, with the current one marked.

With --remote, list every version in the release index instead:
  * = current version, I = installed`,
		Example: `  zpm list
  zpm list --remote
  zpm ls -r --output json`,
		GroupID: groupVersions,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputText, outputJSON, outputYAML:
			default:
				return zpmerrors.NewUserError(
					fmt.Errorf("unknown output format %q", output),
					"Use one of: text, json, yaml")
			}

			m, err := a.manager()
			if err != nil {
				return err
			}

			if remote {
				versions, err := m.ListRemote(cmd.Context())
				if err != nil {
					return err
				}
				if output == outputText {
					return writeRemoteText(a.stdout, versions)
				}
				return writeStructured(a.stdout, output, versions)
			}

			versions, err := m.ListInstalled()
			if err != nil {
				return err
			}
			if output == outputText {
				return writeInstalledText(a.stdout, versions)
			}
			return writeStructured(a.stdout, output, versions)
		},
	}

	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "list versions available in the release index")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml")
	return cmd
}

func writeInstalledText(w io.Writer, versions []toolchain.InstalledVersion) error {
	if len(versions) == 0 {
		_, err := fmt.Fprintln(w, "No versions installed. Run: zpm install")
		return err
	}

	green := color.New(color.FgGreen, color.Bold)
	for _, v := range versions {
		if v.Current {
			green.Fprintf(w, "* %s\n", v.Version)
			continue
		}
		fmt.Fprintf(w, "  %s\n", v.Version)
	}
	return nil
}

func writeRemoteText(w io.Writer, versions []toolchain.RemoteVersion) error {
	fmt.Fprintln(w, "  * = current version, I = installed")
	fmt.Fprintln(w)

	faint := color.New(color.Faint)
	for _, v := range versions {
		markers := []byte("  ")
		if v.Current {
			markers[0] = '*'
		}
		if v.Installed {
			markers[1] = 'I'
		}

		line := fmt.Sprintf("  %s %s", markers, v.Version)
		if v.Build != "" {
			line += " (" + v.Build + ")"
		}
		if !v.Available {
			faint.Fprintln(w, line+" [no build for this platform]")
			continue
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

func joinMethods(r *artifact.VerificationResult) string {
	names := make([]string, 0, len(r.Methods))
	for _, m := range r.Methods {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}
