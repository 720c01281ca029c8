package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// parentProcessName is replaced in tests.
var parentProcessName = func() (string, error) {
	p, err := process.NewProcess(int32(os.Getppid()))
	if err != nil {
		return "", err
	}
	return p.Name()
}

// DetectShell determines the user's shell from $SHELL, falling back to
// the parent process name. An undetectable shell is reported as
// ShellUnknown, not as an error.
func DetectShell() (*DetectionResult, error) {
	if shell := os.Getenv("SHELL"); shell != "" {
		if shellType := parseShellFromPath(shell); shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "$SHELL environment variable",
				ShellPath:  shell,
				Confidence: "high",
			}, nil
		}
	}

	if name, err := parentProcessName(); err == nil {
		if shellType := parseShellFromPath(name); shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "parent process",
				ShellPath:  name,
				Confidence: "medium",
			}, nil
		}
	}

	return &DetectionResult{
		Shell:      ShellUnknown,
		Method:     "detection failed",
		Confidence: "none",
	}, nil
}

// parseShellFromPath extracts the shell type from a path or process name.
// Login shells show up as "-bash".
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(shellPath))
	baseName = strings.TrimPrefix(baseName, "-")
	baseName = strings.TrimSuffix(baseName, ".exe")

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}

// ValidateShell checks if a shell type is supported.
func ValidateShell(shell ShellType) error {
	if !shell.IsValid() {
		return &UnsupportedShellError{Shell: shell.String()}
	}
	return nil
}

// SupportedShells returns the shells zpm can integrate with.
func SupportedShells() []ShellType {
	return []ShellType{ShellBash, ShellZsh, ShellFish}
}
