package shell

import "fmt"

// ShellType represents a supported shell type.
type ShellType string

const (
	// ShellBash represents the Bash shell.
	ShellBash ShellType = "bash"
	// ShellZsh represents the Zsh shell.
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell.
	ShellFish ShellType = "fish"
	// ShellUnknown represents an unknown or unsupported shell.
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type.
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported.
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// ParseShell maps a shell name or path such as "/usr/bin/zsh" or "-bash"
// to a ShellType.
func ParseShell(name string) ShellType {
	return parseShellFromPath(name)
}

// SetupOptions controls rc file modification.
type SetupOptions struct {
	// Force appends the line even if one is already present.
	Force bool
	// Backup copies the rc file to <rc>.zpm-backup first.
	Backup bool
	// DryRun reports what would change without writing.
	DryRun bool
}

// SetupResult describes the outcome of SetupIntegration.
type SetupResult struct {
	Shell             ShellType
	RCFile            string
	Added             bool
	AlreadyPresent    bool
	BackupPath        string
	ActivationCommand string
}

// DetectionResult reports which shell was found and how.
type DetectionResult struct {
	Shell      ShellType
	Method     string
	ShellPath  string
	Confidence string
}

// UnsupportedShellError is returned for shells other than bash, zsh and fish.
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s (supported: bash, zsh, fish)", e.Shell)
}

// RCFileError reports a failed rc file operation.
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rc file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rc file error (%s): %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}
