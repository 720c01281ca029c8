package shell

import "fmt"

// Manager edits rc files under one home directory.
type Manager struct {
	home string
}

// NewManager creates a Manager rooted at home.
func NewManager(home string) (*Manager, error) {
	if home == "" {
		return nil, fmt.Errorf("home directory is required")
	}
	return &Manager{home: home}, nil
}

// SetupIntegration adds the activation line to shell's rc file unless it
// is already present (or opts.Force is set).
func (m *Manager) SetupIntegration(shell ShellType, opts SetupOptions) (*SetupResult, error) {
	activationCmd, err := ActivationCommand(shell)
	if err != nil {
		return nil, err
	}

	rcPath, err := RCFilePath(shell, m.home)
	if err != nil {
		return nil, fmt.Errorf("get RC file path: %w", err)
	}

	exists, err := RCFileExists(rcPath)
	if err != nil {
		return nil, fmt.Errorf("check RC file: %w", err)
	}

	hasActivation, err := HasActivationLine(rcPath)
	if err != nil {
		return nil, fmt.Errorf("check activation line: %w", err)
	}

	result := &SetupResult{
		Shell:             shell,
		RCFile:            rcPath,
		AlreadyPresent:    hasActivation,
		ActivationCommand: activationCmd,
	}
	if hasActivation && !opts.Force {
		return result, nil
	}
	if opts.DryRun {
		return result, nil
	}

	if opts.Backup && exists {
		result.BackupPath, err = BackupRCFile(rcPath)
		if err != nil {
			return nil, fmt.Errorf("backup RC file: %w", err)
		}
	}

	if err := AddActivationLine(rcPath, activationCmd); err != nil {
		return nil, fmt.Errorf("add activation line: %w", err)
	}
	result.Added = true
	return result, nil
}

// DetectAndSetup detects the user's shell and sets up its rc file.
func (m *Manager) DetectAndSetup(opts SetupOptions) (*SetupResult, error) {
	detection, err := DetectShell()
	if err != nil {
		return nil, fmt.Errorf("detect shell: %w", err)
	}

	if !detection.Shell.IsValid() {
		name := detection.ShellPath
		if name == "" {
			name = ShellUnknown.String()
		}
		return nil, &UnsupportedShellError{Shell: name}
	}
	return m.SetupIntegration(detection.Shell, opts)
}
