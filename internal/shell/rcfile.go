package shell

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RCFilePath returns the rc file for shell under home.
func RCFilePath(shell ShellType, home string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	switch shell {
	case ShellBash:
		return filepath.Join(home, ".bashrc"), nil
	case ShellZsh:
		return filepath.Join(home, ".zshrc"), nil
	default:
		return filepath.Join(home, ".config", "fish", "config.fish"), nil
	}
}

// RCFileExists reports whether rcPath is an existing regular file.
func RCFileExists(rcPath string) (bool, error) {
	info, err := os.Stat(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &RCFileError{Path: rcPath, Message: "failed to stat file", Cause: err}
	}

	if !info.Mode().IsRegular() {
		return false, &RCFileError{Path: rcPath, Message: "not a regular file"}
	}
	return true, nil
}

// HasActivationLine reports whether rcPath already loads zpm. Commented
// lines do not count.
func HasActivationLine(rcPath string) (bool, error) {
	file, err := os.Open(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &RCFileError{Path: rcPath, Message: "failed to open file", Cause: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ActivationMarker) {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}
	return false, nil
}

// BackupRCFile copies rcPath to rcPath+BackupSuffix and returns the copy's path.
func BackupRCFile(rcPath string) (string, error) {
	content, err := os.ReadFile(rcPath)
	if err != nil {
		return "", &RCFileError{Path: rcPath, Message: "failed to read file for backup", Cause: err}
	}

	backupPath := rcPath + BackupSuffix
	if err := os.WriteFile(backupPath, content, 0644); err != nil {
		return "", &RCFileError{Path: backupPath, Message: "failed to write backup file", Cause: err}
	}
	return backupPath, nil
}

// AddActivationLine appends the zpm section to rcPath, creating the file
// and its parent directory if needed. The write goes through a temp file
// in the same directory and a rename.
func AddActivationLine(rcPath string, activationCommand string) error {
	dir := filepath.Dir(rcPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create parent directory", Cause: err}
	}

	existing, err := os.ReadFile(rcPath)
	if err != nil && !os.IsNotExist(err) {
		return &RCFileError{Path: rcPath, Message: "failed to read existing file", Cause: err}
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(rcPath); err == nil {
		mode = info.Mode().Perm()
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 {
		if !strings.HasSuffix(string(existing), "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n%s\n", sectionComment, activationCommand)

	tmpFile, err := os.CreateTemp(dir, ".zpm-tmp-*")
	if err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create temporary file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(b.String()); err != nil {
		tmpFile.Close()
		return &RCFileError{Path: rcPath, Message: "failed to write activation line", Cause: err}
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return &RCFileError{Path: rcPath, Message: "failed to sync file", Cause: err}
	}
	tmpFile.Close()

	if err := os.Chmod(tmpPath, mode); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to set permissions", Cause: err}
	}
	if err := os.Rename(tmpPath, rcPath); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to rename temp file", Cause: err}
	}
	return nil
}
