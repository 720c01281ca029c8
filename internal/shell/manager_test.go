package shell

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManager(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Error("expected error for empty home")
	}
	if m, err := NewManager("/home/user"); err != nil || m == nil {
		t.Errorf("NewManager() = %v, %v", m, err)
	}
}

func TestRCFilePath(t *testing.T) {
	home := "/home/testuser"
	tests := []struct {
		shell   ShellType
		want    string
		wantErr bool
	}{
		{ShellBash, filepath.Join(home, ".bashrc"), false},
		{ShellZsh, filepath.Join(home, ".zshrc"), false},
		{ShellFish, filepath.Join(home, ".config", "fish", "config.fish"), false},
		{ShellUnknown, "", true},
	}
	for _, tt := range tests {
		got, err := RCFilePath(tt.shell, home)
		if (err != nil) != tt.wantErr {
			t.Errorf("RCFilePath(%v) error = %v, wantErr %v", tt.shell, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("RCFilePath(%v) = %q, want %q", tt.shell, got, tt.want)
		}
	}
}

func TestManager_SetupIntegration(t *testing.T) {
	t.Run("appends to existing file", func(t *testing.T) {
		home := t.TempDir()
		rc := filepath.Join(home, ".bashrc")
		os.WriteFile(rc, []byte("alias ll='ls -l'"), 0600)

		m, _ := NewManager(home)
		result, err := m.SetupIntegration(ShellBash, SetupOptions{})
		if err != nil {
			t.Fatalf("SetupIntegration() error = %v", err)
		}
		if !result.Added || result.AlreadyPresent {
			t.Errorf("result = %+v, want Added", result)
		}

		content, _ := os.ReadFile(rc)
		want := "alias ll='ls -l'\n\n" + sectionComment + "\n" + `eval "$(zpm env bash)"` + "\n"
		if string(content) != want {
			t.Errorf("rc content:\n%q\nwant:\n%q", content, want)
		}

		info, _ := os.Stat(rc)
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want 0600 preserved", info.Mode().Perm())
		}
	})

	t.Run("creates missing fish config", func(t *testing.T) {
		home := t.TempDir()
		m, _ := NewManager(home)

		result, err := m.SetupIntegration(ShellFish, SetupOptions{Backup: true})
		if err != nil {
			t.Fatalf("SetupIntegration() error = %v", err)
		}
		if result.BackupPath != "" {
			t.Errorf("no backup expected for a new file, got %q", result.BackupPath)
		}

		content, err := os.ReadFile(filepath.Join(home, ".config", "fish", "config.fish"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "zpm env fish | source") {
			t.Errorf("config.fish = %q", content)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		home := t.TempDir()
		m, _ := NewManager(home)

		if _, err := m.SetupIntegration(ShellZsh, SetupOptions{}); err != nil {
			t.Fatal(err)
		}
		before, _ := os.ReadFile(filepath.Join(home, ".zshrc"))

		result, err := m.SetupIntegration(ShellZsh, SetupOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if result.Added || !result.AlreadyPresent {
			t.Errorf("result = %+v, want AlreadyPresent", result)
		}
		after, _ := os.ReadFile(filepath.Join(home, ".zshrc"))
		if string(before) != string(after) {
			t.Error("second setup modified the rc file")
		}
	})

	t.Run("commented line does not count", func(t *testing.T) {
		home := t.TempDir()
		rc := filepath.Join(home, ".bashrc")
		os.WriteFile(rc, []byte("# eval \"$(zpm env bash)\"\n"), 0644)

		m, _ := NewManager(home)
		result, err := m.SetupIntegration(ShellBash, SetupOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if !result.Added {
			t.Error("commented activation should not block setup")
		}
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		home := t.TempDir()
		m, _ := NewManager(home)

		result, err := m.SetupIntegration(ShellBash, SetupOptions{DryRun: true, Backup: true})
		if err != nil {
			t.Fatal(err)
		}
		if result.Added {
			t.Error("dry run should not add")
		}
		if result.ActivationCommand == "" {
			t.Error("dry run should report the command")
		}
		if _, err := os.Stat(filepath.Join(home, ".bashrc")); !os.IsNotExist(err) {
			t.Error("dry run created the rc file")
		}
	})

	t.Run("backup", func(t *testing.T) {
		home := t.TempDir()
		rc := filepath.Join(home, ".zshrc")
		os.WriteFile(rc, []byte("export EDITOR=vim\n"), 0644)

		m, _ := NewManager(home)
		result, err := m.SetupIntegration(ShellZsh, SetupOptions{Backup: true})
		if err != nil {
			t.Fatal(err)
		}
		if result.BackupPath != rc+BackupSuffix {
			t.Errorf("BackupPath = %q", result.BackupPath)
		}
		backup, _ := os.ReadFile(result.BackupPath)
		if string(backup) != "export EDITOR=vim\n" {
			t.Errorf("backup = %q", backup)
		}
	})

	t.Run("rc path is a directory", func(t *testing.T) {
		home := t.TempDir()
		os.MkdirAll(filepath.Join(home, ".bashrc"), 0755)

		m, _ := NewManager(home)
		_, err := m.SetupIntegration(ShellBash, SetupOptions{})
		var rcErr *RCFileError
		if !errors.As(err, &rcErr) {
			t.Fatalf("error = %v, want RCFileError", err)
		}
	})

	t.Run("unsupported shell", func(t *testing.T) {
		m, _ := NewManager(t.TempDir())
		_, err := m.SetupIntegration(ShellType("csh"), SetupOptions{})
		var unsupported *UnsupportedShellError
		if !errors.As(err, &unsupported) {
			t.Fatalf("error = %v, want UnsupportedShellError", err)
		}
	})
}

func TestManager_DetectAndSetup(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SHELL", "/usr/bin/zsh")

	m, _ := NewManager(home)
	result, err := m.DetectAndSetup(SetupOptions{})
	if err != nil {
		t.Fatalf("DetectAndSetup() error = %v", err)
	}
	if result.Shell != ShellZsh {
		t.Errorf("Shell = %v, want zsh", result.Shell)
	}

	t.Setenv("SHELL", "")
	stubParent(t, "init", nil)
	_, err = m.DetectAndSetup(SetupOptions{})
	var unsupported *UnsupportedShellError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedShellError", err)
	}
}
