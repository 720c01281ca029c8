// Package testutil isolates zpm tests from the real home directory.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
)

// EnvVars lists every ZPM_* variable zpm reads.
var EnvVars = []string{
	"ZPM_CONFIG",
	"ZPM_ROOT",
	"ZPM_BIN_DIR",
	"ZPM_INDEX_URL",
	"ZPM_ZLS_RELEASE_URL",
	"ZPM_TIMEOUT",
	"ZPM_VERIFY_SIGNATURE",
	"ZPM_DEBUG",
}

// SetupTestEnv points HOME and the XDG directories at a fresh temp
// directory, clears ZPM_* overrides, and returns the temp home.
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	SetTestHome(t, home)

	for _, dir := range []string{
		filepath.Join(home, ".config"),
		filepath.Join(home, ".local", "bin"),
	} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
	return home
}

// SetTestHome sets HOME and the XDG variables to live under home and
// resets the cached lookups in go-homedir and xdg.
func SetTestHome(t *testing.T, home string) {
	t.Helper()

	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_BIN_HOME", filepath.Join(home, ".local", "bin"))
	for _, name := range EnvVars {
		t.Setenv(name, "")
	}

	homedir.Reset()
	xdg.Reload()
	t.Cleanup(func() {
		homedir.Reset()
		xdg.Reload()
	})
}
