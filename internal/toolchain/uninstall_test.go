package toolchain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

func TestUninstall_Active(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.13.0")
	if err := env.mgr.Use("0.13.0"); err != nil {
		t.Fatal(err)
	}

	if err := env.mgr.Uninstall("0.13.0"); err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}

	if exists(env.layout.VersionDir("0.13.0")) {
		t.Error("version directory should be gone")
	}
	if exists(env.layout.ActiveSymlinkPath()) {
		t.Error("active symlink should be removed")
	}
	cur, err := env.mgr.Current()
	if err != nil {
		t.Fatal(err)
	}
	if cur.Set {
		t.Errorf("Current() = %+v, want unset", cur)
	}
}

func TestUninstall_Inactive(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.12.0")
	env.installDirect(t, "0.13.0")
	if err := env.mgr.Use("0.13.0"); err != nil {
		t.Fatal(err)
	}

	if err := env.mgr.Uninstall("0.12.0"); err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}

	if exists(env.layout.VersionDir("0.12.0")) {
		t.Error("version directory should be gone")
	}
	assertCurrent(t, env, "0.13.0")
}

func TestUninstall_NotInstalled(t *testing.T) {
	env := newTestEnv(t)

	err := env.mgr.Uninstall("0.13.0")
	if !errors.Is(err, zpmerrors.ErrNotInstalled) {
		t.Fatalf("Uninstall() error = %v, want ErrNotInstalled", err)
	}
}

func TestUninstall_RejectsPathVersionNames(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.13.0")
	if err := env.mgr.Use("0.13.0"); err != nil {
		t.Fatal(err)
	}

	// Resolves to <bin>/zig, the active link, which points at a real file.
	escape, err := filepath.Rel(env.layout.VersionsDir(), env.layout.BinDir)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []string{escape, "..", ".", "", "0.13.0/../0.13.0"} {
		err := env.mgr.Uninstall(v)
		if !errors.Is(err, zpmerrors.ErrNotInstalled) {
			t.Errorf("Uninstall(%q) error = %v, want ErrNotInstalled", v, err)
		}
	}

	if !exists(env.layout.ActiveSymlinkPath()) {
		t.Error("bin directory must survive")
	}
	if !env.mgr.IsInstalled("0.13.0") {
		t.Error("0.13.0 must survive")
	}
	assertCurrent(t, env, "0.13.0")
}

func TestUninstall_DropsCompanionLink(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.12.0")
	env.installDirect(t, "0.13.0")

	zls := filepath.Join(env.layout.CompanionDir("0.12.0"), "zls")
	if err := os.MkdirAll(filepath.Dir(zls), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(zls, []byte("#!zls"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(env.layout.LocalBinDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(zls, env.layout.CompanionSymlinkPath()); err != nil {
		t.Fatal(err)
	}

	// Removing another version keeps the link.
	if err := env.mgr.Uninstall("0.13.0"); err != nil {
		t.Fatal(err)
	}
	if !exists(env.layout.CompanionSymlinkPath()) {
		t.Error("companion link into 0.12.0 should survive removing 0.13.0")
	}

	if err := env.mgr.Uninstall("0.12.0"); err != nil {
		t.Fatal(err)
	}
	if exists(env.layout.CompanionSymlinkPath()) {
		t.Error("companion link into a removed version should be dropped")
	}
}
