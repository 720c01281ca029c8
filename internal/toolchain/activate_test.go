package toolchain

import (
	"errors"
	"os"
	"testing"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

func TestUse(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.12.0")
	env.installDirect(t, "0.13.0")

	if err := env.mgr.Use("0.12.0"); err != nil {
		t.Fatalf("Use() error = %v", err)
	}
	assertCurrent(t, env, "0.12.0")

	if err := env.mgr.Use("0.13.0"); err != nil {
		t.Fatalf("Use() error = %v", err)
	}
	assertCurrent(t, env, "0.13.0")

	// Re-activating is a no-op in effect.
	if err := env.mgr.Use("0.13.0"); err != nil {
		t.Fatalf("Use() again error = %v", err)
	}
	assertCurrent(t, env, "0.13.0")
}

func TestUse_NotInstalled(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.12.0")
	if err := env.mgr.Use("0.12.0"); err != nil {
		t.Fatal(err)
	}

	err := env.mgr.Use("0.13.0")
	if !errors.Is(err, zpmerrors.ErrNotInstalled) {
		t.Fatalf("Use() error = %v, want ErrNotInstalled", err)
	}
	assertCurrent(t, env, "0.12.0")
}

func TestUse_RejectsPathVersionNames(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.13.0")
	if err := env.mgr.Use("0.13.0"); err != nil {
		t.Fatal(err)
	}

	for _, v := range []string{"../versions/0.13.0/../0.13.0", "0.13.0/", "..", ""} {
		if err := env.mgr.Use(v); !errors.Is(err, zpmerrors.ErrNotInstalled) {
			t.Errorf("Use(%q) error = %v, want ErrNotInstalled", v, err)
		}
	}
	assertCurrent(t, env, "0.13.0")
}

func TestUse_ReplacesDanglingLink(t *testing.T) {
	env := newTestEnv(t)
	env.installDirect(t, "0.13.0")

	if err := os.MkdirAll(env.layout.LocalBinDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("/nonexistent/zig", env.layout.ActiveSymlinkPath()); err != nil {
		t.Fatal(err)
	}

	if err := env.mgr.Use("0.13.0"); err != nil {
		t.Fatalf("Use() error = %v", err)
	}
	assertCurrent(t, env, "0.13.0")
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name   string
		marker *string
		want   Pointer
	}{
		{name: "no marker", want: Pointer{}},
		{name: "empty marker", marker: ptr(""), want: Pointer{}},
		{name: "plain", marker: ptr("0.13.0"), want: Pointer{Version: "0.13.0", Set: true}},
		{name: "trailing newline", marker: ptr("master\n"), want: Pointer{Version: "master", Set: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.marker != nil {
				if err := os.MkdirAll(env.layout.Root, 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(env.layout.CurrentMarkerFile(), []byte(*tt.marker), 0644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := env.mgr.Current()
			if err != nil {
				t.Fatalf("Current() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Current() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func ptr(s string) *string { return &s }
