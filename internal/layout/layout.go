// Package layout computes every on-disk path zpm reads or writes.
//
// All methods are pure: they join strings and never touch the filesystem.
// Every other package goes through a Layout instead of building paths by
// hand, so the directory scheme is defined in exactly one place.
package layout

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

const (
	// DirName is the install root directory name under $HOME.
	DirName = ".zpm"

	versionsDir   = "versions"
	cacheDir      = "cache"
	currentFile   = "current"
	lockFile      = "zpm.lock"
	companionDir  = "zls"
	toolName      = "zig"
	companionName = "zls"
)

// Layout is the set of paths derived from an install root and a bin directory.
type Layout struct {
	// Root holds versions/, cache/ and the current marker.
	Root string
	// BinDir receives the active symlinks; it is expected to be on PATH.
	BinDir string
	// GOOS selects executable naming. Empty means runtime.GOOS.
	GOOS string
}

// Default returns the conventional layout for a home directory:
// ~/.zpm for the root and the XDG bin directory (~/.local/bin) for links.
func Default(home string) Layout {
	binDir := xdg.BinHome
	if binDir == "" {
		binDir = filepath.Join(home, ".local", "bin")
	}
	return Layout{
		Root:   filepath.Join(home, DirName),
		BinDir: binDir,
	}
}

// VersionsDir is <root>/versions.
func (l Layout) VersionsDir() string {
	return filepath.Join(l.Root, versionsDir)
}

// CacheDir is <root>/cache.
func (l Layout) CacheDir() string {
	return filepath.Join(l.Root, cacheDir)
}

// CurrentMarkerFile is <root>/current.
func (l Layout) CurrentMarkerFile() string {
	return filepath.Join(l.Root, currentFile)
}

// LockFile is <root>/zpm.lock.
func (l Layout) LockFile() string {
	return filepath.Join(l.Root, lockFile)
}

// ValidVersion reports whether v can name a directory directly under
// VersionsDir. Empty names, "." and "..", and anything holding a path
// separator are rejected.
func ValidVersion(v string) bool {
	if v == "" || v == "." || v == ".." {
		return false
	}
	return !strings.ContainsAny(v, `/\`+string(filepath.Separator))
}

// VersionDir is <root>/versions/<v>.
func (l Layout) VersionDir(v string) string {
	return filepath.Join(l.VersionsDir(), v)
}

// BinaryPath is the toolchain executable inside VersionDir(v).
func (l Layout) BinaryPath(v string) string {
	return filepath.Join(l.VersionDir(v), l.BinaryName())
}

// LocalBinDir is the directory holding the active symlinks.
func (l Layout) LocalBinDir() string {
	return l.BinDir
}

// ActiveSymlinkPath is <bin-dir>/zig.
func (l Layout) ActiveSymlinkPath() string {
	return filepath.Join(l.BinDir, l.BinaryName())
}

// CachePath is <root>/cache/<platform>-<version><ext>; ext includes its
// leading dot, e.g. ".tar.xz".
func (l Layout) CachePath(platform, version, ext string) string {
	return filepath.Join(l.CacheDir(), platform+"-"+version+ext)
}

// CompanionDir is where the language server is unpacked for version v.
func (l Layout) CompanionDir(v string) string {
	return filepath.Join(l.VersionDir(v), companionDir)
}

// CompanionSymlinkPath is <bin-dir>/zls.
func (l Layout) CompanionSymlinkPath() string {
	return filepath.Join(l.BinDir, l.CompanionBinaryName())
}

// BinaryName is the toolchain executable name for the target OS.
func (l Layout) BinaryName() string {
	return l.exe(toolName)
}

// CompanionBinaryName is the language server executable name for the target OS.
func (l Layout) CompanionBinaryName() string {
	return l.exe(companionName)
}

func (l Layout) exe(name string) string {
	goos := l.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos == "windows" {
		return name + ".exe"
	}
	return name
}
