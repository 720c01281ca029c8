// Package platform detects the host OS and architecture and maps them to
// the "{arch}-{os}" keys used by the Zig release index.
//
// Detection uses runtime.GOOS/GOARCH for the build target and gopsutil for
// Linux distribution details, which are informational only (logged and
// exposed to the Lua config). The package also injects the detected
// platform into a Lua state as a read-only table.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // GOOS: "linux", "darwin", "windows"
	Arch     string // GOARCH: "amd64", "arm64", ...
	Platform string // distro ID (Linux only, e.g., "ubuntu")
	Family   string // canonical family (e.g., "debian")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.OS == "darwin" && i.Arch == "arm64"
}

// Key returns the release index platform key, e.g. "x86_64-linux".
// Hosts with no Zig build target fail with ErrPlatformUnsupported.
func (i *Info) Key() (string, error) {
	arch, osName, err := i.ZigTarget()
	if err != nil {
		return "", err
	}
	return arch + "-" + osName, nil
}

// ZigTarget returns the Zig names for the host architecture and OS.
func (i *Info) ZigTarget() (arch, osName string, err error) {
	if arch, err = zigArch(i.Arch); err != nil {
		return "", "", err
	}
	if osName, err = zigOS(i.OS); err != nil {
		return "", "", err
	}
	return arch, osName, nil
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It is used to pin the platform in
// tests and when the target is overridden explicitly.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the fixed Info.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	info := s.Info
	return &info, nil
}
