package platform

import (
	"strings"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// zigArchMap maps GOARCH values to the architecture names in the release index.
var zigArchMap = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"arm":     "arm",
	"386":     "x86",
	"riscv64": "riscv64",
	"ppc64le": "powerpc64le",
	"loong64": "loongarch64",
}

// zigOSMap maps GOOS values to the OS names in the release index.
var zigOSMap = map[string]string{
	"linux":   "linux",
	"darwin":  "macos",
	"windows": "windows",
	"freebsd": "freebsd",
}

func zigArch(goarch string) (string, error) {
	if arch, ok := zigArchMap[goarch]; ok {
		return arch, nil
	}
	return "", zpmerrors.New(zpmerrors.ErrPlatformUnsupported, "architecture %q", goarch)
}

func zigOS(goos string) (string, error) {
	if name, ok := zigOSMap[goos]; ok {
		return name, nil
	}
	return "", zpmerrors.New(zpmerrors.ErrPlatformUnsupported, "operating system %q", goos)
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
