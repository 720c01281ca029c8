package catalog

import "strings"

// Release is the subset of a GitHub release zpm reads.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	// Digest is "sha256:<hex>" when GitHub computed one.
	Digest string `json:"digest"`
}

// SHA256 returns the hex digest of the asset, or "" if none is published.
func (a Asset) SHA256() string {
	hex, ok := strings.CutPrefix(a.Digest, "sha256:")
	if !ok {
		return ""
	}
	return hex
}

var signatureSuffixes = []string{".minisig", ".sig", ".asc", ".sha256", ".sha256sum", ".pem", ".sbom.json"}

// FindAsset returns the first archive asset built for arch/os. Both
// "arch-os" and "os-arch" naming are accepted; signature and checksum
// files are skipped.
func (r *Release) FindAsset(arch, os string) (Asset, bool) {
	patterns := []string{arch + "-" + os, os + "-" + arch}
	for _, asset := range r.Assets {
		if isSignature(asset.Name) {
			continue
		}
		for _, p := range patterns {
			if strings.Contains(asset.Name, p) {
				return asset, true
			}
		}
	}
	return Asset{}, false
}

func isSignature(name string) bool {
	for _, suffix := range signatureSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
