package toolchain

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

// companionTargets are the host targets ZLS publishes builds for.
var companionTargets = map[string]bool{
	"x86_64-linux":   true,
	"aarch64-linux":  true,
	"x86_64-macos":   true,
	"aarch64-macos":  true,
	"x86_64-windows": true,
}

// CompanionResult describes a completed ZLS install.
type CompanionResult struct {
	// ZigVersion is the current version the server was installed next to.
	ZigVersion string
	// Release is the tag of the ZLS release used.
	Release    string
	Asset      string
	BinaryPath string
	Link       string
	// Verified is set when the release published a digest and it matched.
	Verified bool
}

// InstallCompanion installs the latest ZLS release into the current
// version's directory and points the bin-dir zls symlink at it.
func (m *Manager) InstallCompanion(ctx context.Context) (*CompanionResult, error) {
	current, err := m.Current()
	if err != nil {
		return nil, err
	}
	if !current.Set {
		return nil, zpmerrors.New(zpmerrors.ErrNotInstalled, "no current zig version; run 'zpm use <version>' first")
	}
	if !m.IsInstalled(current.Version) {
		return nil, zpmerrors.New(zpmerrors.ErrNotInstalled, "current version %s", current.Version)
	}

	info, _, err := m.hostTarget(ctx)
	if err != nil {
		return nil, err
	}
	arch, osName, err := info.ZigTarget()
	if err != nil {
		return nil, err
	}
	if !companionTargets[arch+"-"+osName] {
		return nil, zpmerrors.New(zpmerrors.ErrPlatformUnsupported, "zls has no build for %s-%s", arch, osName)
	}

	release, err := m.catalog.FetchCompanionRelease(ctx)
	if err != nil {
		return nil, err
	}
	asset, ok := release.FindAsset(arch, osName)
	if !ok {
		return nil, zpmerrors.New(zpmerrors.ErrNotFound, "zls %s has no asset for %s-%s", release.TagName, arch, osName)
	}
	if artifact.ArchiveExt(asset.Name) == "" {
		return nil, zpmerrors.New(zpmerrors.ErrExtractFailed, "unsupported archive format: %s", asset.Name)
	}

	archivePath := filepath.Join(m.layout.CacheDir(), asset.Name)
	m.logger.Debug("downloading zls", "release", release.TagName, "asset", asset.Name)
	if err := m.fetcher.Download(ctx, asset.BrowserDownloadURL, archivePath); err != nil {
		return nil, err
	}

	result := &CompanionResult{
		ZigVersion: current.Version,
		Release:    release.TagName,
		Asset:      asset.Name,
		Link:       m.layout.CompanionSymlinkPath(),
	}

	if sum := asset.SHA256(); sum != "" {
		if err := artifact.VerifySHA256(archivePath, sum); err != nil {
			return nil, err
		}
		result.Verified = true
	}

	dir := m.layout.CompanionDir(current.Version)
	if err := os.RemoveAll(dir); err != nil {
		return nil, errors.Wrapf(err, "clear %s", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, zpmerrors.Wrap(zpmerrors.ErrExtractFailed, err, "create %s", dir)
	}
	if err := m.extractor.Extract(archivePath, dir, 0); err != nil {
		return nil, err
	}

	bin, err := findBinary(dir, m.layout.CompanionBinaryName())
	if err != nil {
		return nil, zpmerrors.Wrap(zpmerrors.ErrExtractFailed, err, "%s", asset.Name)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(bin, 0755); err != nil {
			return nil, errors.Wrapf(err, "chmod %s", bin)
		}
	}
	result.BinaryPath = bin

	if err := os.MkdirAll(m.layout.LocalBinDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, "create %s", m.layout.LocalBinDir())
	}
	if err := replaceSymlink(bin, result.Link); err != nil {
		return nil, errors.Wrapf(err, "link %s", result.Link)
	}

	m.logger.Info("installed zls", "release", release.TagName, "zig", current.Version, "link", result.Link)
	return result, nil
}

// findBinary returns the first regular file named name under root.
func findBinary(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", errors.Newf("no %s binary in archive", name)
	}
	return found, nil
}
