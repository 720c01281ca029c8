package toolchain

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/zpm/internal/catalog"
	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
	"github.com/ZebulonRouseFrantzich/zpm/internal/layout"
)

// toolchainStrip is the number of leading path components dropped from
// toolchain archives ("zig-linux-x86_64-0.13.0/zig" becomes "zig").
const toolchainStrip = 1

// InstallResult describes a completed install.
type InstallResult struct {
	// Version is the concrete catalog key the token resolved to.
	Version string
	// Platform is the host platform key, e.g. "x86_64-linux".
	Platform   string
	BinaryPath string
	// AlreadyInstalled is set when nothing was downloaded.
	AlreadyInstalled bool
	// Activated is set when the version was made current.
	Activated bool
	// Verification lists the checks the archive passed; nil when
	// AlreadyInstalled.
	Verification *artifact.VerificationResult
}

// Install resolves token and installs the matching toolchain for the
// host. An installed version is not downloaded again. When setDefault is
// set the version is activated afterwards, including when it was already
// installed; an activation failure leaves the installed version in place.
func (m *Manager) Install(ctx context.Context, token string, setDefault bool) (*InstallResult, error) {
	_, key, err := m.hostTarget(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := m.catalog.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	ver, entry, err := catalog.Resolve(cat, token)
	if err != nil {
		return nil, err
	}
	if !layout.ValidVersion(ver) {
		return nil, zpmerrors.New(zpmerrors.ErrNotFound, "%q is not a usable version name", ver)
	}
	m.logger.Debug("resolved version", "token", token, "version", ver)

	art, ok := entry.Platforms[key]
	if !ok {
		return nil, zpmerrors.New(zpmerrors.ErrPlatformUnsupported, "zig %s has no build for %s", ver, key)
	}

	result := &InstallResult{
		Version:    ver,
		Platform:   key,
		BinaryPath: m.layout.BinaryPath(ver),
	}

	if m.IsInstalled(ver) {
		m.logger.Info("version already installed", "version", ver)
		result.AlreadyInstalled = true
	} else {
		verification, err := m.fetchAndUnpack(ctx, ver, key, art)
		if err != nil {
			return nil, err
		}
		result.Verification = verification
		m.logger.Info("installed version", "version", ver, "path", m.layout.VersionDir(ver))
	}

	if setDefault {
		if err := m.Use(ver); err != nil {
			return result, errors.Wrapf(err, "activate %s", ver)
		}
		result.Activated = true
	}
	return result, nil
}

func (m *Manager) fetchAndUnpack(ctx context.Context, ver, key string, art catalog.Artifact) (*artifact.VerificationResult, error) {
	ext := artifact.ArchiveExt(art.Tarball)
	if ext == "" {
		return nil, zpmerrors.New(zpmerrors.ErrExtractFailed, "unsupported archive format: %s", art.Tarball)
	}

	archivePath := m.layout.CachePath(key, ver, ext)
	m.logger.Debug("downloading archive", "url", art.Tarball, "dest", archivePath, "size", art.Size)
	if err := m.fetcher.Download(ctx, art.Tarball, archivePath); err != nil {
		return nil, err
	}

	var sigPath string
	if suffix := m.verifier.SignatureSuffix(); suffix != "" {
		sigPath = archivePath + suffix
		if err := m.fetcher.Download(ctx, art.Tarball+suffix, sigPath); err != nil {
			return nil, err
		}
	}

	verification, err := m.verifier.Verify(archivePath, art.Shasum, sigPath)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("archive verified", "methods", verification.Methods)

	versionDir := m.layout.VersionDir(ver)
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return nil, zpmerrors.Wrap(zpmerrors.ErrExtractFailed, err, "create %s", versionDir)
	}
	if err := m.extractor.Extract(archivePath, versionDir, toolchainStrip); err != nil {
		return nil, err
	}
	if !m.IsInstalled(ver) {
		return nil, zpmerrors.New(zpmerrors.ErrExtractFailed, "archive has no %s at its top level", m.layout.BinaryName())
	}
	return verification, nil
}
