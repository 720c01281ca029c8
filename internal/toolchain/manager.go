package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/zpm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/zpm/internal/layout"
	"github.com/ZebulonRouseFrantzich/zpm/internal/platform"
)

// CatalogSource supplies release metadata.
type CatalogSource interface {
	FetchIndex(ctx context.Context) (catalog.Catalog, error)
	FetchCompanionRelease(ctx context.Context) (*catalog.Release, error)
}

// Fetcher downloads a URL to a local path.
type Fetcher interface {
	Download(ctx context.Context, url, destPath string) error
}

// Verifier checks a downloaded archive.
type Verifier interface {
	Verify(archivePath, expectedSHA256, signaturePath string) (*artifact.VerificationResult, error)
	// SignatureSuffix is appended to an archive URL to find its
	// signature, or "" when signatures are not checked.
	SignatureSuffix() string
}

// Extractor unpacks an archive into destDir, dropping the first strip
// path components of every entry.
type Extractor interface {
	Extract(archivePath, destDir string, strip int) error
}

// Options configures a Manager.
type Options struct {
	Layout  layout.Layout
	Catalog CatalogSource
	Fetcher Fetcher

	// Optional; defaults are the artifact package implementations, host
	// detection and a discarding logger.
	Verifier  Verifier
	Extractor Extractor
	Detector  platform.Detector
	Logger    *slog.Logger
}

// Manager performs toolchain operations against one layout.
type Manager struct {
	layout    layout.Layout
	catalog   CatalogSource
	fetcher   Fetcher
	verifier  Verifier
	extractor Extractor
	detector  platform.Detector
	logger    *slog.Logger
}

// NewManager creates a Manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.Layout.Root == "" {
		return nil, fmt.Errorf("install root is required")
	}
	if opts.Layout.BinDir == "" {
		return nil, fmt.Errorf("bin directory is required")
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	if opts.Verifier == nil {
		opts.Verifier = artifact.NewVerifier(artifact.VerifierOptions{})
	}
	if opts.Extractor == nil {
		opts.Extractor = artifact.NewExtractor()
	}
	if opts.Detector == nil {
		opts.Detector = platform.NewDetector()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Manager{
		layout:    opts.Layout,
		catalog:   opts.Catalog,
		fetcher:   opts.Fetcher,
		verifier:  opts.Verifier,
		extractor: opts.Extractor,
		detector:  opts.Detector,
		logger:    opts.Logger,
	}, nil
}

// Layout returns the manager's filesystem layout.
func (m *Manager) Layout() layout.Layout {
	return m.layout
}

// IsInstalled reports whether version is a plain directory name under
// the versions root whose binary exists.
func (m *Manager) IsInstalled(version string) bool {
	if !layout.ValidVersion(version) {
		return false
	}
	info, err := os.Stat(m.layout.BinaryPath(version))
	return err == nil && info.Mode().IsRegular()
}

// hostTarget detects the host and returns its platform key.
func (m *Manager) hostTarget(ctx context.Context) (*platform.Info, string, error) {
	info, err := m.detector.Detect(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("detect platform: %w", err)
	}
	key, err := info.Key()
	if err != nil {
		return nil, "", err
	}
	return info, key, nil
}
