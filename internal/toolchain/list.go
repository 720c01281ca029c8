package toolchain

import (
	"context"
	"os"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/ZebulonRouseFrantzich/zpm/internal/version"
)

// InstalledVersion is one entry of the local listing.
type InstalledVersion struct {
	Version string `json:"version" yaml:"version"`
	Path    string `json:"path" yaml:"path"`
	Current bool   `json:"current" yaml:"current"`
}

// RemoteVersion is one entry of the catalog listing.
type RemoteVersion struct {
	// Version is the catalog key.
	Version string `json:"version" yaml:"version"`
	// Build is the concrete build for keys like "master"; empty otherwise.
	Build string `json:"build,omitempty" yaml:"build,omitempty"`
	Date  string `json:"date,omitempty" yaml:"date,omitempty"`
	// Available is set when the entry has a build for the host.
	Available bool `json:"available" yaml:"available"`
	Installed bool `json:"installed" yaml:"installed"`
	Current   bool `json:"current" yaml:"current"`
}

// Installed returns the installed versions in version.Sort order, newest
// release first and master last. A directory under versions/ without a
// binary is ignored.
func (m *Manager) Installed() ([]string, error) {
	entries, err := os.ReadDir(m.layout.VersionsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read versions directory")
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() && m.IsInstalled(e.Name()) {
			versions = append(versions, e.Name())
		}
	}
	slices.Sort(versions)
	version.Sort(versions)
	return versions, nil
}

// ListInstalled returns Installed with the current version flagged.
func (m *Manager) ListInstalled() ([]InstalledVersion, error) {
	versions, err := m.Installed()
	if err != nil {
		return nil, err
	}
	current, err := m.Current()
	if err != nil {
		return nil, err
	}

	out := make([]InstalledVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, InstalledVersion{
			Version: v,
			Path:    m.layout.VersionDir(v),
			Current: current.Set && current.Version == v,
		})
	}
	return out, nil
}

// ListRemote fetches the catalog and returns every entry in version.Sort
// order. An unsupported host is not an error here; every entry is then
// reported unavailable.
func (m *Manager) ListRemote(ctx context.Context) ([]RemoteVersion, error) {
	cat, err := m.catalog.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	_, key, err := m.hostTarget(ctx)
	if err != nil {
		m.logger.Debug("no host platform key", "error", err)
	}

	current, err := m.Current()
	if err != nil {
		return nil, err
	}

	keys := cat.Versions()
	out := make([]RemoteVersion, 0, len(keys))
	for _, k := range keys {
		entry := cat[k]
		rv := RemoteVersion{
			Version:   k,
			Date:      entry.Date,
			Installed: m.IsInstalled(k),
			Current:   current.Set && current.Version == k,
		}
		if build := entry.DisplayVersion(k); build != k {
			rv.Build = build
		}
		if key != "" {
			_, rv.Available = entry.Platforms[key]
		}
		out = append(out, rv)
	}
	return out, nil
}
