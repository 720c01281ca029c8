package toolchain

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

// Pointer is the current-version selection. The zero value is unset.
type Pointer struct {
	Version string
	Set     bool
}

// Use makes version current: the bin-dir symlink is recreated to point at
// its binary, then the marker file is rewritten.
func (m *Manager) Use(version string) error {
	if !m.IsInstalled(version) {
		return zpmerrors.New(zpmerrors.ErrNotInstalled, "%s", version)
	}

	if err := os.MkdirAll(m.layout.LocalBinDir(), 0755); err != nil {
		return errors.Wrapf(err, "create %s", m.layout.LocalBinDir())
	}

	link := m.layout.ActiveSymlinkPath()
	if err := replaceSymlink(m.layout.BinaryPath(version), link); err != nil {
		return errors.Wrapf(err, "link %s", link)
	}

	if err := writeMarker(m.layout.CurrentMarkerFile(), version); err != nil {
		return errors.Wrap(err, "write current marker")
	}

	m.logger.Info("activated version", "version", version, "link", link)
	return nil
}

// Current reads the marker file.
func (m *Manager) Current() (Pointer, error) {
	data, err := os.ReadFile(m.layout.CurrentMarkerFile())
	if os.IsNotExist(err) {
		return Pointer{}, nil
	}
	if err != nil {
		return Pointer{}, errors.Wrap(err, "read current marker")
	}

	v := strings.TrimSpace(string(data))
	if v == "" {
		return Pointer{}, nil
	}
	return Pointer{Version: v, Set: true}, nil
}

// replaceSymlink points link at target, removing whatever is at link
// first. Lstat is used so dangling links are replaced too.
func replaceSymlink(target, link string) error {
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(target, link)
}

// writeMarker replaces path with version through a temp file and rename.
func writeMarker(path, version string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".current-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(version); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
