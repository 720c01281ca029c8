package toolchain

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

// Uninstall deletes an installed version. If it was current, the symlink
// and marker are removed as well, leaving no version selected. Removing
// any other version leaves the pointer alone.
func (m *Manager) Uninstall(version string) error {
	if !m.IsInstalled(version) {
		return zpmerrors.New(zpmerrors.ErrNotInstalled, "%s", version)
	}

	current, err := m.Current()
	if err != nil {
		return err
	}

	versionDir := m.layout.VersionDir(version)
	if err := os.RemoveAll(versionDir); err != nil {
		return errors.Wrapf(err, "remove %s", versionDir)
	}
	m.logger.Info("removed version", "version", version, "path", versionDir)

	if err := m.dropCompanionLink(versionDir); err != nil {
		return err
	}

	if !current.Set || current.Version != version {
		return nil
	}

	if err := removeIfExists(m.layout.ActiveSymlinkPath()); err != nil {
		return errors.Wrap(err, "remove active symlink")
	}
	if err := removeIfExists(m.layout.CurrentMarkerFile()); err != nil {
		return errors.Wrap(err, "remove current marker")
	}
	m.logger.Info("cleared current version", "version", version)
	return nil
}

// dropCompanionLink removes the companion symlink if it points into dir.
func (m *Manager) dropCompanionLink(dir string) error {
	link := m.layout.CompanionSymlinkPath()
	target, err := os.Readlink(link)
	if err != nil {
		return nil
	}
	if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(dir)+string(os.PathSeparator)) {
		return nil
	}
	if err := removeIfExists(link); err != nil {
		return errors.Wrap(err, "remove companion symlink")
	}
	return nil
}
