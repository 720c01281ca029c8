package artifact

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

// ArchiveExtractor unpacks .tar.xz, .tar.gz and .zip archives.
type ArchiveExtractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *ArchiveExtractor {
	return &ArchiveExtractor{}
}

// ArchiveExt returns the archive extension of name (a file name or URL),
// or "" if the format is not supported.
func ArchiveExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{ExtTarXz, ExtTarGz, ExtTgz, ExtZip} {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ""
}

// Extract unpacks archivePath into destDir, dropping the first strip
// components of every entry path. Entries that become empty are skipped.
// Failures are reported as ErrExtractFailed.
func (e *ArchiveExtractor) Extract(archivePath, destDir string, strip int) error {
	var err error
	switch ArchiveExt(archivePath) {
	case ExtTarXz:
		err = e.extractTarXz(archivePath, destDir, strip)
	case ExtTarGz, ExtTgz:
		err = e.extractTarGz(archivePath, destDir, strip)
	case ExtZip:
		err = e.extractZip(archivePath, destDir, strip)
	default:
		err = fmt.Errorf("unsupported archive format")
	}
	if err != nil {
		return zpmerrors.Wrap(zpmerrors.ErrExtractFailed, err, "%s", filepath.Base(archivePath))
	}
	return nil
}

func (e *ArchiveExtractor) extractTarXz(archivePath, destDir string, strip int) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	xzReader, err := xz.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create xz reader: %w", err)
	}

	return extractTar(tar.NewReader(xzReader), destDir, strip)
}

func (e *ArchiveExtractor) extractTarGz(archivePath, destDir string, strip int) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	return extractTar(tar.NewReader(gzipReader), destDir, strip)
}

func extractTar(tarReader *tar.Reader, destDir string, strip int) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target, ok, err := entryTarget(destDir, header.Name, strip)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := writeSymlink(destDir, target, header.Linkname); err != nil {
				return err
			}

		default:
			// Skip other types (hard links, devices, fifos)
			continue
		}
	}
}

func (e *ArchiveExtractor) extractZip(archivePath, destDir string, strip int) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for _, f := range zr.File {
		target, ok, err := entryTarget(destDir, f.Name, strip)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		mode := f.Mode().Perm()
		if mode == 0 {
			mode = 0644
		}
		err = writeFile(target, rc, mode)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// entryTarget maps an archive entry name to a path under destDir. It
// returns ok=false when stripping consumes the whole name.
func entryTarget(destDir, name string, strip int) (string, bool, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	if len(parts) <= strip {
		return "", false, nil
	}
	rel := path.Join(parts[strip:]...)
	if rel == "." || rel == "" {
		return "", false, nil
	}

	target := filepath.Join(destDir, filepath.FromSlash(rel))
	if !within(destDir, target) {
		return "", false, fmt.Errorf("illegal file path: %s", name)
	}
	return target, true, nil
}

func within(root, target string) bool {
	root = filepath.Clean(root)
	return target == root || strings.HasPrefix(target, root+string(os.PathSeparator))
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	return outFile.Close()
}

func writeSymlink(destDir, target, linkname string) error {
	resolved := linkname
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(target), linkname)
	}
	if !within(destDir, filepath.Clean(resolved)) {
		return fmt.Errorf("illegal symlink target: %s -> %s", target, linkname)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}
	os.Remove(target)
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("create symlink %s: %w", target, err)
	}
	return nil
}
