package artifact

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ulikunitz/xz"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

type testEntry struct {
	name    string
	content string
	mode    int64
	link    string
}

func writeTar(t *testing.T, w io.Writer, entries []testEntry) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, e := range entries {
		header := &tar.Header{Name: e.name, Mode: e.mode}
		switch {
		case e.link != "":
			header.Typeflag = tar.TypeSymlink
			header.Linkname = e.link
		case e.name[len(e.name)-1] == '/':
			header.Typeflag = tar.TypeDir
			header.Mode = 0755
		default:
			header.Typeflag = tar.TypeReg
			header.Size = int64(len(e.content))
			if header.Mode == 0 {
				header.Mode = 0644
			}
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", e.name, err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.content)); err != nil {
				t.Fatalf("failed to write content for %s: %v", e.name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
}

func createTarGz(t *testing.T, entries []testEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gw := gzip.NewWriter(f)
	writeTar(t, gw, entries)
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func createTarXz(t *testing.T, entries []testEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tar.xz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	xw, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	writeTar(t, xw, entries)
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func createZip(t *testing.T, entries []testEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for _, e := range entries {
		fh := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		mode := os.FileMode(0644)
		if e.mode != 0 {
			mode = os.FileMode(e.mode)
		}
		if e.name[len(e.name)-1] == '/' {
			mode = os.ModeDir | 0755
		}
		fh.SetMode(mode)
		w, err := zw.CreateHeader(fh)
		if err != nil {
			t.Fatal(err)
		}
		if !mode.IsDir() {
			w.Write([]byte(e.content))
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	sort.Strings(files)
	return files
}

var toolchainEntries = []testEntry{
	{name: "zig-linux-x86_64-0.13.0/"},
	{name: "zig-linux-x86_64-0.13.0/zig", content: "#!/bin/sh\necho zig\n", mode: 0755},
	{name: "zig-linux-x86_64-0.13.0/lib/std/std.zig", content: "pub const x = 1;"},
	{name: "zig-linux-x86_64-0.13.0/LICENSE", content: "MIT"},
}

func TestExtract_StripsOneComponent(t *testing.T) {
	formats := map[string]func(*testing.T, []testEntry) string{
		"tar.gz": createTarGz,
		"tar.xz": createTarXz,
		"zip":    createZip,
	}

	for name, create := range formats {
		t.Run(name, func(t *testing.T) {
			archive := create(t, toolchainEntries)
			dest := filepath.Join(t.TempDir(), "versions", "0.13.0")

			if err := NewExtractor().Extract(archive, dest, 1); err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			got := listFiles(t, dest)
			want := []string{"LICENSE", "lib/std/std.zig", "zig"}
			if len(got) != len(want) {
				t.Fatalf("files = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("files[%d] = %q, want %q", i, got[i], want[i])
				}
			}

			info, err := os.Stat(filepath.Join(dest, "zig"))
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm()&0100 == 0 {
				t.Errorf("zig binary mode = %v, want executable", info.Mode())
			}
		})
	}
}

func TestExtract_NoStrip(t *testing.T) {
	archive := createZip(t, []testEntry{
		{name: "zls", content: "binary", mode: 0755},
		{name: "README.md", content: "docs"},
	})
	dest := t.TempDir()

	if err := NewExtractor().Extract(archive, dest, 0); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "zls")); err != nil {
		t.Errorf("zls not extracted: %v", err)
	}
}

func TestExtract_PathTraversal(t *testing.T) {
	tests := []struct {
		name    string
		entries []testEntry
		strip   int
	}{
		{
			name:    "dotdot_entry",
			entries: []testEntry{{name: "../evil.txt", content: "x"}},
		},
		{
			name:    "dotdot_after_strip",
			entries: []testEntry{{name: "top/../../../evil.txt", content: "x"}},
			strip:   1,
		},
		{
			name:    "symlink_escape",
			entries: []testEntry{{name: "top/link", link: "../../../etc/passwd"}},
			strip:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := createTarGz(t, tt.entries)
			parent := t.TempDir()
			dest := filepath.Join(parent, "out")

			err := NewExtractor().Extract(archive, dest, tt.strip)
			if !errors.Is(err, zpmerrors.ErrExtractFailed) {
				t.Fatalf("error = %v, want ErrExtractFailed", err)
			}
			if _, err := os.Stat(filepath.Join(parent, "evil.txt")); !os.IsNotExist(err) {
				t.Error("file escaped destination directory")
			}
		})
	}
}

func TestExtract_InternalSymlink(t *testing.T) {
	archive := createTarXz(t, []testEntry{
		{name: "top/bin/real", content: "data"},
		{name: "top/bin/alias", link: "real"},
	})
	dest := t.TempDir()

	if err := NewExtractor().Extract(archive, dest, 1); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	target, err := os.Readlink(filepath.Join(dest, "bin", "alias"))
	if err != nil {
		t.Fatalf("Readlink() error = %v", err)
	}
	if target != "real" {
		t.Errorf("link target = %q, want real", target)
	}
}

func TestExtract_Failures(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.tar.xz")
	os.WriteFile(corrupt, []byte("not xz at all"), 0644)
	unknown := filepath.Join(dir, "archive.rar")
	os.WriteFile(unknown, []byte("rar"), 0644)

	tests := []struct {
		name    string
		archive string
	}{
		{"corrupt_xz", corrupt},
		{"unsupported_extension", unknown},
		{"missing_file", filepath.Join(dir, "missing.tar.gz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExtractor().Extract(tt.archive, filepath.Join(t.TempDir(), "out"), 1)
			if !errors.Is(err, zpmerrors.ErrExtractFailed) {
				t.Fatalf("error = %v, want ErrExtractFailed", err)
			}
		})
	}
}

func TestArchiveExt(t *testing.T) {
	tests := map[string]string{
		"https://ziglang.org/download/0.13.0/zig-linux-x86_64-0.13.0.tar.xz": ExtTarXz,
		"zig-windows-x86_64-0.13.0.zip":                                      ExtZip,
		"zls-linux.TAR.GZ":                                                   ExtTarGz,
		"zls.tgz":                                                            ExtTgz,
		"zls.tar.xz.minisig":                                                 "",
		"zig":                                                                "",
	}
	for in, want := range tests {
		if got := ArchiveExt(in); got != want {
			t.Errorf("ArchiveExt(%q) = %q, want %q", in, got, want)
		}
	}
}
