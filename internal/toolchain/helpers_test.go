package toolchain

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/zpm/internal/catalog"
	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
	"github.com/ZebulonRouseFrantzich/zpm/internal/layout"
	"github.com/ZebulonRouseFrantzich/zpm/internal/platform"
)

const testHostKey = "x86_64-linux"

var linuxHost = platform.StaticDetector{Info: platform.Info{OS: "linux", Arch: "amd64"}}

// fakeCatalog serves a fixed index and companion release.
type fakeCatalog struct {
	mu           sync.Mutex
	index        catalog.Catalog
	release      *catalog.Release
	err          error
	indexCalls   int
	releaseCalls int
}

func (f *fakeCatalog) FetchIndex(ctx context.Context) (catalog.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.index, nil
}

func (f *fakeCatalog) FetchCompanionRelease(ctx context.Context) (*catalog.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.release, nil
}

// fakeFetcher writes canned bodies keyed by URL and records every request.
type fakeFetcher struct {
	mu       sync.Mutex
	bodies   map[string][]byte
	requests []string
}

func (f *fakeFetcher) Download(ctx context.Context, url, destPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, url)

	body, ok := f.bodies[url]
	if !ok {
		return zpmerrors.New(zpmerrors.ErrDownloadFailed, "%s: HTTP 404", url)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(destPath, body, 0644)
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r == url {
			n++
		}
	}
	return n
}

// countingExtractor wraps the real extractor.
type countingExtractor struct {
	calls int
	inner *artifact.ArchiveExtractor
}

func (c *countingExtractor) Extract(archivePath, destDir string, strip int) error {
	c.calls++
	return c.inner.Extract(archivePath, destDir, strip)
}

// tarGz builds a gzipped tar holding files (path -> content). Paths
// ending in "/" become directories; files named zig or zls are executable.
func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg}
		switch {
		case name[len(name)-1] == '/':
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
			hdr.Size = 0
		case filepath.Base(name) == "zig" || filepath.Base(name) == "zls":
			hdr.Mode = 0755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(content)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func zigArchive(t *testing.T, ver string) []byte {
	top := "zig-linux-x86_64-" + ver + "/"
	return tarGz(t, map[string]string{
		top:                 "",
		top + "zig":         "#!zig " + ver,
		top + "lib/std.zig": "pub const std = {};",
	})
}

func tarballURL(ver string) string {
	return "https://ziglang.org/builds/zig-linux-x86_64-" + ver + ".tar.gz"
}

// testEnv is a manager wired to fakes over a temp layout.
type testEnv struct {
	mgr       *Manager
	layout    layout.Layout
	catalog   *fakeCatalog
	fetcher   *fakeFetcher
	extractor *countingExtractor
}

// newTestEnv publishes the given versions for the linux host. "master"
// carries a dev build string.
func newTestEnv(t *testing.T, versions ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	env := &testEnv{
		layout: layout.Layout{
			Root:   filepath.Join(dir, "root"),
			BinDir: filepath.Join(dir, "bin"),
			GOOS:   "linux",
		},
		catalog:   &fakeCatalog{index: catalog.Catalog{}},
		fetcher:   &fakeFetcher{bodies: map[string][]byte{}},
		extractor: &countingExtractor{inner: artifact.NewExtractor()},
	}

	for _, v := range versions {
		env.publish(t, v)
	}

	mgr, err := NewManager(Options{
		Layout:    env.layout,
		Catalog:   env.catalog,
		Fetcher:   env.fetcher,
		Extractor: env.extractor,
		Detector:  linuxHost,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	env.mgr = mgr
	return env
}

func (e *testEnv) publish(t *testing.T, ver string) {
	t.Helper()
	data := zigArchive(t, ver)
	url := tarballURL(ver)
	e.fetcher.bodies[url] = data

	entry := catalog.Entry{
		Date: "2024-06-07",
		Platforms: map[string]catalog.Artifact{
			testHostKey: {Tarball: url, Shasum: sha256Hex(data), Size: int64(len(data))},
		},
	}
	if ver == "master" {
		entry.Version = "0.14.0-dev.1+abc"
	}
	e.catalog.index[ver] = entry
}

// installDirect puts a binary in place without going through Install.
func (e *testEnv) installDirect(t *testing.T, ver string) {
	t.Helper()
	path := e.layout.BinaryPath(ver)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!zig"), 0755); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
