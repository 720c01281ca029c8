package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/ZebulonRouseFrantzich/zpm/internal/platform"
	"github.com/ZebulonRouseFrantzich/zpm/internal/testutil"
)

// fakeRelease serves a Zig index with 0.12.0, 0.13.0 and master for
// x86_64-linux, their archives, and a ZLS release.
type fakeRelease struct {
	server   *httptest.Server
	archives map[string][]byte
	// shasums may be edited to simulate corruption.
	shasums map[string]string
}

func newFakeRelease(t *testing.T) *fakeRelease {
	t.Helper()

	f := &fakeRelease{archives: map[string][]byte{}, shasums: map[string]string{}}
	for _, v := range []string{"0.12.0", "0.13.0", "master"} {
		top := "zig-linux-x86_64-" + v + "/"
		data := tarGz(t, map[string]string{
			top + "zig":         "#!/bin/sh\necho " + v + "\n",
			top + "lib/std.zig": "",
		})
		f.archives["/zig-linux-x86_64-"+v+".tar.gz"] = data
		f.shasums[v] = sha256Hex(data)
	}
	zls := tarGz(t, map[string]string{"zls": "#!zls"})
	f.archives["/zls-x86_64-linux.tar.gz"] = zls
	f.shasums["zls"] = sha256Hex(zls)

	mux := http.NewServeMux()
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.index())
	})
	mux.HandleFunc("/zls/latest", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"tag_name": "0.13.0",
			"assets": []map[string]string{{
				"name":                 "zls-x86_64-linux.tar.gz",
				"browser_download_url": f.server.URL + "/zls-x86_64-linux.tar.gz",
				"digest":               "sha256:" + f.shasums["zls"],
			}},
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		data, ok := f.archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRelease) index() map[string]any {
	index := map[string]any{}
	for _, v := range []string{"0.12.0", "0.13.0", "master"} {
		path := "/zig-linux-x86_64-" + v + ".tar.gz"
		entry := map[string]any{
			"date": "2024-06-07",
			"x86_64-linux": map[string]string{
				"tarball": f.server.URL + path,
				"shasum":  f.shasums[v],
				"size":    strconv.Itoa(len(f.archives[path])),
			},
		}
		if v == "master" {
			entry["version"] = "0.14.0-dev.100+abcdef"
		}
		index[v] = entry
	}
	return index
}

func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Mode: 0755, Size: int64(len(content)), Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// cli runs zpm commands against a temp home and a fake release server.
type cli struct {
	t       *testing.T
	home    string
	release *fakeRelease
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	color.NoColor = true
	home := testutil.SetupTestEnv(t)
	release := newFakeRelease(t)
	t.Setenv("ZPM_INDEX_URL", release.server.URL+"/index.json")
	t.Setenv("ZPM_ZLS_RELEASE_URL", release.server.URL+"/zls/latest")
	t.Setenv("SHELL", "/bin/bash")

	return &cli{t: t, home: home, release: release}
}

// run executes args and returns the exit code and both output streams.
func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()

	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	a.detector = platform.StaticDetector{Info: platform.Info{OS: "linux", Arch: "amd64"}}

	code := a.run(context.Background(), args)
	return code, stdout.String(), stderr.String()
}

// mustRun fails the test unless args exit 0.
func (c *cli) mustRun(args ...string) string {
	c.t.Helper()

	code, stdout, stderr := c.run(args...)
	require.Equal(c.t, 0, code, "zpm %v\nstdout: %s\nstderr: %s", args, stdout, stderr)
	return stdout
}

func (c *cli) root() string   { return filepath.Join(c.home, ".zpm") }
func (c *cli) binDir() string { return filepath.Join(c.home, ".local", "bin") }
