package drift

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/zpm/internal/layout"
	"github.com/ZebulonRouseFrantzich/zpm/internal/version"
)

// Detector inspects a layout and the process environment.
type Detector struct {
	layout layout.Layout

	// Replaced in tests.
	lookPath      func(file string) (string, error)
	detectVersion func(ctx context.Context, binaryPath string) (string, error)
}

// NewDetector creates a Detector that searches PATH and runs
// "zig version" to learn the active version.
func NewDetector(l layout.Layout) *Detector {
	return &Detector{
		layout:        l,
		lookPath:      exec.LookPath,
		detectVersion: DetectVersion,
	}
}

// Detect checks zig against selected, the marker's version ("" when
// none is selected), and checks that the zls link, if present, is not
// dangling.
func (d *Detector) Detect(ctx context.Context, selected string) []Result {
	results := []Result{d.detectToolchain(ctx, selected)}
	if r, ok := d.detectCompanion(); ok {
		results = append(results, r)
	}
	return results
}

func (d *Detector) detectToolchain(ctx context.Context, selected string) Result {
	r := Result{
		Tool:     d.layout.BinaryName(),
		Selected: selected,
		LinkPath: d.layout.ActiveSymlinkPath(),
	}
	r.LinkTarget, _ = os.Readlink(r.LinkPath)

	if path, err := d.lookPath(d.layout.BinaryName()); err == nil {
		r.ActivePath = resolve(path)
	}

	r.DriftType = d.classify(ctx, &r)
	return r
}

// classify picks the first matching drift type:
//  1. nothing selected
//  2. selected version not installed
//  3. link absent or dangling
//  4. link points elsewhere
//  5. no zig on PATH
//  6. PATH zig is not the selected binary
//  7. version not reported
//  8. reported version differs (skipped for master builds)
func (d *Detector) classify(ctx context.Context, r *Result) DriftType {
	if r.Selected == "" {
		if r.LinkTarget != "" {
			return DriftLinkMismatch
		}
		return DriftNoSelection
	}

	want := d.layout.BinaryPath(r.Selected)
	if !isFile(want) {
		return DriftNotInstalled
	}
	if r.LinkTarget == "" || !isFile(r.LinkPath) {
		return DriftLinkMissing
	}
	if filepath.Clean(r.LinkTarget) != filepath.Clean(want) {
		return DriftLinkMismatch
	}
	if r.ActivePath == "" {
		return DriftNotOnPath
	}
	if r.ActivePath != resolve(want) {
		return DriftExternalOverride
	}

	v, err := d.detectVersion(ctx, r.ActivePath)
	if err != nil {
		return DriftVersionUnknown
	}
	r.ActiveVersion = v
	if r.Selected != version.Master && v != r.Selected {
		return DriftVersionMismatch
	}
	return DriftOK
}

func (d *Detector) detectCompanion() (Result, bool) {
	link := d.layout.CompanionSymlinkPath()
	target, err := os.Readlink(link)
	if err != nil {
		return Result{}, false
	}

	r := Result{
		Tool:       d.layout.CompanionBinaryName(),
		LinkPath:   link,
		LinkTarget: target,
		DriftType:  DriftOK,
	}
	if !isFile(link) {
		r.DriftType = DriftLinkMissing
	}
	return r, true
}

func resolve(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
