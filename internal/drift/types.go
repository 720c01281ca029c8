// Package drift detects disagreement between the three places that say
// which Zig is current: the marker file, the bin-dir symlink, and the zig
// that PATH actually resolves to.
package drift

// DriftType classifies one check.
type DriftType int

const (
	DriftOK DriftType = iota
	// DriftNoSelection means no version is selected and no link exists.
	DriftNoSelection
	// DriftNotInstalled means the marker names a version whose binary is gone.
	DriftNotInstalled
	// DriftLinkMissing means the symlink is absent or dangling.
	DriftLinkMissing
	// DriftLinkMismatch means the symlink points somewhere other than the
	// marker's version.
	DriftLinkMismatch
	// DriftNotOnPath means PATH has no zig at all.
	DriftNotOnPath
	// DriftExternalOverride means PATH resolves to a zig zpm does not manage.
	DriftExternalOverride
	// DriftVersionUnknown means the active binary did not report a version.
	DriftVersionUnknown
	// DriftVersionMismatch means the active binary reports another version.
	DriftVersionMismatch
)

// String returns human-readable drift type name
func (d DriftType) String() string {
	switch d {
	case DriftOK:
		return "OK"
	case DriftNoSelection:
		return "NO_SELECTION"
	case DriftNotInstalled:
		return "NOT_INSTALLED"
	case DriftLinkMissing:
		return "LINK_MISSING"
	case DriftLinkMismatch:
		return "LINK_MISMATCH"
	case DriftNotOnPath:
		return "NOT_ON_PATH"
	case DriftExternalOverride:
		return "EXTERNAL_OVERRIDE"
	case DriftVersionUnknown:
		return "VERSION_UNKNOWN"
	case DriftVersionMismatch:
		return "VERSION_MISMATCH"
	default:
		return "UNKNOWN"
	}
}

// IsProblem reports whether d needs user action.
func (d DriftType) IsProblem() bool {
	return d != DriftOK && d != DriftNoSelection
}

// Result is the outcome for one tool (zig or zls).
type Result struct {
	Tool      string
	DriftType DriftType
	// Selected is the marker's version.
	Selected string
	// LinkPath is the bin-dir symlink and LinkTarget where it points.
	LinkPath   string
	LinkTarget string
	// ActivePath is what PATH resolves the tool to, symlinks followed.
	ActivePath    string
	ActiveVersion string
}
