// Package errors defines the closed set of failure kinds zpm reports.
//
// Every failure surfaced by the installer, activator and uninstaller
// matches exactly one sentinel with [errors.Is]:
//
//	if errors.Is(err, zpmerrors.ErrChecksumMismatch) {
//	    // the archive is still in the cache for inspection
//	}
//
// [Error] attaches a kind and a human-readable detail to an underlying
// cause without losing either. The CLI maps kinds to exit codes with
// [ExitCode] and to an actionable hint with [Suggestion].
//
// # Exit Codes
//
//   - ExitSuccess (0): command completed
//   - ExitUser (1): the request cannot be satisfied as written (unknown
//     version, version not installed, unsupported platform)
//   - ExitSystem (2): network, integrity, extraction or I/O failure
package errors
