// Package artifact fetches, verifies and unpacks release archives.
//
// # Integrity Model
//
// Every toolchain archive is checked against the sha256 published in the
// release index before anything is unpacked. Signature checks are
// additive: when enabled, a minisign signature (the format Zig publishes)
// or an OpenPGP detached signature is verified after the checksum, never
// instead of it.
//
// # Components
//
//   - Downloader: single-attempt HTTP GET to a temp file renamed into place
//   - Verifier: sha256, minisign and OpenPGP verification
//   - ArchiveExtractor: .tar.xz, .tar.gz and .zip unpacking with leading
//     path components stripped
//
// None of these retry. A failed step is reported once and the caller
// decides what to do.
package artifact
