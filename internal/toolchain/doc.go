// Package toolchain installs, activates and removes Zig toolchains.
//
// # State
//
// All state lives on disk under a layout.Layout:
//
//	<root>/versions/<v>/zig   an installed version (the binary's presence is the record)
//	<root>/current            the active version, as plain text
//	<bin-dir>/zig             symlink to the active version's binary
//
// There is no separate ledger of installed versions.
//
// # Install Pipeline
//
// Install resolves a token against a freshly fetched catalog, then
// downloads the host's archive into the cache, checks its sha256 (plus a
// signature when configured), creates the version directory and unpacks
// the archive into it with one leading path component stripped.
// Each step fails with its own error kind from internal/errors. Nothing
// is retried and nothing is rolled back: a checksum failure leaves the
// archive in the cache and no version directory, an extract failure
// leaves a partial version directory.
//
// # Current Pointer
//
// Use rewrites the symlink and then the marker file. The two writes are
// sequential; a crash between them leaves the marker stale, and list
// treats the marker as authoritative.
package toolchain
