// Package config loads zpm settings from a Lua file.
//
// # Overview
//
// The file is plain Lua evaluated in a sandboxed gopher-lua VM. It must
// assign a global zpm table:
//
//	zpm = {
//	  root = "~/.zpm",
//	  bin_dir = "~/.local/bin",
//	  index_url = "https://ziglang.org/download/index.json",
//	  zls_release_url = "https://api.github.com/repos/zigtools/zls/releases/latest",
//	  timeout = 300,
//	  verify_signature = false,
//	  minisign_key = "RWSGOq2NVecA2UPNdBUZykf1CCb147pkmdtYxgb3Ti+JO/wCYvhbAb/U",
//	  keyring = nil,
//	}
//
// Every field is optional. Absent fields keep their defaults, and a
// missing file yields the defaults unchanged. Paths may start with "~".
//
// # Platform Table
//
// A read-only platform table is injected before the file runs, so
// settings can vary per host:
//
//	zpm = {
//	  bin_dir = platform.is_macos and "~/bin" or "~/.local/bin",
//	}
//
// # Security Model
//
// The VM has no os, io, debug or module-loading functions. A config file
// can compute values but cannot touch the filesystem or run commands.
package config
