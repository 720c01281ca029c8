package config

// Lua schema field names and globals
const (
	luaGlobalZpm          = "zpm"
	luaFieldRoot          = "root"
	luaFieldBinDir        = "bin_dir"
	luaFieldIndexURL      = "index_url"
	luaFieldZLSReleaseURL = "zls_release_url"
	luaFieldTimeout       = "timeout"
	luaFieldVerify        = "verify_signature"
	luaFieldMinisignKey   = "minisign_key"
	luaFieldKeyring       = "keyring"
)

// FileName is the config file name inside the zpm config directory.
const FileName = "config.lua"
