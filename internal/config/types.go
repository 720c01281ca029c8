package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/zpm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/zpm/internal/layout"
)

// Config is the effective zpm configuration.
type Config struct {
	// Root holds versions/, cache/ and the current marker.
	Root string `json:"root" yaml:"root"`
	// BinDir receives the zig and zls symlinks.
	BinDir string `json:"bin_dir" yaml:"bin_dir"`
	// IndexURL is the Zig release index.
	IndexURL string `json:"index_url" yaml:"index_url"`
	// ZLSReleaseURL is the GitHub "latest release" endpoint for ZLS.
	ZLSReleaseURL string `json:"zls_release_url" yaml:"zls_release_url"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// VerifySignature adds a signature check after the checksum.
	VerifySignature bool `json:"verify_signature" yaml:"verify_signature"`
	// MinisignKey is the public key for .minisig signatures.
	MinisignKey string `json:"minisign_key" yaml:"minisign_key"`
	// Keyring is an OpenPGP keyring; when set, .asc signatures are used.
	Keyring string `json:"keyring,omitempty" yaml:"keyring,omitempty"`
}

// Defaults returns the built-in configuration for a home directory.
func Defaults(home string) *Config {
	l := layout.Default(home)
	return &Config{
		Root:          l.Root,
		BinDir:        l.BinDir,
		IndexURL:      catalog.DefaultIndexURL,
		ZLSReleaseURL: catalog.DefaultCompanionURL,
		Timeout:       artifact.DefaultTimeout,
		MinisignKey:   artifact.ZigMinisignKey,
	}
}

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "zpm", FileName)
}

// Layout returns the filesystem layout the config describes.
func (c *Config) Layout() layout.Layout {
	return layout.Layout{Root: c.Root, BinDir: c.BinDir}
}

// ExpandPaths resolves a leading "~" in every path field.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Root, &c.BinDir, &c.Keyring} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = filepath.Clean(expanded)
	}
	return nil
}

// Validate checks that paths are absolute and URLs are usable.
func (c *Config) Validate() error {
	if c.Root == "" || !filepath.IsAbs(c.Root) {
		return &ValidationError{Field: luaFieldRoot, Message: fmt.Sprintf("must be an absolute path, got %q", c.Root)}
	}
	if c.BinDir == "" || !filepath.IsAbs(c.BinDir) {
		return &ValidationError{Field: luaFieldBinDir, Message: fmt.Sprintf("must be an absolute path, got %q", c.BinDir)}
	}
	if c.Keyring != "" && !filepath.IsAbs(c.Keyring) {
		return &ValidationError{Field: luaFieldKeyring, Message: fmt.Sprintf("must be an absolute path, got %q", c.Keyring)}
	}
	if err := validateURL(c.IndexURL); err != nil {
		return &ValidationError{Field: luaFieldIndexURL, Message: err.Error()}
	}
	if err := validateURL(c.ZLSReleaseURL); err != nil {
		return &ValidationError{Field: luaFieldZLSReleaseURL, Message: err.Error()}
	}
	if c.Timeout <= 0 {
		return &ValidationError{Field: luaFieldTimeout, Message: "must be positive"}
	}
	if c.VerifySignature && c.Keyring == "" && c.MinisignKey == "" {
		return &ValidationError{Field: luaFieldMinisignKey, Message: "required when verify_signature is set"}
	}
	return nil
}

// ValidationError reports an invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}
