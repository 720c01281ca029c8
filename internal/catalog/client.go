package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

const (
	// DefaultIndexURL is the official Zig release index.
	DefaultIndexURL = "https://ziglang.org/download/index.json"
	// DefaultCompanionURL is the latest ZLS release on GitHub.
	DefaultCompanionURL = "https://api.github.com/repos/zigtools/zls/releases/latest"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "zpm/1.0"
	// maxBodySize bounds a metadata response; the Zig index is well under 1 MiB.
	maxBodySize = 16 << 20
)

// ClientOptions configures a Client. Zero values select the defaults.
type ClientOptions struct {
	IndexURL     string
	CompanionURL string
	Timeout      time.Duration
	Logger       *slog.Logger
}

// Client fetches release metadata over HTTP.
type Client struct {
	indexURL     string
	companionURL string
	userAgent    string
	http         *http.Client
	logger       *slog.Logger
}

// NewClient creates a metadata client.
func NewClient(opts ClientOptions) *Client {
	if opts.IndexURL == "" {
		opts.IndexURL = DefaultIndexURL
	}
	if opts.CompanionURL == "" {
		opts.CompanionURL = DefaultCompanionURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		indexURL:     opts.IndexURL,
		companionURL: opts.CompanionURL,
		userAgent:    defaultUserAgent,
		http:         &http.Client{Timeout: opts.Timeout},
		logger:       opts.Logger,
	}
}

// FetchIndex downloads and decodes the release index. Every failure is
// reported as ErrCatalogUnavailable.
func (c *Client) FetchIndex(ctx context.Context) (Catalog, error) {
	var catalog Catalog
	if err := c.getJSON(ctx, c.indexURL, &catalog); err != nil {
		return nil, zpmerrors.Wrap(zpmerrors.ErrCatalogUnavailable, err, "%s", c.indexURL)
	}
	c.logger.Debug("fetched release index", "url", c.indexURL, "versions", len(catalog))
	return catalog, nil
}

// FetchCompanionRelease fetches the latest companion tool release. Every
// failure is reported as ErrCatalogUnavailable.
func (c *Client) FetchCompanionRelease(ctx context.Context) (*Release, error) {
	var release Release
	if err := c.getJSON(ctx, c.companionURL, &release); err != nil {
		return nil, zpmerrors.Wrap(zpmerrors.ErrCatalogUnavailable, err, "%s", c.companionURL)
	}
	c.logger.Debug("fetched companion release", "tag", release.TagName, "assets", len(release.Assets))
	return &release, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
