package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "zpm/1.0"
)

// Downloader fetches URLs to local files. It makes exactly one attempt
// per call.
type Downloader struct {
	client    *http.Client
	userAgent string
	progress  io.Writer
}

// NewDownloader creates a downloader with the given request timeout.
// A zero timeout selects DefaultTimeout.
func NewDownloader(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Downloader{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// SetProgress directs a byte counter for each download to w. A nil
// writer disables progress output.
func (d *Downloader) SetProgress(w io.Writer) {
	d.progress = w
}

// Download fetches url into destPath, replacing any existing file.
// Failures are reported as ErrDownloadFailed.
func (d *Downloader) Download(ctx context.Context, url, destPath string) error {
	if err := d.downloadOnce(ctx, url, destPath); err != nil {
		return zpmerrors.Wrap(zpmerrors.ErrDownloadFailed, err, "fetch %s", url)
	}
	return nil
}

func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var body io.Reader = resp.Body
	if d.progress != nil {
		pw := newProgressWriter(d.progress, filepath.Base(destPath), resp.ContentLength)
		defer pw.finish()
		body = io.TeeReader(resp.Body, pw)
	}

	if _, err := io.Copy(tmpFile, body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
