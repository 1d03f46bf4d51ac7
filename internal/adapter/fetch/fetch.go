// Package fetch materializes remote grid files in a local cache
// directory. Downloads land in a temporary sibling file and are renamed
// into place only once the transfer has produced output, so a final-path
// file is always a completed transfer. A file already present at the
// final path is trusted and never re-fetched or re-validated.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/soilgrids/internal/observability"
)

// ErrTransfer indicates that the transfer produced no output file.
var ErrTransfer = errors.New("transfer failed")

// partialSuffix marks an in-flight download next to its final path.
const partialSuffix = ".download"

// Client implements domain.FileTransfer over HTTP with byte-range resume.
type Client struct {
	httpClient *http.Client
	resume     bool
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a transfer client. A zero timeout means a download
// may run for as long as the server keeps sending; cancellation then
// comes only from the caller's context.
func NewClient(timeout time.Duration, resume bool, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		resume:     resume,
		logger:     logger,
		metrics:    metrics,
	}
}

// EnsureLocal returns target once the file at url is cached there.
//
// A present target is returned immediately with no network access. An
// absent target is downloaded to target+".download" and renamed into
// place. The rename is the atomic commit: the partial path is the only
// state visible during a transfer. Failure is signaled solely by the
// absence of the partial file after the transfer attempt; transfer
// errors themselves are logged but not inspected further, so a partial
// file left by an earlier attempt is renamed and its corruption (if any)
// surfaces later when the raster engine fails to open it.
func (c *Client) EnsureLocal(ctx context.Context, url, target string) (string, error) {
	file := filepath.Base(target)

	if _, err := os.Stat(target); err == nil {
		c.logger.Info("file already downloaded", "path", target)
		c.metrics.CacheHits.WithLabelValues(file).Inc()
		return target, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	partial := target + partialSuffix
	c.logger.Info("downloading", "url", url, "path", target, "resume", c.resume)

	start := clock.Now()
	written, err := c.download(ctx, url, partial)
	elapsed := clock.Since(start)

	if err != nil {
		c.logger.Warn("transfer error", "url", url, "error", err)
	}
	c.metrics.DownloadDuration.WithLabelValues(file).Observe(elapsed.Seconds())
	c.metrics.DownloadBytes.WithLabelValues(file).Add(float64(written))

	if _, statErr := os.Stat(partial); statErr != nil {
		c.metrics.Downloads.WithLabelValues(file, "error").Inc()
		return "", fmt.Errorf("%w: unable to download URL %s", ErrTransfer, url)
	}

	if err := os.Rename(partial, target); err != nil {
		return "", fmt.Errorf("commit download: %w", err)
	}

	c.metrics.Downloads.WithLabelValues(file, "success").Inc()
	c.logger.Info("completed download",
		"path", target, "duration_seconds", elapsed.Seconds(), "bytes", written)
	return target, nil
}

// download streams url into partial, appending to an existing partial
// file when resume is enabled and the server honors the byte range.
// It returns the number of bytes written in this attempt.
func (c *Client) download(ctx context.Context, url, partial string) (int64, error) {
	var offset int64
	if st, err := os.Stat(partial); err == nil && c.resume {
		offset = st.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case offset > 0 && resp.StatusCode == http.StatusPartialContent:
		// Append to the existing partial file.
	case offset > 0 && resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		// The partial file already spans the whole resource.
		return 0, nil
	case resp.StatusCode == http.StatusOK:
		// Full body, either a fresh download or a server that ignored
		// the range request. Start the partial file over.
		offset = 0
	default:
		return 0, fmt.Errorf("unexpected HTTP status %d for %s", resp.StatusCode, url)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	out, err := os.OpenFile(partial, flags, 0o644)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return written, err
}
