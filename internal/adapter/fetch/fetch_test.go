package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/soilgrids/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(resume bool) *Client {
	return NewClient(5*time.Second, resume, testLogger(), observability.NewMetricsForTesting())
}

func TestEnsureLocal_Download(t *testing.T) {
	payload := []byte("not really a GeoTIFF")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload) //nolint:errcheck
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "grids", "fc.tif")
	got, err := testClient(true).EnsureLocal(context.Background(), srv.URL, target)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// The partial path must not survive a successful transfer.
	_, err = os.Stat(target + partialSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureLocal_PresentFileSkipsTransfer(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Write([]byte("fresh")) //nolint:errcheck
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "fc.tif")
	require.NoError(t, os.WriteFile(target, []byte("cached"), 0o644))

	c := testClient(true)
	for range 2 {
		got, err := c.EnsureLocal(context.Background(), srv.URL, target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	}

	assert.Equal(t, int64(0), requests.Load(), "presence is trust: no network access")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), data, "cached content is never re-validated")
}

func TestEnsureLocal_SecondCallHitsCache(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Write([]byte("payload")) //nolint:errcheck
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "wp.tif")
	c := testClient(true)

	_, err := c.EnsureLocal(context.Background(), srv.URL, target)
	require.NoError(t, err)
	_, err = c.EnsureLocal(context.Background(), srv.URL, target)
	require.NoError(t, err)

	assert.Equal(t, int64(1), requests.Load())
}

func TestEnsureLocal_NoOutputFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "fc.tif")
	_, err := testClient(true).EnsureLocal(context.Background(), srv.URL, target)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransfer)
	assert.Contains(t, err.Error(), srv.URL, "error names the URL")

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "no file left at the final path")
}

func TestEnsureLocal_ResumesPartialDownload(t *testing.T) {
	full := []byte("0123456789")
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		if gotRange == "" {
			w.Write(full) //nolint:errcheck
			return
		}
		offset, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(gotRange, "bytes="), "-"))
		require.NoError(t, err)
		w.Header().Set("Content-Range",
			"bytes "+strconv.Itoa(offset)+"-9/"+strconv.Itoa(len(full)))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(full[offset:]) //nolint:errcheck
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "fc.tif")
	require.NoError(t, os.WriteFile(target+partialSuffix, full[:4], 0o644))

	got, err := testClient(true).EnsureLocal(context.Background(), srv.URL, target)
	require.NoError(t, err)

	assert.Equal(t, "bytes=4-", gotRange)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, full, data)
}

func TestEnsureLocal_ResumeDisabledRestarts(t *testing.T) {
	full := []byte("abcdef")
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Write(full) //nolint:errcheck
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "fc.tif")
	require.NoError(t, os.WriteFile(target+partialSuffix, []byte("stale-partial"), 0o644))

	got, err := testClient(false).EnsureLocal(context.Background(), srv.URL, target)
	require.NoError(t, err)

	assert.Empty(t, gotRange, "resume disabled: no Range header")
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, full, data, "partial file truncated, not appended to")
}

func TestEnsureLocal_StalePartialRenamedOnFailedRefetch(t *testing.T) {
	// The transfer's own status is not inspected: a partial file that
	// exists after the attempt is committed, corrupt or not. The raster
	// engine discovers the damage later at open time.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "fc.tif")
	stale := []byte("half a grid")
	require.NoError(t, os.WriteFile(target+partialSuffix, stale, 0o644))

	got, err := testClient(true).EnsureLocal(context.Background(), srv.URL, target)
	require.NoError(t, err)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, stale, data)
}

func TestEnsureLocal_DurationUsesInjectedClock(t *testing.T) {
	fake := clockwork.NewFakeClock()
	SetClock(fake)
	defer SetClock(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("x")) //nolint:errcheck
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "fc.tif")
	_, err := testClient(true).EnsureLocal(context.Background(), srv.URL, target)
	require.NoError(t, err)
	// With a frozen clock the observed duration is exactly zero; the
	// assertion is that measurement goes through the package clock and
	// the call completes without touching real time.
}
