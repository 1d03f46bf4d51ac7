package httpserv_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/soilgrids/internal/adapter/httpserv"
)

type stubReadiness struct {
	err     error
	lastCtx context.Context
}

func (s *stubReadiness) CheckReadiness(ctx context.Context) error {
	s.lastCtx = ctx
	return s.err
}

func newTestServer(readyErr error) *httpserv.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpserv.New(":0", &stubReadiness{err: readyErr}, logger)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzWhenReady(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzWhenNotReady(t *testing.T) {
	rec := httptest.NewRecorder()
	srv := newTestServer(errors.New("2 products not yet cached"))
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Contains(t, body["error"], "not yet cached")
}

func TestReadyzBoundsTheCheck(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stub := &stubReadiness{}
	srv := httpserv.New(":0", stub, logger)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.NotNil(t, stub.lastCtx)
	_, ok := stub.lastCtx.Deadline()
	assert.True(t, ok, "readiness check runs under a deadline")
}

func TestMetricsEndpointExists(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
