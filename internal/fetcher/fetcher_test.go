package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher() *Fetcher {
	return New(Options{Backoff: time.Millisecond, RatePerHost: 1000, MaxRetries: 3})
}

func TestDownload_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hydromap/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	body, err := testFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")
}

func TestDownload_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	_ = body.Close()
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownload_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all retries exhausted")
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownload_NotFoundIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	_, err := testFetcher().Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownload_UnsupportedScheme(t *testing.T) {
	_, err := testFetcher().Download(context.Background(), "ftp://example.org/hydro.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestDownloadToFile_KeepsOldCopyOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "hydro.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	_, err := testFetcher().DownloadToFile(context.Background(), srv.URL, path)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	dir := t.TempDir()
	sources := []Source{
		{Name: "schemes", URL: srv.URL + "/hydro.json", Path: filepath.Join(dir, "hydro.json")},
		{Name: "places", Path: filepath.Join(dir, "places.json")},
		{Name: "roads", URL: srv.URL + "/roads.geojson", Path: filepath.Join(dir, "nested", "roads.geojson")},
	}

	results, err := FetchAll(context.Background(), testFetcher(), sources)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "schemes", results[0].Name)
	assert.Equal(t, "roads", results[1].Name)
	assert.Equal(t, int64(len("/roads.geojson")), results[1].Bytes)

	data, err := os.ReadFile(filepath.Join(dir, "nested", "roads.geojson"))
	require.NoError(t, err)
	assert.Equal(t, "/roads.geojson", string(data))

	_, err = os.Stat(filepath.Join(dir, "places.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetchAll_NoURLs(t *testing.T) {
	_, err := FetchAll(context.Background(), testFetcher(), []Source{{Name: "schemes", Path: "hydro.json"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no layer URLs")
}
