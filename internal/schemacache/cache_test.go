package schemacache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	return &Cache{
		Path:   filepath.Join(t.TempDir(), "schema.xsd"),
		Client: http.DefaultClient,
	}
}

func TestGetDownloadsAndCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Write([]byte("<xs:schema/>"))
	}))
	defer srv.Close()

	cache := newCache(t)
	data, err := cache.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<xs:schema/>", string(data))

	data, err = cache.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<xs:schema/>", string(data))
	assert.Equal(t, 1, hits, "second read comes from disk")
}

func TestGetRefetchesEmptyCacheFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<xs:schema/>"))
	}))
	defer srv.Close()

	cache := newCache(t)
	require.NoError(t, os.WriteFile(cache.Path, nil, 0o644))

	data, err := cache.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestGetRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	cache := newCache(t)
	_, err := cache.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestGetRejectsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	cache := newCache(t)
	_, err := cache.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
