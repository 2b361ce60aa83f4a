// Package schemacache fetches and caches the published XSD schema.
package schemacache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Cache stores one schema file on disk and refetches it only when the
// cached copy is missing or empty.
type Cache struct {
	Path   string
	Client *http.Client
}

// Default caches under the system temp directory with a short fetch
// timeout, matching how often the schema actually changes: never.
func Default() *Cache {
	return &Cache{
		Path:   filepath.Join(os.TempDir(), "hamsters_v7.xsd"),
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Get returns the schema bytes, downloading from url on a cache miss. An
// empty cached file counts as a miss.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	if data, err := os.ReadFile(c.Path); err == nil && len(data) > 0 {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build schema request: %w", err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download schema: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download schema: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read schema body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("download schema: empty response")
	}

	if err := os.WriteFile(c.Path, data, 0o644); err != nil {
		return nil, fmt.Errorf("cache schema: %w", err)
	}
	return data, nil
}
