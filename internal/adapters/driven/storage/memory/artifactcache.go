// Package memory provides in-memory implementations of the driven
// storage ports, used in tests and when the SQLite cache is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
)

// Ensure ArtifactCache implements the interface.
var _ driven.ArtifactCache = (*ArtifactCache)(nil)

// ArtifactCache is an in-memory implementation of driven.ArtifactCache.
type ArtifactCache struct {
	mu        sync.RWMutex
	artifacts map[string]domain.Artifact
	listings  map[string]domain.ArtifactPage
}

// NewArtifactCache creates a new in-memory artifact cache.
func NewArtifactCache() *ArtifactCache {
	return &ArtifactCache{
		artifacts: make(map[string]domain.Artifact),
		listings:  make(map[string]domain.ArtifactPage),
	}
}

// SaveArtifact stores or updates an artifact's last-known state.
func (c *ArtifactCache) SaveArtifact(_ context.Context, a domain.Artifact) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts[a.ID] = a
	return nil
}

// GetArtifact retrieves an artifact's last-known state.
func (c *ArtifactCache) GetArtifact(_ context.Context, id string) (*domain.Artifact, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.artifacts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// DeleteArtifact drops an artifact from the cache. Idempotent.
func (c *ArtifactCache) DeleteArtifact(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.artifacts, id)
	return nil
}

// PutListing stores one listing page under a filter key.
func (c *ArtifactCache) PutListing(_ context.Context, key string, page domain.ArtifactPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[key] = page
	return nil
}

// GetListing retrieves a cached listing page.
func (c *ArtifactCache) GetListing(_ context.Context, key string) (*domain.ArtifactPage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page, ok := c.listings[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}

// InvalidateListings drops all cached listing pages.
func (c *ArtifactCache) InvalidateListings(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings = make(map[string]domain.ArtifactPage)
	return nil
}

// Close releases nothing for the in-memory cache.
func (c *ArtifactCache) Close() error {
	return nil
}

// ListingCount returns the number of cached listing pages. Test helper.
func (c *ArtifactCache) ListingCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listings)
}
