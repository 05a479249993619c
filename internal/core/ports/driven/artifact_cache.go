package driven

import (
	"context"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// ArtifactCache stores last-known artifact state and listing pages
// locally so repeated listings avoid the network. Every successful
// mutating call through the tracker invalidates the listing cache; the
// cache never reorders or recounts optimistically.
type ArtifactCache interface {
	// SaveArtifact upserts an artifact's last-known state.
	SaveArtifact(ctx context.Context, a domain.Artifact) error

	// GetArtifact retrieves an artifact's last-known state.
	// Returns domain.ErrNotFound when absent.
	GetArtifact(ctx context.Context, id string) (*domain.Artifact, error)

	// DeleteArtifact drops an artifact from the cache. Idempotent.
	DeleteArtifact(ctx context.Context, id string) error

	// PutListing stores one listing page under a filter key.
	PutListing(ctx context.Context, key string, page domain.ArtifactPage) error

	// GetListing retrieves a cached listing page.
	// Returns domain.ErrNotFound on a miss.
	GetListing(ctx context.Context, key string) (*domain.ArtifactPage, error)

	// InvalidateListings drops all cached listing pages.
	InvalidateListings(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
