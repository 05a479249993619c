package driving

import (
	"context"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// SearchService provides hybrid search over ingested artifacts.
type SearchService interface {
	// Search runs a hybrid search across all artifacts and returns the
	// normalized, flattened result set.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResultSet, error)

	// SearchDocument runs a search scoped to one artifact.
	SearchDocument(ctx context.Context, documentID, query string, opts domain.SearchOptions) (*domain.SearchResultSet, error)
}
