// Package domain defines the core business entities for the Corpora client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: The access/refresh token pair for an authenticated session
//   - Identity: A read-only snapshot of the authenticated user
//   - Artifact: A submitted content unit tracked through ingestion and embedding
//   - StatusSnapshot: An ephemeral read of an artifact's processing progress
//   - SearchMatch / SearchResultSet: Normalized hybrid search results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
