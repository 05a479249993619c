package driven

import (
	"context"
	"encoding/json"
	"io"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// AuthGateway issues authentication calls against the remote API.
//
// Login and FetchProfile return the raw response body rather than a
// decoded type: the upstream API answers in two different envelope
// shapes, and the session service owns the tagged-union decode so an
// unrecognised third shape fails loudly instead of being duck-typed.
type AuthGateway interface {
	// Login exchanges an email/password pair for the raw login payload.
	Login(ctx context.Context, email, password string) (json.RawMessage, error)

	// FetchProfile retrieves the raw profile payload for the
	// authenticated user.
	FetchProfile(ctx context.Context) (json.RawMessage, error)

	// UpdateProfile applies a profile mutation. The cached identity
	// becomes stale and must be refetched afterwards.
	UpdateProfile(ctx context.Context, fields map[string]string) error

	// Logout invalidates the session server-side. Best effort: local
	// state is cleared regardless of the outcome.
	Logout(ctx context.Context) error
}

// IngestGateway issues document submission and lifecycle calls.
type IngestGateway interface {
	// SubmitFile uploads a file as multipart form data and returns the
	// server-assigned artifact ID.
	SubmitFile(ctx context.Context, name string, r io.Reader, access domain.AccessLevel, teamID string) (string, error)

	// SubmitText submits raw text with a title.
	SubmitText(ctx context.Context, title, text string, access domain.AccessLevel, teamID string) (string, error)

	// SubmitWebpage submits a URL for server-side fetching.
	SubmitWebpage(ctx context.Context, url string, access domain.AccessLevel) (string, error)

	// Status reads the current processing status of an artifact.
	Status(ctx context.Context, id string) (*domain.StatusSnapshot, error)

	// Get retrieves a single artifact record.
	Get(ctx context.Context, id string) (*domain.Artifact, error)

	// List retrieves one page of the artifact listing.
	List(ctx context.Context, opts domain.ListOptions) (*domain.ArtifactPage, error)

	// StartTraining triggers server-side embedding generation.
	StartTraining(ctx context.Context, id string) error

	// TrainingInfo reads the embedding/training progress.
	TrainingInfo(ctx context.Context, id string) (*domain.TrainingInfo, error)

	// Reembed resets and re-queues embedding generation.
	Reembed(ctx context.Context, id string) error

	// Delete removes the server-side record.
	Delete(ctx context.Context, id string) error
}

// SearchGateway issues search calls and returns the raw response body.
// The search aggregator owns normalization of the nested envelope.
type SearchGateway interface {
	// Search runs a hybrid search across all artifacts.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (json.RawMessage, error)

	// SearchDocument runs a search scoped to a single artifact.
	SearchDocument(ctx context.Context, documentID, query string, opts domain.SearchOptions) (json.RawMessage, error)
}
