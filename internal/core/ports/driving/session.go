package driving

import (
	"context"
	"encoding/json"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// SessionService owns the authenticated-session lifecycle: credential
// acquisition, attachment, persistence and invalidation.
type SessionService interface {
	// Login authenticates with an email/password pair and establishes
	// the resulting credential.
	Login(ctx context.Context, email, password string) error

	// Establish stores the credential from a raw login payload,
	// persists it, and caches the identity carried in the payload.
	// Both accepted upstream response shapes are recognised; anything
	// else fails with domain.ErrInvalidCredentialShape.
	Establish(ctx context.Context, raw json.RawMessage) error

	// Resume loads a persisted credential from a previous run.
	// Returns domain.ErrNotFound when none is stored.
	Resume(ctx context.Context) error

	// CurrentIdentity returns the cached identity snapshot, or nil.
	// It never fetches.
	CurrentIdentity() *domain.Identity

	// RefreshIdentity refetches the profile and replaces the cached
	// identity. Fails with domain.ErrNotAuthenticated when no
	// credential is established.
	RefreshIdentity(ctx context.Context) (*domain.Identity, error)

	// UpdateProfile mutates the profile and refetches the identity.
	UpdateProfile(ctx context.Context, fields map[string]string) (*domain.Identity, error)

	// IsAuthenticated reports whether a credential is established.
	IsAuthenticated() bool

	// Logout invalidates the session server-side (best effort) and
	// clears all local state.
	Logout(ctx context.Context) error

	// Clear removes the credential from memory and durable storage and
	// detaches it from the transport. Idempotent.
	Clear(ctx context.Context) error
}
