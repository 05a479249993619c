package driven

import (
	"context"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// CredentialStore persists the session credential across process runs.
// The access and refresh tokens are stored under two named slots and are
// always written and cleared together.
type CredentialStore interface {
	// Save stores the credential, replacing any existing one.
	Save(ctx context.Context, cred domain.Credential) error

	// Load retrieves the stored credential.
	// Returns domain.ErrNotFound when no credential is stored and
	// domain.ErrInvalidCredentialShape when the stored data cannot
	// be decoded; the caller clears the store on the latter.
	Load(ctx context.Context) (*domain.Credential, error)

	// Clear removes both slots. Idempotent.
	Clear(ctx context.Context) error
}

// CredentialWatcher notifies about external changes to the credential
// storage, e.g. a login or logout performed by another process.
type CredentialWatcher interface {
	// Watch delivers a signal whenever the stored credential changes.
	// The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
