package memory

import (
	"context"
	"sync"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu   sync.RWMutex
	cred *domain.Credential
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Save stores the credential, replacing any existing one.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := cred
	s.cred = &copied
	return nil
}

// Load retrieves the stored credential.
func (s *CredentialStore) Load(_ context.Context) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, domain.ErrNotFound
	}
	copied := *s.cred
	return &copied, nil
}

// Clear removes the stored credential. Idempotent.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
