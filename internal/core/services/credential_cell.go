package services

import (
	"context"
	"sync"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
)

// Ensure CredentialCell implements the interface.
var _ driven.TokenProvider = (*CredentialCell)(nil)

// CredentialCell is the single shared home of the session credential.
//
// The session service is its only writer; the transport adapter and any
// other component issuing requests read through the TokenProvider
// interface. Every read takes the lock and copies, so a reader never
// observes a partially-updated token pair. The version counter bumps on
// every replacement or clear.
type CredentialCell struct {
	mu      sync.RWMutex
	cred    *domain.Credential
	version uint64
}

// NewCredentialCell creates an empty credential cell.
func NewCredentialCell() *CredentialCell {
	return &CredentialCell{}
}

// Set atomically replaces the stored credential.
func (c *CredentialCell) Set(cred domain.Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := cred
	c.cred = &copied
	c.version++
}

// Clear atomically drops the stored credential. Idempotent.
func (c *CredentialCell) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cred == nil {
		return
	}
	c.cred = nil
	c.version++
}

// Get returns a copy of the current credential, or nil when empty.
func (c *CredentialCell) Get() *domain.Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cred == nil {
		return nil
	}
	copied := *c.cred
	return &copied
}

// GetToken returns the current access token, or empty when no
// credential is established.
func (c *CredentialCell) GetToken(_ context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cred == nil {
		return "", nil
	}
	return c.cred.AccessToken, nil
}

// Version returns the replacement counter.
func (c *CredentialCell) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// IsAuthenticated returns true if a usable credential is present.
func (c *CredentialCell) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred.IsAuthenticated()
}
