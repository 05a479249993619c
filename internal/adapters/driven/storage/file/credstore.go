// Package file provides file-based implementations of the credential
// storage driven ports. The credential lives in a TOML file under
// ~/.corpora/ with owner-only permissions, so a login in one terminal
// is visible to every other corpora process.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
)

// credentialsFileName is the file holding both token slots.
const credentialsFileName = "credentials.toml"

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore persists the session credential as TOML.
// Both token slots are written in one file operation, so a reader never
// observes an access token without its refresh counterpart.
type CredentialStore struct {
	mu       sync.Mutex
	filePath string
}

// storedCredential is the on-disk layout.
type storedCredential struct {
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	ExpiresAt    time.Time `toml:"expires_at,omitempty"`
}

// NewCredentialStore creates a TOML-based credential store.
// If configDir is empty, defaults to ~/.corpora/credentials.toml.
func NewCredentialStore(configDir string) (*CredentialStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".corpora")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &CredentialStore{
		filePath: filepath.Join(configDir, credentialsFileName),
	}, nil
}

// Save stores the credential, replacing any existing one.
func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(storedCredential{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		ExpiresAt:    cred.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshalling credential: %w", err)
	}

	// Write with restricted permissions; tokens are secrets.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	return nil
}

// Load retrieves the stored credential. Returns domain.ErrNotFound when
// no file exists and domain.ErrInvalidCredentialShape when the file
// cannot be decoded or holds no access token.
func (s *CredentialStore) Load(_ context.Context) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading credential file: %w", err)
	}

	var stored storedCredential
	if err := toml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentialShape, err)
	}
	if stored.AccessToken == "" {
		return nil, fmt.Errorf("%w: credential file has no access token", domain.ErrInvalidCredentialShape)
	}

	return &domain.Credential{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		ExpiresAt:    stored.ExpiresAt,
	}, nil
}

// Clear removes the credential file. Idempotent.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}

// Path returns the credential file path.
func (s *CredentialStore) Path() string {
	return s.filePath
}
