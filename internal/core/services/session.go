package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driving"
	"github.com/hewnlabs/corpora-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService owns the authenticated-session lifecycle. It is the
// single writer of the credential cell and the only component that
// touches the durable credential store.
type SessionService struct {
	auth  driven.AuthGateway
	store driven.CredentialStore
	cell  *CredentialCell

	mu       sync.RWMutex
	identity *domain.Identity
}

// NewSessionService creates a session service around the given cell.
// The store may be nil, in which case credentials live in memory only.
func NewSessionService(auth driven.AuthGateway, store driven.CredentialStore, cell *CredentialCell) *SessionService {
	return &SessionService{
		auth:  auth,
		store: store,
		cell:  cell,
	}
}

// loginPayload is the tagged union of both accepted login shapes.
//
// Current shape:  {status:"success", tokens:{access,refresh}, user:{...}}
// Legacy shape:   {data:{access, refresh, user:{...}}}
//
// A payload matching neither is a hard failure; fields are never probed
// permissively because that would mask real server changes.
type loginPayload struct {
	Status string `json:"status"`
	Tokens *struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
	User json.RawMessage `json:"user"`

	Data *struct {
		Access  string          `json:"access"`
		Refresh string          `json:"refresh"`
		User    json.RawMessage `json:"user"`
	} `json:"data"`
}

// Login authenticates and establishes the resulting credential.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	raw, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	return s.Establish(ctx, raw)
}

// Establish stores the credential from a raw login payload, persists
// it, and caches the identity carried in the payload.
func (s *SessionService) Establish(ctx context.Context, raw json.RawMessage) error {
	var payload loginPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredentialShape, err)
	}

	var cred domain.Credential
	var rawUser json.RawMessage

	switch {
	case payload.Status == "success" && payload.Tokens != nil && len(payload.User) > 0:
		cred = domain.Credential{
			AccessToken:  payload.Tokens.Access,
			RefreshToken: payload.Tokens.Refresh,
		}
		rawUser = payload.User

	case payload.Data != nil && payload.Data.Access != "":
		cred = domain.Credential{
			AccessToken:  payload.Data.Access,
			RefreshToken: payload.Data.Refresh,
		}
		rawUser = payload.Data.User

	default:
		return fmt.Errorf("%w: login payload matches no accepted layout", domain.ErrInvalidCredentialShape)
	}

	if cred.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", domain.ErrInvalidCredentialShape)
	}

	var identity *domain.Identity
	if len(rawUser) > 0 {
		identity = &domain.Identity{}
		if err := json.Unmarshal(rawUser, identity); err != nil {
			return fmt.Errorf("%w: user field: %v", domain.ErrInvalidCredentialShape, err)
		}
	}

	// Setting a new credential atomically replaces the old one.
	s.cell.Set(cred)

	if s.store != nil {
		if err := s.store.Save(ctx, cred); err != nil {
			logger.Warn("Persisting credential failed: %v", err)
		}
	}

	// Identity is only ever set after a successful establishment. A
	// payload without a user block leaves it nil until RefreshIdentity.
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	if identity != nil {
		logger.Info("Session established for %s", identity.Email)
	} else {
		logger.Info("Session established without identity")
	}
	return nil
}

// Resume loads a persisted credential from a previous run.
func (s *SessionService) Resume(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotFound
	}

	cred, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentialShape) {
			// Undecodable stored state is wiped, not worked around.
			logger.Warn("Stored credential is undecodable, clearing: %v", err)
			return s.Clear(ctx)
		}
		return err
	}

	s.cell.Set(*cred)
	logger.Debug("Session resumed from durable storage")
	return nil
}

// CurrentIdentity returns the cached identity snapshot, or nil.
func (s *SessionService) CurrentIdentity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	copied := *s.identity
	return &copied
}

// RefreshIdentity refetches the profile and replaces the cached identity.
func (s *SessionService) RefreshIdentity(ctx context.Context) (*domain.Identity, error) {
	if !s.cell.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	raw, err := s.auth.FetchProfile(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			// The server rejected the credential: drop it everywhere
			// rather than retrying silently.
			if clearErr := s.Clear(ctx); clearErr != nil {
				logger.Warn("Clearing rejected session failed: %v", clearErr)
			}
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	identity, err := decodeProfile(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	copied := *identity
	return &copied, nil
}

// UpdateProfile mutates the profile and refetches the identity, which
// went stale with the mutation.
func (s *SessionService) UpdateProfile(ctx context.Context, fields map[string]string) (*domain.Identity, error) {
	if !s.cell.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no profile fields to update", domain.ErrValidation)
	}

	if err := s.auth.UpdateProfile(ctx, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.RefreshIdentity(ctx)
}

// IsAuthenticated reports whether a credential is established.
func (s *SessionService) IsAuthenticated() bool {
	return s.cell.IsAuthenticated()
}

// Logout invalidates the session server-side, then clears local state.
// The server call is best effort: a failure is logged, never fatal.
func (s *SessionService) Logout(ctx context.Context) error {
	if s.cell.IsAuthenticated() {
		if err := s.auth.Logout(ctx); err != nil {
			logger.Warn("Server-side logout failed: %v", err)
		}
	}
	return s.Clear(ctx)
}

// Clear removes the credential from memory and durable storage.
// Idempotent: clearing an empty session succeeds.
func (s *SessionService) Clear(ctx context.Context) error {
	s.cell.Clear()

	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			return fmt.Errorf("clear credential store: %w", err)
		}
	}
	return nil
}

// WatchStore reloads the credential cell whenever another process
// changes the durable store. The goroutine stops when ctx is cancelled.
func (s *SessionService) WatchStore(ctx context.Context, w driven.CredentialWatcher) error {
	ch, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch credential store: %w", err)
	}

	go func() {
		for range ch {
			cred, err := s.store.Load(ctx)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				logger.Debug("Credential removed externally, clearing cell")
				s.cell.Clear()
			case err != nil:
				logger.Warn("Reloading credential failed: %v", err)
			default:
				logger.Debug("Credential replaced externally, reloading cell")
				s.cell.Set(*cred)
			}
		}
	}()

	return nil
}

// decodeProfile tolerates both profile envelopes: a direct identity
// object and one wrapped as {data: {...}}.
func decodeProfile(raw json.RawMessage) (*domain.Identity, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	body := raw
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		body = envelope.Data
	}

	var identity domain.Identity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, fmt.Errorf("%w: profile payload: %v", domain.ErrMalformedResponse, err)
	}
	if identity.ID == "" && identity.Email == "" {
		return nil, fmt.Errorf("%w: profile payload carries no identity", domain.ErrMalformedResponse)
	}
	return &identity, nil
}
