package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
)

// Ensure AuthGateway implements the interface.
var _ driven.AuthGateway = (*AuthGateway)(nil)

// AuthGateway talks to the /auth/ endpoints. Login and profile payloads
// are returned raw because the session service owns envelope decoding.
type AuthGateway struct {
	client *Client
}

// NewAuthGateway creates an auth gateway over the shared client.
func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

// Login authenticates with email and password. The upstream accepts
// credentials as a multipart form, not JSON.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	return g.client.sendForm(ctx, http.MethodPost, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	}, "", "", nil)
}

// FetchProfile reads the authenticated user's profile.
func (g *AuthGateway) FetchProfile(ctx context.Context) (json.RawMessage, error) {
	return g.client.getJSON(ctx, "/auth/profile/")
}

// UpdateProfile mutates profile fields. Multipart, like login.
func (g *AuthGateway) UpdateProfile(ctx context.Context, fields map[string]string) error {
	_, err := g.client.sendForm(ctx, http.MethodPut, "/auth/profile/", fields, "", "", nil)
	return err
}

// Logout invalidates the session server-side.
func (g *AuthGateway) Logout(ctx context.Context) error {
	_, err := g.client.postJSON(ctx, "/auth/logout/", nil)
	return err
}
