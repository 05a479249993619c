package domain

import "time"

// Credential stores the token pair for an authenticated session.
// It is owned exclusively by the session service; everything else
// reads it through the TokenProvider port.
type Credential struct {
	// AccessToken is the bearer token attached to API calls.
	AccessToken string `json:"access_token"`
	// RefreshToken is the longer-lived token used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiresAt is when the access token expires. Zero means unknown.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// IsAuthenticated returns true if the credential carries a usable access token.
func (c *Credential) IsAuthenticated() bool {
	return c != nil && c.AccessToken != ""
}

// IsExpired returns true if the access token is known to have expired.
func (c *Credential) IsExpired() bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}
