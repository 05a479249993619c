package domain

import "time"

// Identity is a read-only snapshot of the authenticated user's profile.
// It is fetched after a credential is established and becomes stale on
// any identity-affecting mutation (e.g. a profile update).
type Identity struct {
	// ID is the server-assigned user identifier.
	ID string `json:"id"`
	// Email is the login email address.
	Email string `json:"email"`
	// FirstName and LastName are optional display fields.
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	// Role is the account role (account_holder, team_member, admin).
	Role string `json:"role"`
	// Company is the organisation the account belongs to, if set.
	Company string `json:"company,omitempty"`
	// Verified is true once the account has completed verification.
	Verified bool `json:"is_verified"`
	// EmailVerified is true once the login email has been confirmed.
	EmailVerified bool `json:"is_email_verified"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the profile was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns a human-readable name for the identity.
// Falls back to the email address when no name fields are set.
func (i *Identity) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	default:
		return i.Email
	}
}
