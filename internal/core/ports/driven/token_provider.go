package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
//
// The session service is the single writer of the underlying credential;
// the transport adapter and any other component issuing requests read
// through this interface. Reads are atomic: a caller never observes a
// partially-updated token pair.
type TokenProvider interface {
	// GetToken returns the current access token, or empty when no
	// credential is established.
	GetToken(ctx context.Context) (string, error)

	// Version returns the credential cell's version counter. The counter
	// increments on every replacement, letting callers detect that a
	// token they captured has since been superseded.
	Version() uint64

	// IsAuthenticated returns true if a usable credential is present.
	IsAuthenticated() bool
}
