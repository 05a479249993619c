package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation indicates client-detectable bad input,
	// rejected before any network call.
	ErrValidation = errors.New("validation failed")

	// Authentication errors.

	// ErrNotAuthenticated indicates no credential is established or the
	// server rejected the one presented. The session is cleared and the
	// caller must re-authenticate; the failure is never retried silently.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentialShape indicates a login payload that matches
	// neither accepted response layout. An unrecognised shape is a hard
	// failure, never coerced into a guessed layout.
	ErrInvalidCredentialShape = errors.New("invalid credential shape")

	// Server payload errors.

	// ErrMalformedResponse indicates an unexpected server payload shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrQuotaExceeded indicates the server refused a submission because
	// the account's ingestion quota is exhausted.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// Lifecycle errors.

	// ErrInvalidState indicates an operation attempted against an
	// artifact whose lifecycle state forbids it, e.g. training before
	// ingestion has completed.
	ErrInvalidState = errors.New("invalid lifecycle state")

	// ErrUploadFailed indicates a transport failure during submission.
	// Retry policy, if any, belongs to the caller.
	ErrUploadFailed = errors.New("upload failed")
)

// APIError is a typed failure from the remote service. It carries the
// HTTP status and the human-readable message sourced from the server.
type APIError struct {
	// StatusCode is the HTTP status the server answered with.
	StatusCode int
	// Message is the server-supplied error message, if any.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

// Unwrap maps well-known statuses onto domain sentinels so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401:
		return ErrNotAuthenticated
	case 404:
		return ErrNotFound
	case 429:
		return ErrQuotaExceeded
	}
	return nil
}
