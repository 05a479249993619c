package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestStatusSnapshot_Supersedes tests stale snapshot detection by sequence
func TestStatusSnapshot_Supersedes(t *testing.T) {
	older := &StatusSnapshot{ArtifactID: "doc-1", Seq: 3}
	newer := &StatusSnapshot{ArtifactID: "doc-1", Seq: 4}

	assert.True(t, newer.Supersedes(older))
	assert.False(t, older.Supersedes(newer))
	assert.False(t, older.Supersedes(older))
}

// TestStatusSnapshot_SupersedesNil tests that any snapshot supersedes nil
func TestStatusSnapshot_SupersedesNil(t *testing.T) {
	s := &StatusSnapshot{ArtifactID: "doc-1", Seq: 1, ObservedAt: time.Now()}
	assert.True(t, s.Supersedes(nil))
}

// TestCredential_IsAuthenticated tests credential presence checks
func TestCredential_IsAuthenticated(t *testing.T) {
	var nilCred *Credential
	assert.False(t, nilCred.IsAuthenticated())

	assert.False(t, (&Credential{}).IsAuthenticated())
	assert.True(t, (&Credential{AccessToken: "a1"}).IsAuthenticated())
}

// TestCredential_IsExpired tests expiry detection
func TestCredential_IsExpired(t *testing.T) {
	c := &Credential{AccessToken: "a1"}
	assert.False(t, c.IsExpired(), "zero expiry means unknown, not expired")

	c.ExpiresAt = time.Now().Add(-time.Minute)
	assert.True(t, c.IsExpired())

	c.ExpiresAt = time.Now().Add(time.Hour)
	assert.False(t, c.IsExpired())
}
