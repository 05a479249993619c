package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// TestCredentialCell_Empty tests the zero state
func TestCredentialCell_Empty(t *testing.T) {
	cell := NewCredentialCell()

	assert.Nil(t, cell.Get())
	assert.False(t, cell.IsAuthenticated())
	assert.Zero(t, cell.Version())

	token, err := cell.GetToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

// TestCredentialCell_SetGet tests copy semantics on reads
func TestCredentialCell_SetGet(t *testing.T) {
	cell := NewCredentialCell()
	cell.Set(domain.Credential{AccessToken: "a1", RefreshToken: "r1"})

	got := cell.Get()
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.AccessToken)

	// Mutating the returned copy never leaks back into the cell.
	got.AccessToken = "tampered"
	assert.Equal(t, "a1", cell.Get().AccessToken)

	token, err := cell.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", token)
	assert.True(t, cell.IsAuthenticated())
}

// TestCredentialCell_VersionBumps tests the replacement counter
func TestCredentialCell_VersionBumps(t *testing.T) {
	cell := NewCredentialCell()

	cell.Set(domain.Credential{AccessToken: "a1"})
	v1 := cell.Version()
	assert.Equal(t, uint64(1), v1)

	cell.Set(domain.Credential{AccessToken: "a2"})
	assert.Greater(t, cell.Version(), v1)

	v2 := cell.Version()
	cell.Clear()
	assert.Greater(t, cell.Version(), v2)
}

// TestCredentialCell_ClearIdempotent tests that clearing an empty cell
// does not bump the version.
func TestCredentialCell_ClearIdempotent(t *testing.T) {
	cell := NewCredentialCell()

	cell.Clear()
	assert.Zero(t, cell.Version())

	cell.Set(domain.Credential{AccessToken: "a1"})
	cell.Clear()
	v := cell.Version()
	cell.Clear()
	assert.Equal(t, v, cell.Version())
	assert.False(t, cell.IsAuthenticated())
}
