package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestProcessingState_Terminal tests terminal state detection
func TestProcessingState_Terminal(t *testing.T) {
	tests := []struct {
		state    ProcessingState
		terminal bool
	}{
		{StatePending, false},
		{StateProcessing, false},
		{StateCompleted, true},
		{StateFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.state.Terminal())
		})
	}
}

// TestProcessingState_Valid tests state validation
func TestProcessingState_Valid(t *testing.T) {
	assert.True(t, StatePending.Valid())
	assert.True(t, StateProcessing.Valid())
	assert.True(t, StateCompleted.Valid())
	assert.True(t, StateFailed.Valid())
	assert.False(t, ProcessingState("done").Valid())
	assert.False(t, ProcessingState("").Valid())
}

// TestSourceKind_Valid tests source kind validation
func TestSourceKind_Valid(t *testing.T) {
	assert.True(t, SourceFile.Valid())
	assert.True(t, SourceText.Valid())
	assert.True(t, SourceWebpage.Valid())
	assert.False(t, SourceKind("pdf").Valid())
}

// TestAccessLevel_Valid tests access level validation
func TestAccessLevel_Valid(t *testing.T) {
	assert.True(t, AccessPublic.Valid())
	assert.True(t, AccessPrivate.Valid())
	assert.True(t, AccessTeam.Valid())
	assert.False(t, AccessLevel("everyone").Valid())
}

// TestArtifact_CanPoll tests that terminal artifacts are not pollable
func TestArtifact_CanPoll(t *testing.T) {
	tests := []struct {
		status  ProcessingState
		canPoll bool
	}{
		{StatePending, true},
		{StateProcessing, true},
		{StateCompleted, false},
		{StateFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := Artifact{ID: "doc-1", Status: tt.status}
			assert.Equal(t, tt.canPoll, a.CanPoll())
		})
	}
}

// TestArtifact_CanTrain tests that training requires completed ingestion
func TestArtifact_CanTrain(t *testing.T) {
	a := Artifact{ID: "doc-1", Status: StateProcessing}
	assert.False(t, a.CanTrain())

	a.Status = StateCompleted
	assert.True(t, a.CanTrain())

	a.Status = StateFailed
	assert.False(t, a.CanTrain())
}

// TestArtifact_IndependentEmbeddingStatus tests that the two state
// machines do not influence each other.
func TestArtifact_IndependentEmbeddingStatus(t *testing.T) {
	a := Artifact{
		ID:              "doc-1",
		Status:          StateFailed,
		EmbeddingStatus: StatePending,
	}

	// A failed lifecycle does not make the embedding state terminal.
	assert.True(t, a.Status.Terminal())
	assert.False(t, a.EmbeddingStatus.Terminal())
}
