package domain

import "time"

// StatusSnapshot is an ephemeral read of an artifact's processing
// progress. It is superseded by each subsequent poll and never persisted.
type StatusSnapshot struct {
	// ArtifactID identifies the artifact the snapshot belongs to.
	ArtifactID string

	// Status is the lifecycle state at the time of the poll.
	Status ProcessingState

	// Progress is the completion percentage (0-100).
	Progress int

	// Message is an optional human-readable progress message.
	Message string

	// Error carries the failure reason when Status is failed.
	Error string

	// Seq is the monotonic poll sequence number assigned by the tracker.
	// A caller holding a snapshot with a higher Seq must discard any
	// snapshot with a lower one that resolves later.
	Seq uint64

	// ObservedAt is when the poll response was received.
	ObservedAt time.Time
}

// Supersedes returns true if this snapshot is newer than other.
// A nil other is always superseded.
func (s *StatusSnapshot) Supersedes(other *StatusSnapshot) bool {
	if other == nil {
		return true
	}
	return s.Seq > other.Seq
}

// TrainingInfo describes the embedding/training progress of an artifact.
type TrainingInfo struct {
	// ArtifactID identifies the artifact.
	ArtifactID string

	// Status is the embedding state.
	Status ProcessingState

	// ChunkCount is the number of chunks produced from the artifact.
	ChunkCount int

	// EmbeddingCount is the number of embeddings generated so far.
	EmbeddingCount int

	// Progress is the training completion percentage (0-100).
	Progress int

	// ErrorMessage carries the failure reason when Status is failed.
	ErrorMessage string
}
