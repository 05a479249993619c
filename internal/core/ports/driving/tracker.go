package driving

import (
	"context"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// TrackerService models a submitted artifact's progression through
// ingestion and embedding. It issues single status reads on demand and
// never runs timers of its own; callers schedule polls and cancel them
// via context.
type TrackerService interface {
	// Submit dispatches the appropriate ingestion call for the
	// submission kind and begins tracking the returned artifact ID in
	// the pending state.
	Submit(ctx context.Context, s domain.Submission) (string, error)

	// Poll issues one status read for a tracked artifact. Once the
	// last known lifecycle status is terminal, Poll returns the last
	// snapshot without touching the network.
	Poll(ctx context.Context, id string) (*domain.StatusSnapshot, error)

	// Tracked returns the tracker's last-known state for an artifact.
	Tracked(id string) (*domain.Artifact, bool)

	// Get fetches a single artifact record from the server.
	Get(ctx context.Context, id string) (*domain.Artifact, error)

	// List fetches one page of the artifact listing, consulting the
	// local cache first.
	List(ctx context.Context, opts domain.ListOptions) (*domain.ArtifactPage, error)

	// StartTraining triggers embedding generation for a completed
	// artifact. Fails with domain.ErrInvalidState otherwise.
	StartTraining(ctx context.Context, id string) error

	// TrainingInfo reads embedding/training progress.
	TrainingInfo(ctx context.Context, id string) (*domain.TrainingInfo, error)

	// Reembed resets embedding status to pending and re-queues
	// embedding. Always permitted when the artifact exists.
	Reembed(ctx context.Context, id string) error

	// Remove deletes the server-side record and drops local tracking.
	// Removing an already-removed artifact succeeds.
	Remove(ctx context.Context, id string) error
}
