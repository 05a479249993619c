package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driving"
	"github.com/hewnlabs/corpora-cli/internal/logger"
)

// Ensure TrackerService implements the interface.
var _ driving.TrackerService = (*TrackerService)(nil)

// trackedArtifact pairs an artifact's last-known state with the last
// snapshot applied to it.
type trackedArtifact struct {
	artifact domain.Artifact
	lastSnap *domain.StatusSnapshot
}

// TrackerService models a submitted artifact's progression through
// ingestion and embedding. It never runs timers: callers schedule polls
// and cancel them through their context.
type TrackerService struct {
	ingest driven.IngestGateway
	cache  driven.ArtifactCache // optional

	mu      sync.Mutex
	tracked map[string]*trackedArtifact
	pollSeq uint64
}

// NewTrackerService creates a tracker. The cache may be nil.
func NewTrackerService(ingest driven.IngestGateway, cache driven.ArtifactCache) *TrackerService {
	return &TrackerService{
		ingest:  ingest,
		cache:   cache,
		tracked: make(map[string]*trackedArtifact),
	}
}

// Submit dispatches the appropriate ingestion call and begins tracking
// the returned artifact ID in the pending state.
func (t *TrackerService) Submit(ctx context.Context, s domain.Submission) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	var (
		id  string
		err error
	)
	switch s.Kind {
	case domain.SourceFile:
		logger.Debug("Submitting file %q (access=%s)", s.FileName, s.Access)
		id, err = t.ingest.SubmitFile(ctx, s.FileName, s.File, s.Access, s.TeamID)
	case domain.SourceText:
		logger.Debug("Submitting text %q (access=%s)", s.Title, s.Access)
		id, err = t.ingest.SubmitText(ctx, s.Title, s.Text, s.Access, s.TeamID)
	case domain.SourceWebpage:
		logger.Debug("Submitting webpage %s (access=%s)", s.URL, s.Access)
		id, err = t.ingest.SubmitWebpage(ctx, s.URL, s.Access)
	}
	if err != nil {
		return "", fmt.Errorf("submit %s: %w", s.Kind, err)
	}

	artifact := domain.Artifact{
		ID:              id,
		Title:           s.Title,
		Kind:            s.Kind,
		Access:          s.Access,
		URL:             s.URL,
		FileName:        s.FileName,
		Status:          domain.StatePending,
		EmbeddingStatus: domain.StatePending,
		CreatedAt:       time.Now(),
	}

	t.mu.Lock()
	t.tracked[id] = &trackedArtifact{artifact: artifact}
	t.mu.Unlock()

	t.rememberArtifact(ctx, artifact)
	t.invalidateListings(ctx)

	logger.Info("Artifact %s submitted, tracking as pending", id)
	return id, nil
}

// Poll issues one status read. Once the last known lifecycle status is
// terminal the poll short-circuits: a snapshot for a terminal artifact
// cannot change, so no request is made.
func (t *TrackerService) Poll(ctx context.Context, id string) (*domain.StatusSnapshot, error) {
	t.mu.Lock()
	if ta, ok := t.tracked[id]; ok && !ta.artifact.CanPoll() {
		snap := ta.lastSnap
		t.mu.Unlock()
		if snap != nil {
			copied := *snap
			return &copied, nil
		}
		// Terminal before any poll completed; synthesise from state.
		return &domain.StatusSnapshot{
			ArtifactID: id,
			Status:     t.statusOf(id),
			Progress:   100,
			ObservedAt: time.Now(),
		}, nil
	}
	seq := t.nextSeq()
	t.mu.Unlock()

	snap, err := t.ingest.Status(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("poll %s: %w", id, err)
	}
	snap.Seq = seq
	snap.ObservedAt = time.Now()

	t.applySnapshot(snap)
	return snap, nil
}

// applySnapshot folds a snapshot into the tracked state, discarding it
// when a newer snapshot was already applied (stale responses resolve
// out of order under concurrent polls).
func (t *TrackerService) applySnapshot(snap *domain.StatusSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ta, ok := t.tracked[snap.ArtifactID]
	if !ok {
		ta = &trackedArtifact{artifact: domain.Artifact{
			ID:              snap.ArtifactID,
			Status:          snap.Status,
			EmbeddingStatus: domain.StatePending,
		}}
		t.tracked[snap.ArtifactID] = ta
	}

	if !snap.Supersedes(ta.lastSnap) {
		logger.Debug("Discarding stale snapshot seq=%d for %s", snap.Seq, snap.ArtifactID)
		return
	}

	ta.lastSnap = snap
	ta.artifact.Status = snap.Status
	ta.artifact.ErrorDetail = snap.Error
	if snap.Status == domain.StateCompleted {
		ta.artifact.ProcessedAt = snap.ObservedAt
	}
}

// Tracked returns the tracker's last-known state for an artifact.
func (t *TrackerService) Tracked(id string) (*domain.Artifact, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ta, ok := t.tracked[id]
	if !ok {
		return nil, false
	}
	copied := ta.artifact
	return &copied, true
}

// Get fetches a single artifact record from the server and refreshes
// local tracking with it.
func (t *TrackerService) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	artifact, err := t.ingest.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get artifact %s: %w", id, err)
	}

	t.mu.Lock()
	if ta, ok := t.tracked[id]; ok {
		ta.artifact = *artifact
	} else {
		t.tracked[id] = &trackedArtifact{artifact: *artifact}
	}
	t.mu.Unlock()

	t.rememberArtifact(ctx, *artifact)
	return artifact, nil
}

// List fetches one page of the artifact listing, consulting the local
// cache first.
func (t *TrackerService) List(ctx context.Context, opts domain.ListOptions) (*domain.ArtifactPage, error) {
	key := listingKey(opts)

	if t.cache != nil {
		if page, err := t.cache.GetListing(ctx, key); err == nil {
			logger.Debug("Listing served from cache (key=%s)", key)
			return page, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Listing cache read failed: %v", err)
		}
	}

	page, err := t.ingest.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	if t.cache != nil {
		if err := t.cache.PutListing(ctx, key, *page); err != nil {
			logger.Warn("Listing cache write failed: %v", err)
		}
	}

	return page, nil
}

// StartTraining triggers embedding generation. Only valid once the
// ingestion lifecycle has completed.
func (t *TrackerService) StartTraining(ctx context.Context, id string) error {
	artifact, err := t.stateFor(ctx, id)
	if err != nil {
		return err
	}
	if !artifact.CanTrain() {
		return fmt.Errorf("%w: artifact %s is %s, training requires completed",
			domain.ErrInvalidState, id, artifact.Status)
	}

	if err := t.ingest.StartTraining(ctx, id); err != nil {
		return fmt.Errorf("start training %s: %w", id, err)
	}

	t.setEmbeddingStatus(ctx, id, domain.StateProcessing)
	t.invalidateListings(ctx)
	logger.Info("Training started for %s", id)
	return nil
}

// TrainingInfo reads embedding/training progress.
func (t *TrackerService) TrainingInfo(ctx context.Context, id string) (*domain.TrainingInfo, error) {
	info, err := t.ingest.TrainingInfo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("training info %s: %w", id, err)
	}
	return info, nil
}

// Reembed resets embedding status to pending and re-queues embedding.
// Always permitted when the artifact exists; the lifecycle status is
// untouched, even for failed artifacts.
func (t *TrackerService) Reembed(ctx context.Context, id string) error {
	if err := t.ingest.Reembed(ctx, id); err != nil {
		return fmt.Errorf("reembed %s: %w", id, err)
	}

	t.setEmbeddingStatus(ctx, id, domain.StatePending)
	t.invalidateListings(ctx)
	logger.Info("Re-embed queued for %s", id)
	return nil
}

// Remove deletes the server-side record and drops local tracking.
// Removing an already-removed artifact is treated as success.
func (t *TrackerService) Remove(ctx context.Context, id string) error {
	t.mu.Lock()
	if ta, ok := t.tracked[id]; ok {
		ta.artifact.DeleteRequested = true
	}
	t.mu.Unlock()

	if err := t.ingest.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("remove %s: %w", id, err)
	}

	t.mu.Lock()
	delete(t.tracked, id)
	t.mu.Unlock()

	if t.cache != nil {
		if err := t.cache.DeleteArtifact(ctx, id); err != nil {
			logger.Warn("Cache delete for %s failed: %v", id, err)
		}
	}
	t.invalidateListings(ctx)
	logger.Info("Artifact %s removed", id)
	return nil
}

// stateFor returns the local state for an artifact, fetching from the
// server when the artifact is not tracked yet.
func (t *TrackerService) stateFor(ctx context.Context, id string) (*domain.Artifact, error) {
	if artifact, ok := t.Tracked(id); ok {
		return artifact, nil
	}
	return t.Get(ctx, id)
}

// statusOf returns the tracked lifecycle status. Callers hold t.mu.
func (t *TrackerService) statusOf(id string) domain.ProcessingState {
	if ta, ok := t.tracked[id]; ok {
		return ta.artifact.Status
	}
	return domain.StatePending
}

// nextSeq hands out monotonic poll sequence numbers. Callers hold t.mu.
func (t *TrackerService) nextSeq() uint64 {
	t.pollSeq++
	return t.pollSeq
}

func (t *TrackerService) setEmbeddingStatus(ctx context.Context, id string, s domain.ProcessingState) {
	t.mu.Lock()
	ta, ok := t.tracked[id]
	if ok {
		ta.artifact.EmbeddingStatus = s
	}
	var artifact domain.Artifact
	if ok {
		artifact = ta.artifact
	}
	t.mu.Unlock()

	if ok {
		t.rememberArtifact(ctx, artifact)
	}
}

func (t *TrackerService) rememberArtifact(ctx context.Context, a domain.Artifact) {
	if t.cache == nil {
		return
	}
	if err := t.cache.SaveArtifact(ctx, a); err != nil {
		logger.Warn("Cache write for %s failed: %v", a.ID, err)
	}
}

// invalidateListings drops cached listing pages after any successful
// mutation so the next listing reflects the change. The tracker never
// rewrites cached pages optimistically.
func (t *TrackerService) invalidateListings(ctx context.Context) {
	if t.cache == nil {
		return
	}
	if err := t.cache.InvalidateListings(ctx); err != nil {
		logger.Warn("Listing cache invalidation failed: %v", err)
	}
}

// listingKey derives a cache key from the listing filter.
func listingKey(opts domain.ListOptions) string {
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	size := opts.PageSize
	if size <= 0 {
		size = 10
	}
	return fmt.Sprintf("p%d-s%d-st%s-k%s-q%s", page, size, opts.Status, opts.Kind, opts.Search)
}
