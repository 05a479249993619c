package mcp

import (
	"context"
	"encoding/json"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   *domain.SearchResultSet
	err       error
	lastQuery string
	lastDocID string
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	_ domain.SearchOptions,
) (*domain.SearchResultSet, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if m.results == nil {
		return &domain.SearchResultSet{Query: query}, nil
	}
	return m.results, nil
}

func (m *mockSearchService) SearchDocument(
	_ context.Context,
	documentID, query string,
	_ domain.SearchOptions,
) (*domain.SearchResultSet, error) {
	m.lastDocID = documentID
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if m.results == nil {
		return &domain.SearchResultSet{Query: query}, nil
	}
	return m.results, nil
}

// mockTrackerService is a mock implementation of driving.TrackerService.
type mockTrackerService struct {
	page     *domain.ArtifactPage
	artifact *domain.Artifact
	snapshot *domain.StatusSnapshot
	err      error
}

func (m *mockTrackerService) Submit(_ context.Context, _ domain.Submission) (string, error) {
	return "", m.err
}

func (m *mockTrackerService) Poll(_ context.Context, _ string) (*domain.StatusSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockTrackerService) Tracked(_ string) (*domain.Artifact, bool) {
	return m.artifact, m.artifact != nil
}

func (m *mockTrackerService) Get(_ context.Context, _ string) (*domain.Artifact, error) {
	return m.artifact, m.err
}

func (m *mockTrackerService) List(_ context.Context, _ domain.ListOptions) (*domain.ArtifactPage, error) {
	return m.page, m.err
}

func (m *mockTrackerService) StartTraining(_ context.Context, _ string) error {
	return m.err
}

func (m *mockTrackerService) TrainingInfo(_ context.Context, _ string) (*domain.TrainingInfo, error) {
	return nil, m.err
}

func (m *mockTrackerService) Reembed(_ context.Context, _ string) error {
	return m.err
}

func (m *mockTrackerService) Remove(_ context.Context, _ string) error {
	return m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	identity *domain.Identity
	err      error
}

func (m *mockSessionService) Login(_ context.Context, _, _ string) error { return m.err }

func (m *mockSessionService) Establish(_ context.Context, _ json.RawMessage) error { return m.err }

func (m *mockSessionService) Resume(_ context.Context) error { return m.err }

func (m *mockSessionService) CurrentIdentity() *domain.Identity { return m.identity }

func (m *mockSessionService) RefreshIdentity(_ context.Context) (*domain.Identity, error) {
	return m.identity, m.err
}

func (m *mockSessionService) UpdateProfile(_ context.Context, _ map[string]string) (*domain.Identity, error) {
	return m.identity, m.err
}

func (m *mockSessionService) IsAuthenticated() bool { return m.identity != nil }

func (m *mockSessionService) Logout(_ context.Context) error { return m.err }

func (m *mockSessionService) Clear(_ context.Context) error { return m.err }
