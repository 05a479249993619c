package cli

import (
	"context"
	"encoding/json"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	identity    *domain.Identity
	loginErr    error
	logoutErr   error
	refreshErr  error
	lastEmail   string
	lastPass    string
	lastFields  map[string]string
	logoutCalls int
}

func (m *mockSessionService) Login(_ context.Context, email, password string) error {
	m.lastEmail = email
	m.lastPass = password
	return m.loginErr
}

func (m *mockSessionService) Establish(_ context.Context, _ json.RawMessage) error { return nil }

func (m *mockSessionService) Resume(_ context.Context) error { return nil }

func (m *mockSessionService) CurrentIdentity() *domain.Identity { return m.identity }

func (m *mockSessionService) RefreshIdentity(_ context.Context) (*domain.Identity, error) {
	return m.identity, m.refreshErr
}

func (m *mockSessionService) UpdateProfile(_ context.Context, fields map[string]string) (*domain.Identity, error) {
	m.lastFields = fields
	return m.identity, m.refreshErr
}

func (m *mockSessionService) IsAuthenticated() bool { return m.identity != nil }

func (m *mockSessionService) Logout(_ context.Context) error {
	m.logoutCalls++
	return m.logoutErr
}

func (m *mockSessionService) Clear(_ context.Context) error { return nil }

// mockTrackerService is a mock implementation of driving.TrackerService.
type mockTrackerService struct {
	submitID       string
	submitErr      error
	snapshots      []*domain.StatusSnapshot
	pollErr        error
	artifact       *domain.Artifact
	page           *domain.ArtifactPage
	trainErr       error
	trainingInfo   *domain.TrainingInfo
	reembedErr     error
	removeErr      error
	lastSubmission domain.Submission
}

func (m *mockTrackerService) Submit(_ context.Context, s domain.Submission) (string, error) {
	m.lastSubmission = s
	return m.submitID, m.submitErr
}

func (m *mockTrackerService) Poll(_ context.Context, _ string) (*domain.StatusSnapshot, error) {
	if m.pollErr != nil {
		return nil, m.pollErr
	}
	if len(m.snapshots) == 0 {
		return nil, domain.ErrNotFound
	}
	snap := m.snapshots[0]
	if len(m.snapshots) > 1 {
		m.snapshots = m.snapshots[1:]
	}
	return snap, nil
}

func (m *mockTrackerService) Tracked(_ string) (*domain.Artifact, bool) {
	return m.artifact, m.artifact != nil
}

func (m *mockTrackerService) Get(_ context.Context, _ string) (*domain.Artifact, error) {
	if m.artifact == nil {
		return nil, domain.ErrNotFound
	}
	return m.artifact, nil
}

func (m *mockTrackerService) List(_ context.Context, _ domain.ListOptions) (*domain.ArtifactPage, error) {
	if m.page == nil {
		return &domain.ArtifactPage{}, nil
	}
	return m.page, nil
}

func (m *mockTrackerService) StartTraining(_ context.Context, _ string) error { return m.trainErr }

func (m *mockTrackerService) TrainingInfo(_ context.Context, _ string) (*domain.TrainingInfo, error) {
	if m.trainingInfo == nil {
		return nil, domain.ErrNotFound
	}
	return m.trainingInfo, nil
}

func (m *mockTrackerService) Reembed(_ context.Context, _ string) error { return m.reembedErr }

func (m *mockTrackerService) Remove(_ context.Context, _ string) error { return m.removeErr }

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   *domain.SearchResultSet
	err       error
	lastQuery string
	lastDocID string
}

func (m *mockSearchService) Search(_ context.Context, query string, _ domain.SearchOptions) (*domain.SearchResultSet, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if m.results == nil {
		return &domain.SearchResultSet{Query: query}, nil
	}
	return m.results, nil
}

func (m *mockSearchService) SearchDocument(_ context.Context, documentID, query string, _ domain.SearchOptions) (*domain.SearchResultSet, error) {
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

// mockConfigStore is an in-memory driven.ConfigStore.
type mockConfigStore struct {
	values  map[string]any
	saveErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return m.saveErr }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/corpora-test/config.toml" }

// setupTestServices swaps the package-level services for mocks and
// returns the mocks plus a cleanup restoring the originals.
type testServices struct {
	session *mockSessionService
	tracker *mockTrackerService
	search  *mockSearchService
	config  *mockConfigStore
}

func setupTestServices() (*testServices, func()) {
	oldSession := sessionService
	oldTracker := trackerService
	oldSearch := searchService
	oldConfig := configStore

	svcs := &testServices{
		session: &mockSessionService{},
		tracker: &mockTrackerService{},
		search:  &mockSearchService{},
		config:  newMockConfigStore(),
	}

	sessionService = svcs.session
	trackerService = svcs.tracker
	searchService = svcs.search
	configStore = svcs.config

	return svcs, func() {
		sessionService = oldSession
		trackerService = oldTracker
		searchService = oldSearch
		configStore = oldConfig
	}
}
