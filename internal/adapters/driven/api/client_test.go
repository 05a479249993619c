package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// staticTokens implements driven.TokenProvider with a fixed token.
type staticTokens struct {
	token string
}

func (s *staticTokens) GetToken(_ context.Context) (string, error) { return s.token, nil }
func (s *staticTokens) Version() uint64                            { return 1 }
func (s *staticTokens) IsAuthenticated() bool                      { return s.token != "" }

func newTestClient(t *testing.T, handler http.Handler, cfg Config) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_BearerHeader(t *testing.T) {
	var gotAuth, gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, handler, Config{Tokens: &staticTokens{token: "tok-1"}})

	_, err := client.getJSON(context.Background(), "/auth/profile/")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request carries a request id")
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, handler, Config{Tokens: &staticTokens{}})

	_, err := client.getJSON(context.Background(), "/x")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_IngestTokenHeader(t *testing.T) {
	var gotIngest, gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIngest = r.Header.Get("X-Ingest-Token")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, handler, Config{
		Tokens:      &staticTokens{token: "tok-1"},
		IngestToken: "ingest-1",
	})

	_, err := client.getJSON(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, "ingest-1", gotIngest)
	assert.Empty(t, gotAuth, "ingest token replaces the bearer, never both")
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
		wantMsg    string
	}{
		{"unauthorized", 401, `{"detail": "token expired"}`, domain.ErrNotAuthenticated, "token expired"},
		{"not found", 404, `{"message": "no such document"}`, domain.ErrNotFound, "no such document"},
		{"quota", 429, `{"error": "quota exceeded"}`, domain.ErrQuotaExceeded, "quota exceeded"},
		{"plain body", 500, `upstream exploded`, nil, "upstream exploded"},
		{"empty body", 503, ``, nil, http.StatusText(503)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			})
			client := newTestClient(t, handler, Config{})

			_, err := client.getJSON(context.Background(), "/x")
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_NoContent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, handler, Config{})

	body, err := client.delete(context.Background(), "/x")
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestAuthGateway_LoginSendsMultipart(t *testing.T) {
	var gotEmail, gotPassword string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotEmail = r.FormValue("email")
		gotPassword = r.FormValue("password")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login/", r.URL.Path)
		w.Write([]byte(`{"status":"success","tokens":{"access":"a","refresh":"r"},"user":{"id":"u1"}}`))
	})

	client := newTestClient(t, handler, Config{})
	gateway := NewAuthGateway(client)

	raw, err := gateway.Login(context.Background(), "x@y.com", "pw")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"success"`)
	assert.Equal(t, "x@y.com", gotEmail)
	assert.Equal(t, "pw", gotPassword)
}

func TestAuthGateway_Logout(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, handler, Config{})
	gateway := NewAuthGateway(client)

	require.NoError(t, gateway.Logout(context.Background()))
	assert.Equal(t, "/auth/logout/", gotPath)
}
