// Package api implements the driven gateway ports over the remote
// Corpora HTTP API. All requests carry a bearer token read from the
// session's token provider at send time, so a re-login in the same
// process is picked up without rebuilding the client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
	"github.com/hewnlabs/corpora-cli/internal/logger"
)

// Default configuration values.
const (
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the API base URL (required), e.g. https://api.example.com.
	BaseURL string

	// Tokens provides the bearer token for each request. May be nil for
	// unauthenticated use.
	Tokens driven.TokenProvider

	// IngestToken optionally authenticates via the X-Ingest-Token header
	// instead of a session bearer, for scripted ingestion.
	IngestToken string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration
}

// Client is the shared HTTP transport for all API gateways.
type Client struct {
	http        *http.Client
	baseURL     string
	tokens      driven.TokenProvider
	ingestToken string
}

// NewClient creates an API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		tokens:      cfg.Tokens,
		ingestToken: cfg.IngestToken,
	}, nil
}

// apiError is the wire shape of an error body. Endpoints disagree on
// the field name, so all three are probed.
type apiError struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

// do sends one request and returns the raw response body.
// Non-2xx responses become a domain.APIError; a 204 yields a nil body.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.ingestToken != "" {
		req.Header.Set("X-Ingest-Token", c.ingestToken)
	} else if c.tokens != nil {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("%s %s", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, data)
	}

	return data, nil
}

// decodeError turns a non-2xx response into a domain.APIError, keeping
// whatever message the server offered.
func decodeError(statusCode int, body []byte) error {
	var e apiError
	message := ""
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Message != "":
			message = e.Message
		case e.Detail != "":
			message = e.Detail
		case e.Error != "":
			message = e.Error
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &domain.APIError{StatusCode: statusCode, Message: message}
}

// getJSON issues a GET.
func (c *Client) getJSON(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// postJSON issues a POST with a JSON body. A nil payload sends no body.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, path, body, contentType)
}

// delete issues a DELETE.
func (c *Client) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "")
}

// sendForm issues a request with a multipart form body. Fields are
// written in map iteration order; the upstream accepts any order.
func (c *Client) sendForm(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", key, err)
		}
	}

	if file != nil {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, fmt.Errorf("creating form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("copying file payload: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalising form: %w", err)
	}

	return c.do(ctx, method, path, &buf, writer.FormDataContentType())
}
