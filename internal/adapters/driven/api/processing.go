package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
)

// Ensure the gateways implement their interfaces.
var (
	_ driven.IngestGateway = (*ProcessingGateway)(nil)
	_ driven.SearchGateway = (*ProcessingGateway)(nil)
)

// ProcessingGateway talks to the /processing/ endpoints: submission,
// lifecycle, training and search.
type ProcessingGateway struct {
	client *Client
}

// NewProcessingGateway creates a processing gateway over the shared client.
func NewProcessingGateway(client *Client) *ProcessingGateway {
	return &ProcessingGateway{client: client}
}

// submitResponse is the wire shape of a submission acknowledgement.
// Endpoints disagree on the ID field name.
type submitResponse struct {
	DocumentID string `json:"document_id"`
	ID         string `json:"id"`
}

// statusResponse is the wire shape of a processing-status read.
type statusResponse struct {
	DocumentID string  `json:"document_id"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress"`
	Message    string  `json:"message"`
	Error      string  `json:"error"`
}

// documentRecord is the wire shape of one artifact in Get and List
// responses.
type documentRecord struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DocumentType    string `json:"document_type"`
	AccessLevel     string `json:"access_level"`
	URL             string `json:"url"`
	FileName        string `json:"file_name"`
	Status          string `json:"processing_status"`
	EmbeddingStatus string `json:"embedding_status"`
	ErrorMessage    string `json:"error_message"`
	CreatedAt       string `json:"created_at"`
	ProcessedAt     string `json:"processed_at"`
}

// listResponse is the wire shape of the paginated listing.
type listResponse struct {
	Results  []documentRecord `json:"results"`
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
}

// trainingResponse is the wire shape of the training-info read.
type trainingResponse struct {
	DocumentID     string  `json:"document_id"`
	Status         string  `json:"status"`
	ChunkCount     int     `json:"chunk_count"`
	EmbeddingCount int     `json:"embedding_count"`
	Progress       float64 `json:"progress"`
	Error          string  `json:"error"`
}

// SubmitFile uploads a file as multipart form data.
func (g *ProcessingGateway) SubmitFile(ctx context.Context, name string, r io.Reader, access domain.AccessLevel, teamID string) (string, error) {
	fields := map[string]string{
		"access_level": string(access),
	}
	if teamID != "" {
		fields["team_id"] = teamID
	}

	raw, err := g.client.sendForm(ctx, http.MethodPost, "/processing/documents/upload/", fields, "file", name, r)
	if err != nil {
		return "", err
	}
	return decodeSubmitID(raw)
}

// SubmitText submits raw text with a title.
func (g *ProcessingGateway) SubmitText(ctx context.Context, title, text string, access domain.AccessLevel, teamID string) (string, error) {
	fields := map[string]string{
		"title":        title,
		"text":         text,
		"access_level": string(access),
	}
	if teamID != "" {
		fields["team_id"] = teamID
	}

	raw, err := g.client.sendForm(ctx, http.MethodPost, "/processing/text/", fields, "", "", nil)
	if err != nil {
		return "", err
	}
	return decodeSubmitID(raw)
}

// SubmitWebpage submits a URL for server-side fetching.
func (g *ProcessingGateway) SubmitWebpage(ctx context.Context, pageURL string, access domain.AccessLevel) (string, error) {
	raw, err := g.client.sendForm(ctx, http.MethodPost, "/processing/webpage-process/", map[string]string{
		"url":          pageURL,
		"access_level": string(access),
	}, "", "", nil)
	if err != nil {
		return "", err
	}
	return decodeSubmitID(raw)
}

// Status reads the current processing status of an artifact.
func (g *ProcessingGateway) Status(ctx context.Context, id string) (*domain.StatusSnapshot, error) {
	raw, err := g.client.getJSON(ctx, "/processing/documents/"+url.PathEscape(id)+"/processing-status")
	if err != nil {
		return nil, err
	}

	var resp statusResponse
	if err := json.Unmarshal(unwrapData(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: status payload: %v", domain.ErrMalformedResponse, err)
	}

	snap := &domain.StatusSnapshot{
		ArtifactID: resp.DocumentID,
		Status:     domain.ProcessingState(resp.Status),
		Progress:   int(resp.Progress),
		Message:    resp.Message,
		Error:      resp.Error,
	}
	if snap.ArtifactID == "" {
		snap.ArtifactID = id
	}
	if !snap.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown processing status %q", domain.ErrMalformedResponse, resp.Status)
	}
	return snap, nil
}

// Get retrieves a single artifact record.
func (g *ProcessingGateway) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	raw, err := g.client.getJSON(ctx, "/processing/documents/"+url.PathEscape(id)+"/")
	if err != nil {
		return nil, err
	}

	var record documentRecord
	if err := json.Unmarshal(unwrapData(raw), &record); err != nil {
		return nil, fmt.Errorf("%w: document payload: %v", domain.ErrMalformedResponse, err)
	}
	return toArtifact(record), nil
}

// List retrieves one page of the artifact listing.
func (g *ProcessingGateway) List(ctx context.Context, opts domain.ListOptions) (*domain.ArtifactPage, error) {
	params := url.Values{}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.Status != "" {
		params.Set("processing_status", string(opts.Status))
	}
	if opts.Kind != "" {
		params.Set("content_type", string(opts.Kind))
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}

	path := "/processing/documents/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	raw, err := g.client.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(unwrapData(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: listing payload: %v", domain.ErrMalformedResponse, err)
	}

	page := &domain.ArtifactPage{
		Count:       resp.Count,
		HasNext:     resp.Next != nil,
		HasPrevious: resp.Previous != nil,
	}
	for _, record := range resp.Results {
		page.Artifacts = append(page.Artifacts, *toArtifact(record))
	}
	return page, nil
}

// StartTraining triggers server-side embedding generation.
func (g *ProcessingGateway) StartTraining(ctx context.Context, id string) error {
	_, err := g.client.postJSON(ctx, "/processing/documents/"+url.PathEscape(id)+"/train/", nil)
	return err
}

// TrainingInfo reads the embedding/training progress.
func (g *ProcessingGateway) TrainingInfo(ctx context.Context, id string) (*domain.TrainingInfo, error) {
	raw, err := g.client.getJSON(ctx, "/processing/documents/"+url.PathEscape(id)+"/train/")
	if err != nil {
		return nil, err
	}

	var resp trainingResponse
	if err := json.Unmarshal(unwrapData(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: training payload: %v", domain.ErrMalformedResponse, err)
	}

	info := &domain.TrainingInfo{
		ArtifactID:     resp.DocumentID,
		Status:         domain.ProcessingState(resp.Status),
		ChunkCount:     resp.ChunkCount,
		EmbeddingCount: resp.EmbeddingCount,
		Progress:       int(resp.Progress),
		ErrorMessage:   resp.Error,
	}
	if info.ArtifactID == "" {
		info.ArtifactID = id
	}
	return info, nil
}

// Reembed resets and re-queues embedding generation.
func (g *ProcessingGateway) Reembed(ctx context.Context, id string) error {
	_, err := g.client.postJSON(ctx, "/processing/documents/"+url.PathEscape(id)+"/reembed/", nil)
	return err
}

// Delete removes the server-side record.
func (g *ProcessingGateway) Delete(ctx context.Context, id string) error {
	_, err := g.client.delete(ctx, "/processing/documents/"+url.PathEscape(id)+"/")
	return err
}

// searchRequest is the wire shape of both search requests.
type searchRequest struct {
	Query               string  `json:"query"`
	Limit               int     `json:"limit,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	IncludeMetadata     bool    `json:"include_metadata,omitempty"`
}

// Search runs a hybrid search across all artifacts. The body is
// returned raw; the search service owns normalization.
func (g *ProcessingGateway) Search(ctx context.Context, query string, opts domain.SearchOptions) (json.RawMessage, error) {
	return g.client.postJSON(ctx, "/processing/search/", searchRequest{
		Query:               query,
		Limit:               opts.Limit,
		SimilarityThreshold: opts.SimilarityThreshold,
		IncludeMetadata:     opts.IncludeMetadata,
	})
}

// SearchDocument runs a search scoped to a single artifact.
func (g *ProcessingGateway) SearchDocument(ctx context.Context, documentID, query string, opts domain.SearchOptions) (json.RawMessage, error) {
	return g.client.postJSON(ctx, "/processing/documents/"+url.PathEscape(documentID)+"/search/", searchRequest{
		Query:               query,
		Limit:               opts.Limit,
		SimilarityThreshold: opts.SimilarityThreshold,
		IncludeMetadata:     opts.IncludeMetadata,
	})
}

// decodeSubmitID extracts the artifact ID from a submission response.
func decodeSubmitID(raw json.RawMessage) (string, error) {
	var resp submitResponse
	if err := json.Unmarshal(unwrapData(raw), &resp); err != nil {
		return "", fmt.Errorf("%w: submission payload: %v", domain.ErrMalformedResponse, err)
	}

	id := resp.DocumentID
	if id == "" {
		id = resp.ID
	}
	if id == "" {
		return "", fmt.Errorf("%w: submission payload carries no document id", domain.ErrMalformedResponse)
	}
	return id, nil
}

// toArtifact maps a wire record to the domain type. Timestamps arrive
// as RFC 3339 strings; unparsable ones are left zero.
func toArtifact(record documentRecord) *domain.Artifact {
	a := &domain.Artifact{
		ID:              record.ID,
		Title:           record.Title,
		Kind:            domain.SourceKind(record.DocumentType),
		Access:          domain.AccessLevel(record.AccessLevel),
		URL:             record.URL,
		FileName:        record.FileName,
		Status:          domain.ProcessingState(record.Status),
		EmbeddingStatus: domain.ProcessingState(record.EmbeddingStatus),
		ErrorDetail:     record.ErrorMessage,
	}
	if t, err := time.Parse(time.RFC3339, record.CreatedAt); err == nil {
		a.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, record.ProcessedAt); err == nil {
		a.ProcessedAt = t
	}
	return a
}

// unwrapData strips the optional {data: ...} envelope some endpoints
// wrap their payloads in.
func unwrapData(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return envelope.Data
	}
	return raw
}
