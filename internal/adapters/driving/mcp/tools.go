package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query to run against the workspace"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"restrict the search to one document"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID    string  `json:"document_id"`
	DocumentTitle string  `json:"document_title"`
	ChunkIndex    int     `json:"chunk_index"`
	Score         float64 `json:"score"`
	MatchType     string  `json:"match_type"`
	Text          string  `json:"text"`
	PageNumber    int     `json:"page_number,omitempty"`
}

// StatusInput is the input schema for the document_status tool.
type StatusInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to read processing status for"`
}

// StatusOutput is the output schema for the document_status tool.
type StatusOutput struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Hybrid keyword/semantic search across ingested documents",
	}, s.handleSearch)

	if s.ports.Tracker != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "document_status",
			Description: "Read the processing status of a submitted document",
		}, s.handleDocumentStatus)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit}

	var (
		results *domain.SearchResultSet
		err     error
	)
	if input.DocumentID != "" {
		results, err = s.ports.Search.SearchDocument(ctx, input.DocumentID, input.Query, opts)
	} else {
		results, err = s.ports.Search.Search(ctx, input.Query, opts)
	}
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results.Matches)),
		Count:   len(results.Matches),
	}

	for i := range results.Matches {
		m := &results.Matches[i]
		output.Results[i] = SearchResultOutput{
			DocumentID:    m.DocumentID,
			DocumentTitle: m.DocumentTitle,
			ChunkIndex:    m.ChunkIndex,
			Score:         m.Score,
			MatchType:     string(m.Type),
			Text:          m.Text,
			PageNumber:    m.PageNumber,
		}
	}

	return nil, output, nil
}

// handleDocumentStatus handles the document_status tool invocation.
func (s *Server) handleDocumentStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	if s.ports.Tracker == nil {
		return nil, StatusOutput{}, errors.New("mcp: tracker service not configured")
	}

	snap, err := s.ports.Tracker.Poll(ctx, input.DocumentID)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	return nil, StatusOutput{
		DocumentID: snap.ArtifactID,
		Status:     string(snap.Status),
		Progress:   snap.Progress,
		Message:    snap.Message,
		Error:      snap.Error,
	}, nil
}
