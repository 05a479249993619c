package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Corpora resources.
	uriScheme = "corpora://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the document inventory.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Inventory of ingested documents and their processing state",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for a single document record.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document",
		Description: "One document record with its processing and embedding state",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	// Static resource for the acting identity.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "identity",
		Name:        "identity",
		Description: "The authenticated user the server acts as",
		MIMEType:    "application/json",
	}, s.handleIdentityResource)
}

// docInfo is the resource representation of one document.
type docInfo struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Kind            string `json:"kind"`
	Status          string `json:"status"`
	EmbeddingStatus string `json:"embedding_status"`
	Error           string `json:"error,omitempty"`
}

func toDocInfo(a *domain.Artifact) docInfo {
	return docInfo{
		ID:              a.ID,
		Title:           a.Title,
		Kind:            string(a.Kind),
		Status:          string(a.Status),
		EmbeddingStatus: string(a.EmbeddingStatus),
		Error:           a.ErrorDetail,
	}
}

// handleDocumentsResource returns the first page of the document listing.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tracker == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	page, err := s.ports.Tracker.List(ctx, domain.ListOptions{PageSize: 50})
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]docInfo, len(page.Artifacts))
	for i := range page.Artifacts {
		infos[i] = toDocInfo(&page.Artifacts[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentResource returns a single document record.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tracker == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	artifact, err := s.ports.Tracker.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	data, err := json.MarshalIndent(toDocInfo(artifact), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleIdentityResource returns the cached identity, if any.
func (s *Server) handleIdentityResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text := "{}"
	if s.ports.Session != nil {
		if identity := s.ports.Session.CurrentIdentity(); identity != nil {
			data, err := json.MarshalIndent(map[string]string{
				"name":  identity.DisplayName(),
				"email": identity.Email,
				"role":  identity.Role,
			}, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("marshalling identity: %w", err)
			}
			text = string(data)
		}
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like corpora://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
