package mcp

import (
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides hybrid search over the workspace.
	Search driving.SearchService

	// Tracker provides document listing and status reads.
	Tracker driving.TrackerService

	// Session reports who the server is acting as.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Tracker and Session are optional; the matching tools and
	// resources degrade gracefully without them.
	return nil
}
