package domain

// MatchType identifies which retrieval path produced a search match.
type MatchType string

const (
	// MatchSemantic means the chunk was scored by embedding similarity.
	MatchSemantic MatchType = "semantic"
	// MatchKeyword means the chunk was scored by lexical matching.
	MatchKeyword MatchType = "keyword"
	// MatchHybrid means the score combines both retrieval paths.
	MatchHybrid MatchType = "hybrid"
)

// SearchOptions configures a search request.
type SearchOptions struct {
	// Limit is the maximum number of results to request.
	Limit int

	// SimilarityThreshold filters out low-scoring semantic matches.
	SimilarityThreshold float64

	// IncludeMetadata requests per-chunk metadata (page numbers etc).
	IncludeMetadata bool
}

// SearchMatch is one flattened, scored chunk from a search response.
// Matches are produced only by the search aggregator and live for a
// single query.
type SearchMatch struct {
	// DocumentID identifies the artifact the chunk belongs to.
	DocumentID string

	// DocumentTitle is the owning artifact's title.
	DocumentTitle string

	// ChunkID identifies the matched chunk.
	ChunkID string

	// ChunkIndex is the chunk's ordinal position within the document.
	ChunkIndex int

	// Text is the raw chunk text.
	Text string

	// HighlightedText is the chunk text with query occurrences wrapped.
	// Server-supplied when available, otherwise derived locally.
	HighlightedText string

	// Score is the relevance score. Semantic scores take priority over
	// raw keyword scores when both are reported.
	Score float64

	// Type records which score field was populated.
	Type MatchType

	// PageNumber is the source page for paginated documents, if known.
	PageNumber int
}

// SearchResultSet is the ordered, flattened outcome of one search
// execution. It is superseded by the next query or an explicit reset.
type SearchResultSet struct {
	// Query echoes the query that produced the set.
	Query string

	// Matches is the ordered sequence of flattened chunk matches.
	// Ordering preserves the upstream document order and the
	// within-document chunk order; no client-side re-sorting.
	Matches []SearchMatch

	// TotalMatches is the server-reported total result count.
	TotalMatches int

	// TotalDocuments is the number of source documents represented.
	TotalDocuments int

	// Page and TotalPages describe the server-side pagination cursor.
	Page       int
	TotalPages int

	// HasNext and HasPrevious indicate neighbouring pages.
	HasNext     bool
	HasPrevious bool

	// ProcessingTime is the server-reported query duration in seconds.
	ProcessingTime float64
}
