package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driving"
	"github.com/hewnlabs/corpora-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService normalizes raw search responses into flat, ranked
// result sets. It owns no persistent state: every execution yields a
// fresh SearchResultSet that the next query supersedes.
type SearchService struct {
	gateway driven.SearchGateway
}

// NewSearchService creates a search service.
func NewSearchService(gateway driven.SearchGateway) *SearchService {
	return &SearchService{gateway: gateway}
}

// chunkMatch is the wire shape of one scored chunk. The per-document
// path spells the text field "content" and may report similarity_score;
// both spellings are accepted alongside the grouped-path fields.
type chunkMatch struct {
	ChunkID         string   `json:"chunk_id"`
	ChunkIndex      int      `json:"chunk_index"`
	ChunkText       string   `json:"chunk_text"`
	Content         string   `json:"content"`
	SemanticScore   *float64 `json:"semantic_score"`
	RawScore        *float64 `json:"raw_score"`
	SimilarityScore *float64 `json:"similarity_score"`
	HighlightedText string   `json:"highlighted_text"`
	DocumentID      string   `json:"document_id"`
	DocumentTitle   string   `json:"document_title"`
	PageNumber      int      `json:"page_number"`
	Metadata        *struct {
		PageNumber int `json:"page_number"`
	} `json:"metadata"`
}

// documentGroup is the wire shape of one per-document result group.
type documentGroup struct {
	DocumentID    string       `json:"document_id"`
	DocumentTitle string       `json:"document_title"`
	Chunks        []chunkMatch `json:"chunks"`
}

// hybridEnvelope is the nested hybrid search response:
// {results:{results:[...groups], total_results, ...}, processing_time, query}.
type hybridEnvelope struct {
	Results *struct {
		Results        json.RawMessage `json:"results"`
		TotalResults   int             `json:"total_results"`
		TotalDocuments int             `json:"total_documents"`
		Page           int             `json:"page"`
		TotalPages     int             `json:"total_pages"`
		HasNext        bool            `json:"has_next"`
		HasPrevious    bool            `json:"has_previous"`
	} `json:"results"`
	ProcessingTime float64 `json:"processing_time"`
	Query          string  `json:"query"`
}

// singleEnvelope is the flat per-document response:
// {results:[...chunks], total_count, processing_time, query}.
type singleEnvelope struct {
	Results        json.RawMessage `json:"results"`
	TotalCount     int             `json:"total_count"`
	ProcessingTime float64         `json:"processing_time"`
	Query          string          `json:"query"`
}

// Search runs a hybrid search across all artifacts.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResultSet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrValidation)
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q, limit=%d", query, opts.Limit)

	raw, err := s.gateway.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	set, err := Normalize(raw, query)
	if err != nil {
		return nil, err
	}

	logger.Info("Search returned %d matches across %d documents", len(set.Matches), set.TotalDocuments)
	return set, nil
}

// SearchDocument runs a search scoped to one artifact.
func (s *SearchService) SearchDocument(ctx context.Context, documentID, query string, opts domain.SearchOptions) (*domain.SearchResultSet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrValidation)
	}
	if documentID == "" {
		return nil, fmt.Errorf("%w: empty document id", domain.ErrValidation)
	}

	raw, err := s.gateway.SearchDocument(ctx, documentID, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search document %s: %w", documentID, err)
	}

	return SingleDocument(documentID, raw, query)
}

// Normalize flattens a nested hybrid search response into an ordered
// result set.
//
// Every chunk of every document group lands in one sequence, preserving
// source document order and within-document chunk order. Upstream
// ordering already reflects relevance rank, so nothing is re-sorted.
// A missing or non-array results container is a malformed response; an
// empty array is a valid zero-match set echoing the query back.
func Normalize(raw json.RawMessage, originalQuery string) (*domain.SearchResultSet, error) {
	body := unwrapData(raw)

	var envelope hybridEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: search payload: %v", domain.ErrMalformedResponse, err)
	}
	if envelope.Results == nil {
		return nil, fmt.Errorf("%w: search payload has no results container", domain.ErrMalformedResponse)
	}

	groups, err := decodeGroups(envelope.Results.Results)
	if err != nil {
		return nil, err
	}

	set := &domain.SearchResultSet{
		Query:          originalQuery,
		TotalMatches:   envelope.Results.TotalResults,
		TotalDocuments: envelope.Results.TotalDocuments,
		Page:           envelope.Results.Page,
		TotalPages:     envelope.Results.TotalPages,
		HasNext:        envelope.Results.HasNext,
		HasPrevious:    envelope.Results.HasPrevious,
		ProcessingTime: envelope.ProcessingTime,
	}
	if envelope.Query != "" {
		set.Query = envelope.Query
	}
	// Empty-chunk groups contribute no matches but still count as
	// source documents when the server omits an explicit total.
	if set.TotalDocuments == 0 {
		set.TotalDocuments = len(groups)
	}

	for _, group := range groups {
		for _, chunk := range group.Chunks {
			match := toMatch(chunk, originalQuery)
			if match.DocumentID == "" {
				match.DocumentID = group.DocumentID
			}
			if match.DocumentTitle == "" {
				match.DocumentTitle = group.DocumentTitle
			}
			set.Matches = append(set.Matches, match)
		}
	}

	return set, nil
}

// SingleDocument normalizes a per-document search response, which
// carries a flat chunk array instead of document groups. Score and
// highlight derivation are identical to Normalize.
func SingleDocument(documentID string, raw json.RawMessage, originalQuery string) (*domain.SearchResultSet, error) {
	body := unwrapData(raw)

	var envelope singleEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: search payload: %v", domain.ErrMalformedResponse, err)
	}
	if len(envelope.Results) == 0 || string(envelope.Results) == "null" {
		return nil, fmt.Errorf("%w: search payload has no results container", domain.ErrMalformedResponse)
	}

	var chunks []chunkMatch
	if err := json.Unmarshal(envelope.Results, &chunks); err != nil {
		return nil, fmt.Errorf("%w: results is not a sequence: %v", domain.ErrMalformedResponse, err)
	}

	set := &domain.SearchResultSet{
		Query:          originalQuery,
		TotalMatches:   envelope.TotalCount,
		ProcessingTime: envelope.ProcessingTime,
	}
	if envelope.Query != "" {
		set.Query = envelope.Query
	}
	if set.TotalMatches == 0 {
		set.TotalMatches = len(chunks)
	}
	if len(chunks) > 0 {
		set.TotalDocuments = 1
	}

	for _, chunk := range chunks {
		match := toMatch(chunk, originalQuery)
		if match.DocumentID == "" {
			match.DocumentID = documentID
		}
		set.Matches = append(set.Matches, match)
	}

	return set, nil
}

// decodeGroups validates that the inner results container is a sequence.
func decodeGroups(raw json.RawMessage) ([]documentGroup, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: results container is missing", domain.ErrMalformedResponse)
	}

	var groups []documentGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("%w: results is not a sequence: %v", domain.ErrMalformedResponse, err)
	}
	return groups, nil
}

// toMatch derives a SearchMatch from one wire chunk. The semantic score
// takes priority over the raw keyword score when both are present; a
// chunk with neither scores zero as a keyword match.
func toMatch(chunk chunkMatch, query string) domain.SearchMatch {
	text := chunk.ChunkText
	if text == "" {
		text = chunk.Content
	}

	match := domain.SearchMatch{
		DocumentID:    chunk.DocumentID,
		DocumentTitle: chunk.DocumentTitle,
		ChunkID:       chunk.ChunkID,
		ChunkIndex:    chunk.ChunkIndex,
		Text:          text,
		PageNumber:    chunk.PageNumber,
	}
	if chunk.Metadata != nil && chunk.Metadata.PageNumber > 0 {
		match.PageNumber = chunk.Metadata.PageNumber
	}

	semantic := chunk.SemanticScore
	if semantic == nil {
		semantic = chunk.SimilarityScore
	}

	switch {
	case semantic != nil:
		match.Score = *semantic
		match.Type = domain.MatchSemantic
	case chunk.RawScore != nil:
		match.Score = *chunk.RawScore
		match.Type = domain.MatchKeyword
	default:
		match.Score = 0
		match.Type = domain.MatchKeyword
	}

	if chunk.HighlightedText != "" {
		match.HighlightedText = chunk.HighlightedText
	} else {
		match.HighlightedText = HighlightMatches(text, query)
	}

	return match
}

// HighlightMatches wraps every case-insensitive occurrence of the query
// string in <mark> tags, preserving the original casing of the text.
// Used when the server supplies no highlighted_text.
//
// Matching walks the original string rune by rune so mark offsets
// always land on rune boundaries, regardless of case pairs whose UTF-8
// encodings differ in length.
func HighlightMatches(text, query string) string {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return text
	}

	queryRunes := []rune(query)

	var b strings.Builder
	last := 0
	for i := 0; i < len(text); {
		end, ok := matchesFoldedAt(text, i, queryRunes)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString("<mark>")
		b.WriteString(text[i:end])
		b.WriteString("</mark>")
		i = end
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

// matchesFoldedAt reports whether query matches s at byte offset start
// under per-rune case folding, returning the end byte offset in s.
func matchesFoldedAt(s string, start int, query []rune) (int, bool) {
	i := start
	for _, q := range query {
		r, size := utf8.DecodeRuneInString(s[i:])
		if size == 0 {
			return 0, false
		}
		if unicode.ToLower(r) != unicode.ToLower(q) {
			return 0, false
		}
		i += size
	}
	return i, true
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
