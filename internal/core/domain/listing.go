package domain

// ListOptions filters and paginates an artifact listing request.
type ListOptions struct {
	// Page is the 1-based page number. Zero means the first page.
	Page int

	// PageSize is the number of artifacts per page.
	PageSize int

	// Status filters by lifecycle state when non-empty.
	Status ProcessingState

	// Kind filters by content kind when non-empty.
	Kind SourceKind

	// Search filters by a title substring when non-empty.
	Search string
}

// ArtifactPage is one page of an artifact listing.
type ArtifactPage struct {
	// Artifacts holds the page contents in server order.
	Artifacts []Artifact

	// Count is the total number of artifacts matching the filter.
	Count int

	// HasNext and HasPrevious indicate neighbouring pages.
	HasNext     bool
	HasPrevious bool
}
