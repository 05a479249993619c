package domain

import "time"

// SourceKind identifies how an artifact's content was submitted.
type SourceKind string

const (
	// SourceFile is an uploaded file.
	SourceFile SourceKind = "file"
	// SourceText is raw text submitted directly.
	SourceText SourceKind = "text"
	// SourceWebpage is content fetched from a URL.
	SourceWebpage SourceKind = "webpage"
)

// Valid returns true for a recognised source kind.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceFile, SourceText, SourceWebpage:
		return true
	}
	return false
}

// AccessLevel controls who can see an artifact.
type AccessLevel string

const (
	// AccessPublic makes the artifact visible to everyone in the company.
	AccessPublic AccessLevel = "public"
	// AccessPrivate restricts the artifact to its owner.
	AccessPrivate AccessLevel = "private"
	// AccessTeam restricts the artifact to the owning team.
	AccessTeam AccessLevel = "team"
)

// Valid returns true for a recognised access level.
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessPublic, AccessPrivate, AccessTeam:
		return true
	}
	return false
}

// ProcessingState is one step of an artifact's lifecycle or embedding
// progression: pending -> processing -> {completed | failed}.
type ProcessingState string

const (
	// StatePending means the work has been accepted but not started.
	StatePending ProcessingState = "pending"
	// StateProcessing means the work is in flight.
	StateProcessing ProcessingState = "processing"
	// StateCompleted is a terminal success state.
	StateCompleted ProcessingState = "completed"
	// StateFailed is a terminal failure state.
	StateFailed ProcessingState = "failed"
)

// Terminal returns true when the state cannot change again
// without an explicit reprocess/re-embed request.
func (s ProcessingState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Valid returns true for a recognised processing state.
func (s ProcessingState) Valid() bool {
	switch s {
	case StatePending, StateProcessing, StateCompleted, StateFailed:
		return true
	}
	return false
}

// Artifact represents one submitted content unit tracked through the
// ingestion pipeline. The lifecycle status and embedding status are
// independent state machines: embedding only starts once the lifecycle
// has completed, and a re-embed resets the embedding status alone.
type Artifact struct {
	// ID is the server-assigned identifier.
	ID string

	// Title is the human-readable title.
	Title string

	// Kind records how the content was submitted.
	Kind SourceKind

	// Access is the artifact's visibility level.
	Access AccessLevel

	// URL is the source URL for webpage artifacts.
	URL string

	// FileName is the original file name for file artifacts.
	FileName string

	// Status is the ingestion lifecycle state.
	Status ProcessingState

	// EmbeddingStatus is the embedding/training state. It transitions
	// independently of Status and only starts once Status is completed.
	EmbeddingStatus ProcessingState

	// ErrorDetail carries the server-reported failure reason, if any.
	ErrorDetail string

	// DeleteRequested marks an artifact whose removal has been asked for.
	// This is the only locally-applied mutation; all other state comes
	// from polling responses.
	DeleteRequested bool

	// CreatedAt is when the artifact was submitted.
	CreatedAt time.Time

	// ProcessedAt is when ingestion finished, if it has.
	ProcessedAt time.Time
}

// CanPoll returns true when a status poll could still observe a change.
// Terminal artifacts never change again, so polling them is pointless.
func (a *Artifact) CanPoll() bool {
	return !a.Status.Terminal()
}

// CanTrain returns true when embedding generation may be started.
// Training requires a completed ingestion lifecycle.
func (a *Artifact) CanTrain() bool {
	return a.Status == StateCompleted
}
