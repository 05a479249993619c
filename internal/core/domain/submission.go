package domain

import (
	"fmt"
	"io"
	"strings"
)

// Submission describes one content unit to be ingested. Exactly one of
// the kind-specific payload fields is used, selected by Kind.
type Submission struct {
	// Kind selects the ingestion endpoint and payload fields.
	Kind SourceKind

	// Access is the visibility level for the resulting artifact.
	Access AccessLevel

	// FileName and File carry the upload payload for SourceFile.
	FileName string
	File     io.Reader

	// Title and Text carry the payload for SourceText.
	Title string
	Text  string

	// URL carries the payload for SourceWebpage.
	URL string

	// TeamID optionally assigns the artifact to a team.
	TeamID string
}

// Validate checks the submission before any network call is made.
// A failure here wraps ErrValidation.
func (s *Submission) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: unknown source kind %q", ErrValidation, s.Kind)
	}
	if !s.Access.Valid() {
		return fmt.Errorf("%w: unknown access level %q", ErrValidation, s.Access)
	}

	switch s.Kind {
	case SourceFile:
		if s.File == nil || s.FileName == "" {
			return fmt.Errorf("%w: file submission requires a file and file name", ErrValidation)
		}
	case SourceText:
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: text submission requires non-empty text", ErrValidation)
		}
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: text submission requires a title", ErrValidation)
		}
	case SourceWebpage:
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("%w: webpage submission requires a URL", ErrValidation)
		}
	}

	return nil
}
