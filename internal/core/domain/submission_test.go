package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSubmission_Validate_File tests file submission validation
func TestSubmission_Validate_File(t *testing.T) {
	s := Submission{
		Kind:     SourceFile,
		Access:   AccessPrivate,
		FileName: "report.pdf",
		File:     strings.NewReader("content"),
	}
	assert.NoError(t, s.Validate())

	s.File = nil
	assert.Error(t, s.Validate())

	s.File = strings.NewReader("content")
	s.FileName = ""
	assert.Error(t, s.Validate())
}

// TestSubmission_Validate_Text tests text submission validation
func TestSubmission_Validate_Text(t *testing.T) {
	s := Submission{
		Kind:   SourceText,
		Access: AccessTeam,
		Title:  "Notes",
		Text:   "some text",
	}
	assert.NoError(t, s.Validate())

	s.Text = "   "
	assert.Error(t, s.Validate())

	s.Text = "some text"
	s.Title = ""
	assert.Error(t, s.Validate())
}

// TestSubmission_Validate_Webpage tests webpage submission validation
func TestSubmission_Validate_Webpage(t *testing.T) {
	s := Submission{
		Kind:   SourceWebpage,
		Access: AccessPublic,
		URL:    "https://example.com/page",
	}
	assert.NoError(t, s.Validate())

	s.URL = ""
	assert.Error(t, s.Validate())
}

// TestSubmission_Validate_BadKindOrAccess tests rejection of unknown enums
func TestSubmission_Validate_BadKindOrAccess(t *testing.T) {
	s := Submission{Kind: SourceKind("video"), Access: AccessPrivate}
	assert.Error(t, s.Validate())

	s = Submission{Kind: SourceText, Access: AccessLevel("world"), Title: "t", Text: "x"}
	assert.Error(t, s.Validate())
}
