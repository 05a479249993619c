package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.search.results = &domain.SearchResultSet{
		Query: "revenue",
		Matches: []domain.SearchMatch{
			{
				DocumentID:    "doc-1",
				DocumentTitle: "Q3 Report",
				Text:          "Revenue grew by 12 percent",
				Score:         0.91,
				Type:          domain.MatchSemantic,
				PageNumber:    4,
			},
			{
				DocumentID: "doc-1",
				Text:       "Revenue detail table",
				Score:      0.55,
				Type:       domain.MatchKeyword,
			},
		},
		TotalMatches:   2,
		TotalDocuments: 1,
		ProcessingTime: 0.08,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "revenue"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `Results for "revenue" (2 matches across 1 documents, 0.08s)`)
	assert.Contains(t, out, "Q3 Report")
	assert.Contains(t, out, "[0.910 semantic] Revenue grew by 12 percent")
	assert.Contains(t, out, "page 4")
	assert.Contains(t, out, "[0.550 keyword] Revenue detail table")
	assert.Equal(t, "revenue", svcs.search.lastQuery)
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nothing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `No results for "nothing"`)
}

func TestSearchCmd_DocumentScoped(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "hello", "--document", "doc-7"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchDocument = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "doc-7", svcs.search.lastDocID)
}

func TestSearchCmd_JSON(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.search.results = &domain.SearchResultSet{
		Query:        "hello",
		TotalMatches: 0,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "hello", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"Query": "hello"`)
}

func TestSearchCmd_ValidationError(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.search.err = domain.ErrValidation

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", " "})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b c", excerpt("  a\n b \t c ", 100))
	assert.Equal(t, "abcde...", excerpt("abcdefgh", 5))
}
