package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

var (
	searchDocument  string
	searchLimit     int
	searchThreshold float64
	searchMetadata  bool
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Hybrid keyword/semantic search over ingested documents",
	Long: `Run a hybrid search across all ingested documents, or inside a
single document with --document.

Examples:
  corpora search "quarterly revenue"
  corpora search "error handling" --document doc-123 -n 5
  corpora search "onboarding" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchDocument, "document", "", "restrict the search to one document ID")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum similarity score for semantic matches")
	searchCmd.Flags().BoolVar(&searchMetadata, "metadata", false, "request per-chunk metadata such as page numbers")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:               searchLimit,
		SimilarityThreshold: searchThreshold,
		IncludeMetadata:     searchMetadata,
	}

	var (
		results *domain.SearchResultSet
		err     error
	)
	if searchDocument != "" {
		results, err = searchService.SearchDocument(cmd.Context(), searchDocument, args[0], opts)
	} else {
		results, err = searchService.Search(cmd.Context(), args[0], opts)
	}
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return fmt.Errorf("invalid search: %w", err)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printSearchResults(cmd, results)
	return nil
}

func printSearchResults(cmd *cobra.Command, results *domain.SearchResultSet) {
	if len(results.Matches) == 0 {
		cmd.Printf("No results for %q.\n", results.Query)
		return
	}

	cmd.Printf("Results for %q (%d matches across %d documents", results.Query,
		results.TotalMatches, results.TotalDocuments)
	if results.ProcessingTime > 0 {
		cmd.Printf(", %.2fs", results.ProcessingTime)
	}
	cmd.Println("):")
	cmd.Println()

	lastDoc := ""
	for i := range results.Matches {
		m := &results.Matches[i]
		if m.DocumentID != lastDoc {
			title := m.DocumentTitle
			if title == "" {
				title = m.DocumentID
			}
			cmd.Printf("%s\n", title)
			lastDoc = m.DocumentID
		}

		text := m.HighlightedText
		if text == "" {
			text = m.Text
		}
		cmd.Printf("  [%.3f %s] %s\n", m.Score, m.Type, excerpt(text, 200))
		if m.PageNumber > 0 {
			cmd.Printf("         page %d\n", m.PageNumber)
		}
	}

	if results.TotalPages > 1 {
		cmd.Printf("\nPage %d of %d\n", results.Page, results.TotalPages)
	}
}

// excerpt collapses whitespace and truncates to max runes.
func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
