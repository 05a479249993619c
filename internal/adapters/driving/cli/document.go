package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/hewnlabs/corpora-cli/internal/adapters/driving/tui"
	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

// watchInterval is how often watch polls while processing is underway.
const watchInterval = 5 * time.Second

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Upload and manage documents",
	Long:  `Upload files, text and webpages, and follow them through processing.`,
}

var (
	submitAccess string
	submitTeam   string
	submitWatch  bool
)

var documentUploadCmd = &cobra.Command{
	Use:   "upload [path]",
	Short: "Upload a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentUpload,
}

var submitText string

var documentTextCmd = &cobra.Command{
	Use:   "text [title]",
	Short: "Submit raw text",
	Long: `Submit a titled block of text for ingestion.

The body is taken from --body, or read from stdin when the flag is
omitted:

  corpora document text "Meeting notes" --body "Decisions: ..."
  cat notes.md | corpora document text "Meeting notes"`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentText,
}

var documentWebpageCmd = &cobra.Command{
	Use:   "webpage [url]",
	Short: "Submit a webpage for server-side fetching",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentWebpage,
}

var (
	listPage   int
	listSize   int
	listStatus string
	listKind   string
	listSearch string
	listJSON   bool
)

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentStatusCmd = &cobra.Command{
	Use:   "status [doc-id]",
	Short: "Read current processing status",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentStatus,
}

var watchPlain bool

var documentWatchCmd = &cobra.Command{
	Use:   "watch [doc-id]",
	Short: "Follow processing until it finishes",
	Long: `Poll processing status every five seconds until the document
reaches a terminal state. Renders a live progress view on a terminal;
use --plain for line-by-line output suitable for logs.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentWatch,
}

var trainInfo bool

var documentTrainCmd = &cobra.Command{
	Use:   "train [doc-id]",
	Short: "Start embedding generation",
	Long: `Trigger embedding generation for a document whose processing has
completed. Use --info to read training progress instead of starting it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentTrain,
}

var documentReembedCmd = &cobra.Command{
	Use:   "reembed [doc-id]",
	Short: "Reset and re-queue embedding generation",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentReembed,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

func init() {
	for _, c := range []*cobra.Command{documentUploadCmd, documentTextCmd, documentWebpageCmd} {
		c.Flags().StringVar(&submitAccess, "access", string(domain.AccessPrivate), "access level (public, private, team)")
		c.Flags().BoolVar(&submitWatch, "watch", false, "follow processing after submitting")
	}
	documentUploadCmd.Flags().StringVar(&submitTeam, "team", "", "team to assign the document to")
	documentTextCmd.Flags().StringVar(&submitTeam, "team", "", "team to assign the document to")
	documentTextCmd.Flags().StringVar(&submitText, "body", "", "text body (stdin when omitted)")

	documentListCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	documentListCmd.Flags().IntVar(&listSize, "page-size", 10, "results per page")
	documentListCmd.Flags().StringVar(&listStatus, "status", "", "filter by processing status")
	documentListCmd.Flags().StringVar(&listKind, "type", "", "filter by source type (file, text, webpage)")
	documentListCmd.Flags().StringVar(&listSearch, "search", "", "filter by title")
	documentListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	documentWatchCmd.Flags().BoolVar(&watchPlain, "plain", false, "line-by-line output instead of the live view")
	documentTrainCmd.Flags().BoolVar(&trainInfo, "info", false, "show training progress instead of starting it")

	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentTextCmd)
	documentCmd.AddCommand(documentWebpageCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentStatusCmd)
	documentCmd.AddCommand(documentWatchCmd)
	documentCmd.AddCommand(documentTrainCmd)
	documentCmd.AddCommand(documentReembedCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	id, err := trackerService.Submit(cmd.Context(), domain.Submission{
		Kind:     domain.SourceFile,
		Access:   domain.AccessLevel(submitAccess),
		FileName: filepath.Base(path),
		File:     f,
		Title:    filepath.Base(path),
		TeamID:   submitTeam,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s as %s\n", filepath.Base(path), id)
	return afterSubmit(cmd, id)
}

func runDocumentText(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	body := submitText
	if body == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading text from stdin: %w", err)
		}
		body = string(data)
	}

	id, err := trackerService.Submit(cmd.Context(), domain.Submission{
		Kind:   domain.SourceText,
		Access: domain.AccessLevel(submitAccess),
		Title:  args[0],
		Text:   body,
		TeamID: submitTeam,
	})
	if err != nil {
		return fmt.Errorf("text submission failed: %w", err)
	}

	cmd.Printf("Submitted %q as %s\n", args[0], id)
	return afterSubmit(cmd, id)
}

func runDocumentWebpage(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	id, err := trackerService.Submit(cmd.Context(), domain.Submission{
		Kind:   domain.SourceWebpage,
		Access: domain.AccessLevel(submitAccess),
		URL:    args[0],
	})
	if err != nil {
		return fmt.Errorf("webpage submission failed: %w", err)
	}

	cmd.Printf("Submitted %s as %s\n", args[0], id)
	return afterSubmit(cmd, id)
}

// afterSubmit optionally rolls into watch mode.
func afterSubmit(cmd *cobra.Command, id string) error {
	if !submitWatch {
		return nil
	}
	return watchArtifact(cmd, id)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	page, err := trackerService.List(cmd.Context(), domain.ListOptions{
		Page:     listPage,
		PageSize: listSize,
		Status:   domain.ProcessingState(listStatus),
		Kind:     domain.SourceKind(listKind),
		Search:   listSearch,
	})
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal listing: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(page.Artifacts) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Printf("Documents (%d total):\n\n", page.Count)
	for i := range page.Artifacts {
		printArtifact(cmd, &page.Artifacts[i])
	}
	if page.HasNext {
		cmd.Printf("More results: --page %d\n", listPage+1)
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	artifact, err := trackerService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document not found: %s", args[0])
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	printArtifact(cmd, artifact)
	return nil
}

func runDocumentStatus(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	snap, err := trackerService.Poll(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	printSnapshot(cmd, snap)
	return nil
}

func runDocumentWatch(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}
	return watchArtifact(cmd, args[0])
}

// watchArtifact follows one artifact to a terminal state, either with
// the live bubbletea view or a plain polling loop.
func watchArtifact(cmd *cobra.Command, id string) error {
	if !watchPlain {
		model := tui.NewWatchModel(trackerService, id, watchInterval)
		p := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()))
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		if m, ok := final.(tui.WatchModel); ok && m.Err() != nil {
			return m.Err()
		}
		return nil
	}

	// Plain loop, one line per poll, paced by a rate limiter.
	limiter := rate.NewLimiter(rate.Every(watchInterval), 1)
	for {
		if err := limiter.Wait(cmd.Context()); err != nil {
			return err
		}

		snap, err := trackerService.Poll(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to read status: %w", err)
		}
		printSnapshot(cmd, snap)

		if snap.Status.Terminal() {
			if snap.Status == domain.StateFailed {
				return fmt.Errorf("processing failed: %s", snap.Error)
			}
			return nil
		}
	}
}

func runDocumentTrain(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}
	id := args[0]

	if trainInfo {
		info, err := trackerService.TrainingInfo(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to read training info: %w", err)
		}
		cmd.Printf("Training %s: %s (%d%%)\n", info.ArtifactID, info.Status, info.Progress)
		cmd.Printf("  Chunks: %d, embeddings: %d\n", info.ChunkCount, info.EmbeddingCount)
		if info.ErrorMessage != "" {
			cmd.Printf("  Error: %s\n", info.ErrorMessage)
		}
		return nil
	}

	if err := trackerService.StartTraining(cmd.Context(), id); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return fmt.Errorf("document %s has not finished processing yet", id)
		}
		return fmt.Errorf("failed to start training: %w", err)
	}
	cmd.Printf("Training started for %s\n", id)
	return nil
}

func runDocumentReembed(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	if err := trackerService.Reembed(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to re-embed: %w", err)
	}
	cmd.Printf("Re-embed queued for %s\n", args[0])
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if trackerService == nil {
		return errors.New("tracker service not configured")
	}

	if err := trackerService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

// printArtifact renders one artifact as an indented block.
func printArtifact(cmd *cobra.Command, a *domain.Artifact) {
	title := a.Title
	if title == "" {
		title = a.FileName
	}
	if title == "" {
		title = a.URL
	}

	cmd.Printf("  %s  %s\n", a.ID, title)
	cmd.Printf("      Status: %s, embedding: %s\n", a.Status, a.EmbeddingStatus)
	if a.ErrorDetail != "" {
		cmd.Printf("      Error: %s\n", a.ErrorDetail)
	}
	cmd.Println()
}

// printSnapshot renders one status line.
func printSnapshot(cmd *cobra.Command, snap *domain.StatusSnapshot) {
	line := fmt.Sprintf("%s: %s (%d%%)", snap.ArtifactID, snap.Status, snap.Progress)
	if snap.Message != "" {
		line += " " + snap.Message
	}
	if snap.Error != "" {
		line += " error: " + snap.Error
	}
	cmd.Println(line)
}
