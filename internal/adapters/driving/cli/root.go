// Package cli implements the corpora command-line interface using cobra.
// Commands read their collaborating services from package-level variables
// wired by main; tests swap them for mocks.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driving"
	"github.com/hewnlabs/corpora-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands, wired by main before Execute.
var (
	sessionService driving.SessionService
	trackerService driving.TrackerService
	searchService  driving.SearchService
	configStore    driven.ConfigStore
)

// Services bundles everything the commands need.
type Services struct {
	Session driving.SessionService
	Tracker driving.TrackerService
	Search  driving.SearchService
	Config  driven.ConfigStore
}

// SetServices wires the command tree. Call before Execute.
func SetServices(s Services) {
	sessionService = s.Session
	trackerService = s.Tracker
	searchService = s.Search
	configStore = s.Config
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "corpora",
	Short: "Upload, track and search documents in a Corpora workspace",
	Long: `Corpora is a command-line client for a remote document workspace.

Upload files, text and webpages, follow their processing and embedding
lifecycle, and run hybrid keyword/semantic search over everything that
finished ingesting.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context. Commands
// see it via cmd.Context() and stop when it is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
