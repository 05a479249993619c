// Command corpora is a client for a remote document workspace: upload
// files, text and webpages, follow their processing and embedding
// lifecycle, and run hybrid search over what finished ingesting.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hewnlabs/corpora-cli/internal/adapters/driven/api"
	configfile "github.com/hewnlabs/corpora-cli/internal/adapters/driven/config/file"
	storagefile "github.com/hewnlabs/corpora-cli/internal/adapters/driven/storage/file"
	"github.com/hewnlabs/corpora-cli/internal/adapters/driven/storage/memory"
	"github.com/hewnlabs/corpora-cli/internal/adapters/driven/storage/sqlite"
	"github.com/hewnlabs/corpora-cli/internal/adapters/driving/cli"
	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
	"github.com/hewnlabs/corpora-cli/internal/core/services"
	"github.com/hewnlabs/corpora-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// defaultBaseURL is used when neither CORPORA_API_URL nor
// api.base_url in the config file is set.
const defaultBaseURL = "http://localhost:8000"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Best effort; a missing .env file is the normal case.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	baseURL := os.Getenv("CORPORA_API_URL")
	if baseURL == "" {
		baseURL = configStore.GetString("api.base_url")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	var timeout time.Duration
	if secs := configStore.GetInt("api.timeout_seconds"); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	cell := services.NewCredentialCell()

	client, err := api.NewClient(api.Config{
		BaseURL:     baseURL,
		Tokens:      cell,
		IngestToken: configStore.GetString("api.ingest_token"),
		Timeout:     timeout,
	})
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}
	authGateway := api.NewAuthGateway(client)
	processingGateway := api.NewProcessingGateway(client)

	credStore, err := storagefile.NewCredentialStore("")
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	// A broken local cache degrades to in-memory, it never blocks the CLI.
	var cache driven.ArtifactCache
	sqliteCache, err := sqlite.NewCache("")
	if err != nil {
		logger.Warn("Local cache unavailable, continuing in memory: %v", err)
		cache = memory.NewArtifactCache()
	} else {
		cache = sqliteCache
		defer sqliteCache.Close() //nolint:errcheck
	}

	sessionService := services.NewSessionService(authGateway, credStore, cell)
	trackerService := services.NewTrackerService(processingGateway, cache)
	searchService := services.NewSearchService(processingGateway)

	if err := sessionService.Resume(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Could not resume stored session: %v", err)
	}

	watcher := storagefile.NewCredentialWatcher(credStore)
	if err := sessionService.WatchStore(ctx, watcher); err != nil {
		logger.Warn("Credential file watching disabled: %v", err)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Session: sessionService,
		Tracker: trackerService,
		Search:  searchService,
		Config:  configStore,
	})

	return cli.ExecuteContext(ctx)
}
