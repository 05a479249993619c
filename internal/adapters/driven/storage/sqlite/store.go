package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hewnlabs/corpora-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/hewnlabs/corpora-cli/internal/core/domain"
	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ArtifactCache = (*Cache)(nil)

// Cache is a SQLite-backed artifact cache.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache creates a new SQLite cache at the specified data directory.
// If dataDir is empty, defaults to ~/.corpora/data/cache.db.
func NewCache(dataDir string) (*Cache, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpora", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Cache{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// migrate runs all pending migrations.
func (c *Cache) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveArtifact stores or updates an artifact's last-known state.
func (c *Cache) SaveArtifact(ctx context.Context, a domain.Artifact) error {
	if a.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO artifacts
			(id, title, kind, access, url, file_name, status, embedding_status,
			 error_detail, delete_requested, created_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			kind = excluded.kind,
			access = excluded.access,
			url = excluded.url,
			file_name = excluded.file_name,
			status = excluded.status,
			embedding_status = excluded.embedding_status,
			error_detail = excluded.error_detail,
			delete_requested = excluded.delete_requested,
			created_at = excluded.created_at,
			processed_at = excluded.processed_at
	`, a.ID, a.Title, string(a.Kind), string(a.Access), a.URL, a.FileName,
		string(a.Status), string(a.EmbeddingStatus), a.ErrorDetail,
		boolToInt(a.DeleteRequested), nullTime(a.CreatedAt), nullTime(a.ProcessedAt))

	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	return nil
}

// GetArtifact retrieves an artifact's last-known state.
func (c *Cache) GetArtifact(ctx context.Context, id string) (*domain.Artifact, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, title, kind, access, url, file_name, status, embedding_status,
		       error_detail, delete_requested, created_at, processed_at
		FROM artifacts WHERE id = ?
	`, id)

	var a domain.Artifact
	var kind, access, status, embeddingStatus string
	var deleteRequested int
	var createdAt, processedAt sql.NullTime
	if err := row.Scan(&a.ID, &a.Title, &kind, &access, &a.URL, &a.FileName,
		&status, &embeddingStatus, &a.ErrorDetail, &deleteRequested,
		&createdAt, &processedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning artifact: %w", err)
	}

	a.Kind = domain.SourceKind(kind)
	a.Access = domain.AccessLevel(access)
	a.Status = domain.ProcessingState(status)
	a.EmbeddingStatus = domain.ProcessingState(embeddingStatus)
	a.DeleteRequested = deleteRequested != 0
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	if processedAt.Valid {
		a.ProcessedAt = processedAt.Time
	}

	return &a, nil
}

// DeleteArtifact drops an artifact from the cache. Idempotent.
func (c *Cache) DeleteArtifact(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM artifacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting artifact: %w", err)
	}
	return nil
}

// PutListing stores one listing page under a filter key.
func (c *Cache) PutListing(ctx context.Context, key string, page domain.ArtifactPage) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshalling listing: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO listings (key, payload, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			cached_at = excluded.cached_at
	`, key, string(payload), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving listing: %w", err)
	}
	return nil
}

// GetListing retrieves a cached listing page.
func (c *Cache) GetListing(ctx context.Context, key string) (*domain.ArtifactPage, error) {
	row := c.db.QueryRowContext(ctx, "SELECT payload FROM listings WHERE key = ?", key)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning listing: %w", err)
	}

	var page domain.ArtifactPage
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		return nil, fmt.Errorf("unmarshaling listing: %w", err)
	}
	return &page, nil
}

// InvalidateListings drops all cached listing pages.
func (c *Cache) InvalidateListings(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("invalidating listings: %w", err)
	}
	return nil
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullTime converts a zero time to a SQL NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
