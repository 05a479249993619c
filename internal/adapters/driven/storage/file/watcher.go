package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/hewnlabs/corpora-cli/internal/core/ports/driven"
	"github.com/hewnlabs/corpora-cli/internal/logger"
)

// Ensure CredentialWatcher implements the interface.
var _ driven.CredentialWatcher = (*CredentialWatcher)(nil)

// CredentialWatcher signals external changes to the credential file,
// e.g. a login or logout performed in another terminal. It watches the
// containing directory because editors and os.WriteFile replace the
// file rather than updating it in place.
type CredentialWatcher struct {
	filePath string
}

// NewCredentialWatcher creates a watcher for the given credential store.
func NewCredentialWatcher(store *CredentialStore) *CredentialWatcher {
	return &CredentialWatcher{filePath: store.Path()}
}

// Watch delivers a signal whenever the credential file is written,
// created, removed or renamed. The channel closes when ctx is cancelled.
func (w *CredentialWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(w.filePath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching credential directory: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != w.filePath {
					continue
				}
				if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
					continue
				}
				// Coalesce bursts: a pending signal already covers this change.
				select {
				case ch <- struct{}{}:
				default:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Credential watcher error: %v", err)
			}
		}
	}()

	return ch, nil
}
