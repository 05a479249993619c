// Package file provides a file-based implementation of the ConfigStore
// driven port. Configuration is persisted as TOML under ~/.corpora/.
package file
