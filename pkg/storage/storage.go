package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/playshelf/playshelf-api/pkg/config"
)

// StagingSuffix marks a game folder that has been written but not yet
// finalized. Finalize strips it; the janitor removes stale leftovers.
const StagingSuffix = ".staging"

// FileStore is the destination for materialized game folders. Implementations
// must support the two-phase write: files land under a staging folder name,
// then Finalize renames the folder to its permanent name.
type FileStore interface {
	// Write persists data at the given slash-separated relative path,
	// creating intermediate directories as needed.
	Write(ctx context.Context, path string, data []byte) error
	// Finalize renames a staging folder to its permanent name.
	Finalize(ctx context.Context, stagingDir, finalDir string) error
	// RemoveAll deletes a folder and everything beneath it.
	RemoveAll(ctx context.Context, dir string) error
	// ResolveURL returns the publicly resolvable reference for the joined
	// path segments.
	ResolveURL(parts ...string) string
	// ListStaging returns staging folders last touched before the cutoff.
	ListStaging(ctx context.Context, cutoff time.Time) ([]string, error)
}

// NewFileStore builds the backend selected by configuration. The choice is
// made once at process start; the import pipeline is agnostic to it.
func NewFileStore(cfg config.ImportsConfig) (FileStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendLocal, "":
		return NewLocalStore(cfg.LocalRoot, cfg.PublicBaseURL)
	case config.StorageBackendS3:
		return NewObjectStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
