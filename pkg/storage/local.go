package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore persists game folders on disk under a base directory. Public
// references are served by the API itself under the configured base URL.
type LocalStore struct {
	baseDir       string
	publicBaseURL string
}

// NewLocalStore ensures the base directory exists and returns a handle.
func NewLocalStore(baseDir, publicBaseURL string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./uploads/games"
	}
	if publicBaseURL == "" {
		publicBaseURL = "/games/files"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create games directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Root exposes the base directory so the router can mount static serving.
func (s *LocalStore) Root() string {
	return s.baseDir
}

// Write stores the bytes at the relative path, creating parent directories.
func (s *LocalStore) Write(ctx context.Context, relPath string, data []byte) error {
	dst, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("prepare game directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write game file: %w", err)
	}
	return nil
}

// Finalize renames a staging folder to its permanent name.
func (s *LocalStore) Finalize(ctx context.Context, stagingDir, finalDir string) error {
	src, err := s.resolve(stagingDir)
	if err != nil {
		return err
	}
	dst, err := s.resolve(finalDir)
	if err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("finalize game folder: %w", err)
	}
	return nil
}

// RemoveAll deletes a folder and its contents if present.
func (s *LocalStore) RemoveAll(ctx context.Context, dir string) error {
	dst, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("remove game folder: %w", err)
	}
	return nil
}

// ResolveURL joins the segments under the public base URL.
func (s *LocalStore) ResolveURL(parts ...string) string {
	return s.publicBaseURL + "/" + path.Join(parts...)
}

// ListStaging returns staging folders whose last modification precedes the cutoff.
func (s *LocalStore) ListStaging(ctx context.Context, cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("scan games directory: %w", err)
	}
	stale := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), StagingSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat staging folder: %w", err)
		}
		if info.ModTime().Before(cutoff) {
			stale = append(stale, entry.Name())
		}
	}
	return stale, nil
}

// resolve joins a relative slash path under the base dir, rejecting escapes.
func (s *LocalStore) resolve(relPath string) (string, error) {
	cleaned := path.Clean("/" + relPath)
	if cleaned == "/" {
		return "", fmt.Errorf("empty storage path")
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}
