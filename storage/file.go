package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tyv-platform/resource-service/interfaces"
)

// LocalBackend implements a blob store on the local file system.
// Blobs land at <root>/<container>/<path>; missing parent directories are
// created on write, not pre-created.
type LocalBackend struct {
	baseDir string
	log     *slog.Logger
}

// NewLocalBackend creates a local blob store rooted at baseDir.
// Only the root itself is created up front.
func NewLocalBackend(baseDir string, log *slog.Logger) (*LocalBackend, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &LocalBackend{
		baseDir: baseDir,
		log:     log,
	}, nil
}

// Fetch reads the blob for the given record.
// Returns ErrObjectNotFound if the file doesn't exist.
func (b *LocalBackend) Fetch(ctx context.Context, res *interfaces.Resource) ([]byte, error) {
	filePath := b.filePath(res)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, interfaces.ErrObjectNotFound
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	b.log.Debug("Fetched blob from file",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return data, nil
}

// Store writes the blob for the given record, creating parent directories
// as needed.
func (b *LocalBackend) Store(ctx context.Context, res *interfaces.Resource, data []byte) error {
	filePath := b.filePath(res)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	b.log.Debug("Stored blob in file",
		slog.String("path", filePath),
		slog.String("publicID", res.PublicID.String()),
		slog.Int("size", len(data)))

	return nil
}

// Delete removes the blob file and reports whether it is confirmed absent.
// Deleting a file that does not exist reports false, mirroring the
// filesystem delete return value rather than treating it as absence.
func (b *LocalBackend) Delete(ctx context.Context, res *interfaces.Resource) (bool, error) {
	filePath := b.filePath(res)

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file: %w", err)
	}

	b.log.Debug("Deleted blob file", slog.String("path", filePath))
	return true, nil
}

// Available checks if the backend is accessible by verifying the base
// directory exists.
func (b *LocalBackend) Available(ctx context.Context) bool {
	_, err := os.Stat(b.baseDir)
	if err != nil {
		b.log.Debug("Local backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *LocalBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.baseDir))
}

// filePath resolves a record to its on-disk location.
func (b *LocalBackend) filePath(res *interfaces.Resource) string {
	return filepath.Join(b.baseDir, res.Container.DirName(), filepath.FromSlash(res.Path))
}
