package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vendorshub/backend/internal/domain/providers"
)

// LocalImageStore keeps uploads in a directory on disk
type LocalImageStore struct {
	dir string
}

var _ providers.ImageStore = (*LocalImageStore)(nil)

// NewLocalImageStore creates dir when missing
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Save writes body to dir/key. Keys never contain path separators.
func (s *LocalImageStore) Save(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	name := filepath.Base(key)
	if name == "." || name == string(filepath.Separator) || name != key {
		return "", fmt.Errorf("invalid image key %q", key)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return name, nil
}
