package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage stores blobs under a local directory and serves them by a
// configured base URL. It exists for deployments without object storage and
// for local development.
type DiskStorage struct {
	dir     string
	baseURL string
}

func NewDiskStorage(dir, baseURL string) *DiskStorage {
	return &DiskStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (d *DiskStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(d.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("disk put error: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("disk put error: %w", err)
	}

	return d.baseURL + "/" + key, nil
}

func (d *DiskStorage) Delete(_ context.Context, url string) error {
	prefix := d.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return fmt.Errorf("url %q is not under %q", url, d.baseURL)
	}

	key := strings.TrimPrefix(url, prefix)
	err := os.Remove(filepath.Join(d.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("disk delete error: %w", err)
	}
	return nil
}
