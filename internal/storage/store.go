// Package storage provides the public-asset object store used for report
// attachments.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore is the contract the attachment flow depends on: write a binary
// object under a key, resolve its public URL, and remove it again when a
// staged batch has to be rolled back.
type ObjectStore interface {
	Put(ctx context.Context, key string, content []byte) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// DiskStore is an ObjectStore backed by a local directory served as a public
// asset bucket.
type DiskStore struct {
	rootDir string
	baseURL string
}

// NewDiskStore creates a disk-backed store rooted at rootDir. Public URLs are
// built from baseURL, which must not end in a slash.
func NewDiskStore(rootDir, baseURL string) *DiskStore {
	return &DiskStore{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *DiskStore) Put(_ context.Context, key string, content []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	// Write to a temp file first so a partially written object is never
	// visible under its final key.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalize object: %w", err)
	}
	return nil
}

func (s *DiskStore) PublicURL(key string) string {
	return s.baseURL + "/media/" + strings.TrimLeft(key, "/")
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve maps a key to an absolute path, rejecting traversal outside the
// store root.
func (s *DiskStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	path := filepath.Join(s.rootDir, cleaned)
	if !strings.HasPrefix(path, filepath.Clean(s.rootDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return path, nil
}
