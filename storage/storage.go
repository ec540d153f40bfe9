// Package storage implements the blob store backing version file
// uploads. Blobs are keyed by (service, path); the only service
// currently backed by an implementation is local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ServiceLocal is the storage service identifier for local disk.
const ServiceLocal = "local"

// Store is the blob store consumed by the version workflows.
type Store interface {
	Save(service, path string, r io.Reader) (int64, error)
	Get(service, path string) (io.ReadCloser, error)
	Delete(service, path string) error
	DeleteDirectory(service, path string) error
}

// LocalStore stores blobs under a root directory on local disk.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// resolve maps a (service, path) key onto the local filesystem,
// rejecting unknown services and path escapes.
func (s *LocalStore) resolve(service, path string) (string, error) {
	if service != ServiceLocal {
		return "", fmt.Errorf("unknown storage service %q", service)
	}
	clean := filepath.Clean("/" + path)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// Save writes a blob. The write goes through a temp file and an atomic
// rename so a crashed upload never leaves a partial blob at the key.
func (s *LocalStore) Save(service, path string, r io.Reader) (int64, error) {
	fullPath, err := s.resolve(service, path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmpPath := fullPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp blob: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to sync blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to close blob: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to rename blob: %w", err)
	}
	return size, nil
}

// Get opens a blob for reading. The caller closes the reader.
func (s *LocalStore) Get(service, path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(service, path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open blob %s: %w", path, err)
	}
	return f, nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (s *LocalStore) Delete(service, path string) error {
	fullPath, err := s.resolve(service, path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	return nil
}

// DeleteDirectory removes a whole key prefix, e.g. every blob of a
// deleted version.
func (s *LocalStore) DeleteDirectory(service, path string) error {
	fullPath, err := s.resolve(service, path)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("failed to delete blob directory %s: %w", path, err)
	}
	return nil
}
