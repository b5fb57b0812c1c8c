package services

import (
	"os"
	"path/filepath"
	"strings"
)

// ImageStorage abstracts where product image files live. Removal is best
// effort everywhere it is used: storage errors are logged by the caller
// and never block the owning database write.
type ImageStorage interface {
	Remove(path string) error
}

// LocalImageStorage keeps image files on the local disk under a base
// directory.
type LocalImageStorage struct {
	baseDir string
}

// NewLocalImageStorage constructs LocalImageStorage.
func NewLocalImageStorage(baseDir string) *LocalImageStorage {
	return &LocalImageStorage{baseDir: baseDir}
}

// Remove deletes the stored file for the given relative path. A missing
// file is not an error.
func (s *LocalImageStorage) Remove(path string) error {
	if path == "" {
		return nil
	}

	clean := filepath.Clean(strings.TrimPrefix(path, "/"))
	if strings.HasPrefix(clean, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.baseDir, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
