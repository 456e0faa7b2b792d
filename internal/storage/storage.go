package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FilesystemStorage stores blobs on local disk under a root directory.
// The root is created lazily on the first write.
type FilesystemStorage struct {
	root string
}

func NewFilesystemStorage(root string) *FilesystemStorage {
	return &FilesystemStorage{root: root}
}

// NewPath returns a fresh opaque path under the storage root. Paths never
// collide in practice; the name is a random uuid.
func (fs *FilesystemStorage) NewPath() string {
	return filepath.Join(fs.root, uuid.New().String())
}

func (fs *FilesystemStorage) Write(path string, data []byte) error {
	if err := os.MkdirAll(fs.root, 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (fs *FilesystemStorage) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (fs *FilesystemStorage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
