package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage writes photo bytes to a directory on disk and serves
// them under a base URL. Stand-in for an object store.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage creates the storage directory if needed
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(dir, "photos"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "thumbnails"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: baseURL}, nil
}

// SavePhoto persists the original upload and returns its public URL
func (s *LocalStorage) SavePhoto(id uuid.UUID, ext string, data []byte) (string, error) {
	name := id.String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, "photos", name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return s.baseURL + "/photos/" + name, nil
}

// SaveThumbnail persists the thumbnail variant and returns its public URL
func (s *LocalStorage) SaveThumbnail(id uuid.UUID, data []byte) (string, error) {
	name := id.String() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, "thumbnails", name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return s.baseURL + "/thumbnails/" + name, nil
}
