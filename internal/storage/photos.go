package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// PhotoStore writes uploaded photos under a single directory, created on
// demand. Reusing a prefix overwrites silently; prefixes embed the
// submission timestamp so that only happens on a re-submission.
type PhotoStore struct {
	dir string
}

// NewPhotoStore creates a photo store rooted at dir.
func NewPhotoStore(dir string) *PhotoStore {
	return &PhotoStore{dir: dir}
}

// Save writes the uploaded bytes as <prefix>.<ext> and returns the relative
// path. The extension comes from the declared media type, defaulting to
// JPEG. No bytes means no photo: the result is an empty path, not an error.
func (p *PhotoStore) Save(data []byte, contentType, prefix string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	ext := ".jpg"
	switch contentType {
	case "image/png", "png":
		ext = ".png"
	}

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create directory %s: %v", ErrStorageWrite, p.dir, err)
	}

	path := filepath.Join(p.dir, prefix+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: write photo %s: %v", ErrStorageWrite, path, err)
	}
	return path, nil
}
