// Package storage keeps uploaded profile photos on local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hieuleminh03/vgov/internal/apperr"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type PhotoStore struct {
	dir      string
	maxBytes int64
}

func NewPhotoStore(dir string, maxSizeMB int) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &PhotoStore{dir: dir, maxBytes: int64(maxSizeMB) << 20}, nil
}

// Save writes the upload under a generated name and returns that name.
func (s *PhotoStore) Save(originalName string, size int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", apperr.Validation(apperr.CodeInvalidParam, "unsupported file type %q", ext)
	}
	if size > s.maxBytes {
		return "", apperr.Validation(apperr.CodeOutOfRange, "file exceeds %d bytes", s.maxBytes)
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, s.maxBytes)); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

// Path resolves a stored name to its on-disk path, rejecting names that
// escape the upload directory.
func (s *PhotoStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", apperr.NotFound(apperr.CodeFileNotFound, "file not found: %s", name)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", apperr.NotFound(apperr.CodeFileNotFound, "file not found: %s", name)
	}
	return path, nil
}

// Delete removes a stored file. Removing a missing file is not an error.
func (s *PhotoStore) Delete(name string) error {
	if name == "" || name != filepath.Base(name) {
		return apperr.NotFound(apperr.CodeFileNotFound, "file not found: %s", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
