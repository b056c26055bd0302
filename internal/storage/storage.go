package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists uploaded files and generated documents by relative path.
// Callers store the returned path on the owning record; the blob itself lives
// outside the database.
type Storage interface {
	Save(dir, filename string, data []byte) (string, error)
	SaveUpload(dir string, file *multipart.FileHeader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
	AbsolutePath(path string) string
}

// LocalStorage keeps files under a single root directory on disk.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		root = "storage"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) Save(dir, filename string, data []byte) (string, error) {
	rel := filepath.Join(dir, sanitizeFilename(filename))
	abs := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// SaveUpload stores a multipart upload under dir with a random filename,
// preserving the original extension.
func (s *LocalStorage) SaveUpload(dir string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext
	return s.Save(dir, name, data)
}

func (s *LocalStorage) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(path)))
}

func (s *LocalStorage) Delete(path string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(path)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStorage) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(path)))
	return err == nil
}

func (s *LocalStorage) AbsolutePath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// sanitizeFilename strips path separators so stored names cannot escape dir.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, string(os.PathSeparator), "-")
}
