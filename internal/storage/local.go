package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps documents on the local filesystem under uploadsDir.
// Keys are opaque; the user and file name only seed the key, they are never
// trusted as path components.
type LocalStore struct {
	uploadsDir string
}

func NewLocalStore(uploadsDir string) (*LocalStore, error) {
	docsDir := filepath.Join(uploadsDir, "documents")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &LocalStore{uploadsDir: uploadsDir}, nil
}

func (s *LocalStore) Save(userID, fileName string, content io.Reader) (string, int64, error) {
	key := makeKey(userID, fileName)

	path := filepath.Join(s.uploadsDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create storage directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, content)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return key, size, nil
}

func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve rejects keys that would escape the uploads directory.
func (s *LocalStore) resolve(key string) (string, error) {
	path := filepath.Join(s.uploadsDir, filepath.FromSlash(key))
	base, err := filepath.Abs(s.uploadsDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if abs != base && !isWithin(base, abs) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return path, nil
}

func isWithin(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

// makeKey derives a collision-resistant key from the owner, the original
// file name, and a random component. The extension is preserved so the
// stored file remains identifiable.
func makeKey(userID, fileName string) string {
	h := sha256.Sum256([]byte(userID + ":" + fileName + ":" + uuid.New().String()))
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("documents/%s%s", hex.EncodeToString(h[:16]), ext)
}
