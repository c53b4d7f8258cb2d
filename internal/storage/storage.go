package storage

import (
	"io"
)

// DocumentStore abstracts where uploaded document bytes live. The local
// implementation writes to disk; a cloud backend (S3, GCS) would satisfy the
// same interface.
type DocumentStore interface {
	// Save writes the content under a new storage key derived from the
	// owner and file name, and returns that key.
	Save(userID, fileName string, content io.Reader) (key string, size int64, err error)

	// Open returns a reader for a previously saved document.
	Open(key string) (io.ReadCloser, error)

	Delete(key string) error
}
