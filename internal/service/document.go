package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"awn-backend/internal/domain"
	"awn-backend/internal/logger"
	"awn-backend/internal/repository"
	"awn-backend/internal/storage"
)

type documentService struct {
	documents    repository.DocumentRepository
	store        storage.DocumentStore
	maxSizeBytes int64
}

func NewDocumentService(documents repository.DocumentRepository, store storage.DocumentStore, maxFileSizeMB int) DocumentService {
	return &documentService{
		documents:    documents,
		store:        store,
		maxSizeBytes: int64(maxFileSizeMB) * 1024 * 1024,
	}
}

// Upload validates the file type and size, writes the bytes to the document
// store, and records the metadata. The declared size is checked up front but
// the stream is also capped while copying so a lying client cannot exceed
// the limit.
func (s *documentService) Upload(ctx context.Context, userID, name, mimeType string, size int64, content io.Reader) (*domain.Document, error) {
	if !domain.AllowedDocumentMimeTypes[mimeType] {
		return nil, fmt.Errorf("unsupported file type: %s", mimeType)
	}
	if size > s.maxSizeBytes {
		return nil, fmt.Errorf("file exceeds the %d MB limit", s.maxSizeBytes/(1024*1024))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}

	limited := io.LimitReader(content, s.maxSizeBytes+1)
	key, written, err := s.store.Save(userID, name, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	if written > s.maxSizeBytes {
		s.store.Delete(key)
		return nil, fmt.Errorf("file exceeds the %d MB limit", s.maxSizeBytes/(1024*1024))
	}

	doc := &domain.Document{
		UserID:     userID,
		Name:       name,
		MimeType:   mimeType,
		SizeBytes:  written,
		StorageKey: key,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		s.store.Delete(key)
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	logger.InfoContext(ctx, "Document uploaded", "user_id", userID, "document_id", doc.ID, "size_bytes", written)
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, userID string) ([]domain.Document, error) {
	return s.documents.ListByUser(ctx, userID)
}

func (s *documentService) GetDocument(ctx context.Context, userID, docID string) (*domain.Document, error) {
	return s.documents.GetByID(ctx, userID, docID)
}

// DeleteDocument removes the record first, then the stored bytes. A failed
// blob delete leaves an orphan file, which is preferable to a dangling
// record pointing at nothing.
func (s *documentService) DeleteDocument(ctx context.Context, userID, docID string) error {
	doc, err := s.documents.GetByID(ctx, userID, docID)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, userID, docID); err != nil {
		return err
	}
	if err := s.store.Delete(doc.StorageKey); err != nil {
		logger.Warn("Failed to delete stored document bytes", "storage_key", doc.StorageKey, "error", err)
	}
	return nil
}
