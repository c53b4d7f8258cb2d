package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"awn-backend/internal/domain"
)

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := &memStore{}
		svc := NewDocumentService(repo, store, 25)

		repo.On("Create", ctx, mock.MatchedBy(func(d *domain.Document) bool {
			return d.UserID == "user-1" && d.Name == "notes.pdf" &&
				d.MimeType == "application/pdf" && d.StorageKey != ""
		})).Return(nil)

		doc, err := svc.Upload(ctx, "user-1", "notes.pdf", "application/pdf", 12, strings.NewReader("pdf contents"))
		assert.NoError(t, err)
		assert.Equal(t, int64(12), doc.SizeBytes)
	})

	t.Run("RejectsUnsupportedType", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		svc := NewDocumentService(repo, &memStore{}, 25)

		_, err := svc.Upload(ctx, "user-1", "virus.exe", "application/octet-stream", 10, strings.NewReader("x"))
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RejectsOversizedDeclaration", func(t *testing.T) {
		svc := NewDocumentService(new(MockDocumentRepo), &memStore{}, 1)

		_, err := svc.Upload(ctx, "user-1", "big.pdf", "application/pdf", 2*1024*1024, strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("RejectsEmptyName", func(t *testing.T) {
		svc := NewDocumentService(new(MockDocumentRepo), &memStore{}, 25)

		_, err := svc.Upload(ctx, "user-1", "   ", "application/pdf", 10, strings.NewReader("x"))
		assert.Error(t, err)
	})
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordThenBytes", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		svc := NewDocumentService(repo, &memStore{}, 25)

		repo.On("GetByID", ctx, "user-1", "doc-1").Return(&domain.Document{
			ID: "doc-1", StorageKey: "documents/key.pdf",
		}, nil)
		repo.On("Delete", ctx, "user-1", "doc-1").Return(nil)

		assert.NoError(t, svc.DeleteDocument(ctx, "user-1", "doc-1"))
		repo.AssertExpectations(t)
	})

	t.Run("NotOwned", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		svc := NewDocumentService(repo, &memStore{}, 25)

		repo.On("GetByID", ctx, "user-2", "doc-1").Return(nil, domain.ErrNotFound)

		assert.ErrorIs(t, svc.DeleteDocument(ctx, "user-2", "doc-1"), domain.ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
