package postgres

import (
	"context"
	"database/sql"
	"errors"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"
)

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO documents (user_id, name, mime_type, size_bytes, storage_key)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		doc.UserID, doc.Name, doc.MimeType, doc.SizeBytes, doc.StorageKey).
		Scan(&doc.ID, &doc.CreatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, userID, docID string) (*domain.Document, error) {
	query := `SELECT id, user_id, name, mime_type, size_bytes, storage_key, created_at
	          FROM documents WHERE id = $1 AND user_id = $2`
	var d domain.Document
	err := r.db.QueryRowContext(ctx, query, docID, userID).Scan(
		&d.ID, &d.UserID, &d.Name, &d.MimeType, &d.SizeBytes, &d.StorageKey, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Document, error) {
	query := `SELECT id, user_id, name, mime_type, size_bytes, storage_key, created_at
	          FROM documents WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.MimeType, &d.SizeBytes, &d.StorageKey, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, userID, docID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1 AND user_id = $2`, docID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
