package postgres

import (
	"context"
	"database/sql"
	"errors"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"
)

type summaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) repository.SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) Create(ctx context.Context, s *domain.Summary) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO summaries (user_id, document_id, title, scope, content)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		s.UserID, s.DocumentID, s.Title, s.Scope, s.Content).
		Scan(&s.ID, &s.CreatedAt)
}

func (r *summaryRepository) GetByID(ctx context.Context, userID, summaryID string) (*domain.Summary, error) {
	query := `SELECT id, user_id, document_id, title, COALESCE(scope, ''), content, created_at
	          FROM summaries WHERE id = $1 AND user_id = $2`
	var s domain.Summary
	err := r.db.QueryRowContext(ctx, query, summaryID, userID).Scan(
		&s.ID, &s.UserID, &s.DocumentID, &s.Title, &s.Scope, &s.Content, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *summaryRepository) ListByUser(ctx context.Context, userID string) ([]domain.Summary, error) {
	query := `SELECT id, user_id, document_id, title, COALESCE(scope, ''), content, created_at
	          FROM summaries WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.Summary
	for rows.Next() {
		var s domain.Summary
		if err := rows.Scan(&s.ID, &s.UserID, &s.DocumentID, &s.Title, &s.Scope, &s.Content, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *summaryRepository) Delete(ctx context.Context, userID, summaryID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM summaries WHERE id = $1 AND user_id = $2`, summaryID, userID)
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
