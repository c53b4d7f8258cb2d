package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"

	"github.com/lib/pq"
)

type quizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) repository.QuizRepository {
	return &quizRepository{db: db}
}

// CreateWithQuestions inserts the quiz and all its questions atomically; a
// failed question insert rolls the quiz back so no empty quiz is left behind.
func (r *quizRepository) CreateWithQuestions(ctx context.Context, quiz *domain.Quiz, questions []domain.QuizQuestion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create quiz: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO quizzes (user_id, document_id, title, scope)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		quiz.UserID, quiz.DocumentID, quiz.Title, quiz.Scope).
		Scan(&quiz.ID, &quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO quiz_questions (quiz_id, question, options, correct_answer, justification, example, order_index)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("prepare question insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range questions {
		_, err := stmt.ExecContext(ctx, quiz.ID, q.Question, pq.Array(q.Options),
			q.CorrectAnswer, q.Justification, q.Example, int32(i))
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create quiz: %w", err)
	}
	return nil
}

func (r *quizRepository) GetByID(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	query := `SELECT id, user_id, document_id, title, COALESCE(scope, ''), created_at
	          FROM quizzes WHERE id = $1 AND user_id = $2`
	var q domain.Quiz
	err := r.db.QueryRowContext(ctx, query, quizID, userID).Scan(
		&q.ID, &q.UserID, &q.DocumentID, &q.Title, &q.Scope, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) ListByUser(ctx context.Context, userID string) ([]domain.Quiz, error) {
	query := `SELECT id, user_id, document_id, title, COALESCE(scope, ''), created_at
	          FROM quizzes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var q domain.Quiz
		if err := rows.Scan(&q.ID, &q.UserID, &q.DocumentID, &q.Title, &q.Scope, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *quizRepository) GetQuestions(ctx context.Context, quizID string) ([]domain.QuizQuestion, error) {
	query := `SELECT id, quiz_id, question, options, correct_answer, COALESCE(justification, ''), COALESCE(example, ''), order_index
	          FROM quiz_questions WHERE quiz_id = $1 ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.QuizQuestion
	for rows.Next() {
		var q domain.QuizQuestion
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Question, pq.Array(&q.Options),
			&q.CorrectAnswer, &q.Justification, &q.Example, &q.OrderIndex); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *quizRepository) SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO quiz_attempts (user_id, quiz_id, score, total_questions)
		 VALUES ($1, $2, $3, $4) RETURNING id, completed_at`,
		attempt.UserID, attempt.QuizID, attempt.Score, attempt.TotalQuestions).
		Scan(&attempt.ID, &attempt.CompletedAt)
}

func (r *quizRepository) Delete(ctx context.Context, userID, quizID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM quizzes WHERE id = $1 AND user_id = $2`, quizID, userID)
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
