package service

import (
	"context"
	"fmt"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"
)

type summaryService struct {
	summaries repository.SummaryRepository
}

func NewSummaryService(summaries repository.SummaryRepository) SummaryService {
	return &summaryService{summaries: summaries}
}

func (s *summaryService) ListSummaries(ctx context.Context, userID string) ([]domain.Summary, error) {
	return s.summaries.ListByUser(ctx, userID)
}

func (s *summaryService) GetSummary(ctx context.Context, userID, summaryID string) (*domain.Summary, error) {
	return s.summaries.GetByID(ctx, userID, summaryID)
}

func (s *summaryService) DeleteSummary(ctx context.Context, userID, summaryID string) error {
	return s.summaries.Delete(ctx, userID, summaryID)
}

type quizService struct {
	quizzes repository.QuizRepository
}

func NewQuizService(quizzes repository.QuizRepository) QuizService {
	return &quizService{quizzes: quizzes}
}

func (s *quizService) ListQuizzes(ctx context.Context, userID string) ([]domain.Quiz, error) {
	return s.quizzes.ListByUser(ctx, userID)
}

// GetQuiz returns the quiz and its questions in stored order. Ownership is
// enforced by the quiz lookup; questions are only fetched for a quiz the
// caller owns.
func (s *quizService) GetQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, []domain.QuizQuestion, error) {
	quiz, err := s.quizzes.GetByID(ctx, userID, quizID)
	if err != nil {
		return nil, nil, err
	}
	questions, err := s.quizzes.GetQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

func (s *quizService) SaveAttempt(ctx context.Context, userID, quizID string, score, totalQuestions int32) (*domain.QuizAttempt, error) {
	if score < 0 || totalQuestions <= 0 || score > totalQuestions {
		return nil, fmt.Errorf("invalid score %d/%d", score, totalQuestions)
	}

	// The quiz must exist and belong to the caller before an attempt is
	// recorded against it.
	if _, err := s.quizzes.GetByID(ctx, userID, quizID); err != nil {
		return nil, err
	}

	attempt := &domain.QuizAttempt{
		UserID:         userID,
		QuizID:         quizID,
		Score:          score,
		TotalQuestions: totalQuestions,
	}
	if err := s.quizzes.SaveAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	return s.quizzes.Delete(ctx, userID, quizID)
}
