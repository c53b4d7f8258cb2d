package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"awn-backend/internal/domain"
	"awn-backend/internal/engine"
	"awn-backend/internal/logger"
	"awn-backend/internal/repository"
	"awn-backend/internal/storage"
)

type generationService struct {
	credits   CreditService
	documents repository.DocumentRepository
	summaries repository.SummaryRepository
	quizzes   repository.QuizRepository
	store     storage.DocumentStore
	engine    engine.Engine
}

func NewGenerationService(
	credits CreditService,
	documents repository.DocumentRepository,
	summaries repository.SummaryRepository,
	quizzes repository.QuizRepository,
	store storage.DocumentStore,
	eng engine.Engine,
) GenerationService {
	return &generationService{
		credits:   credits,
		documents: documents,
		summaries: summaries,
		quizzes:   quizzes,
		store:     store,
		engine:    eng,
	}
}

// GenerateSummary runs the full pipeline for a study guide: verify credits,
// deduct, call the engine, persist. Credits are deducted before the engine
// call and refunded if generation fails; a persistence failure after a
// successful generation keeps the deduction and returns the text with
// SaveError set so the user's content is not lost.
func (s *generationService) GenerateSummary(ctx context.Context, userID string, req GenerateRequest) (*SummaryResult, error) {
	txn, err := s.chargeFor(ctx, userID, domain.ActionTypeSummary)
	if err != nil {
		return nil, err
	}

	doc, payload, err := s.loadDocument(ctx, userID, req.DocumentID)
	if err != nil {
		s.refund(ctx, userID, txn.ID)
		return nil, err
	}

	text, err := s.engine.GenerateText(ctx, engine.SummaryPrompt(req.Scope), payload)
	if err != nil {
		s.refund(ctx, userID, txn.ID)
		logger.ErrorContext(ctx, "Summary generation failed", "user_id", userID, "document_id", doc.ID, "error", err)
		return nil, err
	}

	summary := &domain.Summary{
		UserID:     userID,
		DocumentID: &doc.ID,
		Title:      titleOr(req.Title, doc.Name),
		Scope:      req.Scope,
		Content:    text,
	}
	if err := s.summaries.Create(ctx, summary); err != nil {
		logger.ErrorContext(ctx, "Summary generated but save failed", "user_id", userID, "error", err)
		return &SummaryResult{
			Text:      text,
			SaveError: &domain.PersistenceError{Op: "save summary", Err: err},
		}, nil
	}

	logger.InfoContext(ctx, "Summary generated", "user_id", userID, "summary_id", summary.ID)
	return &SummaryResult{SummaryID: summary.ID, Text: text}, nil
}

// GenerateQuiz mirrors GenerateSummary. The engine output is validated for
// shape (exactly 10 questions, 3 options each, answer index in range) before
// it is accepted; a malformed quiz counts as a generation failure and is
// refunded.
func (s *generationService) GenerateQuiz(ctx context.Context, userID string, req GenerateRequest) (*QuizResult, error) {
	txn, err := s.chargeFor(ctx, userID, domain.ActionTypeQuiz)
	if err != nil {
		return nil, err
	}

	doc, payload, err := s.loadDocument(ctx, userID, req.DocumentID)
	if err != nil {
		s.refund(ctx, userID, txn.ID)
		return nil, err
	}

	questions, err := s.engine.GenerateQuiz(ctx, engine.QuizPrompt(req.Scope), payload)
	if err == nil {
		err = validateQuiz(questions)
	}
	if err != nil {
		s.refund(ctx, userID, txn.ID)
		logger.ErrorContext(ctx, "Quiz generation failed", "user_id", userID, "document_id", doc.ID, "error", err)
		return nil, err
	}

	quiz := &domain.Quiz{
		UserID:     userID,
		DocumentID: &doc.ID,
		Title:      titleOr(req.Title, doc.Name),
		Scope:      req.Scope,
	}
	if err := s.quizzes.CreateWithQuestions(ctx, quiz, questions); err != nil {
		logger.ErrorContext(ctx, "Quiz generated but save failed", "user_id", userID, "error", err)
		return &QuizResult{
			Questions: questions,
			SaveError: &domain.PersistenceError{Op: "save quiz", Err: err},
		}, nil
	}

	logger.InfoContext(ctx, "Quiz generated", "user_id", userID, "quiz_id", quiz.ID)
	return &QuizResult{QuizID: quiz.ID, Questions: questions}, nil
}

// chargeFor verifies the balance and deducts the action's cost. The returned
// transaction is the refund handle for compensating a later failure.
func (s *generationService) chargeFor(ctx context.Context, userID string, action domain.ActionType) (*domain.CreditTransaction, error) {
	check, err := s.credits.HasEnoughCredits(ctx, userID, string(action))
	if err != nil {
		return nil, fmt.Errorf("failed to check credits: %w", err)
	}
	if !check.Sufficient {
		return nil, &domain.InsufficientCreditsError{Balance: check.Balance, Cost: check.Cost}
	}

	txn, err := s.credits.Deduct(ctx, userID, string(action), nil)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *generationService) loadDocument(ctx context.Context, userID, docID string) (*domain.Document, engine.Document, error) {
	doc, err := s.documents.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, engine.Document{}, err
	}

	r, err := s.store.Open(doc.StorageKey)
	if err != nil {
		return nil, engine.Document{}, fmt.Errorf("failed to open document: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, engine.Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	return doc, engine.Document{Data: data, MimeType: doc.MimeType}, nil
}

// refundTimeout bounds the compensating refund once it is detached from the
// request context.
const refundTimeout = 30 * time.Second

// refund is best effort. A refund failure is logged but never surfaced; the
// original failure is what the caller needs to see. The request context may
// already be cancelled when the client disconnected mid-generation, so the
// refund runs on a detached context with its own deadline; the committed
// deduction must not be stranded by the same cancellation that failed the
// engine call.
func (s *generationService) refund(ctx context.Context, userID, transactionID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refundTimeout)
	defer cancel()

	if err := s.credits.Refund(ctx, userID, transactionID); err != nil {
		logger.ErrorContext(ctx, "Refund after failed generation did not apply", "user_id", userID, "transaction_id", transactionID, "error", err)
		return
	}
	logger.InfoContext(ctx, "Credits refunded after failed generation", "user_id", userID, "transaction_id", transactionID)
}

func validateQuiz(questions []domain.QuizQuestion) error {
	if len(questions) != domain.QuizQuestionCount {
		return fmt.Errorf("%w: expected %d questions, got %d", domain.ErrEngineFailure, domain.QuizQuestionCount, len(questions))
	}
	for i, q := range questions {
		if len(q.Options) != domain.QuizOptionCount {
			return fmt.Errorf("%w: question %d has %d options", domain.ErrEngineFailure, i, len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= domain.QuizOptionCount {
			return fmt.Errorf("%w: question %d answer index %d out of range", domain.ErrEngineFailure, i, q.CorrectAnswer)
		}
	}
	return nil
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}
