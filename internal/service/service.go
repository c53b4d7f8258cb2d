package service

import (
	"context"
	"io"
	"time"

	"awn-backend/internal/domain"
)

// CreditService exposes the ledger operations. Every method takes the
// authenticated principal explicitly; no ambient session state.
type CreditService interface {
	// GetCredits returns (nil, nil) when the user has no balance record yet.
	GetCredits(ctx context.Context, userID string) (*domain.UserCredits, error)
	// GetCost never fails; missing pricing rows fall back to the default.
	GetCost(ctx context.Context, actionKey string) int32
	HasEnoughCredits(ctx context.Context, userID, actionKey string) (*domain.CreditCheck, error)
	Deduct(ctx context.Context, userID, actionKey string, referenceID *string) (*domain.CreditTransaction, error)
	Refund(ctx context.Context, userID, transactionID string) error
	Add(ctx context.Context, userID string, amount int32, actionType domain.ActionType, description string, referenceID *string) (int32, error)
	ListTransactions(ctx context.Context, userID string) ([]domain.CreditTransaction, error)
}

// CouponService redeems coupon codes.
type CouponService interface {
	Redeem(ctx context.Context, userID, code, ipAddress string) (*domain.RedemptionOutcome, error)
}

// AttemptLimiter throttles coupon guessing per user. Implementations live in
// internal/ratelimit.
type AttemptLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// GenerateRequest identifies the source document and the user's scope choice
// for one generation.
type GenerateRequest struct {
	DocumentID string
	Scope      string
	Title      string
}

// SummaryResult carries the generated text. SaveError is set when the engine
// succeeded but persisting the summary failed; the text is still returned so
// the work is not lost.
type SummaryResult struct {
	SummaryID string
	Text      string
	SaveError error
}

// QuizResult mirrors SummaryResult for quizzes.
type QuizResult struct {
	QuizID    string
	Questions []domain.QuizQuestion
	SaveError error
}

// GenerationService runs the check → deduct → generate → persist pipeline
// with a compensating refund on failure.
type GenerationService interface {
	GenerateSummary(ctx context.Context, userID string, req GenerateRequest) (*SummaryResult, error)
	GenerateQuiz(ctx context.Context, userID string, req GenerateRequest) (*QuizResult, error)
}

type SummaryService interface {
	ListSummaries(ctx context.Context, userID string) ([]domain.Summary, error)
	GetSummary(ctx context.Context, userID, summaryID string) (*domain.Summary, error)
	DeleteSummary(ctx context.Context, userID, summaryID string) error
}

type QuizService interface {
	ListQuizzes(ctx context.Context, userID string) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, []domain.QuizQuestion, error)
	SaveAttempt(ctx context.Context, userID, quizID string, score, totalQuestions int32) (*domain.QuizAttempt, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
}

type DocumentService interface {
	Upload(ctx context.Context, userID, name, mimeType string, size int64, content io.Reader) (*domain.Document, error)
	ListDocuments(ctx context.Context, userID string) ([]domain.Document, error)
	GetDocument(ctx context.Context, userID, docID string) (*domain.Document, error)
	DeleteDocument(ctx context.Context, userID, docID string) error
}

// AdminService covers operator actions: pricing, coupons, and manual credit
// adjustments. The adminID is the acting operator, recorded in the audit log.
type AdminService interface {
	ListCreditSettings(ctx context.Context) ([]domain.CreditSetting, error)
	UpdateCreditSetting(ctx context.Context, adminID, actionKey string, newCost int32) error

	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	CreateCoupon(ctx context.Context, adminID, code string, creditAmount, maxUses int32, expiresAt *time.Time) (*domain.Coupon, error)
	CreateBulkCoupons(ctx context.Context, adminID string, count int, creditAmount, maxUses int32) ([]string, error)
	SetCouponActive(ctx context.Context, adminID, couponID string, active bool) error

	GiftCredits(ctx context.Context, adminID, userID string, amount int32) error
	SetCredits(ctx context.Context, adminID, userID string, amount int32) error
}
