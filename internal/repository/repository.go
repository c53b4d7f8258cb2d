package repository

import (
	"context"
	"time"

	"awn-backend/internal/domain"
)

// CreditRepository owns the per-user balance record and the append-only
// transaction log. Every mutation is a single atomic unit: the balance update
// and its transaction row commit together or not at all.
type CreditRepository interface {
	// GetByUserID returns domain.ErrNotFound when the user has no balance
	// record yet. Callers treat that as zero-with-no-history, not a fault.
	GetByUserID(ctx context.Context, userID string) (*domain.UserCredits, error)

	// Deduct applies a conditional decrement (balance >= cost checked and
	// applied in one statement) and records the negative transaction.
	// Returns *domain.InsufficientCreditsError when the balance is short or
	// no record exists.
	Deduct(ctx context.Context, userID string, cost int32, actionType domain.ActionType, description string, referenceID *string) (*domain.CreditTransaction, error)

	// Add credits the balance (creating the record lazily) and records the
	// positive transaction. Returns the new balance.
	Add(ctx context.Context, userID string, amount int32, actionType domain.ActionType, description string, referenceID *string) (int32, error)

	// Refund reverses a prior deduction owned by userID. Fails with
	// domain.ErrNotFound if the transaction does not exist or is not the
	// caller's, and domain.ErrNotRefundable if it is not a deduction or was
	// already refunded.
	Refund(ctx context.Context, userID, transactionID, description string) (*domain.CreditTransaction, error)

	// SetBalance forces the balance to an absolute value and records the
	// delta as a transaction. Admin use only. Returns the applied delta.
	SetBalance(ctx context.Context, userID string, newBalance int32, description string) (int32, error)

	ListTransactions(ctx context.Context, userID string, limit int32) ([]domain.CreditTransaction, error)

	// ListInconsistent returns balance records where
	// balance != total_earned - total_spent, for the nightly reconcile sweep.
	ListInconsistent(ctx context.Context) ([]domain.UserCredits, error)
}

type CreditSettingRepository interface {
	List(ctx context.Context) ([]domain.CreditSetting, error)
	// GetCost returns domain.ErrNotFound when no pricing row exists for the
	// key; the service falls back to the default cost.
	GetCost(ctx context.Context, actionKey string) (int32, error)
	UpdateCost(ctx context.Context, actionKey string, newCost int32) error
}

// CouponRepository owns coupon definitions and the redemption attempt log.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	CreateBatch(ctx context.Context, coupons []domain.Coupon) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	SetActive(ctx context.Context, couponID string, active bool) error

	// Redeem validates the code and, if valid, increments current_uses,
	// credits the user's balance, and records the successful attempt (with
	// the caller's IP) in one transaction. The coupon row is locked for the
	// duration so concurrent redemptions serialize and the usage cap holds.
	// Returns the credits awarded and the new balance, or one of the coupon
	// validation errors with no state mutated.
	Redeem(ctx context.Context, userID, code, ipAddress string) (credits int32, newBalance int32, err error)

	RecordAttempt(ctx context.Context, attempt *domain.CouponAttempt) error

	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	PurgeAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SummaryRepository interface {
	Create(ctx context.Context, summary *domain.Summary) error
	GetByID(ctx context.Context, userID, summaryID string) (*domain.Summary, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Summary, error)
	Delete(ctx context.Context, userID, summaryID string) error
}

type QuizRepository interface {
	// CreateWithQuestions inserts the quiz and its ordered questions in one
	// transaction; a failed question insert leaves no orphan quiz behind.
	CreateWithQuestions(ctx context.Context, quiz *domain.Quiz, questions []domain.QuizQuestion) error
	GetByID(ctx context.Context, userID, quizID string) (*domain.Quiz, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Quiz, error)
	GetQuestions(ctx context.Context, quizID string) ([]domain.QuizQuestion, error)
	SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) error
	Delete(ctx context.Context, userID, quizID string) error
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, userID, docID string) (*domain.Document, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Document, error)
	Delete(ctx context.Context, userID, docID string) error
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
}
