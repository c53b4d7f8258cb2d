package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"awn-backend/internal/domain"
	"awn-backend/internal/engine"
)

// MockCreditRepo
type MockCreditRepo struct {
	mock.Mock
}

func (m *MockCreditRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserCredits, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCredits), args.Error(1)
}
func (m *MockCreditRepo) Deduct(ctx context.Context, userID string, cost int32, actionType domain.ActionType, description string, referenceID *string) (*domain.CreditTransaction, error) {
	args := m.Called(ctx, userID, cost, actionType, description, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditTransaction), args.Error(1)
}
func (m *MockCreditRepo) Add(ctx context.Context, userID string, amount int32, actionType domain.ActionType, description string, referenceID *string) (int32, error) {
	args := m.Called(ctx, userID, amount, actionType, description, referenceID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockCreditRepo) Refund(ctx context.Context, userID, transactionID, description string) (*domain.CreditTransaction, error) {
	args := m.Called(ctx, userID, transactionID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditTransaction), args.Error(1)
}
func (m *MockCreditRepo) SetBalance(ctx context.Context, userID string, newBalance int32, description string) (int32, error) {
	args := m.Called(ctx, userID, newBalance, description)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockCreditRepo) ListTransactions(ctx context.Context, userID string, limit int32) ([]domain.CreditTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditTransaction), args.Error(1)
}
func (m *MockCreditRepo) ListInconsistent(ctx context.Context) ([]domain.UserCredits, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserCredits), args.Error(1)
}

// MockSettingRepo
type MockSettingRepo struct {
	mock.Mock
}

func (m *MockSettingRepo) List(ctx context.Context) ([]domain.CreditSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditSetting), args.Error(1)
}
func (m *MockSettingRepo) GetCost(ctx context.Context, actionKey string) (int32, error) {
	args := m.Called(ctx, actionKey)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockSettingRepo) UpdateCost(ctx context.Context, actionKey string, newCost int32) error {
	args := m.Called(ctx, actionKey, newCost)
	return args.Error(0)
}

// MockCouponRepo
type MockCouponRepo struct {
	mock.Mock
}

func (m *MockCouponRepo) Create(ctx context.Context, coupon *domain.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}
func (m *MockCouponRepo) CreateBatch(ctx context.Context, coupons []domain.Coupon) error {
	args := m.Called(ctx, coupons)
	return args.Error(0)
}
func (m *MockCouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}
func (m *MockCouponRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Coupon), args.Error(1)
}
func (m *MockCouponRepo) SetActive(ctx context.Context, couponID string, active bool) error {
	args := m.Called(ctx, couponID, active)
	return args.Error(0)
}
func (m *MockCouponRepo) Redeem(ctx context.Context, userID, code, ipAddress string) (int32, int32, error) {
	args := m.Called(ctx, userID, code, ipAddress)
	return args.Get(0).(int32), args.Get(1).(int32), args.Error(2)
}
func (m *MockCouponRepo) RecordAttempt(ctx context.Context, attempt *domain.CouponAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}
func (m *MockCouponRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCouponRepo) PurgeAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockLimiter
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockEngine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) GenerateText(ctx context.Context, prompt string, doc engine.Document) (string, error) {
	args := m.Called(ctx, prompt, doc)
	return args.String(0), args.Error(1)
}
func (m *MockEngine) GenerateQuiz(ctx context.Context, prompt string, doc engine.Document) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, prompt, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}

// MockSummaryRepo
type MockSummaryRepo struct {
	mock.Mock
}

func (m *MockSummaryRepo) Create(ctx context.Context, summary *domain.Summary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
func (m *MockSummaryRepo) GetByID(ctx context.Context, userID, summaryID string) (*domain.Summary, error) {
	args := m.Called(ctx, userID, summaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}
func (m *MockSummaryRepo) ListByUser(ctx context.Context, userID string) ([]domain.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Summary), args.Error(1)
}
func (m *MockSummaryRepo) Delete(ctx context.Context, userID, summaryID string) error {
	args := m.Called(ctx, userID, summaryID)
	return args.Error(0)
}

// MockQuizRepo
type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) CreateWithQuestions(ctx context.Context, quiz *domain.Quiz, questions []domain.QuizQuestion) error {
	args := m.Called(ctx, quiz, questions)
	return args.Error(0)
}
func (m *MockQuizRepo) GetByID(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	args := m.Called(ctx, userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}
func (m *MockQuizRepo) ListByUser(ctx context.Context, userID string) ([]domain.Quiz, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}
func (m *MockQuizRepo) GetQuestions(ctx context.Context, quizID string) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}
func (m *MockQuizRepo) SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}
func (m *MockQuizRepo) Delete(ctx context.Context, userID, quizID string) error {
	args := m.Called(ctx, userID, quizID)
	return args.Error(0)
}

// MockDocumentRepo
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}
func (m *MockDocumentRepo) GetByID(ctx context.Context, userID, docID string) (*domain.Document, error) {
	args := m.Called(ctx, userID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentRepo) ListByUser(ctx context.Context, userID string) ([]domain.Document, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}
func (m *MockDocumentRepo) Delete(ctx context.Context, userID, docID string) error {
	args := m.Called(ctx, userID, docID)
	return args.Error(0)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, entry *domain.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
