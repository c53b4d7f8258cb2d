package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"
)

// fakeLedger is a mutex-guarded in-memory CreditRepository. It implements the
// same conditional-update contract as the SQL implementation: the balance
// check and the decrement happen under one lock, so concurrent deductions
// observe each other's committed state.
type fakeLedger struct {
	mu      sync.Mutex
	balance map[string]int32
	earned  map[string]int32
	spent   map[string]int32
	txns    []domain.CreditTransaction
	nextID  int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balance: make(map[string]int32),
		earned:  make(map[string]int32),
		spent:   make(map[string]int32),
	}
}

func (l *fakeLedger) seed(userID string, balance int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance[userID] = balance
	l.earned[userID] = balance
}

func (l *fakeLedger) record(userID string, amount int32, actionType domain.ActionType, description string, referenceID *string) *domain.CreditTransaction {
	l.nextID++
	txn := domain.CreditTransaction{
		ID:          fmt.Sprintf("tx-%d", l.nextID),
		UserID:      userID,
		Amount:      amount,
		ActionType:  actionType,
		Description: description,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
	}
	l.txns = append(l.txns, txn)
	return &txn
}

func (l *fakeLedger) GetByUserID(ctx context.Context, userID string) (*domain.UserCredits, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.balance[userID]; !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.UserCredits{
		UserID:      userID,
		Balance:     l.balance[userID],
		TotalEarned: l.earned[userID],
		TotalSpent:  l.spent[userID],
	}, nil
}

func (l *fakeLedger) Deduct(ctx context.Context, userID string, cost int32, actionType domain.ActionType, description string, referenceID *string) (*domain.CreditTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance[userID] < cost {
		return nil, &domain.InsufficientCreditsError{Balance: l.balance[userID], Cost: cost}
	}
	l.balance[userID] -= cost
	l.spent[userID] += cost
	return l.record(userID, -cost, actionType, description, referenceID), nil
}

func (l *fakeLedger) Add(ctx context.Context, userID string, amount int32, actionType domain.ActionType, description string, referenceID *string) (int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance[userID] += amount
	l.earned[userID] += amount
	l.record(userID, amount, actionType, description, referenceID)
	return l.balance[userID], nil
}

func (l *fakeLedger) Refund(ctx context.Context, userID, transactionID, description string) (*domain.CreditTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, txn := range l.txns {
		if txn.ID != transactionID || txn.UserID != userID {
			continue
		}
		if txn.Amount >= 0 {
			return nil, domain.ErrNotRefundable
		}
		amount := -txn.Amount
		l.balance[userID] += amount
		l.spent[userID] -= amount
		return l.record(userID, amount, domain.ActionTypeRefund, description, &transactionID), nil
	}
	return nil, domain.ErrNotFound
}

func (l *fakeLedger) SetBalance(ctx context.Context, userID string, newBalance int32, description string) (int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delta := newBalance - l.balance[userID]
	l.balance[userID] = newBalance
	if delta >= 0 {
		l.earned[userID] += delta
	} else {
		l.spent[userID] -= delta
	}
	if delta != 0 {
		l.record(userID, delta, domain.ActionTypeAdminSet, description, nil)
	}
	return delta, nil
}

func (l *fakeLedger) ListTransactions(ctx context.Context, userID string, limit int32) ([]domain.CreditTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.CreditTransaction
	for i := len(l.txns) - 1; i >= 0 && int32(len(out)) < limit; i-- {
		if l.txns[i].UserID == userID {
			out = append(out, l.txns[i])
		}
	}
	return out, nil
}

func (l *fakeLedger) ListInconsistent(ctx context.Context) ([]domain.UserCredits, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.UserCredits
	for userID, balance := range l.balance {
		if balance != l.earned[userID]-l.spent[userID] {
			out = append(out, domain.UserCredits{UserID: userID, Balance: balance})
		}
	}
	return out, nil
}

// fakeCouponStore holds a single coupon and redeems against the shared
// ledger. Validation, the capped usage increment, and the credit happen under
// one lock, mirroring the row-locked SQL transaction.
type fakeCouponStore struct {
	mu     sync.Mutex
	coupon domain.Coupon
	ledger *fakeLedger
}

func (s *fakeCouponStore) Redeem(ctx context.Context, userID, code, ipAddress string) (int32, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case code != s.coupon.Code:
		return 0, 0, domain.ErrCouponNotFound
	case !s.coupon.IsActive:
		return 0, 0, domain.ErrCouponInactive
	case s.coupon.Expired(time.Now()):
		return 0, 0, domain.ErrCouponExpired
	case s.coupon.CurrentUses >= s.coupon.MaxUses:
		return 0, 0, domain.ErrCouponExhausted
	}
	s.coupon.CurrentUses++
	newBalance, err := s.ledger.Add(ctx, userID, s.coupon.CreditAmount, domain.ActionTypeCoupon, "coupon", nil)
	if err != nil {
		return 0, 0, err
	}
	return s.coupon.CreditAmount, newBalance, nil
}

func (s *fakeCouponStore) Create(ctx context.Context, coupon *domain.Coupon) error { return nil }
func (s *fakeCouponStore) CreateBatch(ctx context.Context, coupons []domain.Coupon) error { return nil }
func (s *fakeCouponStore) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return nil, domain.ErrCouponNotFound
}
func (s *fakeCouponStore) List(ctx context.Context) ([]domain.Coupon, error) { return nil, nil }
func (s *fakeCouponStore) SetActive(ctx context.Context, couponID string, active bool) error {
	return nil
}
func (s *fakeCouponStore) RecordAttempt(ctx context.Context, attempt *domain.CouponAttempt) error {
	return nil
}
func (s *fakeCouponStore) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
func (s *fakeCouponStore) PurgeAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

var (
	_ repository.CreditRepository = (*fakeLedger)(nil)
	_ repository.CouponRepository = (*fakeCouponStore)(nil)
)

// Balance equals one action's cost and many goroutines race to deduct:
// exactly one wins, the rest see InsufficientCredits, and the final balance
// is zero rather than negative.
func TestCreditService_ConcurrentDeductNoDoubleSpend(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.seed("user-1", 10)

	settings := new(MockSettingRepo)
	settings.On("GetCost", mock.Anything, "quiz").Return(int32(10), nil)
	svc := NewCreditService(ledger, settings)

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Deduct(ctx, "user-1", "quiz", nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, insufficient int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var short *domain.InsufficientCreditsError
		if errors.As(err, &short) {
			insufficient++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, insufficient)

	credits, err := svc.GetCredits(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, int32(0), credits.Balance)
}

// A coupon with max_uses = N under concurrent redemption by distinct users:
// exactly N succeed, current_uses never exceeds N, and every winner was
// credited.
func TestCouponService_ConcurrentRedemptionHonorsUsageCap(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	store := &fakeCouponStore{
		coupon: domain.Coupon{Code: "WELCOME50", CreditAmount: 50, MaxUses: 5, IsActive: true},
		ledger: ledger,
	}
	svc := NewCouponService(store, allowAll(), 0)

	const racers = 20
	var wg sync.WaitGroup
	outcomes := make(chan *domain.RedemptionOutcome, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			outcome, err := svc.Redeem(ctx, fmt.Sprintf("user-%d", n), "WELCOME50", "")
			if err == nil {
				outcomes <- outcome
			}
		}(i)
	}
	wg.Wait()
	close(outcomes)

	var successes, rejected int
	for outcome := range outcomes {
		if outcome.Success {
			successes++
			assert.Equal(t, int32(50), outcome.CreditsAwarded)
		} else {
			rejected++
			assert.Equal(t, couponRejectedMessage, outcome.Error)
		}
	}
	assert.Equal(t, 5, successes)
	assert.Equal(t, racers-5, rejected)
	assert.Equal(t, int32(5), store.coupon.CurrentUses)

	// Every winner's balance reflects the credit; nobody was credited twice.
	var credited int
	for n := 0; n < racers; n++ {
		credits, err := ledger.GetByUserID(ctx, fmt.Sprintf("user-%d", n))
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, int32(50), credits.Balance)
		credited++
	}
	assert.Equal(t, 5, credited)
}
