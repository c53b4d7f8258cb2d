package service

import (
	"context"
	"strings"
	"time"

	"awn-backend/internal/domain"
	"awn-backend/internal/logger"
	"awn-backend/internal/repository"
)

// One collapsed client-facing message for every validation failure so the
// response does not reveal which gate rejected the code.
const couponRejectedMessage = "Invalid or expired coupon code"

type couponService struct {
	couponRepo repository.CouponRepository
	limiter    AttemptLimiter
	delay      time.Duration
}

func NewCouponService(couponRepo repository.CouponRepository, limiter AttemptLimiter, delay time.Duration) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		limiter:    limiter,
		delay:      delay,
	}
}

// Redeem walks the redemption gates in order: fixed delay, attempt rate
// limit, then the atomic validate-and-redeem in the store. The delay applies
// on every path, success and failure alike, so response timing does not leak
// code validity. It parks on a timer rather than sleeping, so a slow guess
// does not pin anything but its own goroutine.
func (s *couponService) Redeem(ctx context.Context, userID, code, ipAddress string) (*domain.RedemptionOutcome, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	allowed, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		// A broken limiter must not take redemption down with it.
		logger.Error("Coupon attempt limiter failed, allowing request", "user_id", userID, "error", err)
		allowed = true
	}
	if !allowed {
		logger.Warn("Coupon redemption rate limited", "user_id", userID)
		s.recordAttempt(ctx, userID, code, ipAddress, false)
		return &domain.RedemptionOutcome{
			Success: false,
			Error:   "Too many attempts, please try again later",
		}, nil
	}

	credits, newBalance, err := s.couponRepo.Redeem(ctx, userID, code, ipAddress)
	if err != nil {
		if domain.IsCouponInvalid(err) {
			// The precise reason stays in the server log and attempt trail.
			logger.Info("Coupon redemption rejected", "user_id", userID, "reason", err)
			s.recordAttempt(ctx, userID, code, ipAddress, false)
			return &domain.RedemptionOutcome{Success: false, Error: couponRejectedMessage}, nil
		}
		return nil, err
	}

	// The successful attempt row is written inside the redeem transaction.
	logger.Info("Coupon redeemed", "user_id", userID, "credits", credits, "new_balance", newBalance)
	return &domain.RedemptionOutcome{
		Success:        true,
		CreditsAwarded: credits,
		NewBalance:     newBalance,
	}, nil
}

// recordAttempt appends a failed attempt to the audit trail. Best effort: a
// logging failure must not change the redemption outcome.
func (s *couponService) recordAttempt(ctx context.Context, userID, code, ipAddress string, success bool) {
	attempt := &domain.CouponAttempt{
		UserID:        userID,
		AttemptedCode: code,
		Success:       success,
		IPAddress:     ipAddress,
	}
	if err := s.couponRepo.RecordAttempt(ctx, attempt); err != nil {
		logger.Error("Failed to record coupon attempt", "user_id", userID, "error", err)
	}
}
