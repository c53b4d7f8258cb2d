package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"awn-backend/internal/domain"
	"awn-backend/internal/logger"
	"awn-backend/internal/repository"
)

const (
	couponCodeLength  = 12
	couponCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxBulkCoupons    = 1000
)

type adminService struct {
	settings repository.CreditSettingRepository
	coupons  repository.CouponRepository
	credits  repository.CreditRepository
	activity repository.ActivityLogRepository
}

func NewAdminService(
	settings repository.CreditSettingRepository,
	coupons repository.CouponRepository,
	credits repository.CreditRepository,
	activity repository.ActivityLogRepository,
) AdminService {
	return &adminService{
		settings: settings,
		coupons:  coupons,
		credits:  credits,
		activity: activity,
	}
}

func (s *adminService) ListCreditSettings(ctx context.Context) ([]domain.CreditSetting, error) {
	return s.settings.List(ctx)
}

func (s *adminService) UpdateCreditSetting(ctx context.Context, adminID, actionKey string, newCost int32) error {
	if newCost < 0 {
		return fmt.Errorf("cost cannot be negative")
	}
	if err := s.settings.UpdateCost(ctx, actionKey, newCost); err != nil {
		return err
	}
	s.audit(ctx, adminID, "update_credit_setting", actionKey, map[string]string{
		"action_key": actionKey,
		"new_cost":   fmt.Sprintf("%d", newCost),
	})
	return nil
}

func (s *adminService) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *adminService) CreateCoupon(ctx context.Context, adminID, code string, creditAmount, maxUses int32, expiresAt *time.Time) (*domain.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("coupon code is required")
	}
	if creditAmount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}
	if maxUses <= 0 {
		return nil, fmt.Errorf("max uses must be positive")
	}

	coupon := &domain.Coupon{
		Code:         code,
		CreditAmount: creditAmount,
		MaxUses:      maxUses,
		IsActive:     true,
		ExpiresAt:    expiresAt,
		CreatedBy:    &adminID,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, "create_coupon", coupon.ID, map[string]string{
		"code":          code,
		"credit_amount": fmt.Sprintf("%d", creditAmount),
		"max_uses":      fmt.Sprintf("%d", maxUses),
	})
	return coupon, nil
}

// CreateBulkCoupons generates count coupons with random codes and inserts
// them in one batch. Codes are 12 characters from A-Z0-9, which at 36^12
// combinations makes collisions within a batch or with existing coupons
// vanishingly rare; a collision still fails the batch cleanly with no
// partial insert.
func (s *adminService) CreateBulkCoupons(ctx context.Context, adminID string, count int, creditAmount, maxUses int32) ([]string, error) {
	if count < 1 || count > maxBulkCoupons {
		return nil, fmt.Errorf("count must be between 1 and %d", maxBulkCoupons)
	}
	if creditAmount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}
	if maxUses <= 0 {
		return nil, fmt.Errorf("max uses must be positive")
	}

	coupons := make([]domain.Coupon, count)
	codes := make([]string, count)
	for i := range coupons {
		code, err := generateCouponCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate coupon code: %w", err)
		}
		codes[i] = code
		coupons[i] = domain.Coupon{
			Code:         code,
			CreditAmount: creditAmount,
			MaxUses:      maxUses,
			IsActive:     true,
			CreatedBy:    &adminID,
		}
	}

	if err := s.coupons.CreateBatch(ctx, coupons); err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, "create_bulk_coupons", "", map[string]string{
		"count":         fmt.Sprintf("%d", count),
		"credit_amount": fmt.Sprintf("%d", creditAmount),
	})
	logger.InfoContext(ctx, "Bulk coupons created", "admin_id", adminID, "count", count)
	return codes, nil
}

func (s *adminService) SetCouponActive(ctx context.Context, adminID, couponID string, active bool) error {
	if err := s.coupons.SetActive(ctx, couponID, active); err != nil {
		return err
	}
	s.audit(ctx, adminID, "set_coupon_active", couponID, map[string]string{
		"active": fmt.Sprintf("%t", active),
	})
	return nil
}

func (s *adminService) GiftCredits(ctx context.Context, adminID, userID string, amount int32) error {
	if amount <= 0 {
		return fmt.Errorf("gift amount must be positive")
	}
	desc := fmt.Sprintf("Admin gift of %d credits", amount)
	if _, err := s.credits.Add(ctx, userID, amount, domain.ActionTypeAdminGift, desc, nil); err != nil {
		return err
	}
	s.audit(ctx, adminID, "gift_credits", userID, map[string]string{
		"amount": fmt.Sprintf("%d", amount),
	})
	return nil
}

func (s *adminService) SetCredits(ctx context.Context, adminID, userID string, amount int32) error {
	if amount < 0 {
		return fmt.Errorf("balance cannot be negative")
	}
	desc := fmt.Sprintf("Admin set balance to %d credits", amount)
	delta, err := s.credits.SetBalance(ctx, userID, amount, desc)
	if err != nil {
		return err
	}
	s.audit(ctx, adminID, "set_credits", userID, map[string]string{
		"new_balance": fmt.Sprintf("%d", amount),
		"delta":       fmt.Sprintf("%d", delta),
	})
	return nil
}

// audit is best effort. Losing an audit row must not fail the admin action
// it describes.
func (s *adminService) audit(ctx context.Context, adminID, action, targetID string, metadata map[string]string) {
	if targetID != "" {
		metadata["target_id"] = targetID
	}
	entry := &domain.ActivityLog{
		UserID:      &adminID,
		ActionType:  action,
		Description: strings.ReplaceAll(action, "_", " "),
		Metadata:    metadata,
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		logger.Warn("Failed to record admin activity", "action", action, "admin_id", adminID, "error", err)
	}
}

func generateCouponCode() (string, error) {
	b := make([]byte, couponCodeLength)
	max := big.NewInt(int64(len(couponCodeCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = couponCodeCharset[n.Int64()]
	}
	return string(b), nil
}
