package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"awn-backend/internal/domain"
)

func newAdminFixture() (*MockSettingRepo, *MockCouponRepo, *MockCreditRepo, *MockActivityRepo, AdminService) {
	settings := new(MockSettingRepo)
	coupons := new(MockCouponRepo)
	credits := new(MockCreditRepo)
	activity := new(MockActivityRepo)
	svc := NewAdminService(settings, coupons, credits, activity)
	return settings, coupons, credits, activity, svc
}

func TestAdminService_UpdateCreditSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		settings, _, _, activity, svc := newAdminFixture()

		settings.On("UpdateCost", ctx, "quiz", int32(15)).Return(nil)
		activity.On("Create", ctx, mock.Anything).Return(nil)

		err := svc.UpdateCreditSetting(ctx, "admin-1", "quiz", 15)
		assert.NoError(t, err)
		settings.AssertExpectations(t)
	})

	t.Run("RejectsNegativeCost", func(t *testing.T) {
		settings, _, _, _, svc := newAdminFixture()

		err := svc.UpdateCreditSetting(ctx, "admin-1", "quiz", -1)
		assert.Error(t, err)
		settings.AssertNotCalled(t, "UpdateCost", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminService_CreateCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("NormalizesCode", func(t *testing.T) {
		_, coupons, _, activity, svc := newAdminFixture()

		coupons.On("Create", ctx, mock.MatchedBy(func(c *domain.Coupon) bool {
			return c.Code == "WELCOME50" && c.CreditAmount == 50 && c.MaxUses == 100 && c.IsActive
		})).Return(nil)
		activity.On("Create", ctx, mock.Anything).Return(nil)

		coupon, err := svc.CreateCoupon(ctx, "admin-1", " welcome50 ", 50, 100, nil)
		assert.NoError(t, err)
		assert.Equal(t, "WELCOME50", coupon.Code)
	})

	t.Run("RejectsBadInput", func(t *testing.T) {
		_, coupons, _, _, svc := newAdminFixture()

		_, err := svc.CreateCoupon(ctx, "admin-1", "", 50, 100, nil)
		assert.Error(t, err)
		_, err = svc.CreateCoupon(ctx, "admin-1", "CODE", 0, 100, nil)
		assert.Error(t, err)
		_, err = svc.CreateCoupon(ctx, "admin-1", "CODE", 50, 0, nil)
		assert.Error(t, err)
		coupons.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateCodeSurfaces", func(t *testing.T) {
		_, coupons, _, _, svc := newAdminFixture()

		coupons.On("Create", ctx, mock.Anything).Return(domain.ErrCouponCodeExists)

		_, err := svc.CreateCoupon(ctx, "admin-1", "WELCOME50", 50, 100, nil)
		assert.ErrorIs(t, err, domain.ErrCouponCodeExists)
	})
}

func TestAdminService_CreateBulkCoupons(t *testing.T) {
	ctx := context.Background()
	codePattern := regexp.MustCompile(`^[A-Z0-9]{12}$`)

	t.Run("GeneratesValidCodes", func(t *testing.T) {
		_, coupons, _, activity, svc := newAdminFixture()

		coupons.On("CreateBatch", ctx, mock.MatchedBy(func(batch []domain.Coupon) bool {
			return len(batch) == 25
		})).Return(nil)
		activity.On("Create", ctx, mock.Anything).Return(nil)

		codes, err := svc.CreateBulkCoupons(ctx, "admin-1", 25, 20, 1)
		assert.NoError(t, err)
		assert.Len(t, codes, 25)

		seen := make(map[string]bool)
		for _, code := range codes {
			assert.Regexp(t, codePattern, code)
			assert.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	})

	t.Run("RejectsCountOutOfRange", func(t *testing.T) {
		_, coupons, _, _, svc := newAdminFixture()

		_, err := svc.CreateBulkCoupons(ctx, "admin-1", 0, 20, 1)
		assert.Error(t, err)
		_, err = svc.CreateBulkCoupons(ctx, "admin-1", 1001, 20, 1)
		assert.Error(t, err)
		coupons.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})
}

func TestAdminService_SetCouponActive(t *testing.T) {
	ctx := context.Background()

	_, coupons, _, activity, svc := newAdminFixture()

	coupons.On("SetActive", ctx, "coupon-1", false).Return(nil)
	activity.On("Create", ctx, mock.Anything).Return(nil)

	err := svc.SetCouponActive(ctx, "admin-1", "coupon-1", false)
	assert.NoError(t, err)
	coupons.AssertExpectations(t)
}

func TestAdminService_GiftCredits(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		_, _, credits, activity, svc := newAdminFixture()

		credits.On("Add", ctx, "user-1", int32(100), domain.ActionTypeAdminGift, "Admin gift of 100 credits", (*string)(nil)).
			Return(int32(110), nil)
		activity.On("Create", ctx, mock.MatchedBy(func(e *domain.ActivityLog) bool {
			return e.ActionType == "gift_credits" && e.Metadata["target_id"] == "user-1"
		})).Return(nil)

		err := svc.GiftCredits(ctx, "admin-1", "user-1", 100)
		assert.NoError(t, err)
		credits.AssertExpectations(t)
		activity.AssertExpectations(t)
	})

	t.Run("RejectsNonPositive", func(t *testing.T) {
		_, _, credits, _, svc := newAdminFixture()

		assert.Error(t, svc.GiftCredits(ctx, "admin-1", "user-1", 0))
		assert.Error(t, svc.GiftCredits(ctx, "admin-1", "user-1", -10))
		credits.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminService_SetCredits(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		_, _, credits, activity, svc := newAdminFixture()

		credits.On("SetBalance", ctx, "user-1", int32(200), "Admin set balance to 200 credits").
			Return(int32(150), nil)
		activity.On("Create", ctx, mock.Anything).Return(nil)

		err := svc.SetCredits(ctx, "admin-1", "user-1", 200)
		assert.NoError(t, err)
	})

	t.Run("RejectsNegativeBalance", func(t *testing.T) {
		_, _, credits, _, svc := newAdminFixture()

		assert.Error(t, svc.SetCredits(ctx, "admin-1", "user-1", -1))
		credits.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminService_AuditFailureDoesNotFailAction(t *testing.T) {
	ctx := context.Background()

	settings, _, _, activity, svc := newAdminFixture()

	settings.On("UpdateCost", ctx, "summary", int32(12)).Return(nil)
	activity.On("Create", ctx, mock.Anything).Return(errors.New("audit store down"))

	err := svc.UpdateCreditSetting(ctx, "admin-1", "summary", 12)
	assert.NoError(t, err)
}
