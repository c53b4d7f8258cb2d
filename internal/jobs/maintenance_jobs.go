package jobs

import (
	"context"
	"time"

	"awn-backend/internal/logger"
)

// attemptRetentionDays is how long the coupon attempt log is kept. Attempts
// only feed rate limiting and audits, so old rows are pure dead weight.
const attemptRetentionDays = 90

// DeactivateExpiredCoupons flips is_active off for coupons whose expiry has
// passed, so expired codes stop being offered in the admin list.
func (jr *JobRunner) DeactivateExpiredCoupons() {
	jr.runWithRecovery("DeactivateExpiredCoupons", func() {
		ctx := context.Background()

		count, err := jr.store.DeactivateExpired(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to deactivate expired coupons", "error", err)
			return
		}
		logger.Info("Deactivated expired coupons", "count", count)
	})
}

// PurgeOldCouponAttempts deletes attempt log rows older than the retention
// window.
func (jr *JobRunner) PurgeOldCouponAttempts() {
	jr.runWithRecovery("PurgeOldCouponAttempts", func() {
		ctx := context.Background()

		cutoff := time.Now().UTC().AddDate(0, 0, -attemptRetentionDays)
		count, err := jr.store.PurgeAttemptsBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge old coupon attempts", "error", err)
			return
		}
		logger.Info("Purged old coupon attempts", "count", count, "cutoff", cutoff)
	})
}

// ReconcileCreditBalances scans for balance records that drifted from their
// transaction totals. Drift is reported, never auto-corrected; with every
// mutation transactional a hit here means a bug or manual interference, and
// both warrant a human look.
func (jr *JobRunner) ReconcileCreditBalances() {
	jr.runWithRecovery("ReconcileCreditBalances", func() {
		ctx := context.Background()

		inconsistent, err := jr.store.ListInconsistent(ctx)
		if err != nil {
			logger.Error("Failed to scan credit balances", "error", err)
			return
		}

		for _, uc := range inconsistent {
			logger.Error("Credit balance inconsistent with totals",
				"user_id", uc.UserID,
				"balance", uc.Balance,
				"total_earned", uc.TotalEarned,
				"total_spent", uc.TotalSpent)
		}

		logger.Info("Credit balance reconciliation finished", "inconsistent", len(inconsistent))
	})
}
