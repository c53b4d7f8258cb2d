package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"

	"github.com/lib/pq"
)

type couponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) repository.CouponRepository {
	return &couponRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO credit_coupons (code, credit_amount, max_uses, current_uses, is_active, expires_at, created_by)
		 VALUES ($1, $2, $3, 0, TRUE, $4, $5) RETURNING id, created_at`,
		coupon.Code, coupon.CreditAmount, coupon.MaxUses, coupon.ExpiresAt, coupon.CreatedBy).
		Scan(&coupon.ID, &coupon.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrCouponCodeExists
	}
	if err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	coupon.IsActive = true
	return nil
}

func (r *couponRepository) CreateBatch(ctx context.Context, coupons []domain.Coupon) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch create: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO credit_coupons (code, credit_amount, max_uses, current_uses, is_active, expires_at, created_by)
		 VALUES ($1, $2, $3, 0, TRUE, $4, $5)`)
	if err != nil {
		return fmt.Errorf("prepare batch create: %w", err)
	}
	defer stmt.Close()

	for i := range coupons {
		c := &coupons[i]
		if _, err := stmt.ExecContext(ctx, c.Code, c.CreditAmount, c.MaxUses, c.ExpiresAt, c.CreatedBy); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrCouponCodeExists
			}
			return fmt.Errorf("insert coupon %q: %w", c.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch create: %w", err)
	}
	return nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `SELECT id, code, credit_amount, max_uses, current_uses, is_active, expires_at, created_by, created_at
	          FROM credit_coupons WHERE code = $1`
	var c domain.Coupon
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.CreditAmount, &c.MaxUses, &c.CurrentUses, &c.IsActive, &c.ExpiresAt, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	query := `SELECT id, code, credit_amount, max_uses, current_uses, is_active, expires_at, created_by, created_at
	          FROM credit_coupons ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.CreditAmount, &c.MaxUses, &c.CurrentUses, &c.IsActive, &c.ExpiresAt, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *couponRepository) SetActive(ctx context.Context, couponID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_coupons SET is_active = $2 WHERE id = $1`, couponID, active)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Redeem runs the validate-and-redeem state transition as one database
// transaction. The coupon row is locked with FOR UPDATE, so concurrent
// redemptions of the same code serialize: each one observes the usage counter
// left by the previous commit, and at most max_uses redemptions ever succeed.
// The usage increment and the balance credit commit together or not at all.
func (r *couponRepository) Redeem(ctx context.Context, userID, code, ipAddress string) (int32, int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin redeem: %w", err)
	}
	defer tx.Rollback()

	var c domain.Coupon
	err = tx.QueryRowContext(ctx,
		`SELECT id, credit_amount, max_uses, current_uses, is_active, expires_at
		 FROM credit_coupons WHERE code = $1 FOR UPDATE`,
		code).Scan(&c.ID, &c.CreditAmount, &c.MaxUses, &c.CurrentUses, &c.IsActive, &c.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, domain.ErrCouponNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("lock coupon: %w", err)
	}

	switch {
	case !c.IsActive:
		return 0, 0, domain.ErrCouponInactive
	case c.Expired(time.Now()):
		return 0, 0, domain.ErrCouponExpired
	case c.Exhausted():
		return 0, 0, domain.ErrCouponExhausted
	}

	// The cap is re-checked in the UPDATE predicate as a second guard; the
	// row lock already serializes, so zero rows here is a genuine anomaly.
	res, err := tx.ExecContext(ctx,
		`UPDATE credit_coupons SET current_uses = current_uses + 1
		 WHERE id = $1 AND current_uses < max_uses`,
		c.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("increment coupon usage: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	if rows == 0 {
		return 0, 0, domain.ErrCouponExhausted
	}

	newBalance, err := addCreditsTx(ctx, tx, userID, c.CreditAmount)
	if err != nil {
		return 0, 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (user_id, amount, action_type, description, reference_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, c.CreditAmount, domain.ActionTypeCoupon,
		fmt.Sprintf("Redeemed coupon %s for %d credits", code, c.CreditAmount), &c.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("record coupon credit: %w", err)
	}

	var ip any
	if ipAddress != "" {
		ip = ipAddress
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO coupon_attempts (user_id, attempted_code, success, ip_address)
		 VALUES ($1, $2, TRUE, $3)`,
		userID, code, ip)
	if err != nil {
		return 0, 0, fmt.Errorf("record redemption attempt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit redeem: %w", err)
	}
	return c.CreditAmount, newBalance, nil
}

func (r *couponRepository) RecordAttempt(ctx context.Context, attempt *domain.CouponAttempt) error {
	var ip any
	if attempt.IPAddress != "" {
		ip = attempt.IPAddress
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO coupon_attempts (user_id, attempted_code, success, ip_address)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		attempt.UserID, attempt.AttemptedCode, attempt.Success, ip).
		Scan(&attempt.ID, &attempt.CreatedAt)
}

func (r *couponRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_coupons SET is_active = FALSE
		 WHERE is_active = TRUE AND expires_at IS NOT NULL AND expires_at <= $1`,
		now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *couponRepository) PurgeAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM coupon_attempts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
