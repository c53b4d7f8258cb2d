package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"
)

type creditRepository struct {
	db *sql.DB
}

func NewCreditRepository(db *sql.DB) repository.CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserCredits, error) {
	query := `SELECT id, user_id, balance, total_earned, total_spent, created_at, updated_at
	          FROM user_credits WHERE user_id = $1`
	var uc domain.UserCredits
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&uc.ID, &uc.UserID, &uc.Balance, &uc.TotalEarned, &uc.TotalSpent, &uc.CreatedAt, &uc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

// Deduct decrements the balance and appends the negative transaction in one
// database transaction. The decrement is conditional (balance >= cost checked
// and applied in the same statement) so two concurrent deductions against the
// same balance cannot both succeed.
func (r *creditRepository) Deduct(ctx context.Context, userID string, cost int32, actionType domain.ActionType, description string, referenceID *string) (*domain.CreditTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin deduct: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE user_credits
		 SET balance = balance - $2, total_spent = total_spent + $2, updated_at = NOW()
		 WHERE user_id = $1 AND balance >= $2`,
		userID, cost)
	if err != nil {
		return nil, fmt.Errorf("deduct balance: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Either no balance record or not enough credits. Report the
		// current balance (zero when absent) for the user-facing message.
		var balance int32
		err := r.db.QueryRowContext(ctx,
			`SELECT COALESCE((SELECT balance FROM user_credits WHERE user_id = $1), 0)`,
			userID).Scan(&balance)
		if err != nil {
			return nil, fmt.Errorf("read balance after failed deduct: %w", err)
		}
		return nil, &domain.InsufficientCreditsError{Balance: balance, Cost: cost}
	}

	ct := &domain.CreditTransaction{
		UserID:      userID,
		Amount:      -cost,
		ActionType:  actionType,
		Description: description,
		ReferenceID: referenceID,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO credit_transactions (user_id, amount, action_type, description, reference_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		ct.UserID, ct.Amount, ct.ActionType, ct.Description, ct.ReferenceID).
		Scan(&ct.ID, &ct.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record deduction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit deduct: %w", err)
	}
	return ct, nil
}

// Add credits the balance, creating the record lazily on first credit, and
// appends the positive transaction in the same database transaction.
func (r *creditRepository) Add(ctx context.Context, userID string, amount int32, actionType domain.ActionType, description string, referenceID *string) (int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add: %w", err)
	}
	defer tx.Rollback()

	newBalance, err := addCreditsTx(ctx, tx, userID, amount)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (user_id, amount, action_type, description, reference_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, amount, actionType, description, referenceID)
	if err != nil {
		return 0, fmt.Errorf("record credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add: %w", err)
	}
	return newBalance, nil
}

// addCreditsTx performs the balance upsert inside an existing transaction.
// Shared with the coupon redemption path.
func addCreditsTx(ctx context.Context, tx *sql.Tx, userID string, amount int32) (int32, error) {
	var newBalance int32
	err := tx.QueryRowContext(ctx,
		`INSERT INTO user_credits (user_id, balance, total_earned, total_spent)
		 VALUES ($1, $2, $2, 0)
		 ON CONFLICT (user_id) DO UPDATE
		 SET balance = user_credits.balance + $2,
		     total_earned = user_credits.total_earned + $2,
		     updated_at = NOW()
		 RETURNING balance`,
		userID, amount).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	return newBalance, nil
}

// Refund reverses a deduction. The original transaction row is locked so a
// concurrent second refund of the same deduction waits, then fails the
// already-refunded check instead of double-crediting. total_spent is
// decremented symmetrically so balance = total_earned - total_spent holds.
func (r *creditRepository) Refund(ctx context.Context, userID, transactionID, description string) (*domain.CreditTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin refund: %w", err)
	}
	defer tx.Rollback()

	var amount int32
	err = tx.QueryRowContext(ctx,
		`SELECT amount FROM credit_transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		transactionID, userID).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}

	// Only deductions are refundable.
	if amount >= 0 {
		return nil, domain.ErrNotRefundable
	}

	var alreadyRefunded bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM credit_transactions
		   WHERE action_type = 'refund' AND reference_id = $1 AND user_id = $2)`,
		transactionID, userID).Scan(&alreadyRefunded)
	if err != nil {
		return nil, fmt.Errorf("check prior refund: %w", err)
	}
	if alreadyRefunded {
		return nil, domain.ErrNotRefundable
	}

	refundAmount := -amount
	res, err := tx.ExecContext(ctx,
		`UPDATE user_credits
		 SET balance = balance + $2, total_spent = total_spent - $2, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, refundAmount)
	if err != nil {
		return nil, fmt.Errorf("restore balance: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrNotFound
	}

	ct := &domain.CreditTransaction{
		UserID:      userID,
		Amount:      refundAmount,
		ActionType:  domain.ActionTypeRefund,
		Description: description,
		ReferenceID: &transactionID,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO credit_transactions (user_id, amount, action_type, description, reference_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		ct.UserID, ct.Amount, ct.ActionType, ct.Description, ct.ReferenceID).
		Scan(&ct.ID, &ct.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record refund: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit refund: %w", err)
	}
	return ct, nil
}

// SetBalance forces an absolute balance and records the delta so the audit
// trail still sums. total_earned or total_spent absorbs the delta to keep the
// ledger invariant intact.
func (r *creditRepository) SetBalance(ctx context.Context, userID string, newBalance int32, description string) (int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin set balance: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_credits (user_id, balance, total_earned, total_spent)
		 VALUES ($1, 0, 0, 0) ON CONFLICT (user_id) DO NOTHING`,
		userID)
	if err != nil {
		return 0, fmt.Errorf("ensure balance record: %w", err)
	}

	var current int32
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM user_credits WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}

	delta := newBalance - current
	if delta == 0 {
		return 0, tx.Commit()
	}

	if delta > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE user_credits
			 SET balance = $2, total_earned = total_earned + $3, updated_at = NOW()
			 WHERE user_id = $1`,
			userID, newBalance, delta)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE user_credits
			 SET balance = $2, total_spent = total_spent + $3, updated_at = NOW()
			 WHERE user_id = $1`,
			userID, newBalance, -delta)
	}
	if err != nil {
		return 0, fmt.Errorf("set balance: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (user_id, amount, action_type, description)
		 VALUES ($1, $2, $3, $4)`,
		userID, delta, domain.ActionTypeAdminSet, description)
	if err != nil {
		return 0, fmt.Errorf("record adjustment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit set balance: %w", err)
	}
	return delta, nil
}

func (r *creditRepository) ListTransactions(ctx context.Context, userID string, limit int32) ([]domain.CreditTransaction, error) {
	query := `SELECT id, user_id, amount, action_type, COALESCE(description, ''), reference_id, created_at
	          FROM credit_transactions WHERE user_id = $1
	          ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.CreditTransaction
	for rows.Next() {
		var ct domain.CreditTransaction
		if err := rows.Scan(&ct.ID, &ct.UserID, &ct.Amount, &ct.ActionType, &ct.Description, &ct.ReferenceID, &ct.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, ct)
	}
	return txs, rows.Err()
}

func (r *creditRepository) ListInconsistent(ctx context.Context) ([]domain.UserCredits, error) {
	query := `SELECT id, user_id, balance, total_earned, total_spent, created_at, updated_at
	          FROM user_credits WHERE balance <> total_earned - total_spent`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserCredits
	for rows.Next() {
		var uc domain.UserCredits
		if err := rows.Scan(&uc.ID, &uc.UserID, &uc.Balance, &uc.TotalEarned, &uc.TotalSpent, &uc.CreatedAt, &uc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}
