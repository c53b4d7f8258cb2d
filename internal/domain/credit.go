package domain

import "time"

// ActionType classifies a credit transaction. Deductions use the action key
// of the generation that consumed the credits; everything else is a credit.
type ActionType string

const (
	ActionTypeSummary   ActionType = "summary"
	ActionTypeQuiz      ActionType = "quiz"
	ActionTypeRefund    ActionType = "refund"
	ActionTypeCoupon    ActionType = "coupon"
	ActionTypeAdminGift ActionType = "admin_gift"
	ActionTypeAdminSet  ActionType = "admin_set"
)

// DefaultCreditCost is charged for any action key that has no pricing row.
const DefaultCreditCost = 10

// UserCredits is the per-user balance record. It is created lazily on the
// first credit; an absent record means "no credits yet" and is not an error.
type UserCredits struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Balance     int32     `json:"balance"`
	TotalEarned int32     `json:"total_earned"`
	TotalSpent  int32     `json:"total_spent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreditTransaction is one row of the append-only ledger. Amount is negative
// for deductions and positive for credits and refunds.
type CreditTransaction struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Amount      int32      `json:"amount"`
	ActionType  ActionType `json:"action_type"`
	Description string     `json:"description"`
	ReferenceID *string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreditSetting maps an action key to its credit cost. Mutated by admins only.
type CreditSetting struct {
	ID          string    `json:"id"`
	ActionKey   string    `json:"action_key"`
	CreditCost  int32     `json:"credit_cost"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreditCheck is the result of a balance-versus-cost check.
type CreditCheck struct {
	Sufficient bool  `json:"sufficient"`
	Balance    int32 `json:"balance"`
	Cost       int32 `json:"cost"`
}
