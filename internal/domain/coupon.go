package domain

import "time"

// Coupon is a redeemable credit code. current_uses only moves forward, and
// never past MaxUses. Coupons are deactivated, never deleted.
type Coupon struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	CreditAmount int32      `json:"credit_amount"`
	MaxUses      int32      `json:"max_uses"`
	CurrentUses  int32      `json:"current_uses"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Expired reports whether the coupon's expiry has passed at the given time.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// Exhausted reports whether the coupon reached its usage cap.
func (c *Coupon) Exhausted() bool {
	return c.CurrentUses >= c.MaxUses
}

// CouponAttempt is one row of the append-only redemption attempt log, kept
// for auditing and rate limiting.
type CouponAttempt struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AttemptedCode string    `json:"attempted_code"`
	Success       bool      `json:"success"`
	IPAddress     string    `json:"ip_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RedemptionOutcome is the terminal result of one redemption call.
type RedemptionOutcome struct {
	Success        bool   `json:"success"`
	CreditsAwarded int32  `json:"credits"`
	NewBalance     int32  `json:"new_balance"`
	Error          string `json:"error,omitempty"`
}
