package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("user is not authenticated")
	ErrForbidden       = errors.New("caller lacks the required role")
	ErrNotFound        = errors.New("record not found")
	ErrNotRefundable   = errors.New("transaction cannot be refunded")
	ErrEngineFailure   = errors.New("generation engine failed")

	// Coupon validation reasons. Kept distinct for logging and the attempt
	// log; the HTTP layer collapses them into one client-facing message so a
	// guesser cannot tell which gate rejected the code.
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is inactive")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrTooManyAttempts = errors.New("too many redemption attempts")

	ErrCouponCodeExists = errors.New("coupon code already exists")
)

// IsCouponInvalid reports whether err is any of the coupon validation
// failures.
func IsCouponInvalid(err error) bool {
	return errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrCouponInactive) ||
		errors.Is(err, ErrCouponExpired) ||
		errors.Is(err, ErrCouponExhausted)
}

// InsufficientCreditsError carries the user's balance and the required cost
// so the client can render a precise message.
type InsufficientCreditsError struct {
	Balance int32
	Cost    int32
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: balance %d, cost %d", e.Balance, e.Cost)
}

// PersistenceError marks a store write that failed after the generation
// engine already succeeded. The orchestrator returns the generated content
// alongside it so the work is not lost.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
