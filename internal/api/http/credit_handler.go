package http

import (
	"net/http"

	"awn-backend/internal/domain"
	"awn-backend/internal/service"
)

type CreditHandler struct {
	credits service.CreditService
	coupons service.CouponService
}

func NewCreditHandler(credits service.CreditService, coupons service.CouponService) *CreditHandler {
	return &CreditHandler{credits: credits, coupons: coupons}
}

type balanceResponse struct {
	Balance     int32 `json:"balance"`
	TotalEarned int32 `json:"total_earned"`
	TotalSpent  int32 `json:"total_spent"`
}

// GetBalance returns the caller's balance. A user with no balance record yet
// reads as all zeros.
func (h *CreditHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	credits, err := h.credits.GetCredits(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := balanceResponse{}
	if credits != nil {
		resp = balanceResponse{
			Balance:     credits.Balance,
			TotalEarned: credits.TotalEarned,
			TotalSpent:  credits.TotalSpent,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CreditHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	txns, err := h.credits.ListTransactions(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if txns == nil {
		txns = []domain.CreditTransaction{}
	}
	respondJSON(w, http.StatusOK, txns)
}

// CheckCredits reports whether the caller can afford an action without
// charging anything.
func (h *CreditHandler) CheckCredits(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	actionKey := r.URL.Query().Get("action_key")
	if actionKey == "" {
		respondError(w, http.StatusBadRequest, "action_key is required")
		return
	}

	check, err := h.credits.HasEnoughCredits(r.Context(), claims.UserID, actionKey)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, check)
}

type deductRequest struct {
	ActionKey   string  `json:"action_key"`
	ReferenceID *string `json:"reference_id"`
}

type deductResponse struct {
	TransactionID string `json:"transaction_id"`
	Amount        int32  `json:"amount"`
}

// DeductCredits charges the caller for an action. Insufficient balance maps
// to 402 through respondServiceError.
func (h *CreditHandler) DeductCredits(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req deductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ActionKey == "" {
		respondError(w, http.StatusBadRequest, "action_key is required")
		return
	}

	txn, err := h.credits.Deduct(r.Context(), claims.UserID, req.ActionKey, req.ReferenceID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deductResponse{
		TransactionID: txn.ID,
		Amount:        txn.Amount,
	})
}

type refundRequest struct {
	TransactionID string `json:"transaction_id"`
}

// RefundCredits reverses one of the caller's own spend transactions.
func (h *CreditHandler) RefundCredits(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req refundRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TransactionID == "" {
		respondError(w, http.StatusBadRequest, "transaction_id is required")
		return
	}

	if err := h.credits.Refund(r.Context(), claims.UserID, req.TransactionID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type redeemRequest struct {
	Code string `json:"code"`
}

// RedeemCoupon always answers 200 with a RedemptionOutcome; validation
// failures are outcome payloads, not HTTP errors, so the response shape and
// status reveal nothing beyond the outcome message.
func (h *CreditHandler) RedeemCoupon(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req redeemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "coupon code is required")
		return
	}

	outcome, err := h.coupons.Redeem(r.Context(), claims.UserID, req.Code, clientIP(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
