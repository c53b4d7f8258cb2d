package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"awn-backend/internal/domain"
	"awn-backend/internal/service"
)

type AdminHandler struct {
	admin service.AdminService
}

func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListCreditSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.admin.ListCreditSettings(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if settings == nil {
		settings = []domain.CreditSetting{}
	}
	respondJSON(w, http.StatusOK, settings)
}

type updateSettingRequest struct {
	Cost int32 `json:"cost"`
}

func (h *AdminHandler) UpdateCreditSetting(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	actionKey := mux.Vars(r)["action_key"]

	var req updateSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Cost < 0 {
		respondError(w, http.StatusBadRequest, "cost cannot be negative")
		return
	}

	if err := h.admin.UpdateCreditSetting(r.Context(), claims.UserID, actionKey, req.Cost); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *AdminHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.admin.ListCoupons(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	respondJSON(w, http.StatusOK, coupons)
}

type createCouponRequest struct {
	Code         string     `json:"code"`
	CreditAmount int32      `json:"credit_amount"`
	MaxUses      int32      `json:"max_uses"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (h *AdminHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req createCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coupon, err := h.admin.CreateCoupon(r.Context(), claims.UserID, req.Code, req.CreditAmount, req.MaxUses, req.ExpiresAt)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, coupon)
}

type bulkCouponRequest struct {
	Count        int   `json:"count"`
	CreditAmount int32 `json:"credit_amount"`
	MaxUses      int32 `json:"max_uses"`
}

func (h *AdminHandler) CreateBulkCoupons(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req bulkCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	codes, err := h.admin.CreateBulkCoupons(r.Context(), claims.UserID, req.Count, req.CreditAmount, req.MaxUses)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string][]string{"codes": codes})
}

type setCouponActiveRequest struct {
	Active bool `json:"active"`
}

func (h *AdminHandler) SetCouponActive(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	var req setCouponActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.admin.SetCouponActive(r.Context(), claims.UserID, id, req.Active); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

type adjustCreditsRequest struct {
	Amount int32 `json:"amount"`
}

func (h *AdminHandler) GiftCredits(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	userID := mux.Vars(r)["user_id"]

	var req adjustCreditsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := h.admin.GiftCredits(r.Context(), claims.UserID, userID, req.Amount); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"gifted": true})
}

func (h *AdminHandler) SetCredits(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	userID := mux.Vars(r)["user_id"]

	var req adjustCreditsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "balance cannot be negative")
		return
	}

	if err := h.admin.SetCredits(r.Context(), claims.UserID, userID, req.Amount); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}
