package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"awn-backend/internal/domain"
	"awn-backend/internal/logger"
)

// envelope is the uniform response shape: exactly one of data or error is
// set.
type envelope struct {
	Data  interface{} `json:"data"`
	Error *string     `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: &message}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// respondServiceError maps domain errors to HTTP statuses. Unrecognized
// errors become an opaque 500; internals never leak to clients.
func respondServiceError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientCreditsError
	switch {
	case errors.As(err, &insufficient):
		respondError(w, http.StatusPaymentRequired, insufficient.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrEngineFailure):
		respondError(w, http.StatusBadGateway, "generation failed, please try again")
	case errors.Is(err, domain.ErrCouponCodeExists):
		respondError(w, http.StatusConflict, "coupon code already exists")
	case errors.Is(err, domain.ErrNotRefundable):
		respondError(w, http.StatusConflict, "transaction is not refundable")
	default:
		logger.Error("Unhandled service error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
