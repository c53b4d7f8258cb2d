package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"awn-backend/internal/security"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Credits    *CreditHandler
	Generation *GenerationHandler
	Study      *StudyHandler
	Documents  *DocumentHandler
	Admin      *AdminHandler
}

// NewRouter wires all routes under /api/v1. Everything except the health
// check requires a valid token; the /admin subtree additionally requires the
// admin role.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/credits", h.Credits.GetBalance).Methods("GET")
	api.HandleFunc("/credits/check", h.Credits.CheckCredits).Methods("GET")
	api.HandleFunc("/credits/deduct", h.Credits.DeductCredits).Methods("POST")
	api.HandleFunc("/credits/refund", h.Credits.RefundCredits).Methods("POST")
	api.HandleFunc("/credits/transactions", h.Credits.ListTransactions).Methods("GET")
	api.HandleFunc("/coupons/redeem", h.Credits.RedeemCoupon).Methods("POST")

	api.HandleFunc("/generate/summary", h.Generation.GenerateSummary).Methods("POST")
	api.HandleFunc("/generate/quiz", h.Generation.GenerateQuiz).Methods("POST")

	api.HandleFunc("/summaries", h.Study.ListSummaries).Methods("GET")
	api.HandleFunc("/summaries/{id}", h.Study.GetSummary).Methods("GET")
	api.HandleFunc("/summaries/{id}", h.Study.DeleteSummary).Methods("DELETE")

	api.HandleFunc("/quizzes", h.Study.ListQuizzes).Methods("GET")
	api.HandleFunc("/quizzes/{id}", h.Study.GetQuiz).Methods("GET")
	api.HandleFunc("/quizzes/{id}", h.Study.DeleteQuiz).Methods("DELETE")
	api.HandleFunc("/quizzes/{id}/attempts", h.Study.SaveQuizAttempt).Methods("POST")

	api.HandleFunc("/documents", h.Documents.Upload).Methods("POST")
	api.HandleFunc("/documents", h.Documents.List).Methods("GET")
	api.HandleFunc("/documents/{id}", h.Documents.Get).Methods("GET")
	api.HandleFunc("/documents/{id}", h.Documents.Delete).Methods("DELETE")
	api.HandleFunc("/documents/{id}/download", h.Documents.Download).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin)

	admin.HandleFunc("/credit-settings", h.Admin.ListCreditSettings).Methods("GET")
	admin.HandleFunc("/credit-settings/{action_key}", h.Admin.UpdateCreditSetting).Methods("PUT")

	admin.HandleFunc("/coupons", h.Admin.ListCoupons).Methods("GET")
	admin.HandleFunc("/coupons", h.Admin.CreateCoupon).Methods("POST")
	admin.HandleFunc("/coupons/bulk", h.Admin.CreateBulkCoupons).Methods("POST")
	admin.HandleFunc("/coupons/{id}/active", h.Admin.SetCouponActive).Methods("PUT")

	admin.HandleFunc("/users/{user_id}/credits/gift", h.Admin.GiftCredits).Methods("POST")
	admin.HandleFunc("/users/{user_id}/credits", h.Admin.SetCredits).Methods("PUT")

	return r
}
