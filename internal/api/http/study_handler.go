package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"awn-backend/internal/domain"
	"awn-backend/internal/service"
)

type StudyHandler struct {
	summaries service.SummaryService
	quizzes   service.QuizService
}

func NewStudyHandler(summaries service.SummaryService, quizzes service.QuizService) *StudyHandler {
	return &StudyHandler{summaries: summaries, quizzes: quizzes}
}

func (h *StudyHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	summaries, err := h.summaries.ListSummaries(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if summaries == nil {
		summaries = []domain.Summary{}
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *StudyHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	summary, err := h.summaries.GetSummary(r.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *StudyHandler) DeleteSummary(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	if err := h.summaries.DeleteSummary(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *StudyHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	quizzes, err := h.quizzes.ListQuizzes(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	respondJSON(w, http.StatusOK, quizzes)
}

type quizDetailResponse struct {
	Quiz      *domain.Quiz          `json:"quiz"`
	Questions []domain.QuizQuestion `json:"questions"`
}

func (h *StudyHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	quiz, questions, err := h.quizzes.GetQuiz(r.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quizDetailResponse{Quiz: quiz, Questions: questions})
}

type attemptRequest struct {
	Score          int32 `json:"score"`
	TotalQuestions int32 `json:"total_questions"`
}

func (h *StudyHandler) SaveQuizAttempt(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	var req attemptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TotalQuestions <= 0 || req.Score < 0 || req.Score > req.TotalQuestions {
		respondError(w, http.StatusBadRequest, "invalid score")
		return
	}

	attempt, err := h.quizzes.SaveAttempt(r.Context(), claims.UserID, id, req.Score, req.TotalQuestions)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, attempt)
}

func (h *StudyHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	if err := h.quizzes.DeleteQuiz(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
