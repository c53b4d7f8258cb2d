package http

import (
	"net/http"

	"awn-backend/internal/service"
)

type GenerationHandler struct {
	generation service.GenerationService
}

func NewGenerationHandler(generation service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

type generateRequest struct {
	DocumentID string `json:"document_id"`
	Scope      string `json:"scope"`
	Title      string `json:"title"`
}

type summaryResponse struct {
	SummaryID string  `json:"summary_id,omitempty"`
	Text      string  `json:"text"`
	SaveError *string `json:"save_error,omitempty"`
}

type quizResponse struct {
	QuizID    string      `json:"quiz_id,omitempty"`
	Questions interface{} `json:"questions"`
	SaveError *string     `json:"save_error,omitempty"`
}

func (h *GenerationHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	result, err := h.generation.GenerateSummary(r.Context(), claims.UserID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := summaryResponse{SummaryID: result.SummaryID, Text: result.Text}
	if result.SaveError != nil {
		msg := "generated successfully, but saving failed"
		resp.SaveError = &msg
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *GenerationHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	result, err := h.generation.GenerateQuiz(r.Context(), claims.UserID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := quizResponse{QuizID: result.QuizID, Questions: result.Questions}
	if result.SaveError != nil {
		msg := "generated successfully, but saving failed"
		resp.SaveError = &msg
	}
	respondJSON(w, http.StatusOK, resp)
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (service.GenerateRequest, bool) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return service.GenerateRequest{}, false
	}
	if req.DocumentID == "" {
		respondError(w, http.StatusBadRequest, "document_id is required")
		return service.GenerateRequest{}, false
	}
	return service.GenerateRequest{
		DocumentID: req.DocumentID,
		Scope:      req.Scope,
		Title:      req.Title,
	}, true
}
