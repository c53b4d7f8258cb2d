// Package engine wraps the external generation engine (Google Gemini) behind
// a small interface so the orchestrator and tests never touch the wire
// format.
package engine

import (
	"context"

	"awn-backend/internal/domain"
)

// Document is the source material sent alongside a prompt.
type Document struct {
	Data     []byte
	MimeType string
}

// Engine is the generation engine collaborator: slow, external, and allowed
// to fail. Callers must treat every error as refundable work.
type Engine interface {
	// GenerateText returns free-form text (the summary path).
	GenerateText(ctx context.Context, prompt string, doc Document) (string, error)
	// GenerateQuiz returns structured questions (the quiz path). The shape
	// is schema-constrained at the engine and validated again by the caller.
	GenerateQuiz(ctx context.Context, prompt string, doc Document) ([]domain.QuizQuestion, error)
}
