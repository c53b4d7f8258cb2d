package domain

import "time"

// Summary is a generated study guide tied to its owner and, optionally, the
// source document.
type Summary struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID *string   `json:"document_id,omitempty"`
	Title      string    `json:"title"`
	Scope      string    `json:"scope,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Quiz is a generated multiple-choice quiz. Questions are stored separately
// and ordered by OrderIndex.
type Quiz struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID *string   `json:"document_id,omitempty"`
	Title      string    `json:"title"`
	Scope      string    `json:"scope,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuizQuestion is one question of a quiz. CorrectAnswer is a zero-based index
// into Options.
type QuizQuestion struct {
	ID            string   `json:"id,omitempty"`
	QuizID        string   `json:"quiz_id,omitempty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int32    `json:"correct_answer"`
	Justification string   `json:"justification"`
	Example       string   `json:"example"`
	OrderIndex    int32    `json:"order_index"`
}

// QuizAttempt records one play-through score.
type QuizAttempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuizID         string    `json:"quiz_id"`
	Score          int32     `json:"score"`
	TotalQuestions int32     `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Generated quiz shape expected back from the engine.
const (
	QuizQuestionCount = 10
	QuizOptionCount   = 3
)
