package domain

import "time"

// ActivityLog is an append-only audit row for admin and system actions.
type ActivityLog struct {
	ID          string            `json:"id"`
	UserID      *string           `json:"user_id,omitempty"`
	ActionType  string            `json:"action_type"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
