package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"
)

type activityLogRepository struct {
	db *sql.DB
}

func NewActivityLogRepository(db *sql.DB) repository.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	var metadata any
	if len(entry.Metadata) > 0 {
		b, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		metadata = b
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO activity_logs (user_id, action_type, description, metadata)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		entry.UserID, entry.ActionType, entry.Description, metadata).
		Scan(&entry.ID, &entry.CreatedAt)
}
