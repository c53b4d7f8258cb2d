package postgres

import (
	"context"
	"database/sql"
	"errors"

	"awn-backend/internal/domain"
	"awn-backend/internal/repository"
)

type creditSettingRepository struct {
	db *sql.DB
}

func NewCreditSettingRepository(db *sql.DB) repository.CreditSettingRepository {
	return &creditSettingRepository{db: db}
}

func (r *creditSettingRepository) List(ctx context.Context) ([]domain.CreditSetting, error) {
	query := `SELECT id, action_key, credit_cost, COALESCE(description, ''), updated_at
	          FROM credit_settings ORDER BY action_key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.CreditSetting
	for rows.Next() {
		var s domain.CreditSetting
		if err := rows.Scan(&s.ID, &s.ActionKey, &s.CreditCost, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *creditSettingRepository) GetCost(ctx context.Context, actionKey string) (int32, error) {
	var cost int32
	query := `SELECT credit_cost FROM credit_settings WHERE action_key = $1`
	err := r.db.QueryRowContext(ctx, query, actionKey).Scan(&cost)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return cost, nil
}

func (r *creditSettingRepository) UpdateCost(ctx context.Context, actionKey string, newCost int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_settings SET credit_cost = $2, updated_at = NOW() WHERE action_key = $1`,
		actionKey, newCost)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
