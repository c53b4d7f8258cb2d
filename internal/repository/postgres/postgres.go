package postgres

import (
	"database/sql"

	"awn-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.CreditRepository
	repository.CreditSettingRepository
	repository.CouponRepository
	repository.SummaryRepository
	repository.QuizRepository
	repository.DocumentRepository
	repository.ActivityLogRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		CreditRepository:        NewCreditRepository(db),
		CreditSettingRepository: NewCreditSettingRepository(db),
		CouponRepository:        NewCouponRepository(db),
		SummaryRepository:       NewSummaryRepository(db),
		QuizRepository:          NewQuizRepository(db),
		DocumentRepository:      NewDocumentRepository(db),
		ActivityLogRepository:   NewActivityLogRepository(db),
	}
}
