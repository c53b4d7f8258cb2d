package service

import (
	"context"
	"errors"
	"fmt"

	"awn-backend/internal/domain"
	"awn-backend/internal/logger"
	"awn-backend/internal/repository"
)

const transactionHistoryLimit = 50

type creditService struct {
	creditRepo  repository.CreditRepository
	settingRepo repository.CreditSettingRepository
}

func NewCreditService(creditRepo repository.CreditRepository, settingRepo repository.CreditSettingRepository) CreditService {
	return &creditService{creditRepo: creditRepo, settingRepo: settingRepo}
}

// GetCredits returns (nil, nil) for a user with no balance record. An absent
// record means "no credits yet", distinct from a zero balance, and is not an
// error.
func (s *creditService) GetCredits(ctx context.Context, userID string) (*domain.UserCredits, error) {
	credits, err := s.creditRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return credits, nil
}

// GetCost falls back to the default cost when no pricing row exists or the
// lookup fails. Pricing lookup must never block a generation on its own.
func (s *creditService) GetCost(ctx context.Context, actionKey string) int32 {
	cost, err := s.settingRepo.GetCost(ctx, actionKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Pricing lookup failed, using default cost", "action_key", actionKey, "error", err)
		}
		return domain.DefaultCreditCost
	}
	return cost
}

func (s *creditService) HasEnoughCredits(ctx context.Context, userID, actionKey string) (*domain.CreditCheck, error) {
	cost := s.GetCost(ctx, actionKey)

	credits, err := s.GetCredits(ctx, userID)
	if err != nil {
		return nil, err
	}

	var balance int32
	if credits != nil {
		balance = credits.Balance
	}
	return &domain.CreditCheck{
		Sufficient: balance >= cost,
		Balance:    balance,
		Cost:       cost,
	}, nil
}

func (s *creditService) Deduct(ctx context.Context, userID, actionKey string, referenceID *string) (*domain.CreditTransaction, error) {
	cost := s.GetCost(ctx, actionKey)
	description := fmt.Sprintf("Spent %d credits on %s", cost, actionKey)

	tx, err := s.creditRepo.Deduct(ctx, userID, cost, domain.ActionType(actionKey), description, referenceID)
	if err != nil {
		var insufficient *domain.InsufficientCreditsError
		if errors.As(err, &insufficient) {
			return nil, err
		}
		return nil, fmt.Errorf("deduct credits: %w", err)
	}

	logger.Info("Credits deducted", "user_id", userID, "action", actionKey, "cost", cost, "transaction_id", tx.ID)
	return tx, nil
}

func (s *creditService) Refund(ctx context.Context, userID, transactionID string) error {
	description := "Refund for a failed operation"
	tx, err := s.creditRepo.Refund(ctx, userID, transactionID, description)
	if err != nil {
		return err
	}
	logger.Info("Credits refunded", "user_id", userID, "amount", tx.Amount, "original_transaction_id", transactionID)
	return nil
}

func (s *creditService) Add(ctx context.Context, userID string, amount int32, actionType domain.ActionType, description string, referenceID *string) (int32, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	newBalance, err := s.creditRepo.Add(ctx, userID, amount, actionType, description, referenceID)
	if err != nil {
		return 0, fmt.Errorf("add credits: %w", err)
	}
	logger.Info("Credits added", "user_id", userID, "amount", amount, "action", actionType, "new_balance", newBalance)
	return newBalance, nil
}

func (s *creditService) ListTransactions(ctx context.Context, userID string) ([]domain.CreditTransaction, error) {
	return s.creditRepo.ListTransactions(ctx, userID, transactionHistoryLimit)
}
