package services

import (
	"errors"
	"fmt"

	"growthledger/internal/models"
	"growthledger/internal/repositories"
)

// LedgerService durably and idempotently records point-earning events and
// computes totals. All dedup logic is resolved here: callers only ever see
// applied-with-total, deduplicated-with-total, user-not-found, or a hard
// storage failure.
type LedgerService struct {
	ledgerRepo repositories.LedgerRepository
	userRepo   repositories.UserRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo repositories.LedgerRepository, userRepo repositories.UserRepository) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
	}
}

// ApplyEvent records a point delta for a user exactly once per external
// event key. Calling it N times with the same key, under any interleaving,
// yields exactly one persisted entry and a total reflecting one application
// of delta.
//
// There is no existence check before the insert; that window is exactly
// where concurrent retries would double-apply. Correctness rests on the
// unique index over the external event key, surfaced by the repository as
// ErrDuplicateEvent and reported here as a successful no-op.
func (s *LedgerService) ApplyEvent(userID uint, delta int, reason, source, externalEventKey string, rawPayload []byte) (*models.ApplyResult, error) {
	if delta == 0 {
		return nil, fmt.Errorf("delta must be non-zero")
	}
	if externalEventKey == "" {
		return nil, fmt.Errorf("external event key must not be empty")
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, repositories.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}

	entry := &models.LedgerEntry{
		UserID:           userID,
		Delta:            delta,
		Reason:           reason,
		Source:           source,
		ExternalEventKey: externalEventKey,
		RawPayload:       rawPayload,
	}

	applied := true
	if err := s.ledgerRepo.Insert(entry); err != nil {
		if !errors.Is(err, repositories.ErrDuplicateEvent) {
			return nil, fmt.Errorf("failed to apply event %s: %w", externalEventKey, err)
		}
		applied = false
	}

	total, err := s.ledgerRepo.SumDeltaByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute total for user %d: %w", userID, err)
	}

	return &models.ApplyResult{Applied: applied, Total: total}, nil
}

// GetTotal returns the sum of all deltas recorded for the user, 0 for an
// existing user with no entries, ErrUserNotFound otherwise.
func (s *LedgerService) GetTotal(userID uint) (int, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return 0, repositories.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}
	return s.ledgerRepo.SumDeltaByUser(userID)
}
