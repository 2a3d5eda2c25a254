package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"growthledger/internal/models"
)

// GORMLedgerRepository is a GORM implementation of LedgerRepository.
type GORMLedgerRepository struct {
	db *gorm.DB
}

var _ LedgerRepository = (*GORMLedgerRepository)(nil)

// NewGORMLedgerRepository creates a new instance of GORMLedgerRepository.
func NewGORMLedgerRepository(db *gorm.DB) *GORMLedgerRepository {
	return &GORMLedgerRepository{
		db: db,
	}
}

// Insert writes one ledger entry. A unique violation on the external event
// key index means a concurrent or earlier delivery of the same event won the
// race; that outcome is reported as ErrDuplicateEvent, everything else is a
// storage failure.
func (r *GORMLedgerRepository) Insert(entry *models.LedgerEntry) error {
	if err := r.db.Omit("User").Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// SumDeltaByUser folds all recorded deltas for the user into a total.
func (r *GORMLedgerRepository) SumDeltaByUser(userID uint) (int, error) {
	var total int64
	err := r.db.Model(&models.LedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum deltas for user %d: %w", userID, err)
	}
	return int(total), nil
}
