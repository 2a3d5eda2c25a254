package repositories

import "growthledger/internal/models"

// LedgerRepository defines the interface for ledger data access.
type LedgerRepository interface {
	// Insert attempts to persist one new ledger entry as a single atomic
	// write. There is deliberately no "exists" check: if the external
	// event key has already been recorded, the storage uniqueness
	// constraint rejects the insert and Insert returns ErrDuplicateEvent.
	Insert(entry *models.LedgerEntry) error
	// SumDeltaByUser returns the sum of all deltas recorded for a user,
	// 0 if the user has no entries.
	SumDeltaByUser(userID uint) (int, error)
}
