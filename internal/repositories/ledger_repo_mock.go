package repositories

import (
	"sync"
	"time"

	"growthledger/internal/models"
)

// MockLedgerRepository is an in-memory implementation of LedgerRepository.
// The byKey map stands in for the database unique index: the check and the
// insert happen under one lock, so concurrent duplicate inserts converge to
// exactly one entry just like they do against a real store.
type MockLedgerRepository struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
	byKey   map[string]struct{}
	nextID  uint
}

var _ LedgerRepository = (*MockLedgerRepository)(nil)

// NewMockLedgerRepository creates a new empty MockLedgerRepository.
func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		byKey:  make(map[string]struct{}),
		nextID: 1,
	}
}

// Insert appends an entry unless its external event key was already recorded.
func (m *MockLedgerRepository) Insert(entry *models.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byKey[entry.ExternalEventKey]; exists {
		return ErrDuplicateEvent
	}
	entry.ID = m.nextID
	m.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.byKey[entry.ExternalEventKey] = struct{}{}
	m.entries = append(m.entries, *entry)
	return nil
}

// SumDeltaByUser folds all recorded deltas for the user into a total.
func (m *MockLedgerRepository) SumDeltaByUser(userID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, e := range m.entries {
		if e.UserID == userID {
			total += e.Delta
		}
	}
	return total, nil
}

// EntryCount reports how many entries are stored, for assertions in tests.
func (m *MockLedgerRepository) EntryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
