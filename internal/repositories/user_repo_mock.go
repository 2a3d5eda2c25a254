package repositories

import (
	"sync"
	"time"

	"growthledger/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// It honors the same sentinel-error contract as the GORM implementation,
// including uniqueness on email, so services behave identically against it.
type MockUserRepository struct {
	mu      sync.Mutex
	byID    map[uint]*models.User
	byEmail map[string]*models.User
	nextID  uint
}

var _ UserRepository = (*MockUserRepository)(nil)

// NewMockUserRepository creates a new empty MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		byID:    make(map[uint]*models.User),
		byEmail: make(map[string]*models.User),
		nextID:  1,
	}
}

// Create adds a user, assigning the next ID. Returns ErrDuplicateUser if the
// email is already present.
func (m *MockUserRepository) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return ErrDuplicateUser
	}
	user.ID = m.nextID
	m.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	stored := *user
	m.byID[user.ID] = &stored
	m.byEmail[user.Email] = &stored
	return nil
}

// GetByEmail retrieves a user by email.
func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *user
	return &found, nil
}

// GetByID retrieves a user by ID.
func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *user
	return &found, nil
}
