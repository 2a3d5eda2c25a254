package repositories

import "growthledger/internal/models"

// UserRepository defines the interface for user data access.
// Emails passed in are expected to be normalized already.
type UserRepository interface {
	// Create persists a new user. Returns ErrDuplicateUser if the email
	// is already taken.
	Create(user *models.User) error
	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(email string) (*models.User, error)
	// GetByID returns the user with the given id, or ErrUserNotFound.
	GetByID(id uint) (*models.User, error)
}
