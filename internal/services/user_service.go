package services

import (
	"errors"
	"fmt"
	"strings"

	"growthledger/internal/models"
	"growthledger/internal/repositories"
)

// UserService handles business logic for the user directory: mapping an
// external identity (email) to an internal user id.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// The uniqueness constraint is on the stored value, so this must be applied
// identically on every read and write path.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail looks up a user by email, normalizing first.
// Returns repositories.ErrUserNotFound when absent.
func (s *UserService) FindByEmail(email string) (*models.User, error) {
	return s.userRepo.GetByEmail(NormalizeEmail(email))
}

// FindOrCreate returns the user for the given email, creating one if needed.
// The returned bool reports whether a new user was created.
//
// Losing a creation race is not an error: if the insert comes back
// ErrDuplicateUser, some concurrent caller created the row between our
// lookup and our insert, so we re-fetch and return the existing user.
func (s *UserService) FindOrCreate(email string) (*models.User, bool, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, false, fmt.Errorf("email must not be empty")
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user %s: %w", normalized, err)
	}

	newUser := &models.User{Email: normalized}
	err = s.userRepo.Create(newUser)
	if err == nil {
		return newUser, true, nil
	}
	if errors.Is(err, repositories.ErrDuplicateUser) {
		existing, fetchErr := s.userRepo.GetByEmail(normalized)
		if fetchErr != nil {
			return nil, false, fmt.Errorf("failed to re-fetch user %s after duplicate create: %w", normalized, fetchErr)
		}
		return existing, false, nil
	}
	return nil, false, fmt.Errorf("failed to create user %s: %w", normalized, err)
}
