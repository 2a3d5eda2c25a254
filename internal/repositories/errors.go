package repositories

import "errors"

// Sentinel errors shared by every repository implementation. Services and
// handlers branch on these with errors.Is and never see driver-level errors.
var (
	// ErrUserNotFound is returned when a lookup references a user that
	// does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned by UserRepository.Create when the email
	// is already taken. The find-or-create path recovers from it locally.
	ErrDuplicateUser = errors.New("user with this email already exists")

	// ErrDuplicateEvent is returned by LedgerRepository.Insert when an
	// entry with the same external event key already exists. It is the
	// dedup outcome, not a failure.
	ErrDuplicateEvent = errors.New("ledger entry with this external event key already exists")
)
