package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrEntryNotFound indicates that a time entry is absent or not owned by
	// the caller. The two cases are deliberately indistinguishable.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrNoRunningEntry indicates the user has no open entry to stop
	ErrNoRunningEntry = errors.New("no running entry")
)
