package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Booking engine errors
	ErrInvalidRange     = errors.New("invalid date range: check-out must be after check-in")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrDateConflict     = errors.New("selected dates overlap an existing booking")
	ErrStore            = errors.New("booking store error")
	ErrCommitInProgress = errors.New("another booking for this room is in progress")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingAlreadyExists = errors.New("booking already exists")

	// Room errors
	ErrRoomNotFound     = errors.New("room not found")
	ErrInvalidRoomQuery = errors.New("invalid room query")

	// Validation errors
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidBookingID = errors.New("invalid booking id")
	ErrInvalidRoomID    = errors.New("invalid room id")

	// Auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// StoreError reports a failed call to a backing store. The working set
// is never changed when one is returned.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a StoreError for op
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStore) match any StoreError
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidRoomQuery) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidRoomID) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrWeakPassword)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDateConflict) ||
		errors.Is(err, ErrCommitInProgress) ||
		errors.Is(err, ErrBookingAlreadyExists) ||
		errors.Is(err, ErrUserAlreadyExists)
}

// IsStoreError checks if the error came from a backing store
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStore)
}
