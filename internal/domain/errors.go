package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// StorageFault wraps any failure surfaced by the storage gateway:
// connectivity loss, constraint violation, scan errors.
type StorageFault struct {
	Op  string
	Err error
}

func (f *StorageFault) Error() string { return fmt.Sprintf("storage %s: %v", f.Op, f.Err) }
func (f *StorageFault) Unwrap() error { return f.Err }

// IsStorageFault reports whether err came from the storage gateway.
func IsStorageFault(err error) bool {
	var f *StorageFault
	return errors.As(err, &f)
}

// ValidationError describes malformed operator input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Denied wraps ErrPermissionDenied with the operation that was refused.
func Denied(op string) error { return fmt.Errorf("%w: %s", ErrPermissionDenied, op) }
