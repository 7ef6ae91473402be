package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate value")
	// ErrForbidden indicates the caller lacks the required privilege.
	ErrForbidden = errors.New("forbidden")
	// ErrTenantMismatch occurs when an operation crosses tenant boundaries.
	ErrTenantMismatch = errors.New("tenant mismatch")
)
