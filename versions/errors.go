package versions

import (
	"errors"
	"fmt"
)

// Error taxonomy for the version workflows. The HTTP layer maps these
// onto status codes; ErrUnauthorized is deliberately reported to
// clients as a not-found so project existence is never confirmed to
// callers without access.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")

	// ErrDuplicateFile blocks the whole creation request: no partial
	// uploads.
	ErrDuplicateFile = fmt.Errorf("%w: an identical file already exists on this project", ErrConflict)
)
