// Package apperr defines the error taxonomy shared across the application.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an unknown Pokémon id, name, or type.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports a malformed configuration value.
	ErrInvalidInput = errors.New("invalid input")
)

// UnavailableError reports that every artwork source location for a
// Pokémon was tried and none produced a usable image.
type UnavailableError struct {
	ID       int
	Attempts int
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("artwork for pokemon %d unavailable after %d attempts", e.ID, e.Attempts)
}

// TransformError reports an unexpected failure inside the line-art
// pipeline, such as corrupt image bytes.
type TransformError struct {
	ID  int
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform pokemon %d: %v", e.ID, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
