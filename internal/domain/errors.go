package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned on login with an unknown email or a
	// password that does not match. Deliberately not a field-level error.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a request carries no token, an
	// unknown token, or a token whose owner no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries the full field -> messages map for a request, so
// a single response reports every failing rule.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
