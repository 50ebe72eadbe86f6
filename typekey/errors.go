package typekey

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrInvalidKey is returned when a raw identifier fails key validation.
	ErrInvalidKey = errors.New("invalid type key")

	// ErrDuplicateKey is returned when a key is registered twice in one set.
	ErrDuplicateKey = errors.New("duplicate type key")
)

// DuplicateKeyError indicates a repeat registration of the same key.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate type key: %s", e.Key.String())
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, typekey.ErrDuplicateKey)
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}
