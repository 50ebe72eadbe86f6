package capstack

import (
	"errors"
	"fmt"

	"github.com/capstack-dev/capstack-sdk/typekey"
)

// ErrInvariant is returned when a frozen registry violates a guarantee
// that freeze-time validation should have established. It indicates an
// internal fault, not recoverable caller input.
var ErrInvariant = errors.New("registry invariant violated")

// InvariantError indicates a required slot missing from a frozen type.
type InvariantError struct {
	Cause error
	Key   typekey.Key
	Slot  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf(
		"internal: required slot %q missing for frozen type %q: %v",
		e.Slot, e.Key.String(), e.Cause,
	)
}

// Unwrap returns the underlying lookup error.
func (e *InvariantError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, capstack.ErrInvariant)
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}
