package mapping

import (
	"errors"
	"fmt"

	"github.com/capstack-dev/capstack-sdk/typekey"
)

var (
	// ErrUnknownMappingKey is returned when a pair names a key absent
	// from its domain's key set.
	ErrUnknownMappingKey = errors.New("unknown mapping key")

	// ErrDuplicateSource is returned when a source key maps twice.
	ErrDuplicateSource = errors.New("duplicate mapping source key")
)

// Side identifies which domain of a mapping a key belongs to.
type Side int

const (
	SideSource Side = iota
	SideTarget
)

// String returns a human-readable representation of the Side.
func (s Side) String() string {
	switch s {
	case SideSource:
		return "source"
	case SideTarget:
		return "target"
	default:
		return "unknown"
	}
}

// UnknownMappingKeyError indicates a pair referencing an unregistered key.
type UnknownMappingKeyError struct {
	Key  typekey.Key
	Side Side
}

func (e *UnknownMappingKeyError) Error() string {
	return fmt.Sprintf("%s key %q is not registered in its domain", e.Side, e.Key.String())
}

// Is implements error matching for errors.Is() checks.
func (e *UnknownMappingKeyError) Is(target error) bool {
	return target == ErrUnknownMappingKey
}
