package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/capstack-dev/capstack-sdk/schema"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrAlreadyFrozen is returned on mutation after a successful freeze.
	ErrAlreadyFrozen = errors.New("registry is already frozen")

	// ErrNotFrozen is returned on lookup before a successful freeze.
	ErrNotFrozen = errors.New("registry is not frozen yet")

	// ErrDuplicateTypeKey is returned when a type key is registered twice.
	ErrDuplicateTypeKey = errors.New("duplicate type key")

	// ErrUnknownTypeKey is returned when looking up an unregistered key.
	ErrUnknownTypeKey = errors.New("unknown type key")

	// ErrUnknownSlot is returned when a binding or lookup names a slot
	// the schema never declared.
	ErrUnknownSlot = errors.New("unknown capability slot")

	// ErrSlotNotBound is returned when looking up a declared slot the
	// type never bound. Only optional slots can be unbound after freeze.
	ErrSlotNotBound = errors.New("capability slot is not bound")

	// ErrInvalidBinding is returned for a malformed BindingSpec.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrIncomplete is returned when freeze-time completeness validation
	// finds violations.
	ErrIncomplete = errors.New("registry completeness validation failed")
)

// UnknownTypeKeyError indicates a lookup against an unregistered type key.
type UnknownTypeKeyError struct {
	Key typekey.Key
}

func (e *UnknownTypeKeyError) Error() string {
	return fmt.Sprintf("unknown type key: %s", e.Key.String())
}

// Is implements error matching for errors.Is() checks.
func (e *UnknownTypeKeyError) Is(target error) bool {
	return target == ErrUnknownTypeKey
}

// UnknownSlotError indicates a binding or lookup against an undeclared slot.
type UnknownSlotError struct {
	Key  typekey.Key
	Slot string
}

func (e *UnknownSlotError) Error() string {
	if e.Key.IsEmpty() {
		return fmt.Sprintf("unknown capability slot: %s", e.Slot)
	}
	return fmt.Sprintf("unknown capability slot %q for type %q", e.Slot, e.Key.String())
}

// Is implements error matching for errors.Is() checks.
func (e *UnknownSlotError) Is(target error) bool {
	return target == ErrUnknownSlot
}

// SlotNotBoundError indicates a lookup of a declared slot the type never
// bound.
type SlotNotBoundError struct {
	Key  typekey.Key
	Slot string
}

func (e *SlotNotBoundError) Error() string {
	return fmt.Sprintf("slot %q is not bound for type %q", e.Slot, e.Key.String())
}

// Is implements error matching for errors.Is() checks.
func (e *SlotNotBoundError) Is(target error) bool {
	return target == ErrSlotNotBound
}

// CompletenessError aggregates every (type key, slot) violation found
// during freeze. The registry stays in the building state so callers can
// fix registrations and freeze again.
type CompletenessError struct {
	Violations []schema.Violation
}

func (e *CompletenessError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "registry completeness validation failed with %d violation(s):", len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n  - ")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Is implements error matching for errors.Is() checks.
func (e *CompletenessError) Is(target error) bool {
	return target == ErrIncomplete
}
