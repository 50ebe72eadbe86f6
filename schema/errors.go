package schema

import (
	"errors"
	"fmt"
)

// ErrSlotKindConflict is returned when a slot is re-declared with a
// different kind than its original declaration.
var ErrSlotKindConflict = errors.New("slot kind conflict")

// SlotKindConflictError indicates a kind mismatch on slot re-declaration.
type SlotKindConflictError struct {
	Slot     string
	Declared SlotKind
	Given    SlotKind
}

func (e *SlotKindConflictError) Error() string {
	return fmt.Sprintf(
		"slot %q already declared as %s, cannot re-declare as %s",
		e.Slot, e.Declared, e.Given,
	)
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, schema.ErrSlotKindConflict)
func (e *SlotKindConflictError) Is(target error) bool {
	return target == ErrSlotKindConflict
}
