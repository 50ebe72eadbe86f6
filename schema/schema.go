// Package schema declares which named capability slots exist for a
// registry, which of them are required, and what kind of value each slot
// carries. It validates a full set of bindings for one type key and
// reports every violation at once rather than stopping at the first.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/capstack-dev/capstack-sdk/typekey"
)

// SlotKind describes the shape of the value a capability slot carries.
type SlotKind int

const (
	// KindScalar is a single direct value.
	KindScalar SlotKind = iota
	// KindList is an ordered collection of direct values.
	KindList
	// KindReference is a lazy reference to a registered provider.
	KindReference
)

// String returns a human-readable representation of the SlotKind.
func (k SlotKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Slot describes one declared capability slot.
type Slot struct {
	name       string
	required   bool
	kind       SlotKind
	constraint *Constraint
}

// Name returns the slot name.
func (s Slot) Name() string {
	return s.name
}

// Required reports whether every registered type must bind this slot.
func (s Slot) Required() bool {
	return s.required
}

// Kind returns the declared value kind.
func (s Slot) Kind() SlotKind {
	return s.kind
}

// Constraint returns the optional value constraint, or nil.
func (s Slot) Constraint() *Constraint {
	return s.constraint
}

// SlotOption configures a slot declaration.
type SlotOption func(*Slot)

// WithConstraint attaches a value constraint to the slot. Direct values
// bound to the slot are checked against it during completeness validation.
func WithConstraint(c *Constraint) SlotOption {
	return func(s *Slot) {
		s.constraint = c
	}
}

// Schema holds the declared capability slots for one registry.
type Schema struct {
	slots map[string]Slot
	order []string
	mu    sync.RWMutex
}

// New creates a new, empty capability schema.
func New() *Schema {
	return &Schema{
		slots: make(map[string]Slot),
	}
}

// DeclareSlot declares a capability slot. A kind is fixed once declared:
// re-declaring an existing slot with the same kind is a no-op (the first
// declaration wins), re-declaring with a different kind returns a
// SlotKindConflictError.
func (s *Schema) DeclareSlot(name string, required bool, kind SlotKind, opts ...SlotOption) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("slot name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.slots[name]; ok {
		if existing.kind != kind {
			return &SlotKindConflictError{
				Slot:     name,
				Declared: existing.kind,
				Given:    kind,
			}
		}
		return nil
	}

	slot := Slot{
		name:     name,
		required: required,
		kind:     kind,
	}
	for _, opt := range opts {
		opt(&slot)
	}

	s.slots[name] = slot
	s.order = append(s.order, name)
	return nil
}

// Slot returns the declaration for a slot name.
func (s *Schema) Slot(name string) (Slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[name]
	return slot, ok
}

// Slots returns all declared slots in declaration order.
func (s *Schema) Slots() []Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Slot, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.slots[name])
	}
	return out
}

// Bound is the schema-facing view of one capability binding: the kind it
// was bound as, plus the direct value (when the binding is not a lazy
// reference) for constraint evaluation.
type Bound struct {
	Value    interface{}
	Kind     SlotKind
	HasValue bool
}

// Violation describes one completeness failure for a (type key, slot) pair.
type Violation struct {
	Key    typekey.Key
	Slot   string
	Reason string
}

// String returns a human-readable representation of the Violation.
func (v Violation) String() string {
	return fmt.Sprintf("type %q, slot %q: %s", v.Key.String(), v.Slot, v.Reason)
}

// Validate checks the bindings of one type key against the schema and
// returns every violation found: required slots that are not bound, bound
// slots whose kind mismatches the declaration, bound slots the schema
// never declared, and direct values that fail their slot constraint.
// It never stops at the first violation.
func (s *Schema) Validate(key typekey.Key, bound map[string]Bound) []Violation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var violations []Violation

	for _, name := range s.order {
		slot := s.slots[name]

		b, present := bound[name]
		if !present {
			if slot.required {
				violations = append(violations, Violation{
					Key:    key,
					Slot:   name,
					Reason: "required slot is not bound",
				})
			}
			continue
		}

		if b.Kind != slot.kind {
			violations = append(violations, Violation{
				Key:    key,
				Slot:   name,
				Reason: fmt.Sprintf("bound as %s, declared as %s", b.Kind, slot.kind),
			})
			continue
		}

		if slot.constraint != nil && b.HasValue {
			if err := slot.constraint.Check(b.Value); err != nil {
				violations = append(violations, Violation{
					Key:    key,
					Slot:   name,
					Reason: fmt.Sprintf("value constraint violated: %v", err),
				})
			}
		}
	}

	// Bound slots the schema never declared. Sorted so the report is
	// deterministic regardless of map iteration order.
	var undeclared []string
	for name := range bound {
		if _, ok := s.slots[name]; !ok {
			undeclared = append(undeclared, name)
		}
	}
	sort.Strings(undeclared)
	for _, name := range undeclared {
		violations = append(violations, Violation{
			Key:    key,
			Slot:   name,
			Reason: "slot is not declared in the schema",
		})
	}

	return violations
}
