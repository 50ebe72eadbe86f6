package descriptor

import (
	"fmt"

	"github.com/capstack-dev/capstack-sdk/schema"
)

// BindingSpec declares how one slot of one type obtains its value.
// Exactly one of Value, Values, or Provider must be set: a scalar literal,
// a list literal, or a lazy reference to a registered provider key.
// Constraint optionally restricts a Provider reference to versions
// satisfying a semver range.
type BindingSpec struct {
	Value      interface{}
	Values     []interface{}
	Provider   string
	Constraint string
	// IsValue marks an explicit scalar binding. It distinguishes a scalar
	// whose literal is nil from an unset Value field.
	IsValue bool
}

// Scalar builds a scalar BindingSpec.
func Scalar(value interface{}) BindingSpec {
	return BindingSpec{Value: value, IsValue: true}
}

// List builds a list BindingSpec.
func List(values ...interface{}) BindingSpec {
	return BindingSpec{Values: values}
}

// Reference builds a lazy provider reference BindingSpec.
func Reference(providerKey string) BindingSpec {
	return BindingSpec{Provider: providerKey}
}

// VersionedReference builds a lazy provider reference restricted by a
// semver constraint.
func VersionedReference(providerKey, constraint string) BindingSpec {
	return BindingSpec{Provider: providerKey, Constraint: constraint}
}

// kind returns the effective SlotKind of the spec, or an error if the
// spec does not declare exactly one binding form.
func (b BindingSpec) kind() (schema.SlotKind, error) {
	set := 0
	kind := schema.KindScalar
	if b.IsValue {
		set++
	}
	if b.Values != nil {
		set++
		kind = schema.KindList
	}
	if b.Provider != "" {
		set++
		kind = schema.KindReference
	}

	if set != 1 {
		return 0, fmt.Errorf("%w: exactly one of value, values, or provider must be set", ErrInvalidBinding)
	}
	if b.Constraint != "" && b.Provider == "" {
		return 0, fmt.Errorf("%w: a version constraint requires a provider reference", ErrInvalidBinding)
	}
	return kind, nil
}

// binding is the internal, immutable form a BindingSpec freezes into.
type binding struct {
	value      interface{}
	values     []interface{}
	provider   string
	constraint string
	kind       schema.SlotKind
}

func (b binding) bound() schema.Bound {
	switch b.kind {
	case schema.KindScalar:
		return schema.Bound{Kind: b.kind, Value: b.value, HasValue: true}
	case schema.KindList:
		return schema.Bound{Kind: b.kind, Value: b.values, HasValue: true}
	default:
		return schema.Bound{Kind: b.kind}
	}
}

// BindingInfo describes the shape of one frozen binding without exposing
// its value. Used for diagnostics and registry snapshots.
type BindingInfo struct {
	Slot       string
	Kind       schema.SlotKind
	Provider   string
	Constraint string
}
