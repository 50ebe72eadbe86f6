// Package descriptor assembles the type key set and the capability schema
// into per-type descriptors. A registry starts in the building state where
// collaborators register types; a successful freeze validates completeness
// across every registered type and transitions the registry into an
// immutable serving state where lookups are answered.
package descriptor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/capstack-dev/capstack-sdk/schema"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

// State is the lifecycle state of a Registry.
type State int

const (
	// StateBuilding permits registration and forbids lookups.
	StateBuilding State = iota
	// StateFrozen permits lookups and forbids registration. Terminal.
	StateFrozen
)

// String returns a human-readable representation of the State.
func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Registry owns all type descriptors for one process.
type Registry struct {
	schema      *schema.Schema
	providers   ProviderResolver
	keys        *typekey.Set
	descriptors map[string]map[string]binding
	state       State
	mu          sync.RWMutex
}

// NewRegistry creates a registry in the building state. The provider
// resolver handles lazy reference bindings after freeze.
func NewRegistry(sch *schema.Schema, providers ProviderResolver) *Registry {
	return &Registry{
		schema:      sch,
		providers:   providers,
		keys:        typekey.NewSet(),
		descriptors: make(map[string]map[string]binding),
	}
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Keys returns all registered type keys in registration order.
func (r *Registry) Keys() []typekey.Key {
	return r.keys.All()
}

// Contains reports whether the type key is registered.
func (r *Registry) Contains(key typekey.Key) bool {
	return r.keys.Contains(key)
}

// RegisterType registers the capability bindings for one type key.
// Valid only in the building state. Every bound slot must be declared in
// the schema; kind agreement between binding and declaration is deferred
// to freeze so that all mismatches surface in one aggregate report.
func (r *Registry) RegisterType(key typekey.Key, bindings map[string]BindingSpec) error {
	if key.IsEmpty() {
		return fmt.Errorf("%w: type key cannot be empty", typekey.ErrInvalidKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateFrozen {
		return fmt.Errorf("%w: cannot register type %q", ErrAlreadyFrozen, key.String())
	}
	if r.keys.Contains(key) {
		return fmt.Errorf("%w: %s", ErrDuplicateTypeKey, key.String())
	}

	// Sorted so the first reported problem is deterministic.
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	desc := make(map[string]binding, len(bindings))
	for _, name := range names {
		spec := bindings[name]

		if _, declared := r.schema.Slot(name); !declared {
			return &UnknownSlotError{Key: key, Slot: name}
		}

		kind, err := spec.kind()
		if err != nil {
			return fmt.Errorf("slot %q of type %q: %w", name, key.String(), err)
		}

		b := binding{
			value:      spec.Value,
			provider:   spec.Provider,
			constraint: spec.Constraint,
			kind:       kind,
		}
		if spec.Values != nil {
			// Defensive copy so later caller mutation cannot reach
			// registry-owned state.
			b.values = make([]interface{}, len(spec.Values))
			copy(b.values, spec.Values)
		}
		desc[name] = b
	}

	if err := r.keys.Register(key); err != nil {
		return err
	}
	r.descriptors[key.String()] = desc
	return nil
}

// Freeze validates completeness across every registered type and, on
// success, transitions the registry into the frozen serving state.
// On failure it returns a CompletenessError aggregating every
// (type key, slot) violation and leaves the registry in the building
// state so callers can fix registrations and freeze again.
func (r *Registry) Freeze() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateFrozen {
		return ErrAlreadyFrozen
	}

	var violations []schema.Violation
	for _, key := range r.keys.All() {
		desc := r.descriptors[key.String()]
		bound := make(map[string]schema.Bound, len(desc))
		for name, b := range desc {
			bound[name] = b.bound()
		}
		violations = append(violations, r.schema.Validate(key, bound)...)
	}

	if len(violations) > 0 {
		return &CompletenessError{Violations: violations}
	}

	r.state = StateFrozen
	return nil
}

// Lookup resolves the value bound to one slot of one type.
// Valid only in the frozen state. Direct bindings are returned
// immediately (lists as defensive copies); lazy bindings delegate to the
// provider resolver and inherit its memoization.
func (r *Registry) Lookup(key typekey.Key, slot string) (interface{}, error) {
	b, err := r.binding(key, slot)
	if err != nil {
		return nil, err
	}
	return r.materialize(b)
}

// LookupAll materializes the full slot-to-value bundle for one type in a
// single call. Unbound optional slots are omitted from the result.
func (r *Registry) LookupAll(key typekey.Key) (map[string]interface{}, error) {
	r.mu.RLock()
	if r.state != StateFrozen {
		r.mu.RUnlock()
		return nil, ErrNotFrozen
	}
	desc, ok := r.descriptors[key.String()]
	if !ok {
		r.mu.RUnlock()
		return nil, &UnknownTypeKeyError{Key: key}
	}
	snapshot := make(map[string]binding, len(desc))
	for name, b := range desc {
		snapshot[name] = b
	}
	r.mu.RUnlock()

	out := make(map[string]interface{}, len(snapshot))
	for name, b := range snapshot {
		v, err := r.materialize(b)
		if err != nil {
			return nil, fmt.Errorf("slot %q of type %q: %w", name, key.String(), err)
		}
		out[name] = v
	}
	return out, nil
}

// Describe reports the shape of every bound slot of one type, in schema
// declaration order, without materializing any value.
// Valid only in the frozen state.
func (r *Registry) Describe(key typekey.Key) ([]BindingInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateFrozen {
		return nil, ErrNotFrozen
	}
	desc, ok := r.descriptors[key.String()]
	if !ok {
		return nil, &UnknownTypeKeyError{Key: key}
	}

	var infos []BindingInfo
	for _, slot := range r.schema.Slots() {
		b, bound := desc[slot.Name()]
		if !bound {
			continue
		}
		infos = append(infos, BindingInfo{
			Slot:       slot.Name(),
			Kind:       b.kind,
			Provider:   b.provider,
			Constraint: b.constraint,
		})
	}
	return infos, nil
}

func (r *Registry) binding(key typekey.Key, slot string) (binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateFrozen {
		return binding{}, ErrNotFrozen
	}

	desc, ok := r.descriptors[key.String()]
	if !ok {
		return binding{}, &UnknownTypeKeyError{Key: key}
	}

	if _, declared := r.schema.Slot(slot); !declared {
		return binding{}, &UnknownSlotError{Key: key, Slot: slot}
	}

	b, bound := desc[slot]
	if !bound {
		return binding{}, &SlotNotBoundError{Key: key, Slot: slot}
	}
	return b, nil
}

// materialize runs outside the registry lock: provider factories may take
// arbitrary time on first resolution.
func (r *Registry) materialize(b binding) (interface{}, error) {
	switch b.kind {
	case schema.KindList:
		out := make([]interface{}, len(b.values))
		copy(out, b.values)
		return out, nil
	case schema.KindReference:
		return r.providers.ResolveConstraint(b.provider, b.constraint)
	default:
		return b.value, nil
	}
}
