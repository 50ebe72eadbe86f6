package capstack

import (
	"errors"

	"github.com/capstack-dev/capstack-sdk/descriptor"
	"github.com/capstack-dev/capstack-sdk/schema"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

// ResolveFunc resolves one (type key, slot) pair to a capability value.
type ResolveFunc func(key typekey.Key, slot string) (interface{}, error)

// Dispatcher is the sole façade business code uses to request
// "capability X of type Y". Lookup errors for unknown type keys are typed
// and recoverable: corrupted or legacy input data must never crash the
// process, the calling collaborator decides the response.
type Dispatcher struct {
	schema   *schema.Schema
	registry *descriptor.Registry
	resolve  ResolveFunc
}

func newDispatcher(sch *schema.Schema, reg *descriptor.Registry, mw []Middleware) *Dispatcher {
	resolve := ResolveFunc(reg.Lookup)
	// First registered middleware wraps first (onion model).
	for i := len(mw) - 1; i >= 0; i-- {
		resolve = mw[i](resolve)
	}
	return &Dispatcher{
		schema:   sch,
		registry: reg,
		resolve:  resolve,
	}
}

// Resolve returns the capability bound to one slot of one type.
// An unbound required slot signals registry corruption (freeze validates
// completeness) and surfaces as an InvariantError; an unbound optional
// slot surfaces as ErrSlotNotBound for callers that want to distinguish
// absence themselves.
func (d *Dispatcher) Resolve(key, slot string) (interface{}, error) {
	k, err := typekey.New(key)
	if err != nil {
		return nil, err
	}

	v, err := d.resolve(k, slot)
	if err != nil && errors.Is(err, descriptor.ErrSlotNotBound) {
		if s, ok := d.schema.Slot(slot); ok && s.Required() {
			return nil, &InvariantError{Key: k, Slot: slot, Cause: err}
		}
	}
	return v, err
}

// ResolveDefault behaves like Resolve but returns fallback when the slot
// is declared optional and the type never bound it.
func (d *Dispatcher) ResolveDefault(key, slot string, fallback interface{}) (interface{}, error) {
	k, err := typekey.New(key)
	if err != nil {
		return nil, err
	}

	v, err := d.resolve(k, slot)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, descriptor.ErrSlotNotBound) {
		if s, ok := d.schema.Slot(slot); ok && !s.Required() {
			return fallback, nil
		}
		return nil, &InvariantError{Key: k, Slot: slot, Cause: err}
	}
	return nil, err
}

// ResolveAll materializes the full capability bundle for one type,
// useful when a collaborator wants one consolidated value object rather
// than per-slot calls.
func (d *Dispatcher) ResolveAll(key string) (map[string]interface{}, error) {
	k, err := typekey.New(key)
	if err != nil {
		return nil, err
	}
	return d.registry.LookupAll(k)
}
