// Package capstack is a type capability registry: it associates a closed,
// enumerated set of domain type keys with bundles of polymorphic
// capabilities (permitted-field lists, serializers, strategy objects)
// without load-order coupling between the type table and the concrete
// implementations.
//
// Collaborators declare slots, register types and provider factories
// during a build phase, then freeze the registry once. Freezing validates
// completeness across every registered type and reports every violation
// in one aggregate error. After a successful freeze, business code
// resolves capabilities through the Dispatcher; direct values are served
// immediately and lazy references are materialized through the provider
// registry exactly once per key.
package capstack

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/capstack-dev/capstack-sdk/descriptor"
	"github.com/capstack-dev/capstack-sdk/provider"
	"github.com/capstack-dev/capstack-sdk/schema"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

// Registry bundles the capability schema, the provider registry, and the
// type descriptor registry behind one build-then-freeze façade.
type Registry struct {
	logger      *log.Logger
	schema      *schema.Schema
	providers   *provider.Registry
	descriptors *descriptor.Registry
	middleware  []Middleware
	dispatcher  *Dispatcher
}

// Option defines a functional option for configuring the Registry.
type Option func(*Registry)

// WithLogger configures structured logging for registration and freeze
// events. The default logger discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMiddleware appends resolution middleware to the dispatcher chain.
// Middleware executes in FIFO order (first registered wraps first).
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Registry) {
		r.middleware = append(r.middleware, mw...)
	}
}

// New creates a registry in the building state.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:    log.New(io.Discard),
		schema:    schema.New(),
		providers: provider.NewRegistry(),
	}
	r.descriptors = descriptor.NewRegistry(r.schema, r.providers)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DeclareSlot declares a capability slot in the schema.
func (r *Registry) DeclareSlot(name string, required bool, kind schema.SlotKind, opts ...schema.SlotOption) error {
	if err := r.schema.DeclareSlot(name, required, kind, opts...); err != nil {
		return err
	}
	r.logger.Debug("declared capability slot", "slot", name, "kind", kind.String(), "required", required)
	return nil
}

// RegisterType registers the capability bindings for one type key.
// Valid only before Freeze.
func (r *Registry) RegisterType(key string, bindings map[string]descriptor.BindingSpec) error {
	k, err := typekey.New(key)
	if err != nil {
		return err
	}
	if err := r.descriptors.RegisterType(k, bindings); err != nil {
		return err
	}
	r.logger.Debug("registered type", "key", key, "bindings", len(bindings))
	return nil
}

// RegisterProvider registers an unversioned capability provider factory
// under a stable key, independently of any type registration.
func (r *Registry) RegisterProvider(key string, factory provider.Factory) error {
	if err := r.providers.Register(key, factory); err != nil {
		return err
	}
	r.logger.Debug("registered provider", "key", key)
	return nil
}

// RegisterProviderVersion registers a provider factory at a specific
// semantic version.
func (r *Registry) RegisterProviderVersion(key, version string, factory provider.Factory) error {
	if err := r.providers.RegisterVersion(key, version, factory); err != nil {
		return err
	}
	r.logger.Debug("registered provider", "key", key, "version", version)
	return nil
}

// Freeze validates completeness and transitions the registry into the
// read-only serving state. On failure the registry stays in the building
// state and the returned error aggregates every (type, slot) violation;
// callers may fix registrations and call Freeze again. A registry that
// fails to freeze must never serve lookups.
func (r *Registry) Freeze() error {
	if err := r.descriptors.Freeze(); err != nil {
		r.logger.Error("registry freeze failed", "err", err)
		return err
	}

	r.providers.Seal()
	r.dispatcher = newDispatcher(r.schema, r.descriptors, r.middleware)

	r.logger.Info("registry frozen",
		"types", len(r.descriptors.Keys()),
		"slots", len(r.schema.Slots()),
		"providers", len(r.providers.Keys()),
	)
	return nil
}

// Dispatcher returns the resolution façade. It is the only surface
// business code should touch; provider keys and binding representations
// stay internal to the registry packages.
// Returns ErrNotFrozen before a successful Freeze.
func (r *Registry) Dispatcher() (*Dispatcher, error) {
	if r.dispatcher == nil {
		return nil, descriptor.ErrNotFrozen
	}
	return r.dispatcher, nil
}

// Descriptors exposes the frozen descriptor registry for diagnostics
// collaborators such as snapshot capture.
func (r *Registry) Descriptors() *descriptor.Registry {
	return r.descriptors
}
