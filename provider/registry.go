// Package provider maps stable provider keys to factories that produce
// capability values. Values are materialized at most once per key: the
// first successful resolution is cached for the registry's lifetime and
// concurrent first resolutions of the same key collapse into a single
// factory invocation. A failed factory run is never cached, so a later
// resolution retries it.
package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Factory produces one capability value. Factories must be synchronous,
// deterministic for their key, and free of externally observable side
// effects beyond the returned value.
type Factory func() (interface{}, error)

type entry struct {
	factory  Factory
	version  *semver.Version
	original string
}

// Registry manages the registration and resolution of capability providers.
type Registry struct {
	entries map[string][]entry
	cache   *gocache.Cache
	group   singleflight.Group
	sealed  bool
	mu      sync.RWMutex
}

// NewRegistry creates a new, empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string][]entry),
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

// Register adds an unversioned provider factory under a stable key.
// Returns a DuplicateProviderKeyError on repeat registration of the key.
func (r *Registry) Register(key string, factory Factory) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("provider key cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("provider factory cannot be nil for key %q", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return &SealedError{Key: key}
	}
	if len(r.entries[key]) > 0 {
		return &DuplicateProviderKeyError{Key: key}
	}

	r.entries[key] = []entry{{factory: factory}}
	return nil
}

// RegisterVersion adds a provider factory under a key at a specific
// semantic version. Multiple versions may coexist under one key; an exact
// (key, version) repeat, or mixing versioned entries with an unversioned
// one, returns a DuplicateProviderKeyError.
func (r *Registry) RegisterVersion(key, version string, factory Factory) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("provider key cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("provider factory cannot be nil for key %q", key)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid provider version %q for key %q: %w", version, key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return &SealedError{Key: key}
	}
	for _, e := range r.entries[key] {
		if e.version == nil {
			return &DuplicateProviderKeyError{Key: key}
		}
		if e.version.Equal(v) {
			return &DuplicateProviderKeyError{Key: key, Version: e.original}
		}
	}

	r.entries[key] = append(r.entries[key], entry{
		factory:  factory,
		version:  v,
		original: v.Original(),
	})
	return nil
}

// Resolve returns the capability value for a provider key, invoking the
// factory on first use and serving the cached value afterwards. For
// versioned keys the highest registered version is selected.
func (r *Registry) Resolve(key string) (interface{}, error) {
	return r.ResolveConstraint(key, "")
}

// ResolveConstraint resolves a provider key restricted to versions
// satisfying a semver constraint. An empty constraint or "latest" selects
// the highest registered version (or the sole unversioned entry).
func (r *Registry) ResolveConstraint(key, constraint string) (interface{}, error) {
	e, err := r.selectEntry(key, constraint)
	if err != nil {
		return nil, err
	}

	cacheKey := key
	if e.version != nil {
		cacheKey = key + "@" + e.original
	}

	if v, ok := r.cache.Get(cacheKey); ok {
		return v, nil
	}

	// Single-flight: concurrent first resolutions of the same key run the
	// factory exactly once and all observe the identical value. A factory
	// failure is returned to every in-flight caller but not cached.
	v, err, _ := r.group.Do(cacheKey, func() (interface{}, error) {
		if v, ok := r.cache.Get(cacheKey); ok {
			return v, nil
		}

		value, err := e.factory()
		if err != nil {
			return nil, &FactoryError{Key: key, Cause: err}
		}

		r.cache.Set(cacheKey, value, gocache.NoExpiration)
		return value, nil
	})
	return v, err
}

func (r *Registry) selectEntry(key, constraint string) (entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.entries[key]
	if !ok {
		return entry{}, &UnknownProviderKeyError{Key: key}
	}

	// Unversioned keys have exactly one entry; it satisfies only the
	// empty and "latest" constraints.
	if entries[0].version == nil {
		if constraint != "" && constraint != "latest" {
			return entry{}, &NoVersionMatchError{Key: key, Constraint: constraint}
		}
		return entries[0], nil
	}

	c, err := parseConstraint(constraint)
	if err != nil {
		return entry{}, fmt.Errorf("invalid version constraint %q for key %q: %w", constraint, key, err)
	}

	var valid []entry
	for _, e := range entries {
		if c.Check(e.version) {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		return entry{}, &NoVersionMatchError{Key: key, Constraint: constraint}
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].version.LessThan(valid[j].version)
	})
	return valid[len(valid)-1], nil
}

// parseConstraint converts a constraint string to semver constraints.
// "latest" and "" are treated as ">= 0" so they match every version.
func parseConstraint(constraint string) (*semver.Constraints, error) {
	if constraint == "" || constraint == "latest" {
		return semver.NewConstraint(">= 0")
	}
	return semver.NewConstraint(constraint)
}

// Has reports whether any factory is registered under the key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[key]) > 0
}

// Keys returns all registered provider keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Versions returns the registered versions for a key in ascending order.
// Unversioned keys return nil.
func (r *Registry) Versions(key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[key]
	if len(entries) == 0 || entries[0].version == nil {
		return nil
	}

	sorted := make([]entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].version.LessThan(sorted[j].version)
	})

	out := make([]string, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, e.original)
	}
	return out
}

// Seal closes the registry for further registration. Resolution remains
// available; registration after sealing returns a SealedError.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}
