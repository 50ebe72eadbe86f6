package descriptor

// ProviderResolver resolves lazy reference bindings to capability values.
type ProviderResolver interface {
	// Resolve returns the value for a provider key, materializing it on
	// first use.
	Resolve(key string) (interface{}, error)

	// ResolveConstraint resolves a provider key restricted to versions
	// satisfying a semver constraint.
	ResolveConstraint(key, constraint string) (interface{}, error)
}
