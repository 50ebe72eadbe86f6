package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrDuplicateProviderKey is returned on repeat registration of a key.
	ErrDuplicateProviderKey = errors.New("duplicate provider key")

	// ErrUnknownProviderKey is returned when resolving a key that was
	// never registered.
	ErrUnknownProviderKey = errors.New("unknown provider key")

	// ErrNoVersionMatch is returned when no registered version satisfies
	// the requested constraint.
	ErrNoVersionMatch = errors.New("no provider version satisfies constraint")

	// ErrFactoryFailed is returned when a provider factory invocation fails.
	ErrFactoryFailed = errors.New("provider factory failed")

	// ErrSealed is returned on registration after the registry was sealed.
	ErrSealed = errors.New("provider registry is sealed")
)

// DuplicateProviderKeyError indicates a repeat registration.
type DuplicateProviderKeyError struct {
	Key     string
	Version string
}

func (e *DuplicateProviderKeyError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("provider already registered: %s@%s", e.Key, e.Version)
	}
	return fmt.Sprintf("provider already registered: %s", e.Key)
}

// Is implements error matching for errors.Is() checks.
func (e *DuplicateProviderKeyError) Is(target error) bool {
	return target == ErrDuplicateProviderKey
}

// UnknownProviderKeyError indicates resolution of an unregistered key.
type UnknownProviderKeyError struct {
	Key string
}

func (e *UnknownProviderKeyError) Error() string {
	return fmt.Sprintf("unknown provider key: %s", e.Key)
}

// Is implements error matching for errors.Is() checks.
func (e *UnknownProviderKeyError) Is(target error) bool {
	return target == ErrUnknownProviderKey
}

// NoVersionMatchError indicates an unsatisfiable version constraint.
type NoVersionMatchError struct {
	Key        string
	Constraint string
}

func (e *NoVersionMatchError) Error() string {
	return fmt.Sprintf("no version of provider %q satisfies constraint %q", e.Key, e.Constraint)
}

// Is implements error matching for errors.Is() checks.
func (e *NoVersionMatchError) Is(target error) bool {
	return target == ErrNoVersionMatch
}

// FactoryError wraps a failed factory invocation. The failure is not
// cached; a later resolution of the same key retries the factory.
type FactoryError struct {
	Cause error
	Key   string
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("provider factory failed for key %q: %v", e.Key, e.Cause)
}

// Unwrap returns the underlying factory error.
func (e *FactoryError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is() checks.
func (e *FactoryError) Is(target error) bool {
	return target == ErrFactoryFailed
}

// SealedError indicates registration after the registry was sealed.
type SealedError struct {
	Key string
}

func (e *SealedError) Error() string {
	return fmt.Sprintf("cannot register provider %q: registry is sealed", e.Key)
}

// Is implements error matching for errors.Is() checks.
func (e *SealedError) Is(target error) bool {
	return target == ErrSealed
}
