// Package typekey defines the canonical identifier space for registered
// domain types. A Key is a validated, immutable identifier; a Set is the
// ordered, deduplicated collection of every Key one registry accepts.
package typekey

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key represents a validated type identifier.
// Enforces non-empty, trimmed identifiers.
type Key struct {
	value string
}

// New creates a Key with strict validation.
// A valid key must:
// - Be non-empty
// - Contain only alphanumeric characters, underscores, hyphens, and dots
// - NOT contain path separators or special characters
// - Be at most 64 characters long
func New(raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Key{}, fmt.Errorf("%w: type key cannot be empty", ErrInvalidKey)
	}

	if len(raw) > 64 {
		return Key{}, fmt.Errorf("%w: type key too long (max 64 chars)", ErrInvalidKey)
	}

	if strings.ContainsAny(raw, `/\`) {
		return Key{}, fmt.Errorf("%w: type key cannot contain path separators", ErrInvalidKey)
	}

	if strings.Contains(raw, "..") {
		return Key{}, fmt.Errorf("%w: type key cannot contain parent directory references", ErrInvalidKey)
	}

	for _, ch := range raw {
		if !isValidKeyChar(ch) {
			return Key{}, fmt.Errorf("%w: invalid type key %q: must contain only alphanumeric characters, underscores, hyphens, and dots", ErrInvalidKey, raw)
		}
	}

	return Key{value: raw}, nil
}

func isValidKeyChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		r == '-' ||
		r == '.'
}

// MustNew creates a Key or panics
func MustNew(raw string) Key {
	k, err := New(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the string representation
func (k Key) String() string {
	return k.value
}

// IsEmpty returns true if this is the zero value
func (k Key) IsEmpty() bool {
	return k.value == ""
}

// Equals checks if two keys are equal
func (k Key) Equals(other Key) bool {
	return k.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid type key JSON: %w", err)
	}

	key, err := New(s)
	if err != nil {
		return err
	}
	*k = key
	return nil
}
