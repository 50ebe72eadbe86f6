// Package manifest provides declarative type registration: collaborators
// ship YAML manifests describing their type keys and capability bindings,
// and a loader discovers and applies them to a building registry. This
// keeps domain modules free of imperative registration order.
package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/capstack-dev/capstack-sdk/descriptor"
)

// Document is the root of one manifest file.
type Document struct {
	Types []TypeEntry `yaml:"types"`
}

// TypeEntry declares one type key and its capability bindings.
type TypeEntry struct {
	Bindings map[string]BindingEntry `yaml:"bindings"`
	Key      string                  `yaml:"key"`
}

// BindingEntry declares how one slot obtains its value: a scalar literal,
// a list literal, or a provider reference with an optional version
// constraint. Exactly one of value, values, or provider must be set.
type BindingEntry struct {
	Value      interface{}   `yaml:"value,omitempty"`
	Values     []interface{} `yaml:"values,omitempty"`
	Provider   string        `yaml:"provider,omitempty"`
	Constraint string        `yaml:"constraint,omitempty"`
	HasValue   bool          `yaml:"-"`
}

// UnmarshalYAML tracks whether the value field was present, so a scalar
// binding whose literal is null stays distinguishable from no binding.
func (b *BindingEntry) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Value      interface{}   `yaml:"value"`
		Values     []interface{} `yaml:"values"`
		Provider   string        `yaml:"provider"`
		Constraint string        `yaml:"constraint"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	hasValue := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "value" {
			hasValue = true
			break
		}
	}

	*b = BindingEntry{
		Value:      raw.Value,
		Values:     raw.Values,
		Provider:   raw.Provider,
		Constraint: raw.Constraint,
		HasValue:   hasValue,
	}
	return nil
}

// spec converts the entry to the registry's binding representation.
func (b BindingEntry) spec() descriptor.BindingSpec {
	return descriptor.BindingSpec{
		Value:      b.Value,
		Values:     b.Values,
		Provider:   b.Provider,
		Constraint: b.Constraint,
		IsValue:    b.HasValue,
	}
}

// Validate checks structural sanity of the document before it is applied.
func (d *Document) Validate() error {
	if len(d.Types) == 0 {
		return fmt.Errorf("manifest declares no types")
	}
	for _, t := range d.Types {
		if t.Key == "" {
			return fmt.Errorf("manifest type entry is missing a key")
		}
		if len(t.Bindings) == 0 {
			return fmt.Errorf("manifest type %q declares no bindings", t.Key)
		}
	}
	return nil
}
