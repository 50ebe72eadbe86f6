// Package snapshot captures the shape of a frozen registry — type keys,
// bound slots, binding kinds, and provider references — as a YAML
// document. Snapshots never contain capability values and never restore
// registry state: they exist so operators can diff the registry shape
// between runs and catch accidental drift in collaborator registrations.
package snapshot

import (
	"fmt"
	"sort"

	"github.com/capstack-dev/capstack-sdk/descriptor"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

// Source is the view of a frozen registry a snapshot is captured from.
// *descriptor.Registry satisfies it.
type Source interface {
	Keys() []typekey.Key
	Describe(key typekey.Key) ([]descriptor.BindingInfo, error)
}

// Snapshot is the serializable shape of one frozen registry.
type Snapshot struct {
	Types []TypeRecord `yaml:"types"`
}

// TypeRecord is the shape of one registered type.
type TypeRecord struct {
	Key   string       `yaml:"key"`
	Slots []SlotRecord `yaml:"slots"`
}

// SlotRecord is the shape of one bound slot.
type SlotRecord struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Provider   string `yaml:"provider,omitempty"`
	Constraint string `yaml:"constraint,omitempty"`
}

// Capture builds a snapshot from a frozen registry.
func Capture(src Source) (*Snapshot, error) {
	snap := &Snapshot{}

	for _, key := range src.Keys() {
		infos, err := src.Describe(key)
		if err != nil {
			return nil, fmt.Errorf("describing type %q: %w", key.String(), err)
		}

		record := TypeRecord{Key: key.String()}
		for _, info := range infos {
			record.Slots = append(record.Slots, SlotRecord{
				Name:       info.Slot,
				Kind:       info.Kind.String(),
				Provider:   info.Provider,
				Constraint: info.Constraint,
			})
		}
		snap.Types = append(snap.Types, record)
	}

	return snap, nil
}

// Diff reports every shape difference between two snapshots as
// human-readable lines, sorted. An empty result means the shapes match.
func Diff(before, after *Snapshot) []string {
	var out []string

	byKey := func(s *Snapshot) map[string]TypeRecord {
		m := make(map[string]TypeRecord, len(s.Types))
		for _, t := range s.Types {
			m[t.Key] = t
		}
		return m
	}
	prev, next := byKey(before), byKey(after)

	for key := range prev {
		if _, ok := next[key]; !ok {
			out = append(out, fmt.Sprintf("type %q removed", key))
		}
	}
	for key, t := range next {
		p, ok := prev[key]
		if !ok {
			out = append(out, fmt.Sprintf("type %q added", key))
			continue
		}
		out = append(out, diffSlots(key, p.Slots, t.Slots)...)
	}

	sort.Strings(out)
	return out
}

func diffSlots(key string, before, after []SlotRecord) []string {
	var out []string

	prev := make(map[string]SlotRecord, len(before))
	for _, s := range before {
		prev[s.Name] = s
	}
	next := make(map[string]SlotRecord, len(after))
	for _, s := range after {
		next[s.Name] = s
	}

	for name := range prev {
		if _, ok := next[name]; !ok {
			out = append(out, fmt.Sprintf("type %q: slot %q unbound", key, name))
		}
	}
	for name, s := range next {
		p, ok := prev[name]
		if !ok {
			out = append(out, fmt.Sprintf("type %q: slot %q bound", key, name))
			continue
		}
		if p != s {
			out = append(out, fmt.Sprintf(
				"type %q: slot %q changed (%s/%s/%s -> %s/%s/%s)",
				key, name,
				p.Kind, p.Provider, p.Constraint,
				s.Kind, s.Provider, s.Constraint,
			))
		}
	}

	return out
}
