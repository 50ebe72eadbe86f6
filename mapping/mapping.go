// Package mapping provides an explicit, standalone table mapping keys of
// one type domain onto keys of another. It lives outside both registries
// so neither domain takes a dependency on the other: callers supply the
// two key sets and the full pair list, and construction fails unless
// every pair names registered keys on both sides.
package mapping

import (
	"fmt"

	"github.com/capstack-dev/capstack-sdk/typekey"
)

// Pair is one (source key, target key) association.
type Pair struct {
	From typekey.Key
	To   typekey.Key
}

// Table is an immutable mapping between two type key domains.
type Table struct {
	pairs map[typekey.Key]typekey.Key
	order []Pair
}

// NewTable validates the pair list against the two key sets and builds
// the table. Each source key may map at most once.
func NewTable(from, to *typekey.Set, pairs []Pair) (*Table, error) {
	t := &Table{
		pairs: make(map[typekey.Key]typekey.Key, len(pairs)),
	}

	for _, p := range pairs {
		if !from.Contains(p.From) {
			return nil, &UnknownMappingKeyError{Key: p.From, Side: SideSource}
		}
		if !to.Contains(p.To) {
			return nil, &UnknownMappingKeyError{Key: p.To, Side: SideTarget}
		}
		if _, exists := t.pairs[p.From]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, p.From.String())
		}
		t.pairs[p.From] = p.To
		t.order = append(t.order, p)
	}

	return t, nil
}

// Map returns the target key for a source key.
func (t *Table) Map(key typekey.Key) (typekey.Key, bool) {
	target, ok := t.pairs[key]
	return target, ok
}

// MustMap returns the target key or panics. For call sites where an
// unmapped key means the table was constructed wrong, not bad input.
func (t *Table) MustMap(key typekey.Key) typekey.Key {
	target, ok := t.pairs[key]
	if !ok {
		panic(fmt.Sprintf("mapping: no target for source key %q", key.String()))
	}
	return target
}

// Pairs returns all associations in construction order.
func (t *Table) Pairs() []Pair {
	out := make([]Pair, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of associations.
func (t *Table) Len() int {
	return len(t.pairs)
}
