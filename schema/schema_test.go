package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capstack-dev/capstack-sdk/schema"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

func TestDeclareSlot(t *testing.T) {
	t.Run("declares and lists in order", func(t *testing.T) {
		s := schema.New()
		require.NoError(t, s.DeclareSlot("form", true, schema.KindScalar))
		require.NoError(t, s.DeclareSlot("fields", false, schema.KindList))
		require.NoError(t, s.DeclareSlot("serializer", false, schema.KindReference))

		slots := s.Slots()
		require.Len(t, slots, 3)
		assert.Equal(t, "form", slots[0].Name())
		assert.Equal(t, "fields", slots[1].Name())
		assert.Equal(t, "serializer", slots[2].Name())

		slot, ok := s.Slot("form")
		require.True(t, ok)
		assert.True(t, slot.Required())
		assert.Equal(t, schema.KindScalar, slot.Kind())
	})

	t.Run("same kind re-declaration is a no-op", func(t *testing.T) {
		s := schema.New()
		require.NoError(t, s.DeclareSlot("form", true, schema.KindScalar))
		require.NoError(t, s.DeclareSlot("form", false, schema.KindScalar))

		slot, ok := s.Slot("form")
		require.True(t, ok)
		assert.True(t, slot.Required(), "first declaration wins")
	})

	t.Run("kind conflict", func(t *testing.T) {
		s := schema.New()
		require.NoError(t, s.DeclareSlot("form", true, schema.KindScalar))

		err := s.DeclareSlot("form", true, schema.KindList)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrSlotKindConflict)

		var conflict *schema.SlotKindConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "form", conflict.Slot)
		assert.Equal(t, schema.KindScalar, conflict.Declared)
		assert.Equal(t, schema.KindList, conflict.Given)
	})

	t.Run("empty name", func(t *testing.T) {
		s := schema.New()
		assert.Error(t, s.DeclareSlot("  ", true, schema.KindScalar))
	})
}

func TestValidate(t *testing.T) {
	newSchema := func(t *testing.T) *schema.Schema {
		t.Helper()
		s := schema.New()
		require.NoError(t, s.DeclareSlot("form", true, schema.KindScalar))
		require.NoError(t, s.DeclareSlot("limit", true, schema.KindScalar))
		require.NoError(t, s.DeclareSlot("fields", false, schema.KindList))
		return s
	}
	key := typekey.MustNew("alpha")

	t.Run("complete bindings pass", func(t *testing.T) {
		s := newSchema(t)
		violations := s.Validate(key, map[string]schema.Bound{
			"form":  {Kind: schema.KindScalar, Value: "AlphaForm", HasValue: true},
			"limit": {Kind: schema.KindScalar, Value: 10, HasValue: true},
		})
		assert.Empty(t, violations)
	})

	t.Run("collects every violation", func(t *testing.T) {
		s := newSchema(t)
		violations := s.Validate(key, map[string]schema.Bound{
			"limit":   {Kind: schema.KindList, Value: []interface{}{10}, HasValue: true},
			"unknown": {Kind: schema.KindScalar, Value: 1, HasValue: true},
		})
		require.Len(t, violations, 3)

		reasons := make(map[string]string, len(violations))
		for _, v := range violations {
			reasons[v.Slot] = v.Reason
			assert.True(t, v.Key.Equals(key))
		}
		assert.Contains(t, reasons["form"], "required slot is not bound")
		assert.Contains(t, reasons["limit"], "bound as list, declared as scalar")
		assert.Contains(t, reasons["unknown"], "not declared")
	})

	t.Run("absent optional slot is fine", func(t *testing.T) {
		s := newSchema(t)
		violations := s.Validate(key, map[string]schema.Bound{
			"form":  {Kind: schema.KindScalar, Value: "AlphaForm", HasValue: true},
			"limit": {Kind: schema.KindScalar, Value: 10, HasValue: true},
		})
		assert.Empty(t, violations)
	})
}

func TestValidateConstraint(t *testing.T) {
	c, err := schema.ConstraintFromJSON(`{"type": "integer", "minimum": 1}`)
	require.NoError(t, err)

	s := schema.New()
	require.NoError(t, s.DeclareSlot("limit", true, schema.KindScalar, schema.WithConstraint(c)))
	key := typekey.MustNew("alpha")

	t.Run("satisfied", func(t *testing.T) {
		violations := s.Validate(key, map[string]schema.Bound{
			"limit": {Kind: schema.KindScalar, Value: 10, HasValue: true},
		})
		assert.Empty(t, violations)
	})

	t.Run("violated", func(t *testing.T) {
		violations := s.Validate(key, map[string]schema.Bound{
			"limit": {Kind: schema.KindScalar, Value: 0, HasValue: true},
		})
		require.Len(t, violations, 1)
		assert.Equal(t, "limit", violations[0].Slot)
		assert.Contains(t, violations[0].Reason, "value constraint violated")
	})
}
