package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capstack-dev/capstack-sdk/mapping"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

func keySet(t *testing.T, names ...string) *typekey.Set {
	t.Helper()
	s := typekey.NewSet()
	for _, name := range names {
		require.NoError(t, s.Register(typekey.MustNew(name)))
	}
	return s
}

func TestNewTable(t *testing.T) {
	orders := keySet(t, "order", "invoice")
	documents := keySet(t, "order_doc", "invoice_doc")

	table, err := mapping.NewTable(orders, documents, []mapping.Pair{
		{From: typekey.MustNew("order"), To: typekey.MustNew("order_doc")},
		{From: typekey.MustNew("invoice"), To: typekey.MustNew("invoice_doc")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	target, ok := table.Map(typekey.MustNew("order"))
	require.True(t, ok)
	assert.Equal(t, "order_doc", target.String())

	_, ok = table.Map(typekey.MustNew("unmapped"))
	assert.False(t, ok)
}

func TestNewTableValidation(t *testing.T) {
	orders := keySet(t, "order")
	documents := keySet(t, "order_doc")

	t.Run("unknown source", func(t *testing.T) {
		_, err := mapping.NewTable(orders, documents, []mapping.Pair{
			{From: typekey.MustNew("ghost"), To: typekey.MustNew("order_doc")},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, mapping.ErrUnknownMappingKey)

		var unknown *mapping.UnknownMappingKeyError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, mapping.SideSource, unknown.Side)
		assert.Equal(t, "ghost", unknown.Key.String())
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := mapping.NewTable(orders, documents, []mapping.Pair{
			{From: typekey.MustNew("order"), To: typekey.MustNew("ghost_doc")},
		})
		require.Error(t, err)

		var unknown *mapping.UnknownMappingKeyError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, mapping.SideTarget, unknown.Side)
	})

	t.Run("duplicate source", func(t *testing.T) {
		_, err := mapping.NewTable(orders, documents, []mapping.Pair{
			{From: typekey.MustNew("order"), To: typekey.MustNew("order_doc")},
			{From: typekey.MustNew("order"), To: typekey.MustNew("order_doc")},
		})
		assert.ErrorIs(t, err, mapping.ErrDuplicateSource)
	})
}

func TestMustMap(t *testing.T) {
	orders := keySet(t, "order")
	documents := keySet(t, "order_doc")

	table, err := mapping.NewTable(orders, documents, []mapping.Pair{
		{From: typekey.MustNew("order"), To: typekey.MustNew("order_doc")},
	})
	require.NoError(t, err)

	assert.Equal(t, "order_doc", table.MustMap(typekey.MustNew("order")).String())
	assert.Panics(t, func() { table.MustMap(typekey.MustNew("ghost")) })
}

func TestPairsIsIndependent(t *testing.T) {
	orders := keySet(t, "order", "invoice")
	documents := keySet(t, "order_doc", "invoice_doc")

	table, err := mapping.NewTable(orders, documents, []mapping.Pair{
		{From: typekey.MustNew("order"), To: typekey.MustNew("order_doc")},
		{From: typekey.MustNew("invoice"), To: typekey.MustNew("invoice_doc")},
	})
	require.NoError(t, err)

	pairs := table.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "order", pairs[0].From.String())

	pairs[0] = mapping.Pair{}
	again := table.Pairs()
	assert.Equal(t, "order", again[0].From.String())
}
