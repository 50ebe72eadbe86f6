package capstack_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capstack "github.com/capstack-dev/capstack-sdk"
	"github.com/capstack-dev/capstack-sdk/descriptor"
	"github.com/capstack-dev/capstack-sdk/provider"
	"github.com/capstack-dev/capstack-sdk/schema"
	"github.com/capstack-dev/capstack-sdk/typekey"
)

type serializer struct{ format string }

func buildRegistry(t *testing.T, opts ...capstack.Option) *capstack.Registry {
	t.Helper()

	reg := capstack.New(opts...)
	require.NoError(t, reg.DeclareSlot("form", true, schema.KindScalar))
	require.NoError(t, reg.DeclareSlot("fields", false, schema.KindList))
	require.NoError(t, reg.DeclareSlot("serializer", false, schema.KindReference))

	require.NoError(t, reg.RegisterProvider("json-serializer", func() (interface{}, error) {
		return &serializer{format: "json"}, nil
	}))

	require.NoError(t, reg.RegisterType("order", map[string]descriptor.BindingSpec{
		"form":       descriptor.Scalar("OrderForm"),
		"fields":     descriptor.List("id", "total"),
		"serializer": descriptor.Reference("json-serializer"),
	}))
	require.NoError(t, reg.RegisterType("invoice", map[string]descriptor.BindingSpec{
		"form": descriptor.Scalar("InvoiceForm"),
	}))
	return reg
}

func TestEndToEnd(t *testing.T) {
	reg := buildRegistry(t)

	_, err := reg.Dispatcher()
	assert.ErrorIs(t, err, descriptor.ErrNotFrozen)

	require.NoError(t, reg.Freeze())

	d, err := reg.Dispatcher()
	require.NoError(t, err)

	t.Run("scalar", func(t *testing.T) {
		v, err := d.Resolve("order", "form")
		require.NoError(t, err)
		assert.Equal(t, "OrderForm", v)
	})

	t.Run("list", func(t *testing.T) {
		v, err := d.Resolve("order", "fields")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"id", "total"}, v)
	})

	t.Run("reference memoized", func(t *testing.T) {
		first, err := d.Resolve("order", "serializer")
		require.NoError(t, err)
		second, err := d.Resolve("order", "serializer")
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, "json", first.(*serializer).format)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := d.Resolve("payment", "form")
		assert.ErrorIs(t, err, descriptor.ErrUnknownTypeKey)
	})

	t.Run("optional absent with fallback", func(t *testing.T) {
		v, err := d.ResolveDefault("invoice", "fields", []interface{}{"number"})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"number"}, v)
	})

	t.Run("optional absent without fallback", func(t *testing.T) {
		_, err := d.Resolve("invoice", "fields")
		assert.ErrorIs(t, err, descriptor.ErrSlotNotBound)
	})

	t.Run("bound slot ignores fallback", func(t *testing.T) {
		v, err := d.ResolveDefault("order", "form", "Fallback")
		require.NoError(t, err)
		assert.Equal(t, "OrderForm", v)
	})

	t.Run("resolve all", func(t *testing.T) {
		bundle, err := d.ResolveAll("invoice")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"form": "InvoiceForm"}, bundle)
	})
}

func TestFreezeReportsAllViolations(t *testing.T) {
	reg := capstack.New()
	require.NoError(t, reg.DeclareSlot("form", true, schema.KindScalar))
	require.NoError(t, reg.DeclareSlot("limit", true, schema.KindScalar))

	require.NoError(t, reg.RegisterType("a", map[string]descriptor.BindingSpec{
		"form": descriptor.Scalar("AForm"),
	}))
	require.NoError(t, reg.RegisterType("b", map[string]descriptor.BindingSpec{
		"limit": descriptor.Scalar(3),
	}))

	err := reg.Freeze()
	require.Error(t, err)
	assert.ErrorIs(t, err, descriptor.ErrIncomplete)

	var incomplete *descriptor.CompletenessError
	require.ErrorAs(t, err, &incomplete)
	assert.Len(t, incomplete.Violations, 2)

	_, err = reg.Dispatcher()
	assert.ErrorIs(t, err, descriptor.ErrNotFrozen)
}

func TestVersionedProviders(t *testing.T) {
	reg := capstack.New()
	require.NoError(t, reg.DeclareSlot("serializer", true, schema.KindReference))

	require.NoError(t, reg.RegisterProviderVersion("ser", "1.0.0", func() (interface{}, error) {
		return "v1.0", nil
	}))
	require.NoError(t, reg.RegisterProviderVersion("ser", "1.5.0", func() (interface{}, error) {
		return "v1.5", nil
	}))
	require.NoError(t, reg.RegisterProviderVersion("ser", "2.0.0", func() (interface{}, error) {
		return "v2.0", nil
	}))

	require.NoError(t, reg.RegisterType("pinned", map[string]descriptor.BindingSpec{
		"serializer": descriptor.VersionedReference("ser", "^1.0"),
	}))
	require.NoError(t, reg.RegisterType("latest", map[string]descriptor.BindingSpec{
		"serializer": descriptor.Reference("ser"),
	}))
	require.NoError(t, reg.Freeze())

	d, err := reg.Dispatcher()
	require.NoError(t, err)

	v, err := d.Resolve("pinned", "serializer")
	require.NoError(t, err)
	assert.Equal(t, "v1.5", v)

	v, err = d.Resolve("latest", "serializer")
	require.NoError(t, err)
	assert.Equal(t, "v2.0", v)
}

func TestProviderSealedAfterFreeze(t *testing.T) {
	reg := buildRegistry(t)
	require.NoError(t, reg.Freeze())

	err := reg.RegisterProvider("late", func() (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, provider.ErrSealed)
}

func TestMiddleware(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		var order []string
		tag := func(name string) capstack.Middleware {
			return func(next capstack.ResolveFunc) capstack.ResolveFunc {
				return func(key typekey.Key, slot string) (interface{}, error) {
					order = append(order, name)
					return next(key, slot)
				}
			}
		}

		reg := buildRegistry(t, capstack.WithMiddleware(tag("outer"), tag("inner")))
		require.NoError(t, reg.Freeze())

		d, err := reg.Dispatcher()
		require.NoError(t, err)

		_, err = d.Resolve("order", "form")
		require.NoError(t, err)
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("panic recovery", func(t *testing.T) {
		reg := capstack.New(capstack.WithMiddleware(capstack.PanicRecoveryMiddleware()))
		require.NoError(t, reg.DeclareSlot("strategy", true, schema.KindReference))
		require.NoError(t, reg.RegisterProvider("bomb", func() (interface{}, error) {
			panic("factory exploded")
		}))
		require.NoError(t, reg.RegisterType("t", map[string]descriptor.BindingSpec{
			"strategy": descriptor.Reference("bomb"),
		}))
		require.NoError(t, reg.Freeze())

		d, err := reg.Dispatcher()
		require.NoError(t, err)

		_, err = d.Resolve("t", "strategy")
		require.Error(t, err)

		var panicked *capstack.ResolutionPanicError
		require.ErrorAs(t, err, &panicked)
		assert.Equal(t, "factory exploded", panicked.Value)
	})
}

func TestInvariantError(t *testing.T) {
	// A middleware that drops a binding simulates the corruption Resolve
	// guards against: a required slot reported unbound after freeze.
	drop := func(next capstack.ResolveFunc) capstack.ResolveFunc {
		return func(key typekey.Key, slot string) (interface{}, error) {
			return nil, &descriptor.SlotNotBoundError{Key: key, Slot: slot}
		}
	}

	reg := buildRegistry(t, capstack.WithMiddleware(drop))
	require.NoError(t, reg.Freeze())

	d, err := reg.Dispatcher()
	require.NoError(t, err)

	_, err = d.Resolve("order", "form")
	require.Error(t, err)
	assert.ErrorIs(t, err, capstack.ErrInvariant)

	var inv *capstack.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "form", inv.Slot)
	assert.True(t, errors.Is(inv.Cause, descriptor.ErrSlotNotBound))

	// The same corruption on an optional slot falls back instead.
	_, err = d.ResolveDefault("invoice", "fields", nil)
	require.NoError(t, err)
}
