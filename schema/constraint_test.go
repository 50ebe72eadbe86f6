package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capstack-dev/capstack-sdk/schema"
)

func TestConstraintFromJSON(t *testing.T) {
	t.Run("compiles and checks", func(t *testing.T) {
		c, err := schema.ConstraintFromJSON(`{"type": "string", "minLength": 3}`)
		require.NoError(t, err)

		assert.NoError(t, c.Check("AlphaForm"))
		assert.Error(t, c.Check("ab"))
		assert.Error(t, c.Check(42))
	})

	t.Run("rejects invalid schema document", func(t *testing.T) {
		_, err := schema.ConstraintFromJSON(`{"type": 17}`)
		assert.Error(t, err)
	})
}

func TestConstraintForStruct(t *testing.T) {
	type permittedParams struct {
		Fields []string `json:"fields"`
		Limit  int      `json:"limit"`
	}

	t.Run("reflects struct into a working constraint", func(t *testing.T) {
		c, err := schema.ConstraintForStruct(permittedParams{})
		require.NoError(t, err)
		assert.NotEmpty(t, c.Raw())

		assert.NoError(t, c.Check(map[string]interface{}{
			"fields": []string{"name"},
			"limit":  10,
		}))
		assert.Error(t, c.Check(map[string]interface{}{
			"fields": "not-a-list",
			"limit":  10,
		}))
	})

	t.Run("accepts pointer to struct", func(t *testing.T) {
		_, err := schema.ConstraintForStruct(&permittedParams{})
		assert.NoError(t, err)
	})

	t.Run("rejects non-struct models", func(t *testing.T) {
		_, err := schema.ConstraintForStruct("not a struct")
		assert.Error(t, err)

		_, err = schema.ConstraintForStruct(nil)
		assert.Error(t, err)
	})
}

func TestConstraintCheckList(t *testing.T) {
	c, err := schema.ConstraintFromJSON(`{"type": "array", "items": {"type": "string"}}`)
	require.NoError(t, err)

	assert.NoError(t, c.Check([]interface{}{"a", "b"}))
	assert.Error(t, c.Check([]interface{}{"a", 1}))
}
