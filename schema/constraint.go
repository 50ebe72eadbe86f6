package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	structschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Constraint is a compiled JSON Schema that direct slot values must
// satisfy. Constraints apply to scalar and list bindings only; lazy
// references are resolved after freeze and are never constraint-checked.
type Constraint struct {
	compiled *jsonschema.Schema
	raw      string
}

// ConstraintFromJSON compiles a raw JSON Schema document into a Constraint.
func ConstraintFromJSON(doc string) (*Constraint, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("constraint.json", strings.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("failed to add constraint schema: %w", err)
	}

	compiled, err := compiler.Compile("constraint.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile constraint schema: %w", err)
	}

	return &Constraint{compiled: compiled, raw: doc}, nil
}

// ConstraintForStruct generates a Constraint from a Go struct (or pointer
// to struct) by reflecting it into a JSON Schema.
func ConstraintForStruct(model interface{}) (*Constraint, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, fmt.Errorf("constraint model cannot be nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("constraint model must be a struct, got %s", t.Kind())
	}

	reflector := new(structschema.Reflector)
	reflector.ExpandedStruct = true

	generated := reflector.Reflect(model)
	b, err := json.MarshalIndent(generated, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generated schema: %w", err)
	}

	return ConstraintFromJSON(string(b))
}

// Raw returns the JSON Schema document backing the constraint.
func (c *Constraint) Raw() string {
	return c.raw
}

// Check validates a direct value against the constraint. The value is
// round-tripped through encoding/json so that Go-native types are checked
// in their decoded-JSON form, which is what the validator expects.
func (c *Constraint) Check(value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("value is not JSON-representable: %w", err)
	}

	var decoded interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		return fmt.Errorf("failed to decode value for validation: %w", err)
	}

	return c.compiled.Validate(decoded)
}
