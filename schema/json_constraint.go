package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/onecommons/tosca-parser-go/value"
)

// jsonSchemaConstraint implements the "schema" constraint kind: its
// argument is a JSON-Schema document (spec.md §4.C). Representation and
// validation are both delegated to google/jsonschema-go rather than
// hand-rolled, the same library package "schema" (see doc.go) and
// package "schemagen" use to represent schemas elsewhere in this module.
type jsonSchemaConstraint struct {
	propType string
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

func newSchemaConstraint(propType string, arg value.Value) (Constraint, error) {
	raw, err := json.Marshal(arg.Native())
	if err != nil {
		return nil, fmt.Errorf("%w: schema: %w", ErrInvalidConstraintConfig, err)
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: schema: %w", ErrInvalidConstraintConfig, err)
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: schema: %w", ErrInvalidConstraintConfig, err)
	}

	return &jsonSchemaConstraint{propType: propType, schema: &s, resolved: resolved}, nil
}

// Name returns "schema".
func (c *jsonSchemaConstraint) Name() string { return "schema" }

// Validate validates v against the JSON-Schema document. Per spec.md
// §4.C: if the property's type is "any" the value is validated as-is;
// otherwise a string value is parsed as JSON first (a property typed e.g.
// "string" whose textual content is itself a JSON document) and is
// validated as-is when it is not valid JSON.
func (c *jsonSchemaConstraint) Validate(v value.Value) error {
	if IsFunction(v) {
		return nil
	}

	instance := v.Native()

	if c.propType != "any" && v.Kind() == value.KindString {
		var parsed any
		if err := json.Unmarshal([]byte(v.String()), &parsed); err == nil {
			instance = parsed
		}
	}

	if err := c.resolved.Validate(instance); err != nil {
		return failf("schema", "%v", err)
	}

	return nil
}
