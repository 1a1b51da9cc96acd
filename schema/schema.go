package schema

import (
	"errors"
	"fmt"

	"github.com/onecommons/tosca-parser-go/value"
)

// ErrInvalidSchema is returned by [FromValue] when a property/attribute
// definition mapping is malformed.
var ErrInvalidSchema = errors.New("schema: invalid schema definition")

// Built-in TOSCA primitive and collection type names.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeBoolean = "boolean"
	TypeTimestamp = "timestamp"
	TypeAny     = "any"
	TypeList    = "list"
	TypeMap     = "map"
	TypeVersion = "version"
	TypeRange   = "range"
	TypePortDef = "PortDef"
)

// constraintKeys enumerates every recognized constraint key, in document
// order of appearance in spec.md §4.C. Nothing in this package reads it.
var constraintKeys = []string{
	"equal", "greater_than", "greater_or_equal", "less_than", "less_or_equal",
	"in_range", "valid_values", "length", "min_length", "max_length",
	"pattern", "schema",
}

// Schema is a property/attribute/input definition (spec.md §3 "Schema"):
// a type name, required flag, description, default value, constraints,
// and for map/list types the shape of keys/entries.
type Schema struct {
	Type        string
	Required    bool
	Description string
	Default     value.Value
	HasDefault  bool
	Status      string
	Constraints []Constraint
	KeySchema   *Schema
	EntrySchema *Schema
}

// FromValue parses a property/attribute/input definition mapping into a
// Schema. A bare string value (shorthand `prop: string`) is treated as
// `{type: string}` the way the original parser's PROPERTY_TYPES shorthand
// works.
func FromValue(v value.Value) (*Schema, error) {
	if v.Kind() == value.KindString {
		return &Schema{Type: v.String(), Required: true}, nil
	}

	if v.Kind() != value.KindMapping {
		return nil, fmt.Errorf("%w: expected a mapping or bare type name, got %s", ErrInvalidSchema, v.Kind())
	}

	m := v.Mapping()

	s := &Schema{Required: true}

	if t, ok := m.Get("type"); ok {
		s.Type = t.String()
	}

	if req, ok := m.Get("required"); ok {
		s.Required = req.Kind() != value.KindBool || req.Bool()
	}

	if desc, ok := m.Get("description"); ok {
		s.Description = desc.String()
	}

	if def, ok := m.Get("default"); ok {
		s.Default = def
		s.HasDefault = true
	}

	if status, ok := m.Get("status"); ok {
		s.Status = status.String()
	}

	if ks, ok := m.Get("key_schema"); ok {
		sub, err := FromValue(ks)
		if err != nil {
			return nil, fmt.Errorf("%w: key_schema: %w", ErrInvalidSchema, err)
		}

		s.KeySchema = sub
	}

	if es, ok := m.Get("entry_schema"); ok {
		sub, err := FromValue(es)
		if err != nil {
			return nil, fmt.Errorf("%w: entry_schema: %w", ErrInvalidSchema, err)
		}

		s.EntrySchema = sub
	}

	cs, ok := m.Get("constraints")
	if ok {
		constraints, err := constraintsFromValue(s.Type, cs)
		if err != nil {
			return nil, err
		}

		s.Constraints = constraints
	}

	return s, nil
}

func constraintsFromValue(propType string, v value.Value) ([]Constraint, error) {
	if v.Kind() != value.KindSequence {
		return nil, fmt.Errorf("%w: constraints must be a sequence", ErrInvalidSchema)
	}

	out := make([]Constraint, 0, len(v.Sequence()))

	for _, item := range v.Sequence() {
		if item.Kind() != value.KindMapping || item.Mapping().Len() != 1 {
			return nil, fmt.Errorf("%w: each constraint must be a single-key mapping", ErrInvalidSchema)
		}

		kind := item.Mapping().Keys()[0]
		arg, _ := item.Mapping().Get(kind)

		c, err := New(kind, propType, arg)
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}

// Validate runs v through every constraint in s, returning the first
// failure. Callers that want every violation (not just the first) should
// call [Schema.ValidateAll] instead and feed the result into an
// errcol.Collector.
func (s *Schema) Validate(v value.Value) error {
	for _, c := range s.Constraints {
		if err := c.Validate(v); err != nil {
			return err
		}
	}

	return nil
}

// ValidateAll runs v through every constraint in s and returns every
// failure, not just the first -- the shape the per-parse error collector
// (errcol) wants so a parse reports all violations in one pass.
func (s *Schema) ValidateAll(v value.Value) []error {
	var errs []error

	for _, c := range s.Constraints {
		if err := c.Validate(v); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// IsScalarUnit reports whether s.Type names one of the four scalar-unit
// families.
func (s *Schema) IsScalarUnit() bool { return scalarUnitTypes[s.Type] }
