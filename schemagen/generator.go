package schemagen

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/onecommons/tosca-parser-go/magicschema"
	"github.com/onecommons/tosca-parser-go/schema"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// ErrUnknownType is returned by [Generate] when globalName does not
// resolve in registry.
var ErrUnknownType = errors.New("schemagen: unknown type")

// Options configures [Generate].
type Options struct {
	// Title, Description, ID set the root schema's metadata fields.
	Title       string
	Description string
	ID          string

	// Strict sets additionalProperties: false on the generated root
	// object schema (nested capability, map and data-type objects stay
	// open), the inverse of magicschema's fail-open default -- a
	// TOSCA node type's property set is closed per spec.md §3's Entity
	// Template invariant ("Properties assigned that are not declared by
	// the type are rejected unless additionalProperties is true"),
	// unlike Helm values.yaml's deliberately open schemas.
	Strict bool
}

// Generate synthesizes a JSON Schema describing the shape of a node
// template instantiating the type named globalName: property
// names/types/requiredness, capability names, and short-form
// requirement keys.
//
// Ancestor types each contribute their own declared fields; per-ancestor
// schemas are combined with [magicschema.MergeSchemas] (most-derived
// first, so a child's title, description and default win over its
// parent's where both declare the same field, while conflicting types
// widen: integer and number give number, any other pair drops the type)
// rather than relying on
// [types.MergedField]'s value.Value-level merge, so the same
// union-then-widen algorithm magicschema uses for multi-document
// inference does the combining here too.
func Generate(registry *types.Registry, globalName string, opts Options) (*jsonschema.Schema, error) {
	et, ok := registry.FindType(globalName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, globalName)
	}

	var combined *jsonschema.Schema

	requiredSet := map[string]bool{}

	for _, anc := range registry.Ancestors(et) {
		ancSchema := schemaForType(registry, anc, opts)
		for _, name := range ancSchema.Required {
			requiredSet[name] = true
		}

		combined = magicschema.MergeSchemas(combined, ancSchema)
	}

	if combined == nil {
		combined = &jsonschema.Schema{Type: "object"}
	}

	// mergeSchemas intersects Required (right for combining schemas
	// inferred from several example documents, where a field is only
	// required if every example has it); an ancestor chain instead wants
	// the union, since a property required by any ancestor is required
	// on the instantiated template.
	combined.Required = nil
	for name := range requiredSet {
		combined.Required = append(combined.Required, name)
	}

	sort.Strings(combined.Required)

	combined.Title = firstNonEmpty(opts.Title, combined.Title)
	combined.Description = firstNonEmpty(opts.Description, combined.Description)

	if opts.ID != "" {
		combined.ID = opts.ID
	}

	return combined, nil
}

// schemaForType builds the object schema contributed by a single type
// in the ancestor chain: its own (not ancestor-merged) properties,
// capabilities, and short-form requirement keys.
func schemaForType(registry *types.Registry, et *types.EntityType, opts Options) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "object"}

	properties := map[string]*jsonschema.Schema{}

	var required []string

	var order []string

	if et.Properties.Kind() == value.KindMapping {
		et.Properties.Mapping().Range(func(name string, def value.Value) bool {
			ps, err := schema.FromValue(def)
			if err != nil {
				return true
			}

			properties[name] = propertySchema(ps)
			order = append(order, name)

			if ps.Required && !ps.HasDefault {
				required = append(required, name)
			}

			return true
		})
	}

	if et.Capabilities.Kind() == value.KindMapping {
		capSchema := &jsonschema.Schema{Type: "object", AdditionalProperties: magicschema.TrueSchema()}

		capProps := map[string]*jsonschema.Schema{}

		var capOrder []string

		et.Capabilities.Mapping().Range(func(name string, def value.Value) bool {
			capProps[name] = capabilitySchema(registry, def)
			capOrder = append(capOrder, name)

			return true
		})

		if len(capProps) > 0 {
			capSchema.Properties = capProps
			capSchema.PropertyOrder = capOrder
			properties["capabilities"] = capSchema
			order = append(order, "capabilities")
		}
	}

	if et.Requirements.Kind() == value.KindSequence && len(et.Requirements.Sequence()) > 0 {
		reqProps := map[string]*jsonschema.Schema{}

		var reqOrder []string

		for _, item := range et.Requirements.Sequence() {
			if item.Kind() != value.KindMapping || item.Mapping().Len() != 1 {
				continue
			}

			name := item.Mapping().Keys()[0]
			reqProps[name] = requirementSchema()
			reqOrder = append(reqOrder, name)
		}

		if len(reqProps) > 0 {
			properties["requirements"] = &jsonschema.Schema{
				Type: "array",
				Items: &jsonschema.Schema{
					Type:          "object",
					Properties:    reqProps,
					PropertyOrder: reqOrder,
				},
			}
			order = append(order, "requirements")
		}
	}

	if len(properties) > 0 {
		s.Properties = properties
		s.PropertyOrder = order
	}

	s.Required = required

	if opts.Strict {
		s.AdditionalProperties = magicschema.FalseSchema()
	} else {
		s.AdditionalProperties = magicschema.TrueSchema()
	}

	return s
}

// capabilitySchema renders a single capability declaration as a short
// informational schema: its capability type name, not a full recursive
// expansion of the capability type's own properties (editor tooling
// wants "what capability names exist", not a second full type walk).
func capabilitySchema(_ *types.Registry, def value.Value) *jsonschema.Schema {
	typeName := ""

	if def.Kind() == value.KindString {
		typeName = def.String()
	} else if def.Kind() == value.KindMapping {
		typeName = def.Mapping().GetOr("type", value.NewNull()).String()
	}

	s := &jsonschema.Schema{Type: "object", AdditionalProperties: magicschema.TrueSchema()}
	if typeName != "" {
		s.Description = "capability: " + typeName
	}

	return s
}

// requirementSchema renders the short-form requirement-key schema: a
// node name, a relationship type/template name, or the full mapping
// form (node/capability/relationship/node_filter/occurrences).
func requirementSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Types: []string{"string", "object"},
		Properties: map[string]*jsonschema.Schema{
			"node":         {Type: "string"},
			"capability":   {Type: "string"},
			"relationship": {Types: []string{"string", "object"}},
			"node_filter":  {Type: "object", AdditionalProperties: magicschema.TrueSchema()},
			"occurrences":  {Type: "array", Items: &jsonschema.Schema{Types: []string{"integer", "string"}}},
		},
		PropertyOrder:        []string{"node", "capability", "relationship", "node_filter", "occurrences"},
		AdditionalProperties: magicschema.FalseSchema(),
	}
}

// propertySchema converts a CORE [schema.Schema] (spec.md §4.C) into its
// JSON Schema equivalent: type mapping, description, and default value
// when present. Constraints are not re-expressed in JSON Schema terms --
// they already have a precise evaluator in the schema package, and
// editor tooling only needs shape, not re-validation.
func propertySchema(s *schema.Schema) *jsonschema.Schema {
	js := &jsonschema.Schema{}

	switch s.Type {
	case schema.TypeString, schema.TypeVersion, schema.TypeTimestamp:
		js.Type = "string"
	case schema.TypeInteger:
		js.Type = "integer"
	case schema.TypeFloat:
		js.Type = "number"
	case schema.TypeBoolean:
		js.Type = "boolean"
	case schema.TypeList, schema.TypeRange:
		js.Type = "array"

		if s.EntrySchema != nil {
			js.Items = propertySchema(s.EntrySchema)
		}
	case schema.TypeMap:
		js.Type = "object"
		js.AdditionalProperties = magicschema.TrueSchema()

		if s.EntrySchema != nil {
			js.AdditionalProperties = propertySchema(s.EntrySchema)
		}
	case schema.TypeAny:
		// No type restriction: any is deliberately unconstrained.
	default:
		// A user-defined data type name: rendered as an open object: its
		// own property definitions live in the registry under that name
		// and would require a second Generate call to expand.
		js.Type = "object"
		js.AdditionalProperties = magicschema.TrueSchema()
		js.Description = firstNonEmpty(js.Description, "data type: "+s.Type)
	}

	js.Description = firstNonEmpty(s.Description, js.Description)

	if s.HasDefault {
		js.Default = s.Default.Native()
	}

	return js
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}

	return b
}
