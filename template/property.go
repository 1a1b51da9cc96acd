package template

import (
	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/schema"
	"github.com/onecommons/tosca-parser-go/value"
)

// MaterializeProperties implements spec.md §4.F step 2: starting from a
// type's (already ancestor-merged) property definitions, for each
// property use the template's assigned value, else the type's default,
// else record it missing if required. A template-assigned name the type
// does not declare is rejected unless additionalProperties allows it.
func MaterializeProperties(
	typeDefs value.Value, // mapping: name -> property definition (schema shape)
	assigned *value.Mapping, // template's own property assignments (may be nil)
	additionalProperties bool,
	loc errcol.Location,
	collector *errcol.Collector,
) *value.Mapping {
	result := value.NewMappingData()
	declared := make(map[string]bool)

	if typeDefs.Kind() == value.KindMapping {
		typeDefs.Mapping().Range(func(name string, def value.Value) bool {
			declared[name] = true

			s, err := schema.FromValue(def)
			if err != nil {
				collector.Appendf(errcol.KindInvalidSchema, withPath(loc, name), "%v", err)

				return true
			}

			if assigned != nil {
				if av, ok := assigned.Get(name); ok {
					for _, verr := range s.ValidateAll(av) {
						collector.Appendf(errcol.KindValidationError, withPath(loc, name), "%v", verr)
					}

					result.Set(name, av)

					return true
				}
			}

			if s.HasDefault {
				result.Set(name, s.Default)

				return true
			}

			if s.Required {
				collector.Appendf(errcol.KindMissingRequiredField, withPath(loc, name), "required property %q is missing", name)
			}

			return true
		})
	}

	if assigned != nil {
		assigned.Range(func(name string, v value.Value) bool {
			if declared[name] {
				return true
			}

			if additionalProperties {
				result.Set(name, v)
			} else {
				collector.Appendf(errcol.KindUnknownField, withPath(loc, name), "unknown property %q", name)
			}

			return true
		})
	}

	return result
}

func withPath(loc errcol.Location, suffix string) errcol.Location {
	if loc.Path == "" {
		loc.Path = suffix
	} else {
		loc.Path = loc.Path + "." + suffix
	}

	return loc
}
