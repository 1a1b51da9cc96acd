package template

import (
	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// Capability is an instantiated capability object on a node template
// (spec.md §4.F step 3): its declaring type plus materialized property
// values (defaults composed with template-level overrides).
type Capability struct {
	Name       string
	Type       string
	Properties *value.Mapping
}

// BuildCapabilities instantiates every capability declared by capDecls
// (a node type's ancestor-merged Capabilities field: mapping name ->
// {type, properties?, ...}), composing each one's default property
// overrides with any template-level override under the same name in
// templateOverrides (a node template's own `capabilities:` section).
func BuildCapabilities(
	reg *types.Registry,
	ns *namespace.Namespace,
	capDecls value.Value,
	templateOverrides *value.Mapping,
	loc errcol.Location,
	collector *errcol.Collector,
) map[string]*Capability {
	out := make(map[string]*Capability)

	if capDecls.Kind() != value.KindMapping {
		return out
	}

	capDecls.Mapping().Range(func(name string, decl value.Value) bool {
		out[name] = buildOneCapability(reg, ns, name, decl, templateOverrides, loc, collector)

		return true
	})

	return out
}

func buildOneCapability(
	reg *types.Registry,
	ns *namespace.Namespace,
	name string,
	decl value.Value,
	templateOverrides *value.Mapping,
	loc errcol.Location,
	collector *errcol.Collector,
) *Capability {
	capType := ""

	var typePropDefs value.Value = value.NewNull()

	if decl.Kind() == value.KindMapping {
		capType = decl.Mapping().GetOr("type", value.NewNull()).String()

		if capTypeDef, ok := reg.FindType(ns.Resolve(capType)); ok {
			merged := types.Definition(reg, capTypeDef)
			typePropDefs = merged.Properties
		}
	}

	assigned := value.NewMappingData()

	if decl.Kind() == value.KindMapping {
		if defaults, ok := decl.Mapping().Get("properties"); ok && defaults.Kind() == value.KindMapping {
			assigned = defaults.Mapping().Clone()
		}
	}

	if templateOverrides != nil {
		if override, ok := templateOverrides.Get(name); ok && override.Kind() == value.KindMapping {
			if props, ok := override.Mapping().Get("properties"); ok && props.Kind() == value.KindMapping {
				props.Mapping().Range(func(k string, v value.Value) bool {
					assigned.Set(k, v)

					return true
				})
			}
		}
	}

	propLoc := withPath(loc, "capabilities."+name)
	props := MaterializeProperties(typePropDefs, assigned, true, propLoc, collector)

	return &Capability{Name: name, Type: capType, Properties: props}
}
