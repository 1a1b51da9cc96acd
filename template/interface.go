package template

import "github.com/onecommons/tosca-parser-go/value"

// reservedInterfaceKeys are the shared, non-operation keys an interface
// definition mapping may carry (spec.md §4.J). Every other key is an
// operation name.
var reservedInterfaceKeys = map[string]bool{
	"type":           true,
	"inputs":         true,
	"implementation": true,
}

// OperationDef is one interface operation, with the interface-level
// shared inputs/implementation already folded in (spec.md §4.J step 4's
// "downstream code can treat per-operation and shared data uniformly").
type OperationDef struct {
	Name           string
	Implementation value.Value
	Inputs         *value.Mapping // input assignments (values)
	InputDefs      *value.Mapping // input schemas (definitions, name -> schema-shaped mapping)
	Outputs        *value.Mapping
	EntryState     value.Value
}

// Interface is a fully merged, instantiated interface: every ancestor
// type's contribution unioned by operation name (most-derived wins,
// already folded in by [types.MergedField]'s recursive mode before this
// package ever sees the value), plus a synthetic "default" operation.
type Interface struct {
	Name       string
	Type       string
	Operations map[string]*OperationDef
}

// BuildInterfaces instantiates every interface in mergedTypeIfaces (a
// node/relationship type's ancestor-merged Interfaces field), overlaying
// any template-level interface assignment (templateOverrides, a node
// template's own `interfaces:` section) on top, template wins on
// conflicts (spec.md §3 "Merged definitions": template override wins).
func BuildInterfaces(mergedTypeIfaces, templateOverrides value.Value) map[string]*Interface {
	combined := value.Merge(mergedTypeIfaces, templateOverrides, value.MergeOptions{})
	if combined.Kind() != value.KindMapping {
		return map[string]*Interface{}
	}

	out := make(map[string]*Interface)

	combined.Mapping().Range(func(name string, def value.Value) bool {
		out[name] = buildOneInterface(name, def)

		return true
	})

	return out
}

func buildOneInterface(name string, def value.Value) *Interface {
	iface := &Interface{Name: name, Operations: make(map[string]*OperationDef)}

	if def.Kind() != value.KindMapping {
		return iface
	}

	m := def.Mapping()
	iface.Type = m.GetOr("type", value.NewNull()).String()

	sharedImpl := m.GetOr("implementation", value.NewNull())
	sharedAssign, sharedDefs := splitInputs(m.GetOr("inputs", value.NewNull()))

	for _, key := range m.Keys() {
		if reservedInterfaceKeys[key] {
			continue
		}

		raw, _ := m.Get(key)
		iface.Operations[key] = buildOperation(key, raw, sharedAssign, sharedDefs, sharedImpl)
	}

	// Synthetic "default" operation carrying the interface-level shared
	// data (spec.md §4.J step 4).
	iface.Operations["default"] = &OperationDef{
		Name:           "default",
		Implementation: sharedImpl,
		Inputs:         sharedAssign.Clone(),
		InputDefs:      sharedDefs.Clone(),
		Outputs:        value.NewMappingData(),
	}

	return iface
}

// splitInputs implements spec.md §4.J step 2: a mapping entry is a
// schema *definition* if it is itself a mapping carrying a "type" key,
// otherwise it is an assignment (a value).
func splitInputs(v value.Value) (assignments, defs *value.Mapping) {
	assignments = value.NewMappingData()
	defs = value.NewMappingData()

	if v.Kind() != value.KindMapping {
		return assignments, defs
	}

	v.Mapping().Range(func(k string, val value.Value) bool {
		if val.Kind() == value.KindMapping && val.Mapping().Has("type") {
			defs.Set(k, val)
		} else {
			assignments.Set(k, val)
		}

		return true
	})

	return assignments, defs
}

func buildOperation(name string, raw value.Value, sharedAssign, sharedDefs *value.Mapping, sharedImpl value.Value) *OperationDef {
	op := &OperationDef{
		Name:           name,
		Implementation: sharedImpl,
		Inputs:         sharedAssign.Clone(),
		InputDefs:      sharedDefs.Clone(),
		Outputs:        value.NewMappingData(),
	}

	if raw.Kind() != value.KindMapping {
		// Shorthand form: the operation value is itself the
		// implementation (a string or sequence of artifact names).
		if !raw.IsNull() {
			op.Implementation = raw
		}

		return op
	}

	m := raw.Mapping()

	if impl, ok := m.Get("implementation"); ok {
		op.Implementation = impl
	}

	if es, ok := m.Get("entry_state"); ok {
		op.EntryState = es
	}

	if ins, ok := m.Get("inputs"); ok {
		a, d := splitInputs(ins)
		a.Range(func(k string, v value.Value) bool { op.Inputs.Set(k, v); return true })
		d.Range(func(k string, v value.Value) bool { op.InputDefs.Set(k, v); return true })
	}

	if outs, ok := m.Get("outputs"); ok && outs.Kind() == value.KindMapping {
		outs.Mapping().Range(func(outName string, outVal value.Value) bool {
			op.Outputs.Set(outName, normalizeOutput(outVal))

			return true
		})
	}

	return op
}

// normalizeOutput wraps a bare-value output as {value: v} and returns a
// mapping-form output unchanged. It sees one output value at a time and
// does not combine a bare-value form with a mapping form given elsewhere
// for the same output.
func normalizeOutput(v value.Value) value.Value {
	if v.Kind() == value.KindMapping {
		return v
	}

	return value.NewMapping(value.MappingOf(value.KV{Key: "value", Value: v}))
}
