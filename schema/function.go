package schema

import "github.com/onecommons/tosca-parser-go/value"

// intrinsicFunctions are the TOSCA intrinsic function names spec.md §9
// says must be treated as opaque during property validation: their shape
// is recorded, but they are never evaluated by the core.
var intrinsicFunctions = map[string]bool{
	"concat":              true,
	"join":                true,
	"token":                true,
	"get_input":           true,
	"get_property":        true,
	"get_attribute":       true,
	"get_operation_output": true,
	"get_nodes_of_type":   true,
	"get_artifact":        true,
	"get_env":             true,
}

// IsFunction reports whether v is shaped like a TOSCA intrinsic function
// expression: a single-key mapping whose key is a recognized function
// name. Constraints validate vacuously against such values (spec.md §4.C,
// §9) rather than rejecting them or trying to evaluate them.
func IsFunction(v value.Value) bool {
	if v.Kind() != value.KindMapping {
		return false
	}

	m := v.Mapping()
	if m.Len() != 1 {
		return false
	}

	return intrinsicFunctions[m.Keys()[0]]
}
