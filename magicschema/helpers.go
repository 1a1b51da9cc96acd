package magicschema

import "github.com/google/jsonschema-go/jsonschema"

// TrueSchema returns a schema that validates everything (marshals to JSON true).
func TrueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{}
}

// FalseSchema returns a schema that validates nothing (marshals to JSON false).
func FalseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
