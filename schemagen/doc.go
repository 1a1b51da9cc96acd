// Package schemagen synthesizes a JSON Schema (Draft 7) describing the
// expected shape of a node template instantiating a given TOSCA type.
//
// It is adapted from [github.com/onecommons/tosca-parser-go/magicschema],
// repurposing that package's union-merge algorithm from "merge schemas
// inferred from several example YAML documents" to "merge schemas
// contributed by several ancestors in a derived_from chain": the same
// shape of problem (combine N partial schemas, most-specific wins), in
// the TOSCA domain instead of the Helm-values domain.
//
// Typical usage loads a document with [github.com/onecommons/tosca-parser-go/tosca.Parse],
// then asks for the editor-facing shape of one of its types:
//
//	model, err := tosca.Parse(path, opts)
//	sch, err := schemagen.Generate(model.Registry, "tosca.nodes.Database@example.yaml", schemagen.Options{})
package schemagen
