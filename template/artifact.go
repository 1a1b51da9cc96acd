package template

import (
	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/value"
)

// Artifact is an instantiated artifact: a type-declared "required
// artifact shape" (no file) combined with whatever a template supplies
// to satisfy it, or a template-only artifact (spec.md §4.F step 5;
// SPEC_FULL.md's supplemented-features section).
type Artifact struct {
	Name       string
	Type       string
	File       string
	Repository string
	Raw        value.Value
}

// BuildArtifacts combines typeArtifacts (a type's ancestor-merged
// Artifacts field, which may declare required shapes with no `file`)
// with templateArtifacts (a template's own `artifacts:` section, template
// wins) and validates that every resulting artifact ends up with a file.
func BuildArtifacts(typeArtifacts, templateArtifacts value.Value, loc errcol.Location, collector *errcol.Collector) map[string]*Artifact {
	combined := value.Merge(typeArtifacts, templateArtifacts, value.MergeOptions{})

	out := make(map[string]*Artifact)

	if combined.Kind() != value.KindMapping {
		return out
	}

	combined.Mapping().Range(func(name string, def value.Value) bool {
		a := &Artifact{Name: name, Raw: def}

		switch def.Kind() {
		case value.KindMapping:
			a.Type = def.Mapping().GetOr("type", value.NewNull()).String()
			a.File = def.Mapping().GetOr("file", value.NewNull()).String()
			a.Repository = def.Mapping().GetOr("repository", value.NewNull()).String()
		case value.KindString:
			a.File = def.String()
		}

		if a.File == "" {
			collector.Appendf(errcol.KindMissingRequiredField, withPath(loc, "artifacts."+name),
				"artifact %q has no file: a required artifact shape was never filled in by the template", name)
		}

		out[name] = a

		return true
	})

	return out
}
