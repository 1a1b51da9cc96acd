// Package template implements entity-template instantiation, requirement
// resolution, and interface/operation merging: spec.md §4.F, §4.G, and
// §4.J, plus the supplemented group/policy/artifact features SPEC_FULL.md
// adds.
//
// [NodeTemplate], [RelationshipTemplate], [Group], and [Policy] all share
// the instantiation shape spec.md §4.F describes: resolve the template's
// type, materialize properties by layering template assignment over type
// default over "missing" (§4.F step 2, see [MaterializeProperties]),
// instantiate declared capabilities (step 3, see [BuildCapabilities]),
// build interface operations (step 4, see [BuildInterfaces] in
// interface.go), and collect artifacts (step 5, see [BuildArtifacts]).
//
// [ResolveRequirements] implements §4.G's requirement-to-target matching
// and relationship-template synthesis, including the declared -> matched
// -> bound/missing/skipped state machine spec.md names.
package template
