package types

import "github.com/onecommons/tosca-parser-go/value"

// MergeMode selects one of the two ancestor-merging behaviors spec.md
// §4.D names.
type MergeMode int

const (
	// ModeMergeRecursive merges mapping values recursively, including
	// any nested metadata sub-keys, with the more-derived side winning
	// on every leaf. Used for property/attribute/interface definition
	// inheritance (spec.md §4.D).
	ModeMergeRecursive MergeMode = iota
	// ModeAppendMissing only fills in keys the more-derived side does
	// not already declare; keys present on both sides keep the
	// more-derived side's value untouched (no recursion into them).
	ModeAppendMissing
	// ModeAppendList keeps base's sequence items and appends the overlay
	// items base does not already contain (by structural equality). Used
	// for ancestor-chain requirement-list inheritance, where
	// Requirements is a sequence of single-key mappings rather than a
	// mapping itself.
	ModeAppendList
)

// FieldSelector extracts one field (Properties, Capabilities, ...) from
// an EntityType, for use with [MergedField].
type FieldSelector func(*EntityType) value.Value

// MergedField computes the effective value of a field across t's
// ancestor chain: t's own value wins over its parents', and within the
// chain, a more-derived ancestor always wins over a more-base one
// (spec.md §3 "Merged definitions", §4.D).
func MergedField(r *Registry, t *EntityType, sel FieldSelector, mode MergeMode) value.Value {
	ancestors := r.Ancestors(t) // self first, most-derived to most-base

	acc := value.NewNull()

	for _, anc := range ancestors {
		acc = combine(sel(anc), acc, mode)
	}

	return acc
}

// combine merges base (an ancestor's own field value) with overlay (the
// accumulated, more-derived result so far), overlay always winning.
func combine(base, overlay value.Value, mode MergeMode) value.Value {
	switch mode {
	case ModeAppendMissing:
		return appendMissingKeys(base, overlay)
	case ModeAppendList:
		return value.Merge(base, overlay, value.MergeOptions{AppendLists: true})
	default:
		return value.Merge(base, overlay, value.MergeOptions{})
	}
}

// appendMissingKeys returns overlay with any of base's keys it does not
// already declare appended, unmerged. If either side is not a mapping,
// overlay wins outright when non-null, else base is returned.
func appendMissingKeys(base, overlay value.Value) value.Value {
	if overlay.IsNull() {
		return base
	}

	if base.IsNull() {
		return overlay
	}

	if base.Kind() != value.KindMapping || overlay.Kind() != value.KindMapping {
		return overlay
	}

	out := overlay.Mapping().Clone()

	base.Mapping().Range(func(k string, v value.Value) bool {
		if !out.Has(k) {
			out.Set(k, v)
		}

		return true
	})

	return value.NewMapping(out)
}

// Definition returns t's fully merged definition: every field merged
// across its ancestor chain with [ModeMergeRecursive], the mode spec.md
// §4.D says property/attribute/interface inheritance uses. This mirrors
// the original parser's `get_definition`, which is `get_value(ndtype,
// None, True, True, True)` -- ancestors walked, recursively merged.
func Definition(r *Registry, t *EntityType) *EntityType {
	return &EntityType{
		Name:         t.Name,
		Kind:         t.Kind,
		Source:       t.Source,
		Scope:        t.Scope,
		DerivedFrom:  t.DerivedFrom,
		Properties:   MergedField(r, t, func(e *EntityType) value.Value { return e.Properties }, ModeMergeRecursive),
		Attributes:   MergedField(r, t, func(e *EntityType) value.Value { return e.Attributes }, ModeMergeRecursive),
		Capabilities: MergedField(r, t, func(e *EntityType) value.Value { return e.Capabilities }, ModeMergeRecursive),
		Requirements: MergedField(r, t, func(e *EntityType) value.Value { return e.Requirements }, ModeAppendList),
		Interfaces:   MergedField(r, t, func(e *EntityType) value.Value { return e.Interfaces }, ModeMergeRecursive),
		Artifacts:    MergedField(r, t, func(e *EntityType) value.Value { return e.Artifacts }, ModeMergeRecursive),
		Metadata:     MergedField(r, t, func(e *EntityType) value.Value { return e.Metadata }, ModeMergeRecursive),
	}
}
