package value

// MergeOptions configures [Merge]'s list semantics.
type MergeOptions struct {
	// AppendLists makes sequence values append (overlay items not already
	// present in base are appended) instead of the default replace-wins
	// behavior.
	AppendLists bool
}

// Merge recursively applies overlay onto base: overlay wins on leaves: where
// both sides are mappings the result recurses key by key, and where both
// sides are sequences the overlay replaces the base unless opts requests
// append semantics. Two merged mappings give a new mapping with base's keys
// in base's order followed by overlay's new keys, and no provenance; in
// every other case the winning Value is returned as it is.
func Merge(base, overlay Value, opts MergeOptions) Value {
	if overlay.IsNull() {
		return base
	}

	if base.IsNull() {
		return overlay
	}

	if base.Kind() == KindMapping && overlay.Kind() == KindMapping {
		return NewMapping(mergeMappings(base.Mapping(), overlay.Mapping(), opts))
	}

	if base.Kind() == KindSequence && overlay.Kind() == KindSequence && opts.AppendLists {
		return NewSequence(appendMissing(base.Sequence(), overlay.Sequence())...)
	}

	return overlay
}

func mergeMappings(base, overlay *Mapping, opts MergeOptions) *Mapping {
	out := NewMappingData()

	base.Range(func(k string, v Value) bool {
		out.Set(k, v)

		return true
	})

	overlay.Range(func(k string, ov Value) bool {
		if bv, ok := out.Get(k); ok {
			out.Set(k, Merge(bv, ov, opts))
		} else {
			out.Set(k, ov)
		}

		return true
	})

	return out
}

// appendMissing returns base followed by every item in overlay that is not
// structurally Equal to an item already in base.
func appendMissing(base, overlay []Value) []Value {
	out := make([]Value, len(base), len(base)+len(overlay))
	copy(out, base)

	for _, item := range overlay {
		found := false

		for _, existing := range base {
			if Equal(existing, item) {
				found = true

				break
			}
		}

		if !found {
			out = append(out, item)
		}
	}

	return out
}
